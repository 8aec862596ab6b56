// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
)

// InterviewEvent 业务事件表，只追加，供事后回放
type InterviewEvent struct {
	ID        int64  `gorm:"primaryKey,autoIncrement"`
	SessionID int64  `gorm:"index:idx_event_session"`
	Type      string `gorm:"type:varchar(64);NOT NULL"`
	Payload   string `gorm:"type:TEXT"`
	Severity  string `gorm:"type:varchar(16)"`
	At        int64
	Ctime     int64
	Utime     int64
}

func (InterviewEvent) TableName() string {
	return "interview_events"
}

type InterviewEventDAO interface {
	Create(ctx context.Context, e InterviewEvent) (int64, error)
	FindBySession(ctx context.Context, sessionID int64) ([]InterviewEvent, error)
}

type GORMInterviewEventDAO struct {
	db *egorm.Component
}

func NewGORMInterviewEventDAO(db *egorm.Component) InterviewEventDAO {
	return &GORMInterviewEventDAO{db: db}
}

func (g *GORMInterviewEventDAO) Create(ctx context.Context, e InterviewEvent) (int64, error) {
	now := time.Now().UnixMilli()
	e.Ctime = now
	e.Utime = now
	err := g.db.WithContext(ctx).Create(&e).Error
	return e.ID, err
}

func (g *GORMInterviewEventDAO) FindBySession(ctx context.Context, sessionID int64) ([]InterviewEvent, error) {
	var res []InterviewEvent
	err := g.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("at ASC").Find(&res).Error
	return res, err
}
