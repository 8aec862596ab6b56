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

// ProctorLog 行为信号表，只追加。At 用毫秒时间戳，
// 可信分的去重窗口靠它计算。
type ProctorLog struct {
	ID        int64  `gorm:"primaryKey,autoIncrement"`
	SessionID int64  `gorm:"index:idx_session_at"`
	Type      string `gorm:"type:varchar(32);NOT NULL"`
	Data      string `gorm:"type:TEXT"`
	Severity  string `gorm:"type:varchar(16)"`
	At        int64  `gorm:"index:idx_session_at"`
	Ctime     int64
	Utime     int64
}

func (ProctorLog) TableName() string {
	return "proctor_logs"
}

type ProctorLogDAO interface {
	Create(ctx context.Context, l ProctorLog) (int64, error)
	FindBySession(ctx context.Context, sessionID int64) ([]ProctorLog, error)
}

type GORMProctorLogDAO struct {
	db *egorm.Component
}

func NewGORMProctorLogDAO(db *egorm.Component) ProctorLogDAO {
	return &GORMProctorLogDAO{db: db}
}

func (g *GORMProctorLogDAO) Create(ctx context.Context, l ProctorLog) (int64, error) {
	now := time.Now().UnixMilli()
	l.Ctime = now
	l.Utime = now
	err := g.db.WithContext(ctx).Create(&l).Error
	return l.ID, err
}

func (g *GORMProctorLogDAO) FindBySession(ctx context.Context, sessionID int64) ([]ProctorLog, error) {
	var res []ProctorLog
	err := g.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("at ASC").Find(&res).Error
	return res, err
}
