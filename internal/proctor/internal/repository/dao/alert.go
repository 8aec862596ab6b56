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
	"gorm.io/gorm/clause"
)

// Alert 告警表。(session_id, type, at) 唯一，
// 流消息重复投递时落库自然幂等。
type Alert struct {
	ID          int64  `gorm:"primaryKey,autoIncrement"`
	SessionID   int64  `gorm:"uniqueIndex:uniq_session_type_at;index:idx_alert_session"`
	Type        string `gorm:"type:varchar(32);uniqueIndex:uniq_session_type_at"`
	Message     string `gorm:"type:varchar(512)"`
	Severity    string `gorm:"type:varchar(16)"`
	At          int64  `gorm:"uniqueIndex:uniq_session_type_at"`
	EvidenceURL string `gorm:"type:varchar(512)"`
	Ctime       int64
	Utime       int64
}

func (Alert) TableName() string {
	return "alerts"
}

type AlertDAO interface {
	Upsert(ctx context.Context, a Alert) error
	FindBySession(ctx context.Context, sessionID int64, limit int) ([]Alert, error)
}

type GORMAlertDAO struct {
	db *egorm.Component
}

func NewGORMAlertDAO(db *egorm.Component) AlertDAO {
	return &GORMAlertDAO{db: db}
}

func (g *GORMAlertDAO) Upsert(ctx context.Context, a Alert) error {
	now := time.Now().UnixMilli()
	a.Ctime = now
	a.Utime = now
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&a).Error
}

func (g *GORMAlertDAO) FindBySession(ctx context.Context, sessionID int64, limit int) ([]Alert, error) {
	var res []Alert
	err := g.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("at DESC").Limit(limit).Find(&res).Error
	return res, err
}
