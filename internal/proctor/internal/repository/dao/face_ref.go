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

// FaceRef 人脸基准表，一个会话一条，重复登记覆盖旧的
type FaceRef struct {
	ID        int64  `gorm:"primaryKey,autoIncrement"`
	SessionID int64  `gorm:"uniqueIndex:uniq_face_session"`
	Embedding string `gorm:"type:TEXT;NOT NULL"`
	Method    string `gorm:"type:varchar(32)"`
	Model     string `gorm:"type:varchar(64)"`
	Ctime     int64
	Utime     int64
}

func (FaceRef) TableName() string {
	return "face_refs"
}

type FaceRefDAO interface {
	Upsert(ctx context.Context, f FaceRef) error
	FindBySession(ctx context.Context, sessionID int64) (FaceRef, error)
}

type GORMFaceRefDAO struct {
	db *egorm.Component
}

func NewGORMFaceRefDAO(db *egorm.Component) FaceRefDAO {
	return &GORMFaceRefDAO{db: db}
}

func (g *GORMFaceRefDAO) Upsert(ctx context.Context, f FaceRef) error {
	now := time.Now().UnixMilli()
	f.Ctime = now
	f.Utime = now
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"embedding", "method", "model", "utime",
		}),
	}).Create(&f).Error
}

func (g *GORMFaceRefDAO) FindBySession(ctx context.Context, sessionID int64) (FaceRef, error) {
	var res FaceRef
	err := g.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&res).Error
	return res, err
}
