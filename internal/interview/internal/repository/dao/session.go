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
	"gorm.io/gorm"
)

type Session struct {
	ID                int64   `gorm:"primaryKey,autoIncrement"`
	Candidate         string  `gorm:"type:varchar(128)"`
	Domain            string  `gorm:"type:varchar(128);index:idx_session_domain"`
	Difficulty        string  `gorm:"type:varchar(16)"`
	Status            string  `gorm:"type:varchar(16);index:idx_session_status"`
	CurrentQuestionID int64   `gorm:"column:current_question_id"`
	ProgressIndex     int     `gorm:"column:progress_index"`
	ProgressTotal     int     `gorm:"column:progress_total"`
	FinalReport       *string `gorm:"type:TEXT"`
	Ctime             int64
	Utime             int64
}

func (Session) TableName() string {
	return "interview_sessions"
}

type SessionDAO interface {
	Create(ctx context.Context, s Session) (int64, error)
	FindByID(ctx context.Context, id int64) (Session, error)
	UpdateCurrentQuestion(ctx context.Context, id, questionID int64) error
	// IncrementProgress 作答落库之后进度加一
	IncrementProgress(ctx context.Context, id int64) error
	// MarkFinalizing 把进行中的会话标记为评分中，已结束的不受影响
	MarkFinalizing(ctx context.Context, id int64) error
	// SetFinalReport 只在报告还没写过的时候生效，
	// 返回 true 表示本次调用赢得了写入
	SetFinalReport(ctx context.Context, id int64, report string) (bool, error)
}

type GORMSessionDAO struct {
	db *egorm.Component
}

func NewGORMSessionDAO(db *egorm.Component) SessionDAO {
	return &GORMSessionDAO{db: db}
}

func (g *GORMSessionDAO) Create(ctx context.Context, s Session) (int64, error) {
	now := time.Now().UnixMilli()
	s.Ctime = now
	s.Utime = now
	err := g.db.WithContext(ctx).Create(&s).Error
	return s.ID, err
}

func (g *GORMSessionDAO) FindByID(ctx context.Context, id int64) (Session, error) {
	var res Session
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	return res, err
}

func (g *GORMSessionDAO) UpdateCurrentQuestion(ctx context.Context, id, questionID int64) error {
	return g.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_question_id": questionID,
			"utime":               time.Now().UnixMilli(),
		}).Error
}

func (g *GORMSessionDAO) IncrementProgress(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"progress_index": gorm.Expr("progress_index + 1"),
			"utime":          time.Now().UnixMilli(),
		}).Error
}

func (g *GORMSessionDAO) MarkFinalizing(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Model(&Session{}).
		Where("id = ? AND status = ?", id, "active").
		Updates(map[string]any{
			"status": "finalizing",
			"utime":  time.Now().UnixMilli(),
		}).Error
}

func (g *GORMSessionDAO) SetFinalReport(ctx context.Context, id int64, report string) (bool, error) {
	res := g.db.WithContext(ctx).Model(&Session{}).
		Where("id = ? AND final_report IS NULL", id).
		Updates(map[string]any{
			"final_report": report,
			"status":       "ended",
			"utime":        time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}
