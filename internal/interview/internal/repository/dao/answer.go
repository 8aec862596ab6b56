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

type Answer struct {
	ID         int64 `gorm:"primaryKey,autoIncrement"`
	SessionID  int64 `gorm:"index:idx_answer_session"`
	QuestionID int64
	Question   string `gorm:"type:TEXT"`
	Text       string `gorm:"type:TEXT"`
	// NULL 表示评估还没落地
	Score          *float64
	Feedback       string `gorm:"type:TEXT"`
	NextDifficulty string `gorm:"type:varchar(16)"`
	Ctime          int64
	Utime          int64
}

func (Answer) TableName() string {
	return "interview_answers"
}

type AnswerDAO interface {
	Create(ctx context.Context, a Answer) (int64, error)
	FindByID(ctx context.Context, id int64) (Answer, error)
	FindBySession(ctx context.Context, sessionID int64) ([]Answer, error)
	FindPending(ctx context.Context, sessionID int64) ([]Answer, error)
	// UpdateEvalIfUnset 只有第一次写入生效，重复评估是空操作
	UpdateEvalIfUnset(ctx context.Context, id int64, score float64, feedback, nextDifficulty string) (bool, error)
}

type GORMAnswerDAO struct {
	db *egorm.Component
}

func NewGORMAnswerDAO(db *egorm.Component) AnswerDAO {
	return &GORMAnswerDAO{db: db}
}

func (g *GORMAnswerDAO) Create(ctx context.Context, a Answer) (int64, error) {
	now := time.Now().UnixMilli()
	a.Ctime = now
	a.Utime = now
	err := g.db.WithContext(ctx).Create(&a).Error
	return a.ID, err
}

func (g *GORMAnswerDAO) FindByID(ctx context.Context, id int64) (Answer, error) {
	var res Answer
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	return res, err
}

func (g *GORMAnswerDAO) FindBySession(ctx context.Context, sessionID int64) ([]Answer, error) {
	var res []Answer
	err := g.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").Find(&res).Error
	return res, err
}

func (g *GORMAnswerDAO) FindPending(ctx context.Context, sessionID int64) ([]Answer, error) {
	var res []Answer
	err := g.db.WithContext(ctx).
		Where("session_id = ? AND score IS NULL", sessionID).
		Order("id ASC").Find(&res).Error
	return res, err
}

func (g *GORMAnswerDAO) UpdateEvalIfUnset(ctx context.Context, id int64, score float64, feedback, nextDifficulty string) (bool, error) {
	res := g.db.WithContext(ctx).Model(&Answer{}).
		Where("id = ? AND score IS NULL", id).
		Updates(map[string]any{
			"score":           score,
			"feedback":        feedback,
			"next_difficulty": nextDifficulty,
			"utime":           time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}
