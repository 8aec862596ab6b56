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

type Question struct {
	ID         int64  `gorm:"primaryKey,autoIncrement"`
	Domain     string `gorm:"type:varchar(128);index:idx_question_domain"`
	Text       string `gorm:"type:TEXT;NOT NULL"`
	Difficulty string `gorm:"type:varchar(16);index:idx_question_difficulty"`
	Source     string `gorm:"type:varchar(32)"`
	Ctime      int64
	Utime      int64
}

func (Question) TableName() string {
	return "interview_questions"
}

type QuestionDAO interface {
	Create(ctx context.Context, q Question) (int64, error)
	BatchCreate(ctx context.Context, qs []Question) ([]Question, error)
	FindByID(ctx context.Context, id int64) (Question, error)
	FindByText(ctx context.Context, dom, text string) (Question, error)
	FindByDomain(ctx context.Context, dom string) ([]Question, error)
	// FindAvailable 按领域取还没问过的题，difficulty 为空表示不限难度
	FindAvailable(ctx context.Context, dom, difficulty string, excluded []int64) ([]Question, error)
}

type GORMQuestionDAO struct {
	db *egorm.Component
}

func NewGORMQuestionDAO(db *egorm.Component) QuestionDAO {
	return &GORMQuestionDAO{db: db}
}

func (g *GORMQuestionDAO) Create(ctx context.Context, q Question) (int64, error) {
	now := time.Now().UnixMilli()
	q.Ctime = now
	q.Utime = now
	err := g.db.WithContext(ctx).Create(&q).Error
	return q.ID, err
}

func (g *GORMQuestionDAO) BatchCreate(ctx context.Context, qs []Question) ([]Question, error) {
	now := time.Now().UnixMilli()
	for i := range qs {
		qs[i].Ctime = now
		qs[i].Utime = now
	}
	err := g.db.WithContext(ctx).Create(&qs).Error
	return qs, err
}

func (g *GORMQuestionDAO) FindByID(ctx context.Context, id int64) (Question, error) {
	var res Question
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	return res, err
}

func (g *GORMQuestionDAO) FindByText(ctx context.Context, dom, text string) (Question, error) {
	var res Question
	err := g.db.WithContext(ctx).
		Where("domain = ? AND text = ?", dom, text).First(&res).Error
	return res, err
}

func (g *GORMQuestionDAO) FindByDomain(ctx context.Context, dom string) ([]Question, error) {
	var res []Question
	err := g.db.WithContext(ctx).
		Where("domain = ?", dom).Find(&res).Error
	return res, err
}

func (g *GORMQuestionDAO) FindAvailable(ctx context.Context, dom, difficulty string, excluded []int64) ([]Question, error) {
	query := g.db.WithContext(ctx).Where("domain = ?", dom)
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if len(excluded) > 0 {
		query = query.Where("id NOT IN ?", excluded)
	}
	var res []Question
	err := query.Find(&res).Error
	return res, err
}
