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

package repository

import (
	"context"

	"github.com/ani123rud/ACE/internal/interview/internal/domain"
	"github.com/ani123rud/ACE/internal/interview/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrQuestionNotFound = errors.New("题目不存在")

type QuestionRepository interface {
	Create(ctx context.Context, q domain.Question) (int64, error)
	BatchCreate(ctx context.Context, qs []domain.Question) ([]domain.Question, error)
	FindByID(ctx context.Context, id int64) (domain.Question, error)
	FindByText(ctx context.Context, dom, text string) (domain.Question, error)
	FindByDomain(ctx context.Context, dom string) ([]domain.Question, error)
	FindAvailable(ctx context.Context, dom, difficulty string, excluded []int64) ([]domain.Question, error)
}

type questionRepository struct {
	dao dao.QuestionDAO
}

func NewQuestionRepository(d dao.QuestionDAO) QuestionRepository {
	return &questionRepository{dao: d}
}

func (r *questionRepository) Create(ctx context.Context, q domain.Question) (int64, error) {
	return r.dao.Create(ctx, toEntityQuestion(q))
}

func (r *questionRepository) BatchCreate(ctx context.Context, qs []domain.Question) ([]domain.Question, error) {
	entities := slice.Map(qs, func(idx int, src domain.Question) dao.Question {
		return toEntityQuestion(src)
	})
	created, err := r.dao.BatchCreate(ctx, entities)
	if err != nil {
		return nil, err
	}
	return slice.Map(created, toDomainQuestion), nil
}

func (r *questionRepository) FindByID(ctx context.Context, id int64) (domain.Question, error) {
	q, err := r.dao.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Question{}, ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	return toDomainQuestion(0, q), nil
}

func (r *questionRepository) FindByText(ctx context.Context, dom, text string) (domain.Question, error) {
	q, err := r.dao.FindByText(ctx, dom, text)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Question{}, ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	return toDomainQuestion(0, q), nil
}

func (r *questionRepository) FindByDomain(ctx context.Context, dom string) ([]domain.Question, error) {
	qs, err := r.dao.FindByDomain(ctx, dom)
	if err != nil {
		return nil, err
	}
	return slice.Map(qs, toDomainQuestion), nil
}

func (r *questionRepository) FindAvailable(ctx context.Context, dom, difficulty string, excluded []int64) ([]domain.Question, error) {
	qs, err := r.dao.FindAvailable(ctx, dom, difficulty, excluded)
	if err != nil {
		return nil, err
	}
	return slice.Map(qs, toDomainQuestion), nil
}

func toEntityQuestion(src domain.Question) dao.Question {
	return dao.Question{
		Domain:     src.Domain,
		Text:       src.Text,
		Difficulty: src.Difficulty,
		Source:     src.Source,
	}
}

func toDomainQuestion(idx int, src dao.Question) domain.Question {
	return domain.Question{
		ID:         src.ID,
		Domain:     src.Domain,
		Text:       src.Text,
		Difficulty: src.Difficulty,
		Source:     src.Source,
	}
}
