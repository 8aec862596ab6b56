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

var ErrAnswerNotFound = errors.New("作答不存在")

type AnswerRepository interface {
	Create(ctx context.Context, a domain.Answer) (int64, error)
	FindByID(ctx context.Context, id int64) (domain.Answer, error)
	FindBySession(ctx context.Context, sessionID int64) ([]domain.Answer, error)
	FindPending(ctx context.Context, sessionID int64) ([]domain.Answer, error)
	UpdateEvalIfUnset(ctx context.Context, id int64, score float64, feedback, nextDifficulty string) (bool, error)
}

type answerRepository struct {
	dao dao.AnswerDAO
}

func NewAnswerRepository(d dao.AnswerDAO) AnswerRepository {
	return &answerRepository{dao: d}
}

func (r *answerRepository) Create(ctx context.Context, a domain.Answer) (int64, error) {
	return r.dao.Create(ctx, dao.Answer{
		SessionID:  a.SessionID,
		QuestionID: a.QuestionID,
		Question:   a.Question,
		Text:       a.Text,
	})
}

func (r *answerRepository) FindByID(ctx context.Context, id int64) (domain.Answer, error) {
	a, err := r.dao.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Answer{}, ErrAnswerNotFound
	}
	if err != nil {
		return domain.Answer{}, err
	}
	return toDomainAnswer(0, a), nil
}

func (r *answerRepository) FindBySession(ctx context.Context, sessionID int64) ([]domain.Answer, error) {
	as, err := r.dao.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return slice.Map(as, toDomainAnswer), nil
}

func (r *answerRepository) FindPending(ctx context.Context, sessionID int64) ([]domain.Answer, error) {
	as, err := r.dao.FindPending(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return slice.Map(as, toDomainAnswer), nil
}

func (r *answerRepository) UpdateEvalIfUnset(ctx context.Context, id int64, score float64, feedback, nextDifficulty string) (bool, error) {
	return r.dao.UpdateEvalIfUnset(ctx, id, score, feedback, nextDifficulty)
}

func toDomainAnswer(idx int, src dao.Answer) domain.Answer {
	return domain.Answer{
		ID:             src.ID,
		SessionID:      src.SessionID,
		QuestionID:     src.QuestionID,
		Question:       src.Question,
		Text:           src.Text,
		Score:          src.Score,
		Feedback:       src.Feedback,
		NextDifficulty: src.NextDifficulty,
	}
}
