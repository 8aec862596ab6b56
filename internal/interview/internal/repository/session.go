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
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("会话不存在")

type SessionRepository interface {
	Create(ctx context.Context, s domain.Session) (int64, error)
	FindByID(ctx context.Context, id int64) (domain.Session, error)
	UpdateCurrentQuestion(ctx context.Context, id, questionID int64) error
	IncrementProgress(ctx context.Context, id int64) error
	MarkFinalizing(ctx context.Context, id int64) error
	SetFinalReport(ctx context.Context, id int64, report string) (bool, error)
}

type sessionRepository struct {
	dao dao.SessionDAO
}

func NewSessionRepository(d dao.SessionDAO) SessionRepository {
	return &sessionRepository{dao: d}
}

func (r *sessionRepository) Create(ctx context.Context, s domain.Session) (int64, error) {
	return r.dao.Create(ctx, dao.Session{
		Candidate:     s.Candidate,
		Domain:        s.Domain,
		Difficulty:    s.Difficulty,
		Status:        string(s.Status),
		ProgressIndex: s.Progress.Index,
		ProgressTotal: s.Progress.Total,
	})
}

func (r *sessionRepository) FindByID(ctx context.Context, id int64) (domain.Session, error) {
	s, err := r.dao.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}
	res := domain.Session{
		ID:                s.ID,
		Candidate:         s.Candidate,
		Domain:            s.Domain,
		Difficulty:        s.Difficulty,
		Status:            domain.SessionStatus(s.Status),
		CurrentQuestionID: s.CurrentQuestionID,
		Progress: domain.Progress{
			Index: s.ProgressIndex,
			Total: s.ProgressTotal,
		},
	}
	if s.FinalReport != nil {
		res.FinalReport = *s.FinalReport
	}
	return res, nil
}

func (r *sessionRepository) UpdateCurrentQuestion(ctx context.Context, id, questionID int64) error {
	return r.dao.UpdateCurrentQuestion(ctx, id, questionID)
}

func (r *sessionRepository) IncrementProgress(ctx context.Context, id int64) error {
	return r.dao.IncrementProgress(ctx, id)
}

func (r *sessionRepository) MarkFinalizing(ctx context.Context, id int64) error {
	return r.dao.MarkFinalizing(ctx, id)
}

func (r *sessionRepository) SetFinalReport(ctx context.Context, id int64, report string) (bool, error) {
	return r.dao.SetFinalReport(ctx, id, report)
}
