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

package service

import (
	"context"

	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository"
)

// EventService 记录面试过程中的业务事件，供事后回放
type EventService interface {
	Record(ctx context.Context, event domain.InterviewEvent) (int64, error)
	List(ctx context.Context, sessionID int64) ([]domain.InterviewEvent, error)
}

type eventService struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) Record(ctx context.Context, event domain.InterviewEvent) (int64, error) {
	if event.Severity == "" {
		event.Severity = domain.SeverityLow
	}
	return s.repo.Create(ctx, event)
}

func (s *eventService) List(ctx context.Context, sessionID int64) ([]domain.InterviewEvent, error) {
	return s.repo.FindBySession(ctx, sessionID)
}
