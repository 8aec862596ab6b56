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
	"encoding/json"
	"time"

	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.InterviewEvent) (int64, error)
	FindBySession(ctx context.Context, sessionID int64) ([]domain.InterviewEvent, error)
}

type eventRepository struct {
	dao dao.InterviewEventDAO
}

func NewEventRepository(d dao.InterviewEventDAO) EventRepository {
	return &eventRepository{dao: d}
}

func (r *eventRepository) Create(ctx context.Context, event domain.InterviewEvent) (int64, error) {
	var payload string
	if len(event.Payload) > 0 {
		bs, err := json.Marshal(event.Payload)
		if err != nil {
			return 0, err
		}
		payload = string(bs)
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	return r.dao.Create(ctx, dao.InterviewEvent{
		SessionID: event.SessionID,
		Type:      event.Type,
		Payload:   payload,
		Severity:  string(event.Severity),
		At:        event.At.UnixMilli(),
	})
}

func (r *eventRepository) FindBySession(ctx context.Context, sessionID int64) ([]domain.InterviewEvent, error) {
	events, err := r.dao.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return slice.Map(events, func(idx int, src dao.InterviewEvent) domain.InterviewEvent {
		var payload map[string]any
		if src.Payload != "" {
			_ = json.Unmarshal([]byte(src.Payload), &payload)
		}
		return domain.InterviewEvent{
			ID:        src.ID,
			SessionID: src.SessionID,
			Type:      src.Type,
			Payload:   payload,
			Severity:  domain.Severity(src.Severity),
			At:        time.UnixMilli(src.At),
		}
	}), nil
}
