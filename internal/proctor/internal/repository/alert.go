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

	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

type AlertRepository interface {
	Create(ctx context.Context, alert domain.Alert) error
	FindBySession(ctx context.Context, sessionID int64, limit int) ([]domain.Alert, error)
}

type alertRepository struct {
	dao dao.AlertDAO
}

func NewAlertRepository(d dao.AlertDAO) AlertRepository {
	return &alertRepository{dao: d}
}

func (r *alertRepository) Create(ctx context.Context, alert domain.Alert) error {
	return r.dao.Upsert(ctx, dao.Alert{
		SessionID:   alert.SessionID,
		Type:        alert.Type,
		Message:     alert.Message,
		Severity:    string(alert.Severity),
		At:          alert.At,
		EvidenceURL: alert.EvidenceURL,
	})
}

func (r *alertRepository) FindBySession(ctx context.Context, sessionID int64, limit int) ([]domain.Alert, error) {
	alerts, err := r.dao.FindBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(alerts, func(idx int, src dao.Alert) domain.Alert {
		return domain.Alert{
			ID:          src.ID,
			SessionID:   src.SessionID,
			Type:        src.Type,
			Message:     src.Message,
			Severity:    domain.Severity(src.Severity),
			At:          src.At,
			EvidenceURL: src.EvidenceURL,
		}
	}), nil
}
