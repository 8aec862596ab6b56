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

type SignalRepository interface {
	Create(ctx context.Context, signal domain.Signal) (int64, error)
	FindBySession(ctx context.Context, sessionID int64) ([]domain.Signal, error)
}

type signalRepository struct {
	dao dao.ProctorLogDAO
}

func NewSignalRepository(d dao.ProctorLogDAO) SignalRepository {
	return &signalRepository{dao: d}
}

func (r *signalRepository) Create(ctx context.Context, signal domain.Signal) (int64, error) {
	var data string
	if len(signal.Data) > 0 {
		bs, err := json.Marshal(signal.Data)
		if err != nil {
			return 0, err
		}
		data = string(bs)
	}
	return r.dao.Create(ctx, dao.ProctorLog{
		SessionID: signal.SessionID,
		Type:      string(signal.Type),
		Data:      data,
		Severity:  string(signal.Severity),
		At:        signal.At.UnixMilli(),
	})
}

func (r *signalRepository) FindBySession(ctx context.Context, sessionID int64) ([]domain.Signal, error) {
	logs, err := r.dao.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return slice.Map(logs, func(idx int, src dao.ProctorLog) domain.Signal {
		var data map[string]any
		if src.Data != "" {
			_ = json.Unmarshal([]byte(src.Data), &data)
		}
		return domain.Signal{
			ID:        src.ID,
			SessionID: src.SessionID,
			Type:      domain.SignalType(src.Type),
			Data:      data,
			Severity:  domain.Severity(src.Severity),
			At:        time.UnixMilli(src.At),
		}
	}), nil
}
