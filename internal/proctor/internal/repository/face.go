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

	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository/dao"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrFaceRefNotFound = errors.New("人脸基准不存在")

type FaceRefRepository interface {
	Save(ctx context.Context, ref domain.FaceRef) error
	FindBySession(ctx context.Context, sessionID int64) (domain.FaceRef, error)
}

type faceRefRepository struct {
	dao dao.FaceRefDAO
}

func NewFaceRefRepository(d dao.FaceRefDAO) FaceRefRepository {
	return &faceRefRepository{dao: d}
}

func (r *faceRefRepository) Save(ctx context.Context, ref domain.FaceRef) error {
	embedding, err := json.Marshal(ref.Embedding)
	if err != nil {
		return err
	}
	return r.dao.Upsert(ctx, dao.FaceRef{
		SessionID: ref.SessionID,
		Embedding: string(embedding),
		Method:    ref.Method,
		Model:     ref.Model,
	})
}

func (r *faceRefRepository) FindBySession(ctx context.Context, sessionID int64) (domain.FaceRef, error) {
	ref, err := r.dao.FindBySession(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.FaceRef{}, ErrFaceRefNotFound
	}
	if err != nil {
		return domain.FaceRef{}, err
	}
	var embedding []float64
	if err := json.Unmarshal([]byte(ref.Embedding), &embedding); err != nil {
		return domain.FaceRef{}, errors.Wrap(err, "人脸基准数据损坏")
	}
	return domain.FaceRef{
		ID:        ref.ID,
		SessionID: ref.SessionID,
		Embedding: embedding,
		Method:    ref.Method,
		Model:     ref.Model,
	}, nil
}
