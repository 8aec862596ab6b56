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

	"github.com/ani123rud/ACE/internal/rag/internal/domain"
	"github.com/ani123rud/ACE/internal/rag/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

type MaterialRepository interface {
	Create(ctx context.Context, m domain.Material) (int64, error)
	FindByDomain(ctx context.Context, dom string) ([]domain.Material, error)
	Domains(ctx context.Context) ([]string, error)
}

type materialRepository struct {
	dao dao.MaterialDAO
}

func NewMaterialRepository(d dao.MaterialDAO) MaterialRepository {
	return &materialRepository{dao: d}
}

func (r *materialRepository) Create(ctx context.Context, m domain.Material) (int64, error) {
	return r.dao.Create(ctx, r.toEntity(m))
}

func (r *materialRepository) FindByDomain(ctx context.Context, dom string) ([]domain.Material, error) {
	ms, err := r.dao.FindByDomain(ctx, dom)
	if err != nil {
		return nil, err
	}
	return slice.Map(ms, func(_ int, src dao.Material) domain.Material {
		return r.toDomain(src)
	}), nil
}

func (r *materialRepository) Domains(ctx context.Context) ([]string, error) {
	return r.dao.Domains(ctx)
}

func (r *materialRepository) toEntity(m domain.Material) dao.Material {
	embedding, _ := json.Marshal(m.Embedding)
	return dao.Material{
		ID:        m.ID,
		Domain:    m.Domain,
		Text:      m.Text,
		Embedding: string(embedding),
		Source:    m.Source,
	}
}

func (r *materialRepository) toDomain(m dao.Material) domain.Material {
	var embedding []float64
	// 历史数据里可能有空串，解析失败当没有向量处理
	_ = json.Unmarshal([]byte(m.Embedding), &embedding)
	return domain.Material{
		ID:        m.ID,
		Domain:    m.Domain,
		Text:      m.Text,
		Embedding: embedding,
		Source:    m.Source,
	}
}
