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
	"math"
	"sort"
	"strings"

	"github.com/ani123rud/ACE/internal/rag/internal/domain"
	"github.com/ani123rud/ACE/internal/rag/internal/index"
	"github.com/ani123rud/ACE/internal/rag/internal/repository"
	"github.com/ani123rud/ACE/internal/rag/internal/repository/cache"
	"github.com/gotomicro/ego/core/elog"
)

const (
	// 最多返回几段参考资料
	maxPassages = 5
	// 单段参考资料的长度上限
	maxPassageLen = 500
)

// Embedder 生成文本向量，兜底检索用。
// ollama 客户端天然满足这个接口。
type Embedder interface {
	Embed(ctx context.Context, model, text string) ([]float64, error)
}

// RetrieverService 是旁路缓存（cache-aside）的上下文检索：
// 先查缓存，未命中走向量索引并回填；索引不可用时退化成
// 行内向量余弦相似度兜底。缓存故障只降级为不缓存，不报错。
type RetrieverService interface {
	Context(ctx context.Context, dom, query string) []string
	Query(ctx context.Context, dom, question string) (domain.QueryResult, error)
	GenerateQuestions(ctx context.Context, dom string, count int) ([]domain.GeneratedQuestion, error)
	Domains(ctx context.Context) ([]string, error)
}

type retrieverService struct {
	cache      cache.ContextCache
	idx        index.Client
	embedder   Embedder
	embedModel string
	repo       repository.MaterialRepository
	logger     *elog.Component
}

func NewRetrieverService(c cache.ContextCache,
	idx index.Client,
	embedder Embedder,
	embedModel string,
	repo repository.MaterialRepository) RetrieverService {
	return &retrieverService{
		cache:      c,
		idx:        idx,
		embedder:   embedder,
		embedModel: embedModel,
		repo:       repo,
		logger:     elog.DefaultLogger.With(elog.String("component", "retriever")),
	}
}

func (s *retrieverService) Context(ctx context.Context, dom, query string) []string {
	passages, err := s.cache.Get(ctx, dom, query)
	if err == nil && len(passages) > 0 {
		return passages
	}

	res, err := s.idx.Query(ctx, dom, query)
	if err == nil {
		passages = s.toPassages(res.Sources)
		if len(passages) > 0 {
			// 回填失败只影响下一次命中率，不影响本次结果
			if err := s.cache.Set(ctx, dom, query, passages); err != nil {
				s.logger.Warn("回填检索缓存失败", elog.FieldErr(err))
			}
			return passages
		}
	} else {
		s.logger.Warn("向量索引查询失败，尝试兜底检索", elog.FieldErr(err))
	}

	return s.fallback(ctx, dom, query)
}

// toPassages 按索引返回的相关度顺序取前几段并截断
func (s *retrieverService) toPassages(sources []domain.Source) []string {
	passages := make([]string, 0, maxPassages)
	for _, src := range sources {
		text := strings.TrimSpace(src.Text)
		if text == "" {
			continue
		}
		if runes := []rune(text); len(runes) > maxPassageLen {
			text = string(runes[:maxPassageLen])
		}
		passages = append(passages, text)
		if len(passages) >= maxPassages {
			break
		}
	}
	return passages
}

// fallback 用行内向量做余弦相似度检索
func (s *retrieverService) fallback(ctx context.Context, dom, query string) []string {
	embedding, err := s.embedder.Embed(ctx, s.embedModel, query)
	if err != nil {
		s.logger.Warn("生成查询向量失败", elog.FieldErr(err))
		return nil
	}
	materials, err := s.repo.FindByDomain(ctx, dom)
	if err != nil {
		s.logger.Warn("查询语料失败", elog.FieldErr(err))
		return nil
	}
	type scored struct {
		text  string
		score float64
	}
	candidates := make([]scored, 0, len(materials))
	for _, m := range materials {
		candidates = append(candidates, scored{
			text:  m.Text,
			score: cosine(embedding, m.Embedding),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	passages := make([]string, 0, maxPassages)
	for _, c := range candidates {
		if len(passages) >= maxPassages {
			break
		}
		text := c.text
		if runes := []rune(text); len(runes) > maxPassageLen {
			text = string(runes[:maxPassageLen])
		}
		passages = append(passages, text)
	}
	return passages
}

func (s *retrieverService) Query(ctx context.Context, dom, question string) (domain.QueryResult, error) {
	return s.idx.Query(ctx, dom, question)
}

func (s *retrieverService) GenerateQuestions(ctx context.Context, dom string, count int) ([]domain.GeneratedQuestion, error) {
	items, err := s.idx.GenerateQuestions(ctx, dom, count)
	if err != nil {
		return nil, err
	}
	res := make([]domain.GeneratedQuestion, 0, count)
	for _, it := range items {
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		difficulty := strings.ToLower(it.Difficulty)
		switch difficulty {
		case "easy", "medium", "hard":
		default:
			difficulty = "medium"
		}
		res = append(res, domain.GeneratedQuestion{Text: text, Difficulty: difficulty})
		if len(res) >= count {
			break
		}
	}
	return res, nil
}

func (s *retrieverService) Domains(ctx context.Context) ([]string, error) {
	return s.repo.Domains(ctx)
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i, v := range a {
		if i < len(b) {
			dot += v * b[i]
		}
		na += v * v
	}
	for _, v := range b {
		nb += v * v
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + 1e-9)
}
