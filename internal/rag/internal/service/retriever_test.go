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
	"strings"
	"testing"

	"github.com/ani123rud/ACE/internal/rag/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data     map[string][]string
	getErr   error
	setErr   error
	setCalls int
}

func (f *fakeCache) Get(_ context.Context, dom, query string) ([]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if v, ok := f.data[dom+"|"+query]; ok {
		return v, nil
	}
	return nil, errors.New("未命中")
}

func (f *fakeCache) Set(_ context.Context, dom, query string, passages []string) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	if f.data == nil {
		f.data = map[string][]string{}
	}
	f.data[dom+"|"+query] = passages
	return nil
}

type fakeIndex struct {
	queryRes   domain.QueryResult
	queryErr   error
	queryCalls int
	questions  []domain.GeneratedQuestion
	genErr     error
}

func (f *fakeIndex) Query(_ context.Context, _, _ string) (domain.QueryResult, error) {
	f.queryCalls++
	return f.queryRes, f.queryErr
}

func (f *fakeIndex) Ingest(_ context.Context, _ string, files []domain.IngestFile) (int, error) {
	return len(files), nil
}

func (f *fakeIndex) GenerateQuestions(_ context.Context, _ string, _ int) ([]domain.GeneratedQuestion, error) {
	return f.questions, f.genErr
}

type fakeEmbedder struct {
	embedding []float64
	err       error
}

func (f *fakeEmbedder) Embed(_ context.Context, _, _ string) ([]float64, error) {
	return f.embedding, f.err
}

type fakeMaterialRepo struct {
	materials []domain.Material
	err       error
}

func (f *fakeMaterialRepo) Create(_ context.Context, _ domain.Material) (int64, error) {
	return 0, errors.New("没实现")
}

func (f *fakeMaterialRepo) FindByDomain(_ context.Context, _ string) ([]domain.Material, error) {
	return f.materials, f.err
}

func (f *fakeMaterialRepo) Domains(_ context.Context) ([]string, error) {
	return nil, f.err
}

func TestRetriever_Context_CacheAside(t *testing.T) {
	t.Parallel()

	t.Run("缓存命中不碰索引", func(t *testing.T) {
		t.Parallel()
		c := &fakeCache{data: map[string][]string{
			"golang|什么是channel": {"cached passage"},
		}}
		idx := &fakeIndex{}
		svc := NewRetrieverService(c, idx, &fakeEmbedder{}, "embed-model", &fakeMaterialRepo{})
		got := svc.Context(context.Background(), "golang", "什么是channel")
		assert.Equal(t, []string{"cached passage"}, got)
		assert.Equal(t, 0, idx.queryCalls)
	})

	t.Run("未命中走索引并回填", func(t *testing.T) {
		t.Parallel()
		c := &fakeCache{}
		idx := &fakeIndex{queryRes: domain.QueryResult{Sources: []domain.Source{
			{Text: "  passage one  "},
			{Text: ""},
			{Text: "passage two"},
		}}}
		svc := NewRetrieverService(c, idx, &fakeEmbedder{}, "embed-model", &fakeMaterialRepo{})
		got := svc.Context(context.Background(), "golang", "goroutine")
		assert.Equal(t, []string{"passage one", "passage two"}, got)
		assert.Equal(t, 1, idx.queryCalls)
		// 回填之后再查直接命中
		assert.Equal(t, got, c.data["golang|goroutine"])
		again := svc.Context(context.Background(), "golang", "goroutine")
		assert.Equal(t, got, again)
		assert.Equal(t, 1, idx.queryCalls)
	})

	t.Run("最多5段且每段截断", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("字", 600)
		sources := make([]domain.Source, 0, 7)
		for i := 0; i < 7; i++ {
			sources = append(sources, domain.Source{Text: long})
		}
		c := &fakeCache{}
		idx := &fakeIndex{queryRes: domain.QueryResult{Sources: sources}}
		svc := NewRetrieverService(c, idx, &fakeEmbedder{}, "embed-model", &fakeMaterialRepo{})
		got := svc.Context(context.Background(), "golang", "q")
		require.Len(t, got, 5)
		for _, p := range got {
			assert.Len(t, []rune(p), 500)
		}
	})

	t.Run("回填失败不影响返回", func(t *testing.T) {
		t.Parallel()
		c := &fakeCache{setErr: errors.New("redis挂了")}
		idx := &fakeIndex{queryRes: domain.QueryResult{Sources: []domain.Source{{Text: "p"}}}}
		svc := NewRetrieverService(c, idx, &fakeEmbedder{}, "embed-model", &fakeMaterialRepo{})
		got := svc.Context(context.Background(), "golang", "q")
		assert.Equal(t, []string{"p"}, got)
		assert.Equal(t, 1, c.setCalls)
	})

	t.Run("索引不可用走余弦兜底", func(t *testing.T) {
		t.Parallel()
		c := &fakeCache{}
		idx := &fakeIndex{queryErr: errors.New("sidecar down")}
		repo := &fakeMaterialRepo{materials: []domain.Material{
			{Text: "far", Embedding: []float64{0, 1}},
			{Text: "near", Embedding: []float64{1, 0}},
		}}
		svc := NewRetrieverService(c, idx, &fakeEmbedder{embedding: []float64{1, 0}}, "embed-model", repo)
		got := svc.Context(context.Background(), "golang", "q")
		require.NotEmpty(t, got)
		assert.Equal(t, "near", got[0])
	})

	t.Run("索引和向量都不可用返回空", func(t *testing.T) {
		t.Parallel()
		c := &fakeCache{}
		idx := &fakeIndex{queryErr: errors.New("sidecar down")}
		svc := NewRetrieverService(c, idx, &fakeEmbedder{err: errors.New("ollama down")},
			"embed-model", &fakeMaterialRepo{})
		assert.Empty(t, svc.Context(context.Background(), "golang", "q"))
	})
}

func TestRetriever_GenerateQuestions(t *testing.T) {
	t.Parallel()
	idx := &fakeIndex{questions: []domain.GeneratedQuestion{
		{Text: "Q1", Difficulty: "HARD"},
		{Text: "  ", Difficulty: "easy"},
		{Text: "Q2", Difficulty: "expert"},
		{Text: "Q3", Difficulty: "easy"},
	}}
	svc := NewRetrieverService(&fakeCache{}, idx, &fakeEmbedder{}, "embed-model", &fakeMaterialRepo{})
	got, err := svc.GenerateQuestions(context.Background(), "golang", 2)
	require.NoError(t, err)
	// 空题目剔除，非法难度回落到 medium，数量截断
	assert.Equal(t, []domain.GeneratedQuestion{
		{Text: "Q1", Difficulty: "hard"},
		{Text: "Q2", Difficulty: "medium"},
	}, got)
}
