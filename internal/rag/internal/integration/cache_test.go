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

//go:build e2e

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/ani123rud/ACE/internal/rag/internal/repository/cache"
	testioc "github.com/ani123rud/ACE/internal/test/ioc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextCache(t *testing.T) {
	c := cache.NewContextECache(testioc.InitCache())
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	t.Run("没写过的键未命中", func(t *testing.T) {
		_, err := c.Get(ctx, "golang", "从来没问过的问题")
		assert.ErrorIs(t, err, cache.ErrContextNotFound)
	})

	t.Run("写入之后原样读回", func(t *testing.T) {
		want := []string{"goroutine 是轻量线程", "channel 用于通信"}
		require.NoError(t, c.Set(ctx, "golang", "什么是goroutine", want))
		got, err := c.Get(ctx, "golang", "什么是goroutine")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("不同领域互不串味", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "java", "什么是goroutine", []string{"别的领域"}))
		got, err := c.Get(ctx, "golang", "什么是goroutine")
		require.NoError(t, err)
		assert.NotContains(t, got, "别的领域")
	})
}
