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

package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/pkg/errors"
)

var ErrContextNotFound = errors.New("检索上下文不在缓存里")

// 检索结果只缓存几分钟，保住重复提问时的响应速度就够了
const expiration = 5 * time.Minute

type ContextCache interface {
	Get(ctx context.Context, domain, query string) ([]string, error)
	Set(ctx context.Context, domain, query string, passages []string) error
}

type ContextECache struct {
	ec ecache.Cache
}

func NewContextECache(ec ecache.Cache) ContextCache {
	return &ContextECache{
		ec: &ecache.NamespaceCache{
			Namespace: "rag:ctx:",
			C:         ec,
		},
	}
}

func (c *ContextECache) Get(ctx context.Context, domain, query string) ([]string, error) {
	val := c.ec.Get(ctx, c.key(domain, query))
	if val.KeyNotFound() {
		return nil, ErrContextNotFound
	}
	if val.Err != nil {
		return nil, errors.Wrap(val.Err, "查询缓存出错")
	}
	var passages []string
	err := json.Unmarshal([]byte(val.Val.(string)), &passages)
	if err != nil {
		return nil, errors.Wrap(err, "反序列化检索上下文失败")
	}
	return passages, nil
}

func (c *ContextECache) Set(ctx context.Context, domain, query string, passages []string) error {
	data, err := json.Marshal(passages)
	if err != nil {
		return errors.Wrap(err, "序列化检索上下文失败")
	}
	return c.ec.Set(ctx, c.key(domain, query), string(data), expiration)
}

// key 按 domain + query 的内容哈希分桶
func (c *ContextECache) key(domain, query string) string {
	h := sha1.Sum([]byte(domain + "|" + query))
	return domain + ":" + hex.EncodeToString(h[:])
}
