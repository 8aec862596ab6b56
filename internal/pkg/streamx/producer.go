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

package streamx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// 流的保留长度，超出之后由 Redis 近似裁剪掉最老的消息。
// 这是背压和保留策略上的取舍，不是可靠性保证。
const defaultMaxLen = 1000

// Producer 往指定的 Stream 里追加消息，不会阻塞在消费者上。
type Producer interface {
	Enqueue(ctx context.Context, stream string, fields map[string]any) (string, error)
}

type producer struct {
	client redis.Cmdable
	maxLen int64
}

func NewProducer(client redis.Cmdable) Producer {
	return &producer{
		client: client,
		maxLen: defaultMaxLen,
	}
}

func (p *producer) Enqueue(ctx context.Context, stream string, fields map[string]any) (string, error) {
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: fields,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("向 stream=%s 追加消息失败: %w", stream, err)
	}
	return id, nil
}
