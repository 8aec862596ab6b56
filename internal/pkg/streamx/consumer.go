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
	"strings"
	"time"

	"github.com/ani123rud/ACE/internal/pkg/metricx"
	"github.com/gotomicro/ego/core/elog"
	"github.com/lithammer/shortuuid/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// 单次批量读取的上限
	defaultBatchSize = 10
	// 阻塞读取的超时时间
	defaultBlock = 5 * time.Second
	// 读取出错之后的退避时间
	readBackoff = time.Second
)

// Message 是从 Stream 里读出来的一条消息。
// 字段值统一转成 string，handler 自己解析。
type Message struct {
	ID     string
	Stream string
	Values map[string]string
}

// HandleFunc 处理一条消息。返回 nil 才会 ACK；
// 返回 error 的消息留在 pending 列表里等待重新投递，
// 所以 handler 必须是幂等的。
type HandleFunc func(ctx context.Context, msg Message) error

// EnsureGroup 幂等地创建消费组，组已经存在不算错误。
func EnsureGroup(ctx context.Context, client redis.Cmdable, stream, group string) error {
	err := client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Consumer 以消费组的方式消费一个 Stream。
// 同一个组内的消费者互相竞争，每条消息只会投递给其中一个。
type Consumer struct {
	client  redis.Cmdable
	stream  string
	group   string
	name    string
	handler HandleFunc
	logger  *elog.Component

	batchSize int64
	block     time.Duration
	cancel    context.CancelFunc
}

func NewConsumer(client redis.Cmdable, stream, group string, handler HandleFunc) *Consumer {
	return &Consumer{
		client: client,
		stream: stream,
		group:  group,
		// 消费者名带随机后缀，多实例部署时互不冲突
		name:      stream + "-consumer-" + shortuuid.New(),
		handler:   handler,
		logger:    elog.DefaultLogger.With(elog.String("stream", stream)),
		batchSize: defaultBatchSize,
		block:     defaultBlock,
	}
}

// Start 启动消费循环。ctx 取消之后循环退出，
// 已经取出但未处理完的消息会留在 pending 列表里等待重投。
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	go c.run(ctx)
}

func (c *Consumer) Stop(_ context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *Consumer) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		res, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{c.stream, ">"},
			Count:    c.batchSize,
			Block:    c.block,
		}).Result()
		if err == redis.Nil {
			// 阻塞超时，没有新消息
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("读取消息失败", elog.FieldErr(err))
			time.Sleep(readBackoff)
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				c.consume(ctx, msg)
			}
		}
	}
}

func (c *Consumer) consume(ctx context.Context, msg redis.XMessage) {
	err := c.handler(ctx, Message{
		ID:     msg.ID,
		Stream: c.stream,
		Values: toStringValues(msg.Values),
	})
	if err != nil {
		// 不 ACK，等待重新投递
		metricx.QueueMessages.WithLabelValues(c.stream, "failed").Inc()
		c.logger.Error("处理消息失败",
			elog.String("id", msg.ID),
			elog.FieldErr(err))
		return
	}
	metricx.QueueMessages.WithLabelValues(c.stream, "ok").Inc()
	if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
		c.logger.Error("ACK 失败",
			elog.String("id", msg.ID),
			elog.FieldErr(err))
	}
}

func toStringValues(values map[string]any) map[string]string {
	res := make(map[string]string, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok {
			res[k] = s
		}
	}
	return res
}
