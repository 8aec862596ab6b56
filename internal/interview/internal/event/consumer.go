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

package event

import (
	"context"
	"strconv"

	"github.com/ani123rud/ACE/internal/pkg/streamx"
	"github.com/gotomicro/ego/core/elog"
	"github.com/redis/go-redis/v9"
)

// EvalFunc 评估一次作答，必须幂等
type EvalFunc func(ctx context.Context, sessionID, answerID int64) error

// FinalizeFunc 生成终面报告，必须幂等
type FinalizeFunc func(ctx context.Context, sessionID int64) error

// TaskConsumer 执行任务流上的评估和评分任务。
// 投递语义是 at-least-once，两类任务的执行体都按
// "已有结果就跳过" 实现，重复执行不会改写第一次的结果。
type TaskConsumer struct {
	*streamx.Consumer
}

func NewTaskConsumer(client redis.Cmdable, eval EvalFunc, finalize FinalizeFunc) (*TaskConsumer, error) {
	if err := streamx.EnsureGroup(context.Background(), client, TaskStream, TaskGroup); err != nil {
		return nil, err
	}
	h := &taskHandler{
		eval:     eval,
		finalize: finalize,
		logger:   elog.DefaultLogger.With(elog.String("component", "task-consumer")),
	}
	return &TaskConsumer{
		Consumer: streamx.NewConsumer(client, TaskStream, TaskGroup, h.Handle),
	}, nil
}

type taskHandler struct {
	eval     EvalFunc
	finalize FinalizeFunc
	logger   *elog.Component
}

func (h *taskHandler) Handle(ctx context.Context, msg streamx.Message) error {
	sessionID, err := strconv.ParseInt(msg.Values["sessionId"], 10, 64)
	if err != nil {
		// 脏消息重投也没用，直接 ACK
		h.logger.Warn("丢弃非法任务",
			elog.String("id", msg.ID),
			elog.FieldErr(err))
		return nil
	}
	switch msg.Values["kind"] {
	case KindEvalAnswer:
		answerID, err := strconv.ParseInt(msg.Values["answerId"], 10, 64)
		if err != nil {
			h.logger.Warn("丢弃非法任务",
				elog.String("id", msg.ID),
				elog.FieldErr(err))
			return nil
		}
		return h.eval(ctx, sessionID, answerID)
	case KindFinalScore:
		return h.finalize(ctx, sessionID)
	default:
		h.logger.Warn("未知的任务类型",
			elog.String("id", msg.ID),
			elog.String("kind", msg.Values["kind"]))
		return nil
	}
}
