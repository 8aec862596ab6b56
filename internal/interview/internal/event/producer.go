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
)

type TaskProducer interface {
	ProduceEvalTask(ctx context.Context, sessionID, answerID int64) error
	ProduceFinalScoreTask(ctx context.Context, sessionID int64) error
}

type taskProducer struct {
	producer streamx.Producer
}

func NewTaskProducer(producer streamx.Producer) TaskProducer {
	return &taskProducer{producer: producer}
}

func (p *taskProducer) ProduceEvalTask(ctx context.Context, sessionID, answerID int64) error {
	_, err := p.producer.Enqueue(ctx, TaskStream, map[string]any{
		"kind":      KindEvalAnswer,
		"sessionId": strconv.FormatInt(sessionID, 10),
		"answerId":  strconv.FormatInt(answerID, 10),
	})
	return err
}

func (p *taskProducer) ProduceFinalScoreTask(ctx context.Context, sessionID int64) error {
	_, err := p.producer.Enqueue(ctx, TaskStream, map[string]any{
		"kind":      KindFinalScore,
		"sessionId": strconv.FormatInt(sessionID, 10),
	})
	return err
}
