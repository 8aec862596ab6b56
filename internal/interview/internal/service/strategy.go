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

	"github.com/ani123rud/ACE/internal/ai"
	"github.com/ani123rud/ACE/internal/interview/internal/domain"
)

// evalStrategy 决定一次作答落库之后评估怎么执行。
// 返回非 nil 的评估结果时，结果会直接带给调用方。
type evalStrategy interface {
	OnAnswer(ctx context.Context, sess domain.Session, answerID int64,
		question, text string) (*ai.Evaluation, error)
}

func newEvalStrategy(mode EvalMode, svc *orchestratorService) evalStrategy {
	switch mode {
	case EvalModeInline:
		return &inlineEval{svc: svc}
	case EvalModeDeferred:
		return deferredEval{}
	default:
		return &fastflowEval{svc: svc}
	}
}

// inlineEval 同步评估，候选人等着拿反馈
type inlineEval struct {
	svc *orchestratorService
}

func (e *inlineEval) OnAnswer(ctx context.Context, sess domain.Session,
	answerID int64, question, text string) (*ai.Evaluation, error) {
	ev := e.svc.evaluate(ctx, sess, question, text)
	if _, err := e.svc.answers.UpdateEvalIfUnset(ctx, answerID,
		ev.Score, ev.Feedback, ev.NextDifficulty.String()); err != nil {
		return nil, err
	}
	return &ev, nil
}

// deferredEval 什么都不做，终面评分前统一补齐
type deferredEval struct{}

func (deferredEval) OnAnswer(_ context.Context, _ domain.Session,
	_ int64, _, _ string) (*ai.Evaluation, error) {
	return nil, nil
}

// fastflowEval 投递到任务流，响应不等待评估
type fastflowEval struct {
	svc *orchestratorService
}

func (e *fastflowEval) OnAnswer(ctx context.Context, sess domain.Session,
	answerID int64, _, _ string) (*ai.Evaluation, error) {
	return nil, e.svc.producer.ProduceEvalTask(ctx, sess.ID, answerID)
}
