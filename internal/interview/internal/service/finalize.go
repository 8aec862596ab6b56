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
	"encoding/json"

	"github.com/ani123rud/ACE/internal/ai"
	"github.com/ani123rud/ACE/internal/interview/internal/event"
	"github.com/ani123rud/ACE/internal/interview/internal/repository"
	"github.com/ani123rud/ACE/internal/proctor"
	"github.com/gotomicro/ego/core/elog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// 补评 deferred 作答时的并发上限
const deferredEvalConcurrency = 3

var ErrReportNotReady = errors.New("终面报告还没生成")

// FinalizeService 生成终面报告。Finalize 幂等：
// 报告只写一次，并发触发时第一个写入的结果对所有人可见。
type FinalizeService interface {
	Finalize(ctx context.Context, sessionID int64) (ai.FinalReport, error)
	// StartFinalize 把评分任务投到任务流，异步执行
	StartFinalize(ctx context.Context, sessionID int64) error
	Report(ctx context.Context, sessionID int64) (ai.FinalReport, error)
}

type finalizeService struct {
	sessions     repository.SessionRepository
	answers      repository.AnswerRepository
	orchestrator OrchestratorService
	reporter     ai.ReporterService
	integrity    proctor.IntegrityService
	producer     event.TaskProducer
	logger       *elog.Component
}

func NewFinalizeService(sessions repository.SessionRepository,
	answers repository.AnswerRepository,
	orchestrator OrchestratorService,
	reporter ai.ReporterService,
	integrity proctor.IntegrityService,
	producer event.TaskProducer) FinalizeService {
	return &finalizeService{
		sessions:     sessions,
		answers:      answers,
		orchestrator: orchestrator,
		reporter:     reporter,
		integrity:    integrity,
		producer:     producer,
		logger:       elog.DefaultLogger.With(elog.String("component", "finalize")),
	}
}

func (s *finalizeService) Finalize(ctx context.Context, sessionID int64) (ai.FinalReport, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return ai.FinalReport{}, err
	}
	if sess.FinalReport != "" {
		return unmarshalReport(sess.FinalReport)
	}

	// 评分期间不再接受作答
	if err := s.sessions.MarkFinalizing(ctx, sessionID); err != nil {
		s.logger.Warn("标记评分中失败", elog.FieldErr(err))
	}

	if err := s.evaluatePending(ctx, sessionID); err != nil {
		// 个别作答补评失败不拦着出报告，缺分在报告里体现
		s.logger.Warn("补评作答失败", elog.FieldErr(err))
	}

	answers, err := s.answers.FindBySession(ctx, sessionID)
	if err != nil {
		return ai.FinalReport{}, err
	}
	qa := make([]ai.QAPair, 0, len(answers))
	for _, a := range answers {
		qa = append(qa, ai.QAPair{
			Question: a.Question,
			Answer:   a.Text,
			Score:    a.Score,
		})
	}

	summary, err := s.proctorSummary(ctx, sessionID)
	if err != nil {
		return ai.FinalReport{}, err
	}
	report := s.reporter.FinalScore(ctx, qa, summary)

	data, err := json.Marshal(report)
	if err != nil {
		return ai.FinalReport{}, err
	}
	won, err := s.sessions.SetFinalReport(ctx, sessionID, string(data))
	if err != nil {
		return ai.FinalReport{}, err
	}
	if !won {
		// 并发触发时别人先写完了，以落库的为准
		stored, err := s.sessions.FindByID(ctx, sessionID)
		if err != nil {
			return ai.FinalReport{}, err
		}
		return unmarshalReport(stored.FinalReport)
	}
	return report, nil
}

func (s *finalizeService) StartFinalize(ctx context.Context, sessionID int64) error {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.FinalReport != "" {
		return nil
	}
	return s.producer.ProduceFinalScoreTask(ctx, sessionID)
}

func (s *finalizeService) Report(ctx context.Context, sessionID int64) (ai.FinalReport, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return ai.FinalReport{}, err
	}
	if sess.FinalReport == "" {
		return ai.FinalReport{}, ErrReportNotReady
	}
	return unmarshalReport(sess.FinalReport)
}

// evaluatePending 把还没评估的作答补齐，限并发跑
func (s *finalizeService) evaluatePending(ctx context.Context, sessionID int64) error {
	pending, err := s.answers.FindPending(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	var eg errgroup.Group
	eg.SetLimit(deferredEvalConcurrency)
	for _, a := range pending {
		answerID := a.ID
		eg.Go(func() error {
			return s.orchestrator.EvaluateAnswer(ctx, sessionID, answerID)
		})
	}
	return eg.Wait()
}

func (s *finalizeService) proctorSummary(ctx context.Context, sessionID int64) (ai.ProctorSummary, error) {
	score, err := s.integrity.Score(ctx, sessionID)
	if err != nil {
		return ai.ProctorSummary{}, err
	}
	signals, err := s.integrity.Signals(ctx, sessionID)
	if err != nil {
		return ai.ProctorSummary{}, err
	}
	events := make([]ai.ProctorEvent, 0, len(signals))
	for _, sig := range signals {
		events = append(events, ai.ProctorEvent{
			Type:     string(sig.Type),
			Severity: string(sig.Severity),
		})
	}
	return ai.ProctorSummary{
		Integrity: float64(score),
		Events:    events,
	}, nil
}

func unmarshalReport(data string) (ai.FinalReport, error) {
	var report ai.FinalReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return ai.FinalReport{}, errors.Wrap(err, "终面报告数据损坏")
	}
	return report, nil
}
