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
	"github.com/ani123rud/ACE/internal/interview/internal/event"
	"github.com/ani123rud/ACE/internal/interview/internal/repository"
	"github.com/ani123rud/ACE/internal/rag"
	"github.com/gotomicro/ego/core/elog"
	"github.com/pkg/errors"
)

const (
	// 每个领域的固定开场题
	introQuestion = "Please introduce yourself briefly."
	// 题库为空时一次生成的题目数
	startQuestionCount = 12
	// 没问过的题用完之后每次补充的数量
	refillQuestionCount = 6
	// 一场面试默认的总题数
	sessionQuestionTotal = 10

	questionSourceGenerated = "generated"
)

var (
	ErrSessionNotFound   = repository.ErrSessionNotFound
	ErrQuestionNotFound  = repository.ErrQuestionNotFound
	ErrSessionEnded      = errors.New("面试已经结束")
	ErrQuestionMismatch  = errors.New("答的不是当前题目")
	ErrDomainUnavailable = errors.New("该领域暂时无法出题")
)

// EvalMode 决定作答评估在什么时候执行
type EvalMode string

const (
	// EvalModeInline 提交时同步评估，响应里直接带评估结果
	EvalModeInline EvalMode = "inline"
	// EvalModeDeferred 先不评估，终面评分前统一补齐
	EvalModeDeferred EvalMode = "deferred"
	// EvalModeFastFlow 投递到任务流异步评估
	EvalModeFastFlow EvalMode = "fastflow"
)

func (m EvalMode) Valid() bool {
	switch m {
	case EvalModeInline, EvalModeDeferred, EvalModeFastFlow:
		return true
	default:
		return false
	}
}

type SubmitResult struct {
	AnswerID int64
	// inline 模式才有值
	Evaluation *ai.Evaluation
	Next       domain.Question
	Progress   domain.Progress
}

type OrchestratorService interface {
	Start(ctx context.Context, candidate, dom, difficulty string) (domain.Session, domain.Question, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID int64, text string) (SubmitResult, error)
	// EvaluateAnswer 给任务流的执行体用，幂等
	EvaluateAnswer(ctx context.Context, sessionID, answerID int64) error
	Session(ctx context.Context, id int64) (domain.Session, error)
}

type orchestratorService struct {
	sessions  repository.SessionRepository
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	evaluator ai.EvaluatorService
	retriever rag.RetrieverService
	producer  event.TaskProducer
	strategy  evalStrategy
	logger    *elog.Component
}

func NewOrchestratorService(sessions repository.SessionRepository,
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	evaluator ai.EvaluatorService,
	retriever rag.RetrieverService,
	producer event.TaskProducer,
	mode EvalMode) OrchestratorService {
	if !mode.Valid() {
		mode = EvalModeFastFlow
	}
	svc := &orchestratorService{
		sessions:  sessions,
		questions: questions,
		answers:   answers,
		evaluator: evaluator,
		retriever: retriever,
		producer:  producer,
		logger:    elog.DefaultLogger.With(elog.String("component", "orchestrator")),
	}
	svc.strategy = newEvalStrategy(mode, svc)
	return svc
}

// Start 开一场面试。题库按领域共享，只有领域一道题都没有
// 的时候才现场生成，生成也救不回来才算领域不可用。
func (s *orchestratorService) Start(ctx context.Context, candidate, dom, difficulty string) (domain.Session, domain.Question, error) {
	if !ai.Difficulty(difficulty).Valid() {
		difficulty = ai.DifficultyEasy.String()
	}

	intro, hasIntro := s.ensureIntro(ctx, dom)
	pool, err := s.questions.FindByDomain(ctx, dom)
	if err != nil {
		return domain.Session{}, domain.Question{}, err
	}
	if len(pool) == 0 {
		if created := s.generateQuestions(ctx, dom, startQuestionCount); len(created) > 0 {
			pool = created
		}
	}
	if len(pool) == 0 {
		return domain.Session{}, domain.Question{}, ErrDomainUnavailable
	}

	first := pickRandom(pool)
	if hasIntro {
		first = intro
	}

	id, err := s.sessions.Create(ctx, domain.Session{
		Candidate:  candidate,
		Domain:     dom,
		Difficulty: difficulty,
		Status:     domain.SessionActive,
		Progress:   domain.Progress{Total: sessionQuestionTotal},
	})
	if err != nil {
		return domain.Session{}, domain.Question{}, err
	}
	if err := s.sessions.UpdateCurrentQuestion(ctx, id, first.ID); err != nil {
		return domain.Session{}, domain.Question{}, err
	}
	return domain.Session{
		ID:                id,
		Candidate:         candidate,
		Domain:            dom,
		Difficulty:        difficulty,
		Status:            domain.SessionActive,
		CurrentQuestionID: first.ID,
		Progress:          domain.Progress{Total: sessionQuestionTotal},
	}, first, nil
}

func (s *orchestratorService) SubmitAnswer(ctx context.Context, sessionID, questionID int64, text string) (SubmitResult, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return SubmitResult{}, err
	}
	if sess.Status != domain.SessionActive {
		return SubmitResult{}, ErrSessionEnded
	}
	current, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return SubmitResult{}, err
	}
	if current.ID != sess.CurrentQuestionID {
		return SubmitResult{}, ErrQuestionMismatch
	}

	answerID, err := s.answers.Create(ctx, domain.Answer{
		SessionID:  sessionID,
		QuestionID: current.ID,
		Question:   current.Text,
		Text:       text,
	})
	if err != nil {
		return SubmitResult{}, err
	}
	if err := s.sessions.IncrementProgress(ctx, sessionID); err != nil {
		return SubmitResult{}, err
	}
	sess.Progress.Index++

	res := SubmitResult{AnswerID: answerID, Progress: sess.Progress}
	ev, err := s.strategy.OnAnswer(ctx, sess, answerID, current.Text, text)
	if err != nil {
		return SubmitResult{}, err
	}
	var suggested string
	if ev != nil {
		suggested = ev.NextDifficulty.String()
		res.Evaluation = ev
	}

	next, err := s.nextQuestion(ctx, sess, suggested)
	if err != nil {
		return SubmitResult{}, err
	}
	if err := s.sessions.UpdateCurrentQuestion(ctx, sessionID, next.ID); err != nil {
		return SubmitResult{}, err
	}
	res.Next = next
	return res, nil
}

func (s *orchestratorService) EvaluateAnswer(ctx context.Context, sessionID, answerID int64) error {
	ans, err := s.answers.FindByID(ctx, answerID)
	if errors.Is(err, repository.ErrAnswerNotFound) {
		s.logger.Warn("评估任务指向不存在的作答",
			elog.Int64("answerId", answerID))
		return nil
	}
	if err != nil {
		return err
	}
	if ans.Score != nil {
		return nil
	}
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	ev := s.evaluate(ctx, sess, ans.Question, ans.Text)
	_, err = s.answers.UpdateEvalIfUnset(ctx, answerID,
		ev.Score, ev.Feedback, ev.NextDifficulty.String())
	return err
}

func (s *orchestratorService) Session(ctx context.Context, id int64) (domain.Session, error) {
	return s.sessions.FindByID(ctx, id)
}

// ensureIntro 保证领域里有开场题。写不进去不拦着开场，
// 这一场退化成随机起题。
func (s *orchestratorService) ensureIntro(ctx context.Context, dom string) (domain.Question, bool) {
	q, err := s.questions.FindByText(ctx, dom, introQuestion)
	if err == nil {
		return q, true
	}
	if !errors.Is(err, repository.ErrQuestionNotFound) {
		s.logger.Warn("查询开场题失败", elog.FieldErr(err))
		return domain.Question{}, false
	}
	intro := domain.Question{
		Domain:     dom,
		Text:       introQuestion,
		Difficulty: ai.DifficultyEasy.String(),
	}
	id, err := s.questions.Create(ctx, intro)
	if err != nil {
		s.logger.Warn("创建开场题失败",
			elog.String("domain", dom),
			elog.FieldErr(err))
		return domain.Question{}, false
	}
	intro.ID = id
	return intro, true
}

// generateQuestions 现场生成一批题并落库，失败只记日志，
// 调用方拿空切片自己兜底
func (s *orchestratorService) generateQuestions(ctx context.Context, dom string, count int) []domain.Question {
	generated, err := s.retriever.GenerateQuestions(ctx, dom, count)
	if err != nil {
		s.logger.Warn("生成题目失败",
			elog.String("domain", dom),
			elog.FieldErr(err))
		return nil
	}
	if len(generated) == 0 {
		return nil
	}
	qs := make([]domain.Question, 0, len(generated))
	for _, g := range generated {
		diff := g.Difficulty
		if diff == "" {
			diff = ai.DifficultyMedium.String()
		}
		qs = append(qs, domain.Question{
			Domain:     dom,
			Text:       g.Text,
			Difficulty: diff,
			Source:     questionSourceGenerated,
		})
	}
	created, err := s.questions.BatchCreate(ctx, qs)
	if err != nil {
		s.logger.Warn("落库生成题目失败", elog.FieldErr(err))
		return nil
	}
	return created
}

// evaluate 组装上下文和历史之后调用评估器。
// 评估器自身永远返回良构结果，这里不会失败。
func (s *orchestratorService) evaluate(ctx context.Context, sess domain.Session, question, answer string) ai.Evaluation {
	passages := s.retriever.Context(ctx, sess.Domain, question)
	history := s.history(ctx, sess.ID)
	return s.evaluator.Evaluate(ctx, ai.EvaluateRequest{
		Question:      question,
		CandidateText: answer,
		Context:       passages,
		History:       history,
	})
}

func (s *orchestratorService) history(ctx context.Context, sessionID int64) []ai.Turn {
	answers, err := s.answers.FindBySession(ctx, sessionID)
	if err != nil {
		s.logger.Warn("读取历史作答失败", elog.FieldErr(err))
		return nil
	}
	turns := make([]ai.Turn, 0, len(answers))
	for _, a := range answers {
		if a.Score == nil {
			continue
		}
		turns = append(turns, ai.Turn{Question: a.Question, Score: *a.Score})
	}
	return turns
}
