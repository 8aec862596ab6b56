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
	"sync"

	"github.com/ani123rud/ACE/internal/ai"
	"github.com/ani123rud/ACE/internal/interview/internal/domain"
	"github.com/ani123rud/ACE/internal/interview/internal/repository"
	"github.com/ani123rud/ACE/internal/proctor"
	"github.com/ani123rud/ACE/internal/rag"
	"github.com/pkg/errors"
)

type memSessions struct {
	mu     sync.Mutex
	m      map[int64]domain.Session
	nextID int64
	// 模拟并发写报告时输掉竞争
	loseRace     bool
	storedOnLose string
}

func newMemSessions() *memSessions {
	return &memSessions{m: map[int64]domain.Session{}}
}

func (s *memSessions) Create(_ context.Context, sess domain.Session) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sess.ID = s.nextID
	s.m[sess.ID] = sess
	return sess.ID, nil
}

func (s *memSessions) FindByID(_ context.Context, id int64) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	if !ok {
		return domain.Session{}, repository.ErrSessionNotFound
	}
	return sess, nil
}

func (s *memSessions) UpdateCurrentQuestion(_ context.Context, id, questionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.m[id]
	sess.CurrentQuestionID = questionID
	s.m[id] = sess
	return nil
}

func (s *memSessions) IncrementProgress(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.m[id]
	sess.Progress.Index++
	s.m[id] = sess
	return nil
}

func (s *memSessions) MarkFinalizing(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.m[id]
	if sess.Status == domain.SessionActive {
		sess.Status = domain.SessionFinalizing
		s.m[id] = sess
	}
	return nil
}

func (s *memSessions) SetFinalReport(_ context.Context, id int64, report string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.m[id]
	if sess.FinalReport != "" {
		return false, nil
	}
	if s.loseRace {
		sess.FinalReport = s.storedOnLose
		sess.Status = domain.SessionEnded
		s.m[id] = sess
		return false, nil
	}
	sess.FinalReport = report
	sess.Status = domain.SessionEnded
	s.m[id] = sess
	return true, nil
}

type memQuestions struct {
	mu     sync.Mutex
	m      map[int64]domain.Question
	nextID int64
	// 模拟开场题写不进去
	createErr error
}

func newMemQuestions() *memQuestions {
	return &memQuestions{m: map[int64]domain.Question{}}
}

func (q *memQuestions) Create(_ context.Context, it domain.Question) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.createErr != nil {
		return 0, q.createErr
	}
	q.nextID++
	it.ID = q.nextID
	q.m[it.ID] = it
	return it.ID, nil
}

func (q *memQuestions) BatchCreate(_ context.Context, qs []domain.Question) ([]domain.Question, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	res := make([]domain.Question, 0, len(qs))
	for _, it := range qs {
		q.nextID++
		it.ID = q.nextID
		q.m[it.ID] = it
		res = append(res, it)
	}
	return res, nil
}

func (q *memQuestions) FindByID(_ context.Context, id int64) (domain.Question, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	it, ok := q.m[id]
	if !ok {
		return domain.Question{}, repository.ErrQuestionNotFound
	}
	return it, nil
}

func (q *memQuestions) FindByText(_ context.Context, dom, text string) (domain.Question, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := int64(1); i <= q.nextID; i++ {
		if it, ok := q.m[i]; ok && it.Domain == dom && it.Text == text {
			return it, nil
		}
	}
	return domain.Question{}, repository.ErrQuestionNotFound
}

func (q *memQuestions) FindByDomain(_ context.Context, dom string) ([]domain.Question, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var res []domain.Question
	for i := int64(1); i <= q.nextID; i++ {
		if it, ok := q.m[i]; ok && it.Domain == dom {
			res = append(res, it)
		}
	}
	return res, nil
}

func (q *memQuestions) FindAvailable(_ context.Context, dom, difficulty string, excluded []int64) ([]domain.Question, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	skip := make(map[int64]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	var res []domain.Question
	for i := int64(1); i <= q.nextID; i++ {
		it, ok := q.m[i]
		if !ok || it.Domain != dom {
			continue
		}
		if difficulty != "" && it.Difficulty != difficulty {
			continue
		}
		if _, asked := skip[it.ID]; asked {
			continue
		}
		res = append(res, it)
	}
	return res, nil
}

type memAnswers struct {
	mu     sync.Mutex
	m      map[int64]domain.Answer
	nextID int64
}

func newMemAnswers() *memAnswers {
	return &memAnswers{m: map[int64]domain.Answer{}}
}

func (a *memAnswers) Create(_ context.Context, ans domain.Answer) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	ans.ID = a.nextID
	a.m[ans.ID] = ans
	return ans.ID, nil
}

func (a *memAnswers) FindByID(_ context.Context, id int64) (domain.Answer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ans, ok := a.m[id]
	if !ok {
		return domain.Answer{}, repository.ErrAnswerNotFound
	}
	return ans, nil
}

func (a *memAnswers) FindBySession(_ context.Context, sessionID int64) ([]domain.Answer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var res []domain.Answer
	for i := int64(1); i <= a.nextID; i++ {
		if ans, ok := a.m[i]; ok && ans.SessionID == sessionID {
			res = append(res, ans)
		}
	}
	return res, nil
}

func (a *memAnswers) FindPending(_ context.Context, sessionID int64) ([]domain.Answer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var res []domain.Answer
	for i := int64(1); i <= a.nextID; i++ {
		if ans, ok := a.m[i]; ok && ans.SessionID == sessionID && ans.Score == nil {
			res = append(res, ans)
		}
	}
	return res, nil
}

func (a *memAnswers) UpdateEvalIfUnset(_ context.Context, id int64, score float64, feedback, nextDifficulty string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ans := a.m[id]
	if ans.Score != nil {
		return false, nil
	}
	ans.Score = &score
	ans.Feedback = feedback
	ans.NextDifficulty = nextDifficulty
	a.m[id] = ans
	return true, nil
}

type fakeEvaluator struct {
	mu     sync.Mutex
	res    ai.Evaluation
	calls  int
	lastIn ai.EvaluateRequest
}

func (f *fakeEvaluator) Evaluate(_ context.Context, req ai.EvaluateRequest) ai.Evaluation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastIn = req
	return f.res
}

type fakeReporter struct {
	mu       sync.Mutex
	res      ai.FinalReport
	calls    int
	lastQA   []ai.QAPair
	lastSumm ai.ProctorSummary
}

func (f *fakeReporter) FinalScore(_ context.Context, qa []ai.QAPair, summ ai.ProctorSummary) ai.FinalReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastQA = qa
	f.lastSumm = summ
	return f.res
}

type fakeRetriever struct {
	questions []rag.GeneratedQuestion
	genErr    error
	passages  []string
}

func (f *fakeRetriever) Context(_ context.Context, _, _ string) []string {
	return f.passages
}

func (f *fakeRetriever) Query(_ context.Context, _, _ string) (rag.QueryResult, error) {
	return rag.QueryResult{}, errors.New("没实现")
}

func (f *fakeRetriever) GenerateQuestions(_ context.Context, _ string, count int) ([]rag.GeneratedQuestion, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	if len(f.questions) > count {
		return f.questions[:count], nil
	}
	return f.questions, nil
}

func (f *fakeRetriever) Domains(_ context.Context) ([]string, error) {
	return nil, nil
}

type fakeProducer struct {
	mu         sync.Mutex
	evalTasks  [][2]int64
	finalTasks []int64
	err        error
}

func (f *fakeProducer) ProduceEvalTask(_ context.Context, sessionID, answerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.evalTasks = append(f.evalTasks, [2]int64{sessionID, answerID})
	return nil
}

func (f *fakeProducer) ProduceFinalScoreTask(_ context.Context, sessionID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.finalTasks = append(f.finalTasks, sessionID)
	return nil
}

type fakeIntegrity struct {
	score   int
	signals []proctor.Signal
}

func (f *fakeIntegrity) Record(_ context.Context, _ proctor.Signal) (int64, int, error) {
	return 0, f.score, nil
}

func (f *fakeIntegrity) Score(_ context.Context, _ int64) (int, error) {
	return f.score, nil
}

func (f *fakeIntegrity) Signals(_ context.Context, _ int64) ([]proctor.Signal, error) {
	return f.signals, nil
}

func genQuestions(n int, difficulty string) []rag.GeneratedQuestion {
	res := make([]rag.GeneratedQuestion, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, rag.GeneratedQuestion{
			Text:       "generated question",
			Difficulty: difficulty,
		})
	}
	return res
}
