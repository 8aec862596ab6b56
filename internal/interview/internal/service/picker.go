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
	"math/rand"

	"github.com/ani123rud/ACE/internal/ai"
	"github.com/ani123rud/ACE/internal/interview/internal/domain"
)

// nextQuestion 的选题顺序，问没问过按本场的作答记录算：
//  1. 没问过而且难度匹配建议难度的
//  2. 任意没问过的
//  3. 现场再生成一批
//  4. 实在没有就重复问过的
//
// 当前题一定在领域题库里，第 4 步不会落空。
func (s *orchestratorService) nextQuestion(ctx context.Context, sess domain.Session, suggested string) (domain.Question, error) {
	asked, err := s.askedQuestionIDs(ctx, sess.ID)
	if err != nil {
		return domain.Question{}, err
	}
	if suggested == "" {
		suggested = ai.DifficultyMedium.String()
	}

	pool, err := s.questions.FindAvailable(ctx, sess.Domain, suggested, asked)
	if err != nil {
		return domain.Question{}, err
	}
	if len(pool) == 0 {
		pool, err = s.questions.FindAvailable(ctx, sess.Domain, "", asked)
		if err != nil {
			return domain.Question{}, err
		}
	}
	if len(pool) == 0 {
		if created := s.generateQuestions(ctx, sess.Domain, refillQuestionCount); len(created) > 0 {
			pool, err = s.questions.FindAvailable(ctx, sess.Domain, "", asked)
			if err != nil {
				return domain.Question{}, err
			}
		}
	}
	if len(pool) == 0 {
		pool, err = s.questions.FindByDomain(ctx, sess.Domain)
		if err != nil {
			return domain.Question{}, err
		}
	}
	return pickRandom(pool), nil
}

func (s *orchestratorService) askedQuestionIDs(ctx context.Context, sessionID int64) ([]int64, error) {
	answers, err := s.answers.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.QuestionID)
	}
	return ids, nil
}

func pickRandom(qs []domain.Question) domain.Question {
	return qs[rand.Intn(len(qs))]
}
