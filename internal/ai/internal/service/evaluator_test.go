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
	"strings"
	"testing"
	"time"

	"github.com/ani123rud/ACE/internal/ai/internal/domain"
	"github.com/ani123rud/ACE/internal/ai/internal/service/llm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	resp    string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, _ string, prompt string, _ llm.Options) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.resp, f.err
}

func (f *fakeLLM) Embed(_ context.Context, _, _ string) ([]float64, error) {
	return nil, errors.New("没实现")
}

func TestEvaluator_Evaluate(t *testing.T) {
	t.Parallel()
	longAnswer := strings.Repeat("word ", 25)
	testCases := []struct {
		name string
		resp string
		err  error
		req  domain.EvaluateRequest
		want domain.Evaluation
	}{
		{
			name: "模型返回合法JSON",
			resp: `{"score": 8.5, "feedback": "Solid answer.", "nextDifficulty": "hard"}`,
			req: domain.EvaluateRequest{
				Question:      "What is a goroutine?",
				CandidateText: longAnswer,
			},
			want: domain.Evaluation{
				Score:          8.5,
				Feedback:       "Solid answer.",
				NextDifficulty: domain.DifficultyHard,
			},
		},
		{
			name: "JSON外面带围栏也能解析",
			resp: "```json\n{\"score\": 6, \"feedback\": \"ok\", \"nextDifficulty\": \"medium\"}\n```",
			req: domain.EvaluateRequest{
				CandidateText: longAnswer,
			},
			want: domain.Evaluation{
				Score:          6,
				Feedback:       "ok",
				NextDifficulty: domain.DifficultyMedium,
			},
		},
		{
			name: "分数越界被钳制",
			resp: `{"score": 12, "feedback": "great", "nextDifficulty": "hard"}`,
			req: domain.EvaluateRequest{
				CandidateText: longAnswer,
			},
			want: domain.Evaluation{
				Score:          10,
				Feedback:       "great",
				NextDifficulty: domain.DifficultyHard,
			},
		},
		{
			name: "非法难度回落到easy",
			resp: `{"score": 5, "feedback": "fine", "nextDifficulty": "expert"}`,
			req: domain.EvaluateRequest{
				CandidateText: longAnswer,
			},
			want: domain.Evaluation{
				Score:          5,
				Feedback:       "fine",
				NextDifficulty: domain.DifficultyEasy,
			},
		},
		{
			name: "模型挂了走启发式，长回答给7分",
			err:  errors.New("connection refused"),
			req: domain.EvaluateRequest{
				CandidateText: longAnswer,
			},
			want: domain.Evaluation{
				Score:          7,
				Feedback:       feedbackGeneric,
				NextDifficulty: domain.DifficultyMedium,
			},
		},
		{
			name: "模型挂了走启发式，太短的回答给2分",
			err:  errors.New("connection refused"),
			req: domain.EvaluateRequest{
				CandidateText: "no idea",
			},
			want: domain.Evaluation{
				Score:          2,
				Feedback:       feedbackTooShort,
				NextDifficulty: domain.DifficultyMedium,
			},
		},
		{
			name: "输出不是JSON也走启发式",
			resp: "I think the candidate did well overall.",
			req: domain.EvaluateRequest{
				CandidateText: longAnswer,
			},
			want: domain.Evaluation{
				Score:          7,
				Feedback:       feedbackGeneric,
				NextDifficulty: domain.DifficultyMedium,
			},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewEvaluatorService(&fakeLLM{resp: tc.resp, err: tc.err}, "test-model", time.Second)
			got := svc.Evaluate(context.Background(), tc.req)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluator_PromptTruncation(t *testing.T) {
	t.Parallel()
	client := &fakeLLM{resp: `{"score":5,"feedback":"ok","nextDifficulty":"easy"}`}
	svc := NewEvaluatorService(client, "test-model", time.Second)
	longPassage := strings.Repeat("x", 2000)
	svc.Evaluate(context.Background(), domain.EvaluateRequest{
		Question:      strings.Repeat("q", 1000),
		CandidateText: strings.Repeat("a", 1000),
		Context:       []string{longPassage, longPassage, longPassage, longPassage, longPassage, longPassage, longPassage},
	})
	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	// 最多 5 条资料，每条 500 字
	assert.NotContains(t, prompt, "[6]")
	assert.NotContains(t, prompt, strings.Repeat("x", 501))
	assert.NotContains(t, prompt, strings.Repeat("q", 501))
	assert.NotContains(t, prompt, strings.Repeat("a", 701))
}

func TestHeuristicEvaluation(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		answer    string
		context   []string
		wantScore float64
	}{
		{
			name:      "少于3个词",
			answer:    "yes",
			wantScore: 2,
		},
		{
			name:      "少于20个词",
			answer:    "a goroutine is a lightweight thread",
			wantScore: 5,
		},
		{
			name:      "长回答",
			answer:    strings.Repeat("word ", 30),
			wantScore: 7,
		},
		{
			name:   "和资料重合两个长词加一分",
			answer: "channels provide synchronization between goroutines",
			context: []string{
				"Go channels are used for synchronization and communication between goroutines.",
			},
			wantScore: 6,
		},
		{
			name:      "加分封顶8分",
			answer:    strings.Repeat("padding ", 25) + "synchronization goroutines channels communication",
			context:   []string{"synchronization goroutines channels communication patterns explained"},
			wantScore: 8,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := heuristicEvaluation(tc.answer, tc.context)
			assert.Equal(t, tc.wantScore, got.Score)
			assert.Equal(t, domain.DifficultyMedium, got.NextDifficulty)
		})
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `{"a":1}`, ExtractJSON("prefix {\"a\":1} suffix"))
	assert.Equal(t, "", ExtractJSON("no json here"))
	assert.Equal(t, "", ExtractJSON("} backwards {"))
}
