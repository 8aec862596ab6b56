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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ani123rud/ACE/internal/ai/internal/domain"
	"github.com/ani123rud/ACE/internal/ai/internal/service/llm"
	"github.com/ani123rud/ACE/internal/pkg/metricx"
	"github.com/gotomicro/ego/core/elog"
)

// 输入截断上限，约束推理延迟
const (
	maxContextPassages = 5
	maxPassageLen      = 500
	maxQuestionLen     = 500
	maxAnswerLen       = 700
)

const (
	feedbackTooShort = "Please provide a more complete answer with specific details."
	feedbackGeneric  = "Thanks for your answer. Consider adding concrete examples and clarifying key concepts."
)

const evaluateSystemPrompt = `You are a rigorous technical interviewer. Use provided context as references. Be concise. Output ONLY valid minified JSON.`

// EvaluatorService 评估单个回答。不管端点是死是活，
// 返回值永远良构，上层拿到就能用。
type EvaluatorService interface {
	Evaluate(ctx context.Context, req domain.EvaluateRequest) domain.Evaluation
}

type evaluatorService struct {
	client  llm.Client
	model   string
	timeout time.Duration
	logger  *elog.Component
}

func NewEvaluatorService(client llm.Client, model string, timeout time.Duration) EvaluatorService {
	return &evaluatorService{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  elog.DefaultLogger.With(elog.String("component", "evaluator")),
	}
}

func (s *evaluatorService) Evaluate(ctx context.Context, req domain.EvaluateRequest) domain.Evaluation {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer := truncate(req.CandidateText, maxAnswerLen)
	prompt := s.buildPrompt(req)
	text, err := s.client.Generate(ctx, s.model, prompt, llm.Options{
		Temperature:   0.2,
		MaxTokens:     120,
		ContextWindow: 1536,
	})
	if err != nil {
		// 端点超时或不可用，退化成启发式打分，流程不中断
		metricx.EvaluatorFallback.Inc()
		s.logger.Warn("大模型评估失败，使用启发式兜底", elog.FieldErr(err))
		return heuristicEvaluation(answer, req.Context)
	}
	return s.parse(text, answer, req.Context)
}

func (s *evaluatorService) buildPrompt(req domain.EvaluateRequest) string {
	var sb strings.Builder
	sb.WriteString(evaluateSystemPrompt)
	sb.WriteString("\n\nContext:\n")
	ctxs := req.Context
	if len(ctxs) > maxContextPassages {
		ctxs = ctxs[:maxContextPassages]
	}
	for i, c := range ctxs {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, truncate(c, maxPassageLen)))
	}
	sb.WriteString(fmt.Sprintf("\nQuestion: %s\nCandidate Answer: %s\n",
		truncate(req.Question, maxQuestionLen), truncate(req.CandidateText, maxAnswerLen)))
	sb.WriteString(`
Instructions:
- Score from 0 to 10
- Give 1-2 sentence feedback
- Propose difficulty (easy|medium|hard) for the next question based on performance
- Output strictly JSON matching: { "score": number, "feedback": string, "nextDifficulty": "easy"|"medium"|"hard" }
`)
	return sb.String()
}

type evaluationPayload struct {
	Score          *float64 `json:"score"`
	Feedback       string   `json:"feedback"`
	NextDifficulty string   `json:"nextDifficulty"`
}

func (s *evaluatorService) parse(text, answer string, context []string) domain.Evaluation {
	var payload evaluationPayload
	raw := ExtractJSON(text)
	if raw == "" || json.Unmarshal([]byte(raw), &payload) != nil {
		metricx.EvaluatorFallback.Inc()
		return heuristicEvaluation(answer, context)
	}
	res := domain.Evaluation{
		Feedback:       payload.Feedback,
		NextDifficulty: domain.Difficulty(payload.NextDifficulty),
	}
	if payload.Score != nil && !math.IsNaN(*payload.Score) {
		res.Score = clamp(*payload.Score, 0, 10)
	}
	if res.Feedback == "" {
		if wordCount(answer) < 3 {
			res.Feedback = feedbackTooShort
		} else {
			res.Feedback = feedbackGeneric
		}
	}
	if !res.NextDifficulty.Valid() {
		res.NextDifficulty = domain.DifficultyEasy
	}
	return res
}

// heuristicEvaluation 是确定性的兜底打分：
// 按词数分档，再按与参考资料的关键词重合度微调。
func heuristicEvaluation(answer string, context []string) domain.Evaluation {
	words := wordCount(answer)
	var score float64
	var feedback string
	switch {
	case words < 3:
		score = 2
		feedback = feedbackTooShort
	case words < 20:
		score = 5
		feedback = feedbackGeneric
	default:
		score = 7
		feedback = feedbackGeneric
	}
	if keywordOverlap(answer, context) >= 2 {
		score = math.Min(score+1, 8)
	}
	return domain.Evaluation{
		Score:          score,
		Feedback:       feedback,
		NextDifficulty: domain.DifficultyMedium,
	}
}

// keywordOverlap 统计回答和参考资料之间重合的长词个数
func keywordOverlap(answer string, context []string) int {
	if len(context) == 0 {
		return 0
	}
	ctxWords := make(map[string]struct{})
	for _, c := range context {
		for _, w := range strings.Fields(strings.ToLower(c)) {
			if len(w) >= 6 {
				ctxWords[w] = struct{}{}
			}
		}
	}
	seen := make(map[string]struct{})
	count := 0
	for _, w := range strings.Fields(strings.ToLower(answer)) {
		if len(w) < 6 {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		if _, ok := ctxWords[w]; ok {
			seen[w] = struct{}{}
			count++
		}
	}
	return count
}

func wordCount(s string) int {
	return len(strings.Fields(strings.TrimSpace(s)))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ExtractJSON 从模型输出里截取第一个 { 到最后一个 } 之间的内容。
// 模型偶尔会带 markdown 围栏或者多余的前后缀。
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
