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
	"github.com/gotomicro/ego/core/elog"
)

// 终面评分只看最近的问答，问题和回答分别截断
const (
	maxReportPairs    = 10
	maxReportQuestion = 300
	maxReportAnswer   = 600
)

const reportSystemPrompt = `You are an expert interviewer evaluating both content and delivery under proctoring constraints. Return STRICT minified JSON.`

// ReporterService 做整场面试的综合评分。
// 模型输出不可信，所有数值都要归一化；完全解析失败时
// 返回一份零值报告而不是报错。
type ReporterService interface {
	FinalScore(ctx context.Context, qa []domain.QAPair, proctor domain.ProctorSummary) domain.FinalReport
}

type reporterService struct {
	client  llm.Client
	model   string
	timeout time.Duration
	logger  *elog.Component
}

func NewReporterService(client llm.Client, model string, timeout time.Duration) ReporterService {
	return &reporterService{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  elog.DefaultLogger.With(elog.String("component", "reporter")),
	}
}

func (s *reporterService) FinalScore(ctx context.Context, qa []domain.QAPair, proctor domain.ProctorSummary) domain.FinalReport {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.client.Generate(ctx, s.model, s.buildPrompt(qa, proctor), llm.Options{
		Temperature:   0.2,
		MaxTokens:     200,
		ContextWindow: 2048,
	})
	if err != nil {
		s.logger.Warn("终面评分调用失败，返回零值报告", elog.FieldErr(err))
		return zeroReport()
	}
	return parseReport(text)
}

func (s *reporterService) buildPrompt(qa []domain.QAPair, proctor domain.ProctorSummary) string {
	if len(qa) > maxReportPairs {
		qa = qa[len(qa)-maxReportPairs:]
	}
	var qaBlock strings.Builder
	for i, pair := range qa {
		qaBlock.WriteString(fmt.Sprintf("[%d] Q: %s\nA: %s\n\n",
			i+1, truncate(pair.Question, maxReportQuestion), truncate(pair.Answer, maxReportAnswer)))
	}
	events := make([]string, 0, len(proctor.Events))
	for _, e := range proctor.Events {
		events = append(events, e.Type+":"+e.Severity)
	}
	return fmt.Sprintf(`%s

Evaluate the candidate interview.

Q&A:
%s
Proctoring Integrity: %.2f
Proctoring Events: %s

Scoring rubric:
- content_score_10: 0-10 (knowledge depth, correctness, structure)
- delivery_score_10: 0-10 (clarity, conciseness, composure)
- integrity_adjustment_10: -3..+0 (deduct when integrity < 0.8 and severe events)
- overall_score_10 = clamp(content_score_10*0.7 + delivery_score_10*0.3 + integrity_adjustment_10, 0, 10)
- Convert overall_score_10 to overall_score_100 on a 0-100 scale (multiply by 10 and round).
- strengths: 3-5 concrete strengths as an array of strings
- weaknesses: 3-5 concrete weaknesses as an array of strings
- improvements: 3-5 actionable improvement suggestions as an array of strings
- confidence: number 0..1 indicating confidence in the assessment (based on answer quality and consistency)

Output strictly minified JSON with keys: {"content_score_10":number,"delivery_score_10":number,"integrity_adjustment_10":number,"overall_score_10":number,"overall_score_100":number,"strengths":string[],"weaknesses":string[],"improvements":string[],"confidence":number}`,
		reportSystemPrompt, qaBlock.String(), proctor.Integrity, strings.Join(events, ", "))
}

type reportPayload struct {
	ContentScore10        *float64 `json:"content_score_10"`
	DeliveryScore10       *float64 `json:"delivery_score_10"`
	IntegrityAdjustment10 *float64 `json:"integrity_adjustment_10"`
	OverallScore10        *float64 `json:"overall_score_10"`
	OverallScore100       *float64 `json:"overall_score_100"`
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	Improvements          []string `json:"improvements"`
	Confidence            *float64 `json:"confidence"`
}

func parseReport(text string) domain.FinalReport {
	var payload reportPayload
	raw := ExtractJSON(text)
	if raw == "" || json.Unmarshal([]byte(raw), &payload) != nil {
		return zeroReport()
	}
	return normalizeReport(payload)
}

// normalizeReport 把模型输出折算成一份自洽的报告：
// 总分缺失或越界时按固定权重重新计算。
func normalizeReport(payload reportPayload) domain.FinalReport {
	content := toNum(payload.ContentScore10)
	delivery := toNum(payload.DeliveryScore10)
	adjustment := toNum(payload.IntegrityAdjustment10)

	overall10 := toNum(payload.OverallScore10)
	if overall10 <= 0 || overall10 > 10 {
		overall10 = clamp(content*0.7+delivery*0.3+adjustment, 0, 10)
	}
	overall100 := toNum(payload.OverallScore100)
	if overall100 <= 0 || overall100 > 100 {
		overall100 = math.Round(overall10 * 10)
	}
	confidence := 0.5
	if payload.Confidence != nil && !math.IsNaN(*payload.Confidence) {
		confidence = clamp(*payload.Confidence, 0, 1)
	}
	return domain.FinalReport{
		ContentScore10:        content,
		DeliveryScore10:       delivery,
		IntegrityAdjustment10: adjustment,
		OverallScore10:        overall10,
		OverallScore100:       int(overall100),
		Strengths:             orEmpty(payload.Strengths),
		Weaknesses:            orEmpty(payload.Weaknesses),
		Improvements:          orEmpty(payload.Improvements),
		Confidence:            confidence,
	}
}

func zeroReport() domain.FinalReport {
	return domain.FinalReport{
		Strengths:    []string{},
		Weaknesses:   []string{},
		Improvements: []string{},
		Confidence:   0.5,
	}
}

func toNum(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func orEmpty(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
