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
	"testing"
	"time"

	"github.com/ani123rud/ACE/internal/ai/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestReporter_FinalScore(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		resp string
		err  error
		want domain.FinalReport
	}{
		{
			name: "合法输出原样归一化，百分制由十分制换算",
			resp: `{"content_score_10":8,"delivery_score_10":7,"integrity_adjustment_10":-0.5,` +
				`"overall_score_10":7.5,"overall_score_100":0,` +
				`"strengths":["clear"],"weaknesses":["shallow"],"improvements":["practice"],"confidence":0.8}`,
			want: domain.FinalReport{
				ContentScore10:        8,
				DeliveryScore10:       7,
				IntegrityAdjustment10: -0.5,
				OverallScore10:        7.5,
				OverallScore100:       75,
				Strengths:             []string{"clear"},
				Weaknesses:            []string{"shallow"},
				Improvements:          []string{"practice"},
				Confidence:            0.8,
			},
		},
		{
			name: "总分越界按权重重算",
			resp: `{"content_score_10":8,"delivery_score_10":6,"integrity_adjustment_10":-1,` +
				`"overall_score_10":42,"overall_score_100":420,` +
				`"strengths":[],"weaknesses":[],"improvements":[],"confidence":0.6}`,
			want: domain.FinalReport{
				ContentScore10:        8,
				DeliveryScore10:       6,
				IntegrityAdjustment10: -1,
				// 8*0.7 + 6*0.3 - 1 = 6.4
				OverallScore10:  6.4,
				OverallScore100: 64,
				Strengths:       []string{},
				Weaknesses:      []string{},
				Improvements:    []string{},
				Confidence:      0.6,
			},
		},
		{
			name: "置信度缺失用0.5，数组缺失补空",
			resp: `{"content_score_10":5,"delivery_score_10":5,"integrity_adjustment_10":0,"overall_score_10":5}`,
			want: domain.FinalReport{
				ContentScore10:  5,
				DeliveryScore10: 5,
				OverallScore10:  5,
				OverallScore100: 50,
				Strengths:       []string{},
				Weaknesses:      []string{},
				Improvements:    []string{},
				Confidence:      0.5,
			},
		},
		{
			name: "置信度越界钳到1",
			resp: `{"content_score_10":5,"delivery_score_10":5,"overall_score_10":5,"confidence":3.5}`,
			want: domain.FinalReport{
				ContentScore10:  5,
				DeliveryScore10: 5,
				OverallScore10:  5,
				OverallScore100: 50,
				Strengths:       []string{},
				Weaknesses:      []string{},
				Improvements:    []string{},
				Confidence:      1,
			},
		},
		{
			name: "输出不是JSON返回零值报告",
			resp: "The candidate performed adequately.",
			want: domain.FinalReport{
				Strengths:    []string{},
				Weaknesses:   []string{},
				Improvements: []string{},
				Confidence:   0.5,
			},
		},
		{
			name: "模型不可用返回零值报告",
			err:  errors.New("timeout"),
			want: domain.FinalReport{
				Strengths:    []string{},
				Weaknesses:   []string{},
				Improvements: []string{},
				Confidence:   0.5,
			},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewReporterService(&fakeLLM{resp: tc.resp, err: tc.err}, "test-model", time.Second)
			got := svc.FinalScore(context.Background(), []domain.QAPair{
				{Question: "Q1", Answer: "A1"},
			}, domain.ProctorSummary{Integrity: 91})
			assert.InDelta(t, tc.want.OverallScore10, got.OverallScore10, 1e-9)
			got.OverallScore10 = tc.want.OverallScore10
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReporter_PromptKeepsRecentPairs(t *testing.T) {
	t.Parallel()
	client := &fakeLLM{resp: `{"overall_score_10":5}`}
	svc := NewReporterService(client, "test-model", time.Second)
	qa := make([]domain.QAPair, 0, 12)
	for i := 0; i < 12; i++ {
		qa = append(qa, domain.QAPair{Question: "Q", Answer: "A"})
	}
	svc.FinalScore(context.Background(), qa, domain.ProctorSummary{})
	assert.Len(t, client.prompts, 1)
	// 只保留最近 10 组问答
	assert.NotContains(t, client.prompts[0], "[11]")
	assert.Contains(t, client.prompts[0], "[10]")
}
