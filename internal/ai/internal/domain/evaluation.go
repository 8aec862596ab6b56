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

package domain

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

func (d Difficulty) String() string {
	return string(d)
}

// EvaluateRequest 是对单个回答的评估请求
type EvaluateRequest struct {
	Question      string
	CandidateText string
	// 检索出来的参考资料，最多取 5 条
	Context []string
	// 本场面试之前几轮的得分，保留给后续调整追问策略用
	History []Turn
}

type Turn struct {
	Question string
	Score    float64
}

// Evaluation 永远是良构的：分数在 [0,10] 内，
// feedback 和难度缺失时用兜底值补齐。
type Evaluation struct {
	Score    float64
	Feedback string
	// 建议下一题的难度
	NextDifficulty Difficulty
}

// QAPair 终面报告里的一问一答
type QAPair struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Score    *float64 `json:"score,omitempty"`
}

// ProctorSummary 监考侧的汇总，作为终面评分的输入
type ProctorSummary struct {
	Integrity float64        `json:"integrity"`
	Events    []ProctorEvent `json:"events"`
}

type ProctorEvent struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
}

// FinalReport 终面报告。字段名和序列化格式是对外契约，
// overall_score_100 恒等于 overall_score_10 的百分制换算。
type FinalReport struct {
	ContentScore10        float64  `json:"content_score_10"`
	DeliveryScore10       float64  `json:"delivery_score_10"`
	IntegrityAdjustment10 float64  `json:"integrity_adjustment_10"`
	OverallScore10        float64  `json:"overall_score_10"`
	OverallScore100       int      `json:"overall_score_100"`
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	Improvements          []string `json:"improvements"`
	Confidence            float64  `json:"confidence"`
}
