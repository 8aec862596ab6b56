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

package web

import (
	"github.com/ani123rud/ACE/internal/interview/internal/domain"
	"github.com/ecodeclub/ginx"
)

type StartReq struct {
	Candidate  string `json:"candidate"`
	Domain     string `json:"domain"`
	Difficulty string `json:"difficulty"`
}

type StartResp struct {
	SessionID int64      `json:"sessionId"`
	Question  QuestionVO `json:"question"`
}

type QuestionVO struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
}

func newQuestionVO(q domain.Question) QuestionVO {
	return QuestionVO{
		ID:         q.ID,
		Text:       q.Text,
		Difficulty: q.Difficulty,
	}
}

type AnswerReq struct {
	SessionID  int64  `json:"sessionId"`
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

type EvaluationVO struct {
	Score          float64 `json:"score"`
	Feedback       string  `json:"feedback"`
	NextDifficulty string  `json:"nextDifficulty"`
}

type ProgressVO struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

type AnswerResp struct {
	AnswerID   int64         `json:"answerId"`
	Evaluation *EvaluationVO `json:"evaluation,omitempty"`
	Next       QuestionVO    `json:"next"`
	Progress   ProgressVO    `json:"progress"`
}

type FinalReq struct {
	SessionID int64 `json:"sessionId"`
}

var systemErrorResult = ginx.Result{
	Code: 517001,
	Msg:  "系统错误",
}
