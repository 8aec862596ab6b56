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

type SessionStatus string

const (
	// SessionActive 面试进行中，可以继续答题
	SessionActive SessionStatus = "active"
	// SessionFinalizing 终面报告正在生成，不再接受作答
	SessionFinalizing SessionStatus = "finalizing"
	// SessionEnded 终面报告已生成，会话只读
	SessionEnded SessionStatus = "ended"
)

// Session 一场面试。状态单向走 active → finalizing → ended，
// FinalReport 非空和 ended 同时成立。
type Session struct {
	ID         int64
	Candidate  string
	Domain     string
	Difficulty string
	Status     SessionStatus
	// 当前等待回答的题目
	CurrentQuestionID int64
	Progress          Progress
	// 终面报告的 JSON，没生成之前是空串
	FinalReport string
}

// Progress 答题进度，Index 是已经回答的题数
type Progress struct {
	Index int
	Total int
}

// Question 领域题库里的一道题，同领域的会话共享。
// 问没问过看会话的作答记录，不在题目上留痕。
type Question struct {
	ID         int64
	Domain     string
	Text       string
	Difficulty string
	// 题目的来源，比如 generated
	Source string
}

// Answer 候选人的一次作答。Score 为 nil 表示评估还没落地，
// 评估结果只写一次，后到的覆盖不生效。
type Answer struct {
	ID         int64
	SessionID  int64
	QuestionID int64
	Question   string
	Text       string
	Score      *float64
	Feedback   string
	// 评估建议的下一题难度
	NextDifficulty string
}
