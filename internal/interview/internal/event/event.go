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

package event

const (
	// TaskStream 异步任务流，承载评估和终面评分两类任务
	TaskStream = "streams:tasks"
	// TaskGroup 任务执行者的消费组
	TaskGroup = "ace_group"

	// KindEvalAnswer 对一次作答做评估
	KindEvalAnswer = "EVAL_ANSWER"
	// KindFinalScore 生成终面报告
	KindFinalScore = "FINAL_SCORE"
)
