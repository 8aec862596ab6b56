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

package metricx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueueMessages 按 stream 和结果统计消费掉的消息数
	QueueMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ace",
		Name:      "queue_messages_total",
		Help:      "Messages consumed from redis streams by stream and status.",
	}, []string{"stream", "status"})

	// EvaluatorFallback 统计大模型评估失败、退化为启发式打分的次数
	EvaluatorFallback = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ace",
		Name:      "evaluator_fallback_total",
		Help:      "Evaluations served by the heuristic fallback.",
	})
)
