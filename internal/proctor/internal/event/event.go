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
	// AlertStream 告警流，生产方是信号采集端，消费方负责持久化
	AlertStream = "streams:alerts"
	// AlertGroup 告警持久化的消费组
	AlertGroup = "ace_group"
)

// Alert 告警流上的一条消息
type Alert struct {
	SessionID int64          `json:"sessionId"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	At        int64          `json:"at"`
	Data      map[string]any `json:"data,omitempty"`
}
