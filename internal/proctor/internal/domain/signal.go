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

import "time"

// SignalType 行为信号的类型
type SignalType string

const (
	SignalTabSwitch    SignalType = "tab_switch"
	SignalFaceCount    SignalType = "face_count"
	SignalNoise        SignalType = "noise"
	SignalMultiSpeaker SignalType = "multi_speaker"
)

func (t SignalType) Valid() bool {
	switch t {
	case SignalTabSwitch, SignalFaceCount, SignalNoise, SignalMultiSpeaker:
		return true
	default:
		return false
	}
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// Signal 一条行为信号，只追加，写入之后不再改动
type Signal struct {
	ID        int64
	SessionID int64
	Type      SignalType
	Data      map[string]any
	Severity  Severity
	At        time.Time
}

// Alert 从告警流里持久化下来的一条告警
type Alert struct {
	ID          int64
	SessionID   int64
	Type        string
	Message     string
	Severity    Severity
	At          int64
	EvidenceURL string
}

// FaceRef 候选人入场时留的人脸向量基准
type FaceRef struct {
	ID        int64
	SessionID int64
	Embedding []float64
	Method    string
	Model     string
}

// Verification 一次活体比对的结论
type Verification struct {
	OK            bool           `json:"ok"`
	MatchScore    float64        `json:"matchScore"`
	MultipleFaces bool           `json:"multipleFaces"`
	LookingAway   bool           `json:"lookingAway"`
	FacesCount    int            `json:"facesCount"`
	HeadPose      map[string]any `json:"headPose,omitempty"`
}

// InterviewEvent 面试过程中的业务事件，只追加
type InterviewEvent struct {
	ID        int64
	SessionID int64
	Type      string
	Payload   map[string]any
	Severity  Severity
	At        time.Time
}
