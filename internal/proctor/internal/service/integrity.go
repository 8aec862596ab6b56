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
	"sort"
	"time"

	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/event"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

// 同类型信号在一个窗口内只扣一次分，压掉检测器的抖动
const dedupWindow = 60 * time.Second

// 各类信号的固定罚分
var penalties = map[domain.SignalType]int{
	domain.SignalTabSwitch:    5,
	domain.SignalFaceCount:    4,
	domain.SignalNoise:        1,
	domain.SignalMultiSpeaker: 6,
}

// IntegrityService 记录行为信号并维护会话的行为可信分。
// 分数每次都从完整的信号历史重算，没有任何增量状态，
// 所以并发写入收敛到同一个结果。
type IntegrityService interface {
	Record(ctx context.Context, signal domain.Signal) (logID int64, score int, err error)
	Score(ctx context.Context, sessionID int64) (int, error)
	Signals(ctx context.Context, sessionID int64) ([]domain.Signal, error)
}

type integrityService struct {
	repo     repository.SignalRepository
	producer event.AlertProducer
	logger   *elog.Component
}

func NewIntegrityService(repo repository.SignalRepository, producer event.AlertProducer) IntegrityService {
	return &integrityService{
		repo:     repo,
		producer: producer,
		logger:   elog.DefaultLogger.With(elog.String("component", "integrity")),
	}
}

func (s *integrityService) Record(ctx context.Context, signal domain.Signal) (int64, int, error) {
	if signal.At.IsZero() {
		signal.At = time.Now()
	}
	id, err := s.repo.Create(ctx, signal)
	if err != nil {
		return 0, 0, err
	}
	// 中高严重度的信号同时进告警流，尽力投递，失败不影响主流程
	if signal.Severity == domain.SeverityMedium || signal.Severity == domain.SeverityHigh {
		if err := s.producer.Produce(ctx, event.Alert{
			SessionID: signal.SessionID,
			Type:      string(signal.Type),
			Message:   alertMessage(signal.Type),
			Severity:  string(signal.Severity),
			At:        signal.At.UnixMilli(),
			Data:      signal.Data,
		}); err != nil {
			s.logger.Warn("投递告警失败", elog.FieldErr(err))
		}
	}
	score, err := s.Score(ctx, signal.SessionID)
	return id, score, err
}

func (s *integrityService) Signals(ctx context.Context, sessionID int64) ([]domain.Signal, error) {
	return s.repo.FindBySession(ctx, sessionID)
}

func (s *integrityService) Score(ctx context.Context, sessionID int64) (int, error) {
	signals, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return ComputeIntegrityScore(signals), nil
}

// ComputeIntegrityScore 从完整信号序列推出 [0,100] 的可信分。
// 结果只由输入决定：从 100 起步，按时间升序遍历，每种类型
// 各自维护上一次生效扣分的时间戳，窗口内的重复信号跳过。
func ComputeIntegrityScore(signals []domain.Signal) int {
	score := 100
	if len(signals) == 0 {
		return score
	}
	sorted := make([]domain.Signal, len(signals))
	copy(sorted, signals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	lastApplied := make(map[domain.SignalType]time.Time, len(penalties))
	for _, sig := range sorted {
		if !sig.Type.Valid() {
			continue
		}
		if last, ok := lastApplied[sig.Type]; ok && sig.At.Sub(last) < dedupWindow {
			continue
		}
		// face_count 只有检测不到脸或者多于一张脸才算异常
		if sig.Type == domain.SignalFaceCount {
			count, ok := faceCount(sig.Data)
			if !ok || count == 1 {
				continue
			}
		}
		score -= penalties[sig.Type]
		lastApplied[sig.Type] = sig.At
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func faceCount(data map[string]any) (int, bool) {
	v, ok := data["count"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func alertMessage(t domain.SignalType) string {
	switch t {
	case domain.SignalTabSwitch:
		return "Candidate switched away from the interview tab"
	case domain.SignalFaceCount:
		return "Unexpected number of faces in frame"
	case domain.SignalNoise:
		return "Ambient noise spike detected"
	case domain.SignalMultiSpeaker:
		return "Multiple speakers detected"
	default:
		return string(t)
	}
}
