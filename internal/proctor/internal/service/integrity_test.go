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
	"math/rand"
	"testing"
	"time"

	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sig(t domain.SignalType, at time.Time, data map[string]any) domain.Signal {
	return domain.Signal{Type: t, At: at, Data: data}
}

func TestComputeIntegrityScore(t *testing.T) {
	t.Parallel()
	base := time.UnixMilli(1_700_000_000_000)
	testCases := []struct {
		name    string
		signals []domain.Signal
		want    int
	}{
		{
			name: "没有信号满分",
			want: 100,
		},
		{
			name: "切屏加无人脸扣9分",
			signals: []domain.Signal{
				sig(domain.SignalTabSwitch, base, nil),
				sig(domain.SignalFaceCount, base, map[string]any{"count": 0}),
			},
			want: 91,
		},
		{
			name: "窗口内的重复信号只扣一次",
			signals: []domain.Signal{
				sig(domain.SignalTabSwitch, base, nil),
				sig(domain.SignalTabSwitch, base.Add(10*time.Second), nil),
				sig(domain.SignalTabSwitch, base.Add(59*time.Second), nil),
			},
			want: 95,
		},
		{
			name: "过了窗口再次扣分",
			signals: []domain.Signal{
				sig(domain.SignalTabSwitch, base, nil),
				sig(domain.SignalTabSwitch, base.Add(61*time.Second), nil),
			},
			want: 90,
		},
		{
			name: "不同类型各自计窗口",
			signals: []domain.Signal{
				sig(domain.SignalTabSwitch, base, nil),
				sig(domain.SignalNoise, base.Add(time.Second), nil),
				sig(domain.SignalMultiSpeaker, base.Add(2*time.Second), nil),
			},
			want: 88,
		},
		{
			name: "恰好一张人脸不扣分",
			signals: []domain.Signal{
				sig(domain.SignalFaceCount, base, map[string]any{"count": 1}),
			},
			want: 100,
		},
		{
			name: "多张人脸扣分",
			signals: []domain.Signal{
				sig(domain.SignalFaceCount, base, map[string]any{"count": 2}),
			},
			want: 96,
		},
		{
			name: "缺少人数的face_count忽略",
			signals: []domain.Signal{
				sig(domain.SignalFaceCount, base, nil),
			},
			want: 100,
		},
		{
			name: "未知类型忽略",
			signals: []domain.Signal{
				sig(domain.SignalType("phone_detected"), base, nil),
			},
			want: 100,
		},
		{
			name: "被忽略的face_count不占用窗口",
			signals: []domain.Signal{
				sig(domain.SignalFaceCount, base, map[string]any{"count": 1}),
				sig(domain.SignalFaceCount, base.Add(5*time.Second), map[string]any{"count": 0}),
			},
			want: 96,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ComputeIntegrityScore(tc.signals))
		})
	}
}

func TestComputeIntegrityScore_ClampAtZero(t *testing.T) {
	t.Parallel()
	base := time.UnixMilli(1_700_000_000_000)
	signals := make([]domain.Signal, 0, 40)
	for i := 0; i < 20; i++ {
		at := base.Add(time.Duration(i) * 2 * time.Minute)
		signals = append(signals,
			sig(domain.SignalMultiSpeaker, at, nil),
			sig(domain.SignalTabSwitch, at, nil))
	}
	assert.Equal(t, 0, ComputeIntegrityScore(signals))
}

// 分数只由信号集合决定，和到达顺序无关
func TestComputeIntegrityScore_OrderIndependent(t *testing.T) {
	t.Parallel()
	base := time.UnixMilli(1_700_000_000_000)
	signals := []domain.Signal{
		sig(domain.SignalTabSwitch, base, nil),
		sig(domain.SignalNoise, base.Add(30*time.Second), nil),
		sig(domain.SignalTabSwitch, base.Add(90*time.Second), nil),
		sig(domain.SignalFaceCount, base.Add(2*time.Minute), map[string]any{"count": 0}),
		sig(domain.SignalMultiSpeaker, base.Add(3*time.Minute), nil),
		sig(domain.SignalNoise, base.Add(40*time.Second), nil),
	}
	want := ComputeIntegrityScore(signals)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.Signal, len(signals))
		copy(shuffled, signals)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, ComputeIntegrityScore(shuffled))
	}
	// 原切片不被重排
	assert.Equal(t, domain.SignalTabSwitch, signals[0].Type)
}

func TestComputeIntegrityScore_Deterministic(t *testing.T) {
	t.Parallel()
	base := time.UnixMilli(1_700_000_000_000)
	signals := []domain.Signal{
		sig(domain.SignalTabSwitch, base, nil),
		sig(domain.SignalNoise, base.Add(time.Second), nil),
	}
	first := ComputeIntegrityScore(signals)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ComputeIntegrityScore(signals))
	}
}
