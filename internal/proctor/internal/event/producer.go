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

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ani123rud/ACE/internal/pkg/streamx"
)

type AlertProducer interface {
	Produce(ctx context.Context, alert Alert) error
}

type alertProducer struct {
	producer streamx.Producer
}

func NewAlertProducer(producer streamx.Producer) AlertProducer {
	return &alertProducer{producer: producer}
}

func (p *alertProducer) Produce(ctx context.Context, alert Alert) error {
	fields := map[string]any{
		"sessionId": strconv.FormatInt(alert.SessionID, 10),
		"type":      alert.Type,
		"message":   alert.Message,
		"severity":  alert.Severity,
		"at":        strconv.FormatInt(alert.At, 10),
	}
	if len(alert.Data) > 0 {
		data, err := json.Marshal(alert.Data)
		if err != nil {
			return err
		}
		fields["data"] = string(data)
	}
	_, err := p.producer.Enqueue(ctx, AlertStream, fields)
	return err
}
