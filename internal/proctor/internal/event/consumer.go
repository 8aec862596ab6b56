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
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ani123rud/ACE/internal/pkg/streamx"
	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"github.com/redis/go-redis/v9"
)

// AlertConsumer 把告警流里的消息持久化到数据库。
// 底层是 at-least-once 投递，落库按 (session, type, at) 去重，
// 重复投递不会产生第二条记录。
type AlertConsumer struct {
	*streamx.Consumer
}

func NewAlertConsumer(client redis.Cmdable,
	repo repository.AlertRepository,
	evidenceDir string) (*AlertConsumer, error) {
	if err := streamx.EnsureGroup(context.Background(), client, AlertStream, AlertGroup); err != nil {
		return nil, err
	}
	h := &alertHandler{
		repo:        repo,
		evidenceDir: evidenceDir,
		logger:      elog.DefaultLogger.With(elog.String("component", "alert-consumer")),
	}
	return &AlertConsumer{
		Consumer: streamx.NewConsumer(client, AlertStream, AlertGroup, h.Handle),
	}, nil
}

type alertHandler struct {
	repo        repository.AlertRepository
	evidenceDir string
	logger      *elog.Component
}

func (h *alertHandler) Handle(ctx context.Context, msg streamx.Message) error {
	sessionID, err := strconv.ParseInt(msg.Values["sessionId"], 10, 64)
	if err != nil {
		// 脏消息直接 ACK 掉，重投也不可能成功
		h.logger.Warn("丢弃非法告警消息",
			elog.String("id", msg.ID),
			elog.FieldErr(err))
		return nil
	}
	at, err := strconv.ParseInt(msg.Values["at"], 10, 64)
	if err != nil {
		h.logger.Warn("丢弃非法告警消息",
			elog.String("id", msg.ID),
			elog.FieldErr(err))
		return nil
	}
	alert := domain.Alert{
		SessionID: sessionID,
		Type:      msg.Values["type"],
		Message:   msg.Values["message"],
		Severity:  domain.Severity(msg.Values["severity"]),
		At:        at,
	}
	if raw := msg.Values["data"]; raw != "" {
		alert.EvidenceURL = h.saveEvidence(sessionID, msg.ID, raw)
	}
	return h.repo.Create(ctx, alert)
}

// saveEvidence 从告警附带的数据里提取截图证据并落盘。
// 证据是锦上添花，任何一步失败都只记日志。
func (h *alertHandler) saveEvidence(sessionID int64, msgID, raw string) string {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return ""
	}
	b64, _ := data["evidenceB64"].(string)
	if b64 == "" {
		return ""
	}
	img, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		h.logger.Warn("解码证据失败", elog.FieldErr(err))
		return ""
	}
	dir := filepath.Join(h.evidenceDir, strconv.FormatInt(sessionID, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.logger.Warn("创建证据目录失败", elog.FieldErr(err))
		return ""
	}
	path := filepath.Join(dir, msgID+".jpg")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		h.logger.Warn("写入证据失败", elog.FieldErr(err))
		return ""
	}
	return path
}
