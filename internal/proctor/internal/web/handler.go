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
	"time"

	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/service"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Handler struct {
	integrity service.IntegrityService
	alerts    service.AlertService
	events    service.EventService
	vision    service.VisionService
}

func NewHandler(integrity service.IntegrityService,
	alerts service.AlertService,
	events service.EventService,
	vision service.VisionService) *Handler {
	return &Handler{
		integrity: integrity,
		alerts:    alerts,
		events:    events,
		vision:    vision,
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.POST("/proctor", ginx.B(h.Signal))
	server.POST("/events", ginx.B(h.Event))
	server.GET("/alerts/:sessionId", ginx.W(h.Alerts))
	g := server.Group("/vision")
	g.POST("/reference", ginx.B(h.Reference))
	g.POST("/reference/save", ginx.B(h.SaveReference))
	g.POST("/verify", ginx.B(h.Verify))
}

func (h *Handler) Signal(ctx *ginx.Context, req SignalReq) (ginx.Result, error) {
	typ := domain.SignalType(req.Type)
	if req.SessionID <= 0 || !typ.Valid() {
		return ginx.Result{Code: 400, Msg: "非法的行为信号"}, nil
	}
	severity := domain.Severity(req.Severity)
	if !severity.Valid() {
		severity = domain.SeverityLow
	}
	var at time.Time
	if req.At > 0 {
		at = time.UnixMilli(req.At)
	}
	logID, score, err := h.integrity.Record(ctx.Request.Context(), domain.Signal{
		SessionID: req.SessionID,
		Type:      typ,
		Data:      req.Data,
		Severity:  severity,
		At:        at,
	})
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: SignalResp{LogID: logID, Integrity: score}}, nil
}

func (h *Handler) Event(ctx *ginx.Context, req EventReq) (ginx.Result, error) {
	if req.SessionID <= 0 || req.Type == "" {
		return ginx.Result{Code: 400, Msg: "非法的事件"}, nil
	}
	id, err := h.events.Record(ctx.Request.Context(), domain.InterviewEvent{
		SessionID: req.SessionID,
		Type:      req.Type,
		Payload:   req.Payload,
		Severity:  domain.Severity(req.Severity),
	})
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: id}, nil
}

func (h *Handler) Alerts(ctx *ginx.Context) (ginx.Result, error) {
	sessionID, err := ctx.Param("sessionId").AsInt64()
	if err != nil {
		return ginx.Result{Code: 400, Msg: "非法的会话 ID"}, nil
	}
	// limit 不传或者传坏了就用默认值
	limit, _ := ctx.Query("limit").AsInt64()
	alerts, err := h.alerts.List(ctx.Request.Context(), sessionID, int(limit))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: alerts}, nil
}

func (h *Handler) Reference(ctx *ginx.Context, req ReferenceReq) (ginx.Result, error) {
	if req.SessionID <= 0 || req.ImageBase64 == "" {
		return ginx.Result{Code: 400, Msg: "缺少会话或图片"}, nil
	}
	ref, err := h.vision.RegisterReference(ctx.Request.Context(), req.SessionID, req.ImageBase64)
	if errors.Is(err, service.ErrNoFaceDetected) {
		return ginx.Result{Code: 422, Msg: "照片里检测不到人脸"}, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: map[string]any{
		"ok":     true,
		"method": ref.Method,
		"model":  ref.Model,
	}}, nil
}

func (h *Handler) SaveReference(ctx *ginx.Context, req SaveReferenceReq) (ginx.Result, error) {
	if req.SessionID <= 0 {
		return ginx.Result{Code: 400, Msg: "非法的会话 ID"}, nil
	}
	err := h.vision.SaveReference(ctx.Request.Context(), domain.FaceRef{
		SessionID: req.SessionID,
		Embedding: req.Embedding,
		Method:    req.Method,
		Model:     req.Model,
	})
	if errors.Is(err, service.ErrNoFaceDetected) {
		return ginx.Result{Code: 422, Msg: "向量不能为空"}, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: map[string]any{"ok": true}}, nil
}

func (h *Handler) Verify(ctx *ginx.Context, req VerifyReq) (ginx.Result, error) {
	if req.SessionID <= 0 || req.ImageBase64 == "" {
		return ginx.Result{Code: 400, Msg: "缺少会话或图片"}, nil
	}
	res, err := h.vision.Verify(ctx.Request.Context(), req.SessionID, req.ImageBase64)
	if errors.Is(err, service.ErrReferenceMissing) {
		return ginx.Result{Code: 404, Msg: "会话还没有登记人脸基准"}, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: res}, nil
}
