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
	"github.com/ani123rud/ACE/internal/interview/internal/service"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Handler struct {
	orchestrator service.OrchestratorService
	finalize     service.FinalizeService
}

func NewHandler(orchestrator service.OrchestratorService, finalize service.FinalizeService) *Handler {
	return &Handler{orchestrator: orchestrator, finalize: finalize}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	g := server.Group("/interview")
	g.POST("/start", ginx.B(h.Start))
	g.POST("/answer", ginx.B(h.Answer))
	sg := server.Group("/scoring")
	sg.POST("/final", ginx.B(h.Final))
	sg.POST("/final/start", ginx.B(h.FinalStart))
	sg.GET("/report/:sessionId", ginx.W(h.Report))
}

func (h *Handler) Start(ctx *ginx.Context, req StartReq) (ginx.Result, error) {
	if req.Domain == "" {
		return ginx.Result{Code: 400, Msg: "domain 不能为空"}, nil
	}
	sess, first, err := h.orchestrator.Start(ctx.Request.Context(),
		req.Candidate, req.Domain, req.Difficulty)
	if errors.Is(err, service.ErrDomainUnavailable) {
		return ginx.Result{Code: 422, Msg: "该领域暂时无法出题"}, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: StartResp{
		SessionID: sess.ID,
		Question:  newQuestionVO(first),
	}}, nil
}

func (h *Handler) Answer(ctx *ginx.Context, req AnswerReq) (ginx.Result, error) {
	if req.SessionID <= 0 || req.QuestionID <= 0 || req.Answer == "" {
		return ginx.Result{Code: 400, Msg: "缺少会话、题目或回答"}, nil
	}
	res, err := h.orchestrator.SubmitAnswer(ctx.Request.Context(),
		req.SessionID, req.QuestionID, req.Answer)
	if errors.Is(err, service.ErrSessionNotFound) {
		return ginx.Result{Code: 404, Msg: "会话不存在"}, nil
	}
	if errors.Is(err, service.ErrQuestionNotFound) {
		return ginx.Result{Code: 404, Msg: "题目不存在"}, nil
	}
	if errors.Is(err, service.ErrSessionEnded) {
		return ginx.Result{Code: 409, Msg: "面试已经结束"}, nil
	}
	if errors.Is(err, service.ErrQuestionMismatch) {
		return ginx.Result{Code: 409, Msg: "答的不是当前题目"}, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	resp := AnswerResp{
		AnswerID: res.AnswerID,
		Next:     newQuestionVO(res.Next),
		Progress: ProgressVO{
			Index: res.Progress.Index,
			Total: res.Progress.Total,
		},
	}
	if res.Evaluation != nil {
		resp.Evaluation = &EvaluationVO{
			Score:          res.Evaluation.Score,
			Feedback:       res.Evaluation.Feedback,
			NextDifficulty: res.Evaluation.NextDifficulty.String(),
		}
	}
	return ginx.Result{Data: resp}, nil
}

func (h *Handler) Final(ctx *ginx.Context, req FinalReq) (ginx.Result, error) {
	if req.SessionID <= 0 {
		return ginx.Result{Code: 400, Msg: "非法的会话 ID"}, nil
	}
	report, err := h.finalize.Finalize(ctx.Request.Context(), req.SessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		return ginx.Result{Code: 404, Msg: "会话不存在"}, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: report}, nil
}

func (h *Handler) FinalStart(ctx *ginx.Context, req FinalReq) (ginx.Result, error) {
	if req.SessionID <= 0 {
		return ginx.Result{Code: 400, Msg: "非法的会话 ID"}, nil
	}
	err := h.finalize.StartFinalize(ctx.Request.Context(), req.SessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		return ginx.Result{Code: 404, Msg: "会话不存在"}, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: map[string]any{"accepted": true}}, nil
}

func (h *Handler) Report(ctx *ginx.Context) (ginx.Result, error) {
	// 轮询接口，报告就绪前后内容会变
	ctx.Header("Cache-Control", "no-store")
	sessionID, err := ctx.Param("sessionId").AsInt64()
	if err != nil {
		return ginx.Result{Code: 400, Msg: "非法的会话 ID"}, nil
	}
	report, err := h.finalize.Report(ctx.Request.Context(), sessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		return ginx.Result{Code: 404, Msg: "会话不存在"}, nil
	}
	if errors.Is(err, service.ErrReportNotReady) {
		return ginx.Result{Code: 404, Msg: "终面报告还没生成"}, nil
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: report}, nil
}
