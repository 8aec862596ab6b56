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
	"io"
	"net/http"

	"github.com/ani123rud/ACE/internal/rag/internal/service"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
)

// 单个上传文件的大小上限
const maxUploadSize = 25 << 20

type Handler struct {
	svc    service.RetrieverService
	ingest service.IngestService
}

func NewHandler(svc service.RetrieverService, ingest service.IngestService) *Handler {
	return &Handler{svc: svc, ingest: ingest}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	g := server.Group("/rag")
	g.POST("/ingest", h.Ingest)
	g.POST("/query", ginx.B(h.Query))
	g.GET("/domains", ginx.W(h.Domains))
}

// Ingest 接收 multipart 上传，逐个文件落盘并投递入库任务。
// 响应只代表任务已受理，入库是异步的。
func (h *Handler) Ingest(ctx *gin.Context) {
	dom := ctx.PostForm("domain")
	if dom == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "domain is required"})
		return
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}
	accepted := 0
	for _, fh := range files {
		if fh.Size > maxUploadSize {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			continue
		}
		if _, err := h.ingest.SaveUpload(ctx.Request.Context(), dom, fh.Filename, data); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue ingestion"})
			return
		}
		accepted++
	}
	ctx.JSON(http.StatusOK, gin.H{"accepted": accepted})
}

func (h *Handler) Query(ctx *ginx.Context, req QueryReq) (ginx.Result, error) {
	if req.Domain == "" || req.Question == "" {
		return ginx.Result{Code: 400, Msg: "domain 和 question 不能为空"}, nil
	}
	res, err := h.svc.Query(ctx.Request.Context(), req.Domain, req.Question)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: res}, nil
}

func (h *Handler) Domains(ctx *ginx.Context) (ginx.Result, error) {
	domains, err := h.svc.Domains(ctx.Request.Context())
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Data: domains}, nil
}
