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

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ani123rud/ACE/internal/rag/internal/domain"
)

// Client 是向量索引边车服务的客户端。
// 索引本身（文档解析、切分、向量化）是外部协作方，契约固定。
type Client interface {
	Query(ctx context.Context, dom, question string) (domain.QueryResult, error)
	Ingest(ctx context.Context, dom string, files []domain.IngestFile) (int, error)
	GenerateQuestions(ctx context.Context, dom string, count int) ([]domain.GeneratedQuestion, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Query(ctx context.Context, dom, question string) (domain.QueryResult, error) {
	var res domain.QueryResult
	err := c.post(ctx, "/api/index/query", map[string]any{
		"domain":   dom,
		"question": question,
	}, &res)
	return res, err
}

func (c *httpClient) Ingest(ctx context.Context, dom string, files []domain.IngestFile) (int, error) {
	var res struct {
		Added int `json:"added"`
	}
	err := c.post(ctx, "/api/index/ingest", map[string]any{
		"domain": dom,
		"files":  files,
	}, &res)
	return res.Added, err
}

func (c *httpClient) GenerateQuestions(ctx context.Context, dom string, count int) ([]domain.GeneratedQuestion, error) {
	var res struct {
		Items []domain.GeneratedQuestion `json:"items"`
	}
	err := c.post(ctx, "/api/index/generate-questions", map[string]any{
		"domain": dom,
		"count":  count,
	}, &res)
	return res.Items, err
}

func (c *httpClient) post(ctx context.Context, path string, body any, res any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("序列化请求失败: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("调用向量索引失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("向量索引返回 %d: %s", resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(res)
}
