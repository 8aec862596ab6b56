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

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options 控制一次推理调用
type Options struct {
	Temperature float64
	// 最多生成多少 token
	MaxTokens int
	// 上下文窗口
	ContextWindow int
}

// Client 抽象大模型推理端点。实现必须容忍端点不可用，
// 调用方负责在出错时兜底。
type Client interface {
	Generate(ctx context.Context, model, prompt string, opts Options) (string, error)
	Embed(ctx context.Context, model, text string) ([]float64, error)
}

type OllamaClient struct {
	baseURL string
	client  *http.Client
}

func NewOllamaClient(baseURL string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Options generateOptions `json:"options"`
	Stream  bool            `json:"stream"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *OllamaClient) Generate(ctx context.Context, model, prompt string, opts Options) (string, error) {
	var res generateResponse
	err := c.post(ctx, "/api/generate", generateRequest{
		Model:  model,
		Prompt: prompt,
		Options: generateOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
			NumCtx:      opts.ContextWindow,
		},
		Stream: false,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.Response, nil
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	// 部分版本对批量输入返回二维数组
	Embeddings [][]float64 `json:"embeddings"`
}

func (c *OllamaClient) Embed(ctx context.Context, model, text string) ([]float64, error) {
	var res embedResponse
	err := c.post(ctx, "/api/embeddings", embedRequest{
		Model: model,
		Input: text,
	}, &res)
	if err != nil {
		return nil, err
	}
	if len(res.Embedding) > 0 {
		return res.Embedding, nil
	}
	if len(res.Embeddings) > 0 {
		return res.Embeddings[0], nil
	}
	return nil, fmt.Errorf("生成向量失败: 响应里没有 embedding")
}

func (c *OllamaClient) post(ctx context.Context, path string, body any, res any) error {
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
		return fmt.Errorf("调用 ollama 失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ollama 返回 %d: %s", resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(res)
}
