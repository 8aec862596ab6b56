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

package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Reference 人脸检测边车对一张入场照的分析结果
type Reference struct {
	HasFace    bool      `json:"hasFace"`
	FacesCount int       `json:"facesCount"`
	Embedding  []float64 `json:"embedding"`
	Method     string    `json:"method"`
	Model      string    `json:"model"`
}

// VerifyResult 边车对一帧画面和基准向量的比对结果
type VerifyResult struct {
	MatchScore    float64        `json:"matchScore"`
	MultipleFaces bool           `json:"multipleFaces"`
	LookingAway   bool           `json:"lookingAway"`
	FacesCount    int            `json:"facesCount"`
	HeadPose      map[string]any `json:"headPose"`
}

// Client 是人脸检测边车的 HTTP 客户端
type Client interface {
	Reference(ctx context.Context, imageB64 string) (Reference, error)
	Verify(ctx context.Context, imageB64 string, refEmbedding []float64) (VerifyResult, error)
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

func (c *httpClient) Reference(ctx context.Context, imageB64 string) (Reference, error) {
	var res Reference
	err := c.post(ctx, "/reference", map[string]any{
		"imageBase64": imageB64,
	}, &res)
	return res, err
}

func (c *httpClient) Verify(ctx context.Context, imageB64 string, refEmbedding []float64) (VerifyResult, error) {
	var res VerifyResult
	err := c.post(ctx, "/verify", map[string]any{
		"imageBase64":  imageB64,
		"refEmbedding": refEmbedding,
	}, &res)
	return res, err
}

// post 带一次超时重试。边车冷启动加载模型时第一个请求
// 经常超时，重试一次基本就能过。
func (c *httpClient) post(ctx context.Context, path string, body map[string]any, res any) error {
	err := c.doPost(ctx, path, body, res)
	if err != nil && isTimeout(err) {
		err = c.doPost(ctx, path, body, res)
	}
	return err
}

func (c *httpClient) doPost(ctx context.Context, path string, body map[string]any, res any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("边车返回 %d: %s", resp.StatusCode, truncateBody(data))
	}
	return json.Unmarshal(data, res)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func truncateBody(data []byte) string {
	const limit = 256
	if len(data) <= limit {
		return string(data)
	}
	return fmt.Sprintf("%s...", data[:limit])
}
