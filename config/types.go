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

package config

import (
	"time"

	"github.com/gotomicro/ego/core/econf"
)

type Config struct {
	Ollama    OllamaConfig
	Vision    VisionConfig
	Index     IndexConfig
	RAG       RAGConfig
	Proctor   ProctorConfig
	Interview InterviewConfig
}

type OllamaConfig struct {
	BaseURL string
	// 单次 HTTP 调用的硬超时
	ClientTimeout time.Duration
	EvalModel     string
	EvalTimeout   time.Duration
	ScorerModel   string
	ScorerTimeout time.Duration
	EmbedModel    string
}

type VisionConfig struct {
	BaseURL string
	Timeout time.Duration
}

type IndexConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RAGConfig struct {
	UploadDir string
}

type ProctorConfig struct {
	EvidenceDir string
}

type InterviewConfig struct {
	EvalMode string
}

// Load 从已经初始化好的 econf 里取配置，缺省值在这里统一兜底
func Load() Config {
	return Config{
		Ollama: OllamaConfig{
			BaseURL:       withDefault("ollama.baseUrl", "http://localhost:11434"),
			ClientTimeout: withDefaultDuration("ollama.clientTimeout", 60*time.Second),
			EvalModel:     withDefault("ollama.evalModel", "qwen2.5:1.5b"),
			EvalTimeout:   withDefaultDuration("ollama.evalTimeout", 25*time.Second),
			ScorerModel:   withDefault("ollama.scorerModel", "qwen2.5:1.5b"),
			ScorerTimeout: withDefaultDuration("ollama.scorerTimeout", 60*time.Second),
			EmbedModel:    withDefault("ollama.embedModel", "nomic-embed-text"),
		},
		Vision: VisionConfig{
			BaseURL: withDefault("vision.baseUrl", "http://localhost:8001"),
			Timeout: withDefaultDuration("vision.timeout", 20*time.Second),
		},
		Index: IndexConfig{
			BaseURL: withDefault("index.baseUrl", "http://localhost:8002"),
			Timeout: withDefaultDuration("index.timeout", 30*time.Second),
		},
		RAG: RAGConfig{
			UploadDir: withDefault("rag.uploadDir", "uploads"),
		},
		Proctor: ProctorConfig{
			EvidenceDir: withDefault("proctor.evidenceDir", "evidence"),
		},
		Interview: InterviewConfig{
			EvalMode: withDefault("interview.evalMode", "fastflow"),
		},
	}
}

func withDefault(key, def string) string {
	if v := econf.GetString(key); v != "" {
		return v
	}
	return def
}

func withDefaultDuration(key string, def time.Duration) time.Duration {
	if v := econf.GetDuration(key); v > 0 {
		return v
	}
	return def
}
