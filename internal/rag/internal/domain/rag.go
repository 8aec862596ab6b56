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

package domain

// Source 向量索引返回的一条出处，按相关度降序
type Source struct {
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// QueryResult 向量索引的一次查询结果
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// GeneratedQuestion 基于知识库生成的面试题
type GeneratedQuestion struct {
	Text       string `json:"question"`
	Difficulty string `json:"difficulty"`
}

// Material 兜底检索用的语料，向量存在行内
type Material struct {
	ID        int64
	Domain    string
	Text      string
	Embedding []float64
	Source    string
}

// IngestFile 待入库的一份文档
type IngestFile struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}
