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

const (
	// IngestStream 入库任务流
	IngestStream = "rag:ingest"
	// IngestGroup 入库工作者的消费组
	IngestGroup = "rag-workers"
)

// IngestTask 一份等待入库的上传文件。
// 文件本体落在共享磁盘上，消息里只带路径。
type IngestTask struct {
	Domain       string
	Path         string
	OriginalName string
}
