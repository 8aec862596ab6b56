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

	"github.com/ani123rud/ACE/internal/pkg/streamx"
	"github.com/redis/go-redis/v9"
)

// Processor 由 service 层实现，消费一条入库任务
type Processor func(ctx context.Context, task IngestTask) error

// IngestConsumer 入库工作者：批量阻塞读取，处理成功才 ACK
type IngestConsumer struct {
	*streamx.Consumer
}

func NewIngestConsumer(client redis.Cmdable, process Processor) (*IngestConsumer, error) {
	if err := streamx.EnsureGroup(context.Background(), client, IngestStream, IngestGroup); err != nil {
		return nil, err
	}
	c := streamx.NewConsumer(client, IngestStream, IngestGroup,
		func(ctx context.Context, msg streamx.Message) error {
			return process(ctx, IngestTask{
				Domain:       msg.Values["domain"],
				Path:         msg.Values["path"],
				OriginalName: msg.Values["originalname"],
			})
		})
	return &IngestConsumer{Consumer: c}, nil
}
