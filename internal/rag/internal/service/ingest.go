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

package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ani123rud/ACE/internal/rag/internal/domain"
	"github.com/ani123rud/ACE/internal/rag/internal/event"
	"github.com/ani123rud/ACE/internal/rag/internal/index"
	"github.com/gotomicro/ego/core/elog"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// IngestService 接收上传文件并驱动异步入库。
// 上传路径只负责落盘和投递任务，真正的入库在消费侧完成。
type IngestService interface {
	SaveUpload(ctx context.Context, dom, originalName string, data []byte) (string, error)
	// Process 消费一条入库任务。源文件只在入库成功之后删除，
	// 重复投递时文件已不存在则直接视为已完成。
	Process(ctx context.Context, task event.IngestTask) error
}

type ingestService struct {
	uploadDir string
	producer  event.IngestTaskProducer
	idx       index.Client
	logger    *elog.Component
}

func NewIngestService(uploadDir string, producer event.IngestTaskProducer, idx index.Client) IngestService {
	return &ingestService{
		uploadDir: uploadDir,
		producer:  producer,
		idx:       idx,
		logger:    elog.DefaultLogger.With(elog.String("component", "ingest")),
	}
}

func (s *ingestService) SaveUpload(ctx context.Context, dom, originalName string, data []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", errors.Wrap(err, "创建上传目录失败")
	}
	path := filepath.Join(s.uploadDir, shortuuid.New()+filepath.Ext(originalName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "保存上传文件失败")
	}
	id, err := s.producer.Produce(ctx, event.IngestTask{
		Domain:       dom,
		Path:         path,
		OriginalName: originalName,
	})
	if err != nil {
		// 任务没投出去，不留孤儿文件
		_ = os.Remove(path)
		return "", errors.Wrap(err, "投递入库任务失败")
	}
	return id, nil
}

func (s *ingestService) Process(ctx context.Context, task event.IngestTask) error {
	if task.Domain == "" || task.Path == "" {
		// 脏消息没法重试，记日志后吞掉
		s.logger.Warn("入库任务字段不全",
			elog.String("domain", task.Domain),
			elog.String("path", task.Path))
		return nil
	}
	data, err := os.ReadFile(task.Path)
	if err != nil {
		if os.IsNotExist(err) {
			// 上一次投递已经处理完并删了文件
			return nil
		}
		return errors.Wrap(err, "读取上传文件失败")
	}
	name := task.OriginalName
	if name == "" {
		name = filepath.Base(task.Path)
	}
	_, err = s.idx.Ingest(ctx, task.Domain, []domain.IngestFile{{Name: name, Data: data}})
	if err != nil {
		return errors.Wrap(err, "写入向量索引失败")
	}
	// 成功之后再清理源文件，保证失败重投时文件还在
	if err := os.Remove(task.Path); err != nil {
		s.logger.Warn("清理上传文件失败", elog.String("path", task.Path), elog.FieldErr(err))
	}
	return nil
}
