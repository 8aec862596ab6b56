package rag

import (
	"sync"
	"time"

	"github.com/ani123rud/ACE/internal/pkg/streamx"
	"github.com/ani123rud/ACE/internal/rag/internal/domain"
	"github.com/ani123rud/ACE/internal/rag/internal/event"
	"github.com/ani123rud/ACE/internal/rag/internal/index"
	"github.com/ani123rud/ACE/internal/rag/internal/repository"
	"github.com/ani123rud/ACE/internal/rag/internal/repository/cache"
	"github.com/ani123rud/ACE/internal/rag/internal/repository/dao"
	"github.com/ani123rud/ACE/internal/rag/internal/service"
	"github.com/ani123rud/ACE/internal/rag/internal/web"
	"github.com/ecodeclub/ecache"
	"github.com/ego-component/egorm"
	"github.com/redis/go-redis/v9"
)

type Module struct {
	Svc            RetrieverService
	Ingest         IngestService
	Hdl            *Handler
	IngestConsumer *event.IngestConsumer
}

type (
	RetrieverService  = service.RetrieverService
	IngestService     = service.IngestService
	Embedder          = service.Embedder
	Handler           = web.Handler
	IndexClient       = index.Client
	QueryResult       = domain.QueryResult
	GeneratedQuestion = domain.GeneratedQuestion
)

type Config struct {
	// 向量索引边车地址
	IndexBaseURL string
	IndexTimeout time.Duration
	// 兜底检索用的向量模型
	EmbedModel string
	// 上传文件的暂存目录
	UploadDir string
}

var initTableOnce sync.Once

func InitModule(db *egorm.Component,
	ec ecache.Cache,
	client redis.Cmdable,
	embedder Embedder,
	cfg Config) (*Module, error) {
	initTableOnce.Do(func() {
		if err := dao.InitTables(db); err != nil {
			panic(err)
		}
	})
	idx := index.NewClient(cfg.IndexBaseURL, cfg.IndexTimeout)
	repo := repository.NewMaterialRepository(dao.NewGORMMaterialDAO(db))
	retriever := service.NewRetrieverService(cache.NewContextECache(ec), idx, embedder, cfg.EmbedModel, repo)
	producer := event.NewIngestTaskProducer(streamx.NewProducer(client))
	ingest := service.NewIngestService(cfg.UploadDir, producer, idx)
	consumer, err := event.NewIngestConsumer(client, ingest.Process)
	if err != nil {
		return nil, err
	}
	return &Module{
		Svc:            retriever,
		Ingest:         ingest,
		Hdl:            web.NewHandler(retriever, ingest),
		IngestConsumer: consumer,
	}, nil
}
