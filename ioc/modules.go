package ioc

import (
	"github.com/ani123rud/ACE/config"
	"github.com/ani123rud/ACE/internal/ai"
	"github.com/ani123rud/ACE/internal/interview"
	"github.com/ani123rud/ACE/internal/proctor"
	"github.com/ani123rud/ACE/internal/rag"
)

// InitApp 手工装配所有模块。依赖关系是单向的：
// interview 依赖 ai、rag、proctor，后三者互不依赖。
func InitApp() (*App, error) {
	cfg := config.Load()
	db := InitDB()
	cmd := InitRedis()
	ec := InitCache(cmd)

	ollama := ai.NewOllamaClient(cfg.Ollama.BaseURL, cfg.Ollama.ClientTimeout)
	aiModule := ai.InitModule(ollama, ai.Config{
		EvalModel:     cfg.Ollama.EvalModel,
		EvalTimeout:   cfg.Ollama.EvalTimeout,
		ScorerModel:   cfg.Ollama.ScorerModel,
		ScorerTimeout: cfg.Ollama.ScorerTimeout,
	})

	ragModule, err := rag.InitModule(db, ec, cmd, ollama, rag.Config{
		IndexBaseURL: cfg.Index.BaseURL,
		IndexTimeout: cfg.Index.Timeout,
		EmbedModel:   cfg.Ollama.EmbedModel,
		UploadDir:    cfg.RAG.UploadDir,
	})
	if err != nil {
		return nil, err
	}

	proctorModule, err := proctor.InitModule(db, cmd, proctor.Config{
		VisionBaseURL: cfg.Vision.BaseURL,
		VisionTimeout: cfg.Vision.Timeout,
		EvidenceDir:   cfg.Proctor.EvidenceDir,
	})
	if err != nil {
		return nil, err
	}

	interviewModule, err := interview.InitModule(db, cmd,
		aiModule, ragModule, proctorModule,
		interview.Config{EvalMode: cfg.Interview.EvalMode})
	if err != nil {
		return nil, err
	}

	web := initGinxServer(interviewModule.Hdl, ragModule.Hdl, proctorModule.Hdl)
	return &App{
		Web: web,
		Consumers: []Consumer{
			ragModule.IngestConsumer,
			proctorModule.AlertConsumer,
			interviewModule.TaskConsumer,
		},
	}, nil
}
