package ai

import (
	"time"

	"github.com/ani123rud/ACE/internal/ai/internal/service"
	"github.com/ani123rud/ACE/internal/ai/internal/service/llm"
)

type Module struct {
	Evaluator EvaluatorService
	Reporter  ReporterService
}

type (
	EvaluatorService = service.EvaluatorService
	ReporterService  = service.ReporterService
	LLMClient        = llm.Client
	LLMOptions       = llm.Options
)

// Config 两类调用各自的模型和超时：
// 单题评估要快，终面评分可以慢一点。
type Config struct {
	EvalModel     string
	EvalTimeout   time.Duration
	ScorerModel   string
	ScorerTimeout time.Duration
}

func NewOllamaClient(baseURL string, timeout time.Duration) LLMClient {
	return llm.NewOllamaClient(baseURL, timeout)
}

func InitModule(client LLMClient, cfg Config) *Module {
	return &Module{
		Evaluator: service.NewEvaluatorService(client, cfg.EvalModel, cfg.EvalTimeout),
		Reporter:  service.NewReporterService(client, cfg.ScorerModel, cfg.ScorerTimeout),
	}
}
