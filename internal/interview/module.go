package interview

import (
	"context"
	"sync"

	"github.com/ani123rud/ACE/internal/ai"
	"github.com/ani123rud/ACE/internal/interview/internal/domain"
	"github.com/ani123rud/ACE/internal/interview/internal/event"
	"github.com/ani123rud/ACE/internal/interview/internal/repository"
	"github.com/ani123rud/ACE/internal/interview/internal/repository/dao"
	"github.com/ani123rud/ACE/internal/interview/internal/service"
	"github.com/ani123rud/ACE/internal/interview/internal/web"
	"github.com/ani123rud/ACE/internal/pkg/streamx"
	"github.com/ani123rud/ACE/internal/proctor"
	"github.com/ani123rud/ACE/internal/rag"
	"github.com/ego-component/egorm"
	"github.com/redis/go-redis/v9"
)

type Module struct {
	Orchestrator OrchestratorService
	Finalize     FinalizeService
	Hdl          *Handler
	TaskConsumer *event.TaskConsumer
}

type (
	OrchestratorService = service.OrchestratorService
	FinalizeService     = service.FinalizeService
	EvalMode            = service.EvalMode
	SubmitResult        = service.SubmitResult
	Handler             = web.Handler

	Session       = domain.Session
	SessionStatus = domain.SessionStatus
	Progress      = domain.Progress
	Question      = domain.Question
	Answer        = domain.Answer
)

const (
	EvalModeInline   = service.EvalModeInline
	EvalModeDeferred = service.EvalModeDeferred
	EvalModeFastFlow = service.EvalModeFastFlow
)

type Config struct {
	// 作答评估的执行时机，非法值回落到 fastflow
	EvalMode string
}

var initTableOnce sync.Once

func InitModule(db *egorm.Component,
	client redis.Cmdable,
	aiModule *ai.Module,
	ragModule *rag.Module,
	proctorModule *proctor.Module,
	cfg Config) (*Module, error) {
	initTableOnce.Do(func() {
		if err := dao.InitTables(db); err != nil {
			panic(err)
		}
	})
	sessions := repository.NewSessionRepository(dao.NewGORMSessionDAO(db))
	questions := repository.NewQuestionRepository(dao.NewGORMQuestionDAO(db))
	answers := repository.NewAnswerRepository(dao.NewGORMAnswerDAO(db))

	producer := event.NewTaskProducer(streamx.NewProducer(client))
	orchestrator := service.NewOrchestratorService(sessions, questions, answers,
		aiModule.Evaluator, ragModule.Svc, producer, service.EvalMode(cfg.EvalMode))
	finalize := service.NewFinalizeService(sessions, answers, orchestrator,
		aiModule.Reporter, proctorModule.Integrity, producer)

	consumer, err := event.NewTaskConsumer(client,
		orchestrator.EvaluateAnswer,
		func(ctx context.Context, sessionID int64) error {
			_, err := finalize.Finalize(ctx, sessionID)
			return err
		})
	if err != nil {
		return nil, err
	}
	return &Module{
		Orchestrator: orchestrator,
		Finalize:     finalize,
		Hdl:          web.NewHandler(orchestrator, finalize),
		TaskConsumer: consumer,
	}, nil
}
