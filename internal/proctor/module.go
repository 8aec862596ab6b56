package proctor

import (
	"sync"
	"time"

	"github.com/ani123rud/ACE/internal/pkg/streamx"
	"github.com/ani123rud/ACE/internal/proctor/internal/domain"
	"github.com/ani123rud/ACE/internal/proctor/internal/event"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository/dao"
	"github.com/ani123rud/ACE/internal/proctor/internal/service"
	"github.com/ani123rud/ACE/internal/proctor/internal/vision"
	"github.com/ani123rud/ACE/internal/proctor/internal/web"
	"github.com/ego-component/egorm"
	"github.com/redis/go-redis/v9"
)

type Module struct {
	Integrity     IntegrityService
	Vision        VisionService
	Events        EventService
	Hdl           *Handler
	AlertConsumer *event.AlertConsumer
}

type (
	IntegrityService = service.IntegrityService
	VisionService    = service.VisionService
	EventService     = service.EventService
	AlertService     = service.AlertService
	Handler          = web.Handler

	Signal         = domain.Signal
	SignalType     = domain.SignalType
	Severity       = domain.Severity
	Alert          = domain.Alert
	InterviewEvent = domain.InterviewEvent
	Verification   = domain.Verification
)

const (
	SignalTabSwitch    = domain.SignalTabSwitch
	SignalFaceCount    = domain.SignalFaceCount
	SignalNoise        = domain.SignalNoise
	SignalMultiSpeaker = domain.SignalMultiSpeaker
)

type Config struct {
	// 人脸检测边车地址
	VisionBaseURL string
	VisionTimeout time.Duration
	// 告警截图证据的落盘目录
	EvidenceDir string
}

var initTableOnce sync.Once

func InitModule(db *egorm.Component, client redis.Cmdable, cfg Config) (*Module, error) {
	initTableOnce.Do(func() {
		if err := dao.InitTables(db); err != nil {
			panic(err)
		}
	})
	signalRepo := repository.NewSignalRepository(dao.NewGORMProctorLogDAO(db))
	alertRepo := repository.NewAlertRepository(dao.NewGORMAlertDAO(db))
	faceRepo := repository.NewFaceRefRepository(dao.NewGORMFaceRefDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewGORMInterviewEventDAO(db))

	producer := event.NewAlertProducer(streamx.NewProducer(client))
	integrity := service.NewIntegrityService(signalRepo, producer)
	alerts := service.NewAlertService(alertRepo)
	events := service.NewEventService(eventRepo)
	vis := service.NewVisionService(vision.NewClient(cfg.VisionBaseURL, cfg.VisionTimeout), faceRepo)

	consumer, err := event.NewAlertConsumer(client, alertRepo, cfg.EvidenceDir)
	if err != nil {
		return nil, err
	}
	return &Module{
		Integrity:     integrity,
		Vision:        vis,
		Events:        events,
		Hdl:           web.NewHandler(integrity, alerts, events, vis),
		AlertConsumer: consumer,
	}, nil
}

// ComputeIntegrityScore 暴露给评分模块直接使用
var ComputeIntegrityScore = service.ComputeIntegrityScore
