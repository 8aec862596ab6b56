package ioc

import (
	"context"

	"github.com/gotomicro/ego/server/egin"
)

// Consumer 后台消费者的统一生命周期
type Consumer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

type App struct {
	Web       *egin.Component
	Consumers []Consumer
}
