package main

import (
	"context"

	"github.com/ani123rud/ACE/ioc"
	"github.com/gotomicro/ego"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/server/egovernor"
)

// export EGO_DEBUG=true
// go run main.go --config=config/config.yaml
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	var app *ioc.App
	// 退出前先掐掉消费者，让阻塞中的 XREADGROUP 返回
	egoApp := ego.New(ego.WithBeforeStopClean(func() error {
		cancel()
		if app == nil {
			return nil
		}
		for i := range app.Consumers {
			if err := app.Consumers[i].Stop(context.Background()); err != nil {
				elog.DefaultLogger.Error("停止消费者失败", elog.FieldErr(err))
			}
		}
		return nil
	}))
	var err error
	app, err = ioc.InitApp()
	if err != nil {
		panic(err)
	}
	// 启动后台消费者
	for i := range app.Consumers {
		app.Consumers[i].Start(ctx)
	}
	err = egoApp.
		Invoker().
		Serve(
			egovernor.Load("server.governor").Build(),
			app.Web).
		Run()
	if err != nil {
		elog.DefaultLogger.Error("App运行错误", elog.FieldErr(err))
	}
}
