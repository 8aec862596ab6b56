package ioc

import (
	"net/http"
	"strings"

	"github.com/ani123rud/ACE/internal/interview"
	"github.com/ani123rud/ACE/internal/proctor"
	"github.com/ani123rud/ACE/internal/rag"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/server/egin"
)

func initGinxServer(interviewHdl *interview.Handler,
	ragHdl *rag.Handler,
	proctorHdl *proctor.Handler) *egin.Component {
	res := egin.Load("web").Build()
	res.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowOriginFunc: func(origin string) bool {
			// 本地前端随便连
			return strings.HasPrefix(origin, "http://localhost")
		},
	}))
	res.GET("/hello", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world!")
	})
	interviewHdl.PublicRoutes(res.Engine)
	ragHdl.PublicRoutes(res.Engine)
	proctorHdl.PublicRoutes(res.Engine)
	return res
}
