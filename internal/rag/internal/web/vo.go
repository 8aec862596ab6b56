package web

import "github.com/ecodeclub/ginx"

type QueryReq struct {
	Domain   string `json:"domain"`
	Question string `json:"question"`
}

var systemErrorResult = ginx.Result{
	Code: 518001,
	Msg:  "系统错误",
}
