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

//go:build e2e

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ani123rud/ACE/internal/proctor"
	"github.com/ani123rud/ACE/internal/proctor/internal/repository/dao"
	"github.com/ani123rud/ACE/internal/proctor/internal/web"
	"github.com/ani123rud/ACE/internal/test"
	testioc "github.com/ani123rud/ACE/internal/test/ioc"
	"github.com/ecodeclub/ekit/iox"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const sessionID = int64(3001)

type HandlerTestSuite struct {
	suite.Suite
	server *egin.Component
	db     *egorm.Component
	dao    dao.ProctorLogDAO
}

func (s *HandlerTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	module, err := proctor.InitModule(s.db, testioc.InitRedis(), proctor.Config{
		VisionBaseURL: "http://localhost:8001",
		VisionTimeout: 5 * time.Second,
		EvidenceDir:   s.T().TempDir(),
	})
	require.NoError(s.T(), err)
	econf.Set("server", map[string]any{"contextTimeout": "1s"})
	server := egin.Load("server").Build()
	module.Hdl.PublicRoutes(server.Engine)
	s.server = server
	s.dao = dao.NewGORMProctorLogDAO(s.db)
}

func (s *HandlerTestSuite) TearDownTest() {
	require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE `proctor_logs`").Error)
	require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE `alerts`").Error)
}

func (s *HandlerTestSuite) TestSignal() {
	testCases := []struct {
		name          string
		req           web.SignalReq
		wantCode      int
		wantBizCode   int
		wantIntegrity int
	}{
		{
			name: "切屏信号扣5分",
			req: web.SignalReq{
				SessionID: sessionID,
				Type:      "tab_switch",
				Severity:  "medium",
				At:        time.Now().UnixMilli(),
			},
			wantCode:      200,
			wantIntegrity: 95,
		},
		{
			name: "非法信号类型",
			req: web.SignalReq{
				SessionID: sessionID,
				Type:      "phone_detected",
			},
			wantCode:    200,
			wantBizCode: 400,
		},
		{
			name:        "缺少会话",
			req:         web.SignalReq{Type: "noise"},
			wantCode:    200,
			wantBizCode: 400,
		},
	}
	for _, tc := range testCases {
		s.T().Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost,
				"/proctor", iox.NewJSONReader(tc.req))
			req.Header.Set("content-type", "application/json")
			require.NoError(t, err)
			recorder := test.NewJSONResponseRecorder[web.SignalResp]()
			s.server.ServeHTTP(recorder, req)
			require.Equal(t, tc.wantCode, recorder.Code)
			resp := recorder.MustScan()
			assert.Equal(t, tc.wantBizCode, resp.Code)
			if tc.wantBizCode == 0 {
				assert.Equal(t, tc.wantIntegrity, resp.Data.Integrity)
				assert.Positive(t, resp.Data.LogID)
			}
			err = s.db.Exec("TRUNCATE TABLE `proctor_logs`").Error
			require.NoError(t, err)
		})
	}
}

// 同一类型在去重窗口内连发，只有第一条影响可信分
func (s *HandlerTestSuite) TestSignal_DedupWindow() {
	t := s.T()
	at := time.Now().UnixMilli()
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodPost,
			"/proctor", iox.NewJSONReader(web.SignalReq{
				SessionID: sessionID,
				Type:      "tab_switch",
				At:        at + int64(i)*1000,
			}))
		req.Header.Set("content-type", "application/json")
		require.NoError(t, err)
		recorder := test.NewJSONResponseRecorder[web.SignalResp]()
		s.server.ServeHTTP(recorder, req)
		require.Equal(t, 200, recorder.Code)
		assert.Equal(t, 95, recorder.MustScan().Data.Integrity)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	logs, err := s.dao.FindBySession(ctx, sessionID)
	require.NoError(t, err)
	// 信号全部落库，扣分只扣一次
	assert.Len(t, logs, 3)
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
