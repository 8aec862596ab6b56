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

package web

import "github.com/ecodeclub/ginx"

type SignalReq struct {
	SessionID int64          `json:"sessionId"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Severity  string         `json:"severity"`
	At        int64          `json:"at"`
}

type SignalResp struct {
	LogID     int64 `json:"logId"`
	Integrity int   `json:"integrity"`
}

type EventReq struct {
	SessionID int64          `json:"sessionId"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Severity  string         `json:"severity"`
}

type ReferenceReq struct {
	SessionID   int64  `json:"sessionId"`
	ImageBase64 string `json:"imageBase64"`
}

type SaveReferenceReq struct {
	SessionID int64     `json:"sessionId"`
	Embedding []float64 `json:"embedding"`
	Method    string    `json:"method"`
	Model     string    `json:"model"`
}

type VerifyReq struct {
	SessionID   int64  `json:"sessionId"`
	ImageBase64 string `json:"imageBase64"`
}

var systemErrorResult = ginx.Result{
	Code: 519001,
	Msg:  "系统错误",
}
