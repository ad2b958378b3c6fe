/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package web

import (
	"time"

	"github.com/docker/go-units"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/process"

	"github.com/w3f-grants-archive/storage-hub/node/common"
	"github.com/w3f-grants-archive/storage-hub/node/runstatus"
	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

type StatusHandler struct {
	runstatus.Runstatus
	inflight      func() []submitter.Submission
	forestHas     func(key [32]byte) (bool, error)
	queueDeletion func(key [32]byte) error
}

func NewStatusHandler(rs runstatus.Runstatus, inflight func() []submitter.Submission, forestHas func(key [32]byte) (bool, error), queueDeletion func(key [32]byte) error) *StatusHandler {
	return &StatusHandler{Runstatus: rs, inflight: inflight, forestHas: forestHas, queueDeletion: queueDeletion}
}

func (s *StatusHandler) RegisterRoutes(server *gin.Engine) {
	statusgroup := server.Group("/status")
	statusgroup.GET("", s.getStatus)
	statusgroup.GET("/forest", s.getForest)
	statusgroup.GET("/file/:hash", s.getFile)
	statusgroup.DELETE("/file/:hash", s.deleteFile)
	statusgroup.GET("/submissions", s.getSubmissions)
}

type StatusData struct {
	PID      int     `json:"pid"`
	Cores    int     `json:"cores"`
	Addr     string  `json:"addr"`
	CpuUsage float64 `json:"cpu_usage"`
	MemUsage uint64  `json:"mem_usage"`

	CurrentRpc        string `json:"current_rpc"`
	CurrentRpcStatus  bool   `json:"current_rpc_status"`
	LastConnectedTime string `json:"last_connected_time"`

	State        string `json:"state"`
	SignatureAcc string `json:"signature_acc"`
	Capacity     string `json:"capacity"`
	DataUsed     string `json:"data_used"`

	LastProvedTick uint32 `json:"last_proved_tick"`
	NextDeadline   uint32 `json:"next_deadline"`
	Challenging    bool   `json:"challenging"`
}

type ForestData struct {
	Root      string `json:"root"`
	FileCount int    `json:"file_count"`
}

type SubmissionsData struct {
	Submitted uint64           `json:"submitted"`
	Included  uint64           `json:"included"`
	Failed    uint64           `json:"failed"`
	Inflight  []SubmissionData `json:"inflight"`
}

type SubmissionData struct {
	Id        string `json:"id"`
	Attempts  uint32 `json:"attempts"`
	Tip       uint64 `json:"tip"`
	StartedAt string `json:"started_at"`
}

func (s *StatusHandler) getStatus(c *gin.Context) {
	var cpuUsage float64
	var memUsage uint64
	p, err := process.NewProcess(int32(s.GetPID()))
	if err == nil {
		cpuUsage, _ = p.CPUPercent()
		if info, err := p.MemoryInfo(); err == nil {
			memUsage = info.RSS
		}
	}

	var data = StatusData{
		PID:      s.GetPID(),
		Cores:    s.GetCpucores(),
		Addr:     s.GetComAddr(),
		CpuUsage: cpuUsage,
		MemUsage: memUsage,

		CurrentRpc:        s.GetCurrentRpc(),
		CurrentRpcStatus:  s.GetCurrentRpcst(),
		LastConnectedTime: s.GetLastConnectedTime(),

		State:        s.GetProviderState(),
		SignatureAcc: s.GetSignAcc(),
		Capacity:     units.BytesSize(float64(s.GetCapacity())),
		DataUsed:     units.BytesSize(float64(s.GetDataUsed())),

		LastProvedTick: s.GetLastProvedTick(),
		NextDeadline:   s.GetNextDeadline(),
		Challenging:    s.GetChallenging(),
	}

	c.JSON(200, common.RespType{
		Code: 200,
		Msg:  common.OK,
		Data: data,
	})
}

func (s *StatusHandler) getForest(c *gin.Context) {
	c.JSON(200, common.RespType{
		Code: 200,
		Msg:  common.OK,
		Data: ForestData{
			Root:      s.GetForestRoot(),
			FileCount: s.GetFileCount(),
		},
	})
}

func (s *StatusHandler) getFile(c *gin.Context) {
	hash := c.Param("hash")
	if hash == "" {
		c.JSON(400, common.RespType{Code: 400, Msg: common.ERR_EmptyHash})
		return
	}
	key, err := utils.ParseHash(hash)
	if err != nil {
		c.JSON(400, common.RespType{Code: 400, Msg: common.ERR_HashLength})
		return
	}
	has, err := s.forestHas(key)
	if err != nil {
		c.JSON(500, common.RespType{Code: 500, Msg: common.ERR_SystemErr})
		return
	}
	if !has {
		c.JSON(404, common.RespType{Code: 404, Msg: common.ERR_NotFound})
		return
	}
	c.JSON(200, common.RespType{Code: 200, Msg: common.OK, Data: hash})
}

// deleteFile queues a stored file key for stop-storing. The deletion
// task submits the request on its next pass.
func (s *StatusHandler) deleteFile(c *gin.Context) {
	hash := c.Param("hash")
	if hash == "" {
		c.JSON(400, common.RespType{Code: 400, Msg: common.ERR_EmptyHash})
		return
	}
	key, err := utils.ParseHash(hash)
	if err != nil {
		c.JSON(400, common.RespType{Code: 400, Msg: common.ERR_HashLength})
		return
	}
	has, err := s.forestHas(key)
	if err != nil {
		c.JSON(500, common.RespType{Code: 500, Msg: common.ERR_SystemErr})
		return
	}
	if !has {
		c.JSON(404, common.RespType{Code: 404, Msg: common.ERR_NotFound})
		return
	}
	if err := s.queueDeletion(key); err != nil {
		c.JSON(500, common.RespType{Code: 500, Msg: common.ERR_SystemErr})
		return
	}
	c.JSON(200, common.RespType{Code: 200, Msg: common.OK, Data: hash})
}

func (s *StatusHandler) getSubmissions(c *gin.Context) {
	var inflight []SubmissionData
	for _, sub := range s.inflight() {
		inflight = append(inflight, SubmissionData{
			Id:        sub.Id.String(),
			Attempts:  sub.Attempts,
			Tip:       sub.Tip,
			StartedAt: sub.StartedAt.Format(time.DateTime),
		})
	}
	c.JSON(200, common.RespType{
		Code: 200,
		Msg:  common.OK,
		Data: SubmissionsData{
			Submitted: s.GetSubmitted(),
			Included:  s.GetIncluded(),
			Failed:    s.GetFailed(),
			Inflight:  inflight,
		},
	})
}
