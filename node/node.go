/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/w3f-grants-archive/storage-hub/configs"
	"github.com/w3f-grants-archive/storage-hub/node/runstatus"
	"github.com/w3f-grants-archive/storage-hub/node/web"
	"github.com/w3f-grants-archive/storage-hub/pkg/cache"
	"github.com/w3f-grants-archive/storage-hub/pkg/chain"
	"github.com/w3f-grants-archive/storage-hub/pkg/confile"
	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
	"github.com/w3f-grants-archive/storage-hub/pkg/logger"
	"github.com/w3f-grants-archive/storage-hub/pkg/out"
	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

type Provider interface {
	Run()
}

type Node struct {
	confile.Confiler
	logger.Logger
	cache.Cache
	chain.Chainer
	runstatus.Runstatus
	Forest    *forest.Forest
	Submitter *submitter.Submitter
}

// New is used to build a node instance
func New(
	cfg confile.Confiler,
	lg logger.Logger,
	cach cache.Cache,
	cli chain.Chainer,
	rs runstatus.Runstatus,
	f *forest.Forest,
	sub *submitter.Submitter,
) *Node {
	return &Node{
		Confiler:  cfg,
		Logger:    lg,
		Cache:     cach,
		Chainer:   cli,
		Runstatus: rs,
		Forest:    f,
		Submitter: sub,
	}
}

func (n *Node) Run() {
	n.listenLocal()
	go n.TaskMgt()
	out.Ok("Start successfully")
	select {}
}

// listenLocal starts the local status API.
func (n *Node) listenLocal() {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.Default()
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "DELETE"}
	engine.Use(cors.New(config))

	handler := web.NewHandler(web.NewStatusHandler(n.Runstatus, n.Submitter.Inflight, n.Forest.Has, n.QueueDeletion))
	handler.RegisterRoutes(engine)

	port := n.ReadServicePort()
	if port == 0 {
		port = configs.DefaultServicePort
	}
	if utils.OpenedPort(int(port)) {
		out.Err(fmt.Sprintf("Port %d is already in use, status API not started", port))
		return
	}
	go engine.Run(fmt.Sprintf(":%d", port))
	out.Tip(fmt.Sprintf("Local service started: [GET] localhost:%d/status", port))
}
