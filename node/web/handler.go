/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package web

import "github.com/gin-gonic/gin"

type Handler struct {
	*StatusHandler
}

func NewHandler(status *StatusHandler) *Handler {
	return &Handler{
		StatusHandler: status,
	}
}

func (h *Handler) RegisterRoutes(server *gin.Engine) {
	h.StatusHandler.RegisterRoutes(server)
}
