/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package web

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w3f-grants-archive/storage-hub/node/runstatus"
	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

func testEngine(stored [32]byte, queued map[[32]byte]bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewStatusHandler(
		runstatus.NewRunstatus(),
		func() []submitter.Submission { return nil },
		func(key [32]byte) (bool, error) { return key == stored, nil },
		func(key [32]byte) error {
			queued[key] = true
			return nil
		},
	)
	handler.RegisterRoutes(engine)
	return engine
}

func TestFileLookup(t *testing.T) {
	stored := [32]byte{1, 2, 3}
	engine := testEngine(stored, map[[32]byte]bool{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/file/"+utils.HashToString(stored), nil))
	assert.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/file/"+utils.HashToString([32]byte{9}), nil))
	assert.Equal(t, 404, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/file/zz", nil))
	assert.Equal(t, 400, w.Code)
}

func TestDeleteFileQueuesDeletion(t *testing.T) {
	stored := [32]byte{4, 5, 6}
	queued := map[[32]byte]bool{}
	engine := testEngine(stored, queued)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("DELETE", "/status/file/"+utils.HashToString(stored), nil))
	require.Equal(t, 200, w.Code)
	assert.True(t, queued[stored])

	// keys the forest does not hold are never queued
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("DELETE", "/status/file/"+utils.HashToString([32]byte{9}), nil))
	assert.Equal(t, 404, w.Code)
	assert.Len(t, queued, 1)
}
