/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/w3f-grants-archive/storage-hub/pkg/confile"
)

func TestSmallStrategy(t *testing.T) {
	n := &Node{Confiler: confile.NewConfigFile()}
	strat := n.smallStrategy(nil)
	require.NoError(t, strat.Check())
	require.Equal(t, uint64(0), strat.Tip(0))
	require.Equal(t, uint64(confirmMaxTip), strat.Tip(confirmMaxRetries))
}

func TestProofStrategyFromProfile(t *testing.T) {
	cfg := confile.NewConfigFile()
	cfg.Submit = confile.Submit{
		Basetip:    10,
		Maxtip:     1000,
		Multiplier: 2.0,
		Maxretries: 5,
	}
	cfg.Chain.Timeout = 12

	n := &Node{Confiler: cfg}
	strat := n.proofStrategy(nil)
	require.NoError(t, strat.Check())
	require.Equal(t, uint32(5), strat.MaxRetries)
	require.Equal(t, time.Second*12, strat.Timeout)
	require.Equal(t, uint64(10), strat.Tip(0))
	require.Equal(t, uint64(10+1000), strat.Tip(5))
}
