/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package confile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

func TestParse(t *testing.T) {
	dir := t.TempDir()
	profile := `app:
  workspace: "` + dir + `"
  port: 15001
  capacity: 1000
  multiaddrs:
    - "/ip4/127.0.0.1/tcp/30350"
chain:
  mnemonic: "` + testMnemonic + `"
  timeout: 30
  rpcs:
    - "ws://127.0.0.1:9944/"
submit:
  basetip: 0
  maxtip: 500
  multiplier: 2.0
  maxretries: 5`

	fpath := filepath.Join(dir, "conf.yaml")
	err := os.WriteFile(fpath, []byte(profile), 0644)
	require.NoError(t, err)

	c := NewConfigFile()
	err = c.Parse(fpath)
	require.NoError(t, err)

	assert.Equal(t, uint16(15001), c.ReadServicePort())
	assert.Equal(t, uint64(1000), c.ReadCapacity())
	assert.Equal(t, []string{"ws://127.0.0.1:9944/"}, c.ReadRpcEndpoints())
	assert.Equal(t, uint32(5), c.ReadMaxRetries())
	assert.Equal(t, 2.0, c.ReadMultiplier())
	assert.Len(t, c.ReadSignaturePublickey(), 32)
	assert.NotEmpty(t, c.ReadSignatureAccount())
}

func TestParseRejectsBadMultiaddr(t *testing.T) {
	dir := t.TempDir()
	profile := `app:
  workspace: "` + dir + `"
  port: 15001
  capacity: 1000
  multiaddrs:
    - "not-a-multiaddr"
chain:
  mnemonic: "` + testMnemonic + `"
  rpcs:
    - "ws://127.0.0.1:9944/"
submit:
  multiplier: 2.0`

	fpath := filepath.Join(dir, "conf.yaml")
	err := os.WriteFile(fpath, []byte(profile), 0644)
	require.NoError(t, err)

	c := NewConfigFile()
	err = c.Parse(fpath)
	assert.Error(t, err)
}
