/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAccount(t *testing.T) {
	pubkey := make([]byte, 32)
	for i := range pubkey {
		pubkey[i] = byte(i)
	}

	// AccountID is a fixed [32]byte, so its SCALE form is the raw key
	b, err := encodeAccount(pubkey)
	require.NoError(t, err)
	assert.Equal(t, pubkey, b)

	_, err = encodeAccount(pubkey[:16])
	assert.Error(t, err)
}
