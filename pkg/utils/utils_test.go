/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashStringRoundTrip(t *testing.T) {
	h := CalcBlake2b256([]byte("fingerprint"), []byte("segment"))
	s := HashToString(h)
	assert.Len(t, s, 66)
	assert.Equal(t, "0x", s[:2])

	got, err := ParseHash(s)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	// the prefix is optional on the way in
	got, err = ParseHash(s[2:])
	require.NoError(t, err)
	assert.Equal(t, h, got)

	_, err = ParseHash("")
	assert.Error(t, err)
	_, err = ParseHash("0f")
	assert.Error(t, err)
	_, err = ParseHash(s[:65] + "x")
	assert.Error(t, err)
}

func TestCalcFileKeyIsSensitiveToEveryField(t *testing.T) {
	fp := CalcBlake2b256([]byte("fp"))
	bucket := CalcBlake2b256([]byte("bucket"))
	owner := bytes.Repeat([]byte{7}, 32)

	base := CalcFileKey(fp, "/movies/a.mp4", owner, bucket)
	assert.NotEqual(t, base, CalcFileKey(fp, "/movies/b.mp4", owner, bucket))
	assert.NotEqual(t, base, CalcFileKey(fp, "/movies/a.mp4", bytes.Repeat([]byte{8}, 32), bucket))
	assert.NotEqual(t, base, CalcFileKey(CalcBlake2b256([]byte("fp2")), "/movies/a.mp4", owner, bucket))
	assert.Equal(t, base, CalcFileKey(fp, "/movies/a.mp4", owner, bucket))
}

func TestAccountCodecRoundTrip(t *testing.T) {
	pub := bytes.Repeat([]byte{0x11}, 32)
	acc, err := EncodePublicKeyAsAccount(pub)
	require.NoError(t, err)

	require.NoError(t, VerityAddress(acc, SubstratePrefix))

	got, err := ParsingPublickey(acc)
	require.NoError(t, err)
	assert.Equal(t, pub, got)

	_, err = EncodePublicKeyAsAccount(pub[:31])
	assert.Error(t, err)
	_, err = ParsingPublickey("not an address")
	assert.Error(t, err)
}
