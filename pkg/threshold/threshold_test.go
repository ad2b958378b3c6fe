/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func testID(i byte) [32]byte {
	return blake2b.Sum256([]byte{i})
}

func TestEligibilityMonotonicInTicks(t *testing.T) {
	e := NewEngine()
	fp := testID(1)
	const ramp = 100

	for p := byte(0); p < 10; p++ {
		eligible := false
		for tick := uint32(0); tick <= ramp; tick++ {
			now := e.IsEligible(fp, testID(p), 0, tick, ramp)
			if eligible {
				assert.True(t, now, "provider %d lost eligibility at tick %d", p, tick)
			}
			eligible = eligible || now
		}
		assert.True(t, eligible)
	}
}

func TestRampCompleteLiveness(t *testing.T) {
	e := NewEngine()
	fp := testID(2)
	const ramp = 50

	// at the end of the ramp everyone is eligible, reputation zero included
	for p := byte(0); p < 32; p++ {
		assert.True(t, e.IsEligible(fp, testID(p), 0, ramp, ramp))
	}
}

func TestReputationMovesEligibilityEarlier(t *testing.T) {
	e := NewEngine()
	fp := testID(3)
	const ramp = 1000

	for p := byte(0); p < 10; p++ {
		plain := e.EligibleAt(fp, testID(p), 0, ramp)
		weighted := e.EligibleAt(fp, testID(p), 9, ramp)
		assert.LessOrEqual(t, weighted, plain)
	}
}

func TestEligibleAtInverse(t *testing.T) {
	e := NewEngine()
	fp := testID(4)
	const ramp = 777

	for p := byte(0); p < 20; p++ {
		for _, rep := range []uint32{0, 1, 5, 100} {
			at := e.EligibleAt(fp, testID(p), rep, ramp)
			require.LessOrEqual(t, at, uint32(ramp))
			assert.True(t, e.IsEligible(fp, testID(p), rep, at, ramp))
			if at > 0 {
				assert.False(t, e.IsEligible(fp, testID(p), rep, at-1, ramp))
			}
		}
	}
}

func TestRawValueDependsOnFileAndProvider(t *testing.T) {
	e := NewEngine()
	a := e.rawValue(testID(1), testID(10))
	b := e.rawValue(testID(1), testID(11))
	c := e.rawValue(testID(2), testID(10))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}
