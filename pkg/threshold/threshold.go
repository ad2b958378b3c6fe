/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package threshold

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

// DefaultMaxThreshold is the upper bound of the raw eligibility value.
const DefaultMaxThreshold uint64 = 1 << 32

// WeightFn maps a provider's reputation weight to the divisor applied
// to its raw value. It must be monotonically non-decreasing and never
// return zero, so higher reputation only ever moves eligibility
// earlier and zero reputation is still served once the ramp completes.
type WeightFn func(reputation uint32) uint64

// LinearWeight is the default policy: one reputation point shaves the
// effective raw value by one divisor step.
func LinearWeight(reputation uint32) uint64 {
	return 1 + uint64(reputation)
}

// Engine decides, for a storage request and a provider, at which tick
// offset the provider may volunteer. It is a pure function of its
// inputs, all state lives with the caller.
type Engine struct {
	MaxThreshold uint64
	Weight       WeightFn
}

func NewEngine() *Engine {
	return &Engine{
		MaxThreshold: DefaultMaxThreshold,
		Weight:       LinearWeight,
	}
}

// rawValue derives the provider's position in the volunteering order
// for one file: the first eight bytes of
// blake2b(fingerprint || provider) reduced modulo MaxThreshold.
func (e *Engine) rawValue(fingerprint [32]byte, provider [32]byte) uint64 {
	h, _ := blake2b.New256(nil)
	h.Write(fingerprint[:])
	h.Write(provider[:])
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]) % e.MaxThreshold
}

func (e *Engine) effectiveRaw(fingerprint [32]byte, provider [32]byte, reputation uint32) uint64 {
	weight := e.Weight(reputation)
	if weight == 0 {
		weight = 1
	}
	return e.rawValue(fingerprint, provider) / weight
}

// ceiling is the threshold open at the given tick offset:
// MaxThreshold * elapsed / rampWindow, saturating at MaxThreshold.
func (e *Engine) ceiling(elapsed uint32, rampWindow uint32) uint64 {
	if rampWindow == 0 || elapsed >= rampWindow {
		return e.MaxThreshold
	}
	hi, lo := bits.Mul64(e.MaxThreshold, uint64(elapsed))
	q, _ := bits.Div64(hi, lo, uint64(rampWindow))
	return q
}

// IsEligible reports whether the provider may volunteer for the file
// elapsed ticks after the request opened. Monotone in elapsed, and
// always true once elapsed reaches the ramp window.
func (e *Engine) IsEligible(fingerprint [32]byte, provider [32]byte, reputation uint32, elapsed uint32, rampWindow uint32) bool {
	return e.effectiveRaw(fingerprint, provider, reputation) <= e.ceiling(elapsed, rampWindow)
}

// EligibleAt returns the first tick offset at which the provider
// becomes eligible, the inverse of IsEligible.
func (e *Engine) EligibleAt(fingerprint [32]byte, provider [32]byte, reputation uint32, rampWindow uint32) uint32 {
	effective := e.effectiveRaw(fingerprint, provider, reputation)
	if effective == 0 || rampWindow == 0 {
		return 0
	}
	// smallest t with MaxThreshold * t / rampWindow >= effective
	hi, lo := bits.Mul64(effective, uint64(rampWindow))
	q, r := bits.Div64(hi, lo, e.MaxThreshold)
	if r > 0 {
		q++
	}
	if q > uint64(rampWindow) {
		q = uint64(rampWindow)
	}
	return uint32(q)
}
