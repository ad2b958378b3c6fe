/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package submitter

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// Strategy controls the retry loop of a single submission: how long to
// wait for inclusion, how many resubmissions are allowed, and how the
// tip escalates across attempts.
//
// The tip curve is a geometric series from BaseTip at attempt 0 up to
// BaseTip+MaxTip at attempt MaxRetries. It is strictly increasing in
// the attempt number whenever Multiplier > 1.
type Strategy struct {
	// MaxRetries bounds the number of resubmissions after the first
	// attempt. The total number of submissions is MaxRetries+1.
	MaxRetries uint32

	// Timeout is how long a single attempt waits for inclusion before
	// the next attempt escalates the tip.
	Timeout time.Duration

	// BaseTip is the tip of the first attempt, in milliunits.
	BaseTip uint64

	// MaxTip is the extra tip spent by the final attempt, on top of
	// BaseTip, in milliunits.
	MaxTip uint64

	// Multiplier is the ratio of the geometric tip series, > 1.
	Multiplier float64

	// ShouldRetry reports whether the intent behind the submission is
	// still worth pursuing. Checked before every resubmission; a nil
	// ShouldRetry means the intent never goes stale on its own.
	ShouldRetry func() bool
}

// Check validates the strategy parameters.
func (s Strategy) Check() error {
	if s.MaxRetries < 1 {
		return errors.New("[Check] max retries must be at least 1")
	}
	if s.Timeout <= 0 {
		return errors.New("[Check] timeout must be positive")
	}
	if s.Multiplier <= 1 {
		return errors.New("[Check] multiplier must be greater than 1")
	}
	if s.MaxTip < uint64(s.MaxRetries) {
		return errors.New("[Check] max tip must be at least one milliunit per retry")
	}
	return nil
}

// Tip returns the tip for the given attempt number, attempt 0 being
// the first submission. Attempts past MaxRetries are clamped to the
// final value BaseTip+MaxTip.
func (s Strategy) Tip(attempt uint32) uint64 {
	if attempt == 0 {
		return s.BaseTip
	}
	if attempt > s.MaxRetries {
		attempt = s.MaxRetries
	}
	// the geometric step can round down to nothing for small MaxTip;
	// walking the series keeps every attempt strictly above the last
	tip := s.BaseTip
	for a := uint32(1); a <= attempt; a++ {
		frac := float64(a) / float64(s.MaxRetries)
		geo := float64(s.MaxTip) * (math.Pow(s.Multiplier, frac) - 1) / (s.Multiplier - 1)
		next := s.BaseTip + uint64(geo)
		if next <= tip {
			next = tip + 1
		}
		tip = next
	}
	return tip
}
