/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import "time"

// cache key prefixes
const (
	// Cach_prefix_volunteer holds file keys the node intends to
	// volunteer for, value is the request's fingerprint.
	Cach_prefix_volunteer = "volunteer:pending:"

	// Cach_prefix_confirm holds file keys whose volunteer landed and
	// whose confirm-storing transaction is still due, value is the
	// file size.
	Cach_prefix_confirm = "confirm:pending:"

	// Cach_prefix_reported holds the last tick a proof was reported
	// for, the guard against double submission of one round.
	Cach_prefix_reported = "challenge:reported"

	// Cach_prefix_deletion holds file keys a stop-storing request was
	// submitted for, awaiting the checkpoint proof that removes them.
	Cach_prefix_deletion = "deletion:pending:"
)

// confirm-storing transactions are small and cheap, they ride a tight
// retry budget instead of the configured proof strategy
const (
	confirmMaxRetries uint32 = 3
	confirmMaxTip     uint64 = 500
	confirmMultiplier        = 2.0
)

// task poll intervals
const (
	pollInterval       = time.Second * 6
	errorPauseInterval = time.Minute
)

// deadlineLookahead is how many ticks before the deadline the
// challenge task starts proving.
const deadlineLookahead uint32 = 2
