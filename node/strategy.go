/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"time"

	"github.com/w3f-grants-archive/storage-hub/configs"
	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
)

// smallStrategy is the retry budget of cheap bookkeeping transactions
// (volunteer, confirm, capacity, stop-storing).
func (n *Node) smallStrategy(shouldRetry func() bool) submitter.Strategy {
	return submitter.Strategy{
		MaxRetries:  confirmMaxRetries,
		Timeout:     configs.TimeToWaitTransaction,
		BaseTip:     0,
		MaxTip:      confirmMaxTip,
		Multiplier:  confirmMultiplier,
		ShouldRetry: shouldRetry,
	}
}

// proofStrategy is the configured budget of proof submissions, the
// transactions that must never miss their deadline.
func (n *Node) proofStrategy(shouldRetry func() bool) submitter.Strategy {
	timeout := time.Duration(n.ReadTimeout()) * time.Second
	if timeout <= 0 {
		timeout = configs.TimeToWaitTransaction
	}
	return submitter.Strategy{
		MaxRetries:  n.ReadMaxRetries(),
		Timeout:     timeout,
		BaseTip:     n.ReadBaseTip(),
		MaxTip:      n.ReadMaxTip(),
		Multiplier:  n.ReadMultiplier(),
		ShouldRetry: shouldRetry,
	}
}
