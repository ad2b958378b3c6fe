/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

// Domain rejections. Typed outcomes for the caller, never fatal and
// never retried by the ledger itself.
var (
	ErrProviderNotFound        = errors.New("provider not registered")
	ErrProviderExists          = errors.New("provider already registered")
	ErrRequestNotFound         = errors.New("storage request not found")
	ErrRequestExpired          = errors.New("storage request expired")
	ErrRequestAlreadySatisfied = errors.New("storage request already satisfied")
	ErrAlreadyVolunteered      = errors.New("provider already volunteered")
	ErrNotVolunteered          = errors.New("provider did not volunteer")
	ErrAlreadyConfirmed        = errors.New("provider already confirmed storing")
	ErrNotYetEligible          = errors.New("provider not yet eligible")
	ErrCapacityExceeded        = errors.New("provider capacity exceeded")
	ErrCapacityChangeTooSoon   = errors.New("capacity changed too recently")
	ErrFileNotStored           = errors.New("file not stored by provider")
	ErrProofRejected           = errors.New("proof rejected")
	ErrUnknownSeed             = errors.New("no challenge seed for tick")
	ErrPipelineHalted          = errors.New("provider pipeline halted")
)

// InvariantError marks a state the protocol can never reach through
// valid transitions: a diverged forest root or a duplicated
// replication slot. It is fatal for the provider's pipeline and must
// surface loudly, callers must not retry around it.
type InvariantError struct {
	Provider ProviderID
	Reason   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation for provider %x: %s", e.Provider[:6], e.Reason)
}

// IsInvariant reports whether err wraps an InvariantError.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
