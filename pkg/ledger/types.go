/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
)

type (
	ProviderID = [32]byte
	AccountID  = [32]byte
	FileKey    = forest.Key
	Seed       = [32]byte
)

// ProofState is the challenge state machine of one provider.
type ProofState uint8

const (
	Proved ProofState = iota
	AwaitingProof
	Overdue
)

func (s ProofState) String() string {
	switch s {
	case Proved:
		return "Proved"
	case AwaitingProof:
		return "AwaitingProof"
	case Overdue:
		return "Overdue"
	default:
		return "Unknown"
	}
}

// Provider is one registered backup storage provider. ForestRoot is
// advanced only through proven mutations, LastTickProved only through
// accepted proofs, both only ever move forward.
type Provider struct {
	ID                     ProviderID
	Owner                  AccountID
	Stake                  uint64
	Reputation             uint32
	Capacity               uint64
	DataUsed               uint64
	Multiaddrs             []string
	ForestRoot             forest.Hash
	LastTickProved         uint32
	ProofState             ProofState
	MaxFileSize            uint64
	SignUpTick             uint32
	NextCapacityChangeTick uint32

	// Files maps each confirmed file key to its size so proven
	// removals can release the space again.
	Files map[FileKey]uint64

	// SlashedDeadline is the last deadline a slash was emitted for,
	// the guard that keeps slashing to once per missed deadline.
	SlashedDeadline uint32

	// Halted is set after an invariant violation. Every further
	// operation on this provider is refused until external
	// reconciliation.
	Halted bool
}

// RequestStatus is the lifecycle of a storage request.
type RequestStatus uint8

const (
	Open RequestStatus = iota
	Fulfilled
	Expired
)

// StorageRequest tracks one user storage request until enough
// distinct providers confirm or the time to live runs out.
type StorageRequest struct {
	FileKey           FileKey
	Fingerprint       [32]byte
	BucketID          [32]byte
	Location          string
	Owner             AccountID
	FileSize          uint64
	ReplicationTarget uint32
	CreatedTick       uint32
	Status            RequestStatus

	Volunteers map[ProviderID]bool
	Confirmed  map[ProviderID]bool
}

// PriorityChallenge is a forced membership check queued by events
// like file deletion. ShouldRemove carries the mutation the verifier
// applies when the provider proves it still holds the key.
type PriorityChallenge struct {
	Key          FileKey
	ShouldRemove bool
}

// CheckpointBatch is the network-wide challenge batch emitted every
// checkpoint period, merging the queued priority challenges.
type CheckpointBatch struct {
	Tick       uint32
	Challenges []PriorityChallenge
}

// Proof is one provider's answer to its challenge set for a tick.
type Proof struct {
	Provider ProviderID
	Tick     uint32
	Forest   *forest.Proof
}

// ProofOutcome is the verdict on a recorded proof.
type ProofOutcome uint8

const (
	// ProofAccepted covers both a first valid proof and an identical
	// duplicate, which is a no-op rather than an error.
	ProofAccepted ProofOutcome = iota
	// ProofAcceptedLate is a valid proof recorded after the deadline.
	// It advances the provider but does not revert the slash already
	// applied for the missed deadline.
	ProofAcceptedLate
)

// SlashEvent is emitted once per newly missed deadline.
type SlashEvent struct {
	Provider ProviderID
	Amount   uint64
}

// TickEvents is everything a tick advance produced.
type TickEvents struct {
	Slashes    []SlashEvent
	Checkpoint *CheckpointBatch
	Expired    []FileKey
}

// Verdict answers an eligibility query for a volunteer.
type Verdict uint8

const (
	Eligible Verdict = iota
	NotYetEligible
	Filled
)

// VolunteerVerdict couples the verdict with the remaining wait when
// the provider is not yet eligible.
type VolunteerVerdict struct {
	Verdict        Verdict
	TicksRemaining uint32
}
