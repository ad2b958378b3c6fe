/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
	"github.com/w3f-grants-archive/storage-hub/pkg/threshold"

	"github.com/pkg/errors"
)

// Params are the ledger-read global parameters of the protocol.
type Params struct {
	// ReplicationTarget is how many distinct providers must confirm
	// storing a file before its request is fulfilled.
	ReplicationTarget uint32
	// RampWindow is the tick count over which volunteering opens up
	// to all providers regardless of reputation.
	RampWindow uint32
	// CheckpointPeriod is the tick interval of checkpoint challenge
	// batches.
	CheckpointPeriod uint32
	// MinChallengePeriod floors the stake-derived challenge period.
	MinChallengePeriod uint32
	// StakeToPeriod divides a provider's stake into its challenge
	// period: more stake, shorter period.
	StakeToPeriod uint64
	// ChallengeTolerance is the grace added on top of the challenge
	// period before a deadline counts as missed.
	ChallengeTolerance uint32
	// SlashRatePerByte prices a missed deadline against the largest
	// file the provider ever confirmed.
	SlashRatePerByte uint64
	// RequestTTL is how many ticks a storage request stays open.
	RequestTTL uint32
	// RandomChallengeCount is the number of random challenges per
	// proof round.
	RandomChallengeCount uint32
	// MinCapacityChangeDelay is the tick distance between two
	// capacity changes of the same provider.
	MinCapacityChangeDelay uint32
}

// DefaultParams returns the parameter set used by tests and local
// networks. Production values come from the chain.
func DefaultParams() Params {
	return Params{
		ReplicationTarget:      2,
		RampWindow:             100,
		CheckpointPeriod:       10,
		MinChallengePeriod:     4,
		StakeToPeriod:          1 << 20,
		ChallengeTolerance:     2,
		SlashRatePerByte:       20,
		RequestTTL:             40,
		RandomChallengeCount:   4,
		MinCapacityChangeDelay: 10,
	}
}

// State is the whole on-ledger protocol state. All operations take
// the state explicitly, there is no ambient global. Transitions are
// single threaded per tick: the caller serializes Apply/AdvanceTick
// the way block execution serializes extrinsics.
type State struct {
	Params Params

	engine *threshold.Engine

	tick  uint32
	seeds map[uint32]Seed

	providers map[ProviderID]*Provider
	requests  map[FileKey]*StorageRequest

	priorityQueue []PriorityChallenge
	prioritySet   map[FileKey]bool

	lastCheckpointTick  uint32
	lastCheckpointBatch []PriorityChallenge
}

func NewState(params Params) *State {
	return &State{
		Params:      params,
		engine:      threshold.NewEngine(),
		seeds:       make(map[uint32]Seed),
		providers:   make(map[ProviderID]*Provider),
		requests:    make(map[FileKey]*StorageRequest),
		prioritySet: make(map[FileKey]bool),
	}
}

func (s *State) Tick() uint32 {
	return s.tick
}

// SeedAt returns the random seed recorded for a tick.
func (s *State) SeedAt(tick uint32) (Seed, error) {
	seed, ok := s.seeds[tick]
	if !ok {
		return Seed{}, errors.Wrapf(ErrUnknownSeed, "tick %d", tick)
	}
	return seed, nil
}

// RegisterProvider adds a new provider with an empty forest.
func (s *State) RegisterProvider(id ProviderID, owner AccountID, stake uint64, reputation uint32, capacity uint64, multiaddrs []string) (*Provider, error) {
	if _, ok := s.providers[id]; ok {
		return nil, ErrProviderExists
	}
	p := &Provider{
		ID:             id,
		Owner:          owner,
		Stake:          stake,
		Reputation:     reputation,
		Capacity:       capacity,
		Multiaddrs:     multiaddrs,
		ForestRoot:     forest.EmptyRoot,
		LastTickProved: s.tick,
		ProofState:     Proved,
		SignUpTick:     s.tick,
		Files:          make(map[FileKey]uint64),
	}
	s.providers[id] = p
	return p, nil
}

// ProviderInfo returns the registered record of a provider.
func (s *State) ProviderInfo(id ProviderID) (*Provider, error) {
	p, ok := s.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return p, nil
}

// ChangeCapacity updates a provider's committed capacity. Changes are
// rate limited and can never undercut the data already stored.
func (s *State) ChangeCapacity(id ProviderID, capacity uint64) error {
	p, err := s.ProviderInfo(id)
	if err != nil {
		return err
	}
	if p.Halted {
		return ErrPipelineHalted
	}
	if s.tick < p.NextCapacityChangeTick {
		return ErrCapacityChangeTooSoon
	}
	if capacity < p.DataUsed {
		return errors.Wrapf(ErrCapacityExceeded, "capacity %d below used %d", capacity, p.DataUsed)
	}
	p.Capacity = capacity
	p.NextCapacityChangeTick = s.tick + s.Params.MinCapacityChangeDelay
	return nil
}

// HaltProvider marks a provider's pipeline as unrecoverable after an
// invariant violation detected outside the state itself.
func (s *State) HaltProvider(id ProviderID, reason string) error {
	p, err := s.ProviderInfo(id)
	if err != nil {
		return err
	}
	p.Halted = true
	return &InvariantError{Provider: id, Reason: reason}
}

// AdvanceTick moves the ledger one tick forward with the new random
// seed and settles everything tick-driven: proof state transitions,
// missed deadlines, checkpoint batches and request expiry.
func (s *State) AdvanceTick(seed Seed) TickEvents {
	s.tick++
	s.seeds[s.tick] = seed
	s.pruneSeeds()

	var events TickEvents

	for _, p := range s.providers {
		if p.Halted {
			continue
		}
		if p.ProofState == Proved && s.tick > p.LastTickProved {
			p.ProofState = AwaitingProof
		}
		deadline := s.NextDeadline(p)
		if p.ProofState == AwaitingProof && s.tick > deadline {
			p.ProofState = Overdue
			if p.SlashedDeadline != deadline {
				p.SlashedDeadline = deadline
				events.Slashes = append(events.Slashes, SlashEvent{
					Provider: p.ID,
					Amount:   s.Params.SlashRatePerByte * p.MaxFileSize,
				})
			}
		}
	}

	if s.Params.CheckpointPeriod > 0 && s.tick%s.Params.CheckpointPeriod == 0 {
		batch := &CheckpointBatch{Tick: s.tick, Challenges: s.priorityQueue}
		s.priorityQueue = nil
		s.prioritySet = make(map[FileKey]bool)
		s.lastCheckpointTick = s.tick
		s.lastCheckpointBatch = batch.Challenges
		events.Checkpoint = batch
	}

	events.Expired = s.expireRequests()

	return events
}

// expireRequests sweeps open requests past their time to live. An
// expired request is unvolunteerable and unconfirmable.
func (s *State) expireRequests() []FileKey {
	var expired []FileKey
	for key, req := range s.requests {
		if req.Status == Open && s.tick > req.CreatedTick+s.Params.RequestTTL {
			req.Status = Expired
			expired = append(expired, key)
		}
	}
	return expired
}

func (s *State) pruneSeeds() {
	// Seeds older than the longest possible proving window can no
	// longer back a valid proof.
	horizon := s.Params.RequestTTL + s.Params.CheckpointPeriod + s.Params.ChallengeTolerance
	for tick := range s.seeds {
		if tick+horizon < s.tick {
			delete(s.seeds, tick)
		}
	}
}
