/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/binary"

	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"

	"github.com/pkg/errors"
)

// ChallengePeriod derives the mandatory proving interval from stake:
// more stake, shorter period, floored at the configured minimum.
func (s *State) ChallengePeriod(stake uint64) uint32 {
	period := s.Params.StakeToPeriod
	if stake > 0 {
		period = s.Params.StakeToPeriod / stake
	}
	if period < uint64(s.Params.MinChallengePeriod) {
		return s.Params.MinChallengePeriod
	}
	if period > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(period)
}

// NextDeadline is the last tick at which the provider's next proof is
// on time: last proved tick plus challenge period plus tolerance.
func (s *State) NextDeadline(p *Provider) uint32 {
	return p.LastTickProved + s.ChallengePeriod(p.Stake) + s.Params.ChallengeTolerance
}

// DeadlineOf looks the provider up and returns its next deadline.
func (s *State) DeadlineOf(id ProviderID) (uint32, error) {
	p, err := s.ProviderInfo(id)
	if err != nil {
		return 0, err
	}
	return s.NextDeadline(p), nil
}

// DeriveChallenges expands a tick seed into the provider's random
// challenge keys: blake2b(seed || provider || counter).
func DeriveChallenges(seed Seed, id ProviderID, count uint32) []FileKey {
	keys := make([]FileKey, 0, count)
	var counter [4]byte
	for i := uint32(0); i < count; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		keys = append(keys, utils.CalcBlake2b256(seed[:], id[:], counter[:]))
	}
	return keys
}

// ExpectedChallengeSet is the exact set a proof for the given tick
// must answer: the seed-derived random challenges, merged with the
// last checkpoint batch if the provider has not proved past it yet.
// The merge is deduplicated by file key.
func (s *State) ExpectedChallengeSet(id ProviderID, tick uint32) ([]FileKey, []PriorityChallenge, error) {
	p, err := s.ProviderInfo(id)
	if err != nil {
		return nil, nil, err
	}
	seed, err := s.SeedAt(tick)
	if err != nil {
		return nil, nil, err
	}
	random := DeriveChallenges(seed, id, s.Params.RandomChallengeCount)

	var priority []PriorityChallenge
	if s.lastCheckpointTick > 0 && p.LastTickProved <= s.lastCheckpointTick {
		seen := make(map[FileKey]bool, len(random))
		for _, key := range random {
			seen[key] = true
		}
		for _, pc := range s.lastCheckpointBatch {
			if seen[pc.Key] {
				continue
			}
			seen[pc.Key] = true
			priority = append(priority, pc)
		}
	}
	return random, priority, nil
}

// RecordProof verifies a provider's proof for a tick and advances its
// challenge state. Verification runs against the provider's committed
// root only, as a hard match. A valid proof after the deadline is
// still accepted but the slash already applied stands.
func (s *State) RecordProof(proof *Proof) (ProofOutcome, error) {
	p, err := s.ProviderInfo(proof.Provider)
	if err != nil {
		return 0, err
	}
	if p.Halted {
		return 0, ErrPipelineHalted
	}

	// retry duplicate for an already answered tick is a no-op, and an
	// old challenge can never re-anchor the period
	if proof.Tick <= p.LastTickProved {
		return ProofAccepted, nil
	}

	random, priority, err := s.ExpectedChallengeSet(proof.Provider, proof.Tick)
	if err != nil {
		return 0, err
	}
	if proof.Forest == nil {
		return 0, errors.Wrap(ErrProofRejected, "missing forest proof")
	}
	if proof.Forest.Root != p.ForestRoot {
		return 0, errors.Wrap(ErrProofRejected, forest.ErrRootMismatch.Error())
	}

	// every random challenge must be witnessed, membership either way
	for _, key := range random {
		_, err = forest.Verify(p.ForestRoot, proof.Forest, key)
		if err != nil {
			return 0, errors.Wrapf(ErrProofRejected, "random challenge %x: %v", key[:6], err)
		}
	}

	// priority challenges additionally drive proven removals
	var muts []forest.Mutation
	for _, pc := range priority {
		included, err := forest.Verify(p.ForestRoot, proof.Forest, pc.Key)
		if err != nil {
			return 0, errors.Wrapf(ErrProofRejected, "priority challenge %x: %v", pc.Key[:6], err)
		}
		if included && pc.ShouldRemove {
			muts = append(muts, forest.Mutation{Kind: forest.Remove, Key: pc.Key})
		}
	}

	if len(muts) > 0 {
		newRoot, err := forest.ApplyMutations(p.ForestRoot, proof.Forest, muts)
		if err != nil {
			return 0, errors.Wrap(ErrProofRejected, err.Error())
		}
		p.ForestRoot = newRoot
		for _, mut := range muts {
			if size, ok := p.Files[mut.Key]; ok {
				p.DataUsed -= size
				delete(p.Files, mut.Key)
			}
		}
	}

	deadline := s.NextDeadline(p)
	outcome := ProofAccepted
	if s.tick > deadline {
		outcome = ProofAcceptedLate
	}

	// anchor the next period to submission time, answering an old
	// challenge never buys drift
	p.LastTickProved = s.tick
	p.ProofState = Proved
	return outcome, nil
}
