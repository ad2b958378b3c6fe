/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"

	"github.com/pkg/errors"
)

// OpenStorageRequest creates a storage request and derives its file
// key from the content fingerprint, location, owner and bucket.
func (s *State) OpenStorageRequest(fingerprint [32]byte, location string, owner AccountID, bucket [32]byte, fileSize uint64) (*StorageRequest, error) {
	key := utils.CalcFileKey(fingerprint, location, owner[:], bucket)
	if req, ok := s.requests[key]; ok && req.Status == Open {
		return nil, errors.Wrapf(ErrRequestAlreadySatisfied, "request already open for key %x", key[:6])
	}
	req := &StorageRequest{
		FileKey:           key,
		Fingerprint:       fingerprint,
		BucketID:          bucket,
		Location:          location,
		Owner:             owner,
		FileSize:          fileSize,
		ReplicationTarget: s.Params.ReplicationTarget,
		CreatedTick:       s.tick,
		Status:            Open,
		Volunteers:        make(map[ProviderID]bool),
		Confirmed:         make(map[ProviderID]bool),
	}
	s.requests[key] = req
	return req, nil
}

// Request returns the storage request for a file key.
func (s *State) Request(key FileKey) (*StorageRequest, error) {
	req, ok := s.requests[key]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

// OpenRequests lists the requests still open to volunteers.
func (s *State) OpenRequests() []*StorageRequest {
	var open []*StorageRequest
	for _, req := range s.requests {
		if req.Status == Open {
			open = append(open, req)
		}
	}
	return open
}

// EvaluateVolunteer answers whether a provider may volunteer for a
// request right now, and if not yet, how many ticks remain.
func (s *State) EvaluateVolunteer(key FileKey, id ProviderID) (VolunteerVerdict, error) {
	req, err := s.Request(key)
	if err != nil {
		return VolunteerVerdict{}, err
	}
	if req.Status == Expired {
		return VolunteerVerdict{}, ErrRequestExpired
	}
	if req.Status == Fulfilled || uint32(len(req.Volunteers)) >= req.ReplicationTarget {
		return VolunteerVerdict{Verdict: Filled}, nil
	}
	p, err := s.ProviderInfo(id)
	if err != nil {
		return VolunteerVerdict{}, err
	}
	elapsed := s.tick - req.CreatedTick
	if s.engine.IsEligible(req.Fingerprint, id, p.Reputation, elapsed, s.Params.RampWindow) {
		return VolunteerVerdict{Verdict: Eligible}, nil
	}
	at := s.engine.EligibleAt(req.Fingerprint, id, p.Reputation, s.Params.RampWindow)
	return VolunteerVerdict{Verdict: NotYetEligible, TicksRemaining: at - elapsed}, nil
}

// Volunteer commits a provider to storing the file. The first
// replication-target distinct eligible volunteers are accepted, later
// ones are turned away.
func (s *State) Volunteer(key FileKey, id ProviderID) error {
	req, err := s.Request(key)
	if err != nil {
		return err
	}
	p, err := s.ProviderInfo(id)
	if err != nil {
		return err
	}
	if p.Halted {
		return ErrPipelineHalted
	}
	if req.Status == Expired {
		return ErrRequestExpired
	}
	if req.Volunteers[id] {
		return ErrAlreadyVolunteered
	}
	if req.Status == Fulfilled || uint32(len(req.Volunteers)) >= req.ReplicationTarget {
		return ErrRequestAlreadySatisfied
	}
	elapsed := s.tick - req.CreatedTick
	if !s.engine.IsEligible(req.Fingerprint, id, p.Reputation, elapsed, s.Params.RampWindow) {
		return ErrNotYetEligible
	}
	if p.DataUsed+req.FileSize > p.Capacity {
		return ErrCapacityExceeded
	}
	req.Volunteers[id] = true
	return nil
}

// ConfirmStoring records that a volunteered provider now holds the
// file. The submitted proof must witness the key's non-membership
// against the provider's committed root, the commitment then advances
// to the root with the key inserted. Mutation and root commitment are
// one atomic unit.
func (s *State) ConfirmStoring(key FileKey, id ProviderID, proof *forest.Proof) (forest.Hash, error) {
	req, err := s.Request(key)
	if err != nil {
		return forest.Hash{}, err
	}
	p, err := s.ProviderInfo(id)
	if err != nil {
		return forest.Hash{}, err
	}
	if p.Halted {
		return forest.Hash{}, ErrPipelineHalted
	}
	if req.Status == Expired {
		return forest.Hash{}, ErrRequestExpired
	}
	if !req.Volunteers[id] {
		return forest.Hash{}, ErrNotVolunteered
	}
	if req.Confirmed[id] {
		return forest.Hash{}, ErrAlreadyConfirmed
	}
	if uint32(len(req.Confirmed)) >= req.ReplicationTarget {
		// volunteers are capped at the target, a spill past it here
		// means the slot bookkeeping itself is broken
		p.Halted = true
		return forest.Hash{}, &InvariantError{Provider: id, Reason: "replication slots overcommitted"}
	}

	included, err := forest.Verify(p.ForestRoot, proof, key)
	if err != nil {
		return forest.Hash{}, errors.Wrap(ErrProofRejected, err.Error())
	}
	if included {
		return forest.Hash{}, errors.Wrap(ErrProofRejected, "key already in forest")
	}
	newRoot, err := forest.ApplyMutations(p.ForestRoot, proof, []forest.Mutation{{Kind: forest.Insert, Key: key}})
	if err != nil {
		return forest.Hash{}, errors.Wrap(ErrProofRejected, err.Error())
	}

	p.ForestRoot = newRoot
	p.Files[key] = req.FileSize
	p.DataUsed += req.FileSize
	if req.FileSize > p.MaxFileSize {
		p.MaxFileSize = req.FileSize
	}
	req.Confirmed[id] = true
	if uint32(len(req.Confirmed)) >= req.ReplicationTarget {
		req.Status = Fulfilled
	}
	return newRoot, nil
}

// RequestDeletion queues a priority challenge forcing every provider
// to prove whether it holds the key, with a remove mutation for those
// that do. The queue is deduplicated by file key.
func (s *State) RequestDeletion(key FileKey) {
	s.queuePriority(PriorityChallenge{Key: key, ShouldRemove: true})
}

// RequestStopStoring is a provider-initiated exit from one file, it
// runs through the same priority challenge pipeline as deletion.
func (s *State) RequestStopStoring(id ProviderID, key FileKey) error {
	p, err := s.ProviderInfo(id)
	if err != nil {
		return err
	}
	if p.Halted {
		return ErrPipelineHalted
	}
	if _, ok := p.Files[key]; !ok {
		return ErrFileNotStored
	}
	s.queuePriority(PriorityChallenge{Key: key, ShouldRemove: true})
	return nil
}

func (s *State) queuePriority(pc PriorityChallenge) {
	if s.prioritySet[pc.Key] {
		return
	}
	s.prioritySet[pc.Key] = true
	s.priorityQueue = append(s.priorityQueue, pc)
}

// PendingPriorityChallenges returns the queue awaiting the next
// checkpoint round.
func (s *State) PendingPriorityChallenges() []PriorityChallenge {
	out := make([]PriorityChallenge, len(s.priorityQueue))
	copy(out, s.priorityQueue)
	return out
}
