/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"sort"
	"testing"

	"github.com/w3f-grants-archive/storage-hub/pkg/forest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func pid(i byte) ProviderID {
	return blake2b.Sum256([]byte{i})
}

func tickSeed(tick uint32) Seed {
	return blake2b.Sum256([]byte{0xee, byte(tick), byte(tick >> 8)})
}

func advanceTo(s *State, tick uint32) []TickEvents {
	var all []TickEvents
	for s.Tick() < tick {
		all = append(all, s.AdvanceTick(tickSeed(s.Tick()+1)))
	}
	return all
}

func mustRegister(t *testing.T, s *State, id ProviderID, stake uint64) *Provider {
	t.Helper()
	p, err := s.RegisterProvider(id, pid(99), stake, 0, 1<<40, []string{"/ip4/127.0.0.1/tcp/30350"})
	require.NoError(t, err)
	return p
}

func TestVolunteerAcceptanceOrder(t *testing.T) {
	params := DefaultParams()
	params.ReplicationTarget = 2
	params.RequestTTL = 10 * params.RampWindow
	s := NewState(params)

	ids := []ProviderID{pid(1), pid(2), pid(3)}
	for _, id := range ids {
		mustRegister(t, s, id, 1000)
	}

	req, err := s.OpenStorageRequest(pid(40), "a/b", pid(41), pid(42), 1024)
	require.NoError(t, err)

	// providers become eligible at distinct ticks, ordered by their
	// effective raw value
	type entry struct {
		id ProviderID
		at uint32
	}
	var order []entry
	for _, id := range ids {
		v, err := s.EvaluateVolunteer(req.FileKey, id)
		require.NoError(t, err)
		at := uint32(0)
		if v.Verdict == NotYetEligible {
			at = v.TicksRemaining
		}
		order = append(order, entry{id: id, at: at})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].at < order[j].at })

	// too early is refused
	if order[0].at > 0 {
		err = s.Volunteer(req.FileKey, order[0].id)
		assert.ErrorIs(t, err, ErrNotYetEligible)
	}

	advanceTo(s, order[0].at)
	require.NoError(t, s.Volunteer(req.FileKey, order[0].id))

	// volunteering twice is refused
	err = s.Volunteer(req.FileKey, order[0].id)
	assert.ErrorIs(t, err, ErrAlreadyVolunteered)

	advanceTo(s, order[1].at)
	require.NoError(t, s.Volunteer(req.FileKey, order[1].id))

	// the request is satisfied, the third volunteer is turned away
	advanceTo(s, order[2].at)
	v, err := s.EvaluateVolunteer(req.FileKey, order[2].id)
	require.NoError(t, err)
	assert.Equal(t, Filled, v.Verdict)
	err = s.Volunteer(req.FileKey, order[2].id)
	assert.ErrorIs(t, err, ErrRequestAlreadySatisfied)
}

func TestEligibilityIsMonotonic(t *testing.T) {
	params := DefaultParams()
	params.RequestTTL = 10 * params.RampWindow
	s := NewState(params)
	id := pid(7)
	mustRegister(t, s, id, 1000)

	req, err := s.OpenStorageRequest(pid(50), "x", pid(51), pid(52), 10)
	require.NoError(t, err)

	becameEligible := false
	for tick := uint32(0); tick <= params.RampWindow; tick++ {
		v, err := s.EvaluateVolunteer(req.FileKey, id)
		require.NoError(t, err)
		if becameEligible {
			assert.Equal(t, Eligible, v.Verdict, "eligibility lost at tick %d", tick)
		}
		becameEligible = becameEligible || v.Verdict == Eligible
		if tick < params.RampWindow {
			s.AdvanceTick(tickSeed(tick + 1))
		}
	}
	// at the end of the ramp everyone is in, reputation regardless
	assert.True(t, becameEligible)
}

func TestConfirmStoring(t *testing.T) {
	params := DefaultParams()
	params.RampWindow = 0
	s := NewState(params)
	id := pid(1)
	p := mustRegister(t, s, id, 1000)

	req, err := s.OpenStorageRequest(pid(60), "a", pid(61), pid(62), 2048)
	require.NoError(t, err)
	require.NoError(t, s.Volunteer(req.FileKey, id))

	// the provider's local trie is still empty, its non-inclusion
	// proof drives the on-ledger insert
	local := forest.NewTrie(forest.NewMemStore(), forest.EmptyRoot)
	proof, err := local.Prove(req.FileKey)
	require.NoError(t, err)

	newRoot, err := s.ConfirmStoring(req.FileKey, id, proof)
	require.NoError(t, err)

	// ledger-side root equals the root the local trie arrives at
	wantRoot, err := local.Insert(req.FileKey)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, newRoot)
	assert.Equal(t, wantRoot, p.ForestRoot)
	assert.Equal(t, uint64(2048), p.DataUsed)
	assert.Equal(t, uint64(2048), p.MaxFileSize)

	// confirming twice is refused
	_, err = s.ConfirmStoring(req.FileKey, id, proof)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestConfirmWithoutVolunteering(t *testing.T) {
	params := DefaultParams()
	params.RampWindow = 0
	s := NewState(params)
	id := pid(1)
	mustRegister(t, s, id, 1000)

	req, err := s.OpenStorageRequest(pid(70), "a", pid(71), pid(72), 10)
	require.NoError(t, err)

	local := forest.NewTrie(forest.NewMemStore(), forest.EmptyRoot)
	proof, err := local.Prove(req.FileKey)
	require.NoError(t, err)

	_, err = s.ConfirmStoring(req.FileKey, id, proof)
	assert.ErrorIs(t, err, ErrNotVolunteered)
}

func TestExpiredRequestIsDead(t *testing.T) {
	params := DefaultParams()
	params.RampWindow = 0
	params.RequestTTL = 5
	s := NewState(params)
	volunteered := pid(1)
	late := pid(2)
	mustRegister(t, s, volunteered, 1000)
	mustRegister(t, s, late, 1000)

	req, err := s.OpenStorageRequest(pid(80), "a", pid(81), pid(82), 10)
	require.NoError(t, err)
	require.NoError(t, s.Volunteer(req.FileKey, volunteered))

	events := advanceTo(s, params.RequestTTL+1)
	var sawExpiry bool
	for _, ev := range events {
		for _, key := range ev.Expired {
			sawExpiry = sawExpiry || key == req.FileKey
		}
	}
	assert.True(t, sawExpiry)

	// no new volunteers, and the volunteered-but-unconfirmed provider
	// must not confirm either
	err = s.Volunteer(req.FileKey, late)
	assert.ErrorIs(t, err, ErrRequestExpired)

	local := forest.NewTrie(forest.NewMemStore(), forest.EmptyRoot)
	proof, err := local.Prove(req.FileKey)
	require.NoError(t, err)
	_, err = s.ConfirmStoring(req.FileKey, volunteered, proof)
	assert.ErrorIs(t, err, ErrRequestExpired)
}

func TestCapacityGuards(t *testing.T) {
	params := DefaultParams()
	params.RampWindow = 0
	s := NewState(params)
	id := pid(1)
	p, err := s.RegisterProvider(id, pid(99), 1000, 0, 100, nil)
	require.NoError(t, err)

	req, err := s.OpenStorageRequest(pid(90), "a", pid(91), pid(92), 200)
	require.NoError(t, err)
	err = s.Volunteer(req.FileKey, id)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// a capacity raise fixes it, but only one change per window
	require.NoError(t, s.ChangeCapacity(id, 1000))
	assert.Equal(t, uint64(1000), p.Capacity)
	err = s.ChangeCapacity(id, 2000)
	assert.ErrorIs(t, err, ErrCapacityChangeTooSoon)

	require.NoError(t, s.Volunteer(req.FileKey, id))
}
