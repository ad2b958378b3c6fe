/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"context"
	"fmt"
	"time"

	"github.com/w3f-grants-archive/storage-hub/pkg/chain"
	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
	"github.com/w3f-grants-archive/storage-hub/pkg/threshold"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

// volunteerMgt walks the queued volunteer intents: for each file key
// it waits for the eligibility tick, re-checks the request is still
// open, and submits the volunteer transaction.
func (n *Node) volunteerMgt(ch chan<- bool) {
	defer func() {
		ch <- true
		if err := recover(); err != nil {
			n.Pnc(utils.RecoverError(err))
		}
	}()

	n.Volunteer("info", ">>>>> Start volunteerMgt task")

	engine := threshold.NewEngine()

	for {
		keys, err := n.QueryPrefixKeyList(Cach_prefix_volunteer)
		if err != nil {
			n.Volunteer("err", fmt.Sprintf("[QueryPrefixKeyList] %v", err))
			time.Sleep(errorPauseInterval)
			continue
		}

		for _, ks := range keys {
			fileKey, err := utils.ParseHash(ks)
			if err != nil {
				n.Volunteer("err", fmt.Sprintf("drop bad volunteer entry %q: %v", ks, err))
				n.Cache.Delete([]byte(Cach_prefix_volunteer + ks))
				continue
			}
			err = n.volunteerFor(engine, ks, fileKey)
			if err != nil {
				n.Volunteer("err", fmt.Sprintf("[%s] %v", ks, err))
			}
		}

		time.Sleep(pollInterval)
	}
}

func (n *Node) volunteerFor(engine *threshold.Engine, ks string, fileKey [32]byte) error {
	ctx := context.Background()

	has, err := n.Forest.Has(fileKey)
	if err != nil {
		return err
	}
	if has {
		// already storing it, nothing to volunteer for
		return n.Cache.Delete([]byte(Cach_prefix_volunteer + ks))
	}

	req, err := n.QueryStorageRequest(ctx, fileKey)
	if err != nil {
		n.Volunteer("info", fmt.Sprintf("request %s gone: %v", ks, err))
		return n.Cache.Delete([]byte(Cach_prefix_volunteer + ks))
	}
	if uint32(req.ConfirmedCount) >= uint32(req.ReplicationTarget) {
		n.Volunteer("info", fmt.Sprintf("request %s already satisfied", ks))
		return n.Cache.Delete([]byte(Cach_prefix_volunteer + ks))
	}

	info, err := n.QueryProvider(ctx, n.GetPublicKey())
	if err != nil {
		return err
	}
	if uint64(info.DataUsed)+uint64(req.FileSize) > uint64(info.Capacity) {
		return n.jumpCapacity(ctx, uint64(info.Capacity), uint64(req.FileSize))
	}

	params, err := n.QueryChainParams(ctx)
	if err != nil {
		return err
	}
	current, err := n.QueryBlockHeight(ctx)
	if err != nil {
		return err
	}

	var pid [32]byte
	copy(pid[:], n.GetPublicKey())
	elapsed := engine.EligibleAt([32]byte(req.Fingerprint), pid, uint32(info.Reputation), uint32(params.RampWindow))
	eligibleTick := uint32(req.CreatedTick) + elapsed
	if current < eligibleTick {
		n.Volunteer("info", fmt.Sprintf("request %s eligible at tick %d, now %d", ks, eligibleTick, current))
		return nil
	}

	payload, err := chain.EncodeCall(chain.NewVolunteerCall(fileKey))
	if err != nil {
		return err
	}

	strat := n.smallStrategy(func() bool {
		// stop retrying once the request closed via another path
		req, err := n.QueryStorageRequest(context.Background(), fileKey)
		if err != nil {
			return false
		}
		return uint32(req.ConfirmedCount) < uint32(req.ReplicationTarget)
	})

	n.IncSubmitted()
	result, err := n.Submitter.SubmitWith(ctx, payload, strat)
	if err != nil {
		n.IncFailed()
		return err
	}
	switch result.Outcome {
	case submitter.Included:
		n.IncIncluded()
		n.Volunteer("info", fmt.Sprintf("volunteered for %s: %s", ks, result.Receipt.TxHash))
		err = n.Cache.Put([]byte(Cach_prefix_confirm+ks), []byte(fmt.Sprintf("%d", uint64(req.FileSize))))
		if err != nil {
			return err
		}
		return n.Cache.Delete([]byte(Cach_prefix_volunteer + ks))
	case submitter.Stale:
		n.Volunteer("info", fmt.Sprintf("volunteer for %s went stale", ks))
		return n.Cache.Delete([]byte(Cach_prefix_volunteer + ks))
	default:
		n.IncFailed()
		return result.Err
	}
}

// jumpCapacity requests the next capacity step that fits the pending
// file, respecting the chain-side change delay by simply retrying on
// the next round if the transaction is refused.
func (n *Node) jumpCapacity(ctx context.Context, capacity, need uint64) error {
	next := capacity * 2
	if next == 0 {
		// profile capacity is in GiB
		next = n.ReadCapacity() * 1024 * 1024 * 1024
	}
	if next == 0 {
		next = need
	}
	for next < capacity+need {
		next *= 2
	}

	payload, err := chain.EncodeCall(chain.NewCapacityCall(next))
	if err != nil {
		return err
	}
	n.IncSubmitted()
	result, err := n.Submitter.SubmitWith(ctx, payload, n.smallStrategy(nil))
	if err != nil {
		n.IncFailed()
		return err
	}
	if result.Outcome != submitter.Included {
		n.IncFailed()
		return result.Err
	}
	n.IncIncluded()
	n.Volunteer("info", fmt.Sprintf("capacity raised to %d: %s", next, result.Receipt.TxHash))
	return nil
}
