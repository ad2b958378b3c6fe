/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/w3f-grants-archive/storage-hub/pkg/chain"
	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
	"github.com/w3f-grants-archive/storage-hub/pkg/ledger"
	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

// challengeMgt watches the provider's proof deadline and answers it:
// derive the tick's challenge keys, merge any unanswered checkpoint
// batch, prove them all against the local forest and submit.
func (n *Node) challengeMgt(ch chan<- bool) {
	defer func() {
		ch <- true
		if err := recover(); err != nil {
			n.Pnc(utils.RecoverError(err))
		}
	}()

	n.Chal("info", ">>>>> Start challengeMgt task")

	for {
		err := n.answerChallenge()
		if err != nil {
			n.Chal("err", err.Error())
			time.Sleep(errorPauseInterval)
			continue
		}
		time.Sleep(pollInterval)
	}
}

func (n *Node) answerChallenge() error {
	ctx := context.Background()

	current, err := n.QueryBlockHeight(ctx)
	if err != nil {
		return err
	}
	deadline, err := n.QueryProviderDeadline(ctx, n.GetPublicKey())
	if err != nil {
		if err.Error() == chain.ERR_Empty {
			// not signed up yet, nothing to prove
			n.SetChallenging(false)
			return nil
		}
		return err
	}
	n.SetNextDeadline(deadline)

	if tick := n.reportedTick(); tick > 0 && tick+deadlineLookahead >= deadline {
		n.SetChallenging(false)
		return nil
	}
	if current+deadlineLookahead < deadline {
		n.SetChallenging(false)
		return nil
	}

	tick := current
	seed, err := n.QueryChallengeSeed(ctx, tick)
	if err != nil {
		if err.Error() == chain.ERR_Empty {
			n.Chal("info", fmt.Sprintf("no seed for tick %d yet", tick))
			return nil
		}
		return err
	}
	params, err := n.QueryChainParams(ctx)
	if err != nil {
		return err
	}
	info, err := n.QueryProvider(ctx, n.GetPublicKey())
	if err != nil {
		return err
	}

	var pid [32]byte
	copy(pid[:], n.GetPublicKey())
	keys := ledger.DeriveChallenges(seed, pid, uint32(params.RandomChallengeCount))

	// Checkpoint challenges ride along until a proof past their tick
	// lands. They are the only challenges that mutate the forest.
	var removals []forest.Key
	cpTick, err := n.QueryLastCheckpointTick(ctx)
	if err != nil && err.Error() != chain.ERR_Empty {
		return err
	}
	if err == nil && cpTick > uint32(info.LastTickProved) {
		n.SetLastCheckpoint(cpTick)
		cps, err := n.QueryCheckpointChallenges(ctx, cpTick)
		if err != nil && err.Error() != chain.ERR_Empty {
			return err
		}
		seen := make(map[forest.Key]bool, len(keys))
		for _, k := range keys {
			seen[k] = true
		}
		for _, cp := range cps {
			key := forest.Key(cp.Key)
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
			if bool(cp.ShouldRemove) {
				removals = append(removals, key)
			}
		}
	}

	proof, err := n.Forest.Prove(keys...)
	if err != nil {
		return err
	}
	payload, err := chain.EncodeCall(chain.NewProofCall(tick, proof))
	if err != nil {
		return err
	}

	n.SetChallenging(true)
	n.Chal("info", fmt.Sprintf("answering tick %d: %d keys, %d checkpoint removals, deadline %d",
		tick, len(keys), len(removals), deadline))

	n.IncSubmitted()
	result, err := n.Submitter.SubmitWith(ctx, payload, n.proofStrategy(func() bool {
		h, err := n.QueryBlockHeight(ctx)
		return err == nil && h <= deadline
	}))
	if err != nil {
		n.IncFailed()
		return err
	}
	switch result.Outcome {
	case submitter.Included:
		n.IncIncluded()
	case submitter.Stale:
		n.Chal("err", fmt.Sprintf("proof for tick %d went stale after %d attempts", tick, result.Attempts))
		return nil
	default:
		n.IncFailed()
		return result.Err
	}

	err = n.applyRemovals(ctx, removals)
	if err != nil {
		return err
	}

	n.Cache.Put([]byte(Cach_prefix_reported), []byte(strconv.FormatUint(uint64(tick), 10)))
	n.SetLastProvedTick(tick)
	n.SetChallenging(false)
	n.Chal("info", fmt.Sprintf("proof for tick %d included: %s", tick, result.Receipt.TxHash))
	return nil
}

// applyRemovals drops the checkpoint-removed keys from the local
// forest and confirms the resulting root against the on-ledger one.
func (n *Node) applyRemovals(ctx context.Context, removals []forest.Key) error {
	for _, key := range removals {
		has, err := n.Forest.Has(key)
		if err != nil {
			return err
		}
		if !has {
			continue
		}
		newRoot, err := n.Forest.Remove(key)
		if err != nil {
			return err
		}
		ks := utils.HashToString(key)
		n.Logger.Forest("info", fmt.Sprintf("removed %s, root %x", ks, newRoot[:6]))
		n.Cache.Delete([]byte(Cach_prefix_deletion + ks))
		if count := n.GetFileCount(); count > 0 {
			n.SetFileCount(count - 1)
		}
	}
	if len(removals) == 0 {
		return nil
	}

	info, err := n.QueryProvider(ctx, n.GetPublicKey())
	if err != nil {
		return err
	}
	err = n.Forest.SyncRoot(forest.Hash(info.ForestRoot))
	if err != nil {
		n.SetProviderState("halted")
		n.Pnc(fmt.Sprintf("checkpoint removal root mismatch: %v", err))
		return err
	}
	n.SetForestRoot(utils.HashToString(n.Forest.Root()))
	return nil
}

func (n *Node) reportedTick() uint32 {
	buf, err := n.Cache.Get([]byte(Cach_prefix_reported))
	if err != nil {
		return 0
	}
	tick, err := strconv.ParseUint(string(buf), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(tick)
}
