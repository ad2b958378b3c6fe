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
	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

// confirmMgt finishes accepted volunteers: it proves the file key is
// not yet in the forest, submits the confirm-storing transaction, and
// applies the insert locally once it lands.
func (n *Node) confirmMgt(ch chan<- bool) {
	defer func() {
		ch <- true
		if err := recover(); err != nil {
			n.Pnc(utils.RecoverError(err))
		}
	}()

	n.Logger.Submit("info", ">>>>> Start confirmMgt task")

	for {
		keys, err := n.QueryPrefixKeyList(Cach_prefix_confirm)
		if err != nil {
			n.Logger.Submit("err", fmt.Sprintf("[QueryPrefixKeyList] %v", err))
			time.Sleep(errorPauseInterval)
			continue
		}

		for _, ks := range keys {
			fileKey, err := utils.ParseHash(ks)
			if err != nil {
				n.Logger.Submit("err", fmt.Sprintf("drop bad confirm entry %q: %v", ks, err))
				n.Cache.Delete([]byte(Cach_prefix_confirm + ks))
				continue
			}
			err = n.confirmFor(ks, fileKey)
			if err != nil {
				n.Logger.Submit("err", fmt.Sprintf("[%s] %v", ks, err))
			}
		}

		time.Sleep(pollInterval)
	}
}

func (n *Node) confirmFor(ks string, fileKey [32]byte) error {
	ctx := context.Background()

	has, err := n.Forest.Has(fileKey)
	if err != nil {
		return err
	}
	if has {
		return n.Cache.Delete([]byte(Cach_prefix_confirm + ks))
	}

	_, err = n.QueryStorageRequest(ctx, fileKey)
	if err != nil {
		n.Logger.Submit("info", fmt.Sprintf("request %s gone before confirm: %v", ks, err))
		return n.Cache.Delete([]byte(Cach_prefix_confirm + ks))
	}

	// the ledger verifies non-inclusion before granting the slot
	proof, err := n.Forest.Prove(fileKey)
	if err != nil {
		return err
	}
	payload, err := chain.EncodeCall(chain.NewConfirmStoringCall(fileKey, proof))
	if err != nil {
		return err
	}

	n.IncSubmitted()
	result, err := n.Submitter.SubmitWith(ctx, payload, n.smallStrategy(nil))
	if err != nil {
		n.IncFailed()
		return err
	}
	switch result.Outcome {
	case submitter.Included:
		n.IncIncluded()
	case submitter.Stale:
		return n.Cache.Delete([]byte(Cach_prefix_confirm + ks))
	default:
		n.IncFailed()
		return result.Err
	}

	newRoot, err := n.Forest.Insert(fileKey)
	if err != nil {
		return err
	}
	n.Logger.Forest("info", fmt.Sprintf("inserted %s, root %x", ks, newRoot[:6]))

	info, err := n.QueryProvider(ctx, n.GetPublicKey())
	if err != nil {
		return err
	}
	err = n.Forest.SyncRoot(forest.Hash(info.ForestRoot))
	if err != nil {
		n.SetProviderState("halted")
		n.Pnc(fmt.Sprintf("confirm root mismatch for %s: %v", ks, err))
		return err
	}

	n.SetFileCount(n.GetFileCount() + 1)
	n.SetForestRoot(utils.HashToString(newRoot))
	n.Logger.Submit("info", fmt.Sprintf("confirmed storing %s: %s", ks, result.Receipt.TxHash))

	if buf, err := n.Cache.Get([]byte(Cach_prefix_confirm + ks)); err == nil {
		if size, err := strconv.ParseUint(string(buf), 10, 64); err == nil {
			n.SetDataUsed(n.GetDataUsed() + size)
		}
	}
	return n.Cache.Delete([]byte(Cach_prefix_confirm + ks))
}
