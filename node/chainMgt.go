/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"context"
	"fmt"
	"time"

	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

// chainMgt keeps the rpc connection state and the provider's on-chain
// record fresh, and watches the local forest root against the
// committed one.
func (n *Node) chainMgt(ch chan<- bool) {
	defer func() {
		ch <- true
		if err := recover(); err != nil {
			n.Pnc(utils.RecoverError(err))
		}
	}()

	n.Chain("info", ">>>>> Start chainMgt task")

	for {
		syncing, err := n.GetSyncStatus(context.Background())
		n.SetCurrentRpcst(err == nil)
		if err != nil {
			n.Chain("err", fmt.Sprintf("[GetSyncStatus] %v", err))
			time.Sleep(errorPauseInterval)
			continue
		}
		n.SetLastConnectedTime(time.Now().Format(time.DateTime))
		if syncing {
			n.Chain("info", "chain is syncing")
			time.Sleep(pollInterval)
			continue
		}

		info, err := n.QueryProvider(context.Background(), n.GetPublicKey())
		if err != nil {
			n.Chain("err", fmt.Sprintf("[QueryProvider] %v", err))
			time.Sleep(errorPauseInterval)
			continue
		}

		n.SetCapacity(uint64(info.Capacity))
		n.SetDataUsed(uint64(info.DataUsed))
		n.SetLastProvedTick(uint32(info.LastTickProved))
		n.SetForestRoot(utils.HashToString(n.Forest.Root()))

		err = n.Forest.SyncRoot(forest.Hash(info.ForestRoot))
		if err != nil {
			n.SetProviderState("halted")
			n.Chain("err", fmt.Sprintf("[SyncRoot] %v", err))
			n.Pnc(fmt.Sprintf("forest root diverged from ledger: %v", err))
			time.Sleep(errorPauseInterval)
			continue
		}
		n.SetProviderState("active")

		deadline, err := n.QueryProviderDeadline(context.Background(), n.GetPublicKey())
		if err != nil {
			n.Chain("err", fmt.Sprintf("[QueryProviderDeadline] %v", err))
		} else {
			n.SetNextDeadline(deadline)
		}

		n.SetInflightCount(len(n.Submitter.Inflight()))

		time.Sleep(pollInterval)
	}
}
