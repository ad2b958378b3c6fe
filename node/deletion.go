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
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

// Deletion entries move through two values: pending means the
// stop-storing request still has to be submitted, requested means it
// landed and the key now waits for the checkpoint round that removes
// it from the forest. The challenge task clears the entry when the
// removal is applied.
var (
	deletionPending   = []byte("pending")
	deletionRequested = []byte("requested")
)

// QueueDeletion marks a stored file key for stop-storing. The
// deletion task picks the entry up on its next pass.
func (n *Node) QueueDeletion(fileKey [32]byte) error {
	return n.Cache.Put([]byte(Cach_prefix_deletion+utils.HashToString(fileKey)), deletionPending)
}

// deletionMgt submits stop-storing requests for keys the operator
// queued for deletion. The forest itself is never mutated here: the
// ledger turns the request into a priority challenge and the removal
// rides the next checkpoint proof.
func (n *Node) deletionMgt(ch chan<- bool) {
	defer func() {
		ch <- true
		if err := recover(); err != nil {
			n.Pnc(utils.RecoverError(err))
		}
	}()

	n.Del("info", ">>>>> Start deletionMgt task")

	for {
		keys, err := n.QueryPrefixKeyList(Cach_prefix_deletion)
		if err != nil {
			n.Del("err", fmt.Sprintf("[QueryPrefixKeyList] %v", err))
			time.Sleep(errorPauseInterval)
			continue
		}

		for _, ks := range keys {
			fileKey, err := utils.ParseHash(ks)
			if err != nil {
				n.Del("err", fmt.Sprintf("drop bad deletion entry %q: %v", ks, err))
				n.Cache.Delete([]byte(Cach_prefix_deletion + ks))
				continue
			}
			err = n.requestStopStoring(ks, fileKey)
			if err != nil {
				n.Del("err", fmt.Sprintf("[%s] %v", ks, err))
			}
		}

		time.Sleep(pollInterval)
	}
}

func (n *Node) requestStopStoring(ks string, fileKey [32]byte) error {
	ctx := context.Background()

	buf, err := n.Cache.Get([]byte(Cach_prefix_deletion + ks))
	if err != nil {
		return err
	}
	if string(buf) == string(deletionRequested) {
		return nil
	}

	has, err := n.Forest.Has(fileKey)
	if err != nil {
		return err
	}
	if !has {
		n.Del("info", fmt.Sprintf("%s not in forest, dropping deletion entry", ks))
		return n.Cache.Delete([]byte(Cach_prefix_deletion + ks))
	}

	payload, err := chain.EncodeCall(chain.NewStopStoringCall(fileKey))
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
		return nil
	default:
		n.IncFailed()
		return result.Err
	}

	n.Del("info", fmt.Sprintf("stop storing %s requested: %s", ks, result.Receipt.TxHash))
	return n.Cache.Put([]byte(Cach_prefix_deletion+ks), deletionRequested)
}
