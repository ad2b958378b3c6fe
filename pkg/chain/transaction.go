/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/pkg/errors"

	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

// SubmitCall encodes the call and runs it through SubmitExtrinsic.
func (c *client) SubmitCall(ctx context.Context, call *Call, tip uint64, timeout time.Duration) (submitter.Receipt, error) {
	payload, err := EncodeCall(call)
	if err != nil {
		return submitter.Receipt{}, errors.Wrap(err, "[SubmitCall]")
	}
	return c.SubmitExtrinsic(ctx, payload, tip, timeout)
}

// SubmitExtrinsic signs and submits the encoded call with the given
// tip and waits up to timeout for inclusion. This is the submitter's
// Conn surface: the payload is an EncodeCall product and the tip is
// whatever the retry strategy escalated to.
func (c *client) SubmitExtrinsic(ctx context.Context, payload []byte, tip uint64, timeout time.Duration) (submitter.Receipt, error) {
	var (
		err         error
		receipt     submitter.Receipt
		accountInfo types.AccountInfo
	)

	c.lock.Lock()
	defer func() {
		c.lock.Unlock()
		recover()
	}()

	if err = ctx.Err(); err != nil {
		return receipt, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return receipt, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	call, err := DecodeCall(payload)
	if err != nil {
		return receipt, errors.Wrap(err, "[DecodeCall]")
	}
	name, err := callName(call.Kind)
	if err != nil {
		return receipt, errors.Wrap(err, "[callName]")
	}

	var newCall types.Call
	switch call.Kind {
	case TxVolunteer, TxRequestDeletion, TxStopStoring:
		newCall, err = types.NewCall(c.metadata, name, call.FileKey)
	case TxConfirmStoring:
		newCall, err = types.NewCall(c.metadata, name, call.FileKey, call.Proof)
	case TxSubmitProof:
		newCall, err = types.NewCall(c.metadata, name, call.Tick, call.Proof)
	case TxChangeCapacity:
		newCall, err = types.NewCall(c.metadata, name, call.Capacity)
	}
	if err != nil {
		return receipt, errors.Wrap(err, "[NewCall]")
	}

	ext := types.NewExtrinsic(newCall)

	key, err := types.CreateStorageKey(c.metadata, state_System, system_Account, c.keyring.PublicKey)
	if err != nil {
		return receipt, errors.Wrap(err, "[CreateStorageKey]")
	}
	ok, err := c.api.RPC.State.GetStorageLatest(key, &accountInfo)
	if err != nil {
		return receipt, errors.Wrap(err, "[GetStorageLatest]")
	}
	if !ok {
		return receipt, errors.New(ERR_Empty)
	}

	o := types.SignatureOptions{
		BlockHash:          c.genesisHash,
		Era:                types.ExtrinsicEra{IsMortalEra: false},
		GenesisHash:        c.genesisHash,
		Nonce:              types.NewUCompactFromUInt(uint64(accountInfo.Nonce)),
		SpecVersion:        c.runtimeVersion.SpecVersion,
		Tip:                types.NewUCompactFromUInt(tip),
		TransactionVersion: c.runtimeVersion.TransactionVersion,
	}

	err = ext.Sign(c.keyring, o)
	if err != nil {
		return receipt, errors.Wrap(err, "[Sign]")
	}

	enc, err := codec.Encode(ext)
	if err != nil {
		return receipt, errors.Wrap(err, "[Encode]")
	}
	receipt.TxHash = utils.HashToString(utils.CalcBlake2b256(enc))

	sub, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return receipt, errors.Wrap(err, "[SubmitAndWatchExtrinsic]")
	}
	defer sub.Unsubscribe()

	if timeout <= 0 {
		timeout = c.timeForBlockOut
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case status := <-sub.Chan():
			if status.IsInBlock {
				receipt.BlockHash = fmt.Sprintf("%#x", status.AsInBlock)
				return receipt, nil
			}
			if status.IsDropped || status.IsInvalid || status.IsUsurped {
				return receipt, errors.Errorf("[%v] tx not included: %v", name, status)
			}
		case err = <-sub.Err():
			return receipt, errors.Wrap(err, "[Watch]")
		case <-timer.C:
			return receipt, errors.Errorf("[%v] %s", name, ERR_Timeout)
		case <-ctx.Done():
			return receipt, ctx.Err()
		}
	}
}
