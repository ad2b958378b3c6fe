/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/pkg/errors"
)

// encodeAccount turns a public key into the SCALE-encoded map key used
// by account-keyed storage entries.
func encodeAccount(pubkey []byte) ([]byte, error) {
	acc, err := types.NewAccountID(pubkey)
	if err != nil {
		return nil, errors.Wrap(err, "[NewAccountID]")
	}
	b, err := codec.Encode(*acc)
	if err != nil {
		return nil, errors.Wrap(err, "[Encode]")
	}
	return b, nil
}

// QueryBlockHeight returns the current tick.
func (c *client) QueryBlockHeight(ctx context.Context) (uint32, error) {
	defer func() {
		recover()
	}()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return 0, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	block, err := c.api.RPC.Chain.GetBlockLatest()
	if err != nil {
		return 0, errors.Wrap(err, "[GetBlockLatest]")
	}
	return uint32(block.Block.Header.Number), nil
}

// QueryChainParams returns the global protocol parameters.
func (c *client) QueryChainParams(ctx context.Context) (ChainParams, error) {
	defer func() {
		recover()
	}()

	var data ChainParams

	if err := ctx.Err(); err != nil {
		return data, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return data, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	key, err := types.CreateStorageKey(
		c.metadata,
		state_FileSystem,
		fileSystem_GlobalParams,
	)
	if err != nil {
		return data, errors.Wrap(err, "[CreateStorageKey]")
	}

	ok, err := c.api.RPC.State.GetStorageLatest(key, &data)
	if err != nil {
		return data, errors.Wrap(err, "[GetStorageLatest]")
	}
	if !ok {
		return data, errors.New(ERR_Empty)
	}
	return data, nil
}

// QueryProvider returns the provider record of the given account.
func (c *client) QueryProvider(ctx context.Context, pubkey []byte) (ProviderInfo, error) {
	defer func() {
		recover()
	}()

	var data ProviderInfo

	if err := ctx.Err(); err != nil {
		return data, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return data, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	b, err := encodeAccount(pubkey)
	if err != nil {
		return data, err
	}

	key, err := types.CreateStorageKey(
		c.metadata,
		state_Providers,
		providers_BackupProviders,
		b,
	)
	if err != nil {
		return data, errors.Wrap(err, "[CreateStorageKey]")
	}

	ok, err := c.api.RPC.State.GetStorageLatest(key, &data)
	if err != nil {
		return data, errors.Wrap(err, "[GetStorageLatest]")
	}
	if !ok {
		return data, errors.New(ERR_Empty)
	}
	return data, nil
}

// QueryStorageRequest returns the open request for a file key.
func (c *client) QueryStorageRequest(ctx context.Context, fileKey [32]byte) (StorageRequestInfo, error) {
	defer func() {
		recover()
	}()

	var data StorageRequestInfo

	if err := ctx.Err(); err != nil {
		return data, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return data, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	b, err := codec.Encode(types.H256(fileKey))
	if err != nil {
		return data, errors.Wrap(err, "[Encode]")
	}

	key, err := types.CreateStorageKey(
		c.metadata,
		state_FileSystem,
		fileSystem_StorageRequests,
		b,
	)
	if err != nil {
		return data, errors.Wrap(err, "[CreateStorageKey]")
	}

	ok, err := c.api.RPC.State.GetStorageLatest(key, &data)
	if err != nil {
		return data, errors.Wrap(err, "[GetStorageLatest]")
	}
	if !ok {
		return data, errors.New(ERR_Empty)
	}
	return data, nil
}

// QueryChallengeSeed returns the challenge seed of a tick.
func (c *client) QueryChallengeSeed(ctx context.Context, tick uint32) ([32]byte, error) {
	defer func() {
		recover()
	}()

	var data types.H256

	if err := ctx.Err(); err != nil {
		return [32]byte{}, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return [32]byte{}, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	b, err := codec.Encode(types.U32(tick))
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "[Encode]")
	}

	key, err := types.CreateStorageKey(
		c.metadata,
		state_ProofsDealer,
		proofsDealer_TickToSeed,
		b,
	)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "[CreateStorageKey]")
	}

	ok, err := c.api.RPC.State.GetStorageLatest(key, &data)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "[GetStorageLatest]")
	}
	if !ok {
		return [32]byte{}, errors.New(ERR_Empty)
	}
	return [32]byte(data), nil
}

// QueryLastCheckpointTick returns the tick of the latest checkpoint
// challenge batch.
func (c *client) QueryLastCheckpointTick(ctx context.Context) (uint32, error) {
	defer func() {
		recover()
	}()

	var data types.U32

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return 0, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	key, err := types.CreateStorageKey(
		c.metadata,
		state_ProofsDealer,
		proofsDealer_LastCheckpointTick,
	)
	if err != nil {
		return 0, errors.Wrap(err, "[CreateStorageKey]")
	}

	ok, err := c.api.RPC.State.GetStorageLatest(key, &data)
	if err != nil {
		return 0, errors.Wrap(err, "[GetStorageLatest]")
	}
	if !ok {
		return 0, errors.New(ERR_Empty)
	}
	return uint32(data), nil
}

// QueryCheckpointChallenges returns the checkpoint batch emitted at
// the given tick.
func (c *client) QueryCheckpointChallenges(ctx context.Context, tick uint32) ([]CheckpointChallenge, error) {
	defer func() {
		recover()
	}()

	var data []CheckpointChallenge

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return nil, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	b, err := codec.Encode(types.U32(tick))
	if err != nil {
		return nil, errors.Wrap(err, "[Encode]")
	}

	key, err := types.CreateStorageKey(
		c.metadata,
		state_ProofsDealer,
		proofsDealer_CheckpointChallenges,
		b,
	)
	if err != nil {
		return nil, errors.Wrap(err, "[CreateStorageKey]")
	}

	ok, err := c.api.RPC.State.GetStorageLatest(key, &data)
	if err != nil {
		return nil, errors.Wrap(err, "[GetStorageLatest]")
	}
	if !ok {
		return nil, errors.New(ERR_Empty)
	}
	return data, nil
}

// QueryProviderDeadline returns the tick the provider's next proof is
// due by.
func (c *client) QueryProviderDeadline(ctx context.Context, pubkey []byte) (uint32, error) {
	defer func() {
		recover()
	}()

	var data types.U32

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !c.IsChainClientOk() {
		c.SetChainState(false)
		return 0, ERR_RPC_CONNECTION
	}
	c.SetChainState(true)

	b, err := encodeAccount(pubkey)
	if err != nil {
		return 0, err
	}

	key, err := types.CreateStorageKey(
		c.metadata,
		state_ProofsDealer,
		proofsDealer_ProviderDeadlines,
		b,
	)
	if err != nil {
		return 0, errors.Wrap(err, "[CreateStorageKey]")
	}

	ok, err := c.api.RPC.State.GetStorageLatest(key, &data)
	if err != nil {
		return 0, errors.Wrap(err, "[GetStorageLatest]")
	}
	if !ok {
		return 0, errors.New(ERR_Empty)
	}
	return uint32(data), nil
}
