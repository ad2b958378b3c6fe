/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

// Package chain is the substrate rpc client of the provider node:
// reads of the on-chain protocol state and the signed write path the
// submitter drives.
package chain

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"

	"github.com/w3f-grants-archive/storage-hub/pkg/utils"
)

type client struct {
	lock            *sync.Mutex
	api             *gsrpc.SubstrateAPI
	chainState      *atomic.Bool
	metadata        *types.Metadata
	runtimeVersion  *types.RuntimeVersion
	genesisHash     types.Hash
	keyring         signature.KeyringPair
	rpcAddrs        []string
	signatureAcc    string
	timeForBlockOut time.Duration
}

// NewClient connects to the first reachable rpc endpoint, caches the
// chain constants, and derives the signing keyring from the mnemonic.
func NewClient(rpcAddrs []string, mnemonic string, timeout time.Duration) (Chainer, error) {
	if len(rpcAddrs) == 0 {
		return nil, errors.New("[NewClient] no rpc endpoint")
	}

	var (
		err error
		cli = &client{}
	)
	for _, addr := range rpcAddrs {
		cli.api, err = gsrpc.NewSubstrateAPI(addr)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] NewSubstrateAPI")
	}

	cli.metadata, err = cli.api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] GetMetadataLatest")
	}
	cli.genesisHash, err = cli.api.RPC.Chain.GetBlockHash(0)
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] GetBlockHash")
	}
	cli.runtimeVersion, err = cli.api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] GetRuntimeVersionLatest")
	}
	cli.keyring, err = signature.KeyringPairFromSecret(mnemonic, 0)
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] KeyringPairFromSecret")
	}
	cli.signatureAcc, err = utils.EncodePublicKeyAsAccount(cli.keyring.PublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] EncodePublicKeyAsAccount")
	}

	cli.lock = new(sync.Mutex)
	cli.chainState = &atomic.Bool{}
	cli.chainState.Store(true)
	cli.rpcAddrs = rpcAddrs
	cli.timeForBlockOut = timeout
	return cli, nil
}

func (c *client) GetPublicKey() []byte {
	return c.keyring.PublicKey
}

func (c *client) GetSignatureAcc() string {
	return c.signatureAcc
}

func (c *client) SetChainState(state bool) {
	c.chainState.Store(state)
}

func (c *client) GetChainState() bool {
	return c.chainState.Load()
}

func (c *client) GetSyncStatus(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !c.IsChainClientOk() {
		return false, ERR_RPC_CONNECTION
	}
	h, err := c.api.RPC.System.Health()
	if err != nil {
		return false, err
	}
	return h.IsSyncing, nil
}

// IsChainClientOk health-checks the connection and reconnects over
// the endpoint list when it is gone.
func (c *client) IsChainClientOk() bool {
	err := healthchek(c.api)
	if err != nil {
		c.api = nil
		api, err := c.reconnect()
		if err != nil {
			return false
		}
		c.api = api
		return true
	}
	return true
}

func (c *client) reconnect() (*gsrpc.SubstrateAPI, error) {
	var (
		err error
		api *gsrpc.SubstrateAPI
	)
	for _, addr := range c.rpcAddrs {
		api, err = gsrpc.NewSubstrateAPI(addr)
		if err == nil {
			return api, nil
		}
	}
	return nil, err
}

func healthchek(a *gsrpc.SubstrateAPI) error {
	defer func() {
		recover()
	}()
	_, err := a.RPC.System.Health()
	return err
}
