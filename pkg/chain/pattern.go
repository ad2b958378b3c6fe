/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"

	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
)

// pallets
const (
	state_System       = "System"
	state_Providers    = "Providers"
	state_FileSystem   = "FileSystem"
	state_ProofsDealer = "ProofsDealer"
)

// storage items
const (
	system_Account                    = "Account"
	system_Events                     = "Events"
	providers_BackupProviders         = "BackupStorageProviders"
	fileSystem_StorageRequests        = "StorageRequests"
	fileSystem_GlobalParams           = "GlobalParameters"
	proofsDealer_ChallengesTicker     = "ChallengesTicker"
	proofsDealer_TickToSeed           = "TickToChallengesSeed"
	proofsDealer_LastCheckpointTick   = "LastCheckpointTick"
	proofsDealer_CheckpointChallenges = "TickToCheckpointChallenges"
	proofsDealer_ProviderDeadlines    = "ProviderDeadlines"
)

const (
	ERR_Failed  = "failed"
	ERR_Timeout = "timeout"
	ERR_Empty   = "empty"
)

var (
	ERR_RPC_CONNECTION = errors.New("rpc connection failed")
)

// ProviderInfo is a provider's on-chain record.
type ProviderInfo struct {
	Owner          types.AccountID
	Stake          types.U64
	Reputation     types.U32
	Capacity       types.U64
	DataUsed       types.U64
	Multiaddrs     []types.Bytes
	ForestRoot     types.H256
	LastTickProved types.U32
	SignUpTick     types.U32
}

// StorageRequestInfo is an open storage request's on-chain record.
type StorageRequestInfo struct {
	Fingerprint       types.H256
	BucketId          types.H256
	Location          types.Bytes
	Owner             types.AccountID
	FileSize          types.U64
	ReplicationTarget types.U32
	CreatedTick       types.U32
	VolunteerCount    types.U32
	ConfirmedCount    types.U32
}

// ChainParams are the global protocol parameters published on chain.
type ChainParams struct {
	ReplicationTarget      types.U32
	RampWindow             types.U32
	CheckpointPeriod       types.U32
	MinChallengePeriod     types.U32
	StakeToPeriod          types.U64
	ChallengeTolerance     types.U32
	SlashRatePerByte       types.U64
	RequestTTL             types.U32
	RandomChallengeCount   types.U32
	MinCapacityChangeDelay types.U32
	MaxThreshold           types.U64
}

// CheckpointChallenge is one entry of a checkpoint challenge batch.
type CheckpointChallenge struct {
	Key          types.H256
	ShouldRemove types.Bool
}

// Chainer is the ledger surface the node consumes: reads of the
// protocol state plus the single write path. It embeds the
// submitter's Conn so a chain client can back the retry loop
// directly.
type Chainer interface {
	submitter.Conn

	// GetPublicKey returns the signing account's public key.
	GetPublicKey() []byte
	// GetSignatureAcc returns the signing account in ss58 format.
	GetSignatureAcc() string
	// GetSyncStatus reports whether the connected node is still
	// syncing blocks.
	GetSyncStatus(ctx context.Context) (bool, error)
	// GetChainState reports the health of the rpc connection as of
	// the last call.
	GetChainState() bool

	// QueryBlockHeight returns the current tick.
	QueryBlockHeight(ctx context.Context) (uint32, error)
	// QueryChainParams returns the global protocol parameters.
	QueryChainParams(ctx context.Context) (ChainParams, error)
	// QueryProvider returns the provider record of the given account.
	QueryProvider(ctx context.Context, pubkey []byte) (ProviderInfo, error)
	// QueryStorageRequest returns the open request for a file key.
	QueryStorageRequest(ctx context.Context, fileKey [32]byte) (StorageRequestInfo, error)
	// QueryChallengeSeed returns the challenge seed of a tick.
	QueryChallengeSeed(ctx context.Context, tick uint32) ([32]byte, error)
	// QueryLastCheckpointTick returns the tick of the latest
	// checkpoint challenge batch.
	QueryLastCheckpointTick(ctx context.Context) (uint32, error)
	// QueryCheckpointChallenges returns the checkpoint batch emitted
	// at the given tick.
	QueryCheckpointChallenges(ctx context.Context, tick uint32) ([]CheckpointChallenge, error)
	// QueryProviderDeadline returns the tick the provider's next
	// proof is due by.
	QueryProviderDeadline(ctx context.Context, pubkey []byte) (uint32, error)

	// SubmitCall encodes the call and runs it through SubmitExtrinsic.
	SubmitCall(ctx context.Context, call *Call, tip uint64, timeout time.Duration) (submitter.Receipt, error)
}
