/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/pkg/errors"

	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
)

// CallKind tags the transaction kinds a provider node submits.
type CallKind uint8

const (
	TxVolunteer CallKind = iota
	TxConfirmStoring
	TxSubmitProof
	TxRequestDeletion
	TxStopStoring
	TxChangeCapacity
)

// callName maps a kind to its dispatchable.
func callName(kind CallKind) (string, error) {
	switch kind {
	case TxVolunteer:
		return "FileSystem.bsp_volunteer", nil
	case TxConfirmStoring:
		return "FileSystem.bsp_confirm_storing", nil
	case TxSubmitProof:
		return "ProofsDealer.submit_proof", nil
	case TxRequestDeletion:
		return "FileSystem.request_delete_file", nil
	case TxStopStoring:
		return "FileSystem.bsp_request_stop_storing", nil
	case TxChangeCapacity:
		return "Providers.change_capacity", nil
	default:
		return "", errors.Errorf("unknown call kind: %d", kind)
	}
}

// ForestProof is the wire form of a forest proof.
type ForestProof struct {
	Root  types.H256
	Nodes []types.Bytes
}

// NewForestProof converts a locally generated proof to wire form.
func NewForestProof(p *forest.Proof) ForestProof {
	fp := ForestProof{Root: types.H256(p.Root)}
	fp.Nodes = make([]types.Bytes, len(p.Nodes))
	for i, node := range p.Nodes {
		fp.Nodes[i] = types.Bytes(node)
	}
	return fp
}

// Unwrap converts the wire form back to the local proof type.
func (fp ForestProof) Unwrap() *forest.Proof {
	p := &forest.Proof{Root: forest.Hash(fp.Root)}
	p.Nodes = make([][]byte, len(fp.Nodes))
	for i, node := range fp.Nodes {
		p.Nodes[i] = []byte(node)
	}
	return p
}

// Call is the tagged union of provider transactions. Exactly the
// fields the kind needs are encoded.
type Call struct {
	Kind     CallKind
	FileKey  types.H256
	Tick     types.U32
	Capacity types.U64
	Proof    ForestProof
}

func NewVolunteerCall(fileKey [32]byte) *Call {
	return &Call{Kind: TxVolunteer, FileKey: types.H256(fileKey)}
}

func NewConfirmStoringCall(fileKey [32]byte, proof *forest.Proof) *Call {
	return &Call{Kind: TxConfirmStoring, FileKey: types.H256(fileKey), Proof: NewForestProof(proof)}
}

func NewProofCall(tick uint32, proof *forest.Proof) *Call {
	return &Call{Kind: TxSubmitProof, Tick: types.U32(tick), Proof: NewForestProof(proof)}
}

func NewDeletionCall(fileKey [32]byte) *Call {
	return &Call{Kind: TxRequestDeletion, FileKey: types.H256(fileKey)}
}

func NewStopStoringCall(fileKey [32]byte) *Call {
	return &Call{Kind: TxStopStoring, FileKey: types.H256(fileKey)}
}

func NewCapacityCall(capacity uint64) *Call {
	return &Call{Kind: TxChangeCapacity, Capacity: types.U64(capacity)}
}

func (c Call) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(byte(c.Kind)); err != nil {
		return err
	}
	switch c.Kind {
	case TxVolunteer, TxRequestDeletion, TxStopStoring:
		return encoder.Encode(c.FileKey)
	case TxConfirmStoring:
		if err := encoder.Encode(c.FileKey); err != nil {
			return err
		}
		return encoder.Encode(c.Proof)
	case TxSubmitProof:
		if err := encoder.Encode(c.Tick); err != nil {
			return err
		}
		return encoder.Encode(c.Proof)
	case TxChangeCapacity:
		return encoder.Encode(c.Capacity)
	default:
		return errors.Errorf("unknown call kind: %d", c.Kind)
	}
}

func (c *Call) Decode(decoder scale.Decoder) error {
	kind, err := decoder.ReadOneByte()
	if err != nil {
		return err
	}
	c.Kind = CallKind(kind)
	switch c.Kind {
	case TxVolunteer, TxRequestDeletion, TxStopStoring:
		return decoder.Decode(&c.FileKey)
	case TxConfirmStoring:
		if err := decoder.Decode(&c.FileKey); err != nil {
			return err
		}
		return decoder.Decode(&c.Proof)
	case TxSubmitProof:
		if err := decoder.Decode(&c.Tick); err != nil {
			return err
		}
		return decoder.Decode(&c.Proof)
	case TxChangeCapacity:
		return decoder.Decode(&c.Capacity)
	default:
		return errors.Errorf("unknown call kind: %d", c.Kind)
	}
}

// EncodeCall serializes the call for the submitter's payload path.
func EncodeCall(c *Call) ([]byte, error) {
	b, err := codec.Encode(*c)
	if err != nil {
		return nil, errors.Wrap(err, "[EncodeCall]")
	}
	return b, nil
}

// DecodeCall parses a payload produced by EncodeCall.
func DecodeCall(payload []byte) (*Call, error) {
	var c Call
	if err := codec.Decode(payload, &c); err != nil {
		return nil, errors.Wrap(err, "[DecodeCall]")
	}
	return &c, nil
}
