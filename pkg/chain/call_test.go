/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
)

func testProof() *forest.Proof {
	return &forest.Proof{
		Root:  forest.Hash{1, 2, 3},
		Nodes: [][]byte{{0xaa, 0xbb}, {0xcc}, {0xdd, 0xee, 0xff}},
	}
}

func TestCallNames(t *testing.T) {
	cases := map[CallKind]string{
		TxVolunteer:       "FileSystem.bsp_volunteer",
		TxConfirmStoring:  "FileSystem.bsp_confirm_storing",
		TxSubmitProof:     "ProofsDealer.submit_proof",
		TxRequestDeletion: "FileSystem.request_delete_file",
		TxStopStoring:     "FileSystem.bsp_request_stop_storing",
		TxChangeCapacity:  "Providers.change_capacity",
	}
	for kind, want := range cases {
		name, err := callName(kind)
		require.NoError(t, err)
		assert.Equal(t, want, name)
	}

	_, err := callName(CallKind(99))
	assert.Error(t, err)
}

func TestCallCodecRoundTrip(t *testing.T) {
	fileKey := [32]byte{9, 8, 7}
	calls := []*Call{
		NewVolunteerCall(fileKey),
		NewConfirmStoringCall(fileKey, testProof()),
		NewProofCall(42, testProof()),
		NewDeletionCall(fileKey),
		NewStopStoringCall(fileKey),
		NewCapacityCall(1 << 30),
	}
	for _, call := range calls {
		payload, err := EncodeCall(call)
		require.NoError(t, err)
		require.NotEmpty(t, payload)

		// the kind tag leads the encoding
		assert.Equal(t, byte(call.Kind), payload[0])

		decoded, err := DecodeCall(payload)
		require.NoError(t, err)
		assert.Equal(t, call, decoded)
	}
}

func TestCallCodecRejectsUnknownKind(t *testing.T) {
	bad := &Call{Kind: CallKind(99)}
	_, err := EncodeCall(bad)
	assert.Error(t, err)

	_, err = DecodeCall([]byte{99, 0, 0})
	assert.Error(t, err)
}

func TestForestProofWireForm(t *testing.T) {
	proof := testProof()
	wire := NewForestProof(proof)
	assert.Equal(t, proof, wire.Unwrap())
}
