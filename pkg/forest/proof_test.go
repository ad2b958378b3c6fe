/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProveAndVerify(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	for i := byte(0); i < 10; i++ {
		_, err := tr.Insert(testKey(i))
		require.NoError(t, err)
	}
	root := tr.Root()

	// every present key verifies as included
	for i := byte(0); i < 10; i++ {
		proof, err := tr.Prove(testKey(i))
		require.NoError(t, err)
		ok, err := Verify(root, proof, testKey(i))
		require.NoError(t, err)
		assert.True(t, ok)
	}

	// every absent key verifies as not included
	for i := byte(10); i < 20; i++ {
		proof, err := tr.Prove(testKey(i))
		require.NoError(t, err)
		ok, err := Verify(root, proof, testKey(i))
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestProveMixedMembership(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	for i := byte(0); i < 5; i++ {
		_, err := tr.Insert(testKey(i))
		require.NoError(t, err)
	}
	root := tr.Root()

	proof, err := tr.Prove(testKey(0), testKey(3), testKey(7), testKey(9))
	require.NoError(t, err)

	err = VerifyExpected(root, proof, map[Key]bool{
		testKey(0): true,
		testKey(3): true,
		testKey(7): false,
		testKey(9): false,
	})
	assert.NoError(t, err)

	// wrong expectation is reported
	err = VerifyExpected(root, proof, map[Key]bool{testKey(7): true})
	assert.Error(t, err)
}

func TestVerifyRejectsWrongRoot(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	_, err := tr.Insert(testKey(1))
	require.NoError(t, err)
	proof, err := tr.Prove(testKey(1))
	require.NoError(t, err)

	otherRoot := testKey(200)
	_, err = Verify(otherRoot, proof, testKey(1))
	assert.ErrorIs(t, err, ErrRootMismatch)
}

func TestVerifyRejectsUnwitnessedKey(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	for i := byte(0); i < 8; i++ {
		_, err := tr.Insert(testKey(i))
		require.NoError(t, err)
	}
	proof, err := tr.Prove(testKey(0))
	require.NoError(t, err)

	// key 5 shares no witnessed path, the proof cannot answer for it
	_, err = Verify(tr.Root(), proof, testKey(5))
	assert.ErrorIs(t, err, ErrIncompleteProof)
}

func TestProofSurvivesLaterMutation(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	for i := byte(0); i < 4; i++ {
		_, err := tr.Insert(testKey(i))
		require.NoError(t, err)
	}
	root := tr.Root()
	proof, err := tr.Prove(testKey(2))
	require.NoError(t, err)

	// the store is copy-on-write, the old snapshot stays verifiable
	_, err = tr.Insert(testKey(100))
	require.NoError(t, err)

	ok, err := Verify(root, proof, testKey(2))
	require.NoError(t, err)
	assert.True(t, ok)

	// but the proof does not verify against the advanced root
	_, err = Verify(tr.Root(), proof, testKey(2))
	assert.ErrorIs(t, err, ErrRootMismatch)
}

func TestApplyMutationsInsert(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	for i := byte(0); i < 6; i++ {
		_, err := tr.Insert(testKey(i))
		require.NoError(t, err)
	}
	root := tr.Root()

	// non-inclusion proof of the new key carries the insertion path
	proof, err := tr.Prove(testKey(9))
	require.NoError(t, err)

	got, err := ApplyMutations(root, proof, []Mutation{{Kind: Insert, Key: testKey(9)}})
	require.NoError(t, err)

	want, err := tr.Insert(testKey(9))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApplyMutationsRemove(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	for i := byte(0); i < 6; i++ {
		_, err := tr.Insert(testKey(i))
		require.NoError(t, err)
	}
	root := tr.Root()

	proof, err := tr.Prove(testKey(3))
	require.NoError(t, err)

	got, err := ApplyMutations(root, proof, []Mutation{{Kind: Remove, Key: testKey(3)}})
	require.NoError(t, err)

	want, err := tr.Remove(testKey(3))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApplyMutationsRejectsWrongRoot(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	_, err := tr.Insert(testKey(1))
	require.NoError(t, err)
	proof, err := tr.Prove(testKey(2))
	require.NoError(t, err)

	_, err = ApplyMutations(testKey(77), proof, []Mutation{{Kind: Insert, Key: testKey(2)}})
	assert.ErrorIs(t, err, ErrRootMismatch)
}
