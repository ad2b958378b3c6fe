/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func testKey(i byte) Key {
	return blake2b.Sum256([]byte{i})
}

func TestInsertRemove(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)

	root1, err := tr.Insert(testKey(1))
	require.NoError(t, err)
	assert.NotEqual(t, EmptyRoot, root1)

	root2, err := tr.Insert(testKey(2))
	require.NoError(t, err)
	assert.NotEqual(t, root1, root2)

	ok, err := tr.Has(testKey(1))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = tr.Has(testKey(3))
	require.NoError(t, err)
	assert.False(t, ok)

	// removal walks the trie back to the exact previous roots
	root, err := tr.Remove(testKey(2))
	require.NoError(t, err)
	assert.Equal(t, root1, root)
	root, err = tr.Remove(testKey(1))
	require.NoError(t, err)
	assert.Equal(t, EmptyRoot, root)
}

func TestInsertDuplicate(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	_, err := tr.Insert(testKey(1))
	require.NoError(t, err)
	_, err = tr.Insert(testKey(1))
	assert.ErrorIs(t, err, ErrAlreadyPresent)
}

func TestRemoveAbsent(t *testing.T) {
	tr := NewTrie(NewMemStore(), EmptyRoot)
	_, err := tr.Remove(testKey(1))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tr.Insert(testKey(1))
	require.NoError(t, err)
	_, err = tr.Remove(testKey(2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRootIsOrderIndependent(t *testing.T) {
	a := NewTrie(NewMemStore(), EmptyRoot)
	b := NewTrie(NewMemStore(), EmptyRoot)

	for i := byte(0); i < 20; i++ {
		_, err := a.Insert(testKey(i))
		require.NoError(t, err)
	}
	for i := byte(20); i > 0; i-- {
		_, err := b.Insert(testKey(i - 1))
		require.NoError(t, err)
	}
	assert.Equal(t, a.Root(), b.Root())
}

func TestRemoveRestoresInsertShape(t *testing.T) {
	a := NewTrie(NewMemStore(), EmptyRoot)
	for i := byte(0); i < 16; i++ {
		_, err := a.Insert(testKey(i))
		require.NoError(t, err)
	}
	for i := byte(8); i < 16; i++ {
		_, err := a.Remove(testKey(i))
		require.NoError(t, err)
	}

	b := NewTrie(NewMemStore(), EmptyRoot)
	for i := byte(0); i < 8; i++ {
		_, err := b.Insert(testKey(i))
		require.NoError(t, err)
	}
	assert.Equal(t, b.Root(), a.Root())
}

func TestNodeEncodingRoundTrip(t *testing.T) {
	leaf := newLeaf([]byte{1, 2, 3, 15})
	decoded, err := decodeNode(leaf.encode())
	require.NoError(t, err)
	assert.Equal(t, leaf.suffix, decoded.suffix)

	branch := newBranch()
	branch.children[0] = leaf.hash()
	branch.children[15] = hashEncoding([]byte{9})
	decoded, err = decodeNode(branch.encode())
	require.NoError(t, err)
	assert.Equal(t, branch.children, decoded.children)

	_, err = decodeNode([]byte{0x07})
	assert.ErrorIs(t, err, ErrBadEncoding)
	_, err = decodeNode(nil)
	assert.ErrorIs(t, err, ErrBadEncoding)
}

func TestLevelStoreRoundTrip(t *testing.T) {
	db := newTestCache(t)

	store := NewLevelStore(db)
	tr := NewTrie(store, EmptyRoot)
	var root Hash
	var err error
	for i := byte(0); i < 8; i++ {
		root, err = tr.Insert(testKey(i))
		require.NoError(t, err)
	}
	require.NoError(t, store.Commit(root))

	reopened := NewLevelStore(db)
	loaded, err := reopened.LoadRoot()
	require.NoError(t, err)
	assert.Equal(t, root, loaded)

	tr2 := NewTrie(reopened, loaded)
	for i := byte(0); i < 8; i++ {
		ok, err := tr2.Has(testKey(i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
