/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package forest

import (
	"sync"
	"testing"

	"github.com/w3f-grants-archive/storage-hub/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) cache.Cache {
	db, err := cache.NewCache(t.TempDir(), 0, 0, "test")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestForestPersistsRoot(t *testing.T) {
	db := newTestCache(t)

	f, err := NewForest(NewLevelStore(db))
	require.NoError(t, err)
	assert.Equal(t, EmptyRoot, f.Root())

	root, err := f.Insert(testKey(1))
	require.NoError(t, err)
	_, err = f.Insert(testKey(2))
	require.NoError(t, err)
	root, err = f.Remove(testKey(2))
	require.NoError(t, err)

	reopened, err := NewForest(NewLevelStore(db))
	require.NoError(t, err)
	assert.Equal(t, root, reopened.Root())
	ok, err := reopened.Has(testKey(1))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestForestSyncRoot(t *testing.T) {
	f, err := NewForest(NewMemStore())
	require.NoError(t, err)
	root, err := f.Insert(testKey(1))
	require.NoError(t, err)

	assert.NoError(t, f.SyncRoot(root))
	err = f.SyncRoot(testKey(9))
	assert.ErrorIs(t, err, ErrRootMismatch)
}

func TestForestConcurrentProve(t *testing.T) {
	f, err := NewForest(NewMemStore())
	require.NoError(t, err)
	for i := byte(0); i < 16; i++ {
		_, err = f.Insert(testKey(i))
		require.NoError(t, err)
	}
	root := f.Root()

	var wg sync.WaitGroup
	for i := byte(0); i < 16; i++ {
		wg.Add(1)
		go func(i byte) {
			defer wg.Done()
			proof, err := f.Prove(testKey(i))
			assert.NoError(t, err)
			ok, err := Verify(root, proof, testKey(i))
			assert.NoError(t, err)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
}
