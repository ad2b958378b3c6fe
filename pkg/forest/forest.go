/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package forest

import (
	"sync"

	"github.com/pkg/errors"
)

// Forest is the node-side handle on a provider's trie. Writers are
// serialized: at most one insert or remove is in flight, and a
// mutation does not commit while proof generation still reads the
// pre-mutation root. Readers work against the committed snapshot.
type Forest struct {
	l     sync.RWMutex
	store CommitStore
	trie  *Trie
}

// NewForest opens a forest on the given store, resuming from the
// persisted root pointer.
func NewForest(store CommitStore) (*Forest, error) {
	root, err := store.LoadRoot()
	if err != nil {
		return nil, errors.Wrap(err, "[LoadRoot]")
	}
	return &Forest{
		store: store,
		trie:  NewTrie(store, root),
	}, nil
}

func (f *Forest) Root() Hash {
	f.l.RLock()
	defer f.l.RUnlock()
	return f.trie.Root()
}

func (f *Forest) Has(key Key) (bool, error) {
	f.l.RLock()
	defer f.l.RUnlock()
	return f.trie.Has(key)
}

// Insert adds a file key, persists the new nodes and root pointer
// atomically, and returns the new root.
func (f *Forest) Insert(key Key) (Hash, error) {
	f.l.Lock()
	defer f.l.Unlock()
	prev := f.trie.Root()
	newRoot, err := f.trie.Insert(key)
	if err != nil {
		return Hash{}, err
	}
	err = f.store.Commit(newRoot)
	if err != nil {
		f.trie = NewTrie(f.store, prev)
		return Hash{}, errors.Wrap(err, "[Commit]")
	}
	return newRoot, nil
}

// Remove drops a file key, persists the new root, and returns it.
func (f *Forest) Remove(key Key) (Hash, error) {
	f.l.Lock()
	defer f.l.Unlock()
	prev := f.trie.Root()
	newRoot, err := f.trie.Remove(key)
	if err != nil {
		return Hash{}, err
	}
	err = f.store.Commit(newRoot)
	if err != nil {
		f.trie = NewTrie(f.store, prev)
		return Hash{}, errors.Wrap(err, "[Commit]")
	}
	return newRoot, nil
}

// Prove generates one proof for the requested keys against the
// committed root. Concurrent Prove calls share the read lock, a
// pending mutation waits for them.
func (f *Forest) Prove(keys ...Key) (*Proof, error) {
	f.l.RLock()
	defer f.l.RUnlock()
	return f.trie.Prove(keys...)
}

// SyncRoot checks the local root against the root committed on the
// ledger. A mismatch means this provider's storage history diverged
// and the pipeline must halt, it is never recoverable locally.
func (f *Forest) SyncRoot(onLedger Hash) error {
	f.l.RLock()
	defer f.l.RUnlock()
	local := f.trie.Root()
	if local != onLedger {
		return errors.Wrapf(ErrRootMismatch, "local %x, on-ledger %x", local[:6], onLedger[:6])
	}
	return nil
}
