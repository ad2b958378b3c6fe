/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package forest

import (
	"sync"

	"github.com/w3f-grants-archive/storage-hub/pkg/cache"
)

// NodeStore is the backing storage of trie nodes, keyed by node hash.
// Stores are copy-on-write: a mutation adds nodes and never overwrites,
// so any previously returned root stays readable as a snapshot.
type NodeStore interface {
	Get(hash Hash) ([]byte, error)
	Put(hash Hash, enc []byte) error
}

// CommitStore is a NodeStore with a persistent root pointer. Commit
// flushes everything written since the last commit together with the
// new root as one atomic unit.
type CommitStore interface {
	NodeStore
	Commit(root Hash) error
	LoadRoot() (Hash, error)
}

// MemStore keeps all nodes in memory.
type MemStore struct {
	l     sync.RWMutex
	nodes map[Hash][]byte
	root  Hash
}

var _ CommitStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		nodes: make(map[Hash][]byte),
		root:  EmptyRoot,
	}
}

func (m *MemStore) Get(hash Hash) ([]byte, error) {
	m.l.RLock()
	defer m.l.RUnlock()
	enc, ok := m.nodes[hash]
	if !ok {
		return nil, ErrNodeMissing
	}
	return enc, nil
}

func (m *MemStore) Put(hash Hash, enc []byte) error {
	m.l.Lock()
	defer m.l.Unlock()
	m.nodes[hash] = enc
	return nil
}

func (m *MemStore) Commit(root Hash) error {
	m.l.Lock()
	defer m.l.Unlock()
	m.root = root
	return nil
}

func (m *MemStore) LoadRoot() (Hash, error) {
	m.l.RLock()
	defer m.l.RUnlock()
	return m.root, nil
}

const (
	nodeKeyPrefix = "forest:node:"
	rootKey       = "forest:root"
)

// LevelStore persists trie nodes in the node's leveldb instance.
// Puts are staged in memory and land in one write batch on Commit,
// so a crash mid-mutation never leaves a half written trie.
type LevelStore struct {
	l      sync.RWMutex
	db     cache.Cache
	staged map[Hash][]byte
}

var _ CommitStore = (*LevelStore)(nil)

func NewLevelStore(db cache.Cache) *LevelStore {
	return &LevelStore{
		db:     db,
		staged: make(map[Hash][]byte),
	}
}

func (s *LevelStore) Get(hash Hash) ([]byte, error) {
	s.l.RLock()
	if enc, ok := s.staged[hash]; ok {
		s.l.RUnlock()
		return enc, nil
	}
	s.l.RUnlock()
	enc, err := s.db.Get(append([]byte(nodeKeyPrefix), hash[:]...))
	if err != nil {
		if err == cache.NotFound {
			return nil, ErrNodeMissing
		}
		return nil, err
	}
	return enc, nil
}

func (s *LevelStore) Put(hash Hash, enc []byte) error {
	s.l.Lock()
	defer s.l.Unlock()
	s.staged[hash] = enc
	return nil
}

func (s *LevelStore) Commit(root Hash) error {
	s.l.Lock()
	defer s.l.Unlock()
	batch := s.db.NewBatch()
	for hash, enc := range s.staged {
		batch.Put(append([]byte(nodeKeyPrefix), hash[:]...), enc)
	}
	batch.Put([]byte(rootKey), root[:])
	err := batch.Write()
	if err != nil {
		return err
	}
	s.staged = make(map[Hash][]byte)
	return nil
}

func (s *LevelStore) LoadRoot() (Hash, error) {
	val, err := s.db.Get([]byte(rootKey))
	if err != nil {
		if err == cache.NotFound {
			return EmptyRoot, nil
		}
		return Hash{}, err
	}
	if len(val) != HashLength {
		return Hash{}, ErrBadEncoding
	}
	var root Hash
	copy(root[:], val)
	return root, nil
}

// proofStore is the read-only bag of nodes carried by a proof.
type proofStore struct {
	nodes map[Hash][]byte
}

func newProofStore(encs [][]byte) *proofStore {
	nodes := make(map[Hash][]byte, len(encs))
	for _, enc := range encs {
		nodes[hashEncoding(enc)] = enc
	}
	return &proofStore{nodes: nodes}
}

func (p *proofStore) Get(hash Hash) ([]byte, error) {
	enc, ok := p.nodes[hash]
	if !ok {
		return nil, ErrIncompleteProof
	}
	return enc, nil
}

func (p *proofStore) Put(hash Hash, enc []byte) error {
	return ErrIncompleteProof
}

// overlayStore lets mutations run on top of a read-only proof bag.
type overlayStore struct {
	base    NodeStore
	overlay map[Hash][]byte
}

func newOverlayStore(base NodeStore) *overlayStore {
	return &overlayStore{
		base:    base,
		overlay: make(map[Hash][]byte),
	}
}

func (o *overlayStore) Get(hash Hash) ([]byte, error) {
	if enc, ok := o.overlay[hash]; ok {
		return enc, nil
	}
	return o.base.Get(hash)
}

func (o *overlayStore) Put(hash Hash, enc []byte) error {
	o.overlay[hash] = enc
	return nil
}
