/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package forest

import "github.com/pkg/errors"

// Trie is a copy-on-write Merkle Patricia trie over file keys. All
// keys share the same nibble length, so the trie needs only leaf and
// branch nodes. Mutations write new nodes into the store and return
// the new root, old roots stay readable.
type Trie struct {
	store NodeStore
	root  Hash
}

func NewTrie(store NodeStore, root Hash) *Trie {
	return &Trie{store: store, root: root}
}

func (t *Trie) Root() Hash {
	return t.root
}

// Insert adds a file key and returns the new root. Fails with
// ErrAlreadyPresent if the key is already a member.
func (t *Trie) Insert(key Key) (Hash, error) {
	newRoot, err := t.insert(t.root, keyNibbles(key))
	if err != nil {
		return Hash{}, err
	}
	t.root = newRoot
	return newRoot, nil
}

// Remove deletes a file key and returns the new root. Fails with
// ErrNotFound if the key is not a member.
func (t *Trie) Remove(key Key) (Hash, error) {
	newRoot, err := t.remove(t.root, keyNibbles(key))
	if err != nil {
		return Hash{}, err
	}
	if newRoot == (Hash{}) {
		newRoot = EmptyRoot
	}
	t.root = newRoot
	return newRoot, nil
}

// Has reports membership of a file key.
func (t *Trie) Has(key Key) (bool, error) {
	return t.lookup(t.root, keyNibbles(key))
}

func (t *Trie) load(hash Hash) (*node, error) {
	enc, err := t.store.Get(hash)
	if err != nil {
		return nil, err
	}
	return decodeNode(enc)
}

func (t *Trie) put(n *node) (Hash, error) {
	enc := n.encode()
	hash := hashEncoding(enc)
	err := t.store.Put(hash, enc)
	if err != nil {
		return Hash{}, err
	}
	return hash, nil
}

func (t *Trie) insert(hash Hash, nibs []byte) (Hash, error) {
	if hash == EmptyRoot || hash == (Hash{}) {
		return t.put(newLeaf(nibs))
	}
	n, err := t.load(hash)
	if err != nil {
		return Hash{}, err
	}
	switch n.kind {
	case leafKind:
		prefix := commonPrefixLen(n.suffix, nibs)
		if prefix == len(nibs) {
			return Hash{}, ErrAlreadyPresent
		}
		// Fork below the shared prefix, then wrap the fork in one
		// single-child branch per shared nibble.
		fork := newBranch()
		oldHash, err := t.put(newLeaf(n.suffix[prefix+1:]))
		if err != nil {
			return Hash{}, err
		}
		newHash, err := t.put(newLeaf(nibs[prefix+1:]))
		if err != nil {
			return Hash{}, err
		}
		fork.children[n.suffix[prefix]] = oldHash
		fork.children[nibs[prefix]] = newHash
		child, err := t.put(fork)
		if err != nil {
			return Hash{}, err
		}
		for i := prefix - 1; i >= 0; i-- {
			wrap := newBranch()
			wrap.children[nibs[i]] = child
			child, err = t.put(wrap)
			if err != nil {
				return Hash{}, err
			}
		}
		return child, nil
	case branchKind:
		idx := nibs[0]
		branch := newBranch()
		branch.children = n.children
		childHash := n.children[idx]
		if childHash == (Hash{}) {
			leafHash, err := t.put(newLeaf(nibs[1:]))
			if err != nil {
				return Hash{}, err
			}
			branch.children[idx] = leafHash
		} else {
			updated, err := t.insert(childHash, nibs[1:])
			if err != nil {
				return Hash{}, err
			}
			branch.children[idx] = updated
		}
		return t.put(branch)
	default:
		return Hash{}, ErrBadEncoding
	}
}

// remove returns the zero hash when the subtrie becomes empty.
func (t *Trie) remove(hash Hash, nibs []byte) (Hash, error) {
	if hash == EmptyRoot || hash == (Hash{}) {
		return Hash{}, ErrNotFound
	}
	n, err := t.load(hash)
	if err != nil {
		return Hash{}, err
	}
	switch n.kind {
	case leafKind:
		if commonPrefixLen(n.suffix, nibs) != len(nibs) {
			return Hash{}, ErrNotFound
		}
		return Hash{}, nil
	case branchKind:
		idx := nibs[0]
		childHash := n.children[idx]
		if childHash == (Hash{}) {
			return Hash{}, ErrNotFound
		}
		updated, err := t.remove(childHash, nibs[1:])
		if err != nil {
			return Hash{}, err
		}
		branch := newBranch()
		branch.children = n.children
		branch.children[idx] = updated
		switch branch.childCount() {
		case 0:
			return Hash{}, nil
		case 1:
			// A lone leaf child absorbs the branch so removal
			// restores the exact shape insertion would produce.
			onlyIdx, onlyHash := branch.onlyChild()
			child, err := t.load(onlyHash)
			if err != nil {
				return Hash{}, err
			}
			if child.kind == leafKind {
				suffix := append([]byte{byte(onlyIdx)}, child.suffix...)
				return t.put(newLeaf(suffix))
			}
			return t.put(branch)
		default:
			return t.put(branch)
		}
	default:
		return Hash{}, ErrBadEncoding
	}
}

func (t *Trie) lookup(hash Hash, nibs []byte) (bool, error) {
	if hash == EmptyRoot || hash == (Hash{}) {
		return false, nil
	}
	n, err := t.load(hash)
	if err != nil {
		return false, err
	}
	switch n.kind {
	case leafKind:
		return commonPrefixLen(n.suffix, nibs) == len(nibs), nil
	case branchKind:
		childHash := n.children[nibs[0]]
		if childHash == (Hash{}) {
			return false, nil
		}
		return t.lookup(childHash, nibs[1:])
	default:
		return false, errors.WithStack(ErrBadEncoding)
	}
}
