/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package forest

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// HashLength is the byte length of node hashes and file keys.
const HashLength = 32

type Hash = [HashLength]byte

// Key is a file key, the leaf identity of the forest trie.
type Key = [HashLength]byte

// EmptyRoot is the commitment of a forest with no file keys.
var EmptyRoot = blake2b.Sum256(nil)

const (
	leafKind   byte = 0x00
	branchKind byte = 0x01

	branchWidth = 16
)

var (
	ErrAlreadyPresent  = errors.New("file key already present")
	ErrNotFound        = errors.New("file key not found")
	ErrNodeMissing     = errors.New("trie node missing from store")
	ErrIncompleteProof = errors.New("proof does not carry the required nodes")
	ErrRootMismatch    = errors.New("root does not match committed root")
	ErrBadEncoding     = errors.New("malformed trie node encoding")
)

// node is the in-memory form of a trie node. A leaf carries the
// uncompressed nibble suffix of its key below the branch point, a
// branch carries up to sixteen child hashes. Keys all have the same
// nibble length, so branches never carry values.
type node struct {
	kind     byte
	suffix   []byte
	children [branchWidth]Hash
}

func newLeaf(suffix []byte) *node {
	s := make([]byte, len(suffix))
	copy(s, suffix)
	return &node{kind: leafKind, suffix: s}
}

func newBranch() *node {
	return &node{kind: branchKind}
}

func (n *node) childCount() int {
	var count int
	for i := 0; i < branchWidth; i++ {
		if n.children[i] != (Hash{}) {
			count++
		}
	}
	return count
}

func (n *node) onlyChild() (int, Hash) {
	for i := 0; i < branchWidth; i++ {
		if n.children[i] != (Hash{}) {
			return i, n.children[i]
		}
	}
	return -1, Hash{}
}

// encode serializes a node. Leaf: kind byte, suffix length, one byte
// per nibble. Branch: kind byte, two byte occupancy bitmap, then the
// hashes of the occupied slots in ascending index order.
func (n *node) encode() []byte {
	if n.kind == leafKind {
		enc := make([]byte, 0, 2+len(n.suffix))
		enc = append(enc, leafKind, byte(len(n.suffix)))
		enc = append(enc, n.suffix...)
		return enc
	}
	var bitmap uint16
	for i := 0; i < branchWidth; i++ {
		if n.children[i] != (Hash{}) {
			bitmap |= 1 << uint(i)
		}
	}
	enc := make([]byte, 3, 3+HashLength*n.childCount())
	enc[0] = branchKind
	binary.BigEndian.PutUint16(enc[1:3], bitmap)
	for i := 0; i < branchWidth; i++ {
		if n.children[i] != (Hash{}) {
			enc = append(enc, n.children[i][:]...)
		}
	}
	return enc
}

func decodeNode(enc []byte) (*node, error) {
	if len(enc) < 1 {
		return nil, ErrBadEncoding
	}
	switch enc[0] {
	case leafKind:
		if len(enc) < 2 || len(enc) != 2+int(enc[1]) {
			return nil, ErrBadEncoding
		}
		return newLeaf(enc[2:]), nil
	case branchKind:
		if len(enc) < 3 {
			return nil, ErrBadEncoding
		}
		bitmap := binary.BigEndian.Uint16(enc[1:3])
		n := newBranch()
		offset := 3
		for i := 0; i < branchWidth; i++ {
			if bitmap&(1<<uint(i)) == 0 {
				continue
			}
			if len(enc) < offset+HashLength {
				return nil, ErrBadEncoding
			}
			copy(n.children[i][:], enc[offset:offset+HashLength])
			offset += HashLength
		}
		if offset != len(enc) {
			return nil, ErrBadEncoding
		}
		return n, nil
	default:
		return nil, ErrBadEncoding
	}
}

func (n *node) hash() Hash {
	return blake2b.Sum256(n.encode())
}

func hashEncoding(enc []byte) Hash {
	return blake2b.Sum256(enc)
}

// keyNibbles expands a key into its 64 nibble path, one byte each.
func keyNibbles(key Key) []byte {
	nibs := make([]byte, 0, 2*HashLength)
	for _, b := range key {
		nibs = append(nibs, b>>4, b&0x0f)
	}
	return nibs
}

func commonPrefixLen(a, b []byte) int {
	var i int
	for i = 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			break
		}
	}
	return i
}
