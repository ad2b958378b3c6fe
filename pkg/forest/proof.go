/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package forest

import "github.com/pkg/errors"

// Proof is a compact witness for the membership or non-membership of
// a set of file keys against one root. Nodes is the deduplicated bag
// of node encodings visited while walking every proven key, plus the
// neighbour witnesses a verifier needs to replay removals.
type Proof struct {
	Root  Hash
	Nodes [][]byte
}

// Prove produces one proof covering all requested keys. Present keys
// are witnessed by their full path, absent keys by the path down to
// the divergence node.
func (t *Trie) Prove(keys ...Key) (*Proof, error) {
	if len(keys) == 0 {
		return nil, errors.New("no keys to prove")
	}
	proof := &Proof{Root: t.root}
	seen := make(map[Hash]bool)
	for _, key := range keys {
		err := t.record(t.root, keyNibbles(key), seen, proof)
		if err != nil {
			return nil, err
		}
	}
	return proof, nil
}

func (t *Trie) record(hash Hash, nibs []byte, seen map[Hash]bool, proof *Proof) error {
	if hash == EmptyRoot || hash == (Hash{}) {
		return nil
	}
	enc, err := t.store.Get(hash)
	if err != nil {
		return err
	}
	if !seen[hash] {
		seen[hash] = true
		proof.Nodes = append(proof.Nodes, enc)
	}
	n, err := decodeNode(enc)
	if err != nil {
		return err
	}
	if n.kind == leafKind {
		// Match or divergence, either way the walk ends here.
		return nil
	}
	idx := nibs[0]
	if n.childCount() == 2 {
		// Witness the sibling so a removal along this path can
		// collapse the branch without the full trie at hand.
		for i := 0; i < branchWidth; i++ {
			if i == int(idx) || n.children[i] == (Hash{}) {
				continue
			}
			sibEnc, err := t.store.Get(n.children[i])
			if err != nil {
				return err
			}
			if !seen[n.children[i]] {
				seen[n.children[i]] = true
				proof.Nodes = append(proof.Nodes, sibEnc)
			}
		}
	}
	if n.children[idx] == (Hash{}) {
		return nil
	}
	return t.record(n.children[idx], nibs[1:], seen, proof)
}

// Verify replays the proof against the given root and reports whether
// the key is a member. The root is a hard match: a proof generated
// against any other root is rejected with ErrRootMismatch. A proof
// that does not witness the key at all fails with ErrIncompleteProof.
func Verify(root Hash, proof *Proof, key Key) (bool, error) {
	if proof == nil {
		return false, errors.New("nil proof")
	}
	if proof.Root != root {
		return false, ErrRootMismatch
	}
	tr := NewTrie(newProofStore(proof.Nodes), root)
	return tr.lookup(root, keyNibbles(key))
}

// VerifyExpected checks the exact membership of every key in want.
func VerifyExpected(root Hash, proof *Proof, want map[Key]bool) error {
	for key, included := range want {
		got, err := Verify(root, proof, key)
		if err != nil {
			return err
		}
		if got != included {
			return errors.Errorf("key %x: membership is %v, want %v", key[:6], got, included)
		}
	}
	return nil
}

type MutationKind uint8

const (
	Insert MutationKind = iota
	Remove
)

// Mutation is one forest state transition: add or drop a file key.
type Mutation struct {
	Kind MutationKind
	Key  Key
}

// ApplyMutations computes the root a provider's forest must arrive at
// after the given mutations, using only the nodes the proof carries.
// This is how the verifier side advances a committed root without
// holding the provider's trie.
func ApplyMutations(root Hash, proof *Proof, muts []Mutation) (Hash, error) {
	if proof == nil {
		return Hash{}, errors.New("nil proof")
	}
	if proof.Root != root {
		return Hash{}, ErrRootMismatch
	}
	tr := NewTrie(newOverlayStore(newProofStore(proof.Nodes)), root)
	for _, mut := range muts {
		var err error
		switch mut.Kind {
		case Insert:
			_, err = tr.Insert(mut.Key)
		case Remove:
			_, err = tr.Remove(mut.Key)
		default:
			err = errors.Errorf("unknown mutation kind: %d", mut.Kind)
		}
		if err != nil {
			return Hash{}, err
		}
	}
	return tr.Root(), nil
}
