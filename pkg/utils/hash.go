/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package utils

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// HashLength is the byte length of every hash and key in the protocol.
const HashLength = 32

// CalcBlake2b256 hashes the concatenation of all segments with BLAKE2b-256.
func CalcBlake2b256(segments ...[]byte) [HashLength]byte {
	h, _ := blake2b.New256(nil)
	for _, seg := range segments {
		h.Write(seg)
	}
	var out [HashLength]byte
	copy(out[:], h.Sum(nil))
	return out
}

// CalcFileKey derives the file key of a storage request:
// blake2b(fingerprint || location || owner || bucket).
func CalcFileKey(fingerprint [HashLength]byte, location string, owner []byte, bucket [HashLength]byte) [HashLength]byte {
	return CalcBlake2b256(fingerprint[:], []byte(location), owner, bucket[:])
}

// ParseHash decodes a hex string into a 32 byte hash.
func ParseHash(s string) ([HashLength]byte, error) {
	var out [HashLength]byte
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, errors.Wrap(err, "[DecodeString]")
	}
	if len(raw) != HashLength {
		return out, errors.Errorf("invalid hash length: %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// HashToString encodes a hash as a 0x prefixed hex string.
func HashToString(h [HashLength]byte) string {
	return "0x" + hex.EncodeToString(h[:])
}
