/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package utils

import (
	"errors"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

var (
	SSPrefix        = []byte{0x53, 0x53, 0x35, 0x38, 0x50, 0x52, 0x45}
	SubstratePrefix = []byte{0x2a}
)

// EncodePublicKeyAsAccount encodes a 32 byte public key as an ss58
// address with the generic substrate prefix.
func EncodePublicKeyAsAccount(publicKey []byte) (string, error) {
	if len(publicKey) != 32 {
		return "", errors.New("public key length is not equal 32")
	}
	payload := appendBytes(SubstratePrefix, publicKey)
	input := appendBytes(SSPrefix, payload)
	ck := blake2b.Sum512(input)
	checksum := ck[:2]
	address := base58.Encode(appendBytes(payload, checksum))
	if address == "" {
		return address, errors.New("base58 encode error")
	}
	return address, nil
}

// ParsingPublickey decodes an ss58 address back to the raw public key.
func ParsingPublickey(address string) ([]byte, error) {
	err := VerityAddress(address, SubstratePrefix)
	if err != nil {
		return nil, errors.New("invalid address")
	}
	data := base58.Decode(address)
	if len(data) != (34 + len(SubstratePrefix)) {
		return nil, errors.New("base58 decode error")
	}
	return data[len(SubstratePrefix) : len(data)-2], nil
}

func appendBytes(data1, data2 []byte) []byte {
	if data2 == nil {
		return data1
	}
	return append(data1, data2...)
}

func VerityAddress(address string, prefix []byte) error {
	decodeBytes := base58.Decode(address)
	if len(decodeBytes) != (34 + len(prefix)) {
		return errors.New("base58 decode error")
	}
	if decodeBytes[0] != prefix[0] {
		return errors.New("prefix valid error")
	}
	pub := decodeBytes[len(prefix) : len(decodeBytes)-2]

	data := append(prefix, pub...)
	input := append(SSPrefix, data...)
	ck := blake2b.Sum512(input)
	checkSum := ck[:2]
	for i := 0; i < 2; i++ {
		if checkSum[i] != decodeBytes[32+len(prefix)+i] {
			return errors.New("checksum valid error")
		}
	}
	if len(pub) != 32 {
		return errors.New("decode public key length is not equal 32")
	}
	return nil
}
