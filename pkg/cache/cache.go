/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package cache

import "io"

type Reader interface {
	// Has returns true if the given key exists in the key-value data store.
	Has(key []byte) (bool, error)

	// Get fetch the given key if it's present in the key-value data store.
	Get(key []byte) ([]byte, error)

	// QueryPrefixKeyList queries the collection of all keys that start with
	// prefix but do not contain prefix
	QueryPrefixKeyList(prefix string) ([]string, error)
}

type Writer interface {
	// Put store the given key-value in the key-value data store
	Put(key []byte, value []byte) error

	// Delete removes the key from the key-value data store.
	Delete(key []byte) error
}

// Batcher groups writes so related entries land atomically.
type Batcher interface {
	// NewBatch starts an empty write batch.
	NewBatch() Batch
}

type Batch interface {
	Put(key []byte, value []byte)
	Delete(key []byte)

	// Write flushes the batch to the data store.
	Write() error

	// Reset empties the batch for reuse.
	Reset()
}

type Cache interface {
	Reader
	Writer
	Batcher
	io.Closer
}
