// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

// Immutable is a read-only view of the slot store. A missing key is reported
// as [database.ErrNotFound].
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the durable backend that buffered changes are committed to.
// avalanchego's memdb and this module's pebble database both satisfy it.
type Database interface {
	database.KeyValueReader
	database.KeyValueWriterDeleter
	database.Batcher
}

type readOnly struct {
	db database.KeyValueReader
}

// ReadOnly exposes [db] as an [Immutable] without buffering.
func ReadOnly(db database.KeyValueReader) Immutable {
	return readOnly{db}
}

func (r readOnly) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.db.Get(key)
}
