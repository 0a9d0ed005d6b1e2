// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/exp/maps"
)

var _ Mutable = (*SimpleMutable)(nil)

type changeOp struct {
	value  []byte
	delete bool
}

// SimpleMutable buffers writes on top of a [Database]. Nothing reaches the
// database until [SimpleMutable.Commit], which applies every change in a
// single batch.
type SimpleMutable struct {
	db Database

	changes map[string]*changeOp
}

func NewSimpleMutable(db Database) *SimpleMutable {
	return &SimpleMutable{db, make(map[string]*changeOp)}
}

func (s *SimpleMutable) GetValue(_ context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.delete {
			return nil, database.ErrNotFound
		}
		return v.value, nil
	}
	return s.db.Get(k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = &changeOp{value: slices.Clone(v)}
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = &changeOp{delete: true}
	return nil
}

// Commit writes the buffered changes atomically. On failure the buffer is
// kept so the caller can decide whether to retry or drop it.
func (s *SimpleMutable) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.changes) == 0 {
		return nil
	}

	keys := maps.Keys(s.changes)
	slices.Sort(keys)

	batch := s.db.NewBatch()
	for _, k := range keys {
		op := s.changes[k]
		var err error
		if op.delete {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), op.value)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	clear(s.changes)
	return nil
}
