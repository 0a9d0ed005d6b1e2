// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dbtest provides an in-memory [state.Database] whose batch writes can
// be made to fail, for exercising the all-or-nothing commit paths.
package dbtest

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"go.uber.org/atomic"

	"github.com/ava-labs/todovm/state"
)

var (
	ErrWriteFailed = errors.New("injected write failure")

	_ state.Database = (*TestDB)(nil)
)

type TestDB struct {
	*memdb.Database

	failWrites atomic.Bool
	writes     atomic.Int64
}

func NewTestDB() *TestDB {
	return &TestDB{Database: memdb.New()}
}

// FailWrites makes every subsequent batch write return [ErrWriteFailed]
// without touching the underlying data.
func (db *TestDB) FailWrites(fail bool) {
	db.failWrites.Store(fail)
}

// Writes returns how many batches were successfully written.
func (db *TestDB) Writes() int64 {
	return db.writes.Load()
}

func (db *TestDB) NewBatch() database.Batch {
	return &batch{Batch: db.Database.NewBatch(), db: db}
}

type batch struct {
	database.Batch

	db *TestDB
}

func (b *batch) Write() error {
	if b.db.failWrites.Load() {
		return ErrWriteFailed
	}
	if err := b.Batch.Write(); err != nil {
		return err
	}
	b.db.writes.Inc()
	return nil
}
