// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package counter keeps a single persisted int64. There is no ownership and
// no bounds checking: arithmetic wraps like Go's int64.
package counter

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/todovm/state"
	"github.com/ava-labs/todovm/storage"
)

type Counter struct {
	log logging.Logger
	db  state.Database

	lock sync.Mutex
}

func New(log logging.Logger, db state.Database) *Counter {
	return &Counter{log: log, db: db}
}

// Initialize overwrites the stored value with [v].
func (c *Counter) Initialize(ctx context.Context, v int64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	mu := state.NewSimpleMutable(c.db)
	if err := storage.SetCounter(ctx, mu, v); err != nil {
		return err
	}
	if err := mu.Commit(ctx); err != nil {
		return err
	}
	c.log.Debug("counter initialized", zap.Int64("value", v))
	return nil
}

func (c *Counter) Get(ctx context.Context) (int64, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	return storage.GetCounter(ctx, state.ReadOnly(c.db))
}

// Increment adds one and returns the new value.
func (c *Counter) Increment(ctx context.Context) (int64, error) {
	return c.add(ctx, 1)
}

// Decrement subtracts one and returns the new value.
func (c *Counter) Decrement(ctx context.Context) (int64, error) {
	return c.add(ctx, -1)
}

func (c *Counter) add(ctx context.Context, delta int64) (int64, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	mu := state.NewSimpleMutable(c.db)
	v, err := storage.GetCounter(ctx, mu)
	if err != nil {
		return 0, err
	}
	v += delta
	if err := storage.SetCounter(ctx, mu, v); err != nil {
		return 0, err
	}
	if err := mu.Commit(ctx); err != nil {
		return 0, err
	}
	c.log.Debug("counter changed",
		zap.Int64("delta", delta),
		zap.Int64("value", v),
	)
	return v, nil
}
