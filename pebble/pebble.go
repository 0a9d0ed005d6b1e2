// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/todovm/state"
)

var (
	_ state.Database = (*Database)(nil)
	_ database.Batch = (*batch)(nil)
)

type Config struct {
	CacheSize    int  `json:"cacheSize"`
	BytesPerSync int  `json:"bytesPerSync"`
	MaxOpenFiles int  `json:"maxOpenFiles"`
	Sync         bool `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:    64 * units.MiB,
		BytesPerSync: units.MiB,
		MaxOpenFiles: 4_096,
		Sync:         true,
	}
}

// Database is a [state.Database] persisted with pebble. Reads after Close
// return [database.ErrClosed].
type Database struct {
	lock    sync.RWMutex
	db      *pebble.DB
	closed  bool
	closing chan struct{}
	wg      sync.WaitGroup

	metrics *metrics
	sync    *pebble.WriteOptions
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	db := &Database{
		closing: make(chan struct{}),
		metrics: metrics,
		sync:    pebble.NoSync,
	}
	if cfg.Sync {
		db.sync = pebble.Sync
	}

	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:        cache,
		BytesPerSync: cfg.BytesPerSync,
		MaxOpenFiles: cfg.MaxOpenFiles,
	}
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: db.onCompactionBegin,
		CompactionEnd:   db.onCompactionEnd,
		WriteStallBegin: db.onWriteStallBegin,
		WriteStallEnd:   db.onWriteStallEnd,
	}
	d, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	db.db = d

	db.wg.Add(1)
	go func() {
		defer db.wg.Done()
		db.collectMetrics()
	}()
	return db, registry, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	v, closer, err := db.db.Get(key)
	db.metrics.observeGet(start)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// Values returned by pebble are only valid until [closer] is closed.
	value := slices.Clone(v)
	return value, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Set(key, value, db.sync)
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Delete(key, db.sync)
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db}
}

func (db *Database) Close() error {
	db.lock.Lock()
	if db.closed {
		db.lock.Unlock()
		return database.ErrClosed
	}
	db.closed = true
	close(db.closing)
	err := db.db.Close()
	db.lock.Unlock()

	db.wg.Wait()
	return err
}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

// batch collects operations in memory and hands them to a single pebble
// batch on Write.
type batch struct {
	db   *Database
	ops  []batchOp
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: slices.Clone(key), value: slices.Clone(value)})
	b.size += len(key) + len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: slices.Clone(key), delete: true})
	b.size += len(key)
	return nil
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	b.db.lock.RLock()
	defer b.db.lock.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	pb := b.db.db.NewBatch()
	defer pb.Close()
	for _, op := range b.ops {
		var err error
		if op.delete {
			err = pb.Delete(op.key, nil)
		} else {
			err = pb.Set(op.key, op.value, nil)
		}
		if err != nil {
			return err
		}
	}
	return pb.Commit(b.db.sync)
}

func (b *batch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, op := range b.ops {
		var err error
		if op.delete {
			err = w.Delete(op.key)
		} else {
			err = w.Put(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
