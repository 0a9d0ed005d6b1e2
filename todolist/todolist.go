// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package todolist implements a per-owner record store: items are created
// with a monotonically allocated id, can only be completed by the address
// that created them, and are never deleted.
package todolist

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/todovm/codec"
	"github.com/ava-labs/todovm/event"
	"github.com/ava-labs/todovm/state"
	"github.com/ava-labs/todovm/storage"
)

// TodoList is safe for concurrent use. Every operation runs to completion
// under a single lock, so the allocator and the item mapping always change
// together.
type TodoList struct {
	log     logging.Logger
	cfg     Config
	db      state.Database
	metrics *metrics
	subs    []Subscription

	lock   sync.Mutex
	closed bool
}

// New returns a store backed by [db]. A database that already holds items
// resumes from its persisted allocator. Subscriptions are called with the
// store lock held and must not call back into the store; they are closed by
// [TodoList.Close].
func New(
	log logging.Logger,
	db state.Database,
	cfg Config,
	reg prometheus.Registerer,
	subs ...Subscription,
) (*TodoList, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	next, err := storage.GetNextItemID(context.Background(), state.ReadOnly(db))
	if err != nil {
		return nil, err
	}
	m.nextID.Set(float64(next))
	log.Info("todo list initialized",
		zap.Uint64("nextID", next),
		zap.Int("maxNameSize", cfg.MaxNameSize),
		zap.Int("subscriptions", len(subs)),
	)
	return &TodoList{
		log:     log,
		cfg:     cfg,
		db:      db,
		metrics: m,
		subs:    subs,
	}, nil
}

// CreateTodo stores a new, not yet completed item owned by [actor] and
// returns its id.
func (t *TodoList) CreateTodo(
	ctx context.Context,
	actor codec.Address,
	name string,
	priority Priority,
) (uint64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if actor == codec.EmptyAddress {
		return 0, t.reject("create", ErrInvalidOwner)
	}
	if len(name) > t.cfg.MaxNameSize {
		return 0, t.reject("create", fmt.Errorf("%w: %d > %d bytes", ErrNameTooLarge, len(name), t.cfg.MaxNameSize))
	}
	// Names are returned as JSON strings, which cannot carry invalid UTF-8.
	if !utf8.ValidString(name) {
		return 0, t.reject("create", ErrInvalidName)
	}
	if !priority.Valid() {
		return 0, t.reject("create", fmt.Errorf("%w: %d", ErrInvalidPriority, uint8(priority)))
	}

	mu := state.NewSimpleMutable(t.db)
	id, err := storage.AllocateItemID(ctx, mu)
	if err != nil {
		return 0, t.reject("create", err)
	}
	if err := storage.SetItem(ctx, mu, id, actor, name, false, uint8(priority)); err != nil {
		return 0, t.reject("create", err)
	}
	if err := mu.Commit(ctx); err != nil {
		return 0, t.reject("create", err)
	}

	t.metrics.created.Inc()
	t.metrics.nextID.Set(float64(id + 1))
	t.log.Debug("item created",
		zap.Uint64("id", id),
		zap.Stringer("owner", actor),
		zap.Stringer("priority", priority),
	)
	t.notify(ctx, &Event{
		Kind: Created,
		Item: &Item{
			ID:       id,
			Owner:    actor,
			Name:     name,
			Priority: priority,
		},
	})
	return id, nil
}

// UpdateItem marks the item at [id] completed. Only the owner may do so;
// completing an already completed item succeeds and leaves it completed.
func (t *TodoList) UpdateItem(ctx context.Context, actor codec.Address, id uint64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	mu := state.NewSimpleMutable(t.db)
	item, err := getItem(ctx, mu, id)
	if err != nil {
		return t.reject("update", err)
	}
	if item.Owner != actor {
		return t.reject("update", fmt.Errorf("%w: item %d", ErrUnauthorized, id))
	}

	item.Completed = true
	if err := storage.SetItem(ctx, mu, id, item.Owner, item.Name, item.Completed, uint8(item.Priority)); err != nil {
		return t.reject("update", err)
	}
	if err := mu.Commit(ctx); err != nil {
		return t.reject("update", err)
	}

	t.metrics.updated.Inc()
	t.log.Debug("item updated",
		zap.Uint64("id", id),
		zap.Stringer("owner", actor),
	)
	t.notify(ctx, &Event{Kind: Updated, Item: item})
	return nil
}

// GetItem returns the item at [id].
func (t *TodoList) GetItem(ctx context.Context, id uint64) (*Item, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return getItem(ctx, state.ReadOnly(t.db), id)
}

// GetMyTodo returns every item owned by [owner] in ascending id order. It
// scans the whole id range on every call.
func (t *TodoList) GetMyTodo(ctx context.Context, owner codec.Address) ([]*Item, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	items := []*Item{}
	err := t.scan(ctx, func(item *Item) {
		if item.Owner == owner {
			items = append(items, item)
		}
	})
	return items, err
}

// GetAllTodo returns how many ids map to an item.
func (t *TodoList) GetAllTodo(ctx context.Context) (uint64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	var count uint64
	err := t.scan(ctx, func(*Item) {
		count++
	})
	return count, err
}

// scan visits the items in [storage.FirstItemID, next id) in order.
func (t *TodoList) scan(ctx context.Context, f func(*Item)) error {
	im := state.ReadOnly(t.db)
	next, err := storage.GetNextItemID(ctx, im)
	if err != nil {
		return err
	}
	for id := storage.FirstItemID; id < next; id++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		exists, owner, name, completed, priority, err := storage.GetItem(ctx, im, id)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		f(&Item{
			ID:        id,
			Owner:     owner,
			Name:      name,
			Completed: completed,
			Priority:  Priority(priority),
		})
	}
	return nil
}

func getItem(ctx context.Context, im state.Immutable, id uint64) (*Item, error) {
	exists, owner, name, completed, priority, err := storage.GetItem(ctx, im, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	return &Item{
		ID:        id,
		Owner:     owner,
		Name:      name,
		Completed: completed,
		Priority:  Priority(priority),
	}, nil
}

func (t *TodoList) reject(op string, err error) error {
	t.metrics.rejected.WithLabelValues(rejectReason(err)).Inc()
	t.log.Debug("operation rejected",
		zap.String("op", op),
		zap.Error(err),
	)
	return err
}

// Close closes every subscription. Operations keep working afterwards but
// no longer emit events. Calling Close more than once is a no-op.
func (t *TodoList) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	subs := t.subs
	t.subs = nil
	return event.CloseAll(subs...)
}

// notify runs after the commit, so subscriber failures are logged and
// otherwise ignored.
func (t *TodoList) notify(ctx context.Context, e *Event) {
	if err := event.NotifyAll(ctx, e, t.subs...); err != nil {
		t.log.Warn("event subscription failed",
			zap.Stringer("kind", e.Kind),
			zap.Uint64("id", e.Item.ID),
			zap.Error(err),
		)
	}
}
