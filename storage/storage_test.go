// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/todovm/codec"
	"github.com/ava-labs/todovm/consts"
	"github.com/ava-labs/todovm/state"
	"github.com/ava-labs/todovm/state/dbtest"
)

func newMutable() *state.SimpleMutable {
	return state.NewSimpleMutable(dbtest.NewTestDB())
}

func TestKeysAreDistinct(t *testing.T) {
	require := require.New(t)
	keys := map[string]struct{}{
		string(NextItemIDKey()): {},
		string(CounterKey()):    {},
		string(ItemKey(0)):      {},
		string(ItemKey(1)):      {},
		string(ItemKey(256)):    {},
	}
	require.Len(keys, 5)
	require.Equal(byte(itemPrefix), ItemKey(7)[0])
	require.Len(ItemKey(7), consts.ByteLen+consts.Uint64Len+consts.Uint16Len)
}

func TestAllocateItemID(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newMutable()

	next, err := GetNextItemID(ctx, mu)
	require.NoError(err)
	require.Equal(FirstItemID, next)

	for want := FirstItemID; want < FirstItemID+5; want++ {
		id, err := AllocateItemID(ctx, mu)
		require.NoError(err)
		require.Equal(want, id)
	}
	next, err = GetNextItemID(ctx, mu)
	require.NoError(err)
	require.Equal(FirstItemID+5, next)
}

func TestAllocateItemIDOverflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newMutable()

	require.NoError(SetNextItemID(ctx, mu, consts.MaxUint64))
	_, err := AllocateItemID(ctx, mu)
	require.ErrorIs(err, ErrIDOverflow)

	// allocator is left untouched
	next, err := GetNextItemID(ctx, mu)
	require.NoError(err)
	require.Equal(consts.MaxUint64, next)
}

func TestItemRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newMutable()
	owner := codec.NamedAddress("alice")

	exists, _, _, _, _, err := GetItem(ctx, mu, 1)
	require.NoError(err)
	require.False(exists)

	require.NoError(SetItem(ctx, mu, 1, owner, "Buy milk", false, 1))
	exists, gotOwner, name, completed, priority, err := GetItem(ctx, mu, 1)
	require.NoError(err)
	require.True(exists)
	require.Equal(owner, gotOwner)
	require.Equal("Buy milk", name)
	require.False(completed)
	require.Equal(uint8(1), priority)

	// empty names are storable
	require.NoError(SetItem(ctx, mu, 2, owner, "", true, 0))
	exists, _, name, completed, _, err = GetItem(ctx, mu, 2)
	require.NoError(err)
	require.True(exists)
	require.Empty(name)
	require.True(completed)
}

func TestSetItemTooLarge(t *testing.T) {
	require := require.New(t)
	err := SetItem(context.Background(), newMutable(), 1, codec.NamedAddress("alice"), strings.Repeat("a", consts.MaxStringLen+1), false, 0)
	require.ErrorIs(err, ErrValueTooLarge)
}

func TestGetItemCorrupt(t *testing.T) {
	tests := map[string][]byte{
		"truncated":     {0x1, 0x2},
		"emptyOwner":    make([]byte, codec.AddressLen+consts.Uint16Len+consts.BoolLen+consts.ByteLen),
		"trailingBytes": nil,
	}
	owner := codec.NamedAddress("alice")
	p := codec.NewWriter(0, 1024)
	p.PackAddress(owner)
	p.PackString("x")
	p.PackBool(false)
	p.PackByte(0)
	tests["trailingBytes"] = append(p.Bytes(), 0xff)

	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			mu := newMutable()
			require.NoError(mu.Insert(ctx, ItemKey(1), value))
			_, _, _, _, _, err := GetItem(ctx, mu, 1)
			require.ErrorIs(err, ErrCorruptValue)
		})
	}
}

func TestCounter(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newMutable()

	v, err := GetCounter(ctx, mu)
	require.NoError(err)
	require.Zero(v)

	require.NoError(SetCounter(ctx, mu, -7))
	v, err = GetCounter(ctx, mu)
	require.NoError(err)
	require.Equal(int64(-7), v)

	require.NoError(mu.Insert(ctx, CounterKey(), []byte{1}))
	_, err = GetCounter(ctx, mu)
	require.ErrorIs(err, ErrCorruptValue)
}

func TestGetNextItemIDCorrupt(t *testing.T) {
	tests := map[string][]byte{
		"truncated":     {0x1},
		"zero":          make([]byte, consts.Uint64Len),
		"trailingBytes": {0, 0, 0, 0, 0, 0, 0, 1, 0xff},
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			mu := newMutable()
			require.NoError(mu.Insert(ctx, NextItemIDKey(), value))
			_, err := GetNextItemID(ctx, mu)
			require.ErrorIs(err, ErrCorruptValue)
			_, err = AllocateItemID(ctx, mu)
			require.ErrorIs(err, ErrCorruptValue)
		})
	}
}

func TestCounterTrailingBytes(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := newMutable()

	require.NoError(mu.Insert(ctx, CounterKey(), []byte{0, 0, 0, 0, 0, 0, 0, 1, 0}))
	_, err := GetCounter(ctx, mu)
	require.ErrorIs(err, ErrCorruptValue)
	require.ErrorIs(err, ErrTrailingBytes)
}
