// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/todovm/codec"
	"github.com/ava-labs/todovm/consts"
	"github.com/ava-labs/todovm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (next item id)
//   -> [] => id
// 0x1/ (items)
//   -> [id] => owner|nameLen|name|completed|priority
// 0x2/ (counter)
//   -> [] => value

const (
	nextItemIDPrefix byte = 0x0
	itemPrefix       byte = 0x1
	counterPrefix    byte = 0x2
)

const (
	NextItemIDChunks uint16 = 1
	ItemChunks       uint16 = 5
	CounterChunks    uint16 = 1

	// FirstItemID is handed out by the allocator of a fresh store.
	FirstItemID uint64 = 1

	maxItemSize = codec.AddressLen + consts.Uint16Len + consts.MaxStringLen + consts.BoolLen + consts.ByteLen
)

// [nextItemIDPrefix]
func NextItemIDKey() (k []byte) {
	k = make([]byte, consts.ByteLen+consts.Uint16Len)
	k[0] = nextItemIDPrefix
	binary.BigEndian.PutUint16(k[1:], NextItemIDChunks)
	return
}

// [itemPrefix] + [id]
func ItemKey(id uint64) (k []byte) {
	k = make([]byte, consts.ByteLen+consts.Uint64Len+consts.Uint16Len)
	k[0] = itemPrefix
	binary.BigEndian.PutUint64(k[1:], id)
	binary.BigEndian.PutUint16(k[1+consts.Uint64Len:], ItemChunks)
	return
}

// [counterPrefix]
func CounterKey() (k []byte) {
	k = make([]byte, consts.ByteLen+consts.Uint16Len)
	k[0] = counterPrefix
	binary.BigEndian.PutUint16(k[1:], CounterChunks)
	return
}

// GetNextItemID returns the id the allocator will hand out next. A store that
// never allocated starts at [FirstItemID].
func GetNextItemID(ctx context.Context, im state.Immutable) (uint64, error) {
	v, err := im.GetValue(ctx, NextItemIDKey())
	if errors.Is(err, database.ErrNotFound) {
		return FirstItemID, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := unpackNextItemID(v)
	if err != nil {
		return 0, fmt.Errorf("%w: next item id: %w", ErrCorruptValue, err)
	}
	return id, nil
}

func SetNextItemID(ctx context.Context, mu state.Mutable, id uint64) error {
	p := codec.NewWriter(consts.Uint64Len, consts.Uint64Len)
	p.PackUint64(id)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, NextItemIDKey(), p.Bytes())
}

// The allocator never holds 0, so a zero value is treated as corrupt.
func unpackNextItemID(v []byte) (uint64, error) {
	p := codec.NewReader(v, consts.Uint64Len)
	id := p.UnpackUint64(true)
	if err := p.Err(); err != nil {
		return 0, err
	}
	if !p.Empty() {
		return 0, ErrTrailingBytes
	}
	return id, nil
}

// AllocateItemID returns the current allocator value and advances it by one.
// When advancing would overflow nothing is written and [ErrIDOverflow] is
// returned.
func AllocateItemID(ctx context.Context, mu state.Mutable) (uint64, error) {
	id, err := GetNextItemID(ctx, mu)
	if err != nil {
		return 0, err
	}
	next, err := smath.Add64(id, 1)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot allocate past %d", ErrIDOverflow, id)
	}
	return id, SetNextItemID(ctx, mu, next)
}

// GetItem returns the fields of the item stored at [id]. [exists] is false
// when no item was ever created with that id.
func GetItem(
	ctx context.Context,
	im state.Immutable,
	id uint64,
) (
	exists bool,
	owner codec.Address,
	name string,
	completed bool,
	priority uint8,
	err error,
) {
	v, err := im.GetValue(ctx, ItemKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return false, codec.EmptyAddress, "", false, 0, nil
	}
	if err != nil {
		return false, codec.EmptyAddress, "", false, 0, err
	}
	owner, name, completed, priority, err = unpackItem(v)
	if err != nil {
		return false, codec.EmptyAddress, "", false, 0, fmt.Errorf("%w: item %d: %w", ErrCorruptValue, id, err)
	}
	return true, owner, name, completed, priority, nil
}

func SetItem(
	ctx context.Context,
	mu state.Mutable,
	id uint64,
	owner codec.Address,
	name string,
	completed bool,
	priority uint8,
) error {
	if len(name) > consts.MaxStringLen {
		return fmt.Errorf("%w: name has %d bytes", ErrValueTooLarge, len(name))
	}
	p := codec.NewWriter(codec.AddressLen+consts.Uint16Len+len(name)+consts.BoolLen+consts.ByteLen, maxItemSize)
	p.PackAddress(owner)
	p.PackString(name)
	p.PackBool(completed)
	p.PackByte(priority)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, ItemKey(id), p.Bytes())
}

func unpackItem(v []byte) (codec.Address, string, bool, uint8, error) {
	var owner codec.Address
	p := codec.NewReader(v, maxItemSize)
	p.UnpackAddress(true, &owner)
	name := p.UnpackString(false)
	completed := p.UnpackBool()
	priority := p.UnpackByte()
	if err := p.Err(); err != nil {
		return codec.EmptyAddress, "", false, 0, err
	}
	if !p.Empty() {
		return codec.EmptyAddress, "", false, 0, ErrTrailingBytes
	}
	return owner, name, completed, priority, nil
}

// GetCounter returns the stored counter value, or 0 when it was never set.
func GetCounter(ctx context.Context, im state.Immutable) (int64, error) {
	v, err := im.GetValue(ctx, CounterKey())
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	value, err := unpackCounter(v)
	if err != nil {
		return 0, fmt.Errorf("%w: counter: %w", ErrCorruptValue, err)
	}
	return value, nil
}

func SetCounter(ctx context.Context, mu state.Mutable, value int64) error {
	p := codec.NewWriter(consts.Uint64Len, consts.Uint64Len)
	p.PackInt64(value)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, CounterKey(), p.Bytes())
}

func unpackCounter(v []byte) (int64, error) {
	p := codec.NewReader(v, consts.Uint64Len)
	value := p.UnpackInt64()
	if err := p.Err(); err != nil {
		return 0, err
	}
	if !p.Empty() {
		return 0, ErrTrailingBytes
	}
	return value, nil
}
