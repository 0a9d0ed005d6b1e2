// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	require := require.New(t)
	wr := NewWriter(2, 2)
	// Pack up to the limit
	wr.PackBool(true)
	wr.PackBool(false)
	require.NoError(wr.Err())
	// Pack past the limit
	wr.PackBool(true)
	require.ErrorIs(wr.Err(), wrappers.ErrInsufficientLength)
}

func TestPackerAddress(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(1, ids.GenerateTestID())

	wp := NewWriter(AddressLen, AddressLen)
	wp.PackAddress(addr)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), AddressLen)
	var unpacked Address
	rp.UnpackAddress(true, &unpacked)
	require.NoError(rp.Err())
	require.True(rp.Empty())
	require.Equal(addr, unpacked)

	// An empty address is rejected when required
	wp = NewWriter(AddressLen, AddressLen)
	wp.PackAddress(EmptyAddress)
	rp = NewReader(wp.Bytes(), AddressLen)
	rp.UnpackAddress(true, &unpacked)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerString(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(0, 64)
	wp.PackString("Buy milk")
	wp.PackInt64(-3)
	wp.PackByte(2)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), 64)
	require.Equal("Buy milk", rp.UnpackString(true))
	require.Equal(int64(-3), rp.UnpackInt64())
	require.Equal(byte(2), rp.UnpackByte())
	require.True(rp.Empty())

	rp = NewReader([]byte{0, 0}, 64)
	require.Empty(rp.UnpackString(true))
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerUnpackUint64(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(8, 8)
	wp.PackUint64(0)

	rp := NewReader(wp.Bytes(), 8)
	require.Zero(rp.UnpackUint64(true))
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)

	rp = NewReader([]byte{0x1}, 8)
	rp.UnpackUint64(false)
	require.ErrorIs(rp.Err(), wrappers.ErrInsufficientLength)
}
