// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Name is used as the JSON-RPC service name and as the logger prefix.
	Name = "todovm"

	ByteLen   = 1
	BoolLen   = 1
	IDLen     = 32
	Uint16Len = 2
	Uint64Len = 8
	MaxUint64 = ^uint64(0)

	// MaxNameSize bounds the free-form label stored with an item. It is the
	// default for [todolist.Config.MaxNameSize].
	MaxNameSize = 256

	// MaxStringLen is the largest string the value codec can frame.
	MaxStringLen = int(^uint16(0))
)
