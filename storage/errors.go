// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrIDOverflow    = errors.New("item id space exhausted")
	ErrCorruptValue  = errors.New("corrupt stored value")
	ErrTrailingBytes = errors.New("trailing bytes after value")
	ErrValueTooLarge = errors.New("value too large")
)
