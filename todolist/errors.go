// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package todolist

import (
	"errors"

	"github.com/ava-labs/todovm/storage"
)

var (
	ErrNotFound        = errors.New("item not found")
	ErrUnauthorized    = errors.New("caller is not the item owner")
	ErrInvalidOwner    = errors.New("owner must not be the empty address")
	ErrNameTooLarge    = errors.New("item name is too large")
	ErrInvalidName     = errors.New("item name is not valid UTF-8")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrIDOverflow      = storage.ErrIDOverflow

	ErrInvalidMaxNameSize = errors.New("invalid max name size")
)
