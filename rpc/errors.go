// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"strings"

	"github.com/ava-labs/todovm/codec"
	"github.com/ava-labs/todovm/todolist"
)

// knownErrors are the errors callers are expected to match with errors.Is.
var knownErrors = []error{
	todolist.ErrNotFound,
	todolist.ErrUnauthorized,
	todolist.ErrInvalidOwner,
	todolist.ErrNameTooLarge,
	todolist.ErrInvalidName,
	todolist.ErrInvalidPriority,
	todolist.ErrIDOverflow,
	codec.ErrInvalidAddress,
}

// We use string parsing here because the JSON-RPC library we use does not
// carry error identity across the wire.
func parseError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if strings.Contains(err.Error(), known.Error()) {
			return fmt.Errorf("%w: %w", known, err)
		}
	}
	return err
}
