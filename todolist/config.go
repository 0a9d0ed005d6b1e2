// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package todolist

import (
	"fmt"

	"github.com/ava-labs/todovm/consts"
)

type Config struct {
	// MaxNameSize is the largest item name, in bytes, CreateTodo accepts.
	MaxNameSize int `json:"maxNameSize"`
}

func NewDefaultConfig() Config {
	return Config{
		MaxNameSize: consts.MaxNameSize,
	}
}

// Verify rejects a name limit that is not positive or that storage could not
// hold.
func (c Config) Verify() error {
	if c.MaxNameSize <= 0 || c.MaxNameSize > consts.MaxStringLen {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidMaxNameSize, c.MaxNameSize, consts.MaxStringLen)
	}
	return nil
}
