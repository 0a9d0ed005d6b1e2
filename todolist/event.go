// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package todolist

import (
	"fmt"

	"github.com/ava-labs/todovm/event"
)

type EventKind uint8

const (
	Created EventKind = iota
	Updated
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "created":
		*k = Created
	case "updated":
		*k = Updated
	default:
		return fmt.Errorf("unknown event kind %q", b)
	}
	return nil
}

// Event is published after a create or update has been committed. [Item] is
// a copy of the item as stored.
type Event struct {
	Kind EventKind `json:"kind"`
	Item *Item     `json:"item"`
}

type Subscription = event.Subscription[*Event]
