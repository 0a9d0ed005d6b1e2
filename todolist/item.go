// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package todolist

import (
	"fmt"
	"strings"

	"github.com/ava-labs/todovm/codec"
)

// Priority is the closed set of classifications an item can carry. The byte
// values are persisted and must not be reordered.
type Priority uint8

const (
	High Priority = iota
	Low
	Medium
)

var priorityNames = [...]string{
	High:   "HIGH",
	Low:    "LOW",
	Medium: "MEDIUM",
}

func (p Priority) Valid() bool {
	return int(p) < len(priorityNames)
}

func (p Priority) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Priority(%d)", uint8(p))
	}
	return priorityNames[p]
}

// ParsePriority accepts the priority name in any case.
func ParsePriority(s string) (Priority, error) {
	for i, name := range priorityNames {
		if strings.EqualFold(s, name) {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	parsed, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Item is a single owned entry of the list.
type Item struct {
	ID        uint64        `json:"id"`
	Owner     codec.Address `json:"owner"`
	Name      string        `json:"name"`
	Completed bool          `json:"completed"`
	Priority  Priority      `json:"priority"`
}
