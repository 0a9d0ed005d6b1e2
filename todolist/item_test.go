// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package todolist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in       string
		expected Priority
		err      error
	}{
		{in: "HIGH", expected: High},
		{in: "low", expected: Low},
		{in: "Medium", expected: Medium},
		{in: "urgent", err: ErrInvalidPriority},
		{in: "", err: ErrInvalidPriority},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePriority(tt.in)
			require.ErrorIs(t, err, tt.err)
			require.Equal(t, tt.expected, p)
		})
	}
}

func TestPriorityByteValues(t *testing.T) {
	require := require.New(t)

	require.Equal(uint8(0), uint8(High))
	require.Equal(uint8(1), uint8(Low))
	require.Equal(uint8(2), uint8(Medium))
	require.False(Priority(3).Valid())
	require.Equal("Priority(3)", Priority(3).String())
}

func TestItemJSON(t *testing.T) {
	require := require.New(t)

	b, err := json.Marshal(&Event{Kind: Updated, Item: &Item{ID: 3, Name: "x", Completed: true, Priority: Medium}})
	require.NoError(err)
	require.Contains(string(b), `"kind":"updated"`)
	require.Contains(string(b), `"priority":"MEDIUM"`)

	var e Event
	require.NoError(json.Unmarshal(b, &e))
	require.Equal(Updated, e.Kind)
	require.Equal(Medium, e.Item.Priority)
	require.True(e.Item.Completed)

	_, err = json.Marshal(&Item{Priority: Priority(9)})
	require.ErrorIs(err, ErrInvalidPriority)
}
