// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter_test

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/todovm/counter"
	"github.com/ava-labs/todovm/state/dbtest"
)

func TestCounter(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := counter.New(logging.NoLog{}, dbtest.NewTestDB())

	v, err := c.Get(ctx)
	require.NoError(err)
	require.Zero(v)

	v, err = c.Decrement(ctx)
	require.NoError(err)
	require.Equal(int64(-1), v)

	for i := 0; i < 3; i++ {
		v, err = c.Increment(ctx)
		require.NoError(err)
	}
	require.Equal(int64(2), v)

	v, err = c.Get(ctx)
	require.NoError(err)
	require.Equal(int64(2), v)
}

func TestCounterInitialize(t *testing.T) {
	tests := []struct {
		name     string
		init     int64
		inc      bool
		expected int64
	}{
		{
			name:     "increment",
			init:     41,
			inc:      true,
			expected: 42,
		},
		{
			name:     "decrement",
			init:     -7,
			expected: -8,
		},
		{
			name:     "increment wraps",
			init:     math.MaxInt64,
			inc:      true,
			expected: math.MinInt64,
		},
		{
			name:     "decrement wraps",
			init:     math.MinInt64,
			expected: math.MaxInt64,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			c := counter.New(logging.NoLog{}, dbtest.NewTestDB())
			require.NoError(c.Initialize(ctx, tt.init))

			var (
				v   int64
				err error
			)
			if tt.inc {
				v, err = c.Increment(ctx)
			} else {
				v, err = c.Decrement(ctx)
			}
			require.NoError(err)
			require.Equal(tt.expected, v)
		})
	}
}

func TestCounterFailedWrite(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := dbtest.NewTestDB()
	c := counter.New(logging.NoLog{}, db)
	require.NoError(c.Initialize(ctx, 5))

	db.FailWrites(true)
	_, err := c.Increment(ctx)
	require.ErrorIs(err, dbtest.ErrWriteFailed)

	v, err := c.Get(ctx)
	require.NoError(err)
	require.Equal(int64(5), v)
}
