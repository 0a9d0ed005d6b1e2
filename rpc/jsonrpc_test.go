// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/todovm/codec"
	"github.com/ava-labs/todovm/counter"
	"github.com/ava-labs/todovm/state/dbtest"
	"github.com/ava-labs/todovm/todolist"
)

func newTestClient(t *testing.T) *JSONRPCClient {
	t.Helper()
	require := require.New(t)

	db := dbtest.NewTestDB()
	todos, err := todolist.New(logging.NoLog{}, db, todolist.NewDefaultConfig(), prometheus.NewRegistry())
	require.NoError(err)
	handler, err := NewJSONRPCHandler(NewJSONRPCServer(logging.NoLog{}, todos, counter.New(logging.NoLog{}, db)))
	require.NoError(err)

	router := mux.NewRouter()
	router.Handle(JSONRPCEndpoint, handler)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewJSONRPCClient(srv.URL)
}

func TestJSONRPCTodoScenario(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestClient(t)

	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	id, err := cli.CreateTodo(ctx, "alice", "Buy milk", todolist.Low)
	require.NoError(err)
	require.Equal(uint64(1), id)

	bob := codec.NamedAddress("bob")
	id, err = cli.CreateTodo(ctx, bob.String(), "Write report", todolist.High)
	require.NoError(err)
	require.Equal(uint64(2), id)

	items, err := cli.GetMyTodo(ctx, "bob")
	require.NoError(err)
	require.Equal([]*todolist.Item{{
		ID:       2,
		Owner:    bob,
		Name:     "Write report",
		Priority: todolist.High,
	}}, items)

	require.ErrorIs(cli.UpdateItem(ctx, "bob", 1), todolist.ErrUnauthorized)
	require.NoError(cli.UpdateItem(ctx, "alice", 1))
	require.ErrorIs(cli.UpdateItem(ctx, "alice", 99), todolist.ErrNotFound)

	item, err := cli.GetItem(ctx, 1)
	require.NoError(err)
	require.True(item.Completed)
	require.Equal(codec.NamedAddress("alice"), item.Owner)

	_, err = cli.GetItem(ctx, 99)
	require.ErrorIs(err, todolist.ErrNotFound)

	count, err := cli.GetAllTodo(ctx)
	require.NoError(err)
	require.Equal(uint64(2), count)
}

func TestJSONRPCErrors(t *testing.T) {
	tests := []struct {
		name  string
		actor string
		err   error
	}{
		{
			name:  "missing actor",
			actor: "",
			err:   todolist.ErrInvalidOwner,
		},
		{
			name:  "bad hex actor",
			actor: "0x1234",
			err:   codec.ErrInvalidAddress,
		},
		{
			name:  "empty address",
			actor: codec.EmptyAddress.String(),
			err:   todolist.ErrInvalidOwner,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClient(t).CreateTodo(context.Background(), tt.actor, "x", todolist.Medium)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestJSONRPCCounter(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestClient(t)

	v, err := cli.IncrementCounter(ctx)
	require.NoError(err)
	require.Equal(int64(1), v)
	v, err = cli.IncrementCounter(ctx)
	require.NoError(err)
	require.Equal(int64(2), v)
	v, err = cli.DecrementCounter(ctx)
	require.NoError(err)
	require.Equal(int64(1), v)
	v, err = cli.GetCounter(ctx)
	require.NoError(err)
	require.Equal(int64(1), v)
}

func TestJSONRPCRequestTooLarge(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestClient(t)

	_, err := cli.CreateTodo(ctx, "alice", strings.Repeat("a", MaxRequestSize), todolist.Low)
	require.Error(err)

	count, err := cli.GetAllTodo(ctx)
	require.NoError(err)
	require.Zero(count)
}
