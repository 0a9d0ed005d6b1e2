// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/todovm/todolist"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

// NewJSONRPCClient returns a client for the service mounted under [uri],
// for example http://127.0.0.1:9650/ext/todovm.
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args interface{}, reply interface{}) error {
	if args == nil {
		args = struct{}{}
	}
	return parseError(cli.requester.SendRequest(ctx, Name+"."+method, args, reply))
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", nil, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) CreateTodo(
	ctx context.Context,
	actor string,
	name string,
	priority todolist.Priority,
) (uint64, error) {
	resp := new(CreateTodoReply)
	err := cli.send(
		ctx,
		"createTodo",
		&CreateTodoArgs{
			Actor:    actor,
			Name:     name,
			Priority: priority,
		},
		resp,
	)
	return resp.ID, err
}

func (cli *JSONRPCClient) UpdateItem(ctx context.Context, actor string, id uint64) error {
	resp := new(UpdateItemReply)
	return cli.send(
		ctx,
		"updateItem",
		&UpdateItemArgs{
			Actor: actor,
			ID:    id,
		},
		resp,
	)
}

func (cli *JSONRPCClient) GetMyTodo(ctx context.Context, owner string) ([]*todolist.Item, error) {
	resp := new(GetMyTodoReply)
	err := cli.send(ctx, "getMyTodo", &GetMyTodoArgs{Owner: owner}, resp)
	return resp.Items, err
}

func (cli *JSONRPCClient) GetAllTodo(ctx context.Context) (uint64, error) {
	resp := new(GetAllTodoReply)
	err := cli.send(ctx, "getAllTodo", nil, resp)
	return resp.Count, err
}

func (cli *JSONRPCClient) GetItem(ctx context.Context, id uint64) (*todolist.Item, error) {
	resp := new(GetItemReply)
	err := cli.send(ctx, "getItem", &GetItemArgs{ID: id}, resp)
	return resp.Item, err
}

func (cli *JSONRPCClient) GetCounter(ctx context.Context) (int64, error) {
	resp := new(CounterReply)
	err := cli.send(ctx, "getCounter", nil, resp)
	return resp.Value, err
}

func (cli *JSONRPCClient) IncrementCounter(ctx context.Context) (int64, error) {
	resp := new(CounterReply)
	err := cli.send(ctx, "incrementCounter", nil, resp)
	return resp.Value, err
}

func (cli *JSONRPCClient) DecrementCounter(ctx context.Context) (int64, error) {
	resp := new(CounterReply)
	err := cli.send(ctx, "decrementCounter", nil, resp)
	return resp.Value, err
}
