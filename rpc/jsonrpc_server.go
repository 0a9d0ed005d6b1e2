// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/todovm/codec"
	"github.com/ava-labs/todovm/counter"
	"github.com/ava-labs/todovm/todolist"
)

// JSONRPCServer exposes the todo list and the counter. Callers identify
// themselves with the [actor] argument, either a 0x-prefixed address or a
// name.
type JSONRPCServer struct {
	log     logging.Logger
	todos   *todolist.TodoList
	counter *counter.Counter
}

func NewJSONRPCServer(log logging.Logger, todos *todolist.TodoList, counter *counter.Counter) *JSONRPCServer {
	return &JSONRPCServer{
		log:     log,
		todos:   todos,
		counter: counter,
	}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type CreateTodoArgs struct {
	Actor    string            `json:"actor"`
	Name     string            `json:"name"`
	Priority todolist.Priority `json:"priority"`
}

type CreateTodoReply struct {
	ID uint64 `json:"id"`
}

func (j *JSONRPCServer) CreateTodo(req *http.Request, args *CreateTodoArgs, reply *CreateTodoReply) error {
	actor, err := parseActor(args.Actor)
	if err != nil {
		return err
	}
	id, err := j.todos.CreateTodo(req.Context(), actor, args.Name, args.Priority)
	if err != nil {
		return err
	}
	reply.ID = id
	return nil
}

type UpdateItemArgs struct {
	Actor string `json:"actor"`
	ID    uint64 `json:"id"`
}

type UpdateItemReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) UpdateItem(req *http.Request, args *UpdateItemArgs, reply *UpdateItemReply) error {
	actor, err := parseActor(args.Actor)
	if err != nil {
		return err
	}
	if err := j.todos.UpdateItem(req.Context(), actor, args.ID); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type GetMyTodoArgs struct {
	Owner string `json:"owner"`
}

type GetMyTodoReply struct {
	Items []*todolist.Item `json:"items"`
}

func (j *JSONRPCServer) GetMyTodo(req *http.Request, args *GetMyTodoArgs, reply *GetMyTodoReply) error {
	owner, err := parseActor(args.Owner)
	if err != nil {
		return err
	}
	items, err := j.todos.GetMyTodo(req.Context(), owner)
	if err != nil {
		return err
	}
	reply.Items = items
	return nil
}

type GetAllTodoReply struct {
	Count uint64 `json:"count"`
}

func (j *JSONRPCServer) GetAllTodo(req *http.Request, _ *struct{}, reply *GetAllTodoReply) error {
	count, err := j.todos.GetAllTodo(req.Context())
	if err != nil {
		return err
	}
	reply.Count = count
	return nil
}

type GetItemArgs struct {
	ID uint64 `json:"id"`
}

type GetItemReply struct {
	Item *todolist.Item `json:"item"`
}

func (j *JSONRPCServer) GetItem(req *http.Request, args *GetItemArgs, reply *GetItemReply) error {
	item, err := j.todos.GetItem(req.Context(), args.ID)
	if err != nil {
		return err
	}
	reply.Item = item
	return nil
}

type CounterReply struct {
	Value int64 `json:"value"`
}

func (j *JSONRPCServer) GetCounter(req *http.Request, _ *struct{}, reply *CounterReply) error {
	v, err := j.counter.Get(req.Context())
	if err != nil {
		return err
	}
	reply.Value = v
	return nil
}

func (j *JSONRPCServer) IncrementCounter(req *http.Request, _ *struct{}, reply *CounterReply) error {
	v, err := j.counter.Increment(req.Context())
	if err != nil {
		return err
	}
	reply.Value = v
	return nil
}

func (j *JSONRPCServer) DecrementCounter(req *http.Request, _ *struct{}, reply *CounterReply) error {
	v, err := j.counter.Decrement(req.Context())
	if err != nil {
		return err
	}
	reply.Value = v
	return nil
}

func parseActor(s string) (codec.Address, error) {
	if len(s) == 0 {
		return codec.EmptyAddress, todolist.ErrInvalidOwner
	}
	return codec.ParseAddress(s)
}
