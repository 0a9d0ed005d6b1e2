// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
)

var contentTypes = []string{
	"application/json",
	"application/json;charset=UTF-8",
}

// NewJSONRPCHandler serves [server] under the [Name] namespace. Request
// bodies larger than [MaxRequestSize] fail to decode and are rejected
// before reaching the store.
func NewJSONRPCHandler(server *JSONRPCServer) (http.Handler, error) {
	handler := rpc.NewServer()
	codec := json.NewCodec()
	for _, contentType := range contentTypes {
		handler.RegisterCodec(codec, contentType)
	}
	if err := handler.RegisterService(server, Name); err != nil {
		return nil, err
	}
	return http.MaxBytesHandler(handler, MaxRequestSize), nil
}
