// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"github.com/ava-labs/avalanchego/utils/units"

	"github.com/ava-labs/todovm/consts"
)

const (
	Name            = consts.Name
	JSONRPCEndpoint = "/rpc"
	EventsEndpoint  = "/events"

	// MaxRequestSize bounds a JSON-RPC request body. It leaves room for the
	// largest name storage accepts once JSON escaping is applied.
	MaxRequestSize = 8 * units.MiB
)
