// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

const (
	readBufferSize      = units.KiB
	writeBufferSize     = units.KiB
	writeWait           = 10 * time.Second
	pongWait            = 60 * time.Second
	pingPeriod          = (pongWait * 9) / 10
	maxReadMessageSize  = units.KiB // bytes
	maxWriteMessageSize = 64 * units.KiB
	maxPendingMessages  = 1024
)
