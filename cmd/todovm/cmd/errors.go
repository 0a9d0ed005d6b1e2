// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrUnknownMethod       = errors.New("unknown method")
	ErrUnknownOperator     = errors.New("unknown operator")
	ErrUnknownErrorCode    = errors.New("unknown error code")
	ErrAssertionFailed     = errors.New("assertion failed")
)
