// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ava-labs/todovm/rpc"
	"github.com/ava-labs/todovm/utils"
)

func newCounterCmd() *cobra.Command {
	f := &remoteFlags{}
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Call the counter of a running server",
	}
	cmd.PersistentFlags().StringVar(&f.endpoint, "endpoint", defaultEndpoint, "service URI")

	for _, sub := range []struct {
		use   string
		short string
		call  func(*rpc.JSONRPCClient, context.Context) (int64, error)
	}{
		{"get", "Show the counter", (*rpc.JSONRPCClient).GetCounter},
		{"inc", "Increment the counter", (*rpc.JSONRPCClient).IncrementCounter},
		{"dec", "Decrement the counter", (*rpc.JSONRPCClient).DecrementCounter},
	} {
		call := sub.call
		cmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				v, err := call(f.client(), cmd.Context())
				if err != nil {
					return err
				}
				utils.Foutf(cmd.OutOrStdout(), "{{yellow}}counter:{{/}} %d\n", v)
				return nil
			},
		})
	}
	return cmd
}
