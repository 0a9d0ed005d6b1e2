// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/todovm/rpc"
	"github.com/ava-labs/todovm/todolist"
	"github.com/ava-labs/todovm/utils"
)

type remoteFlags struct {
	endpoint string
	actor    string
}

func (f *remoteFlags) client() *rpc.JSONRPCClient {
	return rpc.NewJSONRPCClient(f.endpoint)
}

func newTodoCmd() *cobra.Command {
	f := &remoteFlags{}
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Call the todo list of a running server",
	}
	cmd.PersistentFlags().StringVar(&f.endpoint, "endpoint", defaultEndpoint, "service URI")
	cmd.PersistentFlags().StringVar(&f.actor, "actor", "", "caller name or 0x-prefixed address")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [name] [priority]",
			Short: "Create an item owned by the actor",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				priority, err := todolist.ParsePriority(args[1])
				if err != nil {
					return err
				}
				id, err := f.client().CreateTodo(cmd.Context(), f.actor, args[0], priority)
				if err != nil {
					return err
				}
				utils.Foutf(cmd.OutOrStdout(), "{{green}}created item:{{/}} %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "update [id]",
			Short: "Mark an item owned by the actor completed",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				if err := f.client().UpdateItem(cmd.Context(), f.actor, id); err != nil {
					return err
				}
				utils.Foutf(cmd.OutOrStdout(), "{{green}}completed item:{{/}} %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list [owner]",
			Short: "List the items of an owner, defaulting to the actor",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner := f.actor
				if len(args) == 1 {
					owner = args[0]
				}
				items, err := f.client().GetMyTodo(cmd.Context(), owner)
				if err != nil {
					return err
				}
				for _, item := range items {
					printItem(cmd, item)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "count",
			Short: "Count every item",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				count, err := f.client().GetAllTodo(cmd.Context())
				if err != nil {
					return err
				}
				utils.Foutf(cmd.OutOrStdout(), "{{yellow}}items:{{/}} %d\n", count)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get [id]",
			Short: "Show a single item",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				item, err := f.client().GetItem(cmd.Context(), id)
				if err != nil {
					return err
				}
				printItem(cmd, item)
				return nil
			},
		},
	)
	return cmd
}

func printItem(cmd *cobra.Command, item *todolist.Item) {
	status := "{{red}}open{{/}}"
	if item.Completed {
		status = "{{green}}done{{/}}"
	}
	utils.Foutf(
		cmd.OutOrStdout(),
		"{{cyan}}%d{{/}} "+status+" %s priority=%s owner=%s\n",
		item.ID,
		item.Name,
		item.Priority,
		item.Owner,
	)
}
