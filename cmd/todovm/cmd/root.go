// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"

	"github.com/ava-labs/todovm/consts"
)

const (
	defaultLogDir   = ".todovm/logs"
	logMaxSize      = 8 // megabytes
	logMaxFiles     = 5
	defaultEndpoint = "http://127.0.0.1:9650/ext/" + consts.Name
)

type rootCmd struct {
	logLevel        string
	logDisplayLevel string
	logDir          string
	quiet           bool

	factory *logFactory
}

func NewRootCmd() *cobra.Command {
	r := &rootCmd{}
	cmd := &cobra.Command{
		Use:   consts.Name,
		Short: "Per-owner todo list store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			r.close()
		},
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "file log level (defaults to info)")
	cmd.PersistentFlags().StringVar(&r.logDisplayLevel, "log-display-level", "", "console log level (defaults to info)")
	cmd.PersistentFlags().StringVar(&r.logDir, "log-dir", "", "log directory")
	cmd.PersistentFlags().BoolVar(&r.quiet, "quiet", false, "disable console logging")

	cmd.AddCommand(
		newServeCmd(r),
		newRunCmd(r),
		newTodoCmd(),
		newCounterCmd(),
	)
	return cmd
}

// logger builds the named logger. Flags take precedence over the given
// defaults.
func (r *rootCmd) logger(name string, logLevel, displayLevel logging.Level, logDir string) (logging.Logger, error) {
	var err error
	if len(r.logLevel) > 0 {
		logLevel, err = logging.ToLevel(r.logLevel)
		if err != nil {
			return nil, err
		}
	}
	if len(r.logDisplayLevel) > 0 {
		displayLevel, err = logging.ToLevel(r.logDisplayLevel)
		if err != nil {
			return nil, err
		}
	}
	if len(r.logDir) > 0 {
		logDir = r.logDir
	}

	config := logging.Config{}
	config.LogLevel = logLevel
	config.DisplayLevel = displayLevel
	config.Directory = logDir
	config.MaxSize = logMaxSize
	config.MaxFiles = logMaxFiles
	config.LogFormat = logging.JSON
	config.DisableWriterDisplaying = r.quiet

	if r.factory == nil {
		r.factory = newLogFactory(config)
	}
	return r.factory.Make(name)
}

func (r *rootCmd) close() {
	if r.factory != nil {
		r.factory.Close()
		r.factory = nil
	}
}
