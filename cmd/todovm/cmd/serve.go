// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/todovm/config"
	"github.com/ava-labs/todovm/counter"
	"github.com/ava-labs/todovm/event"
	"github.com/ava-labs/todovm/pebble"
	"github.com/ava-labs/todovm/pubsub"
	"github.com/ava-labs/todovm/rpc"
	"github.com/ava-labs/todovm/server"
	"github.com/ava-labs/todovm/todolist"
	"github.com/ava-labs/todovm/utils"
)

const metricsEndpoint = "metrics"

func newServeCmd(r *rootCmd) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the todo list and counter over JSON-RPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var b []byte
			if len(configPath) > 0 {
				var err error
				b, err = os.ReadFile(configPath)
				if err != nil {
					return err
				}
			}
			cfg, err := config.New(b)
			if err != nil {
				return err
			}
			log, err := r.logger("serve", cfg.LogLevel, cfg.LogDisplayLevel, cfg.LogDir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, log, cfg, nil)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "JSON config file")
	return cmd
}

// serve runs until [ctx] is done. When [ready] is not nil it receives the
// listening address once every route is mounted.
func serve(ctx context.Context, log logging.Logger, cfg *config.Config, ready chan<- net.Addr) error {
	dbDir, err := utils.InitSubDirectory(filepath.Dir(cfg.DatabaseDir), filepath.Base(cfg.DatabaseDir))
	if err != nil {
		return err
	}
	db, dbRegistry, err := pebble.New(dbDir, cfg.Pebble)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	ps, err := pubsub.New(log, cfg.PubSub, registry)
	if err != nil {
		return err
	}
	subs, err := event.NewSubscriptions[*todolist.Event](
		&pubsub.SubscriptionFactory[*todolist.Event]{Server: ps},
	)
	if err != nil {
		return err
	}
	todos, err := todolist.New(log, db, cfg.TodoList, registry, subs...)
	if err != nil {
		return errors.Join(err, event.CloseAll(subs...))
	}
	ctr := counter.New(log, db)
	if cfg.InitialCounter != nil {
		if err := ctr.Initialize(ctx, *cfg.InitialCounter); err != nil {
			return err
		}
	}
	handler, err := rpc.NewJSONRPCHandler(rpc.NewJSONRPCServer(log, todos, ctr))
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return err
	}
	srv := server.New(cfg.BaseURL, log, listener, cfg.HTTP, cfg.AllowedOrigins, cfg.ShutdownTimeout)
	gatherer := prometheus.Gatherers{dbRegistry, registry}
	for _, route := range []struct {
		handler  http.Handler
		base     string
		endpoint string
	}{
		{handler, rpc.Name, rpc.JSONRPCEndpoint},
		{ps, rpc.Name, rpc.EventsEndpoint},
		{promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), metricsEndpoint, ""},
	} {
		if err := srv.AddRoute(route.handler, route.base, route.endpoint); err != nil {
			_ = listener.Close()
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := todos.Close(); err != nil {
			log.Warn("failed to close event subscriptions", zap.Error(err))
		}
		if err := ps.Shutdown(shutdownCtx); err != nil {
			log.Warn("failed to close websocket connections", zap.Error(err))
		}
		return srv.Shutdown()
	})
	if ready != nil {
		ready <- srv.Addr()
	}
	return g.Wait()
}
