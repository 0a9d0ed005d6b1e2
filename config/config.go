// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/todovm/pebble"
	"github.com/ava-labs/todovm/pubsub"
	"github.com/ava-labs/todovm/server"
	"github.com/ava-labs/todovm/todolist"
)

const (
	defaultHTTPHost          = "127.0.0.1"
	defaultHTTPPort          = 9650
	defaultBaseURL           = "/ext"
	defaultDatabaseDir       = ".todovm/db"
	defaultLogDir            = ".todovm/logs"
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 30 * time.Second
	defaultIdleTimeout       = 2 * time.Minute
)

var ErrInvalidConfigFormat = errors.New("invalid config format")

type Config struct {
	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDir          string        `json:"logDir"`

	// API
	HTTPHost        string            `json:"httpHost"`
	HTTPPort        uint16            `json:"httpPort"`
	BaseURL         string            `json:"baseURL"`
	AllowedOrigins  []string          `json:"allowedOrigins"`
	ShutdownTimeout time.Duration     `json:"shutdownTimeout"`
	HTTP            server.HTTPConfig `json:"http"`

	// Storage
	DatabaseDir string        `json:"databaseDir"`
	Pebble      pebble.Config `json:"pebble"`

	// Domain
	TodoList todolist.Config     `json:"todoList"`
	PubSub   pubsub.ServerConfig `json:"pubsub"`
	// InitialCounter, when set, overwrites the counter at startup.
	InitialCounter *int64 `json:"initialCounter"`
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("%w: failed to unmarshal config %s: %w", ErrInvalidConfigFormat, string(b), err)
		}
	}
	if err := c.TodoList.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.LogDisplayLevel = logging.Info
	c.LogDir = defaultLogDir
	c.HTTPHost = defaultHTTPHost
	c.HTTPPort = defaultHTTPPort
	c.BaseURL = defaultBaseURL
	c.AllowedOrigins = []string{"*"}
	c.ShutdownTimeout = defaultShutdownTimeout
	c.HTTP = server.HTTPConfig{
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}
	c.DatabaseDir = defaultDatabaseDir
	c.Pebble = pebble.NewDefaultConfig()
	c.TodoList = todolist.NewDefaultConfig()
	c.PubSub = pubsub.NewDefaultServerConfig()
}

// Address is the host:port the API listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(int(c.HTTPPort)))
}
