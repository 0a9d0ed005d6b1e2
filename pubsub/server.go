// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/todovm/event"
)

var (
	ErrMessageTooLarge    = errors.New("message too large")
	ErrSubscriptionClosed = errors.New("subscription closed")
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `json:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `json:"pongWait"`
	// Send pings to peer with this period. Must be less than pongWait.
	PingPeriod time.Duration `json:"pingPeriod"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int `json:"maxReadMessageSize"`
	// Maximum size in bytes of a published message.
	MaxWriteMessageSize int `json:"maxWriteMessageSize"`
	// Maximum number of pending messages to send to a peer.
	MaxPendingMessages int `json:"maxPendingMessages"`
}

func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadBufferSize:      readBufferSize,
		WriteBufferSize:     writeBufferSize,
		WriteWait:           writeWait,
		PongWait:            pongWait,
		PingPeriod:          pingPeriod,
		MaxReadMessageSize:  maxReadMessageSize,
		MaxWriteMessageSize: maxWriteMessageSize,
		MaxPendingMessages:  maxPendingMessages,
	}
}

// Server maintains the set of active clients and broadcasts messages to
// them. It is an [http.Handler]; mount it on a router and connect with
// websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   ServerConfig
	upgrader websocket.Upgrader
	conns    *Connections

	connections prometheus.Gauge
	published   prometheus.Counter
	dropped     prometheus.Counter
}

func New(log logging.Logger, config ServerConfig, reg prometheus.Registerer) (*Server, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns: NewConnections(),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pubsub",
			Name:      "connections",
			Help:      "number of connected peers",
		}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pubsub",
			Name:      "published",
			Help:      "number of messages queued to peers",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pubsub",
			Name:      "dropped",
			Help:      "number of messages dropped for slow peers",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		reg.Register(s.connections),
		reg.Register(s.published),
		reg.Register(s.dropped),
	)
	return s, errs.Err
}

// ServeHTTP upgrades the request and starts the read and write pumps for
// the new connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:      s,
		conn:   wsConn,
		send:   make(chan []byte, s.config.MaxPendingMessages),
		active: true,
	}
	s.conns.Add(conn)
	s.connections.Inc()
	s.log.Debug("websocket connection added",
		zap.String("remote", r.RemoteAddr),
		zap.Int("connections", s.conns.Len()),
	)

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every connected peer.
func (s *Server) Publish(msg []byte) error {
	if len(msg) > s.config.MaxWriteMessageSize {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(msg), s.config.MaxWriteMessageSize)
	}
	for _, conn := range s.conns.Conns() {
		if !conn.Send(msg) {
			s.dropped.Inc()
			s.log.Verbo("dropping message to connection due to too many pending messages")
			continue
		}
		s.published.Inc()
	}
	return nil
}

// Connections returns the number of connected peers.
func (s *Server) Connections() int {
	return s.conns.Len()
}

func (s *Server) removeConnection(conn *Connection) {
	if s.conns.Remove(conn) {
		s.connections.Dec()
		s.log.Debug("websocket connection removed",
			zap.Int("connections", s.conns.Len()),
		)
	}
}

// Shutdown asks every peer to close and waits until they are gone or [ctx]
// is done. Hijacked websocket connections are not closed by
// [http.Server.Shutdown].
func (s *Server) Shutdown(ctx context.Context) error {
	for _, conn := range s.conns.Conns() {
		conn.deactivate()
	}
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for s.conns.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

var (
	_ event.Subscription[struct{}]        = (*Subscription[struct{}])(nil)
	_ event.SubscriptionFactory[struct{}] = (*SubscriptionFactory[struct{}])(nil)
)

// SubscriptionFactory builds subscriptions that publish to [Server].
type SubscriptionFactory[T any] struct {
	Server *Server
}

func (f *SubscriptionFactory[T]) New() (event.Subscription[T], error) {
	return NewSubscription[T](f.Server), nil
}

// Subscription publishes every accepted value as a JSON text frame until it
// is closed.
type Subscription[T any] struct {
	s      *Server
	closed atomic.Bool
}

func NewSubscription[T any](s *Server) *Subscription[T] {
	return &Subscription[T]{s: s}
}

func (sub *Subscription[T]) Accept(_ context.Context, t T) error {
	if sub.closed.Load() {
		return ErrSubscriptionClosed
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return sub.s.Publish(b)
}

func (sub *Subscription[_]) Close() error {
	sub.closed.Store(true)
	return nil
}
