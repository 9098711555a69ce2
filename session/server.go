// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/gputop/lib/clock"
	"github.com/bureau-foundation/gputop/lib/hwinfo"
	"github.com/bureau-foundation/gputop/lib/logbatch"
	"github.com/bureau-foundation/gputop/lib/perf"
	"github.com/bureau-foundation/gputop/mux"
)

// ErrBusy is returned by Serve when another UI client is connected.
var ErrBusy = errors.New("session: another UI client is connected")

// Conn is an upgraded UI connection as the session sees it.
type Conn interface {
	mux.Transport

	// Receive blocks until the next inbound message arrives or the
	// connection ends.
	Receive(ctx context.Context) ([]byte, error)

	// Close ends the connection. Frames queued but not yet written
	// complete with an error. Safe to call more than once.
	Close() error
}

// Config configures a Server.
type Config struct {
	// Opener opens counter streams. Required.
	Opener perf.Opener

	// Device is reported in Features replies.
	Device hwinfo.DeviceInfo

	// Clock drives the flush ticker. Required.
	Clock clock.Clock

	// TickInterval is the period between flush passes. Default 200ms.
	TickInterval time.Duration

	// BufferSize is the ring size in bytes for new streams. Must be a
	// power of two.
	BufferSize int

	// Logs, if set, is drained once per tick into Log messages.
	Logs *logbatch.Batch

	// Metrics records server activity. Defaults to instruments on a
	// private registry.
	Metrics *Metrics

	// Logger is required.
	Logger *slog.Logger
}

// Server is the process-wide gputop context: counter access, device
// descriptor, metrics, and at most one live Session.
type Server struct {
	config Config

	mu     sync.Mutex
	active *Session
}

// NewServer returns a Server. Panics if a required field is missing.
func NewServer(config Config) *Server {
	if config.Opener == nil {
		panic("session: Config.Opener is required")
	}
	if config.Clock == nil {
		panic("session: Config.Clock is required")
	}
	if config.Logger == nil {
		panic("session: Config.Logger is required")
	}
	if config.TickInterval <= 0 {
		config.TickInterval = 200 * time.Millisecond
	}
	if config.Metrics == nil {
		config.Metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &Server{config: config}
}

// Busy reports whether a UI client is connected.
func (s *Server) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// Metrics returns the instruments the server records into.
func (s *Server) Metrics() *Metrics { return s.config.Metrics }

// Serve runs a session over conn until the connection ends or ctx is
// cancelled, then waits for every stream to be torn down. Returns
// ErrBusy without touching conn when another session is live.
func (s *Server) Serve(ctx context.Context, conn Conn) error {
	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		s.config.Metrics.RejectedClients.Inc()
		return ErrBusy
	}
	session := newSession(s, conn, uuid.NewString())
	s.active = session
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.active = nil
		s.mu.Unlock()
	}()

	s.config.Metrics.Sessions.Inc()
	return session.run(ctx)
}
