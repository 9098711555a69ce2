// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/gputop/session"
)

// Subprotocol is echoed back when the UI offers it.
const Subprotocol = "binary"

// HTTPServer serves the UI: the websocket upgrade endpoint, static
// assets and Prometheus metrics. Serve blocks until the context is
// cancelled and the live session, if any, has been torn down.
type HTTPServer struct {
	address     string
	upgradePath string
	webRoot     string
	certFile    string
	keyFile     string
	sessions    *session.Server
	gatherer    prometheus.Gatherer
	logger      *slog.Logger

	// shutdownTimeout is the maximum time to wait for active
	// requests to complete after the context is cancelled.
	shutdownTimeout time.Duration

	// ready is closed after the listener is bound.
	ready chan struct{}

	// addr is the resolved listen address, valid once ready is closed.
	addr net.Addr

	// upgraded counts handlers still running a UI session.
	upgraded sync.WaitGroup
}

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// Address is the TCP listen address, e.g. "127.0.0.1:7890".
	// Required.
	Address string

	// UpgradePath is where the UI opens its websocket. Defaults to
	// "/gputop".
	UpgradePath string

	// WebRoot, if set, is a directory served at "/".
	WebRoot string

	// CertFile and KeyFile enable TLS when both are set.
	CertFile string
	KeyFile  string

	// Sessions runs UI connections. Required.
	Sessions *session.Server

	// Gatherer, if set, is exposed at /metrics.
	Gatherer prometheus.Gatherer

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10
	// seconds.
	ShutdownTimeout time.Duration

	// Logger is required.
	Logger *slog.Logger
}

// NewHTTPServer returns a server that will listen on the configured
// address. Call Serve to start accepting connections.
func NewHTTPServer(config HTTPServerConfig) *HTTPServer {
	if config.Address == "" {
		panic("transport.HTTPServer: Address is required")
	}
	if config.Sessions == nil {
		panic("transport.HTTPServer: Sessions is required")
	}
	if config.Logger == nil {
		panic("transport.HTTPServer: Logger is required")
	}
	if config.UpgradePath == "" {
		config.UpgradePath = "/gputop"
	}
	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPServer{
		address:         config.Address,
		upgradePath:     config.UpgradePath,
		webRoot:         config.WebRoot,
		certFile:        config.CertFile,
		keyFile:         config.KeyFile,
		sessions:        config.Sessions,
		gatherer:        config.Gatherer,
		logger:          config.Logger,
		shutdownTimeout: timeout,
		ready:           make(chan struct{}),
	}
}

// Ready returns a channel closed once the server is bound.
func (s *HTTPServer) Ready() <-chan struct{} { return s.ready }

// Addr returns the resolved listen address. Only valid after Ready()
// is closed.
func (s *HTTPServer) Addr() net.Addr { return s.addr }

// Handler returns the server's routes.
func (s *HTTPServer) Handler() http.Handler {
	routes := http.NewServeMux()
	routes.HandleFunc(s.upgradePath, s.handleUpgrade)
	if s.gatherer != nil {
		routes.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.webRoot != "" {
		routes.Handle("/", noStore(http.FileServer(http.Dir(s.webRoot))))
	}
	return routes
}

// noStore stops browsers caching UI assets across server upgrades.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Busy() {
		s.sessions.Metrics().RejectedClients.Inc()
		s.logger.Warn("rejecting UI connection, another client is connected", "remote", r.RemoteAddr)
		http.Error(w, "another UI client is connected", http.StatusConflict)
		return
	}

	// Counted before the connection is hijacked, while Shutdown still
	// tracks it.
	s.upgraded.Add(1)
	defer s.upgraded.Done()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{Subprotocol},
	})
	if err != nil {
		// Accept has already written the HTTP error response.
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	wsConn := NewWebSocketConn(conn, s.logger.With("remote", r.RemoteAddr))
	err = s.sessions.Serve(r.Context(), wsConn)
	wsConn.Close()
	<-wsConn.Done()

	switch {
	case errors.Is(err, session.ErrBusy):
		// Lost the race with another client between Busy and Serve.
		s.logger.Warn("rejecting UI connection, another client is connected", "remote", r.RemoteAddr)
	case err != nil && !errors.Is(err, context.Canceled):
		s.logger.Error("UI session failed", "remote", r.RemoteAddr, "error", err)
	}
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully. Cancelling ctx also ends the live UI session, since
// upgraded connections are not tracked by http.Server.Shutdown.
func (s *HTTPServer) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.address, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	server := &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },

		// UI sessions are long-lived websockets, so only header
		// reads and idle keep-alives are bounded.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tls := s.certFile != "" && s.keyFile != ""
	s.logger.Info("http server listening", "address", s.addr.String(), "tls", tls, "upgrade_path", s.upgradePath)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		if tls {
			err = server.ServeTLS(listener, s.certFile, s.keyFile)
		} else {
			err = server.Serve(listener)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	err = group.Wait()
	s.upgraded.Wait()
	if err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
