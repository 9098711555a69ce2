// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/bureau-foundation/gputop/lib/clock"
	"github.com/bureau-foundation/gputop/lib/netutil"
	"github.com/bureau-foundation/gputop/mux"
	"github.com/bureau-foundation/gputop/protocol"
)

// eventQueueDepth bounds closures posted to the loop before posters
// block.
const eventQueueDepth = 64

// Session is one UI connection. Its event loop goroutine owns the
// registry, the multiplexer and the ticker; the reader goroutine and
// the transport's writer only post closures to it.
type Session struct {
	id      string
	server  *Server
	conn    Conn
	logger  *slog.Logger
	metrics *Metrics

	registry    *Registry
	multiplexer *mux.Multiplexer

	events  chan func()
	stopped chan struct{}

	ticker *clock.Ticker
	cursor int

	disconnected bool
	throttleLog  rate.Sometimes
}

func newSession(server *Server, conn Conn, id string) *Session {
	s := &Session{
		id:          id,
		server:      server,
		conn:        conn,
		logger:      server.config.Logger.With("session", id),
		metrics:     server.config.Metrics,
		events:      make(chan func(), eventQueueDepth),
		stopped:     make(chan struct{}),
		throttleLog: rate.Sometimes{Interval: 5 * time.Second},
	}
	s.registry = NewRegistry(s.destroyStream)
	s.multiplexer = mux.New(conn, s.post)
	return s
}

// ID returns the session's identifier, used in log lines.
func (s *Session) ID() string { return s.id }

// post runs function on the event loop. Dropped once the loop has
// exited.
func (s *Session) post(function func()) {
	select {
	case s.events <- function:
	case <-s.stopped:
	}
}

// run is the event loop. It returns once the connection has ended and
// every draining stream has been destroyed.
func (s *Session) run(ctx context.Context) error {
	s.logger.Info("UI connected")

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		s.readLoop(ctx)
	}()

	var result error
	done := ctx.Done()
	for !s.disconnected || s.registry.Draining() > 0 {
		select {
		case <-done:
			done = nil
			result = ctx.Err()
			s.disconnect(result)
		case function := <-s.events:
			function()
		case <-s.tickChannel():
			s.tick()
		}
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.conn.Close()
	close(s.stopped)
	<-readDone
	s.logger.Info("UI session ended")
	return result
}

// readLoop delivers inbound messages to the event loop until the
// connection fails.
func (s *Session) readLoop(ctx context.Context) {
	for {
		data, err := s.conn.Receive(ctx)
		if err != nil {
			s.post(func() { s.disconnect(err) })
			return
		}
		s.post(func() { s.handleMessage(data) })
	}
}

// disconnect drains every stream and closes the connection so queued
// frames complete. Idempotent.
func (s *Session) disconnect(cause error) {
	if s.disconnected {
		return
	}
	s.disconnected = true
	if cause == nil || netutil.IsExpectedCloseError(cause) {
		s.logger.Info("UI disconnected", "streams", s.registry.Len())
	} else {
		s.logger.Warn("UI connection failed", "error", cause, "streams", s.registry.Len())
	}
	s.registry.CloseAll()
	s.updateGauges()
	s.conn.Close()
}

// tickChannel returns the ticker's channel, or nil before the first
// stream is opened.
func (s *Session) tickChannel() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C
}

// armTicker starts the flush ticker the first time a stream opens. It
// then runs for the rest of the session.
func (s *Session) armTicker() {
	if s.ticker != nil {
		return
	}
	s.ticker = s.server.config.Clock.NewTicker(s.server.config.TickInterval)
}

// send encodes and queues a control message.
func (s *Session) send(message protocol.Message) {
	data, err := protocol.EncodeMessage(message)
	if err != nil {
		s.logger.Error("encoding control message failed", "kind", message.Kind(), "error", err)
		return
	}
	s.metrics.ControlFrames.WithLabelValues(message.Kind()).Inc()
	s.multiplexer.QueueControl(data, nil)
}

// destroyStream is the registry's destroy hook: the stream's last
// frame has completed, so its ring can be unmapped and the UI told the
// id is free.
func (s *Session) destroyStream(stream *Stream) {
	if err := stream.Counters.Close(); err != nil {
		s.logger.Warn("closing counter stream failed", "stream_id", stream.ID, "error", err)
	}
	s.updateGauges()
	s.logger.Info("stream closed", "stream_id", stream.ID)
	if s.disconnected {
		return
	}
	s.send(protocol.Message{CloseNotify: &protocol.CloseNotify{ID: stream.ID}})
}

func (s *Session) updateGauges() {
	s.metrics.ActiveStreams.Set(float64(s.registry.Len()))
	s.metrics.DrainingStreams.Set(float64(s.registry.Draining()))
}
