// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/bureau-foundation/gputop/lib/netutil"
	"github.com/bureau-foundation/gputop/mux"
	"github.com/bureau-foundation/gputop/session"
)

// ErrClosed completes frames that were queued on, or still pending
// in, a closed connection.
var ErrClosed = errors.New("transport: connection closed")

// maxRequestSize bounds one inbound control message. Requests are a
// few dozen bytes of CBOR.
const maxRequestSize = 64 * 1024

var _ session.Conn = (*WebSocketConn)(nil)

// WebSocketConn adapts an accepted websocket to [session.Conn]. A
// writer goroutine sends queued frames one websocket message each, in
// queue order, streaming every frame through a message writer so a
// sample frame is never copied into a contiguous buffer.
type WebSocketConn struct {
	conn   *websocket.Conn
	logger *slog.Logger

	// ctx is cancelled by Close and aborts an in-progress write.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending []*mux.Frame
	closed  bool
	wake    chan struct{}

	done chan struct{}
}

// NewWebSocketConn starts the writer goroutine for conn. The caller
// hands the result to a session and calls Close when it is finished;
// Done is closed once the websocket has been shut down.
func NewWebSocketConn(conn *websocket.Conn, logger *slog.Logger) *WebSocketConn {
	conn.SetReadLimit(maxRequestSize)
	ctx, cancel := context.WithCancel(context.Background())
	c := &WebSocketConn{
		conn:   conn,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// Queue appends frame to the outbound queue. Never blocks.
func (c *WebSocketConn) Queue(frame *mux.Frame) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		// Completion may post back to the goroutine calling Queue.
		go frame.Complete(ErrClosed)
		return
	}
	c.pending = append(c.pending, frame)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Receive returns the next binary message. Text messages are skipped.
func (c *WebSocketConn) Receive(ctx context.Context) ([]byte, error) {
	for {
		kind, data, err := c.conn.Read(ctx)
		if err != nil {
			return nil, err
		}
		if kind == websocket.MessageBinary {
			return data, nil
		}
		c.logger.Debug("ignoring text message from UI", "length", len(data))
	}
}

// Close stops the writer. The frame being written, if any, and every
// frame still queued complete with an error. Safe to call more than
// once and from any goroutine.
func (c *WebSocketConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	abandoned := c.pending
	c.pending = nil
	c.mu.Unlock()

	c.cancel()
	if len(abandoned) > 0 {
		go func() {
			for _, frame := range abandoned {
				frame.Complete(ErrClosed)
			}
		}()
	}
	return nil
}

// Done is closed after Close once the websocket is fully shut down.
func (c *WebSocketConn) Done() <-chan struct{} { return c.done }

func (c *WebSocketConn) writeLoop() {
	defer close(c.done)
	defer c.shutdown()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.wake:
		}

		for {
			frame := c.next()
			if frame == nil {
				break
			}
			err := c.writeFrame(frame)
			frame.Complete(err)
			if err != nil {
				if !netutil.IsExpectedCloseError(err) {
					c.logger.Warn("websocket write failed", "kind", frame.Kind(), "stream_id", frame.StreamID(), "error", err)
				}
				c.Close()
				return
			}
		}
	}
}

// next pops the oldest queued frame, or returns nil when the queue is
// empty or the connection is closed.
func (c *WebSocketConn) next() *mux.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.pending) == 0 {
		return nil
	}
	frame := c.pending[0]
	c.pending[0] = nil
	c.pending = c.pending[1:]
	return frame
}

func (c *WebSocketConn) writeFrame(frame *mux.Frame) error {
	writer, err := c.conn.Writer(c.ctx, websocket.MessageBinary)
	if err != nil {
		return fmt.Errorf("opening message writer: %w", err)
	}
	if _, err := io.Copy(writer, frame); err != nil {
		writer.Close()
		return fmt.Errorf("writing %s frame: %w", frame.Kind(), err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finishing %s frame: %w", frame.Kind(), err)
	}
	return nil
}

// shutdown runs the close handshake, or drops the connection if a
// write was aborted mid-message.
func (c *WebSocketConn) shutdown() {
	err := c.conn.Close(websocket.StatusNormalClosure, "")
	if err != nil && !netutil.IsExpectedCloseError(err) {
		c.logger.Debug("websocket close handshake failed", "error", err)
		c.conn.CloseNow()
	}
}
