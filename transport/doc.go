// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport connects browser UIs to a [session.Server].
//
// [HTTPServer] listens on a loopback address (optionally with TLS) and
// routes three things: the websocket upgrade endpoint (default
// "/gputop", echoing the "binary" subprotocol), static UI assets from a
// web root served with Cache-Control: no-store, and Prometheus metrics
// at /metrics. Only one UI may be connected at a time; further upgrade
// attempts get 409 Conflict.
//
// [WebSocketConn] adapts an accepted websocket to [session.Conn]. Each
// queued frame becomes one binary websocket message, written by a
// dedicated goroutine that streams the frame through a message writer.
// Sample frames are therefore copied straight from the counter ring
// into the socket in as many fragments as the writer needs. Closing the
// connection completes the in-progress and pending frames with
// [ErrClosed] so the session can release the rings they reference.
package transport
