// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session runs the gputop control loop for one UI connection.
//
// A [Server] is built once at startup and owns everything that
// outlives a connection: counter access, the device descriptor,
// metrics and the log batch. [Server.Serve] runs a [Session] per
// connection, one at a time.
//
// A Session is a single event-loop goroutine. Inbound requests,
// frame completions and ticks all run on it, so the [Registry] needs
// no locks. The loop:
//
//   - decodes requests and dispatches GetFeatures, OpenQuery and
//     CloseQuery; malformed requests are dropped
//   - on each tick (armed when the first stream opens) makes one
//     flush attempt per active stream, queueing a sample frame when
//     the mux's sample permit is free, then forwards pending log
//     entries
//   - on disconnect moves every stream to draining and exits once
//     the last in-flight frame has completed
//
// Streams are reference counted: one reference for active-set
// membership, one per in-flight frame. A closed stream stays mapped
// until its count reaches zero; then its counters are closed and the
// UI receives CloseNotify.
package session
