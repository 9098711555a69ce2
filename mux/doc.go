// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mux frames outbound traffic for one UI connection.
//
// Each [Frame] is an io.Reader over header plus payload that the
// transport's writer drains as the socket accepts data, so sample
// payloads are copied straight from the counter ring into the
// websocket without staging the whole snapshot.
//
// The [Multiplexer] holds the single sample permit: while a sample
// frame is in flight every further [Multiplexer.TryQueueSample] fails
// and the caller drops that flush attempt. Samples stay in the ring
// (or are overwritten by the producer) until a later tick succeeds,
// which bounds server-side buffering to one snapshot regardless of
// the sampling rate.
package mux
