// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the wire format between gputop-server and
// its UI.
//
// Every outbound websocket message is one frame: an 8-byte header
// followed by a payload.
//
//	byte 0     kind (1 = sample, 2 = control)
//	bytes 1-4  stream id, little-endian uint32 (zero for control)
//	bytes 5-7  zero
//
// A UI that reads only byte 1 as the stream id sees the right value for
// ids below 256.
//
// Sample payloads are raw bytes from a counter stream's ring, in the
// counter subsystem's record format; this package does not interpret
// them. Control payloads are CBOR-encoded [Message] values. Inbound
// websocket messages carry a bare CBOR [Request] with no header.
//
// Requests and messages are unions encoded as CBOR maps with exactly
// one member set:
//
//	{"open_query": {"id": 3, "oa_query": {"metric_set": 0, "period_exponent": 16}}}
//	{"close_notify": {"id": 3}}
//
// [DecodeRequest] rejects anything else with a [*DecodeError]; the
// server drops such requests and keeps the connection open.
package protocol
