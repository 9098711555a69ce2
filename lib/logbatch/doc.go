// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logbatch accumulates log records for forwarding to the UI.
//
// The server tees its slog output: every record still goes to the
// stderr JSON handler, and records at or above the forwarding level
// are also flattened into [Entry] values in a bounded [Batch]. The
// flush scheduler drains the batch once per tick and sends the entries
// as one Log control message.
//
//	batch := logbatch.New(256)
//	logger := slog.New(logbatch.Fanout{
//		slog.NewJSONHandler(os.Stderr, nil),
//		logbatch.NewHandler(batch, slog.LevelInfo),
//	})
//
// When more entries arrive between drains than the batch holds, the
// oldest are dropped and counted.
package logbatch
