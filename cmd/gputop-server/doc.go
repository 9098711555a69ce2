// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// gputop-server exposes Intel GPU performance counters to a browser UI.
//
// The server listens on a loopback address (127.0.0.1:7890 by default)
// and accepts one websocket connection at a time on /gputop. The UI
// asks for the device's features, then opens OA counter streams, each
// identified by a client-chosen id and configured with a metric set and
// sampling period. Every 200ms the server forwards whatever samples
// have accumulated in each stream's kernel ring buffer as a binary
// frame tagged with the stream id, and sends recent log lines as a
// control message.
//
// Configuration comes from a YAML file named by --config or
// GPUTOP_CONFIG, with built-in defaults otherwise; a few flags override
// file values. Prometheus metrics are served at /metrics.
//
// With counters.source set to "simulated" (or --source simulated), the
// server generates synthetic OA reports instead of opening perf
// streams, so the UI can be developed on machines without i915 perf
// support.
package main
