// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package perf opens hardware counter streams and exposes each one as
// a [ringbuf.Reader] over the memory the counter subsystem writes
// samples into.
//
// Two [Opener] implementations exist:
//
//   - [OAOpener] opens an i915 observation-architecture stream through
//     perf_event_open(2) on the i915_oa PMU and maps its sample ring
//     (one header page followed by a power-of-two data region). No cgo
//     is required: the syscall, mmap and ioctl calls go through
//     golang.org/x/sys/unix with struct layouts from the kernel UAPI.
//   - [Simulated] allocates the ring in process memory and, optionally,
//     feeds it synthetic OA-shaped records. Tests use it to play the
//     producer directly; the server uses it on machines without i915
//     perf support.
//
// Every failure to open is reported as an [*OpenError] carrying a
// [Reason] and a diagnostic string. Callers do not retry.
package perf
