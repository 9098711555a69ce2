// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ringbuf consumes a single-producer circular sample buffer
// whose producer lives outside this process: typically the kernel,
// writing perf records into a region this process has mmap'd.
//
// The producer publishes a free-running head offset; the consumer
// publishes a free-running tail offset. Both are 64-bit words in
// shared memory. The data region is a power-of-two number of bytes,
// so a buffer-relative position is always offset & (size-1).
//
// Ordering contract:
//
//   - The head is loaded with acquire semantics before any sample byte
//     is read. A byte written by the producer is therefore never
//     observed ahead of the head value that covers it.
//   - The tail is stored with release semantics after every byte of a
//     transfer has been read. The producer never reclaims space the
//     consumer is still copying out of.
//
// Both are implemented with sync/atomic, which compiles to real
// hardware barriers (LDAR/STLR on arm64, a locked XCHG for the store
// on amd64), not just compiler ordering.
//
// A flush works on a [Snapshot]: the (head, tail) pair captured once.
// [Transfer] walks one snapshot's byte range incrementally, in as many
// [Transfer.Read] calls as the caller needs, and publishes the new
// tail only when the whole range has been copied out. A consumer that
// stalls mid-transfer delays reclamation but never commits a torn
// range.
//
// [Writer] is a producer for tests and the simulated counter source.
package ringbuf
