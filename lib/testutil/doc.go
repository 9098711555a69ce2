// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for gputop packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout pattern so tests never block forever on a
// channel. [Eventually] polls a condition owned by another goroutine,
// for state with no channel to wait on (ring occupancy, registry size).
// These are the only place in the test suite where real wall-clock
// timeouts are used; everything else drives lib/clock's fake.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no gputop-internal dependencies.
package testutil
