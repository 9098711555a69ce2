// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is the injectable time source for the server's
// periodic work.
//
// Code that ticks takes a Clock instead of calling time.NewTicker:
//
//	ticker := s.clock.NewTicker(200 * time.Millisecond)
//
// Tests pass a FakeClock and drive it explicitly:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	// ... start the loop under test ...
//	fake.WaitForTimers(1)                 // the loop has armed its ticker
//	fake.Advance(200 * time.Millisecond) // exactly one tick
//
// WaitForTimers closes the race between a goroutine registering its
// ticker and the test advancing time.
package clock
