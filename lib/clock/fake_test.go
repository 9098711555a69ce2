// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNowAdvances(t *testing.T) {
	t.Parallel()
	clock := Fake(epoch)
	clock.Advance(3 * time.Second)
	if got := clock.Now(); !got.Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("Now = %v, want %v", got, epoch.Add(3*time.Second))
	}
}

func TestFakeClockAfter(t *testing.T) {
	t.Parallel()
	clock := Fake(epoch)
	channel := clock.After(time.Second)

	clock.Advance(500 * time.Millisecond)
	select {
	case <-channel:
		t.Fatal("After fired early")
	default:
	}

	clock.Advance(500 * time.Millisecond)
	select {
	case <-channel:
	default:
		t.Fatal("After did not fire at its deadline")
	}
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount = %d after one-shot fired, want 0", clock.PendingCount())
	}
}

func TestFakeClockAfterNonPositive(t *testing.T) {
	t.Parallel()
	clock := Fake(epoch)
	select {
	case <-clock.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeClockTicker(t *testing.T) {
	t.Parallel()
	clock := Fake(epoch)
	ticker := clock.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; i < 3; i++ {
		clock.Advance(200 * time.Millisecond)
		select {
		case <-ticker.C:
		default:
			t.Fatalf("tick %d missing", i)
		}
	}
}

func TestFakeClockTickerDropsOverflow(t *testing.T) {
	t.Parallel()
	clock := Fake(epoch)
	ticker := clock.NewTicker(100 * time.Millisecond)

	clock.Advance(time.Second)
	<-ticker.C
	select {
	case <-ticker.C:
		t.Fatal("ticker buffered more than one tick")
	default:
	}
}

func TestFakeClockTickerStop(t *testing.T) {
	t.Parallel()
	clock := Fake(epoch)
	ticker := clock.NewTicker(100 * time.Millisecond)
	ticker.Stop()

	clock.Advance(time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount = %d, want 0", clock.PendingCount())
	}
}

func TestFakeClockTickerPanicsOnNonPositive(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("NewTicker(0) did not panic")
		}
	}()
	Fake(epoch).NewTicker(0)
}

func TestFakeClockWaitForTimers(t *testing.T) {
	t.Parallel()
	clock := Fake(epoch)
	registered := make(chan *Ticker)
	go func() {
		registered <- clock.NewTicker(time.Second)
	}()

	clock.WaitForTimers(1)
	ticker := <-registered
	clock.Advance(time.Second)
	<-ticker.C
}

func TestClocksImplementClock(t *testing.T) {
	t.Parallel()
	var _ Clock = Fake(epoch)
	var _ Clock = Real()
}
