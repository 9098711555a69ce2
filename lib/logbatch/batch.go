// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logbatch

import (
	"fmt"
	"log/slog"
	"sync"
)

// Entry is one forwarded log line.
type Entry struct {
	Level   slog.Level
	Message string
}

// Batch is a bounded FIFO of entries. When full, Add evicts the
// oldest entry and increments the dropped count.
//
// Thread-safe: loggers on any goroutine may Add while the scheduler
// drains.
type Batch struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	dropped  uint64
}

// New creates a Batch holding at most capacity entries. The capacity
// must be positive.
func New(capacity int) *Batch {
	if capacity <= 0 {
		panic(fmt.Sprintf("logbatch: capacity must be positive, got %d", capacity))
	}
	return &Batch{capacity: capacity}
}

// Add appends an entry, evicting the oldest if the batch is full.
func (b *Batch) Add(entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == b.capacity {
		b.entries[0] = Entry{}
		b.entries = b.entries[1:]
		b.dropped++
	}
	b.entries = append(b.entries, entry)
}

// Drain removes and returns every entry in arrival order, along with
// the number evicted since the previous Drain. Returns nil and 0 when
// nothing has been logged.
func (b *Batch) Drain() ([]Entry, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 && b.dropped == 0 {
		return nil, 0
	}
	entries := b.entries
	dropped := b.dropped
	b.entries = nil
	b.dropped = 0
	return entries, dropped
}

// Len returns the number of entries waiting to be drained.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
