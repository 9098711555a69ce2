// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"slices"

	"github.com/bureau-foundation/gputop/lib/perf"
	"github.com/bureau-foundation/gputop/protocol"
)

// State is a stream's lifecycle state.
type State int

const (
	// StateActive streams are flushed on every tick.
	StateActive State = iota

	// StateDraining streams are never flushed again and are destroyed
	// once their last in-flight frame completes.
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDraining:
		return "draining"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stream is one open counter stream.
type Stream struct {
	// ID is the client-chosen stream id. Not unique: reopening an id
	// leaves the earlier stream running under the same id.
	ID uint32

	// Query is the request the stream was opened with.
	Query protocol.OAQuery

	// Counters is the underlying counter stream and its ring.
	Counters *perf.Stream

	state State
	refs  int
}

// State returns the stream's lifecycle state.
func (s *Stream) State() State { return s.state }

// Refs returns the stream's reference count: one for active-set
// membership plus one per in-flight frame.
func (s *Stream) Refs() int { return s.refs }

// Handle names a stream in a Registry. Handles outlive the stream
// they name; a stale handle resolves to nothing.
type Handle struct {
	slot       uint32
	generation uint32
}

type slot struct {
	stream     Stream
	generation uint32
	used       bool
}

// Registry tracks active and draining streams in an arena of slots.
// It is not safe for concurrent use; the session event loop owns it.
type Registry struct {
	slots []*slot
	free  []uint32

	active   []Handle
	draining []Handle
	byID     map[uint32]Handle

	onDestroy func(*Stream)
}

// NewRegistry returns an empty Registry. onDestroy runs once for each
// stream when it leaves the draining set; the stream is already gone
// from the registry when it runs.
func NewRegistry(onDestroy func(*Stream)) *Registry {
	return &Registry{
		byID:      make(map[uint32]Handle),
		onDestroy: onDestroy,
	}
}

// Open adds an active stream holding one reference and returns its
// handle. If id already names an active stream, the id now resolves to
// the new stream; replaced reports that. The earlier stream stays
// active and keeps streaming until CloseAll.
func (r *Registry) Open(id uint32, counters *perf.Stream, query protocol.OAQuery) (handle Handle, replaced bool) {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		index = uint32(len(r.slots))
		r.slots = append(r.slots, &slot{})
	}

	entry := r.slots[index]
	entry.used = true
	entry.stream = Stream{
		ID:       id,
		Query:    query,
		Counters: counters,
		state:    StateActive,
		refs:     1,
	}
	handle = Handle{slot: index, generation: entry.generation}

	_, replaced = r.byID[id]
	r.byID[id] = handle
	r.active = append(r.active, handle)
	return handle, replaced
}

// Lookup returns the handle id currently resolves to.
func (r *Registry) Lookup(id uint32) (Handle, bool) {
	handle, ok := r.byID[id]
	return handle, ok
}

// Get resolves handle, or returns nil if the stream is gone. The
// pointer is valid until the stream is destroyed.
func (r *Registry) Get(handle Handle) *Stream {
	if int(handle.slot) >= len(r.slots) {
		return nil
	}
	entry := r.slots[handle.slot]
	if !entry.used || entry.generation != handle.generation {
		return nil
	}
	return &entry.stream
}

// Close moves the stream id resolves to from active to draining and
// drops its active-set reference. Returns false, changing nothing,
// when id names no active stream.
func (r *Registry) Close(id uint32) bool {
	handle, ok := r.byID[id]
	if !ok {
		return false
	}
	r.closeHandle(handle)
	return true
}

// CloseAll closes every active stream, including ones whose id was
// reused, and returns how many it closed.
func (r *Registry) CloseAll() int {
	handles := slices.Clone(r.active)
	for _, handle := range handles {
		r.closeHandle(handle)
	}
	return len(handles)
}

func (r *Registry) closeHandle(handle Handle) {
	stream := r.Get(handle)
	if stream == nil || stream.state != StateActive {
		return
	}
	r.active = slices.DeleteFunc(r.active, func(h Handle) bool { return h == handle })
	if current, ok := r.byID[stream.ID]; ok && current == handle {
		delete(r.byID, stream.ID)
	}
	stream.state = StateDraining
	r.draining = append(r.draining, handle)
	r.Release(handle)
}

// Acquire takes a reference on the stream for an in-flight frame.
// Returns false for a stale handle.
func (r *Registry) Acquire(handle Handle) bool {
	stream := r.Get(handle)
	if stream == nil {
		return false
	}
	stream.refs++
	return true
}

// Release drops one reference. A draining stream whose count reaches
// zero is removed and its destroy hook runs.
func (r *Registry) Release(handle Handle) {
	stream := r.Get(handle)
	if stream == nil {
		return
	}
	if stream.refs <= 0 {
		panic(fmt.Sprintf("session: release of stream %d with no references", stream.ID))
	}
	stream.refs--
	if stream.refs > 0 {
		return
	}
	if stream.state != StateDraining {
		panic(fmt.Sprintf("session: active stream %d lost its last reference", stream.ID))
	}

	r.draining = slices.DeleteFunc(r.draining, func(h Handle) bool { return h == handle })
	destroyed := *stream
	entry := r.slots[handle.slot]
	entry.used = false
	entry.stream = Stream{}
	entry.generation++
	r.free = append(r.free, handle.slot)

	if r.onDestroy != nil {
		r.onDestroy(&destroyed)
	}
}

// Active returns the active handles in open order. The slice is a
// copy.
func (r *Registry) Active() []Handle { return slices.Clone(r.active) }

// Len returns the number of active streams.
func (r *Registry) Len() int { return len(r.active) }

// Draining returns the number of draining streams.
func (r *Registry) Draining() int { return len(r.draining) }
