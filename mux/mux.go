// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"github.com/bureau-foundation/gputop/lib/ringbuf"
)

// Transport accepts frames for delivery in queue order. Queue must not
// block; the transport drives each frame's Read to io.EOF and then
// calls Complete. A closed transport completes queued and future
// frames with an error.
type Transport interface {
	Queue(frame *Frame)
}

// Multiplexer serializes sample and control frames onto one
// Transport. At most one sample frame is in flight at a time; control
// frames queue freely behind it.
//
// A Multiplexer is owned by a single goroutine. Frame completions
// arrive on the transport's goroutine and are handed back through the
// post function given to New, so permit state is only ever touched by
// the owner.
type Multiplexer struct {
	transport Transport
	post      func(func())

	sampleInFlight bool
}

// New returns a Multiplexer writing to transport. post runs a function
// on the owning goroutine; nil runs completions inline, which is only
// correct when the transport completes frames on the owner's
// goroutine.
func New(transport Transport, post func(func())) *Multiplexer {
	if post == nil {
		post = func(function func()) { function() }
	}
	return &Multiplexer{transport: transport, post: post}
}

// SampleInFlight reports whether the sample permit is held.
func (m *Multiplexer) SampleInFlight() bool { return m.sampleInFlight }

// TryQueueSample queues a sample frame for transfer if the sample
// permit is free and reports whether it did. When it returns false
// nothing is queued and release is never called; the caller retries on
// a later tick. Otherwise release runs exactly once on the owning
// goroutine after the permit has been returned.
func (m *Multiplexer) TryQueueSample(streamID uint32, transfer *ringbuf.Transfer, release func(err error)) bool {
	if m.sampleInFlight {
		return false
	}
	m.sampleInFlight = true
	frame := NewSampleFrame(streamID, transfer, func(err error) {
		m.post(func() {
			m.sampleInFlight = false
			if release != nil {
				release(err)
			}
		})
	})
	m.transport.Queue(frame)
	return true
}

// QueueControl queues a control frame carrying payload. onComplete,
// if non-nil, runs once on the owning goroutine.
func (m *Multiplexer) QueueControl(payload []byte, onComplete func(err error)) {
	var complete func(error)
	if onComplete != nil {
		complete = func(err error) {
			m.post(func() { onComplete(err) })
		}
	}
	m.transport.Queue(NewControlFrame(payload, complete))
}
