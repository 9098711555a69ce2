// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mux

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/bureau-foundation/gputop/lib/ringbuf"
	"github.com/bureau-foundation/gputop/protocol"
)

// Frame is one outbound message: the 8-byte header followed by either
// a ring snapshot (sample) or a serialized control message. Read
// produces the bytes incrementally and returns io.EOF at the end; a
// frame is read once and cannot be restarted.
//
// A sample frame copies straight out of the ring, so the ring must
// stay mapped until Complete runs. When the last byte has been copied
// the snapshot's end is committed as the ring's new tail.
type Frame struct {
	kind     protocol.Kind
	streamID uint32

	header       [protocol.HeaderSize]byte
	headerOffset int

	transfer *ringbuf.Transfer

	payload       []byte
	payloadOffset int

	onComplete func(error)
	completed  atomic.Bool
}

// NewSampleFrame returns a frame streaming transfer's range for
// streamID. onComplete runs exactly once, from Complete.
func NewSampleFrame(streamID uint32, transfer *ringbuf.Transfer, onComplete func(error)) *Frame {
	frame := &Frame{
		kind:       protocol.KindSample,
		streamID:   streamID,
		transfer:   transfer,
		onComplete: onComplete,
	}
	protocol.PutHeader(frame.header[:], protocol.KindSample, streamID)
	return frame
}

// NewControlFrame returns a frame carrying an encoded control message.
// onComplete may be nil.
func NewControlFrame(payload []byte, onComplete func(error)) *Frame {
	frame := &Frame{
		kind:       protocol.KindControl,
		payload:    payload,
		onComplete: onComplete,
	}
	protocol.PutHeader(frame.header[:], protocol.KindControl, 0)
	return frame
}

// Kind returns the frame's discriminator.
func (f *Frame) Kind() protocol.Kind { return f.kind }

// StreamID returns the stream a sample frame belongs to, or zero for
// control frames.
func (f *Frame) StreamID() uint32 { return f.streamID }

// Len returns the total frame length including the header.
func (f *Frame) Len() int {
	if f.transfer != nil {
		return protocol.HeaderSize + int(f.transfer.Len())
	}
	return protocol.HeaderSize + len(f.payload)
}

// Read implements io.Reader.
func (f *Frame) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	written := 0
	if f.headerOffset < protocol.HeaderSize {
		n := copy(p, f.header[f.headerOffset:])
		f.headerOffset += n
		written += n
		p = p[n:]
	}

	if f.transfer != nil {
		written += f.transfer.Read(p)
		if f.transfer.Done() {
			if err := f.transfer.Commit(); err != nil {
				return written, fmt.Errorf("stream %d: %w", f.streamID, err)
			}
			return written, io.EOF
		}
		return written, nil
	}

	n := copy(p, f.payload[f.payloadOffset:])
	f.payloadOffset += n
	written += n
	if f.payloadOffset == len(f.payload) && f.headerOffset == protocol.HeaderSize {
		return written, io.EOF
	}
	return written, nil
}

// Complete reports the end of the frame's transfer: err is nil when
// every byte reached the transport. Only the first call has effect.
func (f *Frame) Complete(err error) {
	if !f.completed.CompareAndSwap(false, true) {
		return
	}
	if f.onComplete != nil {
		f.onComplete(err)
	}
}
