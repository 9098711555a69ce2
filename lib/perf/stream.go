// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perf

import (
	"fmt"
	"sync"

	"github.com/bureau-foundation/gputop/lib/ringbuf"
)

// Params configures one counter stream.
type Params struct {
	MetricSet MetricSet

	// PeriodExponent selects the OA sampling period.
	PeriodExponent uint32

	// BufferSize is the sample ring size in bytes. Must be a power of
	// two; callers derive it from a page count.
	BufferSize int

	// Overwrite lets the producer overwrite unread samples instead of
	// dropping new ones when the ring is full.
	Overwrite bool
}

// validate checks the parameters every Opener rejects the same way.
func (p Params) validate() error {
	if !p.MetricSet.Valid() {
		return &OpenError{
			Reason: ReasonInvalidMetricSet,
			Detail: fmt.Sprintf("unknown metric set %d (have %d)", uint32(p.MetricSet), metricSetCount),
		}
	}
	if p.PeriodExponent > MaxPeriodExponent {
		return &OpenError{
			Reason: ReasonInvalidMetricSet,
			Detail: fmt.Sprintf("period exponent %d exceeds %d", p.PeriodExponent, MaxPeriodExponent),
		}
	}
	if p.BufferSize <= 0 || p.BufferSize&(p.BufferSize-1) != 0 {
		return &OpenError{
			Reason: ReasonResourceUnavailable,
			Detail: fmt.Sprintf("buffer size %d is not a power of two", p.BufferSize),
		}
	}
	return nil
}

// Opener opens counter streams.
type Opener interface {
	// Available reports whether streams can be opened at all. A nil
	// result does not guarantee a later Open succeeds.
	Available() error

	// Open starts a stream. Errors are *OpenError.
	Open(params Params) (*Stream, error)
}

// Stream is one open counter stream and the ring it fills.
type Stream struct {
	params Params
	reader *ringbuf.Reader

	// flush asks the producer to push buffered samples into the ring.
	flush func() error

	closeOnce sync.Once
	release   func() error
	closeErr  error
}

// Params returns the parameters the stream was opened with.
func (s *Stream) Params() Params { return s.params }

// Reader returns the consumer side of the stream's ring. The reader
// is valid until Close.
func (s *Stream) Reader() *ringbuf.Reader { return s.reader }

// Flush asks the counter subsystem to write out any samples it is
// still holding so the next snapshot sees them.
func (s *Stream) Flush() error {
	if s.flush == nil {
		return nil
	}
	return s.flush()
}

// Close stops the stream and unmaps its ring. The Reader must not be
// used afterwards. Safe to call more than once.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		if s.release != nil {
			s.closeErr = s.release()
		}
	})
	return s.closeErr
}
