// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perf

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/bureau-foundation/gputop/lib/clock"
	"github.com/bureau-foundation/gputop/lib/ringbuf"
)

// Layout of one synthetic sample record: a perf_event_header, the
// raw-data size word, a 256-byte OA report and alignment padding.
const (
	perfRecordSample  = 9
	oaReportSize      = 256
	SampleRecordSize  = 8 + 4 + oaReportSize + 4
	oaTimestampPeriod = 80 * time.Nanosecond
	maxRecordsPerTick = 64
)

// Simulated opens streams whose rings live in process memory. With a
// zero interval nothing writes to them except callers holding the
// stream's Writer; otherwise a goroutine per stream appends synthetic
// OA records on every clock tick.
type Simulated struct {
	clock    clock.Clock
	interval time.Duration

	mu      sync.Mutex
	writers map[*Stream]*ringbuf.Writer
}

// NewSimulated returns a Simulated opener. interval is how often the
// synthetic producer runs; zero disables it.
func NewSimulated(clk clock.Clock, interval time.Duration) *Simulated {
	return &Simulated{
		clock:    clk,
		interval: interval,
		writers:  make(map[*Stream]*ringbuf.Writer),
	}
}

// Available always succeeds.
func (s *Simulated) Available() error { return nil }

// Open allocates a ring and, if generation is enabled, starts the
// synthetic producer for it.
func (s *Simulated) Open(params Params) (*Stream, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	region := ringbuf.Region{
		Data: make([]byte, params.BufferSize),
		Head: new(uint64),
		Tail: new(uint64),
	}
	reader, err := ringbuf.NewReader(region)
	if err != nil {
		return nil, &OpenError{Reason: ReasonResourceUnavailable, Detail: "sample ring layout", Err: err}
	}
	// The reader shares this process, so an overwriting producer could
	// lap a Transfer mid-copy. Overwrite streams drop records when full
	// here, same as the rest.
	writer, err := ringbuf.NewWriter(region, false)
	if err != nil {
		return nil, &OpenError{Reason: ReasonResourceUnavailable, Detail: "sample ring layout", Err: err}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	stream := &Stream{params: params, reader: reader}
	stream.release = func() error {
		close(stop)
		<-done
		s.mu.Lock()
		delete(s.writers, stream)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.writers[stream] = writer
	s.mu.Unlock()

	if s.interval > 0 {
		go s.produce(writer, params, stop, done)
	} else {
		close(done)
	}
	return stream, nil
}

// Writer returns the producer side of a stream opened by s, or nil if
// the stream is closed or was not opened here.
func (s *Simulated) Writer(stream *Stream) *ringbuf.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writers[stream]
}

// produce appends synthetic records until stop is closed.
func (s *Simulated) produce(writer *ringbuf.Writer, params Params, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	period := oaTimestampPeriod << (params.PeriodExponent + 1)
	if params.PeriodExponent >= 32 || period <= 0 {
		period = s.interval
	}
	perTick := int(s.interval / period)
	perTick = max(1, min(perTick, maxRecordsPerTick))

	var timestamp uint32
	record := make([]byte, SampleRecordSize)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for range perTick {
				timestamp += uint32(period / oaTimestampPeriod)
				EncodeSyntheticRecord(record, params.MetricSet, timestamp)
				// A full ring drops the record, as the kernel does.
				writer.Write(record)
			}
		}
	}
}

// EncodeSyntheticRecord fills record (SampleRecordSize bytes) with a
// PERF_RECORD_SAMPLE carrying an OA report stamped with timestamp.
// Counter values are derived from the timestamp so consecutive
// reports produce plausible deltas.
func EncodeSyntheticRecord(record []byte, metricSet MetricSet, timestamp uint32) {
	clear(record)
	binary.LittleEndian.PutUint32(record[0:4], perfRecordSample)
	binary.LittleEndian.PutUint16(record[6:8], SampleRecordSize)
	binary.LittleEndian.PutUint32(record[8:12], oaReportSize+4)

	report := record[12 : 12+oaReportSize]
	binary.LittleEndian.PutUint32(report[0:4], metricSet.oaMetricsSetID())
	binary.LittleEndian.PutUint32(report[4:8], timestamp)
	for counter := 2; counter < oaReportSize/4; counter++ {
		value := timestamp * uint32(counter)
		binary.LittleEndian.PutUint32(report[counter*4:counter*4+4], value)
	}
}
