// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/gputop/protocol"
)

// tick runs one flush pass and forwards accumulated log entries.
func (s *Session) tick() {
	if s.disconnected {
		return
	}
	s.flushPass()
	s.forwardLogs()
}

// flushPass visits every active stream once, starting after the last
// stream that got a frame. Each visit is a flush attempt; while the
// sample permit is held the attempt is dropped.
func (s *Session) flushPass() {
	active := s.registry.Active()
	count := len(active)
	for offset := range count {
		index := (s.cursor + offset) % count
		handle := active[index]
		stream := s.registry.Get(handle)
		if stream == nil || stream.state != StateActive {
			continue
		}

		s.metrics.FlushAttempts.Inc()
		if s.multiplexer.SampleInFlight() {
			s.metrics.FlushThrottled.Inc()
			s.throttleLog.Do(func() {
				s.logger.Debug("throttling sample forwarding, previous frame still in flight", "stream_id", stream.ID)
			})
			continue
		}
		if s.flushStream(handle, stream) {
			s.cursor = (index + 1) % count
		}
	}
}

// flushStream queues one sample frame covering everything currently in
// the stream's ring. Returns false when the ring is empty.
func (s *Session) flushStream(handle Handle, stream *Stream) bool {
	if err := stream.Counters.Flush(); err != nil {
		s.logger.Debug("flushing counter samples failed", "stream_id", stream.ID, "error", err)
	}

	reader := stream.Counters.Reader()
	snapshot := reader.Snapshot()
	length := reader.Len(snapshot)
	if length == 0 {
		return false
	}

	s.registry.Acquire(handle)
	id := stream.ID
	queued := s.multiplexer.TryQueueSample(id, reader.Begin(snapshot), func(err error) {
		if err != nil {
			s.metrics.FrameErrors.Inc()
			s.logger.Debug("sample frame not delivered", "stream_id", id, "error", err)
		}
		s.registry.Release(handle)
	})
	if !queued {
		s.registry.Release(handle)
		return false
	}
	s.metrics.SampleFrames.Inc()
	s.metrics.SampleBytes.Add(float64(length))
	return true
}

// forwardLogs sends everything logged since the previous tick as one
// Log message.
func (s *Session) forwardLogs() {
	logs := s.server.config.Logs
	if logs == nil {
		return
	}
	entries, dropped := logs.Drain()
	if len(entries) == 0 && dropped == 0 {
		return
	}

	message := &protocol.Log{Entries: make([]protocol.LogEntry, 0, len(entries)+1)}
	if dropped > 0 {
		message.Entries = append(message.Entries, protocol.LogEntry{
			Level:   slog.LevelWarn.String(),
			Message: fmt.Sprintf("%d log entries dropped", dropped),
		})
	}
	for _, entry := range entries {
		message.Entries = append(message.Entries, protocol.LogEntry{
			Level:   entry.Level.String(),
			Message: entry.Message,
		})
	}
	s.send(protocol.Message{Log: message})
}
