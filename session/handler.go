// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/gputop/lib/codec"
	"github.com/bureau-foundation/gputop/lib/perf"
	"github.com/bureau-foundation/gputop/protocol"
)

// handleMessage decodes and dispatches one inbound request. Malformed
// requests are dropped; the connection stays open.
func (s *Session) handleMessage(data []byte) {
	if s.disconnected {
		return
	}
	request, err := protocol.DecodeRequest(data)
	if err != nil {
		s.metrics.DecodeErrors.Inc()
		s.logger.Warn("dropping malformed request", "error", err, "length", len(data))
		if s.logger.Enabled(context.Background(), slog.LevelDebug) {
			if notation, diagnoseErr := codec.Diagnose(data); diagnoseErr == nil {
				s.logger.Debug("malformed request contents", "cbor", notation)
			}
		}
		return
	}
	s.metrics.Requests.WithLabelValues(request.Kind()).Inc()

	switch {
	case request.GetFeatures != nil:
		s.handleGetFeatures()
	case request.OpenQuery != nil:
		s.handleOpenQuery(*request.OpenQuery)
	case request.CloseQuery != nil:
		s.handleCloseQuery(request.CloseQuery.ID)
	}
}

// handleGetFeatures replies with the device descriptor. Without
// counter access there is nothing useful to report, so no reply is
// sent.
func (s *Session) handleGetFeatures() {
	if err := s.server.config.Opener.Available(); err != nil {
		s.logger.Warn("counter subsystem unavailable, not answering features request", "error", err)
		return
	}
	device := s.server.config.Device
	s.send(protocol.Message{Features: &protocol.Features{
		DevInfo: protocol.DevInfo{
			DevID:        device.DeviceID,
			NEUs:         device.EUs,
			NEUSlices:    device.Slices,
			NEUSubSlices: device.Subslices,
			NSamplers:    device.Samplers,
		},
		HasGLPerformanceQuery: false,
		HasI915OA:             true,
	}})
}

func (s *Session) handleOpenQuery(query protocol.OpenQuery) {
	if query.GLQuery != nil {
		s.logger.Info("GL performance queries are not supported, ignoring open request", "stream_id", query.ID)
		return
	}

	oa := *query.OAQuery
	params := perf.Params{
		MetricSet:      perf.MetricSet(oa.MetricSet),
		PeriodExponent: oa.PeriodExponent,
		BufferSize:     s.server.config.BufferSize,
		Overwrite:      oa.Overwrite,
	}
	counters, err := s.server.config.Opener.Open(params)
	if err != nil {
		reason := perf.ReasonOf(err)
		s.metrics.OpenFailures.WithLabelValues(reason.String()).Inc()
		s.logger.Error("failed to open counter stream",
			"stream_id", query.ID,
			"metric_set", params.MetricSet,
			"period_exponent", params.PeriodExponent,
			"reason", reason,
			"error", err,
		)
		return
	}

	_, replaced := s.registry.Open(query.ID, counters, oa)
	if replaced {
		s.logger.Warn("stream id reused while still open, earlier stream keeps streaming until disconnect", "stream_id", query.ID)
	}
	s.updateGauges()
	s.armTicker()
	s.logger.Info("stream opened",
		"stream_id", query.ID,
		"metric_set", params.MetricSet,
		"period_exponent", params.PeriodExponent,
		"overwrite", params.Overwrite,
		"buffer_size", params.BufferSize,
	)
}

// handleCloseQuery starts draining the stream. Closing an id with no
// active stream does nothing.
func (s *Session) handleCloseQuery(id uint32) {
	if !s.registry.Close(id) {
		s.logger.Debug("close for unknown stream id", "stream_id", id)
		return
	}
	s.updateGauges()
}
