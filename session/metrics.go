// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "gputop"

// Metrics are the server's Prometheus instruments.
type Metrics struct {
	FlushAttempts  prometheus.Counter
	FlushThrottled prometheus.Counter
	SampleFrames   prometheus.Counter
	SampleBytes    prometheus.Counter
	FrameErrors    prometheus.Counter

	ControlFrames *prometheus.CounterVec
	Requests      *prometheus.CounterVec
	DecodeErrors  prometheus.Counter
	OpenFailures  *prometheus.CounterVec

	ActiveStreams   prometheus.Gauge
	DrainingStreams prometheus.Gauge
	Sessions        prometheus.Counter
	RejectedClients prometheus.Counter
}

// NewMetrics creates the instruments and registers them with
// registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		FlushAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "flush_attempts_total",
			Help:      "Per-stream flush attempts made by the scheduler.",
		}),
		FlushThrottled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "flush_throttled_total",
			Help:      "Flush attempts dropped because a sample frame was still in flight.",
		}),
		SampleFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sample_frames_total",
			Help:      "Sample frames queued to the UI.",
		}),
		SampleBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sample_bytes_total",
			Help:      "Raw sample bytes queued to the UI, excluding headers.",
		}),
		FrameErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sample_frame_errors_total",
			Help:      "Sample frames that failed to reach the UI.",
		}),
		ControlFrames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "control_frames_total",
			Help:      "Control messages queued to the UI, by kind.",
		}, []string{"kind"}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Decoded control requests, by kind.",
		}, []string{"kind"}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "decode_errors_total",
			Help:      "Inbound messages dropped because they failed to decode.",
		}),
		OpenFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stream_open_failures_total",
			Help:      "Counter stream opens that failed, by reason.",
		}, []string{"reason"}),
		ActiveStreams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_streams",
			Help:      "Streams currently flushed on each tick.",
		}),
		DrainingStreams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "draining_streams",
			Help:      "Closed streams waiting for an in-flight frame to complete.",
		}),
		Sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_total",
			Help:      "UI connections served.",
		}),
		RejectedClients: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejected_clients_total",
			Help:      "UI connections refused because another client was connected.",
		}),
	}
}
