// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

// Request is an inbound control request. Exactly one member is set.
type Request struct {
	GetFeatures *GetFeatures `cbor:"get_features,omitempty"`
	OpenQuery   *OpenQuery   `cbor:"open_query,omitempty"`
	CloseQuery  *CloseQuery  `cbor:"close_query,omitempty"`
}

// GetFeatures asks for the device descriptor and capability flags.
type GetFeatures struct{}

// OpenQuery opens a counter stream under a client-chosen id. Exactly
// one of OAQuery and GLQuery is set.
type OpenQuery struct {
	ID      uint32   `cbor:"id"`
	OAQuery *OAQuery `cbor:"oa_query,omitempty"`
	GLQuery *GLQuery `cbor:"gl_query,omitempty"`
}

// OAQuery selects a hardware OA counter stream.
type OAQuery struct {
	// MetricSet indexes the metric sets known to lib/perf.
	MetricSet uint32 `cbor:"metric_set"`

	// PeriodExponent sets the sampling period to
	// timestamp_period << (exponent + 1).
	PeriodExponent uint32 `cbor:"period_exponent"`

	// Overwrite lets the producer overwrite unread samples instead
	// of dropping new ones.
	Overwrite bool `cbor:"overwrite,omitempty"`
}

// GLQuery names a GL_INTEL_performance_query query. The server
// acknowledges the variant but does not implement it.
type GLQuery struct {
	Name string `cbor:"name,omitempty"`
}

// CloseQuery closes the stream opened under ID.
type CloseQuery struct {
	ID uint32 `cbor:"id"`
}

// Kind names the request's member, for logging and metrics.
func (r Request) Kind() string {
	switch {
	case r.GetFeatures != nil:
		return "get_features"
	case r.OpenQuery != nil:
		return "open_query"
	case r.CloseQuery != nil:
		return "close_query"
	default:
		return "empty"
	}
}

// Message is an outbound control message. Exactly one member is set.
type Message struct {
	Features    *Features    `cbor:"features,omitempty"`
	Log         *Log         `cbor:"log,omitempty"`
	CloseNotify *CloseNotify `cbor:"close_notify,omitempty"`
}

// Features answers GetFeatures.
type Features struct {
	DevInfo               DevInfo `cbor:"devinfo"`
	HasGLPerformanceQuery bool    `cbor:"has_gl_performance_query"`
	HasI915OA             bool    `cbor:"has_i915_oa"`
}

// DevInfo describes the GPU.
type DevInfo struct {
	DevID        uint32 `cbor:"devid"`
	NEUs         uint32 `cbor:"n_eus"`
	NEUSlices    uint32 `cbor:"n_eu_slices"`
	NEUSubSlices uint32 `cbor:"n_eu_sub_slices"`
	NSamplers    uint32 `cbor:"n_samplers"`
}

// Log forwards server log lines to the UI.
type Log struct {
	Entries []LogEntry `cbor:"entries"`
}

// LogEntry is one forwarded line. Level is the slog level name
// ("DEBUG", "INFO", "WARN", "ERROR").
type LogEntry struct {
	Level   string `cbor:"level"`
	Message string `cbor:"message"`
}

// CloseNotify reports that the stream opened under ID is fully torn
// down and its id may be reused.
type CloseNotify struct {
	ID uint32 `cbor:"id"`
}

// Kind names the message's member, for logging and metrics.
func (m Message) Kind() string {
	switch {
	case m.Features != nil:
		return "features"
	case m.Log != nil:
		return "log"
	case m.CloseNotify != nil:
		return "close_notify"
	default:
		return "empty"
	}
}
