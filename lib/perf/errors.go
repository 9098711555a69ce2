// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perf

import (
	"errors"
	"fmt"
	"syscall"
)

// Reason classifies why a counter stream could not be opened.
type Reason int

const (
	// ReasonResourceUnavailable covers a missing PMU, a busy OA unit,
	// exhausted file descriptors or a failed mapping.
	ReasonResourceUnavailable Reason = iota + 1

	// ReasonInvalidMetricSet means the metric set selector (or the
	// configuration derived from it) was rejected.
	ReasonInvalidMetricSet

	// ReasonPermissionDenied means the process may not open system-wide
	// counters (see /proc/sys/dev/i915/perf_stream_paranoid).
	ReasonPermissionDenied
)

// String returns the reason in snake_case for log attributes.
func (r Reason) String() string {
	switch r {
	case ReasonResourceUnavailable:
		return "resource_unavailable"
	case ReasonInvalidMetricSet:
		return "invalid_metric_set"
	case ReasonPermissionDenied:
		return "permission_denied"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// OpenError is the single error type returned by Opener.Open.
type OpenError struct {
	Reason Reason
	// Detail is a human-readable diagnostic, forwarded to the UI log.
	Detail string
	Err    error
}

func (e *OpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("open counter stream: %s: %s: %v", e.Reason, e.Detail, e.Err)
	}
	return fmt.Sprintf("open counter stream: %s: %s", e.Reason, e.Detail)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ReasonOf returns the Reason carried by err, or 0 if err is not an
// OpenError.
func ReasonOf(err error) Reason {
	var openError *OpenError
	if errors.As(err, &openError) {
		return openError.Reason
	}
	return 0
}

// reasonForErrno maps a perf_event_open or mmap errno to a Reason.
func reasonForErrno(err error) Reason {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ReasonResourceUnavailable
	}
	switch errno {
	case syscall.EACCES, syscall.EPERM:
		return ReasonPermissionDenied
	case syscall.EINVAL:
		return ReasonInvalidMetricSet
	default:
		return ReasonResourceUnavailable
	}
}
