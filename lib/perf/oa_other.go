// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package perf

import "errors"

var errOAUnsupported = errors.New("i915 OA streams require Linux")

// OAOpener is unavailable outside Linux. Every Open fails with
// ReasonResourceUnavailable.
type OAOpener struct{}

// NewOAOpener returns an OAOpener that always fails.
func NewOAOpener() *OAOpener { return &OAOpener{} }

// NewOAOpenerFrom returns an OAOpener that always fails.
func NewOAOpenerFrom(string) *OAOpener { return &OAOpener{} }

// Available always returns an error.
func (o *OAOpener) Available() error { return errOAUnsupported }

// Open always fails.
func (o *OAOpener) Open(params Params) (*Stream, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return nil, &OpenError{Reason: ReasonResourceUnavailable, Detail: "i915_oa PMU not found", Err: errOAUnsupported}
}
