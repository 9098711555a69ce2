// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perf

import "fmt"

// MetricSet selects one predefined OA counter configuration. The
// numbering is the index the UI sends in an OpenQuery.
type MetricSet uint32

const (
	MetricSetRenderBasic MetricSet = iota
	MetricSetComputeBasic
	MetricSetRenderPipeProfile
	MetricSetMemoryReads
	MetricSetMemoryWrites
	MetricSetSamplerBalance

	metricSetCount
)

var metricSetNames = [metricSetCount]string{
	MetricSetRenderBasic:       "render-basic",
	MetricSetComputeBasic:      "compute-basic",
	MetricSetRenderPipeProfile: "render-pipe-profile",
	MetricSetMemoryReads:       "memory-reads",
	MetricSetMemoryWrites:      "memory-writes",
	MetricSetSamplerBalance:    "sampler-balance",
}

// Valid reports whether m names a known metric set.
func (m MetricSet) Valid() bool { return m < metricSetCount }

func (m MetricSet) String() string {
	if !m.Valid() {
		return fmt.Sprintf("metric-set(%d)", uint32(m))
	}
	return metricSetNames[m]
}

// MetricSets returns every known metric set in selector order.
func MetricSets() []MetricSet {
	sets := make([]MetricSet, metricSetCount)
	for i := range sets {
		sets[i] = MetricSet(i)
	}
	return sets
}

// oaMetricsSetID converts a selector into the kernel's metrics-set id,
// which is 1-based (0 means "none").
func (m MetricSet) oaMetricsSetID() uint32 { return uint32(m) + 1 }

// MaxPeriodExponent is the largest OA timer exponent the hardware
// accepts. The sampling period is 2^(exponent+1) timestamp ticks.
const MaxPeriodExponent = 63
