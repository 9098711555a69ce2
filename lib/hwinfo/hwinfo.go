// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

// DeviceInfo is the static descriptor of the GPU whose counters are
// streamed. Zero fields mean the value could not be determined.
type DeviceInfo struct {
	// DeviceID is the PCI device id (e.g. 0x1912 for a Skylake GT2).
	DeviceID uint32

	// EUs is the total number of enabled execution units.
	EUs uint32

	// Slices and Subslices count enabled slices and the subslices
	// across all of them.
	Slices    uint32
	Subslices uint32

	// Samplers counts texture samplers; one per subslice on the
	// parts gputop supports.
	Samplers uint32

	// Card is the DRM card name the descriptor was read from
	// (card0, card1, ...). Not sent to the UI.
	Card string
}

// DeviceProber reads the descriptor of one GPU. Each vendor subpackage
// provides an implementation.
type DeviceProber interface {
	// Probe returns the descriptor of the first supported GPU, or an
	// error if none is present.
	Probe() (DeviceInfo, error)
}
