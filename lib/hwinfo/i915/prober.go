// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package i915 reads the device descriptor of Intel GPUs bound to the
// i915 kernel driver. Identity comes from sysfs; EU, slice and
// subslice topology from DRM_IOCTL_I915_GETPARAM on the card node,
// which requires read access to /dev/dri/cardN (video group).
//
// No cgo is required: the ioctl uses golang.org/x/sys/unix with the
// struct layout from include/uapi/drm/i915_drm.h.
package i915

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/gputop/lib/hwinfo"
)

// ErrNoDevice is returned when no card is bound to the i915 driver.
var ErrNoDevice = errors.New("no i915 device found")

// Prober implements hwinfo.DeviceProber for i915 GPUs.
type Prober struct {
	// sysRoot is the root of the sysfs filesystem, "/sys" in
	// production.
	sysRoot string

	// devRoot holds the dri/ device nodes, "/dev" in production.
	devRoot string
}

// NewProber creates a Prober reading /sys and /dev.
func NewProber() *Prober {
	return &Prober{sysRoot: "/sys", devRoot: "/dev"}
}

// NewProberFrom creates a Prober with custom sysfs and device roots.
func NewProberFrom(sysRoot, devRoot string) *Prober {
	return &Prober{sysRoot: sysRoot, devRoot: devRoot}
}

// Probe returns the descriptor of the lowest-numbered i915 card.
//
// When the card is found but its node cannot be queried, Probe returns
// the sysfs identity (DeviceID and Card) together with a non-nil error
// so the caller can log the degradation and still report the device.
func (p *Prober) Probe() (hwinfo.DeviceInfo, error) {
	cards := hwinfo.Cards(p.sysRoot, "i915")
	if len(cards) == 0 {
		return hwinfo.DeviceInfo{}, ErrNoDevice
	}
	card := cards[0]

	info := hwinfo.DeviceInfo{Card: card.Name}
	if card.DeviceID != "" {
		deviceID, err := hwinfo.ParseDeviceID(card.DeviceID)
		if err != nil {
			return info, err
		}
		info.DeviceID = deviceID
	}

	nodePath := filepath.Join(p.devRoot, "dri", card.Name)
	node, err := os.OpenFile(nodePath, os.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return info, fmt.Errorf("opening %s for topology query: %w", nodePath, err)
	}
	defer node.Close()

	fd := node.Fd()
	err = fillTopology(&info, func(param int32) (int32, error) {
		return getParam(fd, param)
	})
	return info, err
}

// fillTopology queries the chipset id and EU topology through query
// and stores them in info. The chipset id overrides the sysfs value
// since it reflects the kernel's own PCI id table.
func fillTopology(info *hwinfo.DeviceInfo, query func(param int32) (int32, error)) error {
	chipset, err := query(paramChipsetID)
	if err != nil {
		return err
	}
	euTotal, err := query(paramEUTotal)
	if err != nil {
		return err
	}
	sliceMask, err := query(paramSliceMask)
	if err != nil {
		return err
	}
	subsliceMask, err := query(paramSubsliceMask)
	if err != nil {
		return err
	}

	info.DeviceID = uint32(chipset)
	info.EUs = uint32(euTotal)
	info.Slices = uint32(bits.OnesCount32(uint32(sliceMask)))
	// The subslice mask describes one slice; every enabled slice
	// carries the same set.
	info.Subslices = info.Slices * uint32(bits.OnesCount32(uint32(subsliceMask)))
	info.Samplers = info.Subslices
	return nil
}
