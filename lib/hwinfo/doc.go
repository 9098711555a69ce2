// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hwinfo describes the GPU that gputop reports counters for.
//
// [DeviceInfo] is the device descriptor sent to the UI in the Features
// reply: PCI device id plus execution-unit topology. Vendor
// subpackages implement [DeviceProber] to fill it in.
//
// # DRM helpers
//
// Shared sysfs/DRM helpers (drm.go): card enumeration ([Cards]), card
// device filtering, PCI uevent parsing, driver identification, and
// generic sysfs string/integer reading. Every function takes the sysfs
// root as a parameter so tests can point at synthetic filesystems.
//
// # Subpackages
//
//   - hwinfo/i915: Intel GPUs on the i915 driver. Identity from sysfs,
//     EU/slice/subslice topology from DRM_IOCTL_I915_GETPARAM on the
//     card node (pure Go, no cgo).
package hwinfo
