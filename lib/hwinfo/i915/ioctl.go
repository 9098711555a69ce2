// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package i915

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DRM_IOCTL_I915_GETPARAM from include/uapi/drm/i915_drm.h. Encodes
// _IOWR('d', DRM_COMMAND_BASE + 0x06, 16) where 16 is
// sizeof(struct drm_i915_getparam) on 64-bit.
//
// Bit layout: direction(3=read|write) << 30 | size(16) << 16 | type('d') << 8 | nr(0x46)
const ioctlI915GetParam = 0xC0106446

// I915_PARAM_* values used for the device descriptor.
const (
	paramChipsetID    = 4
	paramEUTotal      = 34
	paramSliceMask    = 46
	paramSubsliceMask = 47
)

// drmI915GetParam mirrors struct drm_i915_getparam: an int param
// followed by a user pointer to an int that receives the value.
type drmI915GetParam struct {
	param int32
	_     int32
	value uint64
}

// getParam issues one I915_GETPARAM ioctl on an open card node.
func getParam(fd uintptr, param int32) (int32, error) {
	var result int32
	request := drmI915GetParam{
		param: param,
		value: uint64(uintptr(unsafe.Pointer(&result))),
	}
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		fd,
		uintptr(ioctlI915GetParam),
		uintptr(unsafe.Pointer(&request)),
	)
	if errno != 0 {
		return 0, fmt.Errorf("i915 getparam %d: %w", param, errno)
	}
	return result, nil
}
