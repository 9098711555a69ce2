// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Card is one DRM card device found under /sys/class/drm.
type Card struct {
	// Name is the card node name (card0, card1, ...).
	Name string

	// DevicePath is the sysfs PCI device directory for the card.
	DevicePath string

	// Driver is the bound kernel driver (i915, amdgpu, ...).
	Driver string

	// Vendor is the human-readable PCI vendor name.
	Vendor string

	// DeviceID is the PCI device id as "0x"-prefixed lowercase hex.
	DeviceID string

	// PCISlot is the PCI address (0000:00:02.0).
	PCISlot string
}

// Cards lists DRM card devices under sysRoot bound to driver, sorted
// by name. An empty driver matches every card. Returns nil when
// class/drm is missing.
func Cards(sysRoot, driver string) []Card {
	drmBase := filepath.Join(sysRoot, "class/drm")
	entries, err := os.ReadDir(drmBase)
	if err != nil {
		return nil
	}

	var cards []Card
	for _, entry := range entries {
		name := entry.Name()
		if !IsCardDevice(name) {
			continue
		}
		devicePath := filepath.Join(drmBase, name, "device")
		cardDriver := ReadDriverName(devicePath)
		if driver != "" && cardDriver != driver {
			continue
		}
		vendor, deviceID, pciSlot := ParsePCIUevent(devicePath)
		cards = append(cards, Card{
			Name:       name,
			DevicePath: devicePath,
			Driver:     cardDriver,
			Vendor:     vendor,
			DeviceID:   deviceID,
			PCISlot:    pciSlot,
		})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Name < cards[j].Name })
	return cards
}

// IsCardDevice returns true for DRM card device names (card0, card1, ...)
// but not connectors (card0-DP-1) or render nodes (renderD128).
func IsCardDevice(name string) bool {
	suffix, found := strings.CutPrefix(name, "card")
	if !found || len(suffix) == 0 {
		return false
	}
	for _, character := range suffix {
		if character < '0' || character > '9' {
			return false
		}
	}
	return true
}

// ReadDriverName returns the kernel driver name for a PCI device by
// reading the basename of the "driver" symlink in the device directory.
func ReadDriverName(devicePath string) string {
	link, err := os.Readlink(filepath.Join(devicePath, "driver"))
	if err != nil {
		return ""
	}
	return filepath.Base(link)
}

// ParsePCIUevent extracts vendor name, device ID, and PCI slot from
// the device's uevent file. The uevent file contains lines like:
//
//	PCI_ID=8086:1912
//	PCI_SLOT_NAME=0000:00:02.0
func ParsePCIUevent(devicePath string) (vendor, deviceID, pciSlot string) {
	data, err := os.ReadFile(filepath.Join(devicePath, "uevent"))
	if err != nil {
		return "", "", ""
	}

	var rawVendorID, rawDeviceID string

	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch key {
		case "PCI_ID":
			// Format: "8086:1912" (vendor:device, uppercase hex).
			vendorPart, devicePart, ok := strings.Cut(value, ":")
			if ok {
				rawVendorID = strings.ToLower(vendorPart)
				rawDeviceID = strings.ToLower(devicePart)
			}
		case "PCI_SLOT_NAME":
			pciSlot = value
		}
	}

	vendor = PCIVendorName(rawVendorID)
	if rawDeviceID != "" {
		deviceID = "0x" + rawDeviceID
	}
	return vendor, deviceID, pciSlot
}

// ParseDeviceID converts a "0x"-prefixed hex device id as returned by
// [ParsePCIUevent] to its numeric value.
func ParseDeviceID(deviceID string) (uint32, error) {
	value, err := strconv.ParseUint(strings.TrimPrefix(deviceID, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing PCI device id %q: %w", deviceID, err)
	}
	return uint32(value), nil
}

// PCIVendorName maps a PCI vendor ID to a human-readable name.
func PCIVendorName(vendorID string) string {
	switch vendorID {
	case "1002":
		return "AMD"
	case "10de":
		return "NVIDIA"
	case "8086":
		return "Intel"
	default:
		if vendorID != "" {
			return fmt.Sprintf("0x%s", vendorID)
		}
		return ""
	}
}

// ReadSysfsString reads a single-line sysfs file and returns its
// trimmed content. Returns "" on any error.
func ReadSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ReadSysfsInt reads an integer from a sysfs file. Returns 0 on error.
func ReadSysfsInt(path string) int {
	value := ReadSysfsString(path)
	if value == "" {
		return 0
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}
