// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

import (
	"os"
	"path/filepath"
	"testing"
)

// writeSyntheticFile creates a file at the given path within root,
// creating parent directories as needed.
func writeSyntheticFile(t *testing.T, root, path, content string) {
	t.Helper()
	fullPath := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}
}

// createSyntheticCard lays out /sys/class/drm/cardN with a driver
// symlink and PCI uevent under root/sys.
func createSyntheticCard(t *testing.T, root string, name, driver, pciID, slot string) {
	t.Helper()
	devicePath := filepath.Join("sys/class/drm", name, "device")
	writeSyntheticFile(t, root, filepath.Join(devicePath, "uevent"),
		"DRIVER="+driver+"\nPCI_CLASS=30000\nPCI_ID="+pciID+"\nPCI_SLOT_NAME="+slot+"\n")
	driverTarget := filepath.Join(root, "sys/bus/pci/drivers", driver)
	if err := os.MkdirAll(driverTarget, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", driverTarget, err)
	}
	if err := os.Symlink(driverTarget, filepath.Join(root, devicePath, "driver")); err != nil {
		t.Fatalf("symlink driver: %v", err)
	}
}

func TestIsCardDevice(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want bool
	}{
		{"card0", true},
		{"card12", true},
		{"card", false},
		{"card0-DP-1", false},
		{"renderD128", false},
		{"controlD64", false},
	}
	for _, test := range tests {
		if got := IsCardDevice(test.name); got != test.want {
			t.Errorf("IsCardDevice(%q) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestCardsFiltersByDriver(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	createSyntheticCard(t, root, "card1", "i915", "8086:1912", "0000:00:02.0")
	createSyntheticCard(t, root, "card0", "amdgpu", "1002:744A", "0000:c3:00.0")
	writeSyntheticFile(t, root, "sys/class/drm/card1-DP-1/status", "disconnected\n")

	sysRoot := filepath.Join(root, "sys")
	all := Cards(sysRoot, "")
	if len(all) != 2 {
		t.Fatalf("Cards(all) returned %d cards, want 2", len(all))
	}
	if all[0].Name != "card0" || all[1].Name != "card1" {
		t.Errorf("Cards not sorted: %s, %s", all[0].Name, all[1].Name)
	}

	intel := Cards(sysRoot, "i915")
	if len(intel) != 1 {
		t.Fatalf("Cards(i915) returned %d cards, want 1", len(intel))
	}
	card := intel[0]
	if card.Vendor != "Intel" {
		t.Errorf("Vendor = %q, want Intel", card.Vendor)
	}
	if card.DeviceID != "0x1912" {
		t.Errorf("DeviceID = %q, want 0x1912", card.DeviceID)
	}
	if card.PCISlot != "0000:00:02.0" {
		t.Errorf("PCISlot = %q, want 0000:00:02.0", card.PCISlot)
	}
	if card.Driver != "i915" {
		t.Errorf("Driver = %q, want i915", card.Driver)
	}
}

func TestCardsMissingSysfs(t *testing.T) {
	t.Parallel()
	if cards := Cards(filepath.Join(t.TempDir(), "absent"), ""); cards != nil {
		t.Errorf("Cards on missing sysfs = %v, want nil", cards)
	}
}

func TestParseDeviceID(t *testing.T) {
	t.Parallel()
	value, err := ParseDeviceID("0x591b")
	if err != nil {
		t.Fatalf("ParseDeviceID: %v", err)
	}
	if value != 0x591b {
		t.Errorf("ParseDeviceID = %#x, want 0x591b", value)
	}
	if _, err := ParseDeviceID("0xzz"); err == nil {
		t.Error("ParseDeviceID accepted non-hex input")
	}
}

func TestReadSysfsInt(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeSyntheticFile(t, root, "value", "42\n")
	writeSyntheticFile(t, root, "garbage", "forty-two\n")
	if got := ReadSysfsInt(filepath.Join(root, "value")); got != 42 {
		t.Errorf("ReadSysfsInt = %d, want 42", got)
	}
	if got := ReadSysfsInt(filepath.Join(root, "garbage")); got != 0 {
		t.Errorf("ReadSysfsInt(garbage) = %d, want 0", got)
	}
	if got := ReadSysfsInt(filepath.Join(root, "missing")); got != 0 {
		t.Errorf("ReadSysfsInt(missing) = %d, want 0", got)
	}
}
