// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package perf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/gputop/lib/hwinfo"
	"github.com/bureau-foundation/gputop/lib/ringbuf"
)

// perf_event_mmap_page layout (include/uapi/linux/perf_event.h). The
// header occupies the first page of the mapping; data_head and
// data_tail sit at fixed offsets after the reserved area.
const (
	mmapDataHeadOffset = 1024
	mmapDataTailOffset = 1032
)

// i915 OA attribute flags.
const (
	oaFlagPeriodic = 1 << 0
)

// oaAttr mirrors the i915_oa PMU's attribute block. perf_event_attr's
// config field carries a pointer to it.
type oaAttr struct {
	size          uint32
	flags         uint32
	metricsSet    uint32
	timerExponent uint32
}

// OAOpener opens i915 OA streams through perf_event_open.
type OAOpener struct {
	// sysRoot is the sysfs root, "/sys" in production.
	sysRoot  string
	pageSize int
}

// NewOAOpener returns an OAOpener reading PMU information from /sys.
func NewOAOpener() *OAOpener {
	return NewOAOpenerFrom("/sys")
}

// NewOAOpenerFrom returns an OAOpener reading PMU information from a
// custom sysfs root.
func NewOAOpenerFrom(sysRoot string) *OAOpener {
	return &OAOpener{sysRoot: sysRoot, pageSize: os.Getpagesize()}
}

// pmuType reads the dynamic perf type number the kernel assigned to
// the i915_oa PMU. Dynamic types never collide with the fixed ones,
// so 0 (PERF_TYPE_HARDWARE) means the PMU is missing or unreadable.
func (o *OAOpener) pmuType() (uint32, error) {
	path := filepath.Join(o.sysRoot, "bus/event_source/devices/i915_oa/type")
	value := hwinfo.ReadSysfsInt(path)
	if value <= 0 {
		return 0, fmt.Errorf("no i915_oa PMU type in %s", path)
	}
	return uint32(value), nil
}

// Available reports whether the i915_oa PMU is registered.
func (o *OAOpener) Available() error {
	_, err := o.pmuType()
	return err
}

// Open starts a periodic OA stream and maps its sample ring.
func (o *OAOpener) Open(params Params) (*Stream, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	pmu, err := o.pmuType()
	if err != nil {
		return nil, &OpenError{Reason: ReasonResourceUnavailable, Detail: "i915_oa PMU not found", Err: err}
	}

	oa := oaAttr{
		size:          uint32(unsafe.Sizeof(oaAttr{})),
		flags:         oaFlagPeriodic,
		metricsSet:    params.MetricSet.oaMetricsSetID(),
		timerExponent: params.PeriodExponent,
	}
	attr := unix.PerfEventAttr{
		Type:        pmu,
		Size:        uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
		Config:      uint64(uintptr(unsafe.Pointer(&oa))),
		Sample_type: unix.PERF_SAMPLE_RAW,
		Bits:        unix.PerfBitDisabled,
	}

	fd, err := unix.PerfEventOpen(&attr, -1, 0, -1, unix.PERF_FLAG_FD_CLOEXEC)
	runtime.KeepAlive(&oa)
	if err != nil {
		return nil, &OpenError{
			Reason: reasonForErrno(err),
			Detail: fmt.Sprintf("perf_event_open metric_set=%s period_exponent=%d", params.MetricSet, params.PeriodExponent),
			Err:    err,
		}
	}

	// Without PROT_WRITE the kernel treats the ring as overwritable
	// and never reads data_tail.
	protection := unix.PROT_READ | unix.PROT_WRITE
	if params.Overwrite {
		protection = unix.PROT_READ
	}
	mapping, err := unix.Mmap(fd, 0, o.pageSize+params.BufferSize, protection, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, &OpenError{
			Reason: reasonForErrno(err),
			Detail: fmt.Sprintf("mapping %d-byte sample ring", params.BufferSize),
			Err:    err,
		}
	}

	region := ringbuf.Region{
		Data: mapping[o.pageSize:],
		Head: (*uint64)(unsafe.Pointer(&mapping[mmapDataHeadOffset])),
		Tail: (*uint64)(unsafe.Pointer(&mapping[mmapDataTailOffset])),
	}
	if params.Overwrite {
		region.Tail = new(uint64)
	}
	reader, err := ringbuf.NewReader(region)
	if err != nil {
		unix.Munmap(mapping)
		unix.Close(fd)
		return nil, &OpenError{Reason: ReasonResourceUnavailable, Detail: "sample ring layout", Err: err}
	}

	if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0); err != nil {
		unix.Munmap(mapping)
		unix.Close(fd)
		return nil, &OpenError{Reason: reasonForErrno(err), Detail: "enabling OA stream", Err: err}
	}

	return &Stream{
		params: params,
		reader: reader,
		flush:  func() error { return unix.Fsync(fd) },
		release: func() error {
			return errors.Join(
				unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_DISABLE, 0),
				unix.Munmap(mapping),
				unix.Close(fd),
			)
		},
	}, nil
}
