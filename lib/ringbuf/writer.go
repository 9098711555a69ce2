// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ringbuf

import (
	"fmt"
	"sync/atomic"
)

// Writer is the producer side of a ring, for tests and the simulated
// counter source. The real producer is the kernel.
//
// Writer never fills the buffer completely: a full ring would alias
// to empty under mod-size arithmetic, so at most size-1 bytes are
// ever outstanding.
type Writer struct {
	data []byte
	mask uint64
	head *uint64
	tail *uint64
	// overwrite makes Write ignore the consumer tail, like a perf
	// ring mapped read-only. The producer may then lap the consumer:
	// PendingBytes wraps and undercounts, and bytes a Transfer is
	// still copying can be overwritten. Only use it when the reader
	// tolerates torn records.
	overwrite bool
}

// NewWriter returns a Writer over region. The region must satisfy the
// same constraints as for NewReader.
func NewWriter(region Region, overwrite bool) (*Writer, error) {
	size := len(region.Data)
	if size == 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("ringbuf: data size %d is not a power of two", size)
	}
	if region.Head == nil || region.Tail == nil {
		return nil, fmt.Errorf("ringbuf: region is missing head or tail word")
	}
	return &Writer{
		data:      region.Data,
		mask:      uint64(size - 1),
		head:      region.Head,
		tail:      region.Tail,
		overwrite: overwrite,
	}, nil
}

// Space returns how many bytes Write can accept right now. In
// overwrite mode that is always size-1, whatever the consumer has read.
func (w *Writer) Space() int {
	if w.overwrite {
		return len(w.data) - 1
	}
	head := atomic.LoadUint64(w.head)
	tail := atomic.LoadUint64(w.tail)
	return len(w.data) - 1 - int((head-tail)&w.mask)
}

// Write appends p as one record. A record that does not fit is
// dropped whole, as the kernel does, and Write returns false.
func (w *Writer) Write(p []byte) bool {
	if len(p) > w.Space() {
		return false
	}
	head := atomic.LoadUint64(w.head)
	for offset := 0; offset < len(p); {
		position := (head + uint64(offset)) & w.mask
		n := copy(w.data[position:], p[offset:])
		offset += n
	}
	// Release: the consumer's acquire load of head must see the bytes.
	atomic.StoreUint64(w.head, head+uint64(len(p)))
	return true
}
