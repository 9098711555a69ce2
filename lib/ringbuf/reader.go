// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ringbuf

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrIncompleteTransfer is returned by [Transfer.Commit] when bytes of
// the snapshot have not been copied out yet.
var ErrIncompleteTransfer = errors.New("ringbuf: transfer not complete")

// Region describes the shared memory backing one ring: the data bytes
// and the two offset words. For a perf mmap these point into the
// perf_event_mmap_page header (data_head, data_tail) and the data
// pages that follow it.
type Region struct {
	// Data is the circular byte region. Its length must be a power
	// of two.
	Data []byte

	// Head is the producer-owned write offset. Free-running: only
	// Head & (len(Data)-1) is a position in Data.
	Head *uint64

	// Tail is the consumer-owned read offset, free-running like Head.
	// In overwrite mode the producer ignores it and it may point at
	// process-local memory.
	Tail *uint64
}

// Snapshot is the (head, tail) pair captured at the start of a flush.
// It fixes the byte range one frame will carry; the producer may keep
// advancing head, but the frame transfers exactly this range.
type Snapshot struct {
	Head uint64
	Tail uint64
}

// Reader is the consumer side of one ring.
type Reader struct {
	data []byte
	mask uint64
	head *uint64
	tail *uint64
}

// NewReader validates region and returns a Reader over it.
func NewReader(region Region) (*Reader, error) {
	size := len(region.Data)
	if size == 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("ringbuf: data size %d is not a power of two", size)
	}
	if region.Head == nil || region.Tail == nil {
		return nil, errors.New("ringbuf: region is missing head or tail word")
	}
	return &Reader{
		data: region.Data,
		mask: uint64(size - 1),
		head: region.Head,
		tail: region.Tail,
	}, nil
}

// Size returns the data region size in bytes.
func (r *Reader) Size() int { return len(r.data) }

// loadHead reads the producer offset with acquire ordering.
func (r *Reader) loadHead() uint64 { return atomic.LoadUint64(r.head) }

// loadTail reads the consumer offset. Only this process writes it,
// but the atomic load keeps the race detector honest when a Transfer
// commits from the transport goroutine.
func (r *Reader) loadTail() uint64 { return atomic.LoadUint64(r.tail) }

// Taken returns (head - tail) mod size for the given offsets. A buffer
// that is exactly full reads as empty, matching how the producer's
// offsets alias.
func (r *Reader) Taken(head, tail uint64) uint64 { return (head - tail) & r.mask }

// PendingBytes returns the number of bytes the producer has published
// that the consumer has not yet committed.
func (r *Reader) PendingBytes() uint64 {
	head := r.loadHead()
	return r.Taken(head, r.loadTail())
}

// Snapshot captures (head, tail) once. Every byte up to the captured
// head is visible once Snapshot returns.
func (r *Reader) Snapshot() Snapshot {
	head := r.loadHead()
	return Snapshot{Head: head, Tail: r.loadTail()}
}

// Len returns the number of bytes in the snapshot's range.
func (r *Reader) Len(snapshot Snapshot) uint64 { return r.Taken(snapshot.Head, snapshot.Tail) }

// CopyRange copies up to len(dst) bytes of the snapshot's range
// starting at *tail, advances *tail by the number of bytes copied and
// returns that number. *tail starts at snapshot.Tail and is owned by
// the caller between calls.
//
// When the tail's position is not below the head's position the
// remaining range wraps past the physical end of the buffer: the
// segment from tail to the end is copied first, then copying resumes
// at offset zero toward head. Otherwise the range is one contiguous
// segment.
func (r *Reader) CopyRange(dst []byte, snapshot Snapshot, tail *uint64) int {
	size := uint64(len(r.data))
	head := snapshot.Head
	position := *tail
	total := 0

	if r.Taken(head, position) == 0 || len(dst) == 0 {
		return 0
	}

	if position&r.mask >= head&r.mask {
		start := position & r.mask
		before := size - start
		n := min(before, uint64(len(dst)))
		copy(dst[:n], r.data[start:start+n])
		dst = dst[n:]
		position += n
		total += int(n)
	}

	remainder := r.Taken(head, position)
	n := min(remainder, uint64(len(dst)))
	if n > 0 {
		start := position & r.mask
		copy(dst[:n], r.data[start:start+n])
		position += n
		total += int(n)
	}

	*tail = position
	return total
}

// Commit publishes newTail to the producer with release ordering. Call
// only after every byte up to newTail has been copied out; [Transfer]
// enforces that.
func (r *Reader) Commit(newTail uint64) {
	atomic.StoreUint64(r.tail, newTail)
}

// Transfer walks one snapshot's range across as many Read calls as the
// caller needs. It is not safe for concurrent use, but successive
// calls may come from different goroutines as long as they are
// ordered.
type Transfer struct {
	reader    *Reader
	snapshot  Snapshot
	position  uint64
	committed bool
}

// Begin returns a Transfer over snapshot.
func (r *Reader) Begin(snapshot Snapshot) *Transfer {
	return &Transfer{reader: r, snapshot: snapshot, position: snapshot.Tail}
}

// Snapshot returns the range this transfer covers.
func (t *Transfer) Snapshot() Snapshot { return t.snapshot }

// Len returns the total byte length of the transfer.
func (t *Transfer) Len() uint64 { return t.reader.Len(t.snapshot) }

// Remaining returns the bytes not yet copied out.
func (t *Transfer) Remaining() uint64 { return t.reader.Taken(t.snapshot.Head, t.position) }

// Done reports whether every byte of the snapshot has been copied.
func (t *Transfer) Done() bool { return t.Remaining() == 0 }

// Read copies the next bytes of the range into dst and returns how
// many were copied. Returns 0 once the transfer is done.
func (t *Transfer) Read(dst []byte) int {
	return t.reader.CopyRange(dst, t.snapshot, &t.position)
}

// Commit publishes the transfer's end as the new tail. Fails with
// ErrIncompleteTransfer if bytes remain. A second Commit is a no-op.
func (t *Transfer) Commit() error {
	if t.committed {
		return nil
	}
	if !t.Done() {
		return fmt.Errorf("%w: %d of %d bytes remaining", ErrIncompleteTransfer, t.Remaining(), t.Len())
	}
	t.reader.Commit(t.position)
	t.committed = true
	return nil
}
