// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"encoding/binary"
	"fmt"
)

// Kind discriminates outbound frames.
type Kind byte

const (
	// KindSample frames carry raw ring bytes for one stream.
	KindSample Kind = 1

	// KindControl frames carry one CBOR-encoded Message.
	KindControl Kind = 2
)

// HeaderSize is the fixed length of every outbound frame header.
const HeaderSize = 8

func (k Kind) String() string {
	switch k {
	case KindSample:
		return "sample"
	case KindControl:
		return "control"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// Header is a decoded frame header.
type Header struct {
	Kind     Kind
	StreamID uint32
}

// PutHeader writes a frame header into the first HeaderSize bytes of
// dst. streamID is ignored for control frames. Panics if dst is
// shorter than HeaderSize.
func PutHeader(dst []byte, kind Kind, streamID uint32) {
	_ = dst[HeaderSize-1]
	dst[0] = byte(kind)
	if kind != KindSample {
		streamID = 0
	}
	binary.LittleEndian.PutUint32(dst[1:5], streamID)
	dst[5], dst[6], dst[7] = 0, 0, 0
}

// ParseHeader decodes the header at the start of frame and returns it
// with the remaining payload.
func ParseHeader(frame []byte) (Header, []byte, error) {
	if len(frame) < HeaderSize {
		return Header{}, nil, fmt.Errorf("frame of %d bytes is shorter than the %d-byte header", len(frame), HeaderSize)
	}
	header := Header{
		Kind:     Kind(frame[0]),
		StreamID: binary.LittleEndian.Uint32(frame[1:5]),
	}
	switch header.Kind {
	case KindSample, KindControl:
	default:
		return Header{}, nil, fmt.Errorf("unknown frame %s", header.Kind)
	}
	return header, frame[HeaderSize:], nil
}
