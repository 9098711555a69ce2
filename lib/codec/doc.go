// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration for the control channel.
//
// Control messages between the server and the UI (GetFeatures,
// OpenQuery, CloseQuery requests; Features, Log, CloseNotify
// messages) are CBOR maps with string keys. Sample frames are not
// encoded at all: their payload is the raw ring bytes.
//
// Encoding is deterministic, so the same message always produces the
// same bytes:
//
//	data, err := codec.Marshal(message)
//	err = codec.Unmarshal(data, &request)
//
// Struct types on the wire use `cbor` tags only.
package codec
