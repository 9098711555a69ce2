// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/bureau-foundation/gputop/lib/codec"
)

// DecodeError reports an inbound request that could not be decoded
// or does not have exactly one member set.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return "decoding request: " + e.Reason + ": " + e.Err.Error()
	}
	return "decoding request: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeRequest decodes one inbound request. Every failure is a
// *DecodeError.
func DecodeRequest(data []byte) (Request, error) {
	if len(data) == 0 {
		return Request{}, &DecodeError{Reason: "empty payload"}
	}
	var request Request
	if err := codec.Unmarshal(data, &request); err != nil {
		return Request{}, &DecodeError{Reason: "malformed CBOR", Err: err}
	}

	members := 0
	for _, set := range []bool{request.GetFeatures != nil, request.OpenQuery != nil, request.CloseQuery != nil} {
		if set {
			members++
		}
	}
	if members != 1 {
		return Request{}, &DecodeError{Reason: fmt.Sprintf("request has %d members, want exactly 1", members)}
	}
	if query := request.OpenQuery; query != nil && (query.OAQuery == nil) == (query.GLQuery == nil) {
		return Request{}, &DecodeError{Reason: "open_query needs exactly one of oa_query and gl_query"}
	}
	return request, nil
}

// EncodeRequest encodes a request. Used by clients and tests.
func EncodeRequest(request Request) ([]byte, error) {
	return codec.Marshal(request)
}

// EncodeMessage encodes one outbound control message.
func EncodeMessage(message Message) ([]byte, error) {
	if message.Kind() == "empty" {
		return nil, fmt.Errorf("encoding message: no member set")
	}
	data, err := codec.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("encoding %s message: %w", message.Kind(), err)
	}
	return data, nil
}

// DecodeMessage decodes a control frame payload. Used by clients and
// tests.
func DecodeMessage(data []byte) (Message, error) {
	var message Message
	if err := codec.Unmarshal(data, &message); err != nil {
		return Message{}, fmt.Errorf("decoding message: %w", err)
	}
	return message, nil
}
