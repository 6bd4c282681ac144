// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode encodes with Core Deterministic Encoding (RFC 8949 §4.2).
// Deterministic output means a thread whose state did not change
// encodes to the same bytes it did last time, so rewrites of
// unchanged state are byte-stable.
var encMode cbor.EncMode

// decMode accepts standard CBOR and ignores unknown fields, so blobs
// written by a newer build still decode under an older one.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: building encode mode: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Message metadata fields are map[string]any. The CBOR default
		// for any-typed targets is map[interface{}]interface{} (CBOR
		// allows non-string keys), which encoding/json cannot handle
		// when the decoded state is re-serialized for API responses.
		// Trackdeck never writes non-string keys, so force string maps.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: building decode mode: " + err.Error())
	}
}

// Marshal encodes v with the deterministic encode mode.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
