// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/trackdeck/trackdeck/lib/codec"
	"github.com/trackdeck/trackdeck/lib/llm"
)

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. zstd.Encoder and zstd.Decoder
// are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("checkpoint: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("checkpoint: zstd decoder initialization failed: " + err.Error())
	}
}

// threadBlob is the persisted portion of a thread. The thread ID and
// timestamps live in table columns; only the transcript goes in the
// blob.
type threadBlob struct {
	Messages []llm.Message
}

// encodeState serializes a transcript to its storage form:
// deterministic CBOR compressed with zstd.
func encodeState(messages []llm.Message) ([]byte, error) {
	raw, err := codec.Marshal(threadBlob{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: encoding thread state: %w", err)
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

// decodeState reverses encodeState.
func decodeState(blob []byte) ([]llm.Message, error) {
	raw, err := zstdDecoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: decompressing thread state: %w", err)
	}
	var state threadBlob
	if err := codec.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("checkpoint: decoding thread state: %w", err)
	}
	return state.Messages, nil
}
