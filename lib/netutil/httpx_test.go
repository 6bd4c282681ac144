// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"fmt"
	"testing"
)

func TestReadResponse(t *testing.T) {
	t.Run("normal body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader([]byte(`{"status":"ok"}`)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"status":"ok"}` {
			t.Fatalf("got %q, want %q", data, `{"status":"ok"}`)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) != 0 {
			t.Fatalf("expected empty, got %d bytes", len(data))
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		_, err := ReadResponse(&failReader{})
		if err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestErrorBody(t *testing.T) {
	t.Run("returns body", func(t *testing.T) {
		got := ErrorBody(bytes.NewReader([]byte(`{"errorMessages":["Issue does not exist"]}`)))
		if string(got) != `{"errorMessages":["Issue does not exist"]}` {
			t.Fatalf("got %q, want %q", got, `{"errorMessages":["Issue does not exist"]}`)
		}
	})

	t.Run("caps oversized bodies", func(t *testing.T) {
		huge := bytes.Repeat([]byte("x"), int(maxErrorSize)*3)
		got := ErrorBody(bytes.NewReader(huge))
		if int64(len(got)) != maxErrorSize {
			t.Fatalf("got %d bytes, want the %d byte cap", len(got), maxErrorSize)
		}
	})

	t.Run("read error yields what arrived", func(t *testing.T) {
		if got := ErrorBody(&failReader{}); len(got) != 0 {
			t.Fatalf("expected nothing from a reader that fails immediately, got %q", got)
		}
	})
}

// failReader always returns an error on Read.
type failReader struct{}

func (*failReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("simulated read failure")
}
