// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"bufio"
	"io"
	"strings"
)

// SSEEvent is one parsed Server-Sent Event.
type SSEEvent struct {
	// Type comes from the "event:" field, or is empty when the event
	// used the default type.
	Type string

	// Data holds the payload. An event spanning several "data:" lines
	// has them joined with newlines, as the format prescribes.
	Data string
}

// SSEScanner parses the W3C Server-Sent Events text format from an
// [io.Reader]: blank-line-delimited events whose "data:" lines carry
// the payload and whose "event:" line names the type. Comments
// (leading ":") and fields this package has no use for are skipped.
//
// Iterate with [Next] and inspect [Err] afterward:
//
//	scanner := NewSSEScanner(body)
//	for scanner.Next() {
//	    handle(scanner.Event())
//	}
//	if err := scanner.Err(); err != nil {
//	    return err
//	}
type SSEScanner struct {
	reader  *bufio.Reader
	current SSEEvent
	err     error
}

// NewSSEScanner creates a scanner reading SSE events from reader.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	return &SSEScanner{
		reader: bufio.NewReaderSize(reader, 64*1024),
	}
}

// Next advances to the next event, reporting false at end of stream
// or on error. [Err] tells the two apart.
func (scanner *SSEScanner) Next() bool {
	scanner.current = SSEEvent{}

	var dataLines []string
	var eventType string
	haveData := false

	emit := func() bool {
		if !haveData {
			return false
		}
		scanner.current = SSEEvent{
			Type: eventType,
			Data: strings.Join(dataLines, "\n"),
		}
		return true
	}

	for {
		rawLine, readErr := scanner.reader.ReadString('\n')
		line := strings.TrimRight(rawLine, "\r\n")

		switch {
		case line == "" && readErr == nil:
			// Blank line terminates the event.
			if emit() {
				return true
			}
			// Nothing buffered yet; reset and keep scanning.
			eventType = ""

		case line == "":
			// EOF or read error with no partial line; handled below.

		case strings.HasPrefix(line, ":"):
			// Comment line; ignored per spec.

		default:
			field, value, hasColon := strings.Cut(line, ":")
			if hasColon {
				// A single space after the colon is part of the
				// delimiter, not the value.
				value = strings.TrimPrefix(value, " ")
			} else {
				field, value = line, ""
			}
			switch field {
			case "data":
				dataLines = append(dataLines, value)
				haveData = true
			case "event":
				eventType = value
			default:
				// "id", "retry", and unknown fields are ignored.
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				// Set EOF so the next call to Next returns false, and
				// emit any event accumulated before the stream ended
				// without a trailing blank line.
				scanner.err = io.EOF
				return emit()
			}
			scanner.err = readErr
			return false
		}
	}
}

// Event returns the event parsed by the last successful [Next].
func (scanner *SSEScanner) Event() SSEEvent {
	return scanner.current
}

// Err returns the error that stopped scanning, or nil after a clean
// end of stream.
func (scanner *SSEScanner) Err() error {
	if scanner.err == io.EOF {
		return nil
	}
	return scanner.err
}
