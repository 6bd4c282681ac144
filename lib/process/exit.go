// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
)

// Fatal reports an entrypoint error on stderr and exits 1. It is for
// main() alone: past config.Load the structured logger exists, and
// errors should flow back through run() instead of exiting in place.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
