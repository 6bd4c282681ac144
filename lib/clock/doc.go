// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock (usually via a Config struct) instead
// of calling time.Now, time.After, time.NewTicker, or time.Sleep
// directly. Real() gives standard library behavior; Fake() gives a
// deterministic clock that moves only when Advance is called.
//
// When a goroutine calls Sleep, After, or NewTicker on a FakeClock it
// registers a pending waiter. WaitForTimers blocks until a given number
// of waiters exist, so a test can advance the clock only after the code
// under test has actually started waiting:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	server := &Server{clock: fake}
//	// ... start the code under test ...
//	fake.WaitForTimers(1)
//	fake.Advance(15 * time.Second)
package clock
