// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/trackdeck/trackdeck/lib/clock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitForThreadGone polls until the thread disappears, failing the
// test if the sweep window passes without a deletion. Polling uses
// real time on purpose: it waits for the sweeper goroutine, not for
// the fake clock.
func waitForThreadGone(t *testing.T, store Store, threadID string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_, err := store.GetThread(context.Background(), threadID)
		if errors.Is(err, ErrNotFound) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("thread %q still present after sweep window", threadID)
}

func TestSweeperPrunesOnSchedule(t *testing.T) {
	store, fakeClock := openTestStore(t)
	ctx := context.Background()

	if err := store.PutThread(ctx, ThreadState{ThreadID: "stale", Messages: testTranscript()}); err != nil {
		t.Fatalf("PutThread: %v", err)
	}
	// Age the first thread past retention before the sweeper starts.
	fakeClock.Advance(48 * time.Hour)

	sweeper := NewSweeper(SweeperConfig{
		Store:     store,
		Retention: 24 * time.Hour,
		Interval:  time.Hour,
		Clock:     fakeClock,
		Logger:    discardLogger(),
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		sweeper.Run(runCtx)
		close(done)
	}()

	// The initial sweep catches the pre-aged thread.
	waitForThreadGone(t, store, "stale")

	// A thread written now survives until the clock passes retention.
	if err := store.PutThread(ctx, ThreadState{ThreadID: "second", Messages: testTranscript()}); err != nil {
		t.Fatalf("PutThread: %v", err)
	}

	// The ticker registered at Run start; advancing past retention
	// both fires it and ages the thread out.
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(25 * time.Hour)
	waitForThreadGone(t, store, "second")

	cancel()
	select {
	case <-done:
	case <-t.Context().Done():
		t.Fatal("sweeper did not stop on cancel")
	}
}

func TestSweeperSurvivesBackendErrors(t *testing.T) {
	store := newPruneFailStore()
	fakeClock := clock.Fake(checkpointTestEpoch)

	sweeper := NewSweeper(SweeperConfig{
		Store:     store,
		Retention: 24 * time.Hour,
		Interval:  time.Hour,
		Clock:     fakeClock,
		Logger:    discardLogger(),
	})

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		sweeper.Run(runCtx)
		close(done)
	}()

	// The initial sweep fails. The schedule must continue: the next
	// tick has to produce another Prune attempt.
	store.waitForCalls(t, 1)
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(time.Hour)
	store.waitForCalls(t, 1)

	cancel()
	select {
	case <-done:
	case <-t.Context().Done():
		t.Fatal("sweeper did not stop on cancel after failed sweeps")
	}
}

func TestNewSweeperValidation(t *testing.T) {
	store, _ := openTestStore(t)

	mustPanic := func(t *testing.T, config SweeperConfig) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Error("NewSweeper accepted an invalid config")
			}
		}()
		NewSweeper(config)
	}

	t.Run("no_store", func(t *testing.T) {
		mustPanic(t, SweeperConfig{Retention: time.Hour, Logger: discardLogger()})
	})
	t.Run("no_retention", func(t *testing.T) {
		mustPanic(t, SweeperConfig{Store: store, Logger: discardLogger()})
	})
	t.Run("no_logger", func(t *testing.T) {
		mustPanic(t, SweeperConfig{Store: store, Retention: time.Hour})
	})
}

// pruneFailStore is a Store whose Prune always fails. The sweeper
// touches nothing else, so the remaining methods panic if called.
type pruneFailStore struct {
	calls chan struct{}
}

func newPruneFailStore() *pruneFailStore {
	return &pruneFailStore{calls: make(chan struct{}, 16)}
}

func (store *pruneFailStore) Prune(context.Context, time.Duration) (int64, error) {
	store.calls <- struct{}{}
	return 0, errors.New("backend unavailable")
}

// waitForCalls blocks until n further Prune attempts have been seen.
func (store *pruneFailStore) waitForCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-store.calls:
		case <-deadline:
			t.Fatalf("saw %d Prune calls, want %d more", i, n)
		}
	}
}

func (store *pruneFailStore) PutThread(context.Context, ThreadState) error {
	panic("unexpected PutThread")
}

func (store *pruneFailStore) GetThread(context.Context, string) (*ThreadState, error) {
	panic("unexpected GetThread")
}

func (store *pruneFailStore) RecordRun(context.Context, Run) error {
	panic("unexpected RecordRun")
}

func (store *pruneFailStore) RecordFeedback(context.Context, Feedback) error {
	panic("unexpected RecordFeedback")
}

func (store *pruneFailStore) ListFeedback(context.Context, string) ([]Feedback, error) {
	panic("unexpected ListFeedback")
}

func (store *pruneFailStore) Close() error { return nil }
