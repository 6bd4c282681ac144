// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"context"
	"log/slog"
	"time"

	"github.com/trackdeck/trackdeck/lib/clock"
)

// SweeperConfig configures a [Sweeper].
type SweeperConfig struct {
	// Store is the store to sweep. Required.
	Store Store

	// Retention is the idle age beyond which threads are deleted.
	// Required, positive.
	Retention time.Duration

	// Interval is the pause between sweeps. Defaults to one hour.
	Interval time.Duration

	// Clock schedules the sweeps. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives sweep results. Required.
	Logger *slog.Logger
}

// Sweeper deletes idle threads on a schedule. The service runs one
// when THREAD_RETENTION is set; without it, threads accumulate until
// someone prunes by hand.
type Sweeper struct {
	store     Store
	retention time.Duration
	interval  time.Duration
	clock     clock.Clock
	logger    *slog.Logger
}

// NewSweeper creates a sweeper. Call Run to start sweeping.
func NewSweeper(config SweeperConfig) *Sweeper {
	if config.Store == nil {
		panic("checkpoint.Sweeper: Store is required")
	}
	if config.Retention <= 0 {
		panic("checkpoint.Sweeper: Retention must be positive")
	}
	if config.Logger == nil {
		panic("checkpoint.Sweeper: Logger is required")
	}

	interval := config.Interval
	if interval == 0 {
		interval = time.Hour
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	return &Sweeper{
		store:     config.Store,
		retention: config.Retention,
		interval:  interval,
		clock:     clk,
		logger:    config.Logger,
	}
}

// Run sweeps immediately, then once per interval, until ctx is
// cancelled. Sweep failures are logged and the schedule continues; a
// transient backend error should not end retention for the rest of
// the process lifetime.
func (sweeper *Sweeper) Run(ctx context.Context) {
	ticker := sweeper.clock.NewTicker(sweeper.interval)
	defer ticker.Stop()

	for {
		sweeper.sweep(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (sweeper *Sweeper) sweep(ctx context.Context) {
	deleted, err := sweeper.store.Prune(ctx, sweeper.retention)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		sweeper.logger.Error("thread sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		sweeper.logger.Info("idle threads swept",
			"deleted", deleted,
			"retention", sweeper.retention.String())
	}
}
