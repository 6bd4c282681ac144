// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trackdeck/trackdeck/lib/clock"
)

// postgresSchema mirrors the sqlite layout: Unix-millisecond BIGINT
// timestamps, zstd-compressed state blobs, JSONB kwargs.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS threads (
	thread_id  TEXT PRIMARY KEY,
	state      BYTEA NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	thread_id     TEXT NOT NULL,
	agent_key     TEXT NOT NULL,
	model         TEXT NOT NULL,
	input_tokens  BIGINT NOT NULL,
	output_tokens BIGINT NOT NULL,
	created_at    BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_by_thread ON runs (thread_id, created_at);

CREATE TABLE IF NOT EXISTS feedback (
	id         BIGSERIAL PRIMARY KEY,
	run_id     TEXT NOT NULL,
	key        TEXT NOT NULL,
	score      DOUBLE PRECISION NOT NULL,
	kwargs     JSONB,
	created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS feedback_by_run ON feedback (run_id, created_at);
`

// PostgresStore is the PostgreSQL-backed Store, for deployments where
// several service replicas share one checkpoint database.
type PostgresStore struct {
	pool   *pgxpool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

// OpenPostgres connects to cfg.PostgresURL and ensures the schema
// exists.
func OpenPostgres(ctx context.Context, cfg Config) (*PostgresStore, error) {
	cfg = cfg.withDefaults()
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("checkpoint: PostgresURL is required for the postgres backend")
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("checkpoint: creating postgres schema: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// PutThread implements Store.
func (store *PostgresStore) PutThread(ctx context.Context, state ThreadState) error {
	if state.ThreadID == "" {
		return fmt.Errorf("checkpoint: put thread: ThreadID is required")
	}
	blob, err := encodeState(state.Messages)
	if err != nil {
		return err
	}

	now := store.clock.Now().UnixMilli()
	_, err = store.pool.Exec(ctx, `
		INSERT INTO threads (thread_id, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (thread_id) DO UPDATE SET
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at`,
		state.ThreadID, blob, now, now)
	if err != nil {
		return fmt.Errorf("checkpoint: put thread %s: %w", state.ThreadID, err)
	}
	return nil
}

// GetThread implements Store.
func (store *PostgresStore) GetThread(ctx context.Context, threadID string) (*ThreadState, error) {
	var (
		blob      []byte
		updatedAt int64
	)
	err := store.pool.QueryRow(ctx,
		"SELECT state, updated_at FROM threads WHERE thread_id = $1",
		threadID).Scan(&blob, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checkpoint: get thread %s: %w", threadID, err)
	}

	messages, err := decodeState(blob)
	if err != nil {
		return nil, err
	}
	return &ThreadState{
		ThreadID:  threadID,
		Messages:  messages,
		UpdatedAt: time.UnixMilli(updatedAt).UTC(),
	}, nil
}

// RecordRun implements Store.
func (store *PostgresStore) RecordRun(ctx context.Context, run Run) error {
	if run.RunID == "" {
		return fmt.Errorf("checkpoint: record run: RunID is required")
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = store.clock.Now()
	}
	_, err := store.pool.Exec(ctx, `
		INSERT INTO runs
			(run_id, thread_id, agent_key, model, input_tokens, output_tokens, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.RunID, run.ThreadID, run.AgentKey, run.Model,
		run.InputTokens, run.OutputTokens, createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("checkpoint: record run %s: %w", run.RunID, err)
	}
	return nil
}

// RecordFeedback implements Store.
func (store *PostgresStore) RecordFeedback(ctx context.Context, feedback Feedback) error {
	if feedback.RunID == "" {
		return fmt.Errorf("checkpoint: record feedback: RunID is required")
	}
	kwargs, err := marshalKwargs(feedback.Kwargs)
	if err != nil {
		return err
	}

	createdAt := feedback.CreatedAt
	if createdAt.IsZero() {
		createdAt = store.clock.Now()
	}
	_, err = store.pool.Exec(ctx, `
		INSERT INTO feedback (run_id, key, score, kwargs, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		feedback.RunID, feedback.Key, feedback.Score,
		kwargs, createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("checkpoint: record feedback for run %s: %w", feedback.RunID, err)
	}
	return nil
}

// ListFeedback implements Store.
func (store *PostgresStore) ListFeedback(ctx context.Context, runID string) ([]Feedback, error) {
	rows, err := store.pool.Query(ctx, `
		SELECT run_id, key, score, kwargs, created_at
		FROM feedback WHERE run_id = $1 ORDER BY created_at, id`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: list feedback for run %s: %w", runID, err)
	}
	defer rows.Close()

	var entries []Feedback
	for rows.Next() {
		var (
			entry     Feedback
			kwargs    []byte
			createdAt int64
		)
		if err := rows.Scan(&entry.RunID, &entry.Key, &entry.Score, &kwargs, &createdAt); err != nil {
			return nil, fmt.Errorf("checkpoint: list feedback for run %s: %w", runID, err)
		}
		if len(kwargs) > 0 {
			if err := json.Unmarshal(kwargs, &entry.Kwargs); err != nil {
				return nil, fmt.Errorf("checkpoint: decoding kwargs for run %s: %w", runID, err)
			}
		}
		entry.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkpoint: list feedback for run %s: %w", runID, err)
	}
	return entries, nil
}

// Prune implements Store. All three deletes run in one transaction.
func (store *PostgresStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	tx, err := store.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("checkpoint: prune: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cutoff := store.clock.Now().Add(-olderThan).UnixMilli()

	if _, err := tx.Exec(ctx, `
		DELETE FROM feedback WHERE run_id IN (
			SELECT run_id FROM runs WHERE thread_id IN (
				SELECT thread_id FROM threads WHERE updated_at < $1))`,
		cutoff); err != nil {
		return 0, fmt.Errorf("checkpoint: prune feedback: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM runs WHERE thread_id IN (
			SELECT thread_id FROM threads WHERE updated_at < $1)`,
		cutoff); err != nil {
		return 0, fmt.Errorf("checkpoint: prune runs: %w", err)
	}

	tag, err := tx.Exec(ctx,
		"DELETE FROM threads WHERE updated_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("checkpoint: prune threads: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("checkpoint: prune: commit: %w", err)
	}

	deleted := tag.RowsAffected()
	if deleted > 0 {
		store.logger.Info("pruned idle threads",
			"deleted", deleted,
			"older_than", olderThan,
		)
	}
	return deleted, nil
}

// Close implements Store.
func (store *PostgresStore) Close() error {
	store.pool.Close()
	return nil
}
