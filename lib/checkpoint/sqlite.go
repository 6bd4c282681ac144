// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/trackdeck/trackdeck/lib/clock"
	"github.com/trackdeck/trackdeck/lib/sqlitepool"
)

// sqliteSchema is created on every connection; all statements are
// idempotent. Timestamps are Unix milliseconds. Referential integrity
// across the three tables is managed by Prune, not by FK cascades.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS threads (
	thread_id  TEXT PRIMARY KEY,
	state      BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	thread_id     TEXT NOT NULL,
	agent_key     TEXT NOT NULL,
	model         TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	created_at    INTEGER NOT NULL
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS runs_by_thread ON runs (thread_id, created_at);

CREATE TABLE IF NOT EXISTS feedback (
	id         INTEGER PRIMARY KEY,
	run_id     TEXT NOT NULL,
	key        TEXT NOT NULL,
	score      REAL NOT NULL,
	kwargs     TEXT,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS feedback_by_run ON feedback (run_id, created_at);
`

// SQLiteStore is the sqlite-backed Store.
type SQLiteStore struct {
	pool   *sqlitepool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

// OpenSQLite opens the sqlite backend at cfg.SQLitePath, creating the
// database and schema as needed.
func OpenSQLite(cfg Config) (*SQLiteStore, error) {
	cfg = cfg.withDefaults()
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("checkpoint: SQLitePath is required for the sqlite backend")
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.SQLitePath,
		PoolSize: cfg.PoolSize,
		Logger:   cfg.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, sqliteSchema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}

	return &SQLiteStore{
		pool:   pool,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// PutThread implements Store. The upsert keeps the original created_at
// and bumps updated_at.
func (store *SQLiteStore) PutThread(ctx context.Context, state ThreadState) error {
	if state.ThreadID == "" {
		return fmt.Errorf("checkpoint: put thread: ThreadID is required")
	}
	blob, err := encodeState(state.Messages)
	if err != nil {
		return err
	}

	now := store.clock.Now().UnixMilli()
	err = store.pool.WithConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			INSERT INTO threads (thread_id, state, created_at, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (thread_id) DO UPDATE SET
				state = excluded.state,
				updated_at = excluded.updated_at`,
			&sqlitex.ExecOptions{
				Args: []any{state.ThreadID, blob, now, now},
			})
	})
	if err != nil {
		return fmt.Errorf("checkpoint: put thread %s: %w", state.ThreadID, err)
	}
	return nil
}

// GetThread implements Store.
func (store *SQLiteStore) GetThread(ctx context.Context, threadID string) (*ThreadState, error) {
	var state *ThreadState
	err := store.pool.WithConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT state, updated_at FROM threads WHERE thread_id = ?",
			&sqlitex.ExecOptions{
				Args: []any{threadID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					blob := make([]byte, stmt.ColumnLen(0))
					stmt.ColumnBytes(0, blob)
					messages, err := decodeState(blob)
					if err != nil {
						return err
					}
					state = &ThreadState{
						ThreadID:  threadID,
						Messages:  messages,
						UpdatedAt: time.UnixMilli(stmt.ColumnInt64(1)).UTC(),
					}
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: get thread %s: %w", threadID, err)
	}
	if state == nil {
		return nil, ErrNotFound
	}
	return state, nil
}

// RecordRun implements Store.
func (store *SQLiteStore) RecordRun(ctx context.Context, run Run) error {
	if run.RunID == "" {
		return fmt.Errorf("checkpoint: record run: RunID is required")
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = store.clock.Now()
	}
	err := store.pool.WithConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			INSERT INTO runs
				(run_id, thread_id, agent_key, model, input_tokens, output_tokens, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{
					run.RunID, run.ThreadID, run.AgentKey, run.Model,
					run.InputTokens, run.OutputTokens, createdAt.UnixMilli(),
				},
			})
	})
	if err != nil {
		return fmt.Errorf("checkpoint: record run %s: %w", run.RunID, err)
	}
	return nil
}

// RecordFeedback implements Store.
func (store *SQLiteStore) RecordFeedback(ctx context.Context, feedback Feedback) error {
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
	err = store.pool.WithConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			INSERT INTO feedback (run_id, key, score, kwargs, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{
					feedback.RunID, feedback.Key, feedback.Score,
					kwargs, createdAt.UnixMilli(),
				},
			})
	})
	if err != nil {
		return fmt.Errorf("checkpoint: record feedback for run %s: %w", feedback.RunID, err)
	}
	return nil
}

// ListFeedback implements Store.
func (store *SQLiteStore) ListFeedback(ctx context.Context, runID string) ([]Feedback, error) {
	var entries []Feedback
	err := store.pool.WithConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			SELECT run_id, key, score, kwargs, created_at
			FROM feedback WHERE run_id = ? ORDER BY created_at, id`,
			&sqlitex.ExecOptions{
				Args: []any{runID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					entry := Feedback{
						RunID:     stmt.ColumnText(0),
						Key:       stmt.ColumnText(1),
						Score:     stmt.ColumnFloat(2),
						CreatedAt: time.UnixMilli(stmt.ColumnInt64(4)).UTC(),
					}
					if kwargs := stmt.ColumnText(3); kwargs != "" {
						if err := json.Unmarshal([]byte(kwargs), &entry.Kwargs); err != nil {
							return fmt.Errorf("decoding kwargs: %w", err)
						}
					}
					entries = append(entries, entry)
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: list feedback for run %s: %w", runID, err)
	}
	return entries, nil
}

// Prune implements Store. Thread deletion and the cleanup of dependent
// runs and feedback happen in one immediate transaction so a crash
// cannot leave orphaned accounting rows.
func (store *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := store.clock.Now().Add(-olderThan).UnixMilli()

	var deleted int64
	err := store.pool.WithTransaction(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `
			DELETE FROM feedback WHERE run_id IN (
				SELECT run_id FROM runs WHERE thread_id IN (
					SELECT thread_id FROM threads WHERE updated_at < ?))`,
			&sqlitex.ExecOptions{Args: []any{cutoff}})
		if err != nil {
			return fmt.Errorf("feedback: %w", err)
		}

		err = sqlitex.Execute(conn, `
			DELETE FROM runs WHERE thread_id IN (
				SELECT thread_id FROM threads WHERE updated_at < ?)`,
			&sqlitex.ExecOptions{Args: []any{cutoff}})
		if err != nil {
			return fmt.Errorf("runs: %w", err)
		}

		err = sqlitex.Execute(conn,
			"DELETE FROM threads WHERE updated_at < ?",
			&sqlitex.ExecOptions{Args: []any{cutoff}})
		if err != nil {
			return fmt.Errorf("threads: %w", err)
		}
		deleted = int64(conn.Changes())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("checkpoint: prune: %w", err)
	}

	if deleted > 0 {
		store.logger.Info("pruned idle threads",
			"deleted", deleted,
			"older_than", olderThan,
		)
	}
	return deleted, nil
}

// Close implements Store.
func (store *SQLiteStore) Close() error {
	return store.pool.Close()
}

// marshalKwargs renders feedback kwargs as JSON text, or nil when
// empty.
func marshalKwargs(kwargs map[string]any) (any, error) {
	if len(kwargs) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(kwargs)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: encoding feedback kwargs: %w", err)
	}
	return string(data), nil
}
