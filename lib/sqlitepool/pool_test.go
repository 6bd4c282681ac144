// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/trackdeck/trackdeck/lib/sqlitepool"
)

// threadsSchema mirrors the checkpoint store's hot table: text primary
// key, blob value.
const threadsSchema = `
CREATE TABLE IF NOT EXISTS threads (
	thread_id TEXT PRIMARY KEY,
	state     BLOB NOT NULL
) WITHOUT ROWID;
`

func TestOpenAppliesPragmas(t *testing.T) {
	pool := openTestPool(t, nil)

	err := pool.WithConn(context.Background(), func(conn *sqlite.Conn) error {
		var journalMode string
		err := sqlitex.Execute(conn, "PRAGMA journal_mode", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				journalMode = stmt.ColumnText(0)
				return nil
			},
		})
		if err != nil {
			return err
		}
		if journalMode != "wal" {
			t.Errorf("journal_mode = %q, want %q", journalMode, "wal")
		}

		var synchronous int
		err = sqlitex.Execute(conn, "PRAGMA synchronous", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				synchronous = stmt.ColumnInt(0)
				return nil
			},
		})
		if err != nil {
			return err
		}
		if synchronous != 1 {
			t.Errorf("synchronous = %d, want 1 (NORMAL)", synchronous)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithConn: %v", err)
	}
}

func TestOnConnectInstallsSchema(t *testing.T) {
	var calls int
	pool := openTestPool(t, func(conn *sqlite.Conn) error {
		calls++
		return sqlitex.ExecuteScript(conn, threadsSchema, nil)
	})

	err := pool.WithConn(context.Background(), func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"INSERT INTO threads (thread_id, state) VALUES (?, ?)",
			&sqlitex.ExecOptions{Args: []any{"thread-1", []byte{0x01}}})
	})
	if err != nil {
		t.Fatalf("insert through OnConnect schema: %v", err)
	}
	if calls == 0 {
		t.Error("OnConnect was not called")
	}
}

func TestWithConnPropagatesError(t *testing.T) {
	pool := openTestPool(t, nil)

	sentinel := errors.New("boom")
	err := pool.WithConn(context.Background(), func(*sqlite.Conn) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("WithConn error = %v, want the callback's error", err)
	}

	// The connection must have been returned: a pool of size 1 can
	// serve the next caller.
	err = pool.WithConn(context.Background(), func(*sqlite.Conn) error { return nil })
	if err != nil {
		t.Fatalf("WithConn after error: %v", err)
	}
}

func TestWithTransactionCommits(t *testing.T) {
	pool := openTestPool(t, func(conn *sqlite.Conn) error {
		return sqlitex.ExecuteScript(conn, threadsSchema, nil)
	})

	err := pool.WithTransaction(context.Background(), func(conn *sqlite.Conn) error {
		for _, id := range []string{"thread-1", "thread-2"} {
			err := sqlitex.Execute(conn,
				"INSERT INTO threads (thread_id, state) VALUES (?, ?)",
				&sqlitex.ExecOptions{Args: []any{id, []byte{0x01}}})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}

	if got := countThreads(t, pool); got != 2 {
		t.Errorf("threads after commit = %d, want 2", got)
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	pool := openTestPool(t, func(conn *sqlite.Conn) error {
		return sqlitex.ExecuteScript(conn, threadsSchema, nil)
	})

	sentinel := errors.New("abort")
	err := pool.WithTransaction(context.Background(), func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			"INSERT INTO threads (thread_id, state) VALUES (?, ?)",
			&sqlitex.ExecOptions{Args: []any{"thread-1", []byte{0x01}}})
		if err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithTransaction error = %v, want the callback's error", err)
	}

	if got := countThreads(t, pool); got != 0 {
		t.Errorf("threads after rollback = %d, want 0", got)
	}
}

func TestConcurrentReaders(t *testing.T) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     filepath.Join(t.TempDir(), "concurrent.db"),
		PoolSize: 4,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, threadsSchema, nil)
		},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer pool.Close()

	err = pool.WithConn(context.Background(), func(conn *sqlite.Conn) error {
		for i := range 5 {
			err := sqlitex.Execute(conn,
				"INSERT INTO threads (thread_id, state) VALUES (?, ?)",
				&sqlitex.ExecOptions{Args: []any{fmt.Sprintf("thread-%d", i), []byte{byte(i)}}})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	const readers = 8
	var waitGroup sync.WaitGroup
	failures := make(chan error, readers)

	for range readers {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			failures <- pool.WithConn(context.Background(), func(conn *sqlite.Conn) error {
				var rows int
				err := sqlitex.Execute(conn, "SELECT thread_id FROM threads", &sqlitex.ExecOptions{
					ResultFunc: func(*sqlite.Stmt) error {
						rows++
						return nil
					},
				})
				if err != nil {
					return err
				}
				if rows != 5 {
					return fmt.Errorf("rows = %d, want 5", rows)
				}
				return nil
			})
		}()
	}

	waitGroup.Wait()
	close(failures)
	for err := range failures {
		if err != nil {
			t.Error(err)
		}
	}
}

func TestEmptyPathRejected(t *testing.T) {
	_, err := sqlitepool.Open(sqlitepool.Config{})
	if err == nil {
		t.Fatal("expected error for empty Path")
	}
}

func TestTakeHonorsCancellation(t *testing.T) {
	pool := openTestPool(t, nil)

	// Hold the pool's only connection so the next Take must block.
	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	defer pool.Put(conn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pool.Take(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func countThreads(t *testing.T, pool *sqlitepool.Pool) int {
	t.Helper()

	var rows int
	err := pool.WithConn(context.Background(), func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT COUNT(*) FROM threads", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				rows = stmt.ColumnInt(0)
				return nil
			},
		})
	})
	if err != nil {
		t.Fatalf("counting threads: %v", err)
	}
	return rows
}

// openTestPool creates a single-connection pool backed by a temporary
// database file, closed when the test completes. One connection keeps
// reuse bugs visible: a leaked connection deadlocks the next borrow.
func openTestPool(t *testing.T, onConnect func(*sqlite.Conn) error) *sqlitepool.Pool {
	t.Helper()

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:      filepath.Join(t.TempDir(), "test.db"),
		PoolSize:  1,
		OnConnect: onConnect,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return pool
}
