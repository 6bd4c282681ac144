// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the shared SQLite connection pool.
//
// Everything in this repo that needs local structured storage (the
// checkpoint store above all) goes through this package. It wraps
// zombiezen.com/go/sqlite with production defaults: WAL journal mode,
// NORMAL synchronous for process-crash durability without
// fsync-per-commit overhead, and a busy timeout to ride out write
// contention.
//
// The pool is built on zombiezen's sqlitex.Pool, which manages a
// fixed-size set of connections. Callers [Pool.Take] a connection,
// perform work, and [Pool.Put] it back, or wrap both with
// [Pool.WithConn]. Connections are NOT safe for concurrent use — each
// goroutine must hold its own connection for the duration of its work.
//
// # Pragmas
//
// Every connection in the pool is initialized with these pragmas:
//
//   - journal_mode=WAL: write-ahead logging for concurrent readers and
//     a single writer. Reads never block writes; writes never block
//     reads.
//   - synchronous=NORMAL: transactions survive process crashes. Not
//     durable across OS crashes or power failure — acceptable for
//     conversation checkpoints, where the worst case is replaying the
//     last turn against the upstream tracker.
//   - busy_timeout=5000: wait up to 5 seconds for a write lock instead
//     of returning SQLITE_BUSY immediately.
//   - foreign_keys=OFF: callers manage referential integrity
//     explicitly. FK cascades across checkpoint tables are a footgun.
//   - temp_store=MEMORY: temporary tables and indexes in memory.
//
// There is no cache or mmap tuning: the checkpoint workload is point
// reads and writes of single rows by primary key, which SQLite's
// defaults already serve.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:     "/var/lib/trackdeck/checkpoints.db",
//	    PoolSize: 8,
//	    Logger:   logger,
//	    OnConnect: func(conn *sqlite.Conn) error {
//	        // Create tables, register functions, etc.
//	        return sqlitex.ExecuteScript(conn, schema, nil)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pool.WithConn(ctx, func(conn *sqlite.Conn) error {
//	    return sqlitex.Execute(conn, query, options)
//	})
//
// # Design
//
// This package is intentionally thin: it applies standard pragmas and
// exposes the underlying zombiezen types directly. There is no attempt
// to abstract away SQLite's connection model or invent a query builder.
// Callers write SQL, use sqlitex.Execute for cached statements, and
// get transactional writes from [Pool.WithTransaction], a borrow
// wrapped around sqlitex.ImmediateTransaction. The goal is a shared
// foundation (one dependency, one set of pragmas, one pool pattern)
// without an abstraction layer that fights SQLite's strengths.
package sqlitepool
