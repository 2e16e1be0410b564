// Package store provides SQLite-backed durable storage for event logs.
//
// The store is an append-only collection of named logs. Ingest writes a log
// once; comparisons read it back any number of times. Reads are
// deterministic: events come back ORDER BY case_id, seq, rowid so the same
// database always yields the same traces, regardless of ingest batching.
//
// Database configuration:
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
