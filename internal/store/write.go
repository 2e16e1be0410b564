package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/procdiff/procdiff/internal/eventlog"
)

// ErrLogExists indicates an ingest under a name that is already taken.
// Logs are immutable once written; re-ingesting requires a new name.
var ErrLogExists = errors.New("log already exists")

// AppendLog stores a complete event log under the given name in one
// transaction. Either every event is written or none.
func (s *Store) AppendLog(ctx context.Context, name string, log *eventlog.Log) error {
	if name == "" {
		return errors.New("log name must not be empty")
	}
	if len(log.Events) == 0 {
		return fmt.Errorf("log %q has no events", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO logs (name) VALUES (?)`, name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("log %q: %w", name, ErrLogExists)
		}
		return fmt.Errorf("insert log %q: %w", name, err)
	}
	logID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("log id for %q: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (log_id, case_id, seq, activity, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range log.Events {
		if _, err := stmt.ExecContext(ctx, logID, ev.CaseID, ev.Seq, ev.Activity, ev.RecordedAt); err != nil {
			return fmt.Errorf("insert event (case=%s, activity=%s): %w", ev.CaseID, ev.Activity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit log %q: %w", name, err)
	}
	return nil
}
