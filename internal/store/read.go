package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/procdiff/procdiff/internal/eventlog"
)

// ErrLogNotFound indicates a read of a log name that was never ingested.
var ErrLogNotFound = errors.New("log not found")

// LogInfo summarizes one stored log.
type LogInfo struct {
	Name      string `json:"name"`
	Events    int    `json:"events"`
	CreatedAt string `json:"created_at"`
}

// ReadLog returns the named event log. Events come back ordered by
// (case_id, seq, rowid) so repeated reads always produce identical traces.
func (s *Store) ReadLog(ctx context.Context, name string) (*eventlog.Log, error) {
	var logID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM logs WHERE name = ?`, name).Scan(&logID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("log %q: %w", name, ErrLogNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup log %q: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT case_id, seq, activity, recorded_at
		FROM events
		WHERE log_id = ?
		ORDER BY case_id ASC, seq ASC, id ASC
	`, logID)
	if err != nil {
		return nil, fmt.Errorf("query events of %q: %w", name, err)
	}
	defer rows.Close()

	log := &eventlog.Log{Name: name}
	for rows.Next() {
		var ev eventlog.Event
		if err := rows.Scan(&ev.CaseID, &ev.Seq, &ev.Activity, &ev.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan event of %q: %w", name, err)
		}
		log.Events = append(log.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events of %q: %w", name, err)
	}

	return log, nil
}

// ListLogs returns all stored logs with event counts, ordered by name.
func (s *Store) ListLogs(ctx context.Context) ([]LogInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.name, l.created_at, COUNT(e.id)
		FROM logs l
		LEFT JOIN events e ON e.log_id = l.id
		GROUP BY l.id
		ORDER BY l.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	infos := []LogInfo{}
	for rows.Next() {
		var info LogInfo
		if err := rows.Scan(&info.Name, &info.CreatedAt, &info.Events); err != nil {
			return nil, fmt.Errorf("scan log info: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return infos, nil
}
