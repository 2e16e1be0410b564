package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procdiff/procdiff/internal/eventlog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "logs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleLog() *eventlog.Log {
	return &eventlog.Log{
		Name: "orders",
		Events: []eventlog.Event{
			{CaseID: "c1", Seq: 1, Activity: "register", RecordedAt: "2026-01-01T10:00:00"},
			{CaseID: "c1", Seq: 2, Activity: "approve"},
			{CaseID: "c2", Seq: 1, Activity: "register"},
			{CaseID: "c2", Seq: 2, Activity: "reject"},
		},
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestAppendAndReadLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendLog(ctx, "orders", sampleLog()))

	got, err := s.ReadLog(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", got.Name)
	require.Len(t, got.Events, 4)
	assert.Equal(t, "2026-01-01T10:00:00", got.Events[0].RecordedAt)

	traces := got.Traces()
	require.Len(t, traces, 2)
	assert.Equal(t, []string{"register", "approve"}, traces[0])
	assert.Equal(t, []string{"register", "reject"}, traces[1])
}

func TestReadLog_DeterministicOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Events inserted out of case/seq order still read back canonically.
	log := &eventlog.Log{
		Name: "shuffled",
		Events: []eventlog.Event{
			{CaseID: "c2", Seq: 1, Activity: "x"},
			{CaseID: "c1", Seq: 2, Activity: "b"},
			{CaseID: "c1", Seq: 1, Activity: "a"},
		},
	}
	require.NoError(t, s.AppendLog(ctx, "shuffled", log))

	got, err := s.ReadLog(ctx, "shuffled")
	require.NoError(t, err)
	require.Len(t, got.Events, 3)
	assert.Equal(t, "a", got.Events[0].Activity)
	assert.Equal(t, "b", got.Events[1].Activity)
	assert.Equal(t, "x", got.Events[2].Activity)
}

func TestAppendLog_DuplicateName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendLog(ctx, "orders", sampleLog()))
	err := s.AppendLog(ctx, "orders", sampleLog())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLogExists)
}

func TestAppendLog_Validation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.Error(t, s.AppendLog(ctx, "", sampleLog()))
	assert.Error(t, s.AppendLog(ctx, "empty", &eventlog.Log{Name: "empty"}))
}

func TestReadLog_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadLog(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestListLogs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	infos, err := s.ListLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, s.AppendLog(ctx, "orders", sampleLog()))
	other := sampleLog()
	other.Events = other.Events[:2]
	require.NoError(t, s.AppendLog(ctx, "claims", other))

	infos, err = s.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "claims", infos[0].Name)
	assert.Equal(t, 2, infos[0].Events)
	assert.Equal(t, "orders", infos[1].Name)
	assert.Equal(t, 4, infos[1].Events)
}
