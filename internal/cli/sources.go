package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/procdiff/procdiff/internal/eventlog"
	"github.com/procdiff/procdiff/internal/manifest"
	"github.com/procdiff/procdiff/internal/mine"
	"github.com/procdiff/procdiff/internal/store"
)

// loadLog materializes one event log from its source description.
func loadLog(ctx context.Context, src manifest.Source) (*eventlog.Log, error) {
	switch {
	case src.CSV != "":
		f, err := os.Open(src.CSV)
		if err != nil {
			return nil, fmt.Errorf("opening log: %w", err)
		}
		defer f.Close()
		return eventlog.ReadCSV(f, filepath.Base(src.CSV))
	case src.Store != "":
		st, err := store.Open(src.Store)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.ReadLog(ctx, src.Log)
	default:
		return nil, errors.New("no log source specified")
	}
}

// discoverSource loads a log and mines its model.
func discoverSource(ctx context.Context, src manifest.Source) (*mine.Model, error) {
	log, err := loadLog(ctx, src)
	if err != nil {
		return nil, err
	}
	return mine.Discover(log)
}

// discoverBoth mines the two models concurrently. The discoveries are
// independent; both must be materialized before the diff is built.
func discoverBoth(ctx context.Context, first, second manifest.Source) (*mine.Model, *mine.Model, error) {
	var (
		wg     sync.WaitGroup
		m1, m2 *mine.Model
		e1, e2 error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		m1, e1 = discoverSource(ctx, first)
	}()
	go func() {
		defer wg.Done()
		m2, e2 = discoverSource(ctx, second)
	}()
	wg.Wait()

	if e1 != nil {
		return nil, nil, fmt.Errorf("first model: %w", e1)
	}
	if e2 != nil {
		return nil, nil, fmt.Errorf("second model: %w", e2)
	}
	return m1, m2, nil
}
