package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header names accepted for each column, matched case-insensitively.
// The XES-style names (concept:name, time:timestamp) cover exported logs
// from common process-mining tools.
var (
	caseColumns     = []string{"case", "case_id", "caseid", "case id", "trace", "case:concept:name"}
	activityColumns = []string{"activity", "event", "task", "action", "concept:name"}
	seqColumns      = []string{"seq", "sequence", "index", "position"}
	timeColumns     = []string{"timestamp", "time", "recorded_at", "time:timestamp"}
)

// ReadCSV parses a tabular event log with a header row.
//
// A case column and an activity column are required; sequence and timestamp
// columns are optional. Without a sequence column, events keep their input
// order. Every activity label is normalized; a label the Normalizer rejects
// fails the whole read with the offending row number.
func ReadCSV(r io.Reader, name string) (*Log, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file, expected a header row", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", name, err)
	}

	caseIdx := findColumn(header, caseColumns)
	actIdx := findColumn(header, activityColumns)
	if caseIdx < 0 {
		return nil, fmt.Errorf("%s: no case column found (accepted: %s)", name, strings.Join(caseColumns, ", "))
	}
	if actIdx < 0 {
		return nil, fmt.Errorf("%s: no activity column found (accepted: %s)", name, strings.Join(activityColumns, ", "))
	}
	seqIdx := findColumn(header, seqColumns)
	timeIdx := findColumn(header, timeColumns)

	norm := NewNormalizer()
	log := &Log{Name: name}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, row, err)
		}

		caseID := strings.TrimSpace(rec[caseIdx])
		if caseID == "" {
			return nil, fmt.Errorf("%s:%d: empty case id", name, row)
		}
		activity, err := norm.Normalize(rec[actIdx])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, row, err)
		}

		ev := Event{CaseID: caseID, Activity: activity, Seq: int64(row)}
		if seqIdx >= 0 {
			seq, err := strconv.ParseInt(strings.TrimSpace(rec[seqIdx]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: invalid sequence value %q", name, row, rec[seqIdx])
			}
			ev.Seq = seq
		}
		if timeIdx >= 0 {
			ev.RecordedAt = strings.TrimSpace(rec[timeIdx])
		}
		log.Events = append(log.Events, ev)
	}

	return log, nil
}

// findColumn returns the index of the first header cell matching any of the
// accepted names, or -1.
func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}
