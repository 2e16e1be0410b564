package eventlog

import "sort"

// Reserved sentinel identifiers. Discovery injects these as the synthetic
// entry and exit activities of every model; no recorded event may carry them.
const (
	StartActivity = "START"
	EndActivity   = "END"
)

// IsSentinel reports whether id is one of the reserved sentinel activities.
func IsSentinel(id string) bool {
	return id == StartActivity || id == EndActivity
}

// Event is a single recorded process event: one activity executed for one case.
type Event struct {
	// CaseID groups events belonging to the same process instance.
	CaseID string

	// Seq orders events within a case. When the source carries no explicit
	// sequence column, readers assign input order.
	Seq int64

	// Activity is the normalized activity label.
	Activity string

	// RecordedAt is the source timestamp, carried through verbatim for
	// display. NEVER used for ordering.
	RecordedAt string
}

// Log is an ordered collection of events, typically one ingested file.
type Log struct {
	Name   string
	Events []Event
}

// Traces groups the log's events into per-case activity sequences.
//
// Cases appear in order of first appearance in the log; events within a case
// are ordered by Seq, ties broken by input order. The result is fully
// determined by the log contents, independent of map iteration order.
func (l *Log) Traces() [][]string {
	var order []string
	byCase := make(map[string][]Event)
	for _, ev := range l.Events {
		if _, seen := byCase[ev.CaseID]; !seen {
			order = append(order, ev.CaseID)
		}
		byCase[ev.CaseID] = append(byCase[ev.CaseID], ev)
	}

	traces := make([][]string, 0, len(order))
	for _, caseID := range order {
		evs := byCase[caseID]
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].Seq < evs[j].Seq })
		trace := make([]string, len(evs))
		for i, ev := range evs {
			trace[i] = ev.Activity
		}
		traces = append(traces, trace)
	}
	return traces
}

// CaseCount returns the number of distinct cases in the log.
func (l *Log) CaseCount() int {
	seen := make(map[string]struct{})
	for _, ev := range l.Events {
		seen[ev.CaseID] = struct{}{}
	}
	return len(seen)
}
