// Package mine discovers process models from event logs.
//
// Discovery is a single deterministic pass over the log's traces: every
// activity becomes a node weighted by its occurrence count, every observed
// directly-follows pair becomes an edge weighted by how often it was
// observed, and the synthetic START/END sentinels bracket every trace.
package mine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/procdiff/procdiff/internal/eventlog"
)

// Sentinel activities, re-exported for callers that never touch eventlog.
const (
	StartActivity = eventlog.StartActivity
	EndActivity   = eventlog.EndActivity
)

// ErrEmptyLog indicates a log with no events, which cannot yield a model.
var ErrEmptyLog = errors.New("event log contains no events")

// EdgeKey identifies a directed directly-follows relation.
type EdgeKey struct {
	Source string
	Target string
}

func (k EdgeKey) String() string {
	return k.Source + " -> " + k.Target
}

// Model is a discovered process model: activities with occurrence counts and
// directly-follows edges with observation counts, including the START/END
// sentinels. Immutable once returned by Discover or FromGraph.
type Model struct {
	nodes map[string]int64
	edges map[EdgeKey]int64
}

// Activities returns all activity identifiers in lexicographic order.
func (m *Model) Activities() []string {
	ids := make([]string, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasActivity reports whether the model contains the given activity.
func (m *Model) HasActivity(id string) bool {
	_, ok := m.nodes[id]
	return ok
}

// Frequency returns the occurrence count of an activity. The second return
// is false when the activity is not part of the model.
func (m *Model) Frequency(id string) (int64, bool) {
	f, ok := m.nodes[id]
	return f, ok
}

// Edges returns all directly-follows edges ordered by (source, target).
func (m *Model) Edges() []EdgeKey {
	keys := make([]EdgeKey, 0, len(m.edges))
	for k := range m.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Source != keys[j].Source {
			return keys[i].Source < keys[j].Source
		}
		return keys[i].Target < keys[j].Target
	})
	return keys
}

// HasEdge reports whether the ordered pair is an edge of the model.
func (m *Model) HasEdge(source, target string) bool {
	_, ok := m.edges[EdgeKey{Source: source, Target: target}]
	return ok
}

// EdgeFrequency returns the observation count of a directly-follows edge.
func (m *Model) EdgeFrequency(source, target string) (int64, bool) {
	f, ok := m.edges[EdgeKey{Source: source, Target: target}]
	return f, ok
}

// NodeCount returns the number of activities, sentinels included.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of directly-follows edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// Discover mines a directly-follows model from an event log.
//
// Each trace contributes START -> first, every adjacent activity pair, and
// last -> END. Sentinel frequency is the trace count. An empty log fails
// with ErrEmptyLog; discovery never invents behavior that was not observed.
func Discover(log *eventlog.Log) (*Model, error) {
	m := &Model{
		nodes: make(map[string]int64),
		edges: make(map[EdgeKey]int64),
	}

	var traceCount int64
	for _, trace := range log.Traces() {
		if len(trace) == 0 {
			continue
		}
		traceCount++
		prev := StartActivity
		for _, act := range trace {
			m.nodes[act]++
			m.edges[EdgeKey{Source: prev, Target: act}]++
			prev = act
		}
		m.edges[EdgeKey{Source: prev, Target: EndActivity}]++
	}
	if traceCount == 0 {
		return nil, fmt.Errorf("log %q: %w", log.Name, ErrEmptyLog)
	}

	m.nodes[StartActivity] = traceCount
	m.nodes[EndActivity] = traceCount
	return m, nil
}

// GraphInput is the loose four-field contract produced by external discovery
// code: activity identifiers, per-activity frequencies, directed edges, and
// per-edge frequencies.
type GraphInput struct {
	Activities      []string
	Frequencies     map[string]int64
	Edges           []EdgeKey
	EdgeFrequencies map[EdgeKey]int64
}

// FromGraph adapts a loose graph into a typed Model, failing fast on any
// missing field or frequency instead of letting partial data reach the
// comparison core. Endpoint consistency is checked later, when two models
// are compared.
func FromGraph(in GraphInput) (*Model, error) {
	if in.Activities == nil || in.Frequencies == nil || in.Edges == nil || in.EdgeFrequencies == nil {
		return nil, errors.New("graph input: all four fields (activities, frequencies, edges, edge frequencies) are required")
	}

	m := &Model{
		nodes: make(map[string]int64, len(in.Activities)),
		edges: make(map[EdgeKey]int64, len(in.Edges)),
	}
	for _, id := range in.Activities {
		f, ok := in.Frequencies[id]
		if !ok {
			return nil, fmt.Errorf("graph input: activity %q has no frequency", id)
		}
		if f < 0 {
			return nil, fmt.Errorf("graph input: activity %q has negative frequency %d", id, f)
		}
		m.nodes[id] = f
	}
	for _, k := range in.Edges {
		f, ok := in.EdgeFrequencies[k]
		if !ok {
			return nil, fmt.Errorf("graph input: edge %s has no frequency", k)
		}
		if f < 0 {
			return nil, fmt.Errorf("graph input: edge %s has negative frequency %d", k, f)
		}
		m.edges[k] = f
	}
	return m, nil
}
