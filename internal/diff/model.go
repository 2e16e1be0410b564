// Package diff builds and filters annotated union graphs over two discovered
// process models.
//
// The diff model is the union of both inputs with every node and edge
// labeled by provenance: present in both models, only in the first, or only
// in the second. Identity is purely the normalized activity identifier for
// nodes and the ordered (source, target) pair for edges; label derivation is
// strictly local to each entity and never inferred from neighbors.
//
// Build and Filter are pure: inputs are never mutated, each call returns a
// fresh model.
package diff

import (
	"sort"

	"github.com/procdiff/procdiff/internal/eventlog"
	"github.com/procdiff/procdiff/internal/mine"
)

// Origin classifies a node or edge by which input models contain it.
type Origin string

const (
	// OriginCommon marks entities present in both input models.
	OriginCommon Origin = "common"
	// OriginFirstOnly marks entities present only in the first model.
	OriginFirstOnly Origin = "first-only"
	// OriginSecondOnly marks entities present only in the second model.
	OriginSecondOnly Origin = "second-only"
)

// Valid reports whether o is one of the three defined origins.
func (o Origin) Valid() bool {
	return o == OriginCommon || o == OriginFirstOnly || o == OriginSecondOnly
}

// EdgeKey identifies an edge by its ordered endpoint pair.
type EdgeKey = mine.EdgeKey

// Node is an activity of the union graph. Freq1/Freq2 are the occurrence
// counts in each input model, nil when the activity is absent from that
// model.
type Node struct {
	ID     string
	Origin Origin
	Freq1  *int64
	Freq2  *int64
}

// Edge is a directly-follows relation of the union graph. A common edge
// keeps both observation counts; they may legitimately differ, and that
// difference is preserved for the consumer to report.
type Edge struct {
	Source string
	Target string
	Origin Origin
	Freq1  *int64
	Freq2  *int64
}

// Key returns the identity of the edge.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target}
}

// Model is the annotated union graph. Treat as read-only once built;
// filtering derives a new Model rather than mutating.
type Model struct {
	Nodes map[string]*Node
	Edges map[EdgeKey]*Edge
}

// Sentinel activities, re-exported for downstream consumers.
const (
	StartActivity = eventlog.StartActivity
	EndActivity   = eventlog.EndActivity
)

// IsSentinel reports whether id is a START/END sentinel.
func IsSentinel(id string) bool {
	return eventlog.IsSentinel(id)
}

// NodeIDs returns all node identifiers in lexicographic order.
func (m *Model) NodeIDs() []string {
	ids := make([]string, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EdgeKeys returns all edge keys ordered by (source, target).
func (m *Model) EdgeKeys() []EdgeKey {
	keys := make([]EdgeKey, 0, len(m.Edges))
	for k := range m.Edges {
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

// CountByOrigin tallies nodes and edges per origin.
func (m *Model) CountByOrigin() (nodes, edges map[Origin]int) {
	nodes = make(map[Origin]int)
	edges = make(map[Origin]int)
	for _, n := range m.Nodes {
		nodes[n.Origin]++
	}
	for _, e := range m.Edges {
		edges[e.Origin]++
	}
	return nodes, edges
}

func cloneFreq(f *int64) *int64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneNode(n *Node) *Node {
	return &Node{ID: n.ID, Origin: n.Origin, Freq1: cloneFreq(n.Freq1), Freq2: cloneFreq(n.Freq2)}
}

func cloneEdge(e *Edge) *Edge {
	return &Edge{Source: e.Source, Target: e.Target, Origin: e.Origin, Freq1: cloneFreq(e.Freq1), Freq2: cloneFreq(e.Freq2)}
}
