package diff

import (
	"fmt"

	"github.com/procdiff/procdiff/internal/mine"
)

// Side names an input model position in a comparison.
type Side int

const (
	// SideFirst is the first operand of Build.
	SideFirst Side = 1
	// SideSecond is the second operand of Build.
	SideSecond Side = 2
)

// String returns "first" or "second".
func (s Side) String() string {
	if s == SideFirst {
		return "first"
	}
	return "second"
}

// Build merges two discovered models into one provenance-labeled union graph.
//
// Both inputs are validated first: every edge endpoint must exist in its own
// model's activity set and each model must have at least one edge. Origin is
// computed per entity by explicit three-way set partition; frequencies are
// carried from whichever side(s) contain the entity and stay nil otherwise.
//
// Build is pure and deterministic. Swapping the operands yields the same
// graph with FirstOnly and SecondOnly exchanged and Freq1 and Freq2
// exchanged on every element.
func Build(first, second *mine.Model) (*Model, error) {
	if err := validateInput(first, SideFirst); err != nil {
		return nil, err
	}
	if err := validateInput(second, SideSecond); err != nil {
		return nil, err
	}

	m := &Model{
		Nodes: make(map[string]*Node),
		Edges: make(map[EdgeKey]*Edge),
	}

	for _, id := range first.Activities() {
		m.Nodes[id] = buildNode(id, first, second)
	}
	for _, id := range second.Activities() {
		if _, done := m.Nodes[id]; !done {
			m.Nodes[id] = buildNode(id, first, second)
		}
	}

	for _, k := range first.Edges() {
		m.Edges[k] = buildEdge(k, first, second)
	}
	for _, k := range second.Edges() {
		if _, done := m.Edges[k]; !done {
			m.Edges[k] = buildEdge(k, first, second)
		}
	}

	return m, nil
}

// validateInput fails fast on inputs the comparison must not repair.
func validateInput(m *mine.Model, side Side) error {
	if m == nil {
		return newSchemaMismatch(side.String(), "", "input model is nil")
	}
	if m.EdgeCount() == 0 {
		return newDegenerateModel(side.String())
	}
	for _, k := range m.Edges() {
		if !m.HasActivity(k.Source) {
			return newSchemaMismatch(side.String(), k.String(),
				fmt.Sprintf("edge source %q missing from the model's activity set", k.Source))
		}
		if !m.HasActivity(k.Target) {
			return newSchemaMismatch(side.String(), k.String(),
				fmt.Sprintf("edge target %q missing from the model's activity set", k.Target))
		}
	}
	return nil
}

func originOf(inFirst, inSecond bool) Origin {
	switch {
	case inFirst && inSecond:
		return OriginCommon
	case inFirst:
		return OriginFirstOnly
	default:
		return OriginSecondOnly
	}
}

func buildNode(id string, first, second *mine.Model) *Node {
	n := &Node{ID: id, Origin: originOf(first.HasActivity(id), second.HasActivity(id))}
	if f, ok := first.Frequency(id); ok {
		n.Freq1 = &f
	}
	if f, ok := second.Frequency(id); ok {
		n.Freq2 = &f
	}
	return n
}

func buildEdge(k EdgeKey, first, second *mine.Model) *Edge {
	e := &Edge{
		Source: k.Source,
		Target: k.Target,
		Origin: originOf(first.HasEdge(k.Source, k.Target), second.HasEdge(k.Source, k.Target)),
	}
	if f, ok := first.EdgeFrequency(k.Source, k.Target); ok {
		e.Freq1 = &f
	}
	if f, ok := second.EdgeFrequency(k.Source, k.Target); ok {
		e.Freq2 = &f
	}
	return e
}
