package diff

import "math"

// DefaultThreshold matches the conventional dependency cutoff of heuristic
// process discovery, so the filtered view keeps the edges the miner itself
// would consider significant.
const DefaultThreshold = 0.9

// SignificanceFunc scores an edge within one source model of the comparison,
// using only that side's frequencies as recorded in the union graph. Edges
// the side does not contain score 0.
type SignificanceFunc func(m *Model, side Side, e *Edge) float64

func freqOn(e *Edge, side Side) *int64 {
	if side == SideFirst {
		return e.Freq1
	}
	return e.Freq2
}

// RelativeOutFrequency scores an edge by its share of the source node's
// total outgoing frequency on the given side. A node's sole outgoing edge
// scores 1; an edge absent from the side scores 0.
func RelativeOutFrequency(m *Model, side Side, e *Edge) float64 {
	f := freqOn(e, side)
	if f == nil {
		return 0
	}
	var total int64
	for _, other := range m.Edges {
		if other.Source != e.Source {
			continue
		}
		if of := freqOn(other, side); of != nil {
			total += *of
		}
	}
	if total == 0 {
		return 0
	}
	return float64(*f) / float64(total)
}

// Dependency scores an edge by the heuristics-miner dependency ratio:
// (f(a,b) - f(b,a)) / (f(a,b) + f(b,a) + 1), and f(a,a) / (f(a,a) + 1) for
// self-loops. Values below 0 (the reverse direction dominates) never pass a
// threshold in [0, 1] unless the threshold is 0.
func Dependency(m *Model, side Side, e *Edge) float64 {
	f := freqOn(e, side)
	if f == nil {
		return 0
	}
	fwd := *f
	if e.Source == e.Target {
		return float64(fwd) / float64(fwd+1)
	}
	var rev int64
	if other, ok := m.Edges[EdgeKey{Source: e.Target, Target: e.Source}]; ok {
		if rf := freqOn(other, side); rf != nil {
			rev = *rf
		}
	}
	return float64(fwd-rev) / float64(fwd+rev+1)
}

// Filter derives a reduced view of the model, dropping edges whose
// significance is below threshold in every source model containing them.
//
// Sentinel nodes and every edge touching a sentinel are exempt: a filtered
// view keeps a well-defined entry and exit. A non-sentinel node survives iff
// at least one of its incident edges survives. Origins are copied, never
// re-derived; the input model is left untouched.
//
// A nil sig selects RelativeOutFrequency. A threshold outside [0, 1] is
// rejected before any computation.
func Filter(m *Model, threshold float64, sig SignificanceFunc) (*Model, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, newInvalidThreshold(threshold)
	}
	if sig == nil {
		sig = RelativeOutFrequency
	}

	out := &Model{
		Nodes: make(map[string]*Node),
		Edges: make(map[EdgeKey]*Edge),
	}

	for k, e := range m.Edges {
		if retainEdge(m, e, threshold, sig) {
			out.Edges[k] = cloneEdge(e)
		}
	}

	incident := make(map[string]bool)
	for _, e := range out.Edges {
		incident[e.Source] = true
		incident[e.Target] = true
	}
	for id, n := range m.Nodes {
		if IsSentinel(id) || incident[id] {
			out.Nodes[id] = cloneNode(n)
		}
	}

	return out, nil
}

func retainEdge(m *Model, e *Edge, threshold float64, sig SignificanceFunc) bool {
	if IsSentinel(e.Source) || IsSentinel(e.Target) {
		return true
	}
	if e.Origin != OriginSecondOnly && sig(m, SideFirst, e) >= threshold {
		return true
	}
	if e.Origin != OriginFirstOnly && sig(m, SideSecond, e) >= threshold {
		return true
	}
	return false
}
