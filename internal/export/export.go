// Package export flattens a diff model into a generic attributed-graph
// description: nodes with a display color, edges with a display color and a
// frequency label. Renderers map this description onto their own page
// format; no graph computation happens here.
package export

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/procdiff/procdiff/internal/diff"
)

// Palette fixes the display color per provenance class.
type Palette struct {
	Common string `json:"common" yaml:"common"`
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
}

// DefaultPalette renders common behavior neutral and the two one-sided
// classes in contrasting accents.
func DefaultPalette() Palette {
	return Palette{
		Common: "black",
		First:  "firebrick",
		Second: "royalblue",
	}
}

// NodeDescriptor describes one node for rendering.
type NodeDescriptor struct {
	ID    string `json:"id"`
	Color string `json:"color"`

	// Shape is a rendering hint: sentinels get distinct shapes so entry and
	// exit stay recognizable.
	Shape string `json:"shape"`
}

// EdgeDescriptor describes one edge for rendering. Label carries the
// available frequency value(s): "12 / 9" for a common edge, the single
// available count otherwise.
type EdgeDescriptor struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Color  string `json:"color"`
	Label  string `json:"label"`
}

// Description is the complete render input. Nodes and edges are ordered
// deterministically: START first, END last, everything else lexicographic.
type Description struct {
	Nodes []NodeDescriptor `json:"nodes"`
	Edges []EdgeDescriptor `json:"edges"`
}

// Describe maps a diff model onto a Description.
//
// The model is checked against its own invariants first (defensively; a
// violation is a programming error in the pipeline, not user input) and the
// mapping is otherwise total.
func Describe(m *diff.Model, pal Palette) (*Description, error) {
	if err := checkContract(m); err != nil {
		return nil, err
	}

	desc := &Description{
		Nodes: make([]NodeDescriptor, 0, len(m.Nodes)),
		Edges: make([]EdgeDescriptor, 0, len(m.Edges)),
	}

	ids := m.NodeIDs()
	sort.SliceStable(ids, func(i, j int) bool { return nodeRank(ids[i]) < nodeRank(ids[j]) })
	for _, id := range ids {
		n := m.Nodes[id]
		desc.Nodes = append(desc.Nodes, NodeDescriptor{
			ID:    id,
			Color: pal.color(n.Origin),
			Shape: nodeShape(id),
		})
	}

	for _, k := range m.EdgeKeys() {
		e := m.Edges[k]
		desc.Edges = append(desc.Edges, EdgeDescriptor{
			Source: e.Source,
			Target: e.Target,
			Color:  pal.color(e.Origin),
			Label:  freqLabel(e),
		})
	}

	return desc, nil
}

func (p Palette) color(o diff.Origin) string {
	switch o {
	case diff.OriginFirstOnly:
		return p.First
	case diff.OriginSecondOnly:
		return p.Second
	default:
		return p.Common
	}
}

func nodeRank(id string) int {
	switch id {
	case diff.StartActivity:
		return 0
	case diff.EndActivity:
		return 2
	default:
		return 1
	}
}

func nodeShape(id string) string {
	switch id {
	case diff.StartActivity:
		return "circle"
	case diff.EndActivity:
		return "doublecircle"
	default:
		return "box"
	}
}

// freqLabel formats the edge's available frequencies.
func freqLabel(e *diff.Edge) string {
	switch {
	case e.Freq1 != nil && e.Freq2 != nil:
		return strconv.FormatInt(*e.Freq1, 10) + " / " + strconv.FormatInt(*e.Freq2, 10)
	case e.Freq1 != nil:
		return strconv.FormatInt(*e.Freq1, 10)
	case e.Freq2 != nil:
		return strconv.FormatInt(*e.Freq2, 10)
	default:
		return ""
	}
}

// checkContract verifies the model invariants the renderer relies on:
// labeled origins, endpoint closure, at least one frequency per edge.
func checkContract(m *diff.Model) error {
	if m == nil {
		return diff.NewExportContract("", "model is nil")
	}
	for id, n := range m.Nodes {
		if !n.Origin.Valid() {
			return diff.NewExportContract(id, fmt.Sprintf("node has unlabeled or unknown origin %q", n.Origin))
		}
	}
	for k, e := range m.Edges {
		if !e.Origin.Valid() {
			return diff.NewExportContract(k.String(), fmt.Sprintf("edge has unlabeled or unknown origin %q", e.Origin))
		}
		if _, ok := m.Nodes[e.Source]; !ok {
			return diff.NewExportContract(k.String(), "edge source missing from node set")
		}
		if _, ok := m.Nodes[e.Target]; !ok {
			return diff.NewExportContract(k.String(), "edge target missing from node set")
		}
		if e.Freq1 == nil && e.Freq2 == nil {
			return diff.NewExportContract(k.String(), "edge carries no frequency on either side")
		}
	}
	return nil
}
