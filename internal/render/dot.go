// Package render turns a graph description into Graphviz DOT text.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/procdiff/procdiff/internal/export"
)

// Options controls cosmetic aspects of the DOT output.
type Options struct {
	// Name is the digraph name. Defaults to "ProcessDiff".
	Name string

	// RankDir is the Graphviz layout direction. Defaults to "LR".
	RankDir string
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "ProcessDiff"
	}
	if o.RankDir == "" {
		o.RankDir = "LR"
	}
	return o
}

// DOT renders the description as a Graphviz digraph. Output is fully
// determined by the description and options.
func DOT(desc *export.Description, opts Options) string {
	opts = opts.withDefaults()

	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", opts.Name)
	fmt.Fprintf(&sb, "  rankdir=%s;\n", opts.RankDir)
	sb.WriteString("  node [fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	for _, n := range desc.Nodes {
		fmt.Fprintf(&sb, "  %s [shape=%s, color=%s, fontcolor=%s];\n",
			quote(n.ID), n.Shape, quote(n.Color), quote(n.Color))
	}
	sb.WriteString("\n")

	for _, e := range desc.Edges {
		fmt.Fprintf(&sb, "  %s -> %s [label=%s, color=%s, fontcolor=%s];\n",
			quote(e.Source), quote(e.Target), quote(e.Label), quote(e.Color), quote(e.Color))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// WriteFile renders the description and writes it to path.
func WriteFile(path string, desc *export.Description, opts Options) error {
	if err := os.WriteFile(path, []byte(DOT(desc, opts)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// quote wraps a value in DOT double quotes, escaping embedded quotes and
// backslashes.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
