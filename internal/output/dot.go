// # internal/output/dot.go
package output

import (
	"fmt"
	"strings"

	"rosview/internal/engine/graph"
)

type DOTGenerator struct {
	graph *graph.Graph
}

func NewDOTGenerator(g *graph.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

func (d *DOTGenerator) Generate(cycles [][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph computation {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=false;\n\n")

	cycleNodes := cycleNodeSet(cycles)
	for _, n := range d.graph.Nodes() {
		attrs := fmt.Sprintf("label=%q, color=%q, fillcolor=\"white\"", nodeLabel(n), n.Color().Hex())
		if cycleNodes[n.Name()] {
			attrs += ", penwidth=2.0"
		}
		buf.WriteString(fmt.Sprintf("  %q [%s];\n", n.Name(), attrs))
	}
	buf.WriteString("\n")

	cycleEdges := cycleEdgeSet(cycles)
	for _, e := range d.graph.Edges() {
		from, to := e.From().Name(), e.To().Name()
		attrs := []string{fmt.Sprintf("id=%q", e.ID()), fmt.Sprintf("color=%q", e.Color().Hex())}
		if e.Label() != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label()))
		}
		if e.Pos != "" {
			attrs = append(attrs, fmt.Sprintf("pos=%q", e.Pos))
		}
		if cycleEdges[from+"->"+to] {
			attrs = append(attrs, "penwidth=2.5")
		}
		buf.WriteString(fmt.Sprintf("  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", ")))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}
