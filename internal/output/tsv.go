// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"

	"rosview/internal/engine/graph"
)

type TSVGenerator struct {
	graph *graph.Graph
}

func NewTSVGenerator(g *graph.Graph) *TSVGenerator {
	return &TSVGenerator{graph: g}
}

// Generate writes one row per edge with its hover state and current color.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("ID\tFrom\tTo\tLabel\tState\tColor\tSiblings\n")
	for _, e := range t.graph.Edges() {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			e.ID(),
			e.From().Name(),
			e.To().Name(),
			e.Label(),
			e.State(),
			e.Color().Hex(),
			len(e.Siblings()),
		))
	}

	return buf.String(), nil
}
