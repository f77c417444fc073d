package output

import (
	"fmt"
	"strings"
	"unicode"

	"rosview/internal/engine/graph"
)

type MermaidGenerator struct {
	graph *graph.Graph
}

func NewMermaidGenerator(g *graph.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

func (m *MermaidGenerator) Generate(cycles [][]string) (string, error) {
	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	nodes := m.graph.Nodes()
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name())
	}
	ids := makeMermaidIDs(names)

	for _, n := range nodes {
		b.WriteString(fmt.Sprintf("  %s([\"%s\"])\n", ids[n.Name()], escapeMermaidLabel(nodeLabel(n))))
	}

	b.WriteString("\n")
	for _, n := range nodes {
		b.WriteString(fmt.Sprintf("  style %s stroke:%s,stroke-width:2px\n", ids[n.Name()], n.Color().Hex()))
	}

	b.WriteString("\n")
	cycleEdges := cycleEdgeSet(cycles)
	styles := make([]string, 0)
	for i, e := range m.graph.Edges() {
		from, to := e.From().Name(), e.To().Name()
		edgeLabel := ""
		if e.Label() != "" {
			edgeLabel = "|" + escapeMermaidLabel(e.Label()) + "|"
		}
		b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[from], edgeLabel, ids[to]))

		width := "1px"
		if cycleEdges[from+"->"+to] {
			width = "3px"
		}
		styles = append(styles, fmt.Sprintf("  linkStyle %d stroke:%s,stroke-width:%s;\n", i, e.Color().Hex(), width))
	}

	if len(styles) > 0 {
		b.WriteString("\n")
		for _, s := range styles {
			b.WriteString(s)
		}
	}

	return b.String(), nil
}

func sanitizeMermaidID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "n"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "n_" + out
	}
	return out
}

func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
