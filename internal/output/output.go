// Package output renders a computation graph into text formats for external
// viewers. Every generator emits the colors the highlight model currently
// holds, so an export taken while an edge is hovered shows the propagation.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"rosview/internal/engine/graph"
)

type Format string

const (
	FormatYAML    Format = "yaml"
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatTSV     Format = "tsv"
)

// FormatForPath picks an export format from the file extension. Unknown
// extensions fall back to YAML, the format the graph is loaded from.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return FormatDOT
	case ".mmd", ".mermaid":
		return FormatMermaid
	case ".tsv":
		return FormatTSV
	default:
		return FormatYAML
	}
}

// Generate renders g in one of the text formats. YAML is handled by the
// graphfile package and is rejected here.
func Generate(g *graph.Graph, format Format) (string, error) {
	switch format {
	case FormatDOT:
		return NewDOTGenerator(g).Generate(g.DetectCycles())
	case FormatMermaid:
		return NewMermaidGenerator(g).Generate(g.DetectCycles())
	case FormatTSV:
		return NewTSVGenerator(g).Generate()
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

func cycleEdgeSet(cycles [][]string) map[string]bool {
	out := make(map[string]bool)
	for _, cycle := range cycles {
		for i := 0; i < len(cycle); i++ {
			from := cycle[i]
			to := cycle[(i+1)%len(cycle)]
			out[from+"->"+to] = true
		}
	}
	return out
}

func cycleNodeSet(cycles [][]string) map[string]bool {
	out := make(map[string]bool)
	for _, cycle := range cycles {
		for _, name := range cycle {
			out[name] = true
		}
	}
	return out
}

func nodeLabel(n *graph.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.Name()
}
