// # internal/engine/graph/graph.go

// Package graph holds a rendered computation graph and routes hover events
// from its hit regions to the highlight model.
package graph

import (
	"fmt"
	"strings"

	coreerrors "rosview/internal/core/errors"
	"rosview/internal/engine/highlight"
	"rosview/internal/engine/spline"
	"rosview/internal/shared/observability"
	"rosview/internal/shared/util"
)

// EdgeSpec describes the optional parts of an edge.
type EdgeSpec struct {
	Label string
	Pos   string // graphviz spline, may be empty
	Color *highlight.Color
}

// Node pairs a highlight node with its display label.
type Node struct {
	*highlight.Node
	Label string
}

// Edge pairs a highlight edge with its parsed geometry.
type Edge struct {
	*highlight.Edge
	Pos       string
	Spline    spline.Spline
	HasSpline bool
}

// Arrow returns the arrowhead polygon if the edge has one.
func (e *Edge) Arrow() (spline.Polygon, bool) {
	if !e.HasSpline {
		return nil, false
	}
	return e.Spline.Arrow()
}

type Stats struct {
	Nodes     int
	Edges     int
	SelfLoops int
	Siblings  int
	Level     int
}

// Graph is not safe for concurrent use. Callers that receive updates on other
// goroutines must hand them to the goroutine that owns the graph.
type Graph struct {
	model   *highlight.Model
	nodes   map[string]*Node
	edges   map[string]*Edge
	hovered string
}

func New(level int, palette highlight.Palette) *Graph {
	return &Graph{
		model: highlight.NewModel(level, palette),
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
	}
}

func (g *Graph) Model() *highlight.Model { return g.model }
func (g *Graph) Level() int              { return g.model.Level() }

// SetLevel changes the shared highlight level for every edge.
func (g *Graph) SetLevel(level int) { g.model.SetLevel(level) }

func (g *Graph) AddNode(id, label string) (*Node, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, coreerrors.New(coreerrors.CodeValidationError, "node id must not be empty")
	}
	if _, exists := g.nodes[id]; exists {
		return nil, coreerrors.AddContext(coreerrors.New(coreerrors.CodeConflict, "duplicate node"), coreerrors.CtxNode, id)
	}
	if label == "" {
		label = id
	}
	n := &Node{Node: g.model.NewNode(id), Label: label}
	g.nodes[id] = n
	observability.GraphNodes.Set(float64(len(g.nodes)))
	return n, nil
}

// AddEdge connects two existing nodes. A label adds the label hit region and
// an end marker in Pos adds the arrow hit region.
func (g *Graph) AddEdge(id, from, to string, spec EdgeSpec) (*Edge, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = fmt.Sprintf("%s->%s#%d", from, to, len(g.edges))
	}
	if _, exists := g.edges[id]; exists {
		return nil, coreerrors.AddContext(coreerrors.New(coreerrors.CodeConflict, "duplicate edge"), coreerrors.CtxEdge, id)
	}
	src, ok := g.nodes[from]
	if !ok {
		return nil, coreerrors.AddContext(coreerrors.New(coreerrors.CodeNotFound, "unknown from node "+from), coreerrors.CtxEdge, id)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return nil, coreerrors.AddContext(coreerrors.New(coreerrors.CodeNotFound, "unknown to node "+to), coreerrors.CtxEdge, id)
	}

	e := &Edge{Pos: spec.Pos}
	var opts []highlight.EdgeOption
	if spec.Label != "" {
		opts = append(opts, highlight.WithLabel(spec.Label))
	}
	if spec.Color != nil {
		opts = append(opts, highlight.WithDefaultColor(*spec.Color))
	}
	if strings.TrimSpace(spec.Pos) != "" {
		s, err := spline.Parse(spec.Pos)
		if err != nil {
			return nil, coreerrors.AddContext(err, coreerrors.CtxEdge, id)
		}
		e.Spline, e.HasSpline = s, true
		if s.HasEnd {
			opts = append(opts, highlight.WithArrow())
		}
	}

	e.Edge = g.model.NewEdge(id, src.Node, dst.Node, opts...)
	g.edges[id] = e
	observability.GraphEdges.Set(float64(len(g.edges)))
	return e, nil
}

func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all nodes sorted by id.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range util.SortedStringKeys(g.nodes) {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges sorted by id.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, id := range util.SortedStringKeys(g.edges) {
		out = append(out, g.edges[id])
	}
	return out
}

func endpointKey(e *Edge) string {
	a, b := e.From().Name(), e.To().Name()
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// LinkSiblings registers every pair of edges sharing an endpoint pair, in
// either direction, as siblings of each other. It returns the number of
// edges that gained at least one sibling.
func (g *Graph) LinkSiblings() int {
	groups := make(map[string][]*Edge)
	for _, e := range g.Edges() {
		key := endpointKey(e)
		groups[key] = append(groups[key], e)
	}

	linked := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		for _, e := range group {
			for _, other := range group {
				e.RegisterSibling(other.Edge)
			}
			linked++
		}
	}
	return linked
}

// Hover routes a hit on any region of edge id to its enter transition. A
// previously hovered edge is left first, so at most one edge is hovered.
func (g *Graph) Hover(id string, region highlight.Region) (bool, error) {
	e, ok := g.edges[id]
	if !ok {
		return false, coreerrors.AddContext(coreerrors.New(coreerrors.CodeNotFound, "edge not found"), coreerrors.CtxEdge, id)
	}
	if g.hovered != "" && g.hovered != id {
		g.unhover(g.hovered)
	}
	if !e.HoverEnter(region) {
		return false, nil
	}
	g.hovered = id
	return true, nil
}

// Unhover routes a leave event from any region of edge id.
func (g *Graph) Unhover(id string, region highlight.Region) (bool, error) {
	e, ok := g.edges[id]
	if !ok {
		return false, coreerrors.AddContext(coreerrors.New(coreerrors.CodeNotFound, "edge not found"), coreerrors.CtxEdge, id)
	}
	if !e.HoverLeave(region) {
		return false, nil
	}
	if g.hovered == id {
		g.hovered = ""
	}
	return true, nil
}

func (g *Graph) unhover(id string) {
	if e, ok := g.edges[id]; ok {
		e.HoverLeave(highlight.RegionPath)
	}
	g.hovered = ""
}

// Hovered returns the id of the hovered edge, or "".
func (g *Graph) Hovered() string { return g.hovered }

// ClearHover leaves whatever edge is hovered.
func (g *Graph) ClearHover() {
	if g.hovered != "" {
		g.unhover(g.hovered)
	}
}

func (g *Graph) Stats() Stats {
	st := Stats{Nodes: len(g.nodes), Edges: len(g.edges), Level: g.model.Level()}
	for _, e := range g.edges {
		if e.IsSelfLoop() {
			st.SelfLoops++
		}
		if len(e.Siblings()) > 0 {
			st.Siblings++
		}
	}
	return st
}
