// # internal/engine/graph/graph_test.go
package graph

import (
	"testing"

	coreerrors "rosview/internal/core/errors"
	"rosview/internal/engine/highlight"
)

func buildGraph(t *testing.T, level int) *Graph {
	t.Helper()
	g := New(level, highlight.DefaultPalette())
	for _, id := range []string{"/talker", "/listener", "/rosout", "/relay"} {
		if _, err := g.AddNode(id, ""); err != nil {
			t.Fatalf("add node %s: %v", id, err)
		}
	}
	edges := []struct {
		id, from, to string
		spec         EdgeSpec
	}{
		{"chatter", "/talker", "/listener", EdgeSpec{Label: "/chatter", Pos: "e,50,0 0,0 10,0 20,0 40,0"}},
		{"chatter_back", "/listener", "/talker", EdgeSpec{Label: "/ack"}},
		{"log_t", "/talker", "/rosout", EdgeSpec{}},
		{"loop", "/relay", "/relay", EdgeSpec{Pos: "e,5,5 0,0 1,1 2,2 3,3"}},
	}
	for _, e := range edges {
		if _, err := g.AddEdge(e.id, e.from, e.to, e.spec); err != nil {
			t.Fatalf("add edge %s: %v", e.id, err)
		}
	}
	return g
}

func TestGraph_AddErrors(t *testing.T) {
	g := buildGraph(t, 1)

	if _, err := g.AddNode("/talker", ""); !coreerrors.IsCode(err, coreerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate node, got %v", err)
	}
	if _, err := g.AddNode("  ", ""); !coreerrors.IsCode(err, coreerrors.CodeValidationError) {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}
	if _, err := g.AddEdge("x", "/ghost", "/talker", EdgeSpec{}); !coreerrors.IsCode(err, coreerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown node, got %v", err)
	}
	if _, err := g.AddEdge("chatter", "/talker", "/listener", EdgeSpec{}); !coreerrors.IsCode(err, coreerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate edge, got %v", err)
	}
	if _, err := g.AddEdge("bad", "/talker", "/listener", EdgeSpec{Pos: "e,1"}); !coreerrors.IsCode(err, coreerrors.CodeValidationError) {
		t.Fatalf("expected spline validation error, got %v", err)
	}
}

func TestGraph_RegionsFollowSpec(t *testing.T) {
	g := buildGraph(t, 1)

	chatter, _ := g.Edge("chatter")
	if !chatter.HasRegion(highlight.RegionLabel) || !chatter.HasRegion(highlight.RegionArrow) {
		t.Fatalf("expected label and arrow regions, got %v", chatter.Regions())
	}
	if _, ok := chatter.Arrow(); !ok {
		t.Fatal("expected arrow polygon")
	}

	logT, _ := g.Edge("log_t")
	if len(logT.Regions()) != 1 {
		t.Fatalf("expected only path region, got %v", logT.Regions())
	}
	if _, ok := logT.Arrow(); ok {
		t.Fatal("expected no arrow without spline")
	}
}

func TestGraph_LinkSiblings(t *testing.T) {
	g := buildGraph(t, 3)
	if linked := g.LinkSiblings(); linked != 2 {
		t.Fatalf("expected 2 edges to gain siblings, got %d", linked)
	}

	chatter, _ := g.Edge("chatter")
	back, _ := g.Edge("chatter_back")
	logT, _ := g.Edge("log_t")
	if !chatter.IsSibling(back.Edge) || !back.IsSibling(chatter.Edge) {
		t.Fatal("expected opposite edges on the same endpoints to be siblings")
	}
	if chatter.IsSibling(logT.Edge) {
		t.Fatal("edges on different endpoints must not be siblings")
	}

	// Linking twice must not duplicate registrations.
	g.LinkSiblings()
	if len(chatter.Siblings()) != 1 {
		t.Fatalf("expected 1 sibling, got %d", len(chatter.Siblings()))
	}
}

func TestGraph_HoverRoutesAllRegions(t *testing.T) {
	g := buildGraph(t, 3)
	g.LinkSiblings()

	ok, err := g.Hover("chatter", highlight.RegionLabel)
	if err != nil || !ok {
		t.Fatalf("expected hover through label, ok=%v err=%v", ok, err)
	}
	talker, _ := g.Node("/talker")
	listener, _ := g.Node("/listener")
	back, _ := g.Edge("chatter_back")
	if talker.Color() != highlight.ColorBlue || listener.Color() != highlight.ColorGreen {
		t.Fatal("expected endpoints highlighted")
	}
	if back.Color() != highlight.ColorOrange {
		t.Fatal("expected sibling highlighted")
	}
	if g.Hovered() != "chatter" {
		t.Fatalf("expected chatter hovered, got %q", g.Hovered())
	}

	ok, err = g.Unhover("chatter", highlight.RegionArrow)
	if err != nil || !ok {
		t.Fatalf("expected leave through arrow, ok=%v err=%v", ok, err)
	}
	for _, n := range g.Nodes() {
		if n.Color() != n.DefaultColor() {
			t.Fatalf("node %s not reset", n.Name())
		}
	}
	for _, e := range g.Edges() {
		if e.Color() != e.DefaultColor() {
			t.Fatalf("edge %s not reset", e.ID())
		}
	}
}

func TestGraph_HoverMovesBetweenEdges(t *testing.T) {
	g := buildGraph(t, 2)

	if _, err := g.Hover("chatter", highlight.RegionPath); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Hover("loop", highlight.RegionPath); err != nil {
		t.Fatal(err)
	}
	chatter, _ := g.Edge("chatter")
	if chatter.State() != highlight.StateNormal {
		t.Fatal("expected previous edge to be left")
	}
	talker, _ := g.Node("/talker")
	if talker.Color() != talker.DefaultColor() {
		t.Fatal("expected previous endpoints reset")
	}
	relay, _ := g.Node("/relay")
	if relay.Color() != highlight.ColorTeal {
		t.Fatalf("expected self-loop color, got %s", relay.Color())
	}

	g.ClearHover()
	if g.Hovered() != "" || relay.Color() != relay.DefaultColor() {
		t.Fatal("expected clear hover to reset everything")
	}
}

func TestGraph_HoverUnknownEdge(t *testing.T) {
	g := buildGraph(t, 1)
	if _, err := g.Hover("nope", highlight.RegionPath); !coreerrors.IsCode(err, coreerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := g.Unhover("nope", highlight.RegionPath); !coreerrors.IsCode(err, coreerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	ok, err := g.Hover("log_t", highlight.RegionArrow)
	if err != nil || ok {
		t.Fatalf("expected missing region to be ignored, ok=%v err=%v", ok, err)
	}
}

func TestGraph_Stats(t *testing.T) {
	g := buildGraph(t, 2)
	g.LinkSiblings()
	st := g.Stats()
	if st.Nodes != 4 || st.Edges != 4 || st.SelfLoops != 1 || st.Siblings != 2 || st.Level != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
	g.SetLevel(3)
	if g.Level() != 3 {
		t.Fatalf("expected level 3, got %d", g.Level())
	}
}
