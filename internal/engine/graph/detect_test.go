// # internal/engine/graph/detect_test.go
package graph

import (
	"reflect"
	"testing"
)

func TestDetectCycles(t *testing.T) {
	g := buildGraph(t, 1)
	cycles := g.DetectCycles()

	var sawLoop, sawPair bool
	for _, c := range cycles {
		if reflect.DeepEqual(c, []string{"/relay"}) {
			sawLoop = true
		}
		if len(c) == 2 {
			sawPair = true
		}
	}
	if !sawLoop {
		t.Fatalf("expected self loop cycle, got %v", cycles)
	}
	if !sawPair {
		t.Fatalf("expected talker/listener cycle, got %v", cycles)
	}
}

func TestFindPath(t *testing.T) {
	g := buildGraph(t, 1)

	path, ok := g.FindPath("/listener", "/rosout")
	if !ok {
		t.Fatal("expected path listener -> talker -> rosout")
	}
	want := []string{"/listener", "/talker", "/rosout"}
	if !reflect.DeepEqual(path, want) {
		t.Fatalf("expected %v, got %v", want, path)
	}

	if _, ok := g.FindPath("/rosout", "/talker"); ok {
		t.Fatal("expected no path out of a sink")
	}
	if _, ok := g.FindPath("/ghost", "/talker"); ok {
		t.Fatal("expected unknown node to have no path")
	}
	if p, ok := g.FindPath("/relay", "/relay"); !ok || len(p) != 1 {
		t.Fatalf("expected trivial path, got %v", p)
	}
}
