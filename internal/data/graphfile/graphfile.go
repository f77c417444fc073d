// Package graphfile loads computation graph descriptions from YAML.
package graphfile

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	coreerrors "rosview/internal/core/errors"
	"rosview/internal/engine/graph"
	"rosview/internal/engine/highlight"
)

// Document is the on-disk shape of a graph description.
type Document struct {
	HighlightLevel *int       `yaml:"highlight_level,omitempty"`
	Nodes          []NodeSpec `yaml:"nodes"`
	Edges          []EdgeSpec `yaml:"edges"`
}

type NodeSpec struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
	Color string `yaml:"color,omitempty"`
}

type EdgeSpec struct {
	ID    string `yaml:"id"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Label string `yaml:"label,omitempty"`
	Pos   string `yaml:"pos,omitempty"`
	Color string `yaml:"color,omitempty"`
}

// Options are applied when the document does not say otherwise.
type Options struct {
	Level   int
	Palette highlight.Palette
}

func Load(path string, opts Options) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, coreerrors.AddContext(coreerrors.Wrap(err, coreerrors.CodeNotFound, "open graph file"), coreerrors.CtxPath, path)
	}
	defer f.Close()

	g, err := Decode(f, opts)
	if err != nil {
		return nil, coreerrors.AddContext(err, coreerrors.CtxPath, path)
	}
	return g, nil
}

// Decode builds a graph and registers siblings once every edge exists.
func Decode(r io.Reader, opts Options) (*graph.Graph, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, coreerrors.Wrap(err, coreerrors.CodeValidationError, "decode graph description")
	}
	return Build(doc, opts)
}

func Build(doc Document, opts Options) (*graph.Graph, error) {
	level := opts.Level
	if doc.HighlightLevel != nil {
		level = *doc.HighlightLevel
	}
	g := graph.New(level, opts.Palette)

	for _, n := range doc.Nodes {
		node, err := g.AddNode(n.ID, n.Label)
		if err != nil {
			return nil, err
		}
		if n.Color != "" {
			c, err := highlight.ParseColor(n.Color)
			if err != nil {
				return nil, coreerrors.AddContext(err, coreerrors.CtxNode, n.ID)
			}
			node.SetDefaultColor(c)
		}
	}

	for i, e := range doc.Edges {
		spec := graph.EdgeSpec{Label: e.Label, Pos: e.Pos}
		if e.Color != "" {
			c, err := highlight.ParseColor(e.Color)
			if err != nil {
				return nil, coreerrors.AddContext(coreerrors.AddContext(err, coreerrors.CtxEdge, e.ID), "index", i)
			}
			spec.Color = &c
		}
		if _, err := g.AddEdge(e.ID, e.From, e.To, spec); err != nil {
			return nil, coreerrors.AddContext(err, "index", i)
		}
	}

	g.LinkSiblings()
	return g, nil
}

// Encode writes the current graph back out; default colors equal to the
// palette defaults are omitted.
func Encode(w io.Writer, g *graph.Graph) error {
	level := g.Level()
	palette := g.Model().Palette()
	doc := Document{HighlightLevel: &level}
	for _, n := range g.Nodes() {
		spec := NodeSpec{ID: n.Name()}
		if n.Label != n.Name() {
			spec.Label = n.Label
		}
		if n.DefaultColor() != palette.NodeDefault {
			spec.Color = n.DefaultColor().Hex()
		}
		doc.Nodes = append(doc.Nodes, spec)
	}
	for _, e := range g.Edges() {
		spec := EdgeSpec{ID: e.ID(), From: e.From().Name(), To: e.To().Name(), Label: e.Label(), Pos: e.Pos}
		if e.DefaultColor() != palette.EdgeDefault {
			spec.Color = e.DefaultColor().Hex()
		}
		doc.Edges = append(doc.Edges, spec)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graph description: %w", err)
	}
	return enc.Close()
}
