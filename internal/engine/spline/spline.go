// Package spline decodes graphviz edge positions into cubic paths and the
// arrowhead polygon drawn at their end.
package spline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	coreerrors "rosview/internal/core/errors"
)

// ArrowWidth is the half-width of the arrowhead base relative to the length
// of the arrow.
const ArrowWidth = 0.35

type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point        { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point        { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Scale(f float64) Point    { return Point{p.X * f, p.Y * f} }
func (p Point) String() string           { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }
func (p Point) Distance(o Point) float64 { return math.Hypot(p.X-o.X, p.Y-o.Y) }

// Cubic is one bezier segment continuing from the previous end point.
type Cubic struct {
	C1, C2, To Point
}

type Polygon []Point

// Spline is a parsed edge path. Y coordinates are flipped into screen space.
type Spline struct {
	First    Point
	Segments []Cubic

	Start    Point
	HasStart bool
	End      Point
	HasEnd   bool
}

// Parse reads a graphviz splineType value: optional "e,x,y" and "s,x,y"
// tokens followed by a first point and groups of three control points.
// Control points that do not complete a group are ignored.
func Parse(pos string) (Spline, error) {
	tokens := strings.Fields(pos)
	var s Spline

	for len(tokens) > 0 {
		tok := tokens[0]
		var target *Point
		var seen *bool
		switch {
		case strings.HasPrefix(tok, "e,"):
			target, seen = &s.End, &s.HasEnd
		case strings.HasPrefix(tok, "s,"):
			target, seen = &s.Start, &s.HasStart
		}
		if target == nil {
			break
		}
		if *seen {
			return Spline{}, malformed(pos, tok, "duplicate marker")
		}
		p, err := parsePoint(tok[2:])
		if err != nil {
			return Spline{}, malformed(pos, tok, err.Error())
		}
		*target, *seen = p, true
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return Spline{}, coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeValidationError, "spline has no points"), "pos", pos)
	}

	pts := make([]Point, 0, len(tokens))
	for _, tok := range tokens {
		p, err := parsePoint(tok)
		if err != nil {
			return Spline{}, malformed(pos, tok, err.Error())
		}
		pts = append(pts, p)
	}

	s.First = pts[0]
	rest := pts[1:]
	for len(rest) > 2 {
		s.Segments = append(s.Segments, Cubic{C1: rest[0], C2: rest[1], To: rest[2]})
		rest = rest[3:]
	}
	return s, nil
}

func parsePoint(tok string) (Point, error) {
	parts := strings.Split(tok, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("expected x,y")
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad y: %w", err)
	}
	return Point{X: x, Y: -y}, nil
}

func malformed(pos, tok, reason string) error {
	err := coreerrors.New(coreerrors.CodeValidationError, fmt.Sprintf("malformed spline token %q: %s", tok, reason))
	return coreerrors.AddContext(err, "pos", pos)
}

// Last is the final point of the interpolated curve.
func (s Spline) Last() Point {
	if n := len(s.Segments); n > 0 {
		return s.Segments[n-1].To
	}
	return s.First
}

// Arrow returns the arrowhead triangle when the spline has an end point: the
// apex sits on the end point and the base corners are offset perpendicular
// to the final direction by ArrowWidth of its length.
func (s Spline) Arrow() (Polygon, bool) {
	if !s.HasEnd {
		return nil, false
	}
	last := s.Last()
	offset := s.End.Sub(last)
	corner1 := Point{-offset.Y, offset.X}.Scale(ArrowWidth)
	corner2 := Point{offset.Y, -offset.X}.Scale(ArrowWidth)
	return Polygon{last, last.Add(corner1), s.End, last.Add(corner2)}, true
}

// Points flattens the path into its control points, including the explicit
// start and end points when present.
func (s Spline) Points() []Point {
	out := make([]Point, 0, 3+3*len(s.Segments))
	if s.HasStart {
		out = append(out, s.Start)
	}
	out = append(out, s.First)
	for _, seg := range s.Segments {
		out = append(out, seg.C1, seg.C2, seg.To)
	}
	if s.HasEnd {
		out = append(out, s.End)
	}
	return out
}

// Bounds returns the bounding box of all control points.
func (s Spline) Bounds() (min, max Point) {
	pts := s.Points()
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Length approximates the path length along its control polygon.
func (s Spline) Length() float64 {
	total := 0.0
	prev := s.First
	for _, seg := range s.Segments {
		total += prev.Distance(seg.C1) + seg.C1.Distance(seg.C2) + seg.C2.Distance(seg.To)
		prev = seg.To
	}
	return total
}
