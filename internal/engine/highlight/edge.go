package highlight

import "rosview/internal/shared/observability"

// Region is one of the hit areas that make up an edge on screen.
type Region int

const (
	RegionPath Region = iota
	RegionLabel
	RegionArrow
)

func (r Region) String() string {
	switch r {
	case RegionPath:
		return "path"
	case RegionLabel:
		return "label"
	case RegionArrow:
		return "arrow"
	}
	return "unknown"
}

type State int

const (
	StateNormal State = iota
	StateHovered
)

func (s State) String() string {
	if s == StateHovered {
		return "hovered"
	}
	return "normal"
}

type EdgeOption func(*Edge)

// WithLabel gives the edge a label hit region.
func WithLabel(label string) EdgeOption {
	return func(e *Edge) {
		e.label = label
		e.hasLabel = true
	}
}

// WithArrow gives the edge an arrowhead hit region.
func WithArrow() EdgeOption {
	return func(e *Edge) { e.hasArrow = true }
}

func WithDefaultColor(c Color) EdgeOption {
	return func(e *Edge) { e.paint = newPaint(c) }
}

// applied remembers what HoverEnter touched so HoverLeave can undo exactly
// that, even if the level or the sibling set changed in between.
type applied struct {
	level    int
	siblings []*Edge
}

// Edge is a directed connection whose hover state propagates color to its
// endpoints and siblings according to the model's level.
type Edge struct {
	paint

	id       string
	model    *Model
	from     *Node
	to       *Node
	label    string
	hasLabel bool
	hasArrow bool

	siblings     map[*Edge]struct{}
	siblingOrder []*Edge

	state   State
	applied applied
}

func (e *Edge) ID() string       { return e.id }
func (e *Edge) From() *Node      { return e.from }
func (e *Edge) To() *Node        { return e.to }
func (e *Edge) Label() string    { return e.label }
func (e *Edge) State() State     { return e.state }
func (e *Edge) IsSelfLoop() bool { return e.from == e.to }

func (e *Edge) HasRegion(r Region) bool {
	switch r {
	case RegionPath:
		return true
	case RegionLabel:
		return e.hasLabel
	case RegionArrow:
		return e.hasArrow
	}
	return false
}

// Regions lists the hit regions this edge exposes, path first.
func (e *Edge) Regions() []Region {
	regions := []Region{RegionPath}
	if e.hasLabel {
		regions = append(regions, RegionLabel)
	}
	if e.hasArrow {
		regions = append(regions, RegionArrow)
	}
	return regions
}

// RegisterSibling adds other to the sibling set. Registration is one-way and
// never removed; registering the edge itself or a duplicate is ignored.
func (e *Edge) RegisterSibling(other *Edge) {
	if other == nil || other == e {
		return
	}
	if _, ok := e.siblings[other]; ok {
		return
	}
	e.siblings[other] = struct{}{}
	e.siblingOrder = append(e.siblingOrder, other)
}

func (e *Edge) Siblings() []*Edge { return append([]*Edge(nil), e.siblingOrder...) }

func (e *Edge) IsSibling(other *Edge) bool {
	_, ok := e.siblings[other]
	return ok
}

// HoverEnter handles the pointer entering any of the edge's regions. It
// returns false when the region does not exist on this edge or the edge is
// already hovered.
func (e *Edge) HoverEnter(r Region) bool {
	e.mustHaveEndpoints()
	if !e.HasRegion(r) || e.state == StateHovered {
		return false
	}

	p := e.model.palette
	level := e.model.level
	e.applied = applied{level: level}

	e.SetColor(p.Active)
	if level > LevelEdge {
		if e.from != e.to {
			e.from.SetColor(p.Source)
			e.to.SetColor(p.Sink)
		} else {
			e.from.SetColor(p.SelfLoop)
		}
	}
	if level > LevelEndpoints {
		e.applied.siblings = e.Siblings()
		for _, s := range e.applied.siblings {
			s.SetColor(p.Sibling)
		}
	}

	e.state = StateHovered
	observability.HoverTransitionsTotal.WithLabelValues("enter").Inc()
	return true
}

// HoverLeave reverts HoverEnter, resetting every touched entity to its own
// default color.
func (e *Edge) HoverLeave(r Region) bool {
	e.mustHaveEndpoints()
	if !e.HasRegion(r) || e.state != StateHovered {
		return false
	}

	e.ResetColor()
	if e.applied.level > LevelEdge {
		e.from.ResetColor()
		e.to.ResetColor()
	}
	for _, s := range e.applied.siblings {
		s.ResetColor()
	}

	e.applied = applied{}
	e.state = StateNormal
	observability.HoverTransitionsTotal.WithLabelValues("leave").Inc()
	return true
}

func (e *Edge) mustHaveEndpoints() {
	if e.from == nil || e.to == nil || e.model == nil {
		panic("highlight: hover on edge " + e.id + " without endpoints")
	}
}
