package highlight

// Highlight levels. Anything above LevelSiblings behaves like it.
const (
	LevelNone      = 0
	LevelEdge      = 1
	LevelEndpoints = 2
	LevelSiblings  = 3
)

// Model carries the configuration shared by every entity of one graph: the
// highlight level and the indicator palette.
//
// Like the entities it creates, a Model must only be used from a single
// goroutine.
type Model struct {
	level   int
	palette Palette
}

func NewModel(level int, palette Palette) *Model {
	m := &Model{palette: palette}
	m.SetLevel(level)
	return m
}

func (m *Model) Level() int { return m.level }

// SetLevel clamps negative values to LevelNone. Edges that are hovered while
// the level changes still revert what they applied.
func (m *Model) SetLevel(level int) {
	if level < LevelNone {
		level = LevelNone
	}
	m.level = level
}

func (m *Model) Palette() Palette { return m.palette }

func (m *Model) NewNode(name string) *Node {
	return NewNode(name, m.palette.NodeDefault)
}

// NewEdge creates an edge between from and to, which may be the same node.
// It panics when either endpoint is nil.
func (m *Model) NewEdge(id string, from, to *Node, opts ...EdgeOption) *Edge {
	if from == nil || to == nil {
		panic("highlight: edge " + id + " requires both endpoints")
	}
	e := &Edge{
		paint:    newPaint(m.palette.EdgeDefault),
		id:       id,
		model:    m,
		from:     from,
		to:       to,
		siblings: make(map[*Edge]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	from.outgoing = append(from.outgoing, e)
	to.incoming = append(to.incoming, e)
	return e
}
