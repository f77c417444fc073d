package highlight

// Node is a graph vertex that can be recolored by edge hover.
type Node struct {
	paint

	name     string
	incoming []*Edge
	outgoing []*Edge
}

func NewNode(name string, defaultColor Color) *Node {
	return &Node{paint: newPaint(defaultColor), name: name}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Incoming() []*Edge { return append([]*Edge(nil), n.incoming...) }
func (n *Node) Outgoing() []*Edge { return append([]*Edge(nil), n.outgoing...) }
