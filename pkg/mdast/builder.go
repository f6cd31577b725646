package mdast

// Tree owns every node of a document in a single arena.
// Node 0 is always the document root.
type Tree struct {
	Nodes []Node

	// Meta holds the document metadata collected by the block parser.
	Meta Metadata
}

// Root is the handle of the document node.
const Root NodeID = 0

// NewTree creates a tree holding only a document node.
func NewTree() *Tree {
	return &Tree{Nodes: []Node{{Kind: NodeDocument}}}
}

// Node returns the node for id. The pointer is invalidated by NewNode.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Kind returns the kind of the node for id.
func (t *Tree) Kind(id NodeID) NodeKind {
	return t.Nodes[id].Kind
}

// Len returns the number of nodes in the arena, including detached ones.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// NewNode allocates a detached node of the given kind starting at offset.
func (t *Tree) NewNode(kind NodeKind, offset int) NodeID {
	t.Nodes = append(t.Nodes, Node{Kind: kind, Offset: offset})
	return NodeID(len(t.Nodes) - 1)
}

// NewText allocates a detached text node holding literal.
func (t *Tree) NewText(literal []byte, offset int) NodeID {
	id := t.NewNode(NodeText, offset)
	t.Nodes[id].Literal = literal
	return id
}

// AppendChild adds child as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, child)
}

// SetChildren replaces the children of parent.
func (t *Tree) SetChildren(parent NodeID, children []NodeID) {
	t.Nodes[parent].Children = children
}

// RemoveLastChild detaches the last child of parent and returns it,
// or NoNode when parent has no children.
func (t *Tree) RemoveLastChild(parent NodeID) NodeID {
	children := t.Nodes[parent].Children
	if len(children) == 0 {
		return NoNode
	}
	last := children[len(children)-1]
	t.Nodes[parent].Children = children[:len(children)-1]
	return last
}

// LastChild returns the last child of parent, or NoNode.
func (t *Tree) LastChild(parent NodeID) NodeID {
	children := t.Nodes[parent].Children
	if len(children) == 0 {
		return NoNode
	}
	return children[len(children)-1]
}

// Children returns the child handles of id.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.Nodes[id].Children
}

// PlainText concatenates the literal text below id, skipping markup.
// It is used for image alt text and heading anchors. Footnote text is
// left out.
func (t *Tree) PlainText(id NodeID) string {
	var buf []byte
	_ = Walk(t, id, func(_ NodeID, n *Node, entering bool) (WalkStatus, error) {
		if !entering {
			return WalkContinue, nil
		}
		switch n.Kind {
		case NodeText, NodeCodeSpan, NodeEscaped:
			buf = append(buf, n.Literal...)
		case NodeSoftBreak, NodeHardBreak:
			buf = append(buf, ' ')
		case NodeFootnote:
			return WalkSkipChildren, nil
		default:
		}
		return WalkContinue, nil
	})
	return string(buf)
}
