package mdast

import "sort"

// NodeKind classifies the type of a tree node.
type NodeKind uint16

// Node kinds for block-level and inline-level elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock
	NodeMetadata

	// Inline-level nodes.
	NodeText
	NodeEmphasis
	NodeStrong
	NodeStrikethrough
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeSoftBreak
	NodeHardBreak
	NodeHTMLInline
	NodeEscaped
	NodeFootnote
)

//nolint:gochecknoglobals // Read-only lookup table.
var nodeKindNames = [...]string{
	NodeDocument:      "Document",
	NodeParagraph:     "Paragraph",
	NodeHeading:       "Heading",
	NodeList:          "List",
	NodeListItem:      "ListItem",
	NodeBlockquote:    "Blockquote",
	NodeCodeBlock:     "CodeBlock",
	NodeThematicBreak: "ThematicBreak",
	NodeHTMLBlock:     "HTMLBlock",
	NodeMetadata:      "Metadata",
	NodeText:          "Text",
	NodeEmphasis:      "Emphasis",
	NodeStrong:        "Strong",
	NodeStrikethrough: "Strikethrough",
	NodeCodeSpan:      "CodeSpan",
	NodeLink:          "Link",
	NodeImage:         "Image",
	NodeSoftBreak:     "SoftBreak",
	NodeHardBreak:     "HardBreak",
	NodeHTMLInline:    "HTMLInline",
	NodeEscaped:       "Escaped",
	NodeFootnote:      "Footnote",
}

// String returns the kind name without the Node prefix.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}

// IsBlock reports whether the kind is a block-level kind.
func (k NodeKind) IsBlock() bool {
	return k <= NodeMetadata
}

// IsInline reports whether the kind is an inline-level kind.
func (k NodeKind) IsInline() bool {
	return k >= NodeText && k <= NodeFootnote
}

// NodeID is a handle into a Tree's node arena.
type NodeID int32

// NoNode is the zero handle for "no node".
const NoNode NodeID = -1

// Node is a single element of the document tree.
// Nodes do not point at their parents; ancestry is only known while walking.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Children are the direct children in document order.
	Children []NodeID

	// Offset is the byte offset in the source where the node starts.
	Offset int

	// Literal holds raw content: paragraph and heading text before inline
	// parsing, code block and HTML content, and inline text.
	Literal []byte

	// Spans map positions in Literal back to source offsets for text
	// assembled from several lines.
	Spans []Span

	// Block holds attributes for block-level nodes.
	Block *BlockAttrs

	// Inline holds attributes for inline-level nodes.
	Inline *InlineAttrs
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	return n.Kind.IsBlock()
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	return n.Kind.IsInline()
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// IsTextLeaf reports whether the node carries raw text that the inline
// phase expands into inline children.
func (n *Node) IsTextLeaf() bool {
	return n.Kind == NodeParagraph || n.Kind == NodeHeading
}

// Span records that Literal[Literal:] starts at source offset Source.
type Span struct {
	Literal int
	Source  int
}

// SourceOffset maps a position in the node's literal to a source offset.
// Without spans it is relative to the node's own offset.
// Spans are sorted by Literal.
func (n *Node) SourceOffset(pos int) int {
	i := sort.Search(len(n.Spans), func(i int) bool {
		return n.Spans[i].Literal > pos
	})
	if i == 0 {
		return n.Offset + pos
	}
	span := n.Spans[i-1]
	return span.Source + pos - span.Literal
}
