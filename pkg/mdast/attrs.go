package mdast

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// Setext is true when the heading was written with an underline.
	Setext bool

	// List holds list-specific attributes for NodeList.
	List *ListAttrs

	// CodeBlock holds code block attributes for NodeCodeBlock.
	CodeBlock *CodeBlockAttrs
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// BulletMarker is the bullet character used ('-', '+', '*').
	BulletMarker byte

	// StartNumber is the starting number for ordered lists.
	StartNumber int

	// Delimiter is the delimiter for ordered lists ('.' or ')').
	Delimiter byte

	// Tight is true if no blank line separates items or item children.
	Tight bool
}

// CodeBlockAttrs holds attributes for code block nodes.
type CodeBlockAttrs struct {
	// FenceChar is the fence character ('`' or '~'), zero for indented blocks.
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// Info is the full info string.
	Info string

	// Language is the first word of the info string.
	Language string

	// Indented is true for indented code blocks (vs fenced).
	Indented bool

	// Closed is false when a fenced block never saw its closing fence.
	Closed bool
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Link holds link attributes for NodeLink and NodeImage.
	Link *LinkAttrs
}

// ReferenceStyle indicates the syntax style of a link or image reference.
type ReferenceStyle int

// Reference styles for links and images.
const (
	// ReferenceStyleInline is an inline link: [text](url).
	ReferenceStyleInline ReferenceStyle = iota

	// ReferenceStyleFull is a full reference: [text][label].
	ReferenceStyleFull

	// ReferenceStyleCollapsed is a collapsed reference: [label][].
	ReferenceStyleCollapsed

	// ReferenceStyleShortcut is a shortcut reference: [label].
	ReferenceStyleShortcut

	// ReferenceStyleAutolink is an autolink: <url>.
	ReferenceStyleAutolink
)

// String returns a human-readable name for the reference style.
func (s ReferenceStyle) String() string {
	switch s {
	case ReferenceStyleInline:
		return "inline"
	case ReferenceStyleFull:
		return "full"
	case ReferenceStyleCollapsed:
		return "collapsed"
	case ReferenceStyleShortcut:
		return "shortcut"
	case ReferenceStyleAutolink:
		return "autolink"
	default:
		return "unknown"
	}
}

// LinkAttrs holds attributes for link and image nodes.
type LinkAttrs struct {
	// Destination is the link URL or image source.
	Destination string

	// Title is the optional link title.
	Title string

	// ReferenceLabel is the normalized label for reference-style links.
	ReferenceLabel string

	// ReferenceStyle indicates how the link was written.
	ReferenceStyle ReferenceStyle
}

// NewBlockAttrs creates an empty BlockAttrs.
func NewBlockAttrs() *BlockAttrs {
	return &BlockAttrs{}
}

// WithHeadingLevel sets the heading level.
func (b *BlockAttrs) WithHeadingLevel(level int) *BlockAttrs {
	b.HeadingLevel = level
	return b
}

// WithList sets the list attributes.
func (b *BlockAttrs) WithList(list *ListAttrs) *BlockAttrs {
	b.List = list
	return b
}

// WithCodeBlock sets the code block attributes.
func (b *BlockAttrs) WithCodeBlock(code *CodeBlockAttrs) *BlockAttrs {
	b.CodeBlock = code
	return b
}

// NewLinkAttrs creates LinkAttrs for an inline link.
func NewLinkAttrs(destination, title string) *LinkAttrs {
	return &LinkAttrs{Destination: destination, Title: title}
}

// WithReference records the reference label and style a link was resolved by.
func (l *LinkAttrs) WithReference(label string, style ReferenceStyle) *LinkAttrs {
	l.ReferenceLabel = label
	l.ReferenceStyle = style
	return l
}
