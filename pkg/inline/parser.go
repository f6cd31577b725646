// Package inline expands the raw text of paragraphs and headings into
// inline nodes.
//
// A single left-to-right scan produces a sequence of items held in an
// arena. Code spans, escapes, raw HTML, autolinks and character references
// are resolved immediately. Emphasis delimiter runs and link brackets are
// recorded on two stacks that refer to items by index; links and
// footnotes are resolved when their closing marker is seen and emphasis
// once the scan ends.
package inline

import (
	"bytes"

	"github.com/yaklabco/gomdhtml/internal/mdtext"
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
	"github.com/yaklabco/gomdhtml/pkg/refs"
)

// none marks the absence of an item index.
const none = -1

// item is one element of the inline sequence. Items form a doubly linked
// list through the arena so that emphasis and links can splice them.
type item struct {
	node       mdast.NodeID
	prev, next int
}

// state is the parse state for one text leaf.
type state struct {
	tree  *mdast.Tree
	refs  *refs.Table
	diags *diag.List

	leaf mdast.Node // copy of the leaf, for offsets
	src  []byte

	items      []item
	head, tail int

	delims   []delimiter
	brackets []bracket

	// textStart is the start of the pending literal text run.
	textStart int
}

// ParseAll parses the inline content of every paragraph and heading in
// tree. table must be complete; it is only read.
func ParseAll(tree *mdast.Tree, table *refs.Table, diags *diag.List) {
	leaves := mdast.FindAll(tree, mdast.Root, func(_ mdast.NodeID, n *mdast.Node) bool {
		return n.IsTextLeaf()
	})
	for _, id := range leaves {
		Parse(tree, id, table, diags)
	}
}

// Parse replaces the children of leaf with the inline nodes parsed from
// its literal text.
func Parse(tree *mdast.Tree, leaf mdast.NodeID, table *refs.Table, diags *diag.List) {
	s := &state{
		tree:  tree,
		refs:  table,
		diags: diags,
		leaf:  *tree.Node(leaf),
		src:   tree.Node(leaf).Literal,
		head:  none,
		tail:  none,
	}
	s.scan()
	s.unclosedFootnotes()
	s.processEmphasis(0)
	tree.SetChildren(leaf, s.collect(s.head, none))
}

func (s *state) scan() {
	src := s.src
	i := 0
	for i < len(src) {
		switch src[i] {
		case '`':
			i = s.codeSpan(i)
		case '\\':
			i = s.backslash(i)
		case '<':
			i = s.angle(i)
		case '&':
			i = s.entity(i)
		case '*', '_', '~':
			i = s.delimiterRun(i)
		case '[':
			s.flush(i)
			s.pushBracket(i, 1, false)
			i++
			s.textStart = i
		case '!':
			if i+1 < len(src) && src[i+1] == '[' {
				s.flush(i)
				s.pushBracket(i, 2, true)
				i += 2
				s.textStart = i
				continue
			}
			i++
		case ']':
			i = s.closeBracket(i)
		case '|':
			if bytes.HasPrefix(src[i:], footnoteOpen) {
				s.openFootnote(i)
				i += len(footnoteOpen)
				continue
			}
			i++
		case '\n':
			i = s.lineEnding(i)
		default:
			i++
		}
	}
	s.flush(len(src))
}

// offset maps a literal position to a source offset.
func (s *state) offset(pos int) int {
	return s.leaf.SourceOffset(pos)
}

// flush emits the pending literal text up to end as a text node.
func (s *state) flush(end int) {
	if end > s.textStart {
		s.push(s.tree.NewText(s.src[s.textStart:end], s.offset(s.textStart)))
	}
	s.textStart = end
}

// push appends node to the item sequence and returns its index.
func (s *state) push(node mdast.NodeID) int {
	idx := len(s.items)
	s.items = append(s.items, item{node: node, prev: s.tail, next: none})
	if s.tail != none {
		s.items[s.tail].next = idx
	} else {
		s.head = idx
	}
	s.tail = idx
	return idx
}

// emit flushes pending text, appends a node of kind holding literal and
// resumes literal text at end.
func (s *state) emit(kind mdast.NodeKind, literal []byte, start, end int) int {
	s.flush(start)
	node := s.tree.NewNode(kind, s.offset(start))
	s.tree.Node(node).Literal = literal
	idx := s.push(node)
	s.textStart = end
	return idx
}

// unlink removes item idx from the sequence.
func (s *state) unlink(idx int) {
	it := s.items[idx]
	if it.prev != none {
		s.items[it.prev].next = it.next
	} else {
		s.head = it.next
	}
	if it.next != none {
		s.items[it.next].prev = it.prev
	} else {
		s.tail = it.prev
	}
	s.items[idx].prev, s.items[idx].next = none, none
}

// collect returns the nodes of the items from first up to, but excluding,
// stop.
func (s *state) collect(first, stop int) []mdast.NodeID {
	var nodes []mdast.NodeID
	for k := first; k != none && k != stop; k = s.items[k].next {
		nodes = append(nodes, s.items[k].node)
	}
	return nodes
}

// wrap moves the items strictly between after and before (none meaning
// the end of the sequence) into a new node of the given kind, which takes
// their place.
func (s *state) wrap(after, before int, kind mdast.NodeKind, offset int) int {
	node := s.tree.NewNode(kind, offset)
	s.tree.SetChildren(node, s.collect(s.items[after].next, before))

	idx := len(s.items)
	s.items = append(s.items, item{node: node, prev: after, next: before})
	s.items[after].next = idx
	if before != none {
		s.items[before].prev = idx
	} else {
		s.tail = idx
	}
	return idx
}

func (s *state) codeSpan(i int) int {
	src := s.src
	n := runLength(src, i, '`')

	for j := i + n; j < len(src); {
		if src[j] != '`' {
			j++
			continue
		}
		m := runLength(src, j, '`')
		if m == n {
			s.emit(mdast.NodeCodeSpan, codeContent(src[i+n:j]), i, j+m)
			return j + m
		}
		j += m
	}

	// No closing run: the backticks stay literal text.
	return i + n
}

// codeContent normalizes code span content: line endings become spaces and
// a single surrounding space is stripped from content that is not all spaces.
func codeContent(b []byte) []byte {
	out := make([]byte, len(b))
	allSpace := true
	for i, c := range b {
		if c == '\n' {
			c = ' '
		}
		if c != ' ' {
			allSpace = false
		}
		out[i] = c
	}
	if !allSpace && len(out) >= 2 && out[0] == ' ' && out[len(out)-1] == ' ' {
		out = out[1 : len(out)-1]
	}
	return out
}

func (s *state) backslash(i int) int {
	src := s.src
	if i+1 >= len(src) {
		return i + 1
	}
	switch next := src[i+1]; {
	case next == '\n':
		s.emit(mdast.NodeHardBreak, nil, i, i+2)
		s.textStart = skipLeadingSpace(src, i+2)
		return s.textStart
	case mdtext.IsASCIIPunct(next):
		s.emit(mdast.NodeEscaped, src[i+1:i+2], i, i+2)
		return i + 2
	default:
		return i + 1
	}
}

func (s *state) angle(i int) int {
	rest := s.src[i:]

	if bytes.HasPrefix(rest, footnoteClose) {
		if end, ok := s.closeFootnote(i); ok {
			return end
		}
	}

	if uri, n, email := scanAutolink(rest); n > 0 {
		dest := string(uri)
		if email {
			dest = "mailto:" + dest
		}
		idx := s.emit(mdast.NodeLink, nil, i, i+n)
		node := s.tree.Node(s.items[idx].node)
		node.Inline = &mdast.InlineAttrs{
			Link: mdast.NewLinkAttrs(dest, "").WithReference("", mdast.ReferenceStyleAutolink),
		}
		child := s.tree.NewText(uri, s.offset(i+1))
		s.tree.AppendChild(s.items[idx].node, child)
		return i + n
	}

	if n := mdtext.ScanHTML(rest); n > 0 {
		s.emit(mdast.NodeHTMLInline, rest[:n], i, i+n)
		return i + n
	}

	return i + 1
}

func (s *state) entity(i int) int {
	decoded, n := mdtext.DecodeEntity(s.src[i:])
	if n == 0 {
		return i + 1
	}
	s.flush(i)
	s.push(s.tree.NewText(decoded, s.offset(i)))
	s.textStart = i + n
	return i + n
}

// lineEnding turns a line ending into a hard or soft break. Spaces before
// the line ending are dropped; two or more make the break hard.
func (s *state) lineEnding(i int) int {
	end := i
	for end > s.textStart && s.src[end-1] == ' ' {
		end--
	}
	kind := mdast.NodeSoftBreak
	if i-end >= 2 {
		kind = mdast.NodeHardBreak
	}

	s.flush(end)
	s.push(s.tree.NewNode(kind, s.offset(end)))
	s.textStart = skipLeadingSpace(s.src, i+1)
	return s.textStart
}

func skipLeadingSpace(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return i
}

func runLength(b []byte, i int, c byte) int {
	n := 0
	for i+n < len(b) && b[i+n] == c {
		n++
	}
	return n
}
