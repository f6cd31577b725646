// Package block builds the block structure of a document from its lines.
//
// Each line first continues the open containers (block quotes, lists and
// list items), then may open new blocks, and finally either continues the
// open paragraph or starts a new one. Paragraph and heading text is stored
// raw on the node for the inline phase. Link reference definitions are
// harvested from the start of each paragraph as it closes.
package block

import (
	"bytes"
	"iter"

	"github.com/yaklabco/gomdhtml/internal/mdtext"
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
	"github.com/yaklabco/gomdhtml/pkg/refs"
	"github.com/yaklabco/gomdhtml/pkg/scanner"
)

// Parser accumulates lines into a block tree.
type Parser struct {
	tree  *mdast.Tree
	refs  *refs.Table
	diags *diag.List
	stack []*openBlock
}

// openBlock is a block that may still receive lines.
type openBlock struct {
	id   mdast.NodeID
	kind mdast.NodeKind

	// List and list item state.
	marker        listMarker
	contentIndent int
	blankPending  bool
	loose         bool

	fence      fence
	html       htmlKind
	metaClosed bool

	// Leaf content, one entry per line.
	lines   [][]byte
	offsets []int
}

func (o *openBlock) isLeaf() bool {
	switch o.kind {
	case mdast.NodeParagraph, mdast.NodeCodeBlock, mdast.NodeHTMLBlock, mdast.NodeMetadata:
		return true
	default:
		return false
	}
}

type startResult int

const (
	startNone startResult = iota
	startContainer
	startLeaf
)

// Parse builds the block tree for lines, recording reference definitions
// into table and anomalies into diags.
func Parse(lines iter.Seq[scanner.Line], table *refs.Table, diags *diag.List) *mdast.Tree {
	p := NewParser(table, diags)
	for line := range lines {
		p.AddLine(line)
	}
	return p.Finish()
}

// NewParser creates a parser with an empty document.
// A nil table is replaced by a private one.
func NewParser(table *refs.Table, diags *diag.List) *Parser {
	if table == nil {
		table = refs.NewTable()
	}
	tree := mdast.NewTree()
	return &Parser{
		tree:  tree,
		refs:  table,
		diags: diags,
		stack: []*openBlock{{id: mdast.Root, kind: mdast.NodeDocument}},
	}
}

// Finish closes every open block and returns the tree.
func (p *Parser) Finish() *mdast.Tree {
	p.closeUnmatched(1)
	return p.tree
}

// AddLine feeds the next line to the parser.
func (p *Parser) AddLine(line scanner.Line) {
	c := newCursor(line)

	matched := p.matchContainers(&c)
	tip := p.tip()
	allMatched := matched == len(p.stack) || (matched == len(p.stack)-1 && tip.isLeaf())
	if allMatched && p.continueLeaf(tip, &c) {
		return
	}

	started := false
	for {
		container := p.stack[matched-1]
		if container.kind == mdast.NodeList && !continuesList(container, c) {
			matched--
			continue
		}

		result := p.startBlock(&c, &matched)
		if result == startNone {
			break
		}
		started = true
		if result == startLeaf {
			p.clearBlankPending()
			return
		}
	}

	if c.blank() {
		p.closeUnmatched(matched)
		if !started {
			for _, o := range p.stack[1:] {
				o.blankPending = true
			}
		}
		return
	}

	if tip = p.tip(); !started && tip.kind == mdast.NodeParagraph {
		// Either a plain continuation line or a lazy one; unmatched
		// containers stay open either way.
		c.skipSpaces()
		tip.lines = append(tip.lines, c.rest())
		tip.offsets = append(tip.offsets, c.offset())
	} else {
		p.closeUnmatched(matched)
		p.openParagraph(&c)
	}
	p.clearBlankPending()
}

func (p *Parser) tip() *openBlock {
	return p.stack[len(p.stack)-1]
}

// matchContainers consumes the prefixes of the open containers that the
// line continues and returns how many stack entries matched.
func (p *Parser) matchContainers(c *cursor) int {
	matched := 1
	for ; matched < len(p.stack); matched++ {
		o := p.stack[matched]
		var ok bool
		switch o.kind {
		case mdast.NodeBlockquote:
			ok = matchBlockquote(c)
		case mdast.NodeList:
			ok = true
		case mdast.NodeListItem:
			ok = p.matchListItem(o, c)
		default:
			return matched
		}
		if !ok {
			return matched
		}
	}
	return matched
}

func matchBlockquote(c *cursor) bool {
	indent := c.indent()
	if indent > maxContainerIndent {
		return false
	}
	ahead := *c
	ahead.skipIndent(indent)
	if ahead.char() != '>' {
		return false
	}
	ahead.advance(1)
	if ch := ahead.char(); ch == ' ' || ch == '\t' {
		ahead.skipIndent(1)
	}
	*c = ahead
	return true
}

func (p *Parser) matchListItem(o *openBlock, c *cursor) bool {
	if c.blank() {
		// An item that is still empty cannot continue past a blank line.
		return len(p.tree.Children(o.id)) > 0
	}
	if c.indent() < o.contentIndent {
		return false
	}
	c.skipIndent(o.contentIndent)
	return true
}

// continuesList reports whether the line starts another item of list.
func continuesList(list *openBlock, c cursor) bool {
	indent := c.indent()
	if indent > maxContainerIndent {
		return false
	}
	c.skipIndent(indent)
	if isThematicBreak(c.bytes()) {
		return false
	}
	m, ok := parseListMarker(c.bytes())
	return ok && m.compatible(list.marker)
}

// continueLeaf feeds the line to an open code or HTML block. It reports
// whether the line was consumed.
func (p *Parser) continueLeaf(tip *openBlock, c *cursor) bool {
	switch tip.kind {
	case mdast.NodeCodeBlock:
		if tip.fence.char != 0 {
			ahead := *c
			if indent := ahead.indent(); indent <= maxContainerIndent {
				ahead.skipIndent(indent)
				if closesFence(tip.fence, ahead.bytes()) {
					tip.fence.closed = true
					p.closeTop()
					return true
				}
			}
			c.skipIndent(min(c.indent(), tip.fence.indent))
			tip.lines = append(tip.lines, c.rest())
			return true
		}

		if c.indent() >= codeIndent || c.blank() {
			c.skipIndent(codeIndent)
			tip.lines = append(tip.lines, c.rest())
			return true
		}
		p.closeTop()
		return false

	case mdast.NodeHTMLBlock:
		if tip.html.endsAtBlank() && c.blank() {
			p.closeTop()
			return false
		}
		rest := c.rest()
		tip.lines = append(tip.lines, rest)
		if tip.html.endsOn(rest) {
			p.closeTop()
		}
		return true

	case mdast.NodeMetadata:
		p.continueMetadata(tip, c.rest())
		return true

	default:
		return false
	}
}

// startBlock tries every block start at the cursor in priority order.
func (p *Parser) startBlock(c *cursor, matched *int) startResult {
	container := p.stack[*matched-1]
	paraOpen := p.tip().kind == mdast.NodeParagraph && len(p.stack)-1 == *matched

	indent := c.indent()
	if indent >= codeIndent {
		if p.tip().kind == mdast.NodeParagraph || container.kind == mdast.NodeListItem || c.blank() {
			return startNone
		}
		p.closeUnmatched(*matched)
		c.skipIndent(codeIndent)
		p.openIndentedCode(c)
		return startLeaf
	}

	ahead := *c
	ahead.skipIndent(indent)
	rest := ahead.bytes()

	if isThematicBreak(rest) {
		p.closeUnmatched(*matched)
		p.addChild(mdast.NodeThematicBreak, ahead.offset())
		return startLeaf
	}

	if heading, ok := parseATXHeading(rest); ok {
		p.closeUnmatched(*matched)
		id := p.addChild(mdast.NodeHeading, ahead.offset())
		node := p.tree.Node(id)
		node.Block = mdast.NewBlockAttrs().WithHeadingLevel(heading.level)
		node.Literal = heading.content
		node.Spans = []mdast.Span{{Literal: 0, Source: ahead.offset() + heading.start}}
		return startLeaf
	}

	if f, ok := parseFenceOpen(rest); ok {
		p.closeUnmatched(*matched)
		f.indent = indent
		p.openFencedCode(f, ahead.offset())
		return startLeaf
	}

	if bytes.HasPrefix(rest, metaOpen) {
		p.closeUnmatched(*matched)
		p.openMetadata(rest, ahead.offset())
		return startLeaf
	}

	if ahead.char() == '>' {
		p.closeUnmatched(*matched)
		*c = ahead
		offset := c.offset()
		c.advance(1)
		if ch := c.char(); ch == ' ' || ch == '\t' {
			c.skipIndent(1)
		}
		id := p.addChild(mdast.NodeBlockquote, offset)
		p.stack = append(p.stack, &openBlock{id: id, kind: mdast.NodeBlockquote})
		*matched = len(p.stack)
		return startContainer
	}

	if m, ok := parseListMarker(rest); ok {
		if p.openListItem(c, matched, m, indent, paraOpen) {
			return startContainer
		}
	}

	if paraOpen {
		if level := setextLevel(rest); level > 0 {
			if p.setextHeading(level) {
				return startLeaf
			}
			return startNone
		}
	}

	if kind := htmlStart(rest); kind != htmlNone && !(kind == htmlAnyTag && paraOpen) {
		p.closeUnmatched(*matched)
		p.openHTMLBlock(kind, c, ahead.offset())
		return startLeaf
	}

	return startNone
}

func (p *Parser) openListItem(c *cursor, matched *int, m listMarker, indent int, paraOpen bool) bool {
	ahead := *c
	ahead.skipIndent(indent)
	offset := ahead.offset()
	ahead.advance(m.width)

	spaces := ahead.indent()
	emptyItem := ahead.blank()
	if paraOpen && (emptyItem || (m.ordered && m.start != 1)) {
		return false
	}

	padding := spaces
	if emptyItem || spaces > codeIndent {
		padding = 1
	}
	ahead.skipIndent(padding)
	*c = ahead

	p.closeUnmatched(*matched)
	if container := p.tip(); container.kind != mdast.NodeList || !m.compatible(container.marker) {
		id := p.addChild(mdast.NodeList, offset)
		p.tree.Node(id).Block = mdast.NewBlockAttrs().WithList(&mdast.ListAttrs{
			Ordered:      m.ordered,
			BulletMarker: bulletOf(m),
			Delimiter:    delimiterOf(m),
			StartNumber:  m.start,
			Tight:        true,
		})
		p.stack = append(p.stack, &openBlock{id: id, kind: mdast.NodeList, marker: m})
	}

	id := p.addChild(mdast.NodeListItem, offset)
	p.stack = append(p.stack, &openBlock{
		id:            id,
		kind:          mdast.NodeListItem,
		marker:        m,
		contentIndent: indent + m.width + padding,
	})
	*matched = len(p.stack)
	return true
}

func bulletOf(m listMarker) byte {
	if m.ordered {
		return 0
	}
	return m.char
}

func delimiterOf(m listMarker) byte {
	if m.ordered {
		return m.char
	}
	return 0
}

// setextHeading turns the open paragraph into a heading. It reports false
// when the paragraph held nothing but reference definitions.
func (p *Parser) setextHeading(level int) bool {
	para := p.tip()
	p.extractDefinitions(para)
	if len(para.lines) == 0 {
		p.closeTop()
		return false
	}

	node := p.tree.Node(para.id)
	node.Kind = mdast.NodeHeading
	node.Block = mdast.NewBlockAttrs().WithHeadingLevel(level)
	node.Block.Setext = true
	p.stack = p.stack[:len(p.stack)-1]
	p.setText(para)
	return true
}

func (p *Parser) openParagraph(c *cursor) {
	c.skipSpaces()
	id := p.addChild(mdast.NodeParagraph, c.offset())
	p.stack = append(p.stack, &openBlock{
		id:      id,
		kind:    mdast.NodeParagraph,
		lines:   [][]byte{c.rest()},
		offsets: []int{c.offset()},
	})
}

func (p *Parser) openIndentedCode(c *cursor) {
	id := p.addChild(mdast.NodeCodeBlock, c.offset())
	p.tree.Node(id).Block = mdast.NewBlockAttrs().WithCodeBlock(&mdast.CodeBlockAttrs{Indented: true, Closed: true})
	p.stack = append(p.stack, &openBlock{
		id:    id,
		kind:  mdast.NodeCodeBlock,
		lines: [][]byte{c.rest()},
	})
}

func (p *Parser) openFencedCode(f fence, offset int) {
	info := mdtext.Unescape(f.info)
	language := info
	if i := bytes.IndexAny(info, " \t"); i >= 0 {
		language = info[:i]
	}

	id := p.addChild(mdast.NodeCodeBlock, offset)
	p.tree.Node(id).Block = mdast.NewBlockAttrs().WithCodeBlock(&mdast.CodeBlockAttrs{
		FenceChar:   f.char,
		FenceLength: f.length,
		Info:        string(info),
		Language:    string(language),
	})
	p.stack = append(p.stack, &openBlock{id: id, kind: mdast.NodeCodeBlock, fence: f})
}

func (p *Parser) openHTMLBlock(kind htmlKind, c *cursor, offset int) {
	id := p.addChild(mdast.NodeHTMLBlock, offset)
	rest := c.rest()
	o := &openBlock{id: id, kind: mdast.NodeHTMLBlock, html: kind, lines: [][]byte{rest}}
	p.stack = append(p.stack, o)
	if kind.endsOn(rest) {
		p.closeTop()
	}
}

// addChild appends a new node to the innermost open container and tracks
// whether the enclosing list has become loose.
func (p *Parser) addChild(kind mdast.NodeKind, offset int) mdast.NodeID {
	parent := p.tip()
	switch parent.kind {
	case mdast.NodeList:
		if parent.blankPending {
			parent.loose = true
		}
	case mdast.NodeListItem:
		if parent.blankPending && len(p.tree.Children(parent.id)) > 0 {
			p.stack[len(p.stack)-2].loose = true
		}
	default:
	}

	id := p.tree.NewNode(kind, offset)
	p.tree.AppendChild(parent.id, id)
	return id
}

func (p *Parser) clearBlankPending() {
	for _, o := range p.stack {
		o.blankPending = false
	}
}

// closeUnmatched closes every open block above the first keep entries.
func (p *Parser) closeUnmatched(keep int) {
	for len(p.stack) > keep {
		p.closeTop()
	}
}

// closeTop closes the innermost open block.
func (p *Parser) closeTop() {
	o := p.tip()
	p.stack = p.stack[:len(p.stack)-1]
	node := p.tree.Node(o.id)

	switch o.kind {
	case mdast.NodeParagraph:
		p.extractDefinitions(o)
		if len(o.lines) == 0 {
			p.tree.RemoveLastChild(p.tip().id)
			return
		}
		p.setText(o)

	case mdast.NodeCodeBlock:
		if o.fence.char == 0 {
			node.Literal = joinCode(trimTrailingBlank(o.lines))
			return
		}
		node.Literal = joinCode(o.lines)
		node.Block.CodeBlock.Closed = o.fence.closed
		if !o.fence.closed {
			diag.New(diag.KindStructural, node.Offset).
				WithMessagef("fenced code block opened with %q is never closed",
					bytes.Repeat([]byte{o.fence.char}, o.fence.length)).
				AddTo(p.diags)
		}

	case mdast.NodeHTMLBlock:
		node.Literal = joinCode(o.lines)
		if !o.html.endsAtBlank() && !o.html.endsOn(o.lines[len(o.lines)-1]) {
			diag.New(diag.KindStructural, node.Offset).
				WithSeverity(diag.SeverityInfo).
				WithMessage("raw HTML block is never terminated").
				AddTo(p.diags)
		}

	case mdast.NodeList:
		node.Block.List.Tight = !o.loose

	case mdast.NodeMetadata:
		node.Literal = joinCode(o.lines)
		if !o.metaClosed {
			diag.New(diag.KindStructural, node.Offset).
				WithMessagef("metadata block opened with %s is never closed", metaOpen).
				AddTo(p.diags)
		}
		p.readMetadata(node.Literal, node.Offset)

	default:
	}
}

// extractDefinitions moves reference definitions at the start of a
// paragraph into the reference table.
func (p *Parser) extractDefinitions(o *openBlock) {
	consumed := 0
	for consumed < len(o.lines) {
		def, ok := refs.ParseDefinition(o.lines[consumed], o.offsets[consumed])
		if !ok {
			break
		}
		p.refs.Define(def)
		consumed++
	}
	o.lines = o.lines[consumed:]
	o.offsets = o.offsets[consumed:]
}

// setText stores the joined paragraph lines on the node.
func (p *Parser) setText(o *openBlock) {
	node := p.tree.Node(o.id)

	var buf []byte
	spans := make([]mdast.Span, 0, len(o.lines))
	for i, line := range o.lines {
		if i > 0 {
			buf = append(buf, '\n')
		}
		spans = append(spans, mdast.Span{Literal: len(buf), Source: o.offsets[i]})
		buf = append(buf, line...)
	}

	node.Literal = bytes.TrimRight(buf, " \t")
	node.Spans = spans
	node.Offset = o.offsets[0]
}

func joinCode(lines [][]byte) []byte {
	var buf []byte
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return buf
}

func trimTrailingBlank(lines [][]byte) [][]byte {
	for len(lines) > 0 && len(bytes.TrimLeft(lines[len(lines)-1], " \t")) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}
