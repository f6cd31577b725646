package inline

import (
	"github.com/yaklabco/gomdhtml/internal/mdtext"
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
)

// bracket is an entry on the link opener stack.
type bracket struct {
	item     int
	image    bool
	footnote bool
	active   bool

	// start is the position of the opener; textStart is just past it.
	start     int
	textStart int

	// delimBase is the delimiter stack height when the opener was pushed.
	delimBase int
}

func (s *state) pushBracket(i, width int, image bool) {
	idx := s.push(s.tree.NewText(s.src[i:i+width], s.offset(i)))
	s.brackets = append(s.brackets, bracket{
		item:      idx,
		image:     image,
		active:    true,
		start:     i,
		textStart: i + width,
		delimBase: len(s.delims),
	})
}

// link is a resolved link target.
type link struct {
	dest, title string
	label       string
	style       mdast.ReferenceStyle
}

// closeBracket handles ']' at i. It completes a link or image when the
// bracket is followed by a valid inline destination or names a defined
// reference; otherwise the ']' stays literal text.
func (s *state) closeBracket(i int) int {
	if len(s.brackets) == 0 {
		return i + 1
	}
	top := len(s.brackets) - 1
	b := s.brackets[top]
	if b.footnote {
		// A link cannot span the boundary of a footnote.
		return i + 1
	}
	if !b.active {
		s.brackets = s.brackets[:top]
		return i + 1
	}

	target, end, ok := s.inlineTarget(i + 1)
	if !ok {
		target, end, ok = s.referenceTarget(b, i)
	}
	if !ok {
		s.brackets = s.brackets[:top]
		return i + 1
	}

	s.flush(i)
	s.finishLink(b, target)
	s.brackets = s.brackets[:top]
	if !b.image {
		for k := range s.brackets {
			if !s.brackets[k].image && !s.brackets[k].footnote {
				s.brackets[k].active = false
			}
		}
	}
	s.textStart = end
	return end
}

// inlineTarget parses "(destination title)" starting at i.
func (s *state) inlineTarget(i int) (link, int, bool) {
	src := s.src
	if i >= len(src) || src[i] != '(' {
		return link{}, 0, false
	}

	k := mdtext.SkipSpace(src, i+1)
	if k < len(src) && src[k] == ')' {
		return link{style: mdast.ReferenceStyleInline}, k + 1, true
	}

	raw, n, ok := mdtext.ScanLinkDestination(src[k:])
	if !ok {
		return link{}, 0, false
	}
	target := link{dest: string(mdtext.Unescape(raw)), style: mdast.ReferenceStyleInline}
	k += n

	j := mdtext.SkipSpace(src, k)
	if j > k && j < len(src) && (src[j] == '"' || src[j] == '\'' || src[j] == '(') {
		title, m, ok := mdtext.ScanLinkTitle(src[j:])
		if !ok {
			return link{}, 0, false
		}
		target.title = string(mdtext.Unescape(title))
		j = mdtext.SkipSpace(src, j+m)
	}

	if j >= len(src) || src[j] != ')' {
		return link{}, 0, false
	}
	return target, j + 1, true
}

// referenceTarget resolves the full, collapsed or shortcut reference that
// follows the bracketed text ending at i.
func (s *state) referenceTarget(b bracket, i int) (link, int, bool) {
	src := s.src
	label := src[b.textStart:i]
	style := mdast.ReferenceStyleShortcut
	end := i + 1

	switch {
	case i+2 < len(src) && src[i+1] == '[' && src[i+2] == ']':
		style = mdast.ReferenceStyleCollapsed
		end = i + 3
	case i+1 < len(src) && src[i+1] == '[':
		inner, n, ok := mdtext.ScanLinkLabel(src[i+1:])
		if ok {
			label = inner
			style = mdast.ReferenceStyleFull
			end = i + 1 + n
		}
	}

	if style != mdast.ReferenceStyleFull && !s.isLabel(b.textStart-1, i) {
		return link{}, 0, false
	}

	def, found := s.refs.Lookup(string(label))
	if !found {
		s.unresolved(b, label, style)
		return link{}, 0, false
	}
	return link{
		dest:  def.Destination,
		title: def.Title,
		label: string(label),
		style: style,
	}, end, true
}

// isLabel reports whether src[open:close+1] is a well-formed link label.
func (s *state) isLabel(open, closing int) bool {
	_, n, ok := mdtext.ScanLinkLabel(s.src[open : closing+1])
	return ok && n == closing+1-open
}

func (s *state) unresolved(b bracket, label []byte, style mdast.ReferenceStyle) {
	severity := diag.SeverityWarning
	if style == mdast.ReferenceStyleShortcut {
		severity = diag.SeverityInfo
	}
	diag.New(diag.KindUnresolvedReference, s.offset(b.start)).
		WithSeverity(severity).
		WithMessagef("%s reference [%s] has no matching definition", style, label).
		AddTo(s.diags)
}

// finishLink turns the items after the opener into the children of a new
// link or image node that replaces the opener.
func (s *state) finishLink(b bracket, target link) {
	s.processEmphasis(b.delimBase)

	kind := mdast.NodeLink
	if b.image {
		kind = mdast.NodeImage
	}
	idx := s.wrap(b.item, none, kind, s.offset(b.start))
	s.unlink(b.item)

	node := s.tree.Node(s.items[idx].node)
	node.Inline = &mdast.InlineAttrs{
		Link: mdast.NewLinkAttrs(target.dest, target.title).WithReference(target.label, target.style),
	}
}

// scanAutolink recognizes a URI or email autolink at the start of b. It
// returns the text between the angle brackets and the full length.
func scanAutolink(b []byte) ([]byte, int, bool) {
	if n := scanURIAutolink(b); n > 0 {
		return b[1 : n-1], n, false
	}
	if n := scanEmailAutolink(b); n > 0 {
		return b[1 : n-1], n, true
	}
	return nil, 0, false
}

// scanURIAutolink matches <scheme:rest> where the scheme is 2-32
// characters and rest holds no whitespace, '<' or '>'.
func scanURIAutolink(b []byte) int {
	if len(b) < 4 || b[0] != '<' || !isASCIILetter(b[1]) {
		return 0
	}
	i := 2
	for i < len(b) && (isASCIILetter(b[i]) || isDigit(b[i]) || b[i] == '+' || b[i] == '.' || b[i] == '-') {
		i++
	}
	if scheme := i - 1; scheme < 2 || scheme > 32 || i >= len(b) || b[i] != ':' {
		return 0
	}
	for i++; i < len(b); i++ {
		switch c := b[i]; {
		case c == '>':
			return i + 1
		case c == '<' || c <= ' ':
			return 0
		}
	}
	return 0
}

// scanEmailAutolink matches <local@domain>.
func scanEmailAutolink(b []byte) int {
	if len(b) < 4 || b[0] != '<' {
		return 0
	}
	i := 1
	for i < len(b) && isEmailLocal(b[i]) {
		i++
	}
	if i == 1 || i >= len(b) || b[i] != '@' {
		return 0
	}
	i++

	for {
		start := i
		for i < len(b) && (isASCIILetter(b[i]) || isDigit(b[i]) || (b[i] == '-' && i > start)) {
			i++
		}
		label := i - start
		if label == 0 || label > 63 || b[i-1] == '-' {
			return 0
		}
		if i >= len(b) {
			return 0
		}
		switch b[i] {
		case '>':
			return i + 1
		case '.':
			i++
		default:
			return 0
		}
	}
}

func isEmailLocal(c byte) bool {
	if isASCIILetter(c) || isDigit(c) {
		return true
	}
	switch c {
	case '.', '!', '#', '$', '%', '&', '\'', '*', '+', '/', '=', '?', '^', '_', '`', '{', '|', '}', '~', '-':
		return true
	}
	return false
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
