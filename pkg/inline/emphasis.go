package inline

import (
	"bytes"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdhtml/pkg/mdast"
)

// delimiter is an entry on the emphasis delimiter stack. It refers to the
// text item holding the run's remaining characters.
type delimiter struct {
	item  int
	char  byte
	count int // characters still unmatched
	orig  int // length of the run as scanned

	canOpen  bool
	canClose bool
	active   bool
}

// delimiterRun scans a run of '*', '_' or '~' starting at i and records it
// on the delimiter stack when it can open or close emphasis or
// strikethrough.
func (s *state) delimiterRun(i int) int {
	src := s.src
	char := src[i]
	n := runLength(src, i, char)

	before := '\n'
	if i > 0 {
		before, _ = utf8.DecodeLastRune(src[:i])
	}
	after := '\n'
	if i+n < len(src) {
		after, _ = utf8.DecodeRune(src[i+n:])
	}

	beforeSpace, beforePunct := util.IsSpaceRune(before), util.IsPunctRune(before)
	afterSpace, afterPunct := util.IsSpaceRune(after), util.IsPunctRune(after)

	leftFlanking := !afterSpace && (!afterPunct || beforeSpace || beforePunct)
	rightFlanking := !beforeSpace && (!beforePunct || afterSpace || afterPunct)

	canOpen, canClose := leftFlanking, rightFlanking
	if char == '_' {
		canOpen = leftFlanking && (!rightFlanking || beforePunct)
		canClose = rightFlanking && (!leftFlanking || afterPunct)
	}

	if !canOpen && !canClose {
		// Plain text; keep it in the pending run.
		return i + n
	}

	s.flush(i)
	idx := s.push(s.tree.NewText(src[i:i+n], s.offset(i)))
	s.textStart = i + n
	s.delims = append(s.delims, delimiter{
		item:     idx,
		char:     char,
		count:    n,
		orig:     n,
		canOpen:  canOpen,
		canClose: canClose,
		active:   true,
	})
	return i + n
}

// openerKey indexes the lower search bound kept per closer class, so that
// runs of unmatched closers do not rescan the same openers.
func openerKey(d delimiter) int {
	key := d.orig % 3
	if d.canOpen {
		key += 3
	}
	switch d.char {
	case '_':
		key += 6
	case '~':
		key += 12
	}
	return key
}

// mismatched applies the rule of three: when either run can both open and
// close, the run lengths may not sum to a multiple of three unless both are
// multiples of three. Tilde runs are exempt.
func mismatched(opener, closer delimiter) bool {
	if opener.char == '~' || (!opener.canClose && !closer.canOpen) {
		return false
	}
	return (opener.orig+closer.orig)%3 == 0 && (opener.orig%3 != 0 || closer.orig%3 != 0)
}

// processEmphasis matches delimiters at or above bottom on the stack and
// wraps the items between each matched pair in emphasis or strong nodes.
func (s *state) processEmphasis(bottom int) {
	var limits [18]int
	for k := range limits {
		limits[k] = bottom - 1
	}

	for ci := bottom; ci < len(s.delims); ci++ {
		if !s.delims[ci].active || !s.delims[ci].canClose {
			continue
		}

		for s.delims[ci].count > 0 {
			closer := s.delims[ci]
			key := openerKey(closer)

			oi := none
			for k := ci - 1; k > limits[key]; k-- {
				opener := s.delims[k]
				if !opener.active || !opener.canOpen || opener.count == 0 || opener.char != closer.char {
					continue
				}
				if mismatched(opener, closer) {
					continue
				}
				oi = k
				break
			}

			if oi == none {
				limits[key] = ci - 1
				if !closer.canOpen {
					s.delims[ci].active = false
				}
				break
			}

			s.match(oi, ci)
		}
	}

	s.delims = s.delims[:bottom]
}

// match pairs the opener at oi with the closer at ci.
func (s *state) match(oi, ci int) {
	opener, closer := &s.delims[oi], &s.delims[ci]

	use, kind := 1, mdast.NodeEmphasis
	if opener.count >= 2 && closer.count >= 2 {
		use, kind = 2, mdast.NodeStrong
	}
	if opener.char == '~' {
		kind = mdast.NodeStrikethrough
	}

	openNode := s.tree.Node(s.items[opener.item].node)
	s.wrap(opener.item, closer.item, kind, openNode.Offset+opener.count-use)

	for k := oi + 1; k < ci; k++ {
		s.delims[k].active = false
	}

	opener.count -= use
	closer.count -= use
	s.trimRun(opener)
	s.trimRun(closer)
}

// trimRun shrinks the text of a delimiter item to its unmatched
// characters, removing the item once none remain.
func (s *state) trimRun(d *delimiter) {
	node := s.tree.Node(s.items[d.item].node)
	if d.count == 0 {
		s.unlink(d.item)
		d.active = false
		return
	}
	node.Literal = bytes.Repeat([]byte{d.char}, d.count)
}
