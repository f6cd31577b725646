package inline

import (
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
)

// A footnote is written inline as |footnote> text <footnote|.
//
//nolint:gochecknoglobals // Read-only markers.
var (
	footnoteOpen  = []byte("|footnote>")
	footnoteClose = []byte("<footnote|")
)

// openFootnote records a footnote opener at i on the bracket stack, where
// it also fences off link openers outside the footnote.
func (s *state) openFootnote(i int) {
	s.flush(i)
	s.pushBracket(i, len(footnoteOpen), false)
	s.brackets[len(s.brackets)-1].footnote = true
	s.textStart = i + len(footnoteOpen)
}

// closeFootnote handles a closing marker at i. The items since the
// innermost open footnote become its children; link openers left inside
// it stay literal text. It reports false when no footnote is open.
func (s *state) closeFootnote(i int) (int, bool) {
	k := len(s.brackets) - 1
	for k >= 0 && !s.brackets[k].footnote {
		k--
	}
	if k < 0 {
		return 0, false
	}
	b := s.brackets[k]
	s.brackets = s.brackets[:k]

	s.flush(i)
	s.processEmphasis(b.delimBase)
	s.wrap(b.item, none, mdast.NodeFootnote, s.offset(b.start))
	s.unlink(b.item)

	end := i + len(footnoteClose)
	s.textStart = end
	return end, true
}

// unclosedFootnotes reports footnote openers left on the stack once the
// scan ends. Their markers stay literal text.
func (s *state) unclosedFootnotes() {
	for _, b := range s.brackets {
		if !b.footnote {
			continue
		}
		diag.New(diag.KindStructural, s.offset(b.start)).
			WithSeverity(diag.SeverityInfo).
			WithMessagef("footnote opened with %s is never closed", footnoteOpen).
			AddTo(s.diags)
	}
}
