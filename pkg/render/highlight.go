package render

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// highlighter colors code with chroma. Tokens carry CSS classes, so the
// output only changes appearance together with the style sheet.
type highlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

func newHighlighter(styleName string) *highlighter {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	return &highlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		style: styles.Get(styleName),
	}
}

// highlight writes code tokenized for lang to buf. It reports false,
// leaving buf untouched, when lang has no lexer or tokenizing fails.
func (h *highlighter) highlight(buf *bytes.Buffer, lang string, code []byte) bool {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return false
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, string(code))
	if err != nil {
		return false
	}

	var out bytes.Buffer
	if err := h.formatter.Format(&out, h.style, iterator); err != nil {
		return false
	}
	buf.Write(out.Bytes())
	return true
}

// css returns the style sheet for the highlighter's style.
func (h *highlighter) css() []byte {
	var out bytes.Buffer
	if err := h.formatter.WriteCSS(&out, h.style); err != nil {
		return nil
	}
	return out.Bytes()
}

// HighlightStyles returns the names of the available highlight styles.
func HighlightStyles() []string {
	return styles.Names()
}

// IsHighlightStyle reports whether name is an available highlight style.
// Unknown names fall back to chroma's default style when rendering.
func IsHighlightStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}
