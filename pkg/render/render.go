// Package render serializes a parsed document tree to HTML.
//
// Rendering never fails for a well-formed tree; the only error Render
// returns is one from the destination writer.
package render

import (
	"bytes"
	"io"
	"strconv"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdhtml/pkg/langdetect"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
	"github.com/yaklabco/gomdhtml/pkg/refs"
)

// Options controls optional output features. The zero value renders a
// plain HTML fragment.
type Options struct {
	// HeadingIDs adds an id attribute derived from the heading text.
	HeadingIDs bool

	// Highlight colors fenced code with a known language using CSS classes.
	Highlight bool

	// HighlightStyle names the chroma style whose CSS is embedded in
	// standalone documents. Empty means DefaultHighlightStyle.
	HighlightStyle string

	// DetectLanguage guesses a language for code blocks without one.
	DetectLanguage bool

	// Standalone wraps the fragment in a complete HTML5 document.
	Standalone bool

	// Title overrides the standalone document title, which otherwise comes
	// from the first heading.
	Title string
}

// Render writes the HTML for tree to w.
func Render(w io.Writer, tree *mdast.Tree, opts Options) error {
	_, err := w.Write(renderBytes(tree, opts))
	return err
}

// RenderString returns the HTML for tree.
func RenderString(tree *mdast.Tree, opts Options) string {
	return string(renderBytes(tree, opts))
}

func renderBytes(tree *mdast.Tree, opts Options) []byte {
	r := &renderer{tree: tree, opts: opts}
	if opts.HeadingIDs {
		r.anchors = refs.NewAnchors()
	}
	if opts.Highlight {
		r.highlighter = newHighlighter(opts.HighlightStyle)
	}

	if tree != nil && tree.Len() > 0 {
		r.children(mdast.Root, false)
		r.footnoteSection()
	}
	if !opts.Standalone {
		return r.buf.Bytes()
	}
	return r.document()
}

type renderer struct {
	tree        *mdast.Tree
	opts        Options
	buf         bytes.Buffer
	anchors     *refs.Anchors
	highlighter *highlighter

	// footnotes holds the footnote nodes in the order of their markers.
	footnotes []mdast.NodeID
	linkDepth int
}

// cr starts a new line unless the output is empty or already at one.
func (r *renderer) cr() {
	if n := r.buf.Len(); n > 0 && r.buf.Bytes()[n-1] != '\n' {
		r.buf.WriteByte('\n')
	}
}

func (r *renderer) raw(s string) {
	r.buf.WriteString(s)
}

func (r *renderer) escape(b []byte) {
	r.buf.Write(util.EscapeHTML(b))
}

func (r *renderer) children(id mdast.NodeID, tight bool) {
	for _, child := range r.tree.Children(id) {
		r.block(child, tight)
	}
}

func (r *renderer) block(id mdast.NodeID, tight bool) {
	n := r.tree.Node(id)

	switch n.Kind {
	case mdast.NodeParagraph:
		if tight {
			r.inlines(id)
			return
		}
		r.cr()
		r.raw("<p>")
		r.inlines(id)
		r.raw("</p>")
		r.cr()

	case mdast.NodeHeading:
		level := strconv.Itoa(n.Block.HeadingLevel)
		r.cr()
		r.raw("<h" + level)
		if r.anchors != nil {
			r.raw(` id="`)
			r.escape([]byte(r.anchors.Generate(r.tree.PlainText(id))))
			r.raw(`"`)
		}
		r.raw(">")
		r.inlines(id)
		r.raw("</h" + level + ">")
		r.cr()

	case mdast.NodeThematicBreak:
		r.cr()
		r.raw("<hr />")
		r.cr()

	case mdast.NodeBlockquote:
		r.cr()
		r.raw("<blockquote>\n")
		r.children(id, false)
		r.cr()
		r.raw("</blockquote>")
		r.cr()

	case mdast.NodeList:
		r.list(id, n)

	case mdast.NodeListItem:
		r.cr()
		r.raw("<li>")
		r.children(id, tight)
		r.raw("</li>")
		r.cr()

	case mdast.NodeCodeBlock:
		r.codeBlock(n)

	case mdast.NodeHTMLBlock:
		r.cr()
		r.buf.Write(n.Literal)
		r.cr()

	case mdast.NodeMetadata:

	default:
		r.children(id, tight)
	}
}

func (r *renderer) list(id mdast.NodeID, n *mdast.Node) {
	attrs := n.Block.List
	tag := "ul"
	if attrs.Ordered {
		tag = "ol"
	}

	r.cr()
	r.raw("<" + tag)
	if attrs.Ordered && attrs.StartNumber != 1 {
		r.raw(` start="` + strconv.Itoa(attrs.StartNumber) + `"`)
	}
	r.raw(">\n")
	r.children(id, attrs.Tight)
	r.cr()
	r.raw("</" + tag + ">")
	r.cr()
}

func (r *renderer) codeBlock(n *mdast.Node) {
	code := n.Block.CodeBlock
	lang := ""
	if code != nil {
		lang = code.Language
	}
	if lang == "" && r.opts.DetectLanguage {
		if guess, ok := langdetect.Detect(n.Literal); ok {
			lang = guess
		}
	}

	r.cr()
	r.raw("<pre><code")
	if lang != "" {
		r.raw(` class="language-`)
		r.escape([]byte(lang))
		r.raw(`"`)
	}
	r.raw(">")
	if r.highlighter == nil || lang == "" || !r.highlighter.highlight(&r.buf, lang, n.Literal) {
		r.escape(n.Literal)
	}
	r.raw("</code></pre>")
	r.cr()
}

func (r *renderer) inlines(id mdast.NodeID) {
	for _, child := range r.tree.Children(id) {
		r.inline(child)
	}
}

func (r *renderer) inline(id mdast.NodeID) {
	n := r.tree.Node(id)

	switch n.Kind {
	case mdast.NodeText, mdast.NodeEscaped:
		r.escape(n.Literal)
	case mdast.NodeCodeSpan:
		r.raw("<code>")
		r.escape(n.Literal)
		r.raw("</code>")
	case mdast.NodeEmphasis:
		r.raw("<em>")
		r.inlines(id)
		r.raw("</em>")
	case mdast.NodeStrong:
		r.raw("<strong>")
		r.inlines(id)
		r.raw("</strong>")
	case mdast.NodeStrikethrough:
		r.raw("<del>")
		r.inlines(id)
		r.raw("</del>")
	case mdast.NodeSoftBreak:
		r.raw("\n")
	case mdast.NodeHardBreak:
		r.raw("<br />\n")
	case mdast.NodeHTMLInline:
		r.buf.Write(n.Literal)
	case mdast.NodeLink:
		link := linkAttrs(n)
		r.raw(`<a href="`)
		r.url(link.Destination)
		r.raw(`"`)
		r.title(link.Title)
		r.raw(">")
		r.linkDepth++
		r.inlines(id)
		r.linkDepth--
		r.raw("</a>")
	case mdast.NodeImage:
		link := linkAttrs(n)
		r.raw(`<img src="`)
		r.url(link.Destination)
		r.raw(`" alt="`)
		r.escape([]byte(r.tree.PlainText(id)))
		r.raw(`"`)
		r.title(link.Title)
		r.raw(" />")
	case mdast.NodeFootnote:
		r.footnoteRef(id)
	default:
		r.inlines(id)
	}
}

// footnoteRef numbers a footnote and emits its marker. Inside a link the
// marker is not itself a link.
func (r *renderer) footnoteRef(id mdast.NodeID) {
	r.footnotes = append(r.footnotes, id)
	n := strconv.Itoa(len(r.footnotes))

	if r.linkDepth > 0 {
		r.raw(`<sup class="footnote-ref" id="fnref-` + n + `">` + n + `</sup>`)
		return
	}
	r.raw(`<sup class="footnote-ref"><a href="#fn-` + n + `" id="fnref-` + n + `">` + n + `</a></sup>`)
}

// footnoteSection lists the footnote texts after the body. Footnotes
// nested in other footnotes are numbered as they are reached here.
func (r *renderer) footnoteSection() {
	if len(r.footnotes) == 0 {
		return
	}

	r.cr()
	r.raw("<section class=\"footnotes\">\n<ol>\n")
	for i := 0; i < len(r.footnotes); i++ {
		n := strconv.Itoa(i + 1)
		r.raw(`<li id="fn-` + n + `">`)
		r.inlines(r.footnotes[i])
		r.raw(` <a href="#fnref-` + n + `" class="footnote-backref">&#8617;</a></li>` + "\n")
	}
	r.raw("</ol>\n</section>\n")
}

func (r *renderer) url(dest string) {
	r.escape(util.URLEscape([]byte(dest), false))
}

func (r *renderer) title(title string) {
	if title == "" {
		return
	}
	r.raw(` title="`)
	r.escape([]byte(title))
	r.raw(`"`)
}

func linkAttrs(n *mdast.Node) *mdast.LinkAttrs {
	if n.Inline == nil || n.Inline.Link == nil {
		return &mdast.LinkAttrs{}
	}
	return n.Inline.Link
}
