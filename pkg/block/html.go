package block

import (
	"bytes"

	"golang.org/x/net/html/atom"

	"github.com/yaklabco/gomdhtml/internal/mdtext"
)

// htmlKind is the start condition that opened an HTML block. It decides
// how the block ends.
type htmlKind int

const (
	htmlNone      htmlKind = iota
	htmlRawText            // <script>, <pre>, <style>, <textarea>
	htmlComment            // <!-- ... -->
	htmlProcessing         // <? ... ?>
	htmlDeclaration        // <!DOCTYPE ...>
	htmlCDATA              // <![CDATA[ ... ]]>
	htmlBlockTag           // known block-level element
	htmlAnyTag             // any complete tag alone on its line
)

//nolint:gochecknoglobals // Read-only lookup table.
var rawTextTags = []string{"script", "pre", "style", "textarea"}

// blockTags holds the elements that open an HTML block ending at a blank line.
//
//nolint:gochecknoglobals // Read-only lookup table.
var blockTags = func() map[atom.Atom]bool {
	names := []string{
		"address", "article", "aside", "base", "basefont", "blockquote", "body",
		"caption", "center", "col", "colgroup", "dd", "details", "dialog", "dir",
		"div", "dl", "dt", "fieldset", "figcaption", "figure", "footer", "form",
		"frame", "frameset", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header",
		"hr", "html", "iframe", "legend", "li", "link", "main", "menu", "menuitem",
		"nav", "noframes", "ol", "optgroup", "option", "p", "param", "search",
		"section", "summary", "table", "tbody", "td", "tfoot", "th", "thead",
		"title", "tr", "track", "ul",
	}
	tags := make(map[atom.Atom]bool, len(names))
	for _, name := range names {
		if a := atom.Lookup([]byte(name)); a != 0 {
			tags[a] = true
		}
	}
	return tags
}()

// htmlStart returns the HTML block start condition matched by b, which
// begins after the line's indentation.
func htmlStart(b []byte) htmlKind {
	if len(b) < 2 || b[0] != '<' {
		return htmlNone
	}

	switch {
	case bytes.HasPrefix(b, []byte("<!--")):
		return htmlComment
	case bytes.HasPrefix(b, []byte("<?")):
		return htmlProcessing
	case bytes.HasPrefix(b, []byte("<![CDATA[")):
		return htmlCDATA
	case b[1] == '!' && len(b) > 2 && isASCIILetter(b[2]):
		return htmlDeclaration
	}

	name := bytes.ToLower(mdtext.TagName(b))
	if len(name) == 0 {
		return htmlNone
	}
	after := len(name) + 1
	if b[1] == '/' {
		after++
	}

	if b[1] != '/' {
		for _, tag := range rawTextTags {
			if string(name) == tag && endsTagName(b, after) {
				return htmlRawText
			}
		}
	}

	if blockTags[atom.Lookup(name)] && (endsTagName(b, after) || bytes.HasPrefix(b[after:], []byte("/>"))) {
		return htmlBlockTag
	}

	n := mdtext.ScanOpenTag(b)
	if b[1] == '/' {
		n = mdtext.ScanClosingTag(b)
	}
	if n > 0 && len(bytes.TrimRight(b[n:], " \t")) == 0 {
		return htmlAnyTag
	}
	return htmlNone
}

func endsTagName(b []byte, i int) bool {
	return i >= len(b) || b[i] == ' ' || b[i] == '\t' || b[i] == '>'
}

// endsAtBlank reports whether the block is closed by a blank line rather
// than an end marker.
func (k htmlKind) endsAtBlank() bool {
	return k == htmlBlockTag || k == htmlAnyTag
}

// endsOn reports whether line holds the end marker for the block.
func (k htmlKind) endsOn(line []byte) bool {
	switch k {
	case htmlRawText:
		lower := bytes.ToLower(line)
		for _, tag := range rawTextTags {
			if bytes.Contains(lower, []byte("</"+tag+">")) {
				return true
			}
		}
		return false
	case htmlComment:
		return bytes.Contains(line, []byte("-->"))
	case htmlProcessing:
		return bytes.Contains(line, []byte("?>"))
	case htmlDeclaration:
		return bytes.IndexByte(line, '>') >= 0
	case htmlCDATA:
		return bytes.Contains(line, []byte("]]>"))
	default:
		return false
	}
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
