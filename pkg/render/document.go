package render

import (
	"bytes"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdhtml/pkg/mdast"
)

// defaultTitle is the standalone document title when the tree has no
// heading and no title was configured.
const defaultTitle = "Document"

// document wraps the rendered fragment in a complete HTML5 document.
func (r *renderer) document() []byte {
	var out bytes.Buffer

	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	out.Write(util.EscapeHTML([]byte(r.documentTitle())))
	out.WriteString("</title>\n")
	if r.tree != nil {
		writeMeta(&out, "author", r.tree.Meta.Author)
		writeMeta(&out, "copyright", r.tree.Meta.Copyright)
	}
	if r.highlighter != nil {
		if css := r.highlighter.css(); len(css) > 0 {
			out.WriteString("<style>\n")
			out.Write(css)
			out.WriteString("</style>\n")
		}
	}
	out.WriteString("</head>\n<body>\n")
	out.Write(r.buf.Bytes())
	out.WriteString("</body>\n</html>\n")

	return out.Bytes()
}

func writeMeta(out *bytes.Buffer, name, content string) {
	if content == "" {
		return
	}
	out.WriteString(`<meta name="` + name + `" content="`)
	out.Write(util.EscapeHTML([]byte(content)))
	out.WriteString("\">\n")
}

func (r *renderer) documentTitle() string {
	if r.opts.Title != "" {
		return r.opts.Title
	}
	if r.tree == nil || r.tree.Len() == 0 {
		return defaultTitle
	}
	heading := mdast.FindFirst(r.tree, mdast.Root, func(_ mdast.NodeID, n *mdast.Node) bool {
		return n.Kind == mdast.NodeHeading
	})
	if heading == mdast.NoNode {
		return defaultTitle
	}
	if title := r.tree.PlainText(heading); title != "" {
		return title
	}
	return defaultTitle
}
