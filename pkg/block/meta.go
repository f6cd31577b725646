package block

import (
	"bytes"
	"strings"

	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
)

// A metadata block runs from a line starting with |meta> to the next
// <meta|. Inside it, fields are written as |name> value <name|.
//
//nolint:gochecknoglobals // Read-only markers.
var (
	metaOpen  = []byte("|meta>")
	metaClose = []byte("<meta|")
)

// metaField is a field recognized inside a metadata block.
type metaField struct {
	name string
	set  func(*mdast.Metadata, string)
}

//nolint:gochecknoglobals // Read-only field table.
var metaFields = []metaField{
	{"author", func(m *mdast.Metadata, v string) { m.Author = v }},
	{"copyright", func(m *mdast.Metadata, v string) { m.Copyright = v }},
}

func (p *Parser) openMetadata(rest []byte, offset int) {
	id := p.addChild(mdast.NodeMetadata, offset)
	o := &openBlock{id: id, kind: mdast.NodeMetadata}
	p.stack = append(p.stack, o)
	p.continueMetadata(o, rest[len(metaOpen):])
}

// continueMetadata adds a line to an open metadata block and closes the
// block when the line holds the end marker. Text after it is dropped.
func (p *Parser) continueMetadata(o *openBlock, line []byte) {
	end := bytes.Index(line, metaClose)
	if end < 0 {
		o.lines = append(o.lines, line)
		return
	}
	o.lines = append(o.lines, line[:end])
	o.metaClosed = true
	p.closeTop()
}

// readMetadata copies the fields found in content into the tree. A field
// given more than once keeps its last value.
func (p *Parser) readMetadata(content []byte, offset int) {
	for _, field := range metaFields {
		open := []byte("|" + field.name + ">")
		closing := []byte("<" + field.name + "|")

		rest := content
		for {
			start := bytes.Index(rest, open)
			if start < 0 {
				break
			}
			rest = rest[start+len(open):]
			end := bytes.Index(rest, closing)
			if end < 0 {
				diag.New(diag.KindStructural, offset).
					WithMessagef("metadata field %s is never closed with %s", open, closing).
					AddTo(p.diags)
				break
			}
			field.set(&p.tree.Meta, strings.Join(strings.Fields(string(rest[:end])), " "))
			rest = rest[end+len(closing):]
		}
	}
}
