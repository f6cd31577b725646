package block_test

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdhtml/pkg/block"
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
	"github.com/yaklabco/gomdhtml/pkg/refs"
	"github.com/yaklabco/gomdhtml/pkg/scanner"
)

// dump renders the block tree compactly, e.g.
// List(tight)[ListItem[Paragraph "a"]].
func dump(tree *mdast.Tree, id mdast.NodeID) string {
	n := tree.Node(id)

	var b strings.Builder
	b.WriteString(n.Kind.String())

	switch n.Kind {
	case mdast.NodeHeading:
		fmt.Fprintf(&b, "%d", n.Block.HeadingLevel)
	case mdast.NodeList:
		list := n.Block.List
		var attrs []string
		if list.Ordered {
			attrs = append(attrs, fmt.Sprintf("ordered,%d%c", list.StartNumber, list.Delimiter))
		}
		if list.Tight {
			attrs = append(attrs, "tight")
		} else {
			attrs = append(attrs, "loose")
		}
		fmt.Fprintf(&b, "(%s)", strings.Join(attrs, ","))
	case mdast.NodeCodeBlock:
		if lang := n.Block.CodeBlock.Language; lang != "" {
			fmt.Fprintf(&b, "(%s)", lang)
		}
	default:
	}

	if len(n.Literal) > 0 {
		fmt.Fprintf(&b, " %q", n.Literal)
	}

	if len(n.Children) > 0 {
		parts := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			parts = append(parts, dump(tree, child))
		}
		b.WriteString("[" + strings.Join(parts, " ") + "]")
	}

	return b.String()
}

func parse(t *testing.T, src string) (*mdast.Tree, *refs.Table, *diag.List) {
	t.Helper()

	table := refs.NewTable()
	diags := diag.NewList()
	lines := scanner.Scan([]byte(src), diags)
	tree := block.Parse(slices.Values(lines), table, diags)
	return tree, table, diags
}

func TestParse_Structure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty document",
			input:    "",
			expected: `Document`,
		},
		{
			name:     "heading and paragraph",
			input:    "# Title\n\nSome text\nmore text\n",
			expected: `Document[Heading1 "Title" Paragraph "Some text\nmore text"]`,
		},
		{
			name:     "atx closing sequence",
			input:    "## Title ##\n#5 not a heading\n####### seven",
			expected: `Document[Heading2 "Title" Paragraph "#5 not a heading\n####### seven"]`,
		},
		{
			name:     "setext level one",
			input:    "Title\n=====\n",
			expected: `Document[Heading1 "Title"]`,
		},
		{
			name:     "setext level two with short underline",
			input:    "Title\n--\n",
			expected: `Document[Heading2 "Title"]`,
		},
		{
			name:     "thematic break wins over setext",
			input:    "Title\n---\n",
			expected: `Document[Paragraph "Title" ThematicBreak]`,
		},
		{
			name:     "thematic break variants",
			input:    "***\n_ _ _\n- - -\n",
			expected: `Document[ThematicBreak ThematicBreak ThematicBreak]`,
		},
		{
			name:     "fenced code",
			input:    "```go\nfunc main() {}\n```\n",
			expected: `Document[CodeBlock(go) "func main() {}\n"]`,
		},
		{
			name:     "tilde fence keeps inner backticks",
			input:    "~~~\n```\n~~~\n",
			expected: "Document[CodeBlock \"```\\n\"]",
		},
		{
			name:     "fence indentation is removed",
			input:    "  ```\n  a\n    b\n c\n  ```\n",
			expected: `Document[CodeBlock "a\n  b\nc\n"]`,
		},
		{
			name:     "indented code drops trailing blank lines",
			input:    "    code\n\n    more\n\n\n",
			expected: `Document[CodeBlock "code\n\nmore\n"]`,
		},
		{
			name:     "indented code cannot interrupt a paragraph",
			input:    "para\n    still para\n",
			expected: `Document[Paragraph "para\nstill para"]`,
		},
		{
			name:     "block quote with lazy continuation",
			input:    "> quote\nlazy\n",
			expected: `Document[Blockquote[Paragraph "quote\nlazy"]]`,
		},
		{
			name:     "nested block quotes",
			input:    "> > deep\n> shallow\n",
			expected: `Document[Blockquote[Blockquote[Paragraph "deep\nshallow"]]]`,
		},
		{
			name:     "block quote ends at blank line",
			input:    "> a\n\nb\n",
			expected: `Document[Blockquote[Paragraph "a"] Paragraph "b"]`,
		},
		{
			name:     "tight bullet list",
			input:    "- a\n- b\n",
			expected: `Document[List(tight)[ListItem[Paragraph "a"] ListItem[Paragraph "b"]]]`,
		},
		{
			name:     "loose bullet list",
			input:    "- a\n\n- b\n",
			expected: `Document[List(loose)[ListItem[Paragraph "a"] ListItem[Paragraph "b"]]]`,
		},
		{
			name:     "loose because of blank line inside item",
			input:    "- a\n\n  b\n- c\n",
			expected: `Document[List(loose)[ListItem[Paragraph "a" Paragraph "b"] ListItem[Paragraph "c"]]]`,
		},
		{
			name:     "trailing blank line keeps list tight",
			input:    "- a\n- b\n\nafter\n",
			expected: `Document[List(tight)[ListItem[Paragraph "a"] ListItem[Paragraph "b"]] Paragraph "after"]`,
		},
		{
			name:     "ordered list start and delimiter",
			input:    "3) three\n4) four\n",
			expected: `Document[List(ordered,3),tight)[ListItem[Paragraph "three"] ListItem[Paragraph "four"]]]`,
		},
		{
			name:     "changing bullet starts a new list",
			input:    "- a\n* b\n",
			expected: `Document[List(tight)[ListItem[Paragraph "a"]] List(tight)[ListItem[Paragraph "b"]]]`,
		},
		{
			name:     "nested list",
			input:    "- a\n  - b\n- c\n",
			expected: `Document[List(tight)[ListItem[Paragraph "a" List(tight)[ListItem[Paragraph "b"]]] ListItem[Paragraph "c"]]]`,
		},
		{
			name:     "ordered list other than 1 cannot interrupt a paragraph",
			input:    "text\n2. not a list\n",
			expected: `Document[Paragraph "text\n2. not a list"]`,
		},
		{
			name:     "bullet list interrupts a paragraph",
			input:    "text\n- item\n",
			expected: `Document[Paragraph "text" List(tight)[ListItem[Paragraph "item"]]]`,
		},
		{
			name:     "list item with tab after marker",
			input:    "-\tfoo\n",
			expected: `Document[List(tight)[ListItem[Paragraph "foo"]]]`,
		},
		{
			name:     "empty item followed by content",
			input:    "-\n  foo\n",
			expected: `Document[List(tight)[ListItem[Paragraph "foo"]]]`,
		},
		{
			name:     "indented code is not recognized inside list items",
			input:    "- a\n\n      b\n",
			expected: `Document[List(loose)[ListItem[Paragraph "a" Paragraph "b"]]]`,
		},
		{
			name:     "list inside block quote",
			input:    "> - a\n> - b\n",
			expected: `Document[Blockquote[List(tight)[ListItem[Paragraph "a"] ListItem[Paragraph "b"]]]]`,
		},
		{
			name:     "html block ends at blank line",
			input:    "<div>\n*x*\n</div>\n\npara\n",
			expected: `Document[HTMLBlock "<div>\n*x*\n</div>\n" Paragraph "para"]`,
		},
		{
			name:     "html comment block",
			input:    "<!-- a\n\nb -->\nafter\n",
			expected: `Document[HTMLBlock "<!-- a\n\nb -->\n" Paragraph "after"]`,
		},
		{
			name:     "any complete tag cannot interrupt a paragraph",
			input:    "text\n<custom-tag>\n",
			expected: `Document[Paragraph "text\n<custom-tag>"]`,
		},
		{
			name:     "any complete tag alone starts a block",
			input:    "<custom-tag>\ntext\n",
			expected: `Document[HTMLBlock "<custom-tag>\ntext\n"]`,
		},
		{
			name:     "trailing spaces on the last line are trimmed",
			input:    "hard  \nbreak  \n",
			expected: `Document[Paragraph "hard  \nbreak"]`,
		},
		{
			name:     "CRLF input",
			input:    "# Title\r\n\r\ntext\r\n",
			expected: `Document[Heading1 "Title" Paragraph "text"]`,
		},
		{
			name:     "metadata block",
			input:    "|meta>\n|author> Jane Doe <author|\n<meta|\ntext\n",
			expected: `Document[Metadata "\n|author> Jane Doe <author|\n\n" Paragraph "text"]`,
		},
		{
			name:     "metadata interrupts paragraph",
			input:    "a\n|meta><meta| ignored\nb\n",
			expected: `Document[Paragraph "a" Metadata "\n" Paragraph "b"]`,
		},
		{
			name:     "metadata marker inside text",
			input:    "a |meta> b\n",
			expected: `Document[Paragraph "a |meta> b"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, _, _ := parse(t, tt.input)
			assert.Equal(t, tt.expected, dump(tree, mdast.Root))
		})
	}
}

func TestParse_ReferenceDefinitions(t *testing.T) {
	t.Parallel()

	tree, table, diags := parse(t, "[foo]: /url \"Title\"\n[FOO]: /other\n[bar]: /bar\nText after\n\n[baz]: /baz\n")

	assert.Equal(t, `Document[Paragraph "Text after"]`, dump(tree, mdast.Root))
	assert.Equal(t, 0, diags.Len())
	require.Equal(t, 3, table.Len())

	def, ok := table.Lookup("foo")
	require.True(t, ok)
	assert.Equal(t, "/url", def.Destination, "first definition wins")
	assert.Equal(t, "Title", def.Title)

	_, ok = table.Lookup("baz")
	assert.True(t, ok)
}

func TestParse_DefinitionOnlyParagraphProducesNothing(t *testing.T) {
	t.Parallel()

	tree, table, _ := parse(t, "> [a]: /a\n\n- [b]: /b\n")

	assert.Equal(t, `Document[Blockquote List(tight)[ListItem]]`, dump(tree, mdast.Root))
	assert.Equal(t, 2, table.Len())
}

func TestParse_DefinitionBeforeSetextUnderline(t *testing.T) {
	t.Parallel()

	tree, table, _ := parse(t, "[a]: /a\nTitle\n===\n")

	assert.Equal(t, `Document[Heading1 "Title"]`, dump(tree, mdast.Root))
	assert.Equal(t, 1, table.Len())
}

func TestParse_UnclosedFence(t *testing.T) {
	t.Parallel()

	tree, _, diags := parse(t, "text\n\n```\ncode\n")

	assert.Equal(t, `Document[Paragraph "text" CodeBlock "code\n"]`, dump(tree, mdast.Root))

	items := diags.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.KindStructural, items[0].Kind)
	assert.Equal(t, 6, items[0].Offset)
	assert.Contains(t, items[0].Message, "never closed")

	code := mdast.FindByKind(tree, mdast.Root, mdast.NodeCodeBlock)
	require.Len(t, code, 1)
	assert.False(t, tree.Node(code[0]).Block.CodeBlock.Closed)
}

func TestParse_FenceClosedByContainer(t *testing.T) {
	t.Parallel()

	tree, _, diags := parse(t, "> ```\n> code\n\nafter\n")

	assert.Equal(t, `Document[Blockquote[CodeBlock "code\n"] Paragraph "after"]`, dump(tree, mdast.Root))
	assert.Equal(t, 1, diags.CountKind(diag.KindStructural))
}

func TestParse_UnterminatedHTMLComment(t *testing.T) {
	t.Parallel()

	_, _, diags := parse(t, "<!-- never ends\n")

	items := diags.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.SeverityInfo, items[0].Severity)
}

func TestParse_Metadata(t *testing.T) {
	t.Parallel()

	src := "|meta>\n|author> Jane\n  Doe <author|\n|copyright> 2024 Old <copyright|\n<meta|\n\n" +
		"# Title\n\n|meta> |copyright> 2025 New <copyright| <meta|\n"
	tree, _, diags := parse(t, src)

	assert.Equal(t, 0, diags.Len(), diags.Items())
	assert.Equal(t, mdast.Metadata{Author: "Jane Doe", Copyright: "2025 New"}, tree.Meta)
	assert.Len(t, mdast.FindByKind(tree, mdast.Root, mdast.NodeMetadata), 2)
}

func TestParse_UnclosedMetadata(t *testing.T) {
	t.Parallel()

	tree, _, diags := parse(t, "intro\n\n|meta>\n|author> A\n")

	assert.True(t, tree.Meta.IsZero())

	items := diags.Items()
	require.Len(t, items, 2)
	for _, d := range items {
		assert.Equal(t, diag.KindStructural, d.Kind)
		assert.Equal(t, 7, d.Offset)
	}
	assert.Contains(t, items[0].Message, "|meta>")
	assert.Contains(t, items[1].Message, "|author>")
}

func TestParse_TextOffsets(t *testing.T) {
	t.Parallel()

	src := "> first\n> second\n"
	tree, _, _ := parse(t, src)

	para := mdast.FindByKind(tree, mdast.Root, mdast.NodeParagraph)
	require.Len(t, para, 1)
	node := tree.Node(para[0])

	assert.Equal(t, 2, node.Offset)
	// "second" starts at literal index 6 and source offset 10.
	assert.Equal(t, 10, node.SourceOffset(6))
	assert.Equal(t, "s", src[node.SourceOffset(6):node.SourceOffset(6)+1])
}

func TestParser_Incremental(t *testing.T) {
	t.Parallel()

	parser := block.NewParser(nil, nil)
	for line := range scanner.Lines([]byte("# A\n\ntext\n")) {
		parser.AddLine(line)
	}
	tree := parser.Finish()

	assert.Equal(t, `Document[Heading1 "A" Paragraph "text"]`, dump(tree, mdast.Root))
}
