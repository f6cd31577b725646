package mdhtml_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yaklabco/gomdhtml/internal/logging"
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
	"github.com/yaklabco/gomdhtml/pkg/mdhtml"
	"github.com/yaklabco/gomdhtml/pkg/render"
)

// checkBalanced tokenizes out and verifies every start tag is closed in
// order. It only holds for documents without raw HTML.
func checkBalanced(out string) error {
	var stack []string
	tokenizer := html.NewTokenizer(strings.NewReader(out))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			if len(stack) > 0 {
				return fmt.Errorf("unclosed tags %v", stack)
			}
			return nil
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			stack = append(stack, string(name))
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if len(stack) == 0 || stack[len(stack)-1] != string(name) {
				return fmt.Errorf("unexpected </%s> with open tags %v", name, stack)
			}
			stack = stack[:len(stack)-1]
		default:
		}
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "heading then paragraph", input: "# Hello\n\nWorld\n", expected: "<h1>Hello</h1>\n<p>World</p>\n"},
		{name: "emphasis order", input: "*a* **b**\n", expected: "<p><em>a</em> <strong>b</strong></p>\n"},
		{name: "code span escapes tags", input: "`<script>`\n", expected: "<p><code>&lt;script&gt;</code></p>\n"},
		{
			name:     "loose list wraps paragraphs",
			input:    "- one\n\n- two\n",
			expected: "<ul>\n<li>\n<p>one</p>\n</li>\n<li>\n<p>two</p>\n</li>\n</ul>\n",
		},
		{
			name:     "tight list inlines text",
			input:    "- one\n- two\n",
			expected: "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name:     "reference defined after use",
			input:    "see [docs]\n\n[docs]: https://example.com\n",
			expected: "<p>see <a href=\"https://example.com\">docs</a></p>\n",
		},
		{
			name:     "document",
			input:    "Title\n=====\n\n> quote with *em*\n\n1. first\n2. second\n\n---\n\n```sh\necho 1\n```\n",
			expected: "<h1>Title</h1>\n<blockquote>\n<p>quote with <em>em</em></p>\n</blockquote>\n" +
				"<ol>\n<li>first</li>\n<li>second</li>\n</ol>\n<hr />\n" +
				"<pre><code class=\"language-sh\">echo 1\n</code></pre>\n",
		},
		{name: "empty input", input: "", expected: ""},
		{name: "blank lines only", input: "\n\n  \n", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, diags := mdhtml.ConvertString(tt.input)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, 0, diags.Len(), diags.Items())
		})
	}
}

func TestConvert_UnclosedFence(t *testing.T) {
	t.Parallel()

	out, diags := mdhtml.ConvertString("intro\n\n```\nlet x\n")

	assert.Equal(t, "<p>intro</p>\n<pre><code>let x\n</code></pre>\n", out)
	require.Equal(t, 1, diags.Len())

	d := diags.Items()[0]
	assert.Equal(t, diag.KindStructural, d.Kind)
	assert.Equal(t, 7, d.Offset)
	assert.Equal(t, 3, d.Line)
	assert.Equal(t, 1, d.Column)
}

func TestConvert_InvalidUTF8PassesThrough(t *testing.T) {
	t.Parallel()

	out, diags := mdhtml.Convert([]byte("a\xffb\n"))

	assert.Equal(t, "<p>a\xffb</p>\n", out)
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, diag.KindEncoding, diags.Items()[0].Kind)
	assert.Equal(t, 1, diags.Items()[0].Offset)
}

func TestConvert_DiagnosticsSortedByOffset(t *testing.T) {
	t.Parallel()

	// The fence diagnostic is recorded during block parsing, before the
	// reference diagnostic on line 1.
	_, diags := mdhtml.ConvertString("[a][missing]\n\n```\n")

	items := diags.Items()
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Offset, items[i].Offset)
	}
	assert.Equal(t, diag.KindUnresolvedReference, items[0].Kind)
	assert.Equal(t, 1, items[0].Line)
	assert.Equal(t, diag.KindStructural, items[2].Kind)
	assert.Equal(t, 3, items[2].Line)
}

func TestConvert_Deterministic(t *testing.T) {
	t.Parallel()

	src := []byte("# T\n\n*a **b** c* [x][] <b>raw</b>\n\n[x]: /y\n")
	first, _ := mdhtml.Convert(src)
	for range 5 {
		again, _ := mdhtml.Convert(src)
		require.Equal(t, first, again)
	}
}

func TestConvert_Concurrent(t *testing.T) {
	t.Parallel()

	src := []byte("- [a]\n- *b*\n\n[a]: /a\n")
	want, _ := mdhtml.Convert(src)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = mdhtml.Convert(src)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestConvert_WellFormed(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"*a [b* c](/u) d*",
		"**a *b** c*",
		"- a\n  > b\n  > - c\n\n  d\n- e",
		"> # h\n> ```\n> code\n",
		"1. a\n\n   ```\n   x\n   ```\n2. b",
		"![a [b](/c) *d*](/e \"t\")",
		"text  \nmore\\\nend",
		"[x]\n\n[x]: /y 'title'\n",
		"a|footnote>b *c|footnote>d<footnote|*<footnote| [e|footnote>f<footnote|](/g)",
		"*a|footnote>b* c<footnote|",
	}

	for _, input := range inputs {
		out, _ := mdhtml.ConvertString(input)
		assert.NoError(t, checkBalanced(out), "input %q produced %q", input, out)
	}
}

func TestEngine_Convert(t *testing.T) {
	t.Parallel()

	engine := mdhtml.NewEngine(mdhtml.WithRenderOptions(render.Options{Standalone: true}))
	res, err := engine.Convert(context.Background(), []byte("# Doc\n\ntext\n"))
	require.NoError(t, err)

	assert.Contains(t, res.HTML, "<title>Doc</title>")
	assert.Contains(t, res.HTML, "<h1>Doc</h1>\n<p>text</p>\n")
	assert.Equal(t, 0, res.Diagnostics.Len())
	assert.Equal(t, 13, res.Stats.Bytes)
	assert.Equal(t, 3, res.Stats.Lines)
	assert.Positive(t, res.Stats.Nodes)
	assert.GreaterOrEqual(t, res.Stats.Total(), res.Stats.Parse)
}

func TestEngine_Sample(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile(filepath.Join("..", "..", "testdata", "sample.md"))
	require.NoError(t, err)

	engine := mdhtml.NewEngine(mdhtml.WithRenderOptions(render.Options{
		Standalone:     true,
		HeadingIDs:     true,
		Highlight:      true,
		DetectLanguage: true,
	}))
	res, err := engine.Convert(context.Background(), src)
	require.NoError(t, err)

	assert.Contains(t, res.HTML, "<title>Sample document</title>")
	assert.Contains(t, res.HTML, `<h1 id="sample-document">Sample document</h1>`)
	assert.Contains(t, res.HTML, `<a href="https://example.com/docs" title="Documentation">reference link</a>`)
	assert.Contains(t, res.HTML, "© € &amp;")
	assert.Contains(t, res.HTML, "<blockquote>")
	assert.Contains(t, res.HTML, "<hr />")
	assert.Contains(t, res.HTML, `<meta name="author" content="Jane Doe">`)
	assert.Contains(t, res.HTML, "<del>struck text</del>")
	assert.Contains(t, res.HTML, `<li id="fn-1">Footnotes may hold <em>inline</em> markup.`)
	assert.Equal(t, mdast.Metadata{Author: "Jane Doe", Copyright: "2024 Jane Doe"}, res.Meta)
}

func TestEngine_Meta(t *testing.T) {
	t.Parallel()

	res, err := mdhtml.NewEngine().Convert(context.Background(), []byte("|meta> |copyright> ACME <copyright| <meta|\ntext\n"))
	require.NoError(t, err)

	assert.Equal(t, "<p>text</p>\n", res.HTML)
	assert.Equal(t, mdast.Metadata{Copyright: "ACME"}, res.Meta)
	assert.Equal(t, 0, res.Diagnostics.Len())
}

func TestEngine_InputTooLarge(t *testing.T) {
	t.Parallel()

	engine := mdhtml.NewEngine(mdhtml.WithMaxInputBytes(8))

	_, err := engine.Convert(context.Background(), []byte("exactly8"))
	require.NoError(t, err)

	_, err = engine.Convert(context.Background(), []byte("nine byte"))
	require.ErrorIs(t, err, mdhtml.ErrInputTooLarge)

	unlimited := mdhtml.NewEngine(mdhtml.WithMaxInputBytes(0))
	_, err = unlimited.Convert(context.Background(), bytes.Repeat([]byte("a"), 1024))
	require.NoError(t, err)
}

func TestEngine_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mdhtml.NewEngine().Convert(ctx, []byte("text\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_DebugLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug"))

	_, err := mdhtml.NewEngine().Convert(ctx, []byte("text\n"))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "parsed blocks")
	assert.Contains(t, buf.String(), "rendered html")
}

func TestEngine_Defaults(t *testing.T) {
	t.Parallel()

	opts := mdhtml.NewEngine().Options()
	assert.Equal(t, mdhtml.DefaultMaxInputBytes, opts.MaxInputBytes)
	assert.Equal(t, render.Options{}, opts.Render)
}

func FuzzConvert(f *testing.F) {
	for _, seed := range []string{
		"# h\n\npara *em* **strong**\n",
		"- a\n- b\n\n  c\n",
		"> q\n> - l\n>\n> ```\n",
		"[a]: /b\n\n[a] [c][] ![d](e 'f')\n",
		"    code\n\t\ttab\n",
		"<div>\n*x*\n</div>\n",
		"\xff\xfe*a*\n",
		"***a**b*c_d_`e`",
	} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, src []byte) {
		out, diags := mdhtml.Convert(src)
		again, _ := mdhtml.Convert(src)
		if out != again {
			t.Fatalf("non-deterministic output for %q", src)
		}

		for _, d := range diags.Items() {
			if d.Offset < 0 || d.Offset > len(src) {
				t.Fatalf("diagnostic offset %d outside input of %d bytes", d.Offset, len(src))
			}
		}

		if !bytes.ContainsRune(src, '<') {
			if err := checkBalanced(out); err != nil {
				t.Fatalf("input %q: %v\n%s", src, err, out)
			}
		}
	})
}
