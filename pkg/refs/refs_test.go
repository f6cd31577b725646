package refs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdhtml/pkg/refs"
)

func TestNormalizeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Foo", "foo"},
		{"  Foo   Bar ", "foo bar"},
		{"foo\n\tbar", "foo bar"},
		{"STRASSE", "strasse"},
		{"ΑΓΩ", "αγω"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, refs.NormalizeLabel(tt.input))
		})
	}
}

func TestTable_FirstDefinitionWins(t *testing.T) {
	t.Parallel()

	table := refs.NewTable()

	assert.True(t, table.Define(refs.Definition{Label: "Foo", Destination: "/first"}))
	assert.False(t, table.Define(refs.Definition{Label: "foo", Destination: "/second"}))
	assert.False(t, table.Define(refs.Definition{Label: "  ", Destination: "/blank"}))
	assert.True(t, table.Define(refs.Definition{Label: "bar", Destination: "/bar"}))

	def, ok := table.Lookup("FOO")
	require.True(t, ok)
	assert.Equal(t, "/first", def.Destination)

	_, ok = table.Lookup("baz")
	assert.False(t, ok)

	assert.Equal(t, 2, table.Len())
	defs := table.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "Foo", defs[0].Label)
	assert.Equal(t, "bar", defs[1].Label)
}

func TestTable_Freeze(t *testing.T) {
	t.Parallel()

	table := refs.NewTable()
	table.Define(refs.Definition{Label: "a", Destination: "/a"})
	table.Freeze()

	assert.True(t, table.Frozen())
	assert.Panics(t, func() {
		table.Define(refs.Definition{Label: "b"})
	})

	_, ok := table.Lookup("A")
	assert.True(t, ok, "lookups still work after freezing")
}

func TestTable_Nil(t *testing.T) {
	t.Parallel()

	var table *refs.Table
	_, ok := table.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
	assert.Nil(t, table.Definitions())
}

func TestParseDefinition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		ok    bool
		label string
		dest  string
		title string
	}{
		{name: "plain", line: "[foo]: /url", ok: true, label: "foo", dest: "/url"},
		{name: "double title", line: `[foo]: /url "the title"`, ok: true, label: "foo", dest: "/url", title: "the title"},
		{name: "single title", line: `[foo]: /url 'the title'`, ok: true, label: "foo", dest: "/url", title: "the title"},
		{name: "paren title", line: `[foo]: /url (the title)`, ok: true, label: "foo", dest: "/url", title: "the title"},
		{name: "pointy destination", line: `[foo]: <my url> "t"`, ok: true, label: "foo", dest: "my url", title: "t"},
		{name: "escapes", line: `[foo]: /a\*b "a &amp; b"`, ok: true, label: "foo", dest: "/a*b", title: "a & b"},
		{name: "indented", line: "   [foo]: /url", ok: true, label: "foo", dest: "/url"},
		{name: "too indented", line: "    [foo]: /url"},
		{name: "no colon", line: "[foo] /url"},
		{name: "no destination", line: "[foo]:"},
		{name: "trailing junk", line: `[foo]: /url "title" junk`},
		{name: "title glued to destination", line: `[foo]: <url>"title"`},
		{name: "not a label", line: "foo: /url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def, ok := refs.ParseDefinition([]byte(tt.line), 7)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.label, def.Label)
			assert.Equal(t, tt.dest, def.Destination)
			assert.Equal(t, tt.title, def.Title)
			assert.Equal(t, 7, def.Offset)
		})
	}
}

func TestAnchors(t *testing.T) {
	t.Parallel()

	anchors := refs.NewAnchors()

	assert.Equal(t, "hello-world", anchors.Generate("Hello, World!"))
	assert.Equal(t, "hello-world-1", anchors.Generate("Hello World"))
	assert.Equal(t, "snake_case-and-more", anchors.Generate("snake_case  and -- more"))
	assert.Equal(t, "section", anchors.Generate("!!!"))
	assert.Equal(t, "section-1", anchors.Generate("???"))
}
