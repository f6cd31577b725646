package diff_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdhtml/pkg/diff"
)

func TestCompute_Identical(t *testing.T) {
	t.Parallel()

	assert.Nil(t, diff.Compute("a", "b", nil, nil, diff.DefaultContext))
	assert.Nil(t, diff.Compute("a", "b", []byte("x\ny\n"), []byte("x\ny\n"), diff.DefaultContext))
	assert.True(t, (*diff.Diff)(nil).Empty())
	assert.Empty(t, (*diff.Diff)(nil).String())
}

func TestCompute_SingleChange(t *testing.T) {
	t.Parallel()

	d := diff.Compute("old.html", "new.html", []byte("a\nb\nc\n"), []byte("a\nB\nc\n"), diff.DefaultContext)
	require.NotNil(t, d)

	assert.Equal(t, 1, d.Added)
	assert.Equal(t, 1, d.Removed)
	assert.Equal(t, "--- old.html\n+++ new.html\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n", d.String())
}

func TestCompute_Hunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		old     string
		new     string
		context int
		want    string
	}{
		{
			name:    "insert into empty",
			old:     "",
			new:     "x\n",
			context: 3,
			want:    "@@ -0,0 +1 @@\n+x\n",
		},
		{
			name:    "delete everything",
			old:     "x\ny\n",
			new:     "",
			context: 3,
			want:    "@@ -1,2 +0,0 @@\n-x\n-y\n",
		},
		{
			name:    "distant changes split",
			old:     "1\n2\n3\n4\n5\n6\n7\n8\n",
			new:     "one\n2\n3\n4\n5\n6\n7\neight\n",
			context: 1,
			want:    "@@ -1,2 +1,2 @@\n-1\n+one\n 2\n@@ -7,2 +7,2 @@\n 7\n-8\n+eight\n",
		},
		{
			name:    "close changes merge",
			old:     "1\n2\n3\n4\n",
			new:     "one\n2\n3\nfour\n",
			context: 1,
			want:    "@@ -1,4 +1,4 @@\n-1\n+one\n 2\n 3\n-4\n+four\n",
		},
		{
			name:    "missing trailing newline",
			old:     "a\n",
			new:     "a",
			context: 3,
			want:    "@@ -1 +1 @@\n-a\n+a\n\\ No newline at end of file\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := diff.Compute("a", "b", []byte(tt.old), []byte(tt.new), tt.context)
			require.False(t, d.Empty())

			got := strings.TrimPrefix(d.String(), "--- a\n+++ b\n")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_Paint(t *testing.T) {
	t.Parallel()

	d := diff.Compute("a", "b", []byte("x\n"), []byte("y\n"), 0)
	require.NotNil(t, d)

	got := d.Paint(func(op diff.Op, line string) string {
		switch op {
		case diff.Insert:
			return "<ins>" + line
		case diff.Delete:
			return "<del>" + line
		case diff.HunkHeader:
			return "<hunk>" + line
		default:
			return line
		}
	})
	assert.Equal(t, "--- a\n+++ b\n<hunk>@@ -1 +1 @@\n<del>-x\n<ins>+y\n", got)

	var buf bytes.Buffer
	n, err := d.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, d.String(), buf.String())
}

func FuzzCompute(f *testing.F) {
	f.Add("a\nb\nc\n", "a\nc\nd\n")
	f.Add("", "x")
	f.Add("<p>hi</p>\n", "<p>hi</p>")

	f.Fuzz(func(t *testing.T, a, b string) {
		d := diff.Compute("a", "b", []byte(a), []byte(b), diff.DefaultContext)
		if a == b {
			if d != nil {
				t.Fatal("identical inputs produced a diff")
			}
			return
		}
		if d.Empty() {
			t.Fatal("different inputs produced an empty diff")
		}

		// Replaying the hunks over the old lines must give the new input.
		var rebuilt strings.Builder
		oldLines := strings.SplitAfter(a, "\n")
		next := 0
		for _, h := range d.Hunks {
			for next < h.OldStart-1 {
				rebuilt.WriteString(oldLines[next])
				next++
			}
			for _, line := range h.Lines {
				if line.Op != diff.Delete {
					rebuilt.WriteString(line.Text)
				}
				if line.Op != diff.Insert {
					next++
				}
			}
		}
		for ; next < len(oldLines); next++ {
			rebuilt.WriteString(oldLines[next])
		}
		if rebuilt.String() != b {
			t.Fatalf("rebuilt %q, want %q", rebuilt.String(), b)
		}
	})
}
