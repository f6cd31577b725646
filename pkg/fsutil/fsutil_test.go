package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdhtml/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and state", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("# hi\n"), 0o600))

		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "# hi\n", string(content))
		assert.Equal(t, int64(5), info.Size)
		assert.Equal(t, path, info.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := fsutil.ReadFile(ctx, t.TempDir())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.Changed(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})

	t.Run("same content rewritten", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))
		changed, err := fsutil.Changed(ctx, info)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("same size different content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("xyz"), 0o600))
		changed, err := fsutil.Changed(ctx, info)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))
		changed, err := fsutil.Changed(ctx, info)
		require.NoError(t, err)
		assert.True(t, changed)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "nested", "doc.html")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("<p>x</p>\n"), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<p>x</p>\n", string(got))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.html")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o600))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "doc.html", entries[0].Name())
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := filepath.Join(t.TempDir(), "doc.html")
		require.ErrorIs(t, fsutil.WriteAtomic(ctx, path, []byte("x"), 0), context.Canceled)
		assert.NoFileExists(t, path)
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.html")

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.False(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("b"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestReadExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.html")

	content, found, err := fsutil.ReadExisting(path)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, content)

	require.NoError(t, os.WriteFile(path, []byte("<p>x</p>\n"), 0o600))
	content, found, err = fsutil.ReadExisting(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "<p>x</p>\n", string(content))
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	base := filepath.FromSlash("/work")
	tests := []struct {
		name   string
		src    string
		outDir string
		ext    string
		want   string
	}{
		{name: "next to source", src: "/work/docs/a.md", ext: ".html", want: "/work/docs/a.html"},
		{name: "markdown extension", src: "/work/b.markdown", ext: ".htm", want: "/work/b.htm"},
		{name: "mirrored below out dir", src: "/work/docs/a.md", outDir: "/site", ext: ".html", want: "/site/docs/a.html"},
		{name: "outside base dir", src: "/elsewhere/c.md", outDir: "/site", ext: ".html", want: "/site/c.html"},
		{name: "no extension", src: "/work/README", ext: ".html", want: "/work/README.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fsutil.OutputPath(filepath.FromSlash(tt.src), base, filepath.FromSlash(tt.outDir), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("<p>hello</p>\n"))
	f.Add([]byte("\x00\x01\x02\x03"))
	f.Add(make([]byte, 1024))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "doc.html")
		if err := fsutil.WriteAtomic(context.Background(), path, content, 0); err != nil {
			t.Fatalf("WriteAtomic failed: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(got) != string(content) {
			t.Fatalf("content mismatch: got %d bytes, want %d", len(got), len(content))
		}
	})
}
