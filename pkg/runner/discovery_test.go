package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdhtml/pkg/config"
	"github.com/yaklabco/gomdhtml/pkg/runner"
)

func relPaths(t *testing.T, dir string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"README.md":             "r",
		"docs/guide.md":         "g",
		"docs/draft.md":         "d",
		"docs/api/ref.markdown": "a",
		"vendor/lib/x.md":       "v",
		"node_modules/y/z.md":   "n",
		".git/HEAD.md":          "h",
		"notes.txt":             "t",
		"UPPER.MD":              "u",
	})

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults skip hidden directories",
			opts: runner.Options{},
			want: []string{
				"README.md", "UPPER.MD", "docs/api/ref.markdown", "docs/draft.md",
				"docs/guide.md", "node_modules/y/z.md", "vendor/lib/x.md",
			},
		},
		{
			name: "directory globs",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "node_modules/**"}},
			want: []string{"README.md", "UPPER.MD", "docs/api/ref.markdown", "docs/draft.md", "docs/guide.md"},
		},
		{
			name: "base name glob",
			opts: runner.Options{Paths: []string{"docs"}, ExcludeGlobs: []string{"draft.*"}},
			want: []string{"docs/api/ref.markdown", "docs/guide.md"},
		},
		{
			name: "single star stays in one segment",
			opts: runner.Options{Paths: []string{"docs"}, ExcludeGlobs: []string{"docs/*.md"}},
			want: []string{"docs/api/ref.markdown"},
		},
		{
			name: "double star crosses segments",
			opts: runner.Options{Paths: []string{"docs"}, ExcludeGlobs: []string{"docs/**/*.markdown"}},
			want: []string{"docs/draft.md", "docs/guide.md"},
		},
		{
			name: "explicit file and overlapping directory",
			opts: runner.Options{Paths: []string{"docs/guide.md", "docs", "notes.txt"}, ExcludeGlobs: []string{"**/api/**"}},
			want: []string{"docs/draft.md", "docs/guide.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".txt"}},
			want: []string{"notes.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = dir
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, dir, files))
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"missing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat missing")

	_, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"[unclosed"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := t.TempDir()
	writeFiles(t, target, map[string]string{"linked.md": "l"})
	writeFiles(t, dir, map[string]string{"own.md": "o"})
	if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestCompileGlobs(t *testing.T) {
	t.Parallel()

	globs, err := runner.CompileGlobs([]string{"vendor/**", "*.tmp.md"})
	require.NoError(t, err)

	assert.True(t, globs.Match("vendor/a/b.md"))
	assert.True(t, globs.MatchDir("vendor"))
	assert.False(t, globs.Match("docs/vendor.md"))
	assert.True(t, globs.Match("docs/x.tmp.md"))
	assert.False(t, globs.Match("docs/x.md"))

	empty, err := runner.CompileGlobs(nil)
	require.NoError(t, err)
	assert.False(t, empty.Match("anything"))
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"drafts/**"}
	cfg.Jobs = 3
	cfg.OutDir = "site"

	opts := runner.OptionsFromConfig(cfg, []string{"docs"})
	assert.Equal(t, []string{"docs"}, opts.Paths)
	assert.Equal(t, cfg.Ignore, opts.ExcludeGlobs)
	assert.Equal(t, 3, opts.Jobs)
	assert.Equal(t, "site", opts.OutDir)
	assert.Equal(t, ".html", opts.OutExtension)
}
