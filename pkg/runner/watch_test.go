package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdhtml/pkg/mdhtml"
	"github.com/yaklabco/gomdhtml/pkg/runner"
)

func nextResult(t *testing.T, results <-chan *runner.Result) *runner.Result {
	t.Helper()

	select {
	case res := <-results:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a conversion")
		return nil
	}
}

func TestRunner_Watch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.md":        "# A\n",
		"b.md":        "# B\n",
		"vendor/v.md": "skip\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *runner.Result, 8)
	done := make(chan error, 1)
	go func() {
		opts := runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"vendor/**"}}
		done <- runner.New(mdhtml.NewEngine()).Watch(ctx, opts, 100*time.Millisecond, func(res *runner.Result) {
			results <- res
		})
	}()

	initial := nextResult(t, results)
	require.Len(t, initial.Files, 2)
	assert.Equal(t, 2, initial.Stats.FilesWritten)

	// Rewriting a.md with identical content is not a change.
	writeFiles(t, dir, map[string]string{"a.md": "# A\n"})
	time.Sleep(300 * time.Millisecond)
	writeFiles(t, dir, map[string]string{"b.md": "# B2\n", "vendor/v.md": "still skipped\n"})

	update := nextResult(t, results)
	require.Len(t, update.Files, 1)
	assert.Equal(t, filepath.Join(dir, "b.md"), update.Files[0].Path)

	got, err := os.ReadFile(filepath.Join(dir, "b.html"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "<h1>B2</h1>")

	writeFiles(t, dir, map[string]string{"new/c.md": "c\n"})
	created := nextResult(t, results)
	require.NotEmpty(t, created.Files)
	assert.Equal(t, filepath.Join(dir, "new", "c.md"), created.Files[len(created.Files)-1].Path)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestRunner_Watch_InvalidGlob(t *testing.T) {
	t.Parallel()

	err := runner.New(mdhtml.NewEngine()).Watch(context.Background(),
		runner.Options{WorkingDir: t.TempDir(), ExcludeGlobs: []string{"[unclosed"}}, 0, func(*runner.Result) {})
	require.Error(t, err)
}

func TestRunner_ConvertReader(t *testing.T) {
	t.Parallel()

	res, err := runner.New(mdhtml.NewEngine()).ConvertReader(context.Background(), "<stdin>", strings.NewReader("[x]\n"))
	require.NoError(t, err)
	require.Len(t, res.Files, 1)

	outcome := res.Files[0]
	assert.Equal(t, "<stdin>", outcome.Path)
	assert.Equal(t, "<p>[x]</p>\n", outcome.Result.HTML)
	assert.Equal(t, []byte("[x]\n"), outcome.Source)
	assert.Equal(t, 1, res.Stats.FilesConverted)
	assert.Equal(t, 1, res.Stats.DiagnosticsTotal)
}

func TestRunner_ConvertReader_TooLarge(t *testing.T) {
	t.Parallel()

	engine := mdhtml.NewEngine(mdhtml.WithMaxInputBytes(4))
	res, err := runner.New(engine).ConvertReader(context.Background(), "<stdin>", strings.NewReader("more than four"))
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.ErrorIs(t, res.Files[0].Error, mdhtml.ErrInputTooLarge)
	assert.True(t, res.HasErrors())
}
