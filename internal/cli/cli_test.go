package cli_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdhtml/internal/cli"
	"github.com/yaklabco/gomdhtml/pkg/config"
	"github.com/yaklabco/gomdhtml/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)
	assert.Equal(t, "gomdhtml", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"convert", "styles", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestConvertCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	convert, _, err := cmd.Find([]string{"convert"})
	require.NoError(t, err)

	for _, name := range []string{
		"out-dir", "ext", "format", "fail-on", "highlight-style", "ignore", "jobs",
		"max-input-bytes", "standalone", "heading-ids", "highlight", "detect-language",
		"stdout", "check", "diff", "watch", "follow-symlinks", "no-context", "compact", "verbose",
	} {
		assert.NotNil(t, convert.Flags().Lookup(name), name)
	}

	require.NoError(t, convert.Args(convert, []string{"a.md", "docs/"}))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "gomdhtml")
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "Commands:")
	assert.Contains(t, help, "convert")
	assert.Contains(t, help, "--config")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(errors.New("unknown command")))
	assert.Equal(t, cli.ExitDiagnostics, cli.ExitCode(&cli.ExitError{Code: cli.ExitDiagnostics, Err: cli.ErrDiagnosticsFound}))

	wrapped := errors.Join(errors.New("context"), &cli.ExitError{Code: cli.ExitInternal, Err: errors.New("disk full")})
	assert.Equal(t, cli.ExitInternal, cli.ExitCode(wrapped))
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, cfg))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(&runner.Result{}, cfg))

	failed := &runner.Result{Stats: runner.Stats{FilesErrored: 1}}
	assert.Equal(t, cli.ExitInternal, cli.ExitCodeFromResult(failed, cfg))

	stale := &runner.Result{Stats: runner.Stats{FilesStale: 1}}
	assert.Equal(t, cli.ExitDiagnostics, cli.ExitCodeFromResult(stale, cfg))

	failed.Stats.FilesStale = 1
	assert.Equal(t, cli.ExitInternal, cli.ExitCodeFromResult(failed, cfg))
}
