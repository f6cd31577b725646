package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stderr, since
	// stdout may carry HTML).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized text output: "auto", "always" or "never".
	Color string

	// ShowContext prints the source line under each diagnostic.
	ShowContext bool

	// ShowSummary prints aggregate statistics after the diagnostics.
	ShowSummary bool

	// Verbose selects the multi-line summary block.
	Verbose bool

	// ShowDiff prints the diff of every stale output in check mode.
	ShowDiff bool

	// Compact disables JSON indentation.
	Compact bool

	// WorkingDir is the directory paths are made relative to.
	// If empty, paths are printed as given.
	WorkingDir string
}

// DefaultOptions returns the options used by the convert command.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
	}
}
