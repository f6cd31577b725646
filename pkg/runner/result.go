package runner

import (
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/diff"
	"github.com/yaklabco/gomdhtml/pkg/mdhtml"
)

// FileOutcome is the conversion result of one source file.
type FileOutcome struct {
	// Path is the source file.
	Path string

	// Source is the file content, kept for diagnostic context.
	Source []byte

	// Output is the destination file. Empty when Options.NoWrite is set.
	Output string

	// Result holds the HTML, diagnostics and stats. Nil when Error is set.
	Result *mdhtml.Result

	// Written is false when the destination already held identical HTML.
	Written bool

	// Stale is set in check mode when Output is missing or differs from
	// the fresh HTML. Diff then holds the difference.
	Stale bool
	Diff  *diff.Diff

	// Error is set if the file could not be read, converted or written.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesConverted  int
	FilesWritten    int
	FilesUnchanged  int
	FilesErrored    int
	FilesStale      int

	// FilesWithDiagnostics is the number of files with at least one diagnostic.
	FilesWithDiagnostics int

	DiagnosticsTotal      int
	DiagnosticsBySeverity map[diag.Severity]int

	BytesIn  int
	BytesOut int
}

// Result is the overall runner result.
type Result struct {
	// Files is ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasAtLeast reports whether any file produced a diagnostic of severity
// sev or higher.
func (r *Result) HasAtLeast(sev diag.Severity) bool {
	if r == nil {
		return false
	}
	for _, f := range r.Files {
		if f.Result != nil && f.Result.Diagnostics.HasAtLeast(sev) {
			return true
		}
	}
	return false
}

// HasStale reports whether check mode found an out of date output.
func (r *Result) HasStale() bool {
	return r != nil && r.Stats.FilesStale > 0
}

// HasErrors reports whether any file failed outright.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[diag.Severity]int),
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesConverted++
	switch {
	case outcome.Stale:
		r.Stats.FilesStale++
	case outcome.Output != "":
		if outcome.Written {
			r.Stats.FilesWritten++
		} else {
			r.Stats.FilesUnchanged++
		}
	}
	r.Stats.BytesIn += outcome.Result.Stats.Bytes
	r.Stats.BytesOut += len(outcome.Result.HTML)

	items := outcome.Result.Diagnostics.Items()
	r.Stats.DiagnosticsTotal += len(items)
	if len(items) > 0 {
		r.Stats.FilesWithDiagnostics++
	}
	for _, d := range items {
		r.Stats.DiagnosticsBySeverity[d.Severity]++
	}
}
