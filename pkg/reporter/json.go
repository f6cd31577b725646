package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
	"github.com/yaklabco/gomdhtml/pkg/runner"
)

// jsonSchemaVersion is bumped when the output shape changes incompatibly.
const jsonSchemaVersion = "1"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult is one file's results.
type JSONFileResult struct {
	Path        string            `json:"path"`
	Output      string            `json:"output,omitempty"`
	Written     bool              `json:"written"`
	Stale       bool              `json:"stale,omitempty"`
	Diff        string            `json:"diff,omitempty"`
	Meta        *mdast.Metadata   `json:"meta,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Error       string            `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesConverted       int            `json:"filesConverted"`
	FilesWritten         int            `json:"filesWritten"`
	FilesUnchanged       int            `json:"filesUnchanged"`
	FilesErrored         int            `json:"filesErrored"`
	FilesStale           int            `json:"filesStale,omitempty"`
	FilesWithDiagnostics int            `json:"filesWithDiagnostics"`
	TotalDiagnostics     int            `json:"totalDiagnostics"`
	BySeverity           map[string]int `json:"bySeverity"`
	BytesIn              int            `json:"bytesIn"`
	BytesOut             int            `json:"bytesOut"`
}

// JSONReporter formats results as one JSON document.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalDiagnostics, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{BySeverity: make(map[string]int)},
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        displayPath(file.Path, r.opts.WorkingDir),
			Output:      displayPath(file.Output, r.opts.WorkingDir),
			Written:     file.Written,
			Stale:       file.Stale,
			Diagnostics: make([]diag.Diagnostic, 0),
		}
		if file.Stale && r.opts.ShowDiff {
			fileResult.Diff = file.Diff.String()
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		if file.Result != nil {
			fileResult.Diagnostics = append(fileResult.Diagnostics, file.Result.Diagnostics.Items()...)
			if meta := file.Result.Meta; !meta.IsZero() {
				fileResult.Meta = &meta
			}
		}
		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary.FilesConverted = stats.FilesConverted
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.FilesUnchanged = stats.FilesUnchanged
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.FilesStale = stats.FilesStale
	output.Summary.FilesWithDiagnostics = stats.FilesWithDiagnostics
	output.Summary.TotalDiagnostics = stats.DiagnosticsTotal
	output.Summary.BytesIn = stats.BytesIn
	output.Summary.BytesOut = stats.BytesOut
	for sev, n := range stats.DiagnosticsBySeverity {
		output.Summary.BySeverity[string(sev)] = n
	}

	return output
}
