package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdhtml/internal/ui/pretty"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
	"github.com/yaklabco/gomdhtml/pkg/runner"
)

// TextReporter writes diagnostics grouped by file as styled terminal text.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files converted."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		if r.opts.Verbose {
			fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		}
	}

	return total, nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := displayPath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
		return 0
	}
	if file.Stale {
		fmt.Fprint(r.bw, r.styles.FormatStale(path, displayPath(file.Output, r.opts.WorkingDir), file.Diff))
		if r.opts.ShowDiff {
			fmt.Fprint(r.bw, r.styles.FormatDiff(file.Diff))
		}
	}
	if file.Result == nil || file.Result.Diagnostics.Len() == 0 {
		return 0
	}

	items := file.Result.Diagnostics.Items()
	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(items)))

	var index *mdast.LineIndex
	if r.opts.ShowContext && file.Source != nil {
		index = mdast.NewLineIndex(file.Source)
	}

	for _, d := range items {
		var sourceLine string
		if index != nil {
			sourceLine = string(index.LineContent(d.Line))
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(path, d, sourceLine))
	}
	fmt.Fprintln(r.bw)

	return len(items)
}
