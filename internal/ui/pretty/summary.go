package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line, for
// example "3 diagnostics (1 warning, 2 info) in 2 files, 5 converted".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No diagnostics"))
	} else {
		main := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "diagnostic", "diagnostics"))
		if breakdown := s.severityBreakdown(stats.DiagnosticsBySeverity); breakdown != "" {
			main += " (" + breakdown + ")"
		}
		main += fmt.Sprintf(" in %d %s", stats.FilesWithDiagnostics, plural(stats.FilesWithDiagnostics, "file", "files"))
		parts = append(parts, main)
	}

	parts = append(parts, s.Dim.Render(fmt.Sprintf("%d converted", stats.FilesConverted)))
	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d unchanged", stats.FilesUnchanged)))
	}
	if stats.FilesStale > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d stale", stats.FilesStale)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) severityBreakdown(counts map[diag.Severity]int) string {
	var parts []string
	if n := counts[diag.SeverityError]; n > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := counts[diag.SeverityWarning]; n > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	if n := counts[diag.SeverityInfo]; n > 0 {
		parts = append(parts, s.Info.Render(fmt.Sprintf("%d info", n)))
	}
	return strings.Join(parts, ", ")
}

// FormatSummary formats run statistics as a block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files converted", s.SummaryValue.Render(strconv.Itoa(stats.FilesConverted)))
	if stats.FilesWritten > 0 {
		row("Files written", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		row("Files unchanged", s.Dim.Render(strconv.Itoa(stats.FilesUnchanged)))
	}
	if stats.FilesStale > 0 {
		row("Files stale", s.Warning.Render(strconv.Itoa(stats.FilesStale)))
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}
	row("Bytes in/out", s.SummaryValue.Render(fmt.Sprintf("%d/%d", stats.BytesIn, stats.BytesOut)))

	builder.WriteString("\n")
	row("Diagnostics", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	if n := stats.DiagnosticsBySeverity[diag.SeverityError]; n > 0 {
		row("  Errors", s.Error.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[diag.SeverityWarning]; n > 0 {
		row("  Warnings", s.Warning.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[diag.SeverityInfo]; n > 0 {
		row("  Info", s.Info.Render(strconv.Itoa(n)))
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Conversion failed for some files"))
	case stats.FilesStale > 0:
		builder.WriteString(s.Warning.Render("Some outputs are out of date"))
	case stats.DiagnosticsTotal > 0:
		builder.WriteString(s.Warning.Render("Converted with diagnostics"))
	default:
		builder.WriteString(s.Success.Render("Converted cleanly"))
	}
	builder.WriteString("\n")

	return builder.String()
}
