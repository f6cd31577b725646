package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdhtml/pkg/diag"
)

// contextIndent aligns source context under the diagnostic line.
const contextIndent = "        "

// FormatDiagnostic formats one diagnostic as
// "path:line:col  severity  message  (kind)". A non-empty sourceLine is
// printed below it with a caret under the column.
func (s *Styles) FormatDiagnostic(path string, d diag.Diagnostic, sourceLine string) string {
	var builder strings.Builder

	var location string
	if d.Line > 0 {
		location = fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), d.Line, d.Column)
	} else {
		location = fmt.Sprintf("%s@%d", s.FilePath.Render(path), d.Offset)
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(d.Severity),
		s.Message.Render(d.Message),
		s.Kind.Render("("+string(d.Kind)+")"),
	))

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, d.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity name.
func (s *Styles) FormatSeverity(sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return s.Error.Render("error")
	case diag.SeverityWarning:
		return s.Warning.Render("warning")
	case diag.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats a source line with a caret at column.
// Tabs before the column are kept so the caret lines up in a terminal.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder
	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		var padding strings.Builder
		for i := 0; i < column-1 && i < len(line); i++ {
			if line[i] == '\t' {
				padding.WriteByte('\t')
			} else {
				padding.WriteByte(' ')
			}
		}
		builder.WriteString(contextIndent + padding.String() + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, count int) string {
	header := s.FilePath.Render(path)
	switch {
	case count == 1:
		header += s.Dim.Render(" (1 diagnostic)")
	case count > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d diagnostics)", count))
	}
	return header
}

// FormatFileError formats a file that failed to convert.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s  %s  %s\n", s.FilePath.Render(path), s.Failure.Render("failed"), s.Message.Render(err.Error()))
}
