// Package diag defines the non-fatal findings produced while converting a
// document. Diagnostics never abort a conversion.
package diag

import "fmt"

// Severity indicates the importance of a diagnostic.
type Severity string

// Severity levels, most severe first.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities so that a higher rank is more severe.
// Unknown severities rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	return s.Rank() > 0
}

// ParseSeverity parses a severity name.
func ParseSeverity(name string) (Severity, error) {
	sev := Severity(name)
	if !sev.IsValid() {
		return "", fmt.Errorf("unknown severity %q; valid severities: error, warning, info", name)
	}
	return sev, nil
}

// Kind classifies what went wrong.
type Kind string

// Diagnostic kinds.
const (
	// KindStructural marks malformed block structure, such as a fenced code
	// block that is never closed.
	KindStructural Kind = "structural-anomaly"

	// KindUnresolvedReference marks a reference link whose label has no
	// definition.
	KindUnresolvedReference Kind = "unresolved-reference"

	// KindEncoding marks input bytes that are not valid UTF-8.
	KindEncoding Kind = "encoding-anomaly"
)

// Diagnostic is a single finding about the source text.
type Diagnostic struct {
	// Severity indicates the importance of the diagnostic.
	Severity Severity `json:"severity"`

	// Kind classifies the finding.
	Kind Kind `json:"kind"`

	// Message is the human-readable description of the issue.
	Message string `json:"message"`

	// Offset is the byte offset in the source where the issue starts.
	Offset int `json:"offset"`

	// Line is the 1-based line number, zero until resolved.
	Line int `json:"line,omitempty"`

	// Column is the 1-based byte column, zero until resolved.
	Column int `json:"column,omitempty"`
}

// String formats the diagnostic as "line:col: severity: message (kind)",
// falling back to the byte offset when no position is known.
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%d:%d: %s: %s (%s)", d.Line, d.Column, d.Severity, d.Message, d.Kind)
	}
	return fmt.Sprintf("@%d: %s: %s (%s)", d.Offset, d.Severity, d.Message, d.Kind)
}
