package diag

import "fmt"

// Builder helps construct Diagnostic values.
type Builder struct {
	diag Diagnostic
}

// New starts building a diagnostic of the given kind at a byte offset.
// The severity defaults to warning.
func New(kind Kind, offset int) *Builder {
	return &Builder{
		diag: Diagnostic{
			Kind:     kind,
			Offset:   offset,
			Severity: SeverityWarning,
		},
	}
}

// WithSeverity sets the severity.
func (b *Builder) WithSeverity(sev Severity) *Builder {
	b.diag.Severity = sev
	return b
}

// WithMessage sets the message.
func (b *Builder) WithMessage(msg string) *Builder {
	b.diag.Message = msg
	return b
}

// WithMessagef sets a formatted message.
func (b *Builder) WithMessagef(format string, args ...any) *Builder {
	b.diag.Message = fmt.Sprintf(format, args...)
	return b
}

// Build returns the constructed diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.diag
}

// AddTo appends the constructed diagnostic to list. A nil list is ignored.
func (b *Builder) AddTo(list *List) {
	list.Add(b.diag)
}
