package diag

import (
	"slices"

	"github.com/yaklabco/gomdhtml/pkg/mdast"
)

// List is an ordered collection of diagnostics.
// The zero value is ready to use. Methods on a nil *List are no-ops
// so that callers that do not care about diagnostics may pass nil.
type List struct {
	items []Diagnostic
}

// NewList creates an empty list.
func NewList() *List {
	return &List{}
}

// Add appends d.
func (l *List) Add(d Diagnostic) {
	if l == nil {
		return
	}
	l.items = append(l.items, d)
}

// Items returns the diagnostics in order. The slice must not be modified.
func (l *List) Items() []Diagnostic {
	if l == nil {
		return nil
	}
	return l.items
}

// Len returns the number of diagnostics.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Count returns the number of diagnostics with exactly the given severity.
func (l *List) Count(sev Severity) int {
	count := 0
	for _, d := range l.Items() {
		if d.Severity == sev {
			count++
		}
	}
	return count
}

// CountKind returns the number of diagnostics of the given kind.
func (l *List) CountKind(kind Kind) int {
	count := 0
	for _, d := range l.Items() {
		if d.Kind == kind {
			count++
		}
	}
	return count
}

// HasAtLeast reports whether any diagnostic is at least as severe as sev.
func (l *List) HasAtLeast(sev Severity) bool {
	for _, d := range l.Items() {
		if d.Severity.Rank() >= sev.Rank() {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by offset, keeping detection order for ties.
func (l *List) Sort() {
	if l == nil {
		return
	}
	slices.SortStableFunc(l.items, func(a, b Diagnostic) int {
		return a.Offset - b.Offset
	})
}

// Resolve fills in line and column numbers from the source line index.
func (l *List) Resolve(index *mdast.LineIndex) {
	if l == nil || index == nil {
		return
	}
	for i := range l.items {
		l.items[i].Line, l.items[i].Column = index.LineAt(l.items[i].Offset)
	}
}
