// Package refs holds link reference definitions.
// The table is filled while blocks are parsed and frozen before any inline
// content is parsed, so every lookup sees the complete set of definitions.
package refs

import (
	"strings"

	"golang.org/x/text/cases"
)

// Definition is a link reference definition
// (e.g., [label]: https://example.com "Optional Title").
type Definition struct {
	// Label is the reference label as written in the source.
	Label string

	// Destination is the unescaped URL.
	Destination string

	// Title is the optional unescaped title.
	Title string

	// Offset is the byte offset of the definition in the source.
	Offset int
}

// Table maps normalized labels to their first definitions.
type Table struct {
	defs   map[string]Definition
	order  []string
	frozen bool
}

// NewTable creates an empty, writable table.
func NewTable() *Table {
	return &Table{defs: make(map[string]Definition)}
}

// Define records def unless its label is already defined.
// It reports whether def was recorded. Defining into a frozen table is a
// programming error and panics.
func (t *Table) Define(def Definition) bool {
	if t.frozen {
		panic("refs: Define called on a frozen table")
	}

	key := NormalizeLabel(def.Label)
	if key == "" {
		return false
	}
	if _, exists := t.defs[key]; exists {
		return false
	}

	t.defs[key] = def
	t.order = append(t.order, key)
	return true
}

// Freeze ends the collection phase. Later calls to Define panic.
func (t *Table) Freeze() {
	t.frozen = true
}

// Frozen reports whether Freeze has been called.
func (t *Table) Frozen() bool {
	return t.frozen
}

// Lookup finds the definition for a label as written in the source.
// A nil table has no definitions.
func (t *Table) Lookup(label string) (Definition, bool) {
	if t == nil {
		return Definition{}, false
	}
	def, ok := t.defs[NormalizeLabel(label)]
	return def, ok
}

// Len returns the number of distinct labels.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}

// Definitions returns the recorded definitions in source order.
func (t *Table) Definitions() []Definition {
	if t == nil {
		return nil
	}
	defs := make([]Definition, 0, len(t.order))
	for _, key := range t.order {
		defs = append(defs, t.defs[key])
	}
	return defs
}

// NormalizeLabel prepares a label for matching: surrounding whitespace is
// trimmed, inner whitespace runs collapse to a single space and the result
// is Unicode case-folded.
func NormalizeLabel(label string) string {
	collapsed := strings.Join(strings.Fields(label), " ")
	if collapsed == "" {
		return ""
	}
	return cases.Fold().String(collapsed)
}
