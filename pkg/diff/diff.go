// Package diff produces line-based unified diffs. The check mode of the
// CLI uses it to show how an HTML file on disk differs from a fresh
// conversion.
package diff

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// DefaultContext is the number of unchanged lines around each change.
const DefaultContext = 3

// maxCells bounds the LCS table. Inputs whose differing middle is larger
// are diffed as a single replacement.
const maxCells = 1 << 22

// Op is the kind of a diff line.
type Op int

const (
	// Equal lines appear in both inputs.
	Equal Op = iota
	// Delete lines appear only in the old input.
	Delete
	// Insert lines appear only in the new input.
	Insert

	// HunkHeader marks "@@" lines passed to a Paint function.
	HunkHeader Op = -1
)

func (op Op) prefix() byte {
	switch op {
	case Delete:
		return '-'
	case Insert:
		return '+'
	default:
		return ' '
	}
}

// Line is one line of a hunk. Text keeps its trailing newline, if any.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Lines              []Line
}

// Diff is the difference between two inputs.
type Diff struct {
	OldName string
	NewName string
	Hunks   []Hunk

	// Added and Removed count inserted and deleted lines.
	Added   int
	Removed int
}

// Compute diffs a against b with context unchanged lines around each
// change. It returns nil when the inputs are identical.
func Compute(oldName, newName string, a, b []byte, context int) *Diff {
	if bytes.Equal(a, b) {
		return nil
	}
	if context < 0 {
		context = 0
	}

	script := editScript(splitLines(a), splitLines(b))

	d := &Diff{OldName: oldName, NewName: newName}
	for _, line := range script {
		switch line.Op {
		case Insert:
			d.Added++
		case Delete:
			d.Removed++
		}
	}
	d.Hunks = group(script, context)
	return d
}

// Empty reports whether d has no changes.
func (d *Diff) Empty() bool {
	return d == nil || len(d.Hunks) == 0
}

// WriteTo writes d in unified format.
func (d *Diff) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	d.format(&buf, func(_ Op, s string) string { return s })
	return buf.WriteTo(w)
}

// String returns d in unified format.
func (d *Diff) String() string {
	var b strings.Builder
	d.format(&b, func(_ Op, s string) string { return s })
	return b.String()
}

// Paint renders d in unified format, passing every line through paint
// without its newline. Header lines are painted with op Equal and hunk
// headers with HunkHeader.
func (d *Diff) Paint(paint func(op Op, line string) string) string {
	var b strings.Builder
	d.format(&b, paint)
	return b.String()
}

func (d *Diff) format(w io.StringWriter, paint func(Op, string) string) {
	if d.Empty() {
		return
	}

	_, _ = w.WriteString(paint(Equal, "--- "+d.OldName) + "\n")
	_, _ = w.WriteString(paint(Equal, "+++ "+d.NewName) + "\n")

	for _, h := range d.Hunks {
		_, _ = w.WriteString(paint(HunkHeader, fmt.Sprintf("@@ -%s +%s @@", span(h.OldStart, h.OldLines), span(h.NewStart, h.NewLines))) + "\n")
		for _, line := range h.Lines {
			text, hasNewline := strings.CutSuffix(line.Text, "\n")
			_, _ = w.WriteString(paint(line.Op, string(line.Op.prefix())+text) + "\n")
			if !hasNewline {
				_, _ = w.WriteString("\\ No newline at end of file\n")
			}
		}
	}
}

// span formats a hunk range. An empty range names the line before it.
func span(start, lines int) string {
	switch lines {
	case 0:
		return fmt.Sprintf("%d,0", start-1)
	case 1:
		return fmt.Sprintf("%d", start)
	default:
		return fmt.Sprintf("%d,%d", start, lines)
	}
}

// splitLines splits after every newline. A final line without one is
// kept, so inputs that differ only in a trailing newline still differ.
func splitLines(b []byte) []string {
	var lines []string
	for line := range strings.Lines(string(b)) {
		lines = append(lines, line)
	}
	return lines
}

// editScript returns the lines of a and b in order, marking each as kept,
// deleted or inserted.
func editScript(a, b []string) []Line {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	script := make([]Line, 0, len(a)+len(b)-prefix-suffix)
	for _, s := range a[:prefix] {
		script = append(script, Line{Op: Equal, Text: s})
	}
	script = appendMiddle(script, a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])
	for _, s := range a[len(a)-suffix:] {
		script = append(script, Line{Op: Equal, Text: s})
	}
	return script
}

// appendMiddle diffs the differing middle of two inputs with a longest
// common subsequence table.
func appendMiddle(script []Line, a, b []string) []Line {
	n, m := len(a), len(b)
	if n == 0 || m == 0 || (n+1)*(m+1) > maxCells {
		for _, s := range a {
			script = append(script, Line{Op: Delete, Text: s})
		}
		for _, s := range b {
			script = append(script, Line{Op: Insert, Text: s})
		}
		return script
	}

	// lcs[i*(m+1)+j] is the LCS length of a[i:] and b[j:].
	width := m + 1
	lcs := make([]int32, (n+1)*width)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i*width+j] = lcs[(i+1)*width+j+1] + 1
			} else {
				lcs[i*width+j] = max(lcs[(i+1)*width+j], lcs[i*width+j+1])
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			script = append(script, Line{Op: Equal, Text: a[i]})
			i++
			j++
		case lcs[(i+1)*width+j] >= lcs[i*width+j+1]:
			script = append(script, Line{Op: Delete, Text: a[i]})
			i++
		default:
			script = append(script, Line{Op: Insert, Text: b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		script = append(script, Line{Op: Delete, Text: a[i]})
	}
	for ; j < m; j++ {
		script = append(script, Line{Op: Insert, Text: b[j]})
	}
	return script
}

// group cuts an edit script into hunks. Changes separated by no more than
// twice the context share a hunk.
func group(script []Line, context int) []Hunk {
	type pos struct{ old, new int }
	positions := make([]pos, len(script)+1)
	cur := pos{old: 1, new: 1}
	for i, line := range script {
		positions[i] = cur
		if line.Op != Insert {
			cur.old++
		}
		if line.Op != Delete {
			cur.new++
		}
	}
	positions[len(script)] = cur

	var hunks []Hunk
	i := 0
	for i < len(script) {
		for i < len(script) && script[i].Op == Equal {
			i++
		}
		if i == len(script) {
			break
		}

		start := max(i-context, 0)
		end := i
		for {
			for end < len(script) && script[end].Op != Equal {
				end++
			}
			next := end
			for next < len(script) && script[next].Op == Equal {
				next++
			}
			if next == len(script) || next-end > 2*context {
				break
			}
			end = next
		}
		stop := min(end+context, len(script))

		h := Hunk{
			OldStart: positions[start].old,
			NewStart: positions[start].new,
			Lines:    script[start:stop],
		}
		for _, line := range h.Lines {
			if line.Op != Insert {
				h.OldLines++
			}
			if line.Op != Delete {
				h.NewLines++
			}
		}
		hunks = append(hunks, h)
		i = stop
	}
	return hunks
}
