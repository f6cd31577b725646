// Package scanner splits source text into logical lines.
package scanner

import (
	"bytes"
	"iter"
	"unicode/utf8"

	"github.com/yaklabco/gomdhtml/pkg/diag"
)

// TabStop is the column multiple a tab advances to.
const TabStop = 4

// Line is one logical line of input.
type Line struct {
	// Content is the line without its terminator. It aliases the source.
	Content []byte

	// Offset is the byte offset of the first byte of Content.
	Offset int

	// Number is the 1-based line number.
	Number int

	// Indent is the width of leading whitespace in columns.
	Indent int

	// Blank is true if the line holds only spaces and tabs.
	Blank bool
}

// Lines yields the lines of src lazily. A CR LF or a lone LF ends a line.
// An unterminated final line is still yielded; empty input yields nothing.
func Lines(src []byte) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		offset := 0
		number := 1
		for offset < len(src) {
			end := len(src)
			next := len(src)
			if idx := bytes.IndexByte(src[offset:], '\n'); idx >= 0 {
				end = offset + idx
				next = end + 1
				if end > offset && src[end-1] == '\r' {
					end--
				}
			}

			content := src[offset:end]
			indent, width := leadingWhitespace(content)
			line := Line{
				Content: content,
				Offset:  offset,
				Number:  number,
				Indent:  indent,
				Blank:   width == len(content),
			}
			if !yield(line) {
				return
			}

			offset = next
			number++
		}
	}
}

// Scan collects every line of src and records an encoding diagnostic for
// each line holding invalid UTF-8. The bytes themselves are passed through.
func Scan(src []byte, diags *diag.List) []Line {
	lines := make([]Line, 0, bytes.Count(src, []byte{'\n'})+1)
	for line := range Lines(src) {
		if pos := firstInvalid(line.Content); pos >= 0 {
			diag.New(diag.KindEncoding, line.Offset+pos).
				WithMessagef("line %d contains invalid UTF-8", line.Number).
				AddTo(diags)
		}
		lines = append(lines, line)
	}
	return lines
}

// IndentWidth returns the width in columns of the whitespace prefix of b,
// when b starts at the given column.
func IndentWidth(b []byte, column int) int {
	width := 0
	for _, c := range b {
		switch c {
		case ' ':
			width++
		case '\t':
			width += TabStop - (column+width)%TabStop
		default:
			return width
		}
	}
	return width
}

// leadingWhitespace returns the column width and byte length of the
// leading whitespace of b.
func leadingWhitespace(b []byte) (int, int) {
	n := 0
	for n < len(b) && (b[n] == ' ' || b[n] == '\t') {
		n++
	}
	return IndentWidth(b[:n], 0), n
}

func firstInvalid(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
