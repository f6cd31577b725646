package block

import (
	"bytes"
	"strconv"
)

// maxListNumberDigits bounds ordered list numbers.
const maxListNumberDigits = 9

// codeIndent is the indentation that starts an indented code block.
const codeIndent = 4

// maxContainerIndent is the deepest indentation at which a block start is
// still recognized.
const maxContainerIndent = 3

// isThematicBreak reports whether b is three or more matching '*', '-' or
// '_' characters, optionally separated by spaces or tabs.
func isThematicBreak(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	mark := b[0]
	if mark != '*' && mark != '-' && mark != '_' {
		return false
	}
	count := 0
	for _, c := range b {
		switch c {
		case mark:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

// atxHeading is a parsed ATX heading line.
type atxHeading struct {
	level int

	// content is the heading text; start is its index in the input.
	content []byte
	start   int
}

// parseATXHeading parses a line starting with 1-6 '#' characters.
func parseATXHeading(b []byte) (atxHeading, bool) {
	level := 0
	for level < len(b) && b[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return atxHeading{}, false
	}
	if level < len(b) && b[level] != ' ' && b[level] != '\t' {
		return atxHeading{}, false
	}

	start := level
	for start < len(b) && (b[start] == ' ' || b[start] == '\t') {
		start++
	}
	content := bytes.TrimRight(b[start:], " \t")

	// Strip an optional closing sequence of '#' preceded by whitespace.
	end := len(content)
	for end > 0 && content[end-1] == '#' {
		end--
	}
	switch {
	case end == 0:
		content = content[:0]
	case end < len(content) && (content[end-1] == ' ' || content[end-1] == '\t'):
		content = bytes.TrimRight(content[:end], " \t")
	}

	return atxHeading{level: level, content: content, start: start}, true
}

// fence describes an open fenced code block.
type fence struct {
	char   byte
	length int
	indent int
	info   []byte
	closed bool
}

// parseFenceOpen parses an opening code fence.
func parseFenceOpen(b []byte) (fence, bool) {
	if len(b) < 3 || (b[0] != '`' && b[0] != '~') {
		return fence{}, false
	}
	char := b[0]
	n := 0
	for n < len(b) && b[n] == char {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	info := bytes.TrimSpace(b[n:])
	if char == '`' && bytes.IndexByte(info, '`') >= 0 {
		return fence{}, false
	}
	return fence{char: char, length: n, info: info}, true
}

// closesFence reports whether b (after indentation) closes f.
func closesFence(f fence, b []byte) bool {
	n := 0
	for n < len(b) && b[n] == f.char {
		n++
	}
	if n < f.length {
		return false
	}
	return len(bytes.TrimRight(b[n:], " \t")) == 0
}

// setextLevel returns 1 for a '=' underline, 2 for a '-' underline and 0
// otherwise.
func setextLevel(b []byte) int {
	if len(b) == 0 || (b[0] != '=' && b[0] != '-') {
		return 0
	}
	mark := b[0]
	n := 0
	for n < len(b) && b[n] == mark {
		n++
	}
	if len(bytes.TrimRight(b[n:], " \t")) != 0 {
		return 0
	}
	if mark == '=' {
		return 1
	}
	return 2
}

// listMarker is a parsed bullet or ordinal list marker.
type listMarker struct {
	ordered bool

	// char is the bullet character or the ordinal delimiter.
	char  byte
	start int
	width int
}

// compatible reports whether an item with marker m continues a list
// started with marker other.
func (m listMarker) compatible(other listMarker) bool {
	return m.ordered == other.ordered && m.char == other.char
}

// parseListMarker parses a list marker at the start of b. The marker must
// be followed by whitespace or the end of the line.
func parseListMarker(b []byte) (listMarker, bool) {
	if len(b) == 0 {
		return listMarker{}, false
	}

	var m listMarker
	switch b[0] {
	case '-', '+', '*':
		m = listMarker{char: b[0], width: 1}
	default:
		n := 0
		for n < len(b) && n <= maxListNumberDigits && b[n] >= '0' && b[n] <= '9' {
			n++
		}
		if n == 0 || n > maxListNumberDigits || n >= len(b) || (b[n] != '.' && b[n] != ')') {
			return listMarker{}, false
		}
		start, err := strconv.Atoi(string(b[:n]))
		if err != nil {
			return listMarker{}, false
		}
		m = listMarker{ordered: true, char: b[n], start: start, width: n + 1}
	}

	if m.width < len(b) && b[m.width] != ' ' && b[m.width] != '\t' {
		return listMarker{}, false
	}
	return m, true
}
