package refs

import (
	"github.com/yaklabco/gomdhtml/internal/mdtext"
)

// ParseDefinition parses a single-line reference definition of the form
// [label]: destination ["title"]. The line must already be stripped of
// container markers. Leading indentation of up to three spaces is allowed.
func ParseDefinition(line []byte, offset int) (Definition, bool) {
	pos := 0
	for pos < len(line) && pos < 3 && line[pos] == ' ' {
		pos++
	}

	label, n, ok := mdtext.ScanLinkLabel(line[pos:])
	if !ok {
		return Definition{}, false
	}
	pos += n

	if pos >= len(line) || line[pos] != ':' {
		return Definition{}, false
	}
	pos = skipBlanks(line, pos+1)

	dest, n, ok := mdtext.ScanLinkDestination(line[pos:])
	if !ok {
		return Definition{}, false
	}
	pos += n

	def := Definition{
		Label:       string(label),
		Destination: string(mdtext.Unescape(dest)),
		Offset:      offset,
	}

	afterDest := pos
	pos = skipBlanks(line, pos)
	if pos == len(line) {
		return def, true
	}

	// A title must be separated from the destination by whitespace.
	if pos == afterDest {
		return Definition{}, false
	}

	title, n, ok := mdtext.ScanLinkTitle(line[pos:])
	if !ok {
		return Definition{}, false
	}
	if skipBlanks(line, pos+n) != len(line) {
		return Definition{}, false
	}

	def.Title = string(mdtext.Unescape(title))
	return def, true
}

func skipBlanks(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return i
}
