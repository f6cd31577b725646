package mdtext

import "bytes"

// ScanHTML returns the length of the raw HTML construct at the start of b:
// an open tag, a closing tag, a comment, a processing instruction, a
// declaration or a CDATA section. It returns 0 when b does not start with one.
func ScanHTML(b []byte) int {
	if len(b) < 2 || b[0] != '<' {
		return 0
	}

	switch {
	case b[1] == '/':
		return ScanClosingTag(b)
	case b[1] == '?':
		return scanUntil(b, 2, "?>")
	case bytes.HasPrefix(b, []byte("<!--")):
		return scanComment(b)
	case bytes.HasPrefix(b, []byte("<![CDATA[")):
		return scanUntil(b, len("<![CDATA["), "]]>")
	case b[1] == '!':
		if len(b) > 2 && isLetter(b[2]) {
			return scanUntil(b, 3, ">")
		}
		return 0
	default:
		return ScanOpenTag(b)
	}
}

// ScanOpenTag returns the length of an open tag such as <a href="x"> or
// <br/> at the start of b, or 0.
func ScanOpenTag(b []byte) int {
	if len(b) < 3 || b[0] != '<' {
		return 0
	}
	i := scanTagName(b, 1)
	if i == 1 {
		return 0
	}

	for {
		spaced := i
		i = skipHTMLSpace(b, i)
		if i >= len(b) {
			return 0
		}
		switch b[i] {
		case '>':
			return i + 1
		case '/':
			if i+1 < len(b) && b[i+1] == '>' {
				return i + 2
			}
			return 0
		}
		if i == spaced {
			// Attributes must be separated by whitespace.
			return 0
		}
		next := scanAttribute(b, i)
		if next == i {
			return 0
		}
		i = next
	}
}

// ScanClosingTag returns the length of a closing tag such as </div > at the
// start of b, or 0.
func ScanClosingTag(b []byte) int {
	if len(b) < 4 || b[0] != '<' || b[1] != '/' {
		return 0
	}
	i := scanTagName(b, 2)
	if i == 2 {
		return 0
	}
	i = skipHTMLSpace(b, i)
	if i < len(b) && b[i] == '>' {
		return i + 1
	}
	return 0
}

// TagName returns the tag name of an open or closing tag at the start of b,
// or nil.
func TagName(b []byte) []byte {
	start := 1
	if len(b) > 1 && b[1] == '/' {
		start = 2
	}
	end := scanTagName(b, start)
	if end == start {
		return nil
	}
	return b[start:end]
}

func scanComment(b []byte) int {
	const open = len("<!--")
	rest := b[open:]
	switch {
	case bytes.HasPrefix(rest, []byte(">")):
		return open + 1
	case bytes.HasPrefix(rest, []byte("->")):
		return open + 2
	}
	return scanUntil(b, open, "-->")
}

func scanUntil(b []byte, from int, terminator string) int {
	if from > len(b) {
		return 0
	}
	idx := bytes.Index(b[from:], []byte(terminator))
	if idx < 0 {
		return 0
	}
	return from + idx + len(terminator)
}

func scanTagName(b []byte, i int) int {
	if i >= len(b) || !isLetter(b[i]) {
		return i
	}
	i++
	for i < len(b) && (isAlnum(b[i]) || b[i] == '-') {
		i++
	}
	return i
}

func scanAttribute(b []byte, i int) int {
	start := i
	if i >= len(b) || !(isLetter(b[i]) || b[i] == '_' || b[i] == ':') {
		return start
	}
	i++
	for i < len(b) && (isAlnum(b[i]) || b[i] == '_' || b[i] == '.' || b[i] == ':' || b[i] == '-') {
		i++
	}

	afterName := i
	i = skipHTMLSpace(b, i)
	if i >= len(b) || b[i] != '=' {
		return afterName
	}
	i = skipHTMLSpace(b, i+1)
	if i >= len(b) {
		return start
	}

	switch quote := b[i]; quote {
	case '"', '\'':
		end := bytes.IndexByte(b[i+1:], quote)
		if end < 0 {
			return start
		}
		return i + 1 + end + 1
	default:
		valueStart := i
		for i < len(b) && !isUnquotedStop(b[i]) {
			i++
		}
		if i == valueStart {
			return start
		}
		return i
	}
}

func isUnquotedStop(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '"', '\'', '=', '<', '>', '`':
		return true
	default:
		return false
	}
}

func skipHTMLSpace(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r', '\f':
			i++
		default:
			return i
		}
	}
	return i
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
