package mdtext

// MaxLabelLength is the longest accepted link label, in bytes.
const MaxLabelLength = 999

// maxDestinationParens bounds nesting of unescaped parentheses in a bare
// link destination.
const maxDestinationParens = 32

// SkipSpace returns the index of the first byte at or after i that is not a
// space or tab, and at most one line ending.
func SkipSpace(b []byte, i int) int {
	newline := false
	for i < len(b) {
		switch b[i] {
		case ' ', '\t':
			i++
		case '\n':
			if newline {
				return i
			}
			newline = true
			i++
		default:
			return i
		}
	}
	return i
}

// ScanLinkDestination scans a link destination at the start of b.
// It returns the raw (still escaped) destination and the number of bytes
// consumed. Pointy destinations <...> may be empty.
func ScanLinkDestination(b []byte) ([]byte, int, bool) {
	if len(b) == 0 {
		return nil, 0, false
	}

	if b[0] == '<' {
		for i := 1; i < len(b); i++ {
			switch b[i] {
			case '\\':
				if i+1 < len(b) && IsASCIIPunct(b[i+1]) {
					i++
				}
			case '\n', '<':
				return nil, 0, false
			case '>':
				return b[1:i], i + 1, true
			}
		}
		return nil, 0, false
	}

	depth := 0
	i := 0
scan:
	for i < len(b) {
		c := b[i]
		switch {
		case c == '\\' && i+1 < len(b) && IsASCIIPunct(b[i+1]):
			i += 2
			continue
		case c == '(':
			depth++
			if depth > maxDestinationParens {
				return nil, 0, false
			}
		case c == ')':
			if depth == 0 {
				break scan
			}
			depth--
		case c <= ' ' || c == 0x7f:
			break scan
		}
		i++
	}

	if i == 0 || depth != 0 {
		return nil, 0, false
	}
	return b[:i], i, true
}

// ScanLinkTitle scans a quoted or parenthesized title at the start of b.
// It returns the raw title content and the number of bytes consumed.
// A title may span lines but never a blank line.
func ScanLinkTitle(b []byte) ([]byte, int, bool) {
	if len(b) == 0 {
		return nil, 0, false
	}

	var closer byte
	switch b[0] {
	case '"', '\'':
		closer = b[0]
	case '(':
		closer = ')'
	default:
		return nil, 0, false
	}

	for i := 1; i < len(b); i++ {
		switch c := b[i]; {
		case c == '\\' && i+1 < len(b) && IsASCIIPunct(b[i+1]):
			i++
		case c == closer:
			return b[1:i], i + 1, true
		case c == '(' && closer == ')':
			return nil, 0, false
		case c == '\n' && isBlankAfter(b, i+1):
			return nil, 0, false
		}
	}
	return nil, 0, false
}

// ScanLinkLabel scans a bracketed label at the start of b.
// It returns the label content and the number of bytes consumed,
// including both brackets.
func ScanLinkLabel(b []byte) ([]byte, int, bool) {
	if len(b) < 2 || b[0] != '[' {
		return nil, 0, false
	}

	for i := 1; i < len(b) && i <= MaxLabelLength+1; i++ {
		switch b[i] {
		case '\\':
			if i+1 < len(b) && IsASCIIPunct(b[i+1]) {
				i++
			}
		case '[':
			return nil, 0, false
		case ']':
			label := b[1:i]
			if isAllSpace(label) {
				return nil, 0, false
			}
			return label, i + 1, true
		}
	}
	return nil, 0, false
}

func isBlankAfter(b []byte, i int) bool {
	for ; i < len(b); i++ {
		switch b[i] {
		case ' ', '\t':
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func isAllSpace(b []byte) bool {
	for _, c := range b {
		if !IsSpace(c) {
			return false
		}
	}
	return true
}
