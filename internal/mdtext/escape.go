// Package mdtext holds the low-level text rules shared by the block and
// inline parsers: backslash escapes, character references and the link
// destination, title and label grammars.
package mdtext

import (
	"strconv"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
)

// Digit limits for decimal (&#1234567;) and hexadecimal (&#x10FFFF;)
// character references.
const (
	maxDecimalDigits = 7
	maxHexDigits     = 6
)

// IsASCIIPunct reports whether c may be backslash-escaped.
func IsASCIIPunct(c byte) bool {
	return c < utf8.RuneSelf && util.IsPunct(c)
}

// IsSpace reports whether c is an ASCII whitespace byte.
func IsSpace(c byte) bool {
	return util.IsSpace(c)
}

// DecodeEntity decodes a character reference at the start of b, which must
// begin with '&'. It returns the decoded bytes and the number of source
// bytes consumed, or (nil, 0) when b does not start with a valid reference.
func DecodeEntity(b []byte) ([]byte, int) {
	if len(b) < 3 || b[0] != '&' {
		return nil, 0
	}

	if b[1] == '#' {
		return decodeNumeric(b)
	}

	end := 1
	for end < len(b) && isAlnum(b[end]) {
		end++
	}
	if end == 1 || end >= len(b) || b[end] != ';' {
		return nil, 0
	}

	entity, ok := util.LookUpHTML5EntityByName(string(b[1:end]))
	if !ok {
		return nil, 0
	}
	return entity.Characters, end + 1
}

func decodeNumeric(b []byte) ([]byte, int) {
	start := 2
	base := 10
	limit := maxDecimalDigits
	if start < len(b) && (b[start] == 'x' || b[start] == 'X') {
		start++
		base = 16
		limit = maxHexDigits
	}

	end := start
	for end < len(b) && end-start <= limit && isDigit(b[end], base) {
		end++
	}
	if end == start || end-start > limit || end >= len(b) || b[end] != ';' {
		return nil, 0
	}

	value, err := strconv.ParseUint(string(b[start:end]), base, 32)
	if err != nil {
		return nil, 0
	}

	r := rune(value)
	if r == 0 || !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return utf8.AppendRune(nil, r), end + 1
}

// Unescape resolves backslash escapes and character references in b.
// It is applied to link destinations, titles and code block info strings.
func Unescape(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '\\' && i+1 < len(b) && IsASCIIPunct(b[i+1]):
			out = append(out, b[i+1])
			i += 2
		case c == '&':
			if decoded, n := DecodeEntity(b[i:]); n > 0 {
				out = append(out, decoded...)
				i += n
				continue
			}
			out = append(out, c)
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isDigit(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base == 16 {
		return c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
	}
	return false
}
