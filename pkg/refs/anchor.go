package refs

import (
	"strconv"
	"strings"
	"unicode"
)

// Anchors hands out unique heading identifiers for one document.
type Anchors struct {
	// seen tracks how many times each base anchor has been handed out,
	// used for generating duplicate suffixes.
	seen map[string]int
}

// NewAnchors creates an empty anchor generator.
func NewAnchors() *Anchors {
	return &Anchors{seen: make(map[string]int)}
}

// Generate converts heading text to a GitHub-compatible anchor, adding a
// -1, -2, ... suffix to repeated anchors.
func (a *Anchors) Generate(text string) string {
	base := Anchor(text)
	if base == "" {
		base = "section"
	}

	count := a.seen[base]
	a.seen[base] = count + 1

	if count == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(count)
}

// Anchor converts heading text to a base anchor ID.
// Algorithm (GitHub-compatible):
//  1. Convert to lowercase
//  2. Remove punctuation (except hyphens and underscores)
//  3. Replace spaces with hyphens
//  4. Collapse multiple hyphens
//  5. Trim leading/trailing hyphens
func Anchor(text string) string {
	var buf strings.Builder
	buf.Grow(len(text))

	prevHyphen := false

	for _, ch := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(ch) || unicode.IsNumber(ch):
			buf.WriteRune(ch)
			prevHyphen = false
		case ch == '-' || ch == '_':
			buf.WriteRune(ch)
			prevHyphen = (ch == '-')
		case unicode.IsSpace(ch):
			if !prevHyphen && buf.Len() > 0 {
				_ = buf.WriteByte('-') // strings.Builder.WriteByte never fails
				prevHyphen = true
			}
		}
	}

	result := strings.Trim(buf.String(), "-")

	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}

	return result
}
