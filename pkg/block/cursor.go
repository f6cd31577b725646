package block

import (
	"bytes"

	"github.com/yaklabco/gomdhtml/pkg/scanner"
)

// cursor walks one line while container prefixes are consumed.
// A tab may be consumed partially; the columns left over behave as spaces.
type cursor struct {
	line []byte
	base int // source offset of line[0]
	pos  int
	col  int // column of pos, tabs expanded

	// partial is the number of columns still unconsumed from the tab at pos.
	partial int
}

func newCursor(line scanner.Line) cursor {
	return cursor{line: line.Content, base: line.Offset}
}

// indent returns the width in columns of the whitespace at the cursor.
func (c *cursor) indent() int {
	width := c.partial
	col := c.col + c.partial
	i := c.pos
	if c.partial > 0 {
		i++
	}
	for ; i < len(c.line); i++ {
		switch c.line[i] {
		case ' ':
			width++
			col++
		case '\t':
			step := scanner.TabStop - col%scanner.TabStop
			width += step
			col += step
		default:
			return width
		}
	}
	return width
}

// skipIndent consumes up to n columns of whitespace.
func (c *cursor) skipIndent(n int) {
	for n > 0 {
		if c.partial > 0 {
			if n < c.partial {
				c.partial -= n
				c.col += n
				return
			}
			n -= c.partial
			c.col += c.partial
			c.partial = 0
			c.pos++
			continue
		}
		if c.pos >= len(c.line) {
			return
		}
		switch c.line[c.pos] {
		case ' ':
			c.pos++
			c.col++
			n--
		case '\t':
			step := scanner.TabStop - c.col%scanner.TabStop
			if n >= step {
				c.pos++
				c.col += step
				n -= step
			} else {
				c.partial = step - n
				c.col += n
				n = 0
			}
		default:
			return
		}
	}
}

// skipSpaces consumes all whitespace at the cursor and returns its width.
func (c *cursor) skipSpaces() int {
	width := c.indent()
	c.skipIndent(width)
	return width
}

// char returns the byte at the cursor, a space for a partly consumed tab,
// or 0 at the end of the line.
func (c *cursor) char() byte {
	if c.partial > 0 {
		return ' '
	}
	if c.pos < len(c.line) {
		return c.line[c.pos]
	}
	return 0
}

// advance consumes n non-whitespace bytes.
func (c *cursor) advance(n int) {
	c.pos += n
	c.col += n
}

// bytes returns the raw remaining bytes, ignoring any partly consumed tab.
func (c *cursor) bytes() []byte {
	return c.line[c.pos:]
}

// rest returns the remaining content, with the unconsumed part of a
// partially consumed tab expanded to spaces.
func (c *cursor) rest() []byte {
	if c.partial == 0 {
		return c.line[c.pos:]
	}
	out := make([]byte, 0, c.partial+len(c.line)-c.pos-1)
	out = append(out, bytes.Repeat([]byte{' '}, c.partial)...)
	return append(out, c.line[c.pos+1:]...)
}

// blank reports whether only whitespace remains.
func (c *cursor) blank() bool {
	for _, b := range c.line[c.pos:] {
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

// offset returns the source offset of the cursor.
func (c *cursor) offset() int {
	return c.base + c.pos
}
