package mdast

import "sort"

// LineInfo describes one physical line of the source.
type LineInfo struct {
	// StartOffset is the byte offset of the first byte of the line.
	StartOffset int

	// NewlineStart is the offset of the line terminator, or the end of
	// the content for an unterminated last line.
	NewlineStart int

	// EndOffset is the offset just past the terminator.
	EndOffset int
}

// LineIndex maps byte offsets to line and column positions.
type LineIndex struct {
	Content []byte
	Lines   []LineInfo
}

// BuildLines constructs line metadata from file content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char == '\n' {
			newlineStart := idx
			if idx > 0 && content[idx-1] == '\r' {
				newlineStart = idx - 1
			}

			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	if lineStart <= len(content) {
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(content),
			EndOffset:    len(content),
		})
	}

	return lines
}

// NewLineIndex builds a LineIndex over content.
func NewLineIndex(content []byte) *LineIndex {
	return &LineIndex{Content: content, Lines: BuildLines(content)}
}

// LineCount returns the number of lines.
func (x *LineIndex) LineCount() int {
	return len(x.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (x *LineIndex) LineAt(offset int) (int, int) {
	if offset < 0 || len(x.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(x.Content) {
		lastLine := x.Lines[len(x.Lines)-1]
		return len(x.Lines), offset - lastLine.StartOffset + 1
	}

	lineIdx := sort.Search(len(x.Lines), func(i int) bool {
		return x.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(x.Lines) {
		lineIdx = len(x.Lines) - 1
	}

	lineInfo := x.Lines[lineIdx]
	if offset < lineInfo.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - lineInfo.StartOffset + 1
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns nil if the line number is out of range.
func (x *LineIndex) LineContent(line int) []byte {
	if line < 1 || line > len(x.Lines) {
		return nil
	}

	lineInfo := x.Lines[line-1]
	return x.Content[lineInfo.StartOffset:lineInfo.NewlineStart]
}
