package mdast

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// PositionAt converts a byte offset to a Position.
func (x *LineIndex) PositionAt(offset int) Position {
	line, col := x.LineAt(offset)
	return Position{Line: line, Column: col}
}

// PositionOf returns the source position where node id starts.
func (t *Tree) PositionOf(x *LineIndex, id NodeID) Position {
	return x.PositionAt(t.Nodes[id].Offset)
}
