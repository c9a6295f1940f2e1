package buffer

import "math"

// Why does cursor motion live in the buffer package instead of the TextEdit
// component? The cursor needs the buffer to know where lines end and how far
// it can move. The buffer is the city, and the Cursor is the car.

// A Cursor is a line/column position in a TextBuffer with motion arithmetic.
// Cursors are value types: motions return a moved copy. The column may sit
// one past the last rune of a line, which is the insert position at the end
// of that line.
type Cursor struct {
	buffer TextBuffer
	line   int
	col    int
}

func NewCursor(in TextBuffer) Cursor {
	return Cursor{buffer: in}
}

// lineLen returns the rune count of the given line, excluding the delimiter.
func (c Cursor) lineLen(line int) int {
	l, err := c.buffer.LineAt(line)
	if err != nil {
		panic(err) // motion arithmetic produced an invalid line; a bug
	}
	return l.Len()
}

// Index converts the cursor to a logical index into the buffer.
func (c Cursor) Index() int {
	l, err := c.buffer.LineAt(c.line)
	if err != nil {
		panic(err)
	}
	return l.StartIndex + c.col
}

// Left moves one rune left, wrapping to the end of the line above at the
// start of a line.
func (c Cursor) Left() Cursor {
	if c.col == 0 && c.line != 0 {
		c.line--
		c.col = c.lineLen(c.line)
	} else if c.col > 0 {
		c.col--
	}
	return c
}

// Right moves one rune right, wrapping to the start of the line below at the
// end of a line.
func (c Cursor) Right() Cursor {
	if c.col >= c.lineLen(c.line) && c.line < c.buffer.LineCount()-1 {
		c.line++
		c.col = 0
	} else {
		c.line, c.col = c.clampLineCol(c.line, c.col+1)
	}
	return c
}

// Up moves one line up, clamping the column to the shorter line if needed.
// On the first line it moves to the very beginning.
func (c Cursor) Up() Cursor {
	if c.line == 0 {
		c.col = 0
	} else {
		c.line, c.col = c.clampLineCol(c.line-1, c.col)
	}
	return c
}

// Down moves one line down, clamping the column to the shorter line if
// needed. On the last line it moves to the very end.
func (c Cursor) Down() Cursor {
	if c.line == c.buffer.LineCount()-1 {
		c.line, c.col = c.clampLineCol(c.line, math.MaxInt32)
	} else {
		c.line, c.col = c.clampLineCol(c.line+1, c.col)
	}
	return c
}

func (c Cursor) GetLineCol() (line, col int) {
	return c.line, c.col
}

// SetLineCol sets the line and col of the Cursor to those provided. line is
// clamped within the range (0, lines in buffer); col is then clamped within
// the range (0, line length in runes).
func (c Cursor) SetLineCol(line, col int) Cursor {
	c.line, c.col = c.clampLineCol(line, col)
	return c
}

func (c Cursor) clampLineCol(line, col int) (int, int) {
	if line < 0 {
		line = 0
	} else if lines := c.buffer.LineCount() - 1; line > lines {
		line = lines
	}

	if col < 0 {
		col = 0
	} else if runes := c.lineLen(line); col > runes {
		col = runes
	}

	return line, col
}

func (c Cursor) Eq(other Cursor) bool {
	return c.buffer == other.buffer && c.line == other.line && c.col == other.col
}

// A Region is a span of the buffer being selected, tracked as two cursors:
// the anchor where selection started and the head that moves with further
// motion. The head may sit on either side of the anchor.
type Region struct {
	Anchor Cursor
	Head   Cursor
}

// Ordered returns the region's cursors as (start, end) by logical index.
// The pair is a half-open range: end's index is not part of the selection.
func (r Region) Ordered() (start, end Cursor) {
	if r.Head.Index() < r.Anchor.Index() {
		return r.Head, r.Anchor
	}
	return r.Anchor, r.Head
}
