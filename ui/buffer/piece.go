package buffer

// A BufferID names one of the two backing buffers owned by a PieceTable.
// There are exactly two and never more, so this is a plain tag rather than
// an interface.
type BufferID uint8

const (
	Original BufferID = iota
	Added
)

// A Piece references a contiguous span of one backing buffer, along with the
// positions of every line break inside that span. Pieces are value types:
// the helper methods below return modified copies and never touch the
// backing buffers themselves.
type Piece struct {
	Buffer BufferID
	Start  int // Index of the first rune of the span within the backing buffer.
	Length int // Number of runes in the span.

	// LineBreakOffsets holds the position of every '\n' within the span,
	// relative to Start, in ascending order. 0 means the first rune of the
	// piece. The helper methods keep it exact for the spans they produce.
	LineBreakOffsets []int
}

// Extend returns a copy of the piece grown by len(items) runes. The caller
// asserts that items were appended to the backing buffer directly after this
// piece's span, which is only ever true for the piece created by the most
// recent insertion.
func (p Piece) Extend(items []rune) Piece {
	offsets := make([]int, 0, len(p.LineBreakOffsets))
	offsets = append(offsets, p.LineBreakOffsets...)
	for i, r := range items {
		if r == '\n' {
			offsets = append(offsets, p.Length+i)
		}
	}

	return Piece{
		Buffer:           p.Buffer,
		Start:            p.Start,
		Length:           p.Length + len(items),
		LineBreakOffsets: offsets,
	}
}

// SplitAt cuts the piece in two: a left piece spanning [0, idx) and a right
// piece spanning [idx, Length), each with the line-break offsets belonging
// to its half. Offsets of the right piece are re-based so 0 is its first rune.
func (p Piece) SplitAt(idx int) (left, right Piece) {
	var leftOffsets, rightOffsets []int
	for _, off := range p.LineBreakOffsets {
		if off < idx {
			leftOffsets = append(leftOffsets, off)
		} else {
			rightOffsets = append(rightOffsets, off-idx)
		}
	}

	left = Piece{
		Buffer:           p.Buffer,
		Start:            p.Start,
		Length:           idx,
		LineBreakOffsets: leftOffsets,
	}
	right = Piece{
		Buffer:           p.Buffer,
		Start:            p.Start + idx,
		Length:           p.Length - idx,
		LineBreakOffsets: rightOffsets,
	}
	return left, right
}

// TruncateLeft returns a copy of the piece with the first n runes dropped.
// Line-break offsets shift down by n; any that go negative are dropped with
// the runes that held them.
func (p Piece) TruncateLeft(n int) Piece {
	var offsets []int
	for _, off := range p.LineBreakOffsets {
		if off >= n {
			offsets = append(offsets, off-n)
		}
	}

	return Piece{
		Buffer:           p.Buffer,
		Start:            p.Start + n,
		Length:           p.Length - n,
		LineBreakOffsets: offsets,
	}
}

// TruncateRight returns a copy of the piece with the last n runes dropped.
// Line-break offsets that now fall outside the shrunken span are dropped.
func (p Piece) TruncateRight(n int) Piece {
	length := p.Length - n

	var offsets []int
	for _, off := range p.LineBreakOffsets {
		if off >= length {
			break
		}
		offsets = append(offsets, off)
	}

	return Piece{
		Buffer:           p.Buffer,
		Start:            p.Start,
		Length:           length,
		LineBreakOffsets: offsets,
	}
}

// LineBreakOffsets scans items once and returns the position of every '\n'.
func LineBreakOffsets(items []rune) []int {
	var offsets []int
	for i, r := range items {
		if r == '\n' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
