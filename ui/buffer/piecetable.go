package buffer

import "strings"

// A PieceTable is a TextBuffer storing the document as an ordered list of
// pieces over two backing buffers: the original content, which is never
// mutated, and an added buffer which accumulates every inserted rune in
// insertion order and never shrinks. Edits only ever split, truncate, extend
// or remove pieces; the concatenation of the piece spans is always the
// current document.
//
// Locating a logical index is a linear walk of the piece list. That is
// O(pieces) per edit, which is acceptable because the change records below
// keep the piece count from growing during runs of contiguous typing or
// backspacing, the overwhelmingly common case in interactive editing.
type PieceTable struct {
	original []rune
	added    []rune
	pieces   []Piece
	length   int

	// lastInsert and lastRemove record where the most recent edit landed,
	// so a contiguous follow-up edit can extend or shrink that piece in
	// place instead of splicing the list. An insertion invalidates
	// lastRemove and vice versa. Purely an optimization: any miss falls
	// back to the structural path with identical results.
	lastInsert *changeRecord
	lastRemove *changeRecord

	// noCache forces the structural path. Tests use it to prove the change
	// records never alter semantics.
	noCache bool
}

// A changeRecord pins the most recent edit to a logical index and the piece
// that absorbed it.
type changeRecord struct {
	index      int
	pieceIndex int
}

// The location of a logical index relative to the piece containing it.
type locationKind uint8

const (
	pieceHead     locationKind = iota // first rune of the piece
	pieceBody                         // strictly inside
	pieceTail                         // last rune of the piece
	endOfDocument                     // index == length, the append position
)

type indexLocation struct {
	kind   locationKind
	piece  int
	offset int // relative to the piece's start
}

// NewPieceTable constructs a piece table over content. A non-empty document
// begins as a single piece spanning the whole original buffer; an empty
// document has no pieces at all.
func NewPieceTable(content string) *PieceTable {
	pt := &PieceTable{
		original: []rune(content),
	}
	pt.length = len(pt.original)
	if pt.length > 0 {
		pt.pieces = append(pt.pieces, pt.newPiece(Original, 0, pt.length))
	}
	return pt
}

// newPiece builds a piece over the named backing buffer span, scanning the
// span once for line breaks.
func (pt *PieceTable) newPiece(buf BufferID, start, length int) Piece {
	backing := pt.original
	if buf == Added {
		backing = pt.added
	}
	return Piece{
		Buffer:           buf,
		Start:            start,
		Length:           length,
		LineBreakOffsets: LineBreakOffsets(backing[start : start+length]),
	}
}

// locateIndex walks the piece list with a running offset and classifies
// index as the head, body or tail of some piece, or the append position.
func (pt *PieceTable) locateIndex(index int) indexLocation {
	count := 0
	for i, p := range pt.pieces {
		if index < count+p.Length {
			switch index {
			case count:
				return indexLocation{kind: pieceHead, piece: i}
			case count + p.Length - 1:
				return indexLocation{kind: pieceTail, piece: i, offset: p.Length - 1}
			default:
				return indexLocation{kind: pieceBody, piece: i, offset: index - count}
			}
		}
		count += p.Length
	}
	return indexLocation{kind: endOfDocument}
}

// Len reports the number of runes in the document.
func (pt *PieceTable) Len() int {
	return pt.length
}

// Insert places text before the rune at logical index at. The text lands at
// the end of the added buffer no matter where it belongs logically; only the
// piece list changes shape. When at is exactly where the previous insertion
// ended, the piece created by that insertion is extended in place and the
// piece list does not grow at all.
func (pt *PieceTable) Insert(text string, at int) error {
	if at < 0 || at > pt.length {
		return ErrIndexOutOfRange
	}
	items := []rune(text)
	if len(items) == 0 {
		return nil
	}

	pt.lastRemove = nil

	if rec := pt.lastInsert; rec != nil && rec.index == at && !pt.noCache {
		pt.added = append(pt.added, items...)
		pt.pieces[rec.pieceIndex] = pt.pieces[rec.pieceIndex].Extend(items)
		pt.length += len(items)
		rec.index = at + len(items)
		return nil
	}

	loc := pt.locateIndex(at)
	pt.added = append(pt.added, items...)
	newPiece := pt.newPiece(Added, len(pt.added)-len(items), len(items))

	switch loc.kind {
	case pieceHead:
		pt.pieces = insertPiece(pt.pieces, loc.piece, newPiece)
		pt.lastInsert = &changeRecord{index: at + len(items), pieceIndex: loc.piece}
	case pieceBody, pieceTail:
		// A tail insertion splits before the piece's final rune, so the new
		// content goes after all but the last rune of the piece.
		left, right := pt.pieces[loc.piece].SplitAt(loc.offset)
		pt.pieces[loc.piece] = left
		pt.pieces = insertPiece(pt.pieces, loc.piece+1, newPiece)
		pt.pieces = insertPiece(pt.pieces, loc.piece+2, right)
		pt.lastInsert = &changeRecord{index: at + len(items), pieceIndex: loc.piece + 1}
	case endOfDocument:
		pt.pieces = append(pt.pieces, newPiece)
		pt.lastInsert = &changeRecord{index: at + len(items), pieceIndex: len(pt.pieces) - 1}
	}

	pt.length += len(items)
	return nil
}

// RemoveAt removes the single rune at the given logical index.
func (pt *PieceTable) RemoveAt(index int) error {
	if index < 0 || index >= pt.length {
		return ErrIndexOutOfRange
	}
	return pt.RemoveRange(index, index+1)
}

// RemoveRange removes the runes in [start, end) as repeated single-rune
// removals from the high end downward, so that each step leaves earlier
// indices untouched for the next. An empty or inverted range is a no-op.
func (pt *PieceTable) RemoveRange(start, end int) error {
	if start >= end {
		return nil
	}
	if start < 0 || end > pt.length {
		return ErrIndexOutOfRange
	}

	pt.lastInsert = nil
	for index := end - 1; index >= start; index-- {
		pt.removeOne(index)
	}
	return nil
}

// removeOne removes the rune at index, which the caller has bounds-checked.
// When the removal immediately precedes the previous one — sequential
// backspacing — the piece shrunk by that removal is truncated again in place.
func (pt *PieceTable) removeOne(index int) {
	if rec := pt.lastRemove; rec != nil && rec.index == index+1 && !pt.noCache {
		p := pt.pieces[rec.pieceIndex]
		if p.Length > 1 {
			pt.pieces[rec.pieceIndex] = p.TruncateRight(1)
			rec.index = index
		} else {
			pt.pieces = removePiece(pt.pieces, rec.pieceIndex)
			if rec.pieceIndex > 0 {
				// The preceding piece now ends just before index, so the
				// next contiguous removal can keep truncating in place.
				pt.lastRemove = &changeRecord{index: index, pieceIndex: rec.pieceIndex - 1}
			} else {
				pt.lastRemove = nil
			}
		}
		pt.length--
		return
	}

	loc := pt.locateIndex(index)
	switch loc.kind {
	case pieceHead:
		p := pt.pieces[loc.piece]
		if p.Length == 1 {
			pt.pieces = removePiece(pt.pieces, loc.piece)
		} else {
			pt.pieces[loc.piece] = p.TruncateLeft(1)
		}
		// After a head removal the piece (or its successor) starts at
		// index, so no piece ends just before it; nothing to anchor.
		pt.lastRemove = nil
	case pieceBody:
		left, right := pt.pieces[loc.piece].SplitAt(loc.offset)
		pt.pieces[loc.piece] = left
		pt.pieces = insertPiece(pt.pieces, loc.piece+1, right.TruncateLeft(1))
		pt.lastRemove = &changeRecord{index: index, pieceIndex: loc.piece}
	case pieceTail:
		pt.pieces[loc.piece] = pt.pieces[loc.piece].TruncateRight(1)
		pt.lastRemove = &changeRecord{index: index, pieceIndex: loc.piece}
	case endOfDocument:
		panic("buffer: remove past end of document")
	}
	pt.length--
}

// LineAt returns the 0-based line at the given index. The walk accumulates
// piece lengths to turn each piece's relative line-break offsets into
// absolute logical positions; the line's content is then materialized with
// a range iteration.
func (pt *PieceTable) LineAt(line int) (Line, error) {
	if line < 0 || line >= pt.LineCount() {
		return Line{}, ErrLineOutOfRange
	}

	lineStart := 0
	lineEnd := -1 // -1: no terminating break found yet
	count := 0

	if line == 0 {
		for _, p := range pt.pieces {
			if len(p.LineBreakOffsets) > 0 {
				lineEnd = count + p.LineBreakOffsets[0]
				break
			}
			count += p.Length
		}
	} else {
		remaining := line
		startPiece := 0
		for i, p := range pt.pieces {
			breaks := len(p.LineBreakOffsets)
			if remaining <= breaks {
				// The line starts one past the remaining-th break in this
				// piece.
				lineStart = count + p.LineBreakOffsets[remaining-1] + 1
				startPiece = i
				if remaining < breaks {
					// The next break is in the same piece, ending the line.
					lineEnd = count + p.LineBreakOffsets[remaining]
				}
				count += p.Length
				break
			}
			remaining -= breaks
			count += p.Length
		}

		if lineEnd < 0 {
			for _, p := range pt.pieces[startPiece+1:] {
				if len(p.LineBreakOffsets) > 0 {
					lineEnd = count + p.LineBreakOffsets[0]
					break
				}
				count += p.Length
			}
		}
	}

	if lineEnd < 0 {
		lineEnd = pt.length
	}

	it, err := pt.IterRange(lineStart, lineEnd)
	if err != nil {
		return Line{}, err
	}
	return Line{StartIndex: lineStart, Content: it.Collect()}, nil
}

// LineCount reports the number of lines: one more than the total line breaks
// across all pieces. A document without breaks is a single line, even when
// empty.
func (pt *PieceTable) LineCount() int {
	count := 1
	for _, p := range pt.pieces {
		count += len(p.LineBreakOffsets)
	}
	return count
}

// AllContent materializes the whole document.
func (pt *PieceTable) AllContent() string {
	var sb strings.Builder
	sb.Grow(pt.length)
	it := pt.Iter()
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		sb.WriteRune(r)
	}
	return sb.String()
}

func insertPiece(pieces []Piece, idx int, p Piece) []Piece {
	pieces = append(pieces, Piece{})
	copy(pieces[idx+1:], pieces[idx:])
	pieces[idx] = p
	return pieces
}

func removePiece(pieces []Piece, idx int) []Piece {
	return append(pieces[:idx], pieces[idx+1:]...)
}
