package buffer

// An Iter lazily walks a range of a PieceTable, yielding one rune per call
// to Next. It holds piece/offset coordinates for its current position and
// its exclusive end, and reads straight from the backing buffers — no part
// of the document is materialized until asked for. Creating an iterator is
// cheap; make a fresh one to walk a range again.
//
// An Iter is a snapshot of coordinates, not of content: editing the table
// mid-iteration invalidates it.
type Iter struct {
	table *PieceTable

	pieceIndex  int
	pieceOffset int

	endPieceIndex  int
	endPieceOffset int
}

// Iter walks every rune of the document in order.
func (pt *PieceTable) Iter() *Iter {
	return &Iter{
		table:         pt,
		endPieceIndex: len(pt.pieces),
	}
}

// IterRange walks the runes in [start, end). Both bounds are classified to
// piece-relative coordinates up front, so the walk begins and terminates
// exactly at those pieces whether the bounds fall on piece boundaries or
// mid-piece. An empty or inverted range yields nothing, without error.
func (pt *PieceTable) IterRange(start, end int) (*Iter, error) {
	if start < 0 || start > pt.length || end > pt.length {
		return nil, ErrIndexOutOfRange
	}
	if pt.length == 0 || start >= end {
		return &Iter{table: pt}, nil
	}

	it := &Iter{table: pt}

	// start < end <= length, so neither bound classifies to the append
	// position.
	startLoc := pt.locateIndex(start)
	it.pieceIndex = startLoc.piece
	it.pieceOffset = startLoc.offset

	endLoc := pt.locateIndex(end - 1) // last rune of the range, inclusive
	it.endPieceIndex = endLoc.piece
	it.endPieceOffset = endLoc.offset + 1

	return it, nil
}

// Next returns the next rune of the range, or false when the range is
// exhausted.
func (it *Iter) Next() (rune, bool) {
	for {
		if it.pieceIndex == it.endPieceIndex && it.pieceOffset >= it.endPieceOffset {
			return 0, false
		}
		if it.pieceIndex >= len(it.table.pieces) {
			return 0, false
		}

		p := it.table.pieces[it.pieceIndex]
		if it.pieceOffset >= p.Length {
			it.pieceIndex++
			it.pieceOffset = 0
			continue
		}

		var r rune
		if p.Buffer == Original {
			r = it.table.original[p.Start+it.pieceOffset]
		} else {
			r = it.table.added[p.Start+it.pieceOffset]
		}
		it.pieceOffset++
		return r, true
	}
}

// Collect drains the iterator into a rune slice.
func (it *Iter) Collect() []rune {
	var runes []rune
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		runes = append(runes, r)
	}
	return runes
}
