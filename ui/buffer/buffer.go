package buffer

import "errors"

// Errors reported by TextBuffer implementations. The editor treats a non-nil
// error from the buffer as a programming bug (bad cursor arithmetic), not a
// recoverable condition: operations fail fast instead of clamping, because a
// silently clamped edit would break the invariant that piece lengths sum to
// the document length.
var (
	ErrIndexOutOfRange = errors.New("buffer: index out of range")
	ErrLineOutOfRange  = errors.New("buffer: line out of range")
)

// A TextBuffer is an editable sequence of runes addressed by zero-based
// logical index, independent of how the runes are stored. All operations are
// synchronous and complete before returning; a TextBuffer is not safe for
// concurrent use.
//
// Inserting an empty string and removing an empty or inverted range are
// benign no-ops. Every other out-of-range index or range is an error.
type TextBuffer interface {
	// Insert places text before the rune at logical index at. at may equal
	// Len(), which appends. Len() grows by the number of runes in text.
	Insert(text string, at int) error

	// RemoveAt removes the single rune at the given logical index.
	RemoveAt(index int) error

	// RemoveRange removes the runes in [start, end).
	RemoveRange(start, end int) error

	// LineAt returns the 0-based line at the given index. Line boundaries
	// are '\n' runes, which are not part of any line's content. Only '\n'
	// is recognized: a CRLF document keeps its '\r' runes as ordinary
	// content.
	LineAt(line int) (Line, error)

	// LineCount reports the number of lines. It is always at least 1, even
	// for an empty buffer.
	LineCount() int

	// Len reports the number of runes in the buffer.
	Len() int

	// AllContent materializes the whole document as a string. Used for
	// saving and little else; never call it per keystroke.
	AllContent() string

	// Iter walks every rune of the document in order.
	Iter() *Iter

	// IterRange walks the runes in [start, end).
	IterRange(start, end int) (*Iter, error)
}

// A Line is a view of one line of a TextBuffer, materialized on request.
// StartIndex is the logical index of its first rune; Content excludes the
// trailing line break.
type Line struct {
	StartIndex int
	Content    []rune
}

// Len returns the number of runes in the line.
func (l Line) Len() int {
	return len(l.Content)
}

func (l Line) String() string {
	return string(l.Content)
}
