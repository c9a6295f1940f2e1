package buffer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/zyedidia/rope"
)

// multiPieceTable builds a table whose content "ab012cd3" is interleaved
// between both backing buffers, the shape a table takes after scattered
// edits.
func multiPieceTable() *PieceTable {
	pt := NewPieceTable("abcd")
	pt.added = []rune("0123")
	pt.pieces = []Piece{
		pt.newPiece(Original, 0, 2),
		pt.newPiece(Added, 0, 3),
		pt.newPiece(Original, 2, 2),
		pt.newPiece(Added, 3, 1),
	}
	pt.length = len(pt.original) + len(pt.added)
	return pt
}

// checkInvariants asserts that piece lengths sum to the document length and
// that every piece's line-break offsets exactly match the '\n' runes in the
// span it references.
func checkInvariants(t *testing.T, pt *PieceTable) {
	t.Helper()

	sum := 0
	for i, p := range pt.pieces {
		sum += p.Length

		backing := pt.original
		if p.Buffer == Added {
			backing = pt.added
		}
		want := LineBreakOffsets(backing[p.Start : p.Start+p.Length])
		if !offsetsEqual(p.LineBreakOffsets, want) {
			t.Errorf("piece %v has offsets %v, want %v", i, p.LineBreakOffsets, want)
		}
	}

	if sum != pt.length {
		t.Errorf("piece lengths sum to %v, but length is %v", sum, pt.length)
	}
	if got := len([]rune(pt.AllContent())); got != pt.length {
		t.Errorf("AllContent has %v runes, but length is %v", got, pt.length)
	}
}

func TestNewPieceTable(t *testing.T) {
	pt := NewPieceTable("abcd")
	if pt.Len() != 4 {
		t.Errorf("Expected length 4, got %v", pt.Len())
	}
	if len(pt.pieces) != 1 {
		t.Errorf("Expected a single piece, got %v", len(pt.pieces))
	}

	empty := NewPieceTable("")
	if empty.Len() != 0 {
		t.Errorf("Expected length 0, got %v", empty.Len())
	}
	if len(empty.pieces) != 0 {
		t.Errorf("Expected no pieces for an empty document, got %v", len(empty.pieces))
	}
	if empty.AllContent() != "" {
		t.Errorf("Expected empty content, got %#v", empty.AllContent())
	}
}

func TestCachedInsertion(t *testing.T) {
	pt := NewPieceTable("abcd")

	must := func(err error) {
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}
	must(pt.Insert("0", 3))
	must(pt.Insert("1", 4))
	must(pt.Insert("2", 6))

	if got := pt.AllContent(); got != "abc01d2" {
		t.Errorf("Expected \"abc01d2\", got %#v", got)
	}
	checkInvariants(t, pt)
}

// A run of contiguous typing at the end of the document must keep extending
// one added piece rather than growing the piece list.
func TestSequentialTypingStaysInOnePiece(t *testing.T) {
	pt := NewPieceTable("abcd")

	pt.Insert("0", 4)
	pt.Insert("1", 5)
	pt.Insert("2", 6)

	if got := pt.AllContent(); got != "abcd012" {
		t.Errorf("Expected \"abcd012\", got %#v", got)
	}
	if len(pt.pieces) != 2 {
		t.Errorf("Expected 2 pieces (original + one extended), got %v", len(pt.pieces))
	}
	checkInvariants(t, pt)
}

func TestInsertHead(t *testing.T) {
	pt := NewPieceTable("abcd")

	pt.Insert("0", 0)
	if got := pt.AllContent(); got != "0abcd" {
		t.Errorf("Expected \"0abcd\", got %#v", got)
	}

	pt.Insert("1", 1)
	if got := pt.AllContent(); got != "01abcd" {
		t.Errorf("Expected \"01abcd\", got %#v", got)
	}

	pt.Insert("2", 0)
	if got := pt.AllContent(); got != "201abcd" {
		t.Errorf("Expected \"201abcd\", got %#v", got)
	}
	checkInvariants(t, pt)
}

func TestInsertBody(t *testing.T) {
	pt := NewPieceTable("abcd")

	pt.Insert("012", 2)
	if got := pt.AllContent(); got != "ab012cd" {
		t.Errorf("Expected \"ab012cd\", got %#v", got)
	}

	pt.Insert("3", 4)
	if got := pt.AllContent(); got != "ab0132cd" {
		t.Errorf("Expected \"ab0132cd\", got %#v", got)
	}
	checkInvariants(t, pt)
}

func TestInsertEnd(t *testing.T) {
	pt := NewPieceTable("abcd")

	pt.Insert("012", 4)
	if got := pt.AllContent(); got != "abcd012" {
		t.Errorf("Expected \"abcd012\", got %#v", got)
	}

	pt.Insert("3", 7)
	if got := pt.AllContent(); got != "abcd0123" {
		t.Errorf("Expected \"abcd0123\", got %#v", got)
	}
	checkInvariants(t, pt)
}

func TestInsertEmptyIsNoop(t *testing.T) {
	pt := NewPieceTable("abcd")

	if err := pt.Insert("", 2); err != nil {
		t.Fatalf("inserting nothing failed: %v", err)
	}
	if pt.Len() != 4 || pt.AllContent() != "abcd" {
		t.Errorf("Expected \"abcd\" unchanged, got %#v (length %v)", pt.AllContent(), pt.Len())
	}
}

func TestInsertOutOfRange(t *testing.T) {
	pt := NewPieceTable("abcd")

	if err := pt.Insert("x", 5); err != ErrIndexOutOfRange {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if err := pt.Insert("x", -1); err != ErrIndexOutOfRange {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if pt.AllContent() != "abcd" {
		t.Errorf("A failed insert must not change the document, got %#v", pt.AllContent())
	}
}

func TestIter(t *testing.T) {
	pt := multiPieceTable()

	if got := string(pt.Iter().Collect()); got != "ab012cd3" {
		t.Errorf("Expected \"ab012cd3\", got %#v", got)
	}

	empty := NewPieceTable("")
	if got := empty.Iter().Collect(); len(got) != 0 {
		t.Errorf("Expected nothing from an empty table, got %#v", string(got))
	}
}

func TestIterRange(t *testing.T) {
	pt := multiPieceTable() // "ab012cd3"

	ranges := []struct {
		start, end int
		want       string
	}{
		{1, 4, "b01"},
		{0, 5, "ab012"},
		{4, 8, "2cd3"},
		{0, 8, "ab012cd3"},
		{3, 4, "1"},
		{2, 2, ""},  // empty range
		{5, 3, ""},  // inverted range
		{8, 8, ""},  // at end of document
	}
	for _, r := range ranges {
		it, err := pt.IterRange(r.start, r.end)
		if err != nil {
			t.Fatalf("IterRange(%v, %v) failed: %v", r.start, r.end, err)
		}
		if got := string(it.Collect()); got != r.want {
			t.Errorf("IterRange(%v, %v) = %#v, want %#v", r.start, r.end, got, r.want)
		}
	}

	if _, err := pt.IterRange(0, 9); err != ErrIndexOutOfRange {
		t.Errorf("Expected ErrIndexOutOfRange for end past the document, got %v", err)
	}
	if _, err := pt.IterRange(-1, 3); err != ErrIndexOutOfRange {
		t.Errorf("Expected ErrIndexOutOfRange for negative start, got %v", err)
	}
}

func TestLineAt(t *testing.T) {
	assertLine := func(pt *PieceTable, idx int, want string) {
		t.Helper()
		line, err := pt.LineAt(idx)
		if err != nil {
			t.Fatalf("LineAt(%v) failed: %v", idx, err)
		}
		if got := line.String(); got != want {
			t.Errorf("LineAt(%v) = %#v, want %#v", idx, got, want)
		}
	}

	pt := NewPieceTable("ab")
	assertLine(pt, 0, "ab")
	pt.Insert("\nd0\n234567\n89", 2)
	assertLine(pt, 0, "ab")
	assertLine(pt, 1, "d0")
	assertLine(pt, 2, "234567")
	assertLine(pt, 3, "89")

	pt.Insert("\n", 14)
	assertLine(pt, 3, "8")
	assertLine(pt, 4, "9")

	// Extending a piece must keep its breaks aligned with its content.
	pt = NewPieceTable("abcd")
	pt.Insert("\n", 2)
	pt.Insert("c", 2)
	pt.Insert("c", 3)
	assertLine(pt, 0, "abcc")
	assertLine(pt, 1, "cd")

	// Single piece containing breaks.
	pt = NewPieceTable("abcd\nef")
	assertLine(pt, 0, "abcd")
	assertLine(pt, 1, "ef")

	// Line in the middle of a multi-piece table, where the start of the
	// next line falls in the same piece.
	pt = NewPieceTable("abcd\nef\nhi")
	pt.Insert("\njk", 10)
	assertLine(pt, 1, "ef")
	assertLine(pt, 3, "jk")
}

// Splitting a piece on either side of its line break and reinserting must
// not leak stale break offsets into the halves.
func TestLineAtAfterSplitAndReinsert(t *testing.T) {
	pt := NewPieceTable("abcd")
	pt.Insert("\n", 2)

	assertLines := func() {
		t.Helper()
		for i, want := range []string{"ab", "cd"} {
			line, err := pt.LineAt(i)
			if err != nil {
				t.Fatalf("LineAt(%v) failed: %v", i, err)
			}
			if got := line.String(); got != want {
				t.Errorf("LineAt(%v) = %#v, want %#v", i, got, want)
			}
		}
	}
	assertLines()

	pt.RemoveRange(2, 3)
	pt.Insert("\n", 2)
	assertLines()
	checkInvariants(t, pt)
}

func TestLineAtTrailingNewline(t *testing.T) {
	pt := NewPieceTable("ab\n")

	if got := pt.LineCount(); got != 2 {
		t.Fatalf("Expected 2 lines, got %v", got)
	}
	line, err := pt.LineAt(1)
	if err != nil {
		t.Fatalf("LineAt(1) failed: %v", err)
	}
	if line.Len() != 0 {
		t.Errorf("Expected the trailing line to be empty, got %#v", line.String())
	}
	if line.StartIndex != 3 {
		t.Errorf("Expected the trailing line to start at 3, got %v", line.StartIndex)
	}
}

func TestLineAtOutOfRange(t *testing.T) {
	pt := NewPieceTable("ab\ncd")

	if _, err := pt.LineAt(2); err != ErrLineOutOfRange {
		t.Errorf("Expected ErrLineOutOfRange, got %v", err)
	}
	if _, err := pt.LineAt(-1); err != ErrLineOutOfRange {
		t.Errorf("Expected ErrLineOutOfRange, got %v", err)
	}
}

func TestLineCount(t *testing.T) {
	pt := NewPieceTable("ab\nd")
	pt.Insert("0\n2", 4)

	if got := pt.LineCount(); got != 3 {
		t.Errorf("Expected 3 lines, got %v", got)
	}

	if got := NewPieceTable("").LineCount(); got != 1 {
		t.Errorf("Expected 1 line for an empty document, got %v", got)
	}
}

func TestRemoveHead(t *testing.T) {
	pt := multiPieceTable() // "ab012cd3"

	pt.RemoveAt(0)
	if got := pt.AllContent(); got != "b012cd3" {
		t.Errorf("Expected \"b012cd3\", got %#v", got)
	}

	pt.RemoveRange(0, 3)
	if got := pt.AllContent(); got != "2cd3" {
		t.Errorf("Expected \"2cd3\", got %#v", got)
	}
	checkInvariants(t, pt)
}

func TestRemoveBody(t *testing.T) {
	pt := multiPieceTable() // "ab012cd3"

	pt.RemoveAt(3)
	if got := pt.AllContent(); got != "ab02cd3" {
		t.Errorf("Expected \"ab02cd3\", got %#v", got)
	}

	pt.RemoveRange(1, 6)
	if got := pt.AllContent(); got != "a3" {
		t.Errorf("Expected \"a3\", got %#v", got)
	}
	checkInvariants(t, pt)
}

func TestRemoveTail(t *testing.T) {
	pt := multiPieceTable() // "ab012cd3"

	pt.RemoveAt(1)
	if got := pt.AllContent(); got != "a012cd3" {
		t.Errorf("Expected \"a012cd3\", got %#v", got)
	}
	checkInvariants(t, pt)
}

// Removing a line break from a piece's tail must drop the corresponding
// break offset with it.
func TestRemoveLineBreakFromTail(t *testing.T) {
	pt := NewPieceTable("abcd\n")
	pt.added = []rune("0123")
	pt.pieces = []Piece{
		pt.newPiece(Original, 0, 2),
		pt.newPiece(Added, 0, 3),
		pt.newPiece(Original, 2, 3), // "cd\n"
		pt.newPiece(Added, 3, 1),
	}
	pt.length = len(pt.original) + len(pt.added) // "ab012cd\n3"

	pt.RemoveRange(7, 8)

	line, err := pt.LineAt(0)
	if err != nil {
		t.Fatalf("LineAt(0) failed: %v", err)
	}
	if got := line.String(); got != "ab012cd3" {
		t.Errorf("Expected \"ab012cd3\", got %#v", got)
	}
	if got := pt.LineCount(); got != 1 {
		t.Errorf("Expected 1 line, got %v", got)
	}
	checkInvariants(t, pt)
}

func TestRemoveEmptyRangeIsNoop(t *testing.T) {
	pt := NewPieceTable("abcd")

	if err := pt.RemoveRange(2, 2); err != nil {
		t.Fatalf("removing an empty range failed: %v", err)
	}
	if err := pt.RemoveRange(3, 1); err != nil {
		t.Fatalf("removing an inverted range failed: %v", err)
	}
	if pt.Len() != 4 || pt.AllContent() != "abcd" {
		t.Errorf("Expected \"abcd\" unchanged, got %#v (length %v)", pt.AllContent(), pt.Len())
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	pt := NewPieceTable("abcd")

	if err := pt.RemoveAt(4); err != ErrIndexOutOfRange {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if err := pt.RemoveAt(-1); err != ErrIndexOutOfRange {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if err := pt.RemoveRange(2, 5); err != ErrIndexOutOfRange {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if pt.AllContent() != "abcd" {
		t.Errorf("A failed removal must not change the document, got %#v", pt.AllContent())
	}
}

// Sequential backspacing from the end of a typing run must keep shrinking
// pieces in place without ever splitting one.
func TestSequentialBackspace(t *testing.T) {
	pt := NewPieceTable("hello world")

	for i := pt.Len() - 1; i >= 6; i-- {
		if err := pt.RemoveAt(i); err != nil {
			t.Fatalf("RemoveAt(%v) failed: %v", i, err)
		}
	}

	if got := pt.AllContent(); got != "hello " {
		t.Errorf("Expected \"hello \", got %#v", got)
	}
	if len(pt.pieces) != 1 {
		t.Errorf("Expected the original piece only, got %v pieces", len(pt.pieces))
	}
	checkInvariants(t, pt)
}

// Joining every line with the breaks reinserted must reconstruct the
// document exactly.
func TestLinesReconstructDocument(t *testing.T) {
	docs := []string{
		"",
		"abc",
		"abc\n",
		"\n\n\n",
		"one\ntwo\nthree",
		"mixed\r\nendings\r\nstay\n",
	}
	for _, doc := range docs {
		pt := NewPieceTable(doc)
		pt.Insert("x\ny", 0)
		pt.RemoveRange(0, 3)

		var lines []string
		for i := 0; i < pt.LineCount(); i++ {
			line, err := pt.LineAt(i)
			if err != nil {
				t.Fatalf("LineAt(%v) failed: %v", i, err)
			}
			lines = append(lines, line.String())
		}

		if got := strings.Join(lines, "\n"); got != pt.AllContent() {
			t.Errorf("Joined lines %#v do not reconstruct %#v", got, pt.AllContent())
		}
	}
}

// editScript drives the same pseudo-random edits against any set of
// appliers.
type editOp struct {
	insert bool
	text   string
	start  int
	end    int
}

func randomEditScript(rng *rand.Rand, ops int) []editOp {
	const chars = "abcdefghij \n"

	script := make([]editOp, 0, ops)
	length := 0
	for i := 0; i < ops; i++ {
		// Bias toward insertion so documents grow, with occasional bursts
		// of sequential typing to exercise the change records.
		if length == 0 || rng.Intn(10) < 6 {
			n := 1 + rng.Intn(8)
			var sb strings.Builder
			for j := 0; j < n; j++ {
				sb.WriteByte(chars[rng.Intn(len(chars))])
			}
			at := rng.Intn(length + 1)
			if rng.Intn(4) == 0 {
				at = length // append, the common case of typing at the end
			}
			script = append(script, editOp{insert: true, text: sb.String(), start: at})
			length += n
		} else {
			start := rng.Intn(length)
			most := length - start
			if most > 6 {
				most = 6
			}
			end := start + 1 + rng.Intn(most)
			script = append(script, editOp{start: start, end: end})
			length -= end - start
		}
	}
	return script
}

// The primary oracle: any sequence of edits applied to the piece table must
// agree with the same edits applied to a naive spliced string and to an
// independent rope implementation.
func TestRandomEditsMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		pt := NewPieceTable("hello\nworld")
		uncached := NewPieceTable("hello\nworld")
		uncached.noCache = true

		reference := []rune("hello\nworld")
		oracle := rope.New([]byte("hello\nworld")) // ASCII only: byte == rune

		for _, op := range randomEditScript(rng, 100) {
			if op.insert {
				if err := pt.Insert(op.text, op.start); err != nil {
					t.Fatalf("Insert(%#v, %v) failed: %v", op.text, op.start, err)
				}
				if err := uncached.Insert(op.text, op.start); err != nil {
					t.Fatalf("uncached Insert(%#v, %v) failed: %v", op.text, op.start, err)
				}

				tail := append([]rune{}, reference[op.start:]...)
				reference = append(reference[:op.start], []rune(op.text)...)
				reference = append(reference, tail...)

				oracle.Insert(op.start, []byte(op.text))
			} else {
				if err := pt.RemoveRange(op.start, op.end); err != nil {
					t.Fatalf("RemoveRange(%v, %v) failed: %v", op.start, op.end, err)
				}
				if err := uncached.RemoveRange(op.start, op.end); err != nil {
					t.Fatalf("uncached RemoveRange(%v, %v) failed: %v", op.start, op.end, err)
				}

				reference = append(reference[:op.start], reference[op.end:]...)
				oracle.Remove(op.start, op.end)
			}

			if got, want := pt.AllContent(), string(reference); got != want {
				t.Fatalf("round %v: content %#v, reference %#v", round, got, want)
			}
			if got, want := pt.AllContent(), string(oracle.Value()); got != want {
				t.Fatalf("round %v: content %#v, rope oracle %#v", round, got, want)
			}
			if got, want := pt.AllContent(), uncached.AllContent(); got != want {
				t.Fatalf("round %v: cached path %#v, structural path %#v", round, got, want)
			}
			if pt.Len() != len(reference) {
				t.Fatalf("round %v: length %v, reference %v", round, pt.Len(), len(reference))
			}
		}

		checkInvariants(t, pt)
		checkInvariants(t, uncached)

		// The line structure must agree with a plain count of the breaks.
		breaks := strings.Count(string(reference), "\n")
		if got := pt.LineCount(); got != breaks+1 {
			t.Errorf("round %v: LineCount %v, want %v", round, got, breaks+1)
		}
	}
}
