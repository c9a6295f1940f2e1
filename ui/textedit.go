package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fivemoreminix/pted/ui/buffer"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// TextEdit is a field for line-based editing. It owns the text buffer, the
// cursor, and the viewport scroll, and maps key events onto buffer edits.
type TextEdit struct {
	Buffer      buffer.TextBuffer
	LineNumbers bool   // Whether to render line numbers (and therefore the column)
	Dirty       bool   // Whether the buffer has been edited since loading or saving
	UseHardTabs bool   // When true, tabs are '\t'
	TabSize     int    // How many cells a tab occupies on screen
	FilePath    string // Will be empty if the file has not been saved yet

	screen           *tcell.Screen // We keep our own reference to the screen for cursor purposes.
	cursor           buffer.Cursor
	scrollx, scrolly int // X and Y offset of view, known as scroll

	selection  buffer.Region // Selection: selectMode determines if it should be used
	selectMode bool          // Whether the user is actively selecting text

	baseComponent
}

// NewTextEdit initializes a buffer with the given contents. If filePath is
// empty, the TextEdit has no file association yet.
func NewTextEdit(screen *tcell.Screen, filePath, contents string, theme *Theme) *TextEdit {
	te := &TextEdit{
		LineNumbers: true,
		UseHardTabs: true,
		TabSize:     4,
		FilePath:    filePath,

		screen:        screen,
		baseComponent: baseComponent{theme: theme},
	}
	te.SetContents(contents)
	return te
}

// SetContents replaces the internal buffer with a fresh one over the string,
// resetting the cursor and any selection.
func (t *TextEdit) SetContents(contents string) {
	t.Buffer = buffer.NewPieceTable(contents)
	t.cursor = buffer.NewCursor(t.Buffer)
	t.selectMode = false
	t.scrollx, t.scrolly = 0, 0
}

// String returns the full contents of the buffer. Copies everything: meant
// for saving, not for per-frame use.
func (t *TextEdit) String() string {
	return t.Buffer.AllContent()
}

// must surfaces a buffer error as the bug it is. The buffer fails fast on any
// out-of-range index, and an index computed from our own cursor should never
// be out of range.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Insert writes contents at the cursor position, advancing the cursor past
// what was written. '\t' honors the soft-tab setting and '\b' deletes
// backward; any other control character is inserted as ordinary content.
// Overwrites any active selection.
func (t *TextEdit) Insert(contents string) {
	t.Dirty = true

	if t.selectMode { // If there is a selection...
		t.Delete(true) // ...replace it (the parameter doesn't matter here)
	}

	for _, r := range contents {
		switch r {
		case '\b':
			t.Delete(false)
		case '\t':
			if !t.UseHardTabs { // This file indents with spaces
				t.insertRunes([]rune(strings.Repeat(" ", t.TabSize)))
				continue
			}
			fallthrough
		default:
			t.insertRunes([]rune{r})
		}
	}

	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// insertRunes inserts the runes at the cursor's logical index and moves the
// cursor to rest after them.
func (t *TextEdit) insertRunes(runes []rune) {
	must(t.Buffer.Insert(string(runes), t.cursor.Index()))

	line, col := t.cursor.GetLineCol()
	for _, r := range runes {
		if r == '\n' {
			line, col = line+1, 0
		} else {
			col++
		}
	}
	t.cursor = t.cursor.SetLineCol(line, col)
}

// Delete with forwards false will backspace, destroying the rune before the
// cursor, while Delete with forwards true will delete the rune at the
// cursor. When a selection is active, the whole selection is removed instead
// and forwards is ignored.
func (t *TextEdit) Delete(forwards bool) {
	t.Dirty = true

	if t.selectMode { // If text is selected, delete the whole selection
		t.selectMode = false

		start, end := t.selection.Ordered()
		must(t.Buffer.RemoveRange(start.Index(), end.Index()))
		t.cursor = start // Nothing before the selection moved
	} else if forwards {
		idx := t.cursor.Index()
		if idx < t.Buffer.Len() { // Not at the very end of the buffer
			must(t.Buffer.RemoveAt(idx))
		}
	} else {
		idx := t.cursor.Index()
		if idx > 0 { // Not at the very beginning of the buffer
			t.cursor = t.cursor.Left() // Back up onto that rune first
			must(t.Buffer.RemoveAt(idx - 1))
		}
	}

	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// GetSelectedString returns the text of the active selection, or the empty
// string when nothing is selected.
func (t *TextEdit) GetSelectedString() string {
	if !t.selectMode {
		return ""
	}
	start, end := t.selection.Ordered()
	it, err := t.Buffer.IterRange(start.Index(), end.Index())
	must(err)
	return string(it.Collect())
}

func (t *TextEdit) GetCursor() buffer.Cursor {
	return t.cursor
}

func (t *TextEdit) SetCursor(newCursor buffer.Cursor) {
	t.cursor = newCursor
	t.updateCursorVisibility()
}

// getColumnWidth returns the width of the line numbers column if it is present.
func (t *TextEdit) getColumnWidth() int {
	var columnWidth int
	if t.LineNumbers {
		// Set columnWidth to max count of line number digits
		columnWidth = Max(3, 1+len(strconv.Itoa(t.Buffer.LineCount())))
	}
	return columnWidth
}

// displayCol converts a column of the given line to a display column,
// accounting for wide runes and tab expansion before it.
func (t *TextEdit) displayCol(line, col int) int {
	ln, err := t.Buffer.LineAt(line)
	must(err)

	var width int
	for i, r := range ln.Content {
		if i >= col {
			break
		}
		if r == '\t' {
			width += t.TabSize
		} else {
			width += runewidth.RuneWidth(r)
		}
	}
	return width
}

// updateCursorVisibility sets the position of the terminal's cursor with the
// cursor of the TextEdit. Sends a signal to show the cursor if the TextEdit
// is focused and not in select mode.
func (t *TextEdit) updateCursorVisibility() {
	if t.focused && !t.selectMode {
		columnWidth := t.getColumnWidth()
		line, col := t.cursor.GetLineCol()
		(*t.screen).ShowCursor(t.x+columnWidth+t.displayCol(line, col)-t.scrollx, t.y+line-t.scrolly)
	}
}

// ScrollToCursor scrolls the view if the cursor is out of it — just enough
// to bring it back in.
func (t *TextEdit) ScrollToCursor() {
	line, col := t.cursor.GetLineCol()

	if line >= t.scrolly+t.height-1 { // If the cursor is below view...
		t.scrolly = line - t.height + 1
	} else if line < t.scrolly { // If the cursor is above view...
		t.scrolly = line
	}

	columnWidth := t.getColumnWidth()
	dcol := t.displayCol(line, col)

	if dcol >= t.scrollx+(t.width-columnWidth-1) { // If the cursor is right of view...
		t.scrollx = dcol - (t.width - columnWidth) + 1
	} else if dcol < t.scrollx { // If the cursor is left of view...
		t.scrollx = dcol
	}
}

// Draw renders the TextEdit component.
func (t *TextEdit) Draw(s tcell.Screen) {
	columnWidth := t.getColumnWidth()
	bufferLines := t.Buffer.LineCount()

	defaultStyle := t.theme.GetOrDefault("TextEdit")
	selectedStyle := t.theme.GetOrDefault("TextEditSelected")
	columnStyle := t.theme.GetOrDefault("TextEditColumn")

	DrawRect(s, t.x+columnWidth, t.y, t.width-columnWidth, t.height, ' ', defaultStyle)

	selStart, selEnd := -1, -1 // Logical index range of the selection
	if t.selectMode {
		start, end := t.selection.Ordered()
		selStart, selEnd = start.Index(), end.Index()
	}

	for lineY := t.y; lineY < t.y+t.height; lineY++ { // For each line we can draw...
		line := lineY + t.scrolly - t.y // The line number being drawn (starts at zero)

		lineNumStr := "" // Line number as a string

		if line < bufferLines { // Only index the buffer if we are within it...
			lineNumStr = strconv.Itoa(line + 1)

			ln, err := t.Buffer.LineAt(line)
			must(err)

			col := -t.scrollx // Display column, relative to the text area
			for i, r := range ln.Content {
				w := runewidth.RuneWidth(r)
				if r == '\t' {
					w = t.TabSize
				}

				if col >= 0 && col+w <= t.width-columnWidth {
					style := defaultStyle
					if idx := ln.StartIndex + i; idx >= selStart && idx < selEnd {
						style = selectedStyle
					}

					if r == '\t' {
						DrawRect(s, t.x+columnWidth+col, lineY, w, 1, ' ', style)
					} else {
						s.SetContent(t.x+columnWidth+col, lineY, r, nil, style)
					}
				}

				col += w
			}
		}

		columnStr := fmt.Sprintf("%s%s│", strings.Repeat(" ", columnWidth-len(lineNumStr)-1), lineNumStr) // Right align line number

		DrawStr(s, t.x, lineY, columnStr, columnStyle) // Draw column
	}

	t.updateCursorVisibility()
}

// SetFocused sets whether the TextEdit is focused. When focused, the cursor is set visible
// and its position is updated on every event.
func (t *TextEdit) SetFocused(v bool) {
	t.focused = v
	if v {
		t.updateCursorVisibility()
	} else {
		(*t.screen).HideCursor()
	}
}

// startOrGrowSelection enters select mode with the anchor at the current
// cursor if not already selecting. The head follows the cursor afterwards.
func (t *TextEdit) startOrGrowSelection() {
	if !t.selectMode {
		t.selectMode = true
		t.selection = buffer.Region{Anchor: t.cursor, Head: t.cursor}
	}
}

// HandleEvent allows the TextEdit to handle `event` if it chooses, returns
// whether the TextEdit handled the event.
func (t *TextEdit) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		shift := ev.Modifiers()&tcell.ModShift != 0

		moveCursor := func(to buffer.Cursor) {
			if shift {
				t.startOrGrowSelection()
				t.SetCursor(to)
				t.selection.Head = t.cursor
			} else {
				t.selectMode = false
				t.SetCursor(to)
			}
			t.ScrollToCursor()
		}

		switch ev.Key() {
		// Cursor movement
		case tcell.KeyUp:
			moveCursor(t.cursor.Up())
		case tcell.KeyDown:
			moveCursor(t.cursor.Down())
		case tcell.KeyLeft:
			moveCursor(t.cursor.Left())
		case tcell.KeyRight:
			moveCursor(t.cursor.Right())
		case tcell.KeyHome:
			cursLine, _ := t.cursor.GetLineCol()
			moveCursor(t.cursor.SetLineCol(cursLine, 0))
		case tcell.KeyEnd:
			cursLine, _ := t.cursor.GetLineCol()
			moveCursor(t.cursor.SetLineCol(cursLine, math.MaxInt32)) // Max column
		case tcell.KeyPgUp:
			_, cursCol := t.cursor.GetLineCol()
			moveCursor(t.cursor.SetLineCol(t.scrolly-t.height, cursCol)) // Go a page up
		case tcell.KeyPgDn:
			_, cursCol := t.cursor.GetLineCol()
			moveCursor(t.cursor.SetLineCol(t.scrolly+t.height*2-1, cursCol)) // Go a page down

		// Deleting
		case tcell.KeyBackspace:
			fallthrough
		case tcell.KeyBackspace2:
			t.Delete(false)
		case tcell.KeyDelete:
			t.Delete(true)

		// Other control
		case tcell.KeyTab:
			t.Insert("\t") // (can translate to spaces)
		case tcell.KeyEnter:
			t.Insert("\n")

		// Inserting
		case tcell.KeyRune:
			t.Insert(string(ev.Rune())) // Insert rune
		default:
			return false
		}
		return true
	}
	return false
}
