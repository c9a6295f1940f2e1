package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/fivemoreminix/pted/ui"
	"github.com/gdamore/tcell/v2"
)

var theme = ui.Theme{}

func main() {
	s, e := tcell.NewScreen()
	if e != nil {
		fmt.Fprintf(os.Stderr, "%v\n", e)
		os.Exit(1)
	}
	if e := s.Init(); e != nil {
		fmt.Fprintf(os.Stderr, "%v\n", e)
		os.Exit(1)
	}
	defer s.Fini() // Useful for handling panics

	sizex, sizey := s.Size()

	// Not fatal on error: the internal clipboard takes over.
	_, _ = ClipInitialize(ClipExternal)

	// Load the file from the command line, if any. A missing file is an
	// empty document that saves to that path.
	var filePath, contents string
	if len(os.Args) > 1 {
		filePath = os.Args[1]
		bytes, err := os.ReadFile(filePath)
		if err == nil {
			contents = string(bytes)
		} else if !os.IsNotExist(err) {
			s.Fini()
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	textEdit := ui.NewTextEdit(&s, filePath, contents, &theme)
	textEdit.SetPos(0, 0)
	textEdit.SetSize(sizex, sizey-1)
	textEdit.SetFocused(true)

	save := func() {
		if len(textEdit.FilePath) > 0 {
			// Write the contents into the file, creating one if it does
			// not exist.
			err := os.WriteFile(textEdit.FilePath, []byte(textEdit.String()), fs.ModePerm)
			if err != nil {
				panic("Could not write file at path " + textEdit.FilePath)
			}
			textEdit.Dirty = false
		}
	}

main_loop:
	for {
		s.Clear()

		textEdit.Draw(s)
		drawStatusBar(s, textEdit, sizey)

		s.Show()

		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			sizex, sizey = s.Size()
			textEdit.SetSize(sizex, sizey-1)
			s.Sync() // Redraw everything
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlQ:
				break main_loop
			case tcell.KeyCtrlS:
				save()
			case tcell.KeyCtrlC:
				if selected := textEdit.GetSelectedString(); selected != "" {
					_ = ClipWrite(selected) // Add selected to clipboard
				}
			case tcell.KeyCtrlX:
				if selected := textEdit.GetSelectedString(); selected != "" {
					textEdit.Delete(false)  // Delete the selection
					_ = ClipWrite(selected) // Add selected to clipboard
				}
			case tcell.KeyCtrlV:
				contents, err := ClipRead()
				if err == nil {
					textEdit.Insert(contents)
				}
			default:
				textEdit.HandleEvent(ev)
			}
		}
	}
}

// drawStatusBar renders the bottom row: file name, a modified marker, and
// the cursor position.
func drawStatusBar(s tcell.Screen, te *ui.TextEdit, sizey int) {
	style := theme.GetOrDefault("StatusBar")
	sizex, _ := s.Size()

	ui.DrawRect(s, 0, sizey-1, sizex, 1, ' ', style)

	name := te.FilePath
	if name == "" {
		name = "noname"
	}
	if te.Dirty {
		name += " *"
	}
	ui.DrawStr(s, 1, sizey-1, name, style)

	line, col := te.GetCursor().GetLineCol()
	pos := fmt.Sprintf("Ln %d, Col %d", line+1, col+1)
	ui.DrawStr(s, sizex-len(pos)-1, sizey-1, pos, style)
}
