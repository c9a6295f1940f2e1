package main

import "github.com/zyedidia/clipboard"

type ClipMethod uint8

const (
	// ClipExternal is the system clipboard.
	ClipExternal ClipMethod = iota
	// ClipInternal is an in-process fallback for when no system clipboard
	// is available (e.g. a headless session).
	ClipInternal
)

var ClipCurrentMethod ClipMethod

var internalClipboard string

// ClipInitialize will initialize the clipboard for the given method first,
// and if that fails, the internal method is chosen, instead. The method
// chosen is returned along with any error that occurred while selecting it.
// The error is not fatal because the internal method always works.
func ClipInitialize(m ClipMethod) (ClipMethod, error) {
	if m == ClipExternal {
		if err := clipboard.Initialize(); err != nil {
			ClipCurrentMethod = ClipInternal
			return ClipInternal, err
		}
	}
	ClipCurrentMethod = m
	return m, nil
}

// ClipRead receives the clipboard contents using the ClipCurrentMethod.
func ClipRead() (string, error) {
	if ClipCurrentMethod == ClipExternal {
		return clipboard.ReadAll("clipboard")
	}
	return internalClipboard, nil
}

// ClipWrite sets the clipboard contents using the ClipCurrentMethod.
func ClipWrite(content string) error {
	if ClipCurrentMethod == ClipExternal {
		return clipboard.WriteAll(content, "clipboard")
	}
	internalClipboard = content
	return nil
}
