// Package ansi provides the terminal control sequences used by the progress
// renderer: cursor movement, line clearing, cursor visibility and a fixed
// foreground color palette.
package ansi

import "strconv"

// ANSI escape codes for cursor visibility, screen and line clearing.
const (
	Escape      = "\033["
	HideCursor  = Escape + "?25l"
	ShowCursor  = Escape + "?25h"
	ClearLine   = Escape + "K"  // clear from cursor to end of line
	ClearScreen = Escape + "2J" // clear screen, cursor position unchanged
)

// Foreground color palette.
const (
	Black        = Escape + "30m"
	Red          = Escape + "31m"
	Green        = Escape + "32m"
	Yellow       = Escape + "33m"
	Blue         = Escape + "34m"
	Magenta      = Escape + "35m"
	Cyan         = Escape + "36m"
	LightGray    = Escape + "37m"
	DarkGray     = Escape + "90m"
	LightRed     = Escape + "91m"
	LightGreen   = Escape + "92m"
	LightYellow  = Escape + "93m"
	LightBlue    = Escape + "94m"
	LightMagenta = Escape + "95m"
	LightCyan    = Escape + "96m"
	White        = Escape + "97m"
	Reset        = Escape + "0m"
)

// MoveTo positions the cursor at the 1-based row and column.
func MoveTo(row, col int) string {
	return Escape + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

// CursorUp moves the cursor up n lines. It returns an empty string for
// n <= 0: terminals treat a zero count as one.
func CursorUp(n int) string {
	return move(n, 'A')
}

// CursorDown moves the cursor down n lines.
func CursorDown(n int) string {
	return move(n, 'B')
}

// CursorForward moves the cursor right n columns.
func CursorForward(n int) string {
	return move(n, 'C')
}

// CursorBackward moves the cursor left n columns.
func CursorBackward(n int) string {
	return move(n, 'D')
}

func move(n int, dir byte) string {
	if n <= 0 {
		return ""
	}
	return Escape + strconv.Itoa(n) + string(dir)
}

