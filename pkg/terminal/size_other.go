//go:build !unix

package terminal

import "github.com/charmbracelet/x/term"

// querySize uses the portable console API. Returns a zero-value Size on
// failure.
func querySize(fd uintptr) Size {
	w, h, err := term.GetSize(fd)
	if err != nil {
		return Size{}
	}
	return Size{Cols: w, Rows: h}
}
