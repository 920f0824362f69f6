//go:build unix

package terminal

import "golang.org/x/sys/unix"

// querySize asks the terminal driver for the window size via TIOCGWINSZ.
// Returns a zero-value Size on failure.
func querySize(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}
	}
	return Size{Cols: int(ws.Col), Rows: int(ws.Row)}
}
