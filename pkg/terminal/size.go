// Package terminal reports the size and capabilities of the terminal the
// host program runs in. The terminal window is the outermost element a
// mounted switch can fall back to when nothing else has a size.
package terminal

import (
	"os"
	"strconv"
)

// Size represents terminal dimensions in character cells.
type Size struct {
	Cols int // Character columns
	Rows int // Character rows
}

// GetSize returns the current terminal dimensions. It tries multiple
// strategies in order:
//  1. a size query on stdout
//  2. a size query on stderr (in case stdout is redirected)
//  3. COLUMNS/LINES environment variables
//  4. Fallback to 80x24
func GetSize() Size {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if s := querySize(fd); s.Cols > 0 && s.Rows > 0 {
			return s
		}
	}
	return getSizeFromEnv()
}

// GetSizeFromFd returns terminal size from a specific file descriptor.
// Falls back to environment variables and then 80x24 defaults if the
// query fails.
func GetSizeFromFd(fd uintptr) Size {
	if s := querySize(fd); s.Cols > 0 && s.Rows > 0 {
		return s
	}
	return getSizeFromEnv()
}

// getSizeFromEnv reads terminal dimensions from COLUMNS/LINES environment
// variables, falling back to 80x24 defaults.
func getSizeFromEnv() Size {
	cols := envInt("COLUMNS", 80)
	rows := envInt("LINES", 24)
	return Size{Cols: cols, Rows: rows}
}

// envInt reads an integer from the named environment variable. Returns
// the fallback value if the variable is unset, empty, or not a valid
// positive integer.
func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
