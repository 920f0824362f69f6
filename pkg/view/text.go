package view

import (
	"path"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// visibleLen returns the visible width of s in terminal cells, ignoring ANSI
// escape sequences and counting wide characters as two cells.
func visibleLen(s string) int {
	return ansi.StringWidth(s)
}

// padCenter pads s with spaces on both sides so that it is centered within
// width. If the padding is odd, the extra space goes on the right. Wider
// strings are truncated to width.
func padCenter(s string, width int) string {
	if width <= 0 {
		return ""
	}
	vis := visibleLen(s)
	if vis > width {
		return ansi.Truncate(s, width, "")
	}
	total := width - vis
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// imageLabel turns an opaque image reference into a short handle label: the
// base name without extension. References are never fetched or decoded.
func imageLabel(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	base := path.Base(ref)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
