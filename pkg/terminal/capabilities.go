package terminal

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Capabilities is the cached terminal capability summary for the current
// session.
type Capabilities struct {
	Interactive bool            // stdin and stdout are both terminals
	Profile     termenv.Profile // color depth lipgloss renders with
	Size        Size            // Terminal dimensions
	SSH         bool            // Running over SSH
	Mux         bool            // Inside a multiplexer (tmux, screen, zellij)
}

var (
	mu     sync.Mutex // guards cached
	cached *Capabilities
)

// DetectCapabilities performs terminal detection on first use and caches
// the result. Safe to call from multiple goroutines; later calls return the
// cached value.
func DetectCapabilities() *Capabilities {
	mu.Lock()
	defer mu.Unlock()
	if cached == nil {
		cached = detect()
	}
	return cached
}

// refreshCapabilities re-detects and replaces the cached value.
func refreshCapabilities() *Capabilities {
	mu.Lock()
	defer mu.Unlock()
	cached = detect()
	return cached
}

// IsInteractive reports whether both ends of the program are attached to a
// terminal. Cygwin/MSYS ptys count as terminals.
func IsInteractive(in, out uintptr) bool {
	return isTerminal(in) && isTerminal(out)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// detect performs the actual detection work.
func detect() *Capabilities {
	tmux := os.Getenv("TMUX") != ""
	screen := os.Getenv("STY") != ""
	zellij := os.Getenv("ZELLIJ") != ""
	ssh := os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" || os.Getenv("SSH_CLIENT") != ""

	interactive := IsInteractive(os.Stdin.Fd(), os.Stdout.Fd())
	profile := termenv.Ascii
	if interactive {
		profile = termenv.NewOutput(os.Stdout).EnvColorProfile()
	}

	return &Capabilities{
		Interactive: interactive,
		Profile:     profile,
		Size:        GetSize(),
		SSH:         ssh,
		Mux:         tmux || screen || zellij,
	}
}
