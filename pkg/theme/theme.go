// Package theme provides the color palettes used when a styled switch has no
// explicit fill references, plus the chrome colors of the host program.
package theme

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Theme defines the palette for the switch and its host frame.
type Theme struct {
	Name string

	// Base colors
	Background string // hex color e.g. "#1a1b26"
	Foreground string // hex color
	Dim        string // dimmed text
	Accent     string // highlights, focused borders

	// Frame colors
	Border      string // host frame border
	BorderFocus string // host frame border while the switch has focus

	// Switch defaults, used when a fill reference is empty
	TrackOn   string
	TrackOff  string
	HandleOn  string
	HandleOff string
	Disabled  string // track and handle color while disabled

	// Help line
	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Default returns the default theme.
func Default() Theme {
	return Get("default")
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register validates t and adds it to the registry, replacing any theme
// with the same (case-insensitive) name.
func Register(t Theme) error {
	if err := thValidateTheme(t); err != nil {
		return err
	}
	thRegister(t)
	return nil
}

// LoadFile reads a TOML theme file and registers it. The loaded theme is
// returned so callers can select it by name.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, err
	}
	thRegister(t)
	return t, nil
}

// thRegister adds a theme to the registry under its lowercase name.
func thRegister(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
