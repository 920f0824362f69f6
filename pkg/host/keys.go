package host

import (
	"github.com/charmbracelet/bubbles/key"

	"gitlab.com/tinyland/lab/styled-switch/pkg/view"
)

// keyMap holds the host-level bindings. The switch's own toggle binding is
// shown alongside them in the help line.
type keyMap struct {
	Toggle  key.Binding
	Disable key.Binding
	Hide    key.Binding
	Style   key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func newKeyMap(sw view.KeyMap) keyMap {
	return keyMap{
		Toggle: sw.Toggle,
		Disable: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "disable"),
		),
		Hide: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "visibility"),
		),
		Style: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle fill"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Disable, k.Hide, k.Style, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
