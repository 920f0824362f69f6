// Package view renders a styled switch in the terminal and turns keyboard
// and mouse input into value changes.
//
// A Switch is mounted by the control with its initial state and one
// subscribe handle per aspect. Each handler only records the new state for
// its aspect and marks the switch dirty; the next View call re-renders.
package view

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/styled-switch/pkg/control"
	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
	"gitlab.com/tinyland/lab/styled-switch/pkg/snapshot"
	"gitlab.com/tinyland/lab/styled-switch/pkg/theme"
)

// Fallback size used while geometry is unresolved.
const (
	MinWidth  = 6
	MinHeight = 1
)

// Options configures mounted switches.
type Options struct {
	Theme theme.Theme
	Keys  KeyMap

	// Zones enables mouse hit testing. The host must pass its final frame
	// through Zones.Scan for clicks to register.
	Zones  *zone.Manager
	ZoneID string

	Logger *slog.Logger
}

// Switch is the mounted view. It implements control.View.
type Switch struct {
	th     theme.Theme
	keys   KeyMap
	zones  *zone.Manager
	zoneID string
	logger *slog.Logger

	value    snapshot.SwitchValue
	styles   snapshot.StyleBundle
	visible  bool
	disabled bool
	focused  bool

	onChange func(snapshot.SwitchValue)
	unsubs   []func()
	mounted  bool

	dirty    bool
	rendered string
	renders  map[snapshot.Aspect]int
}

// Factory returns a control.ViewFactory that mounts a Switch. onMount, if
// set, receives each mounted switch so the host can route input to it.
func Factory(opts Options, onMount func(*Switch)) control.ViewFactory {
	return func(container geometry.Element, props control.Props) (control.View, error) {
		sw := Mount(props, opts)
		if onMount != nil {
			onMount(sw)
		}
		return sw, nil
	}
}

// Mount creates a switch from props and subscribes it to every aspect.
func Mount(props control.Props, opts Options) *Switch {
	if opts.Theme.Name == "" {
		opts.Theme = theme.Default()
	}
	if len(opts.Keys.Toggle.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}
	if opts.ZoneID == "" {
		opts.ZoneID = "styled-switch"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sw := &Switch{
		th:       opts.Theme,
		keys:     opts.Keys,
		zones:    opts.Zones,
		zoneID:   opts.ZoneID,
		logger:   opts.Logger,
		value:    props.InitialValue,
		styles:   props.InitialStyles,
		visible:  props.InitialVisible,
		disabled: props.Disabled,
		onChange: props.OnValueChanged,
		mounted:  true,
		dirty:    true,
		renders:  make(map[snapshot.Aspect]int),
	}

	if props.Value != nil {
		sw.unsubs = append(sw.unsubs, props.Value.Subscribe(func(v snapshot.SwitchValue) error {
			sw.value = v
			sw.invalidate(snapshot.AspectValue)
			return nil
		}))
	}
	if props.Disable != nil {
		sw.unsubs = append(sw.unsubs, props.Disable.Subscribe(func(d bool) error {
			sw.disabled = d
			sw.invalidate(snapshot.AspectDisabled)
			return nil
		}))
	}
	if props.Visible != nil {
		sw.unsubs = append(sw.unsubs, props.Visible.Subscribe(func(v bool) error {
			sw.visible = v
			sw.invalidate(snapshot.AspectVisible)
			return nil
		}))
	}
	if props.Styles != nil {
		sw.unsubs = append(sw.unsubs, props.Styles.Subscribe(func(b snapshot.StyleBundle) error {
			sw.styles = b
			sw.invalidate(snapshot.AspectStyle)
			return nil
		}))
	}
	return sw
}

func (s *Switch) invalidate(a snapshot.Aspect) {
	s.dirty = true
	s.renders[a]++
	s.logger.Debug("view invalidated", "aspect", a.String())
}

// Unmount drops every subscription. Further input is ignored.
func (s *Switch) Unmount() {
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil
	s.onChange = nil
	s.mounted = false
}

// Mounted reports whether the switch is still mounted.
func (s *Switch) Mounted() bool { return s.mounted }

// Value returns the value the switch currently shows.
func (s *Switch) Value() snapshot.SwitchValue { return s.value }

// Styles returns the style bundle the switch currently renders with.
func (s *Switch) Styles() snapshot.StyleBundle { return s.styles }

// Visible reports whether the switch renders anything.
func (s *Switch) Visible() bool { return s.visible }

// Disabled reports whether input is ignored.
func (s *Switch) Disabled() bool { return s.disabled }

// Renders returns how many times each aspect invalidated the view.
func (s *Switch) Renders() map[snapshot.Aspect]int {
	out := make(map[snapshot.Aspect]int, len(s.renders))
	for k, v := range s.renders {
		out[k] = v
	}
	return out
}

// Focus makes the switch respond to key input.
func (s *Switch) Focus() { s.focused = true }

// Blur stops key handling.
func (s *Switch) Blur() { s.focused = false }

// Focused reports whether the switch has focus.
func (s *Switch) Focused() bool { return s.focused }

// Keys returns the key bindings, for help rendering.
func (s *Switch) Keys() KeyMap { return s.keys }

// Update handles input. Key presses toggle only while focused; a left click
// toggles when it lands inside the switch zone.
func (s *Switch) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.focused && key.Matches(msg, s.keys.Toggle) {
			s.Toggle()
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if s.zones == nil {
			return nil
		}
		if z := s.zones.Get(s.zoneID); z != nil && z.InBounds(msg) {
			s.Toggle()
		}
	}
	return nil
}

// Toggle flips the value as a user interaction would and reports it through
// OnValueChanged. It is a no-op while disabled, hidden or unmounted, and
// reports whether a toggle happened.
func (s *Switch) Toggle() bool {
	if !s.mounted || s.disabled || !s.visible {
		return false
	}
	s.value = s.value.Toggled()
	s.dirty = true
	if s.onChange != nil {
		s.onChange(s.value)
	}
	return true
}

// View renders the switch. The last frame is reused until an aspect
// changes.
func (s *Switch) View() string {
	if !s.dirty {
		return s.rendered
	}
	s.rendered = s.render()
	s.dirty = false
	return s.rendered
}

func (s *Switch) render() string {
	if !s.visible {
		return ""
	}

	width := s.styles.Width.Or(MinWidth)
	if width < MinWidth {
		width = MinWidth
	}
	height := s.styles.Height.Or(MinHeight)

	on := s.value.Bool()
	trackColor, handleColor := s.colors(on)

	handleW := width / 2
	trackW := width - handleW

	track := lipgloss.NewStyle().Background(trackColor)
	handle := lipgloss.NewStyle().Background(handleColor).Foreground(lipgloss.Color(s.th.Background))

	label := imageLabel(s.styles.HandleImage(on))
	mid := (height - 1) / 2

	lines := make([]string, height)
	for y := 0; y < height; y++ {
		text := ""
		if y == mid {
			text = label
		}
		knob := handle.Render(padCenter(text, handleW))
		bar := track.Render(strings.Repeat(" ", trackW))
		if on {
			lines[y] = bar + knob
		} else {
			lines[y] = knob + bar
		}
	}

	out := strings.Join(lines, "\n")
	if s.zones != nil {
		out = s.zones.Mark(s.zoneID, out)
	}
	return out
}

// colors resolves the track and handle colors. Fill references pass through
// to lipgloss unchanged; empty references fall back to the theme.
func (s *Switch) colors(on bool) (track, handle lipgloss.Color) {
	if s.disabled {
		return lipgloss.Color(s.th.Disabled), lipgloss.Color(s.th.Dim)
	}
	trackRef, handleRef := s.styles.TrackFill(on), s.styles.HandleFill(on)
	if trackRef == "" {
		trackRef = s.th.TrackOff
		if on {
			trackRef = s.th.TrackOn
		}
	}
	if handleRef == "" {
		handleRef = s.th.HandleOff
		if on {
			handleRef = s.th.HandleOn
		}
	}
	return lipgloss.Color(trackRef), lipgloss.Color(handleRef)
}
