// Package host is a bubbletea program that hosts one styled switch. It plays
// the part of the embedding framework: it owns the property bag, lays out the
// container the switch mounts into, pushes snapshots through UpdateView, and
// reads the bound value back when the switch reports a change.
//
// The same lifecycle can be driven without a terminal through Replay.
package host

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickEvent is sent periodically by the refresh ticker. Every tick pushes a
// full snapshot to the control, whether or not anything changed.
type TickEvent struct {
	Time time.Time
}

// OutputChangedEvent is emitted after the control reports new output. The
// host answers it by reading the outputs back into the bag.
type OutputChangedEvent struct{}

// RenderRequestEvent is emitted when the control asks for another render
// pass because its first geometry resolution was incomplete.
type RenderRequestEvent struct{}

// TickCmd returns a bubbletea Cmd that sends a TickEvent after the given
// duration. This drives the periodic snapshot cycle.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
