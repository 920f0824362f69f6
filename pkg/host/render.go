package host

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/styled-switch/pkg/theme"
)

const title = "styled-switch"

// View implements tea.Model. The switch sits inside a rounded frame with a
// title and a status row; the help line goes underneath. When mouse support
// is on, the whole frame is scanned so zone marks resolve to coordinates.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.th.Accent)).
		Render(title)

	inner := lipgloss.JoinVertical(lipgloss.Left, heading, m.in.sw.View(), m.status())

	borderColor := m.th.Border
	if m.in.sw.Focused() && !m.in.disabled {
		borderColor = m.th.BorderFocus
	}
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Render(inner)

	out := frame + "\n" + m.help.View(m.keys)
	if m.zones != nil {
		out = m.zones.Scan(out)
	}
	return out
}

// status summarizes what the switch currently shows.
func (m *Model) status() string {
	sw := m.in.sw
	parts := []string{
		"value " + sw.Value().String(),
		"size " + sw.Styles().Size().String(),
	}
	if sw.Disabled() {
		parts = append(parts, "disabled")
	}
	if !sw.Visible() {
		parts = append(parts, "hidden")
	}
	line := lipgloss.NewStyle().Foreground(lipgloss.Color(m.th.Dim)).Render(strings.Join(parts, " · "))

	if m.lastErr != nil {
		errLine := lipgloss.NewStyle().Foreground(lipgloss.Color(m.th.Accent)).
			Render(fmt.Sprintf("error: %v", m.lastErr))
		line = lipgloss.JoinVertical(lipgloss.Left, line, errLine)
	}
	return line
}

func helpStyles(th theme.Theme) help.Styles {
	s := help.New().Styles
	s.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(th.HelpKey))
	s.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(th.HelpDesc))
	s.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Dim))
	s.FullKey = s.ShortKey
	s.FullDesc = s.ShortDesc
	s.FullSeparator = s.ShortSeparator
	return s
}
