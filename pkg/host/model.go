package host

import (
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/styled-switch/pkg/config"
	"gitlab.com/tinyland/lab/styled-switch/pkg/control"
	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
	"gitlab.com/tinyland/lab/styled-switch/pkg/session"
	"gitlab.com/tinyland/lab/styled-switch/pkg/snapshot"
	"gitlab.com/tinyland/lab/styled-switch/pkg/terminal"
	"gitlab.com/tinyland/lab/styled-switch/pkg/theme"
	"gitlab.com/tinyland/lab/styled-switch/pkg/view"
)

// Rows and columns the frame takes around the container: a rounded border
// with one column of padding, a title row, a status row and the help line.
const (
	chromeCols = 4
	chromeRows = 5
)

// Default allocation when the config leaves it at zero.
const (
	defaultAllocHeight = 3
	allocWidthDivisor  = 3
)

const defaultRefresh = 500 * time.Millisecond

// fillCycle is the set of true-track fills the style key steps through.
var fillCycle = []string{"#34c759", "#0a84ff", "#ff9f0a", "#bf5af2", ""}

// Model is the root bubbletea model. It hosts a single styled switch.
type Model struct {
	hostCfg config.HostConfig
	th      theme.Theme
	logger  *slog.Logger

	in     *instance
	screen *geometry.Box
	store  *session.Store
	zones  *zone.Manager

	keys  keyMap
	help  help.Model
	fills []string
	fill  int

	lastErr  error
	quitting bool
}

// New builds the model and mounts the control. The screen size seeds the
// container until the first WindowSizeMsg arrives. store may be nil, in
// which case nothing is persisted.
func New(cfg *config.Config, th theme.Theme, screen terminal.Size, store *session.Store, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("instance", cfg.Host.InstanceID)

	bag := cfg.Properties.Bag()
	state := map[string]any{}
	if store != nil {
		loaded, err := store.Load(cfg.Host.InstanceID)
		if err != nil {
			logger.Warn("session state unavailable", "error", err)
		} else {
			state = loaded
		}
		if v, ok := state[control.PropValue]; ok {
			bag[control.PropValue] = v
		}
	}

	scr := &geometry.Box{Width: screen.Cols, Height: screen.Rows}
	m := &Model{
		hostCfg: cfg.Host,
		th:      th,
		logger:  logger,
		in:      newInstance(bag, &geometry.Box{Up: scr}, logger),
		screen:  scr,
		store:   store,
		help:    help.New(),
	}
	m.in.disabled = cfg.Properties.Disabled
	m.in.hidden = cfg.Properties.Hidden
	m.fills, m.fill = fillsFrom(control.ParametersFromBag(bag).TrueTrackFill)
	m.help.Styles = helpStyles(th)
	m.help.Width = screen.Cols
	if cfg.Host.Mouse {
		m.zones = zone.New()
	}
	m.layout()

	opts := view.Options{
		Theme:  th,
		Zones:  m.zones,
		ZoneID: "switch-" + cfg.Host.InstanceID,
		Logger: logger,
	}
	if err := m.in.mount(opts, state); err != nil {
		m.Close()
		return nil, err
	}
	m.in.sw.Focus()
	m.keys = newKeyMap(m.in.sw.Keys())
	return m, nil
}

// fillsFrom returns the fill cycle with current in it and current's index.
func fillsFrom(current string) ([]string, int) {
	if i := slices.Index(fillCycle, current); i >= 0 {
		return fillCycle, i
	}
	return append([]string{current}, fillCycle...), 0
}

// layout sizes the container from the screen and derives the allocation.
func (m *Model) layout() {
	c := m.in.container
	c.Width = max(m.screen.Width-chromeCols, 0)
	c.Height = max(m.screen.Height-chromeRows, 0)

	if !m.hostCfg.Allocate {
		m.in.allocW, m.in.allocH = 0, 0
		return
	}
	w, h := m.hostCfg.AllocatedWidth, m.hostCfg.AllocatedHeight
	if w <= 0 {
		w = c.Width / allocWidthDivisor
	}
	if h <= 0 {
		h = defaultAllocHeight
	}
	m.in.allocW, m.in.allocH = min(w, c.Width), min(h, c.Height)
}

// Init starts the refresh ticker.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(m.refresh())}
	if m.in.takeRenderRequest() {
		cmds = append(cmds, emit(RenderRequestEvent{}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) refresh() time.Duration {
	return m.hostCfg.RefreshInterval.Or(defaultRefresh)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.screen.Width, m.screen.Height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
		if m.in.trackResize {
			m.push()
		}

	case TickEvent:
		m.push()
		cmds = append(cmds, TickCmd(m.refresh()))

	case RenderRequestEvent:
		m.push()

	case OutputChangedEvent:
		m.commit()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Disable):
			m.in.disabled = !m.in.disabled
			m.push()
		case key.Matches(msg, m.keys.Hide):
			m.in.hidden = !m.in.hidden
			m.push()
		case key.Matches(msg, m.keys.Style):
			m.fill = (m.fill + 1) % len(m.fills)
			m.in.bag[control.PropTrueTrackFill] = m.fills[m.fill]
			m.push()
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		default:
			cmds = append(cmds, m.in.sw.Update(msg))
		}

	case tea.MouseMsg:
		cmds = append(cmds, m.in.sw.Update(msg))
	}

	if m.in.outputPending {
		m.in.outputPending = false
		cmds = append(cmds, emit(OutputChangedEvent{}))
	}
	if m.in.takeRenderRequest() {
		cmds = append(cmds, emit(RenderRequestEvent{}))
	}
	return m, tea.Batch(cmds...)
}

// push sends a full snapshot to the control.
func (m *Model) push() {
	m.lastErr = m.in.update()
	if m.lastErr != nil {
		m.logger.Warn("update view failed", "error", m.lastErr)
	}
}

// commit completes the output round trip: read the value back, persist it,
// and push the bag that now contains it.
func (m *Model) commit() {
	v := m.in.commitOutput()
	m.logger.Info("output changed", "value", v.String())

	if m.store != nil {
		state := m.in.ctrl.State()
		if state == nil {
			state = map[string]any{}
		}
		if v.IsSet() {
			state[control.PropValue] = v.Bool()
		} else {
			delete(state, control.PropValue)
		}
		if err := m.store.Save(m.hostCfg.InstanceID, state); err != nil {
			m.logger.Warn("persist state failed", "error", err)
		}
	}
	m.push()
}

// reset forgets the persisted state and unbinds the value.
func (m *Model) reset() {
	if m.store != nil {
		if err := m.store.Delete(m.hostCfg.InstanceID); err != nil {
			m.logger.Warn("clear state failed", "error", err)
		}
	}
	delete(m.in.bag, control.PropValue)
	m.logger.Info("value reset")
	m.push()
}

// Close destroys the control and stops mouse tracking. It is safe to call
// more than once.
func (m *Model) Close() {
	m.quitting = true
	m.in.destroy()
	if m.zones != nil {
		m.zones.Close()
		m.zones = nil
	}
}

// Value returns the bound value as the bag currently holds it.
func (m *Model) Value() snapshot.SwitchValue {
	return control.ParametersFromBag(m.in.bag).Value
}

// Switch returns the mounted view.
func (m *Model) Switch() *view.Switch { return m.in.sw }

// Control returns the hosted control.
func (m *Model) Control() *control.StyledSwitch { return m.in.ctrl }

// Container returns the size of the container element.
func (m *Model) Container() (width, height int) {
	return m.in.container.Width, m.in.container.Height
}

// Allocation returns the current layout allocation.
func (m *Model) Allocation() (width, height int) {
	return m.in.allocW, m.in.allocH
}

// Disabled reports the host's disabled mode flag.
func (m *Model) Disabled() bool { return m.in.disabled }

// Hidden reports whether the host hides the control.
func (m *Model) Hidden() bool { return m.in.hidden }

// Err returns the error from the most recent UpdateView, if any.
func (m *Model) Err() error { return m.lastErr }

// Quitting reports whether the model has shut down.
func (m *Model) Quitting() bool { return m.quitting }
