package control

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
	"gitlab.com/tinyland/lab/styled-switch/pkg/snapshot"
)

// Lifecycle errors.
var (
	ErrNotMounted     = errors.New("control: not mounted")
	ErrAlreadyMounted = errors.New("control: already mounted")
	ErrDestroyed      = errors.New("control: destroyed")
	ErrReentrant      = errors.New("control: UpdateView called from a view handler")
	ErrNoViewFactory  = errors.New("control: no view factory")
)

// Lifecycle is the control's position in the host lifecycle.
type Lifecycle int

const (
	Uninitialized Lifecycle = iota
	Mounted
	Destroyed
)

func (l Lifecycle) String() string {
	switch l {
	case Uninitialized:
		return "uninitialized"
	case Mounted:
		return "mounted"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("lifecycle(%d)", int(l))
	}
}

// Option configures a StyledSwitch.
type Option func(*StyledSwitch)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *StyledSwitch) {
		if l != nil {
			s.logger = l
		}
	}
}

// StyledSwitch adapts the host lifecycle to per-aspect change notification.
// It is not safe for concurrent use; hosts call it from a single goroutine.
type StyledSwitch struct {
	newView ViewFactory
	logger  *slog.Logger

	lifecycle Lifecycle
	updating  bool

	value    *snapshot.Tracker[snapshot.SwitchValue]
	disabled *snapshot.Tracker[bool]
	visible  *snapshot.Tracker[bool]
	styles   *snapshot.Tracker[snapshot.StyleBundle]

	container geometry.Element
	view      View
	notify    func()
	state     map[string]any
}

// New creates an uninitialized control that mounts its view with newView.
func New(newView ViewFactory, opts ...Option) *StyledSwitch {
	s := &StyledSwitch{
		newView: newView,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Lifecycle returns the current lifecycle state.
func (s *StyledSwitch) Lifecycle() Lifecycle { return s.lifecycle }

// Init mounts the view and seeds every aspect cache from ctx. Seeding does
// not publish; the view gets the initial values through Props.
//
// When the first geometry resolution leaves either dimension non-positive,
// Init asks the host for another render pass via ctx.Factory. Later
// UpdateView calls never make that request.
func (s *StyledSwitch) Init(ctx *Context, notifyOutputChanged func(), state map[string]any, container geometry.Element) error {
	switch s.lifecycle {
	case Mounted:
		return ErrAlreadyMounted
	case Destroyed:
		return ErrDestroyed
	}
	if s.newView == nil {
		return ErrNoViewFactory
	}
	if ctx == nil {
		s.logger.Warn("init called without a context; using an empty snapshot")
		ctx = &Context{}
	}

	s.container = container
	s.notify = notifyOutputChanged
	s.state = state

	s.value = snapshot.NewTracker[snapshot.SwitchValue](snapshot.AspectValue, s.logger)
	s.disabled = snapshot.NewTracker[bool](snapshot.AspectDisabled, s.logger)
	s.visible = snapshot.NewTracker[bool](snapshot.AspectVisible, s.logger)
	s.styles = snapshot.NewTracker[snapshot.StyleBundle](snapshot.AspectStyle, s.logger)

	size := geometry.ResolveElement(ctx.Mode.AllocatedWidth, ctx.Mode.AllocatedHeight, container)
	styles := StylesFromParameters(ctx.Parameters, size)

	s.value.Seed(ctx.Parameters.Value)
	s.disabled.Seed(ctx.Mode.IsControlDisabled)
	s.visible.Seed(ctx.Mode.IsVisible)
	s.styles.Seed(styles)

	view, err := s.newView(container, Props{
		InitialValue:   ctx.Parameters.Value,
		InitialStyles:  styles,
		InitialVisible: ctx.Mode.IsVisible,
		Disabled:       ctx.Mode.IsControlDisabled,
		Value:          s.value,
		Disable:        s.disabled,
		Visible:        s.visible,
		Styles:         s.styles,
		OnValueChanged: s.onValueChanged,
	})
	if err != nil {
		s.release()
		return fmt.Errorf("control: mount view: %w", err)
	}
	s.view = view
	s.lifecycle = Mounted

	if ctx.Mode.TrackContainerResize != nil {
		ctx.Mode.TrackContainerResize(true)
	}

	if size.Complete() {
		s.logger.Debug("mounted", "size", size.String())
		return nil
	}

	s.logger.Debug("mounted without complete geometry; requesting render", "size", size.String())
	if ctx.Factory != nil {
		ctx.Factory.RequestRender()
	}
	return nil
}

// UpdateView diffs ctx against the aspect caches in a fixed order
// (disabled, visible, style, value) and publishes each aspect that changed.
// A failing view handler never stops the remaining aspects; all failures are
// joined into the returned error.
func (s *StyledSwitch) UpdateView(ctx *Context) error {
	switch s.lifecycle {
	case Uninitialized:
		return ErrNotMounted
	case Destroyed:
		return ErrDestroyed
	}
	if s.updating {
		return ErrReentrant
	}
	s.updating = true
	defer func() { s.updating = false }()

	if ctx == nil {
		s.logger.Warn("update called without a context; using an empty snapshot")
		ctx = &Context{}
	}

	var errs []error
	if _, err := s.disabled.Observe(ctx.Mode.IsControlDisabled); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.visible.Observe(ctx.Mode.IsVisible); err != nil {
		errs = append(errs, err)
	}
	size := geometry.ResolveElement(ctx.Mode.AllocatedWidth, ctx.Mode.AllocatedHeight, s.container)
	if _, err := s.styles.Observe(StylesFromParameters(ctx.Parameters, size)); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.value.Observe(ctx.Parameters.Value); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("view handler failed during update", "error", err)
		return err
	}
	return nil
}

// GetOutputs returns the cached bound value. It never diffs or publishes.
// Before Init and after Destroy the value is Unset.
func (s *StyledSwitch) GetOutputs() Outputs {
	if s.value == nil {
		return Outputs{Value: snapshot.Unset}
	}
	v, _ := s.value.Current()
	return Outputs{Value: v}
}

// State returns a copy of the persisted state handed to Init.
func (s *StyledSwitch) State() map[string]any {
	return maps.Clone(s.state)
}

// Destroy unmounts the view and drops every subscription and cache. It is
// terminal: the control cannot be mounted again. Calling Destroy more than
// once is a no-op.
func (s *StyledSwitch) Destroy() {
	if s.lifecycle == Destroyed {
		return
	}
	if s.view != nil {
		s.view.Unmount()
		s.view = nil
	}
	s.release()
	s.lifecycle = Destroyed
	s.logger.Debug("destroyed")
}

// onValueChanged records a user toggle and tells the host new output is
// ready. It writes the cache directly: a committed edit is output, not an
// observation to diff.
func (s *StyledSwitch) onValueChanged(v snapshot.SwitchValue) {
	if s.lifecycle != Mounted {
		return
	}
	s.value.Seed(v)
	s.logger.Debug("value changed by user", "value", v.String())
	if s.notify != nil {
		s.notify()
	}
}

func (s *StyledSwitch) release() {
	for _, closer := range []interface{ Close() }{s.value, s.disabled, s.visible, s.styles} {
		closer.Close()
	}
	s.notify = nil
	s.container = nil
}
