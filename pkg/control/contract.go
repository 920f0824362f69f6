// Package control implements the styled switch as a host-embeddable control.
//
// The host owns data binding, layout and scheduling. It drives the control
// through four calls: Init once, UpdateView whenever it has a fresh snapshot
// of the bound properties, GetOutputs when it wants the bound value back, and
// Destroy at teardown. UpdateView carries a full snapshot with no diff, so the
// control keeps a cache per aspect and only notifies the view about the
// aspects that actually changed.
package control

import (
	"gitlab.com/tinyland/lab/styled-switch/pkg/broadcast"
	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
	"gitlab.com/tinyland/lab/styled-switch/pkg/snapshot"
)

// Parameters are the bound properties of one snapshot.
type Parameters struct {
	Value snapshot.SwitchValue

	FalseHandleFill  string
	FalseHandleImage string
	FalseTrackFill   string
	TrueHandleFill   string
	TrueHandleImage  string
	TrueTrackFill    string
}

// Mode carries the host's mode flags and layout allocation.
type Mode struct {
	IsControlDisabled bool
	IsVisible         bool

	// AllocatedWidth and AllocatedHeight are the host's layout allocation.
	// Zero or negative means the host has not allocated yet.
	AllocatedWidth  int
	AllocatedHeight int

	// TrackContainerResize asks the host to report container size changes
	// through UpdateView. Optional.
	TrackContainerResize func(bool)
}

// Factory is the host capability for scheduling another render pass.
type Factory interface {
	RequestRender()
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func()

// RequestRender calls f.
func (f FactoryFunc) RequestRender() { f() }

// Context is the snapshot the host passes to Init and UpdateView.
type Context struct {
	Parameters Parameters
	Mode       Mode
	Factory    Factory
}

// Outputs is what the host reads back through GetOutputs.
type Outputs struct {
	Value snapshot.SwitchValue
}

// View is a mounted view instance. The control owns it from Init until
// Destroy, when Unmount is called exactly once.
type View interface {
	Unmount()
}

// Props is everything a view receives at mount: the initial state, one
// subscribe handle per aspect, and the callback for user toggles.
//
// Handlers registered through the subscribe handles run synchronously inside
// UpdateView. They must only record state and schedule a re-render; calling
// back into UpdateView from a handler is rejected with ErrReentrant.
type Props struct {
	InitialValue   snapshot.SwitchValue
	InitialStyles  snapshot.StyleBundle
	InitialVisible bool
	Disabled       bool

	Value   broadcast.Subscriber[snapshot.SwitchValue]
	Disable broadcast.Subscriber[bool]
	Visible broadcast.Subscriber[bool]
	Styles  broadcast.Subscriber[snapshot.StyleBundle]

	// OnValueChanged reports a committed user toggle.
	OnValueChanged func(snapshot.SwitchValue)
}

// ViewFactory mounts a view into container.
type ViewFactory func(container geometry.Element, props Props) (View, error)

// StylesFromParameters builds a style bundle from the six references and
// the resolved size.
func StylesFromParameters(p Parameters, size geometry.Size) snapshot.StyleBundle {
	return snapshot.StyleBundle{
		FalseHandleFill:  p.FalseHandleFill,
		FalseHandleImage: p.FalseHandleImage,
		FalseTrackFill:   p.FalseTrackFill,
		TrueHandleFill:   p.TrueHandleFill,
		TrueHandleImage:  p.TrueHandleImage,
		TrueTrackFill:    p.TrueTrackFill,
		Width:            size.Width,
		Height:           size.Height,
	}
}
