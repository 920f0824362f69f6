package host

import (
	"log/slog"
	"maps"

	"gitlab.com/tinyland/lab/styled-switch/pkg/control"
	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
	"gitlab.com/tinyland/lab/styled-switch/pkg/snapshot"
	"gitlab.com/tinyland/lab/styled-switch/pkg/view"
)

// instance is one mounted control plus the host-side state that feeds it.
// Both the interactive Model and Replay drive the control through it.
type instance struct {
	bag      map[string]any
	disabled bool
	hidden   bool

	// allocW and allocH are the layout allocation; zero means unallocated.
	allocW, allocH int

	container *geometry.Box

	ctrl *control.StyledSwitch
	sw   *view.Switch

	trackResize     bool
	outputPending   bool
	renderRequested bool
	outputs         int

	logger *slog.Logger
}

func newInstance(bag map[string]any, container *geometry.Box, logger *slog.Logger) *instance {
	return &instance{
		bag:       maps.Clone(bag),
		container: container,
		logger:    logger,
	}
}

// context builds a full snapshot from the current host state.
func (in *instance) context() *control.Context {
	return &control.Context{
		Parameters: control.ParametersFromBag(in.bag),
		Mode: control.Mode{
			IsControlDisabled:    in.disabled,
			IsVisible:            !in.hidden,
			AllocatedWidth:       in.allocW,
			AllocatedHeight:      in.allocH,
			TrackContainerResize: func(on bool) { in.trackResize = on },
		},
		Factory: control.FactoryFunc(func() { in.renderRequested = true }),
	}
}

// mount initializes the control and captures the mounted switch.
func (in *instance) mount(opts view.Options, state map[string]any) error {
	in.ctrl = control.New(
		view.Factory(opts, func(sw *view.Switch) { in.sw = sw }),
		control.WithLogger(in.logger),
	)
	return in.ctrl.Init(in.context(), in.notify, state, in.container)
}

func (in *instance) notify() {
	in.outputPending = true
	in.outputs++
}

// update pushes a fresh snapshot.
func (in *instance) update() error {
	return in.ctrl.UpdateView(in.context())
}

// commitOutput reads the bound value back into the bag, completing the
// two-way binding round trip.
func (in *instance) commitOutput() snapshot.SwitchValue {
	in.outputPending = false
	v := in.ctrl.GetOutputs().Value
	if v.IsSet() {
		in.bag[control.PropValue] = v.Bool()
	} else {
		delete(in.bag, control.PropValue)
	}
	return v
}

// takeRenderRequest reports and clears a pending render request.
func (in *instance) takeRenderRequest() bool {
	r := in.renderRequested
	in.renderRequested = false
	return r
}

func (in *instance) destroy() {
	if in.ctrl != nil {
		in.ctrl.Destroy()
	}
}
