package control

import (
	"errors"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
	"gitlab.com/tinyland/lab/styled-switch/pkg/snapshot"
)

// recordingView subscribes to every aspect and records publishes in order.
type recordingView struct {
	props     Props
	events    []string
	values    []snapshot.SwitchValue
	disabled  []bool
	visible   []bool
	styles    []snapshot.StyleBundle
	unmounted int
	unsubs    []func()
}

func (v *recordingView) Unmount() {
	v.unmounted++
	for _, u := range v.unsubs {
		u()
	}
}

func (v *recordingView) count(aspect string) int {
	n := 0
	for _, e := range v.events {
		if e == aspect {
			n++
		}
	}
	return n
}

type fixture struct {
	sw       *StyledSwitch
	view     *recordingView
	notified int
	renders  int
	tracked  []bool
	box      *geometry.Box
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{box: &geometry.Box{Width: 20, Height: 2}}
	f.sw = New(func(_ geometry.Element, p Props) (View, error) {
		v := &recordingView{props: p}
		v.unsubs = append(v.unsubs,
			p.Value.Subscribe(func(x snapshot.SwitchValue) error {
				v.events = append(v.events, "value")
				v.values = append(v.values, x)
				return nil
			}),
			p.Disable.Subscribe(func(x bool) error {
				v.events = append(v.events, "disabled")
				v.disabled = append(v.disabled, x)
				return nil
			}),
			p.Visible.Subscribe(func(x bool) error {
				v.events = append(v.events, "visible")
				v.visible = append(v.visible, x)
				return nil
			}),
			p.Styles.Subscribe(func(x snapshot.StyleBundle) error {
				v.events = append(v.events, "style")
				v.styles = append(v.styles, x)
				return nil
			}),
		)
		f.view = v
		return v, nil
	})
	return f
}

func (f *fixture) context(value snapshot.SwitchValue) *Context {
	return &Context{
		Parameters: Parameters{
			Value:          value,
			TrueTrackFill:  "#4ec970",
			FalseTrackFill: "#3e3e3e",
		},
		Mode: Mode{
			IsVisible:            true,
			AllocatedWidth:       12,
			AllocatedHeight:      1,
			TrackContainerResize: func(b bool) { f.tracked = append(f.tracked, b) },
		},
		Factory: FactoryFunc(func() { f.renders++ }),
	}
}

func (f *fixture) mount(t *testing.T, ctx *Context) {
	t.Helper()
	if err := f.sw.Init(ctx, func() { f.notified++ }, map[string]any{"k": "v"}, f.box); err != nil {
		t.Fatalf("Init: %v", err)
	}
}

// --- Init ---

func TestInitSeedsWithoutPublishing(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))

	if f.sw.Lifecycle() != Mounted {
		t.Fatalf("Lifecycle() = %s, want mounted", f.sw.Lifecycle())
	}
	if len(f.view.events) != 0 {
		t.Errorf("Init published %v, want nothing", f.view.events)
	}
	if f.view.props.InitialValue != snapshot.Off {
		t.Errorf("InitialValue = %s, want false", f.view.props.InitialValue)
	}
	if !f.view.props.InitialVisible {
		t.Error("InitialVisible = false, want true")
	}
	if got := f.view.props.InitialStyles.Size(); got != (geometry.Size{Width: geometry.Px(12), Height: geometry.Px(1)}) {
		t.Errorf("InitialStyles size = %s, want 12x1", got)
	}
	if len(f.tracked) != 1 || !f.tracked[0] {
		t.Errorf("TrackContainerResize calls = %v, want [true]", f.tracked)
	}
	if f.renders != 0 {
		t.Errorf("RequestRender called %d times with complete geometry", f.renders)
	}
}

func TestInitRequestsRenderWhenGeometryIncomplete(t *testing.T) {
	f := newFixture(t)
	f.box.Width, f.box.Height = 0, 0
	ctx := f.context(snapshot.Off)
	ctx.Mode.AllocatedWidth, ctx.Mode.AllocatedHeight = 40, 0

	f.mount(t, ctx)
	if f.renders != 1 {
		t.Errorf("RequestRender called %d times, want 1", f.renders)
	}

	// Later cycles never request a render, even with unresolved geometry.
	if err := f.sw.UpdateView(ctx); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	if f.renders != 1 {
		t.Errorf("RequestRender called %d times after update, want 1", f.renders)
	}
}

func TestInitUsesContainerWhenUnallocated(t *testing.T) {
	f := newFixture(t)
	ctx := f.context(snapshot.Off)
	ctx.Mode.AllocatedWidth, ctx.Mode.AllocatedHeight = 0, 0
	f.mount(t, ctx)

	got := f.view.props.InitialStyles.Size()
	if got != (geometry.Size{Width: geometry.Px(20), Height: geometry.Px(2)}) {
		t.Errorf("InitialStyles size = %s, want 20x2", got)
	}
}

func TestInitTwice(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))
	if err := f.sw.Init(f.context(snapshot.On), nil, nil, f.box); !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("second Init err = %v, want ErrAlreadyMounted", err)
	}
}

func TestInitViewFactoryFailure(t *testing.T) {
	boom := errors.New("no terminal")
	sw := New(func(geometry.Element, Props) (View, error) { return nil, boom })
	err := sw.Init(&Context{}, nil, nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Init err = %v, want wrapping %v", err, boom)
	}
	if sw.Lifecycle() != Uninitialized {
		t.Errorf("Lifecycle() = %s after failed mount, want uninitialized", sw.Lifecycle())
	}
}

func TestInitViewFactoryFailureLeavesResizeTrackingOff(t *testing.T) {
	var tracked []bool
	sw := New(func(geometry.Element, Props) (View, error) { return nil, errors.New("no terminal") })
	ctx := &Context{Mode: Mode{TrackContainerResize: func(b bool) { tracked = append(tracked, b) }}}
	if err := sw.Init(ctx, nil, nil, &geometry.Box{Width: 4, Height: 1}); err == nil {
		t.Fatal("Init succeeded with a failing view factory")
	}
	if len(tracked) != 0 {
		t.Errorf("TrackContainerResize calls = %v after failed mount, want none", tracked)
	}
}

func TestInitNilBoxContainer(t *testing.T) {
	f := newFixture(t)
	var box *geometry.Box
	ctx := f.context(snapshot.Off)
	ctx.Mode.AllocatedWidth, ctx.Mode.AllocatedHeight = 0, 0

	if err := f.sw.Init(ctx, nil, nil, box); err != nil {
		t.Fatalf("Init with a nil box: %v", err)
	}
	if f.renders != 1 {
		t.Errorf("RequestRender called %d times, want 1 for unresolved geometry", f.renders)
	}
	if err := f.sw.UpdateView(ctx); err != nil {
		t.Errorf("UpdateView with a nil box: %v", err)
	}
}

func TestInitWithoutFactory(t *testing.T) {
	sw := New(nil)
	if err := sw.Init(&Context{}, nil, nil, nil); !errors.Is(err, ErrNoViewFactory) {
		t.Errorf("Init err = %v, want ErrNoViewFactory", err)
	}
}

// --- UpdateView ---

func TestEndToEndValueChange(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))

	if got := f.sw.GetOutputs(); got.Value != snapshot.Off {
		t.Errorf("GetOutputs() before update = %s, want false", got.Value)
	}

	if err := f.sw.UpdateView(f.context(snapshot.On)); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	if got := f.view.count("value"); got != 1 {
		t.Errorf("value published %d times, want 1", got)
	}
	if len(f.view.values) != 1 || f.view.values[0] != snapshot.On {
		t.Errorf("published values = %v, want [true]", f.view.values)
	}
	for _, aspect := range []string{"disabled", "visible", "style"} {
		if n := f.view.count(aspect); n != 0 {
			t.Errorf("%s published %d times, want 0", aspect, n)
		}
	}
	if got := f.sw.GetOutputs(); got.Value != snapshot.On {
		t.Errorf("GetOutputs() = %s, want true", got.Value)
	}

	if err := f.sw.UpdateView(f.context(snapshot.On)); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	if len(f.view.events) != 1 {
		t.Errorf("repeat update published %v, want only the first value event", f.view.events)
	}
	if got := f.sw.GetOutputs(); got.Value != snapshot.On {
		t.Errorf("GetOutputs() = %s, want true", got.Value)
	}
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))

	ctx := f.context(snapshot.On)
	ctx.Mode.IsControlDisabled = true
	ctx.Mode.IsVisible = false
	ctx.Parameters.TrueTrackFill = "#ff0000"

	if err := f.sw.UpdateView(ctx); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	want := "disabled,visible,style,value"
	if got := strings.Join(f.view.events, ","); got != want {
		t.Errorf("publish order = %s, want %s", got, want)
	}
}

func TestUpdateGeometryChangePublishesStyle(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))

	ctx := f.context(snapshot.Off)
	ctx.Mode.AllocatedWidth = 30
	if err := f.sw.UpdateView(ctx); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	if len(f.view.styles) != 1 {
		t.Fatalf("style published %d times, want 1", len(f.view.styles))
	}
	if f.view.styles[0].Width != geometry.Px(30) {
		t.Errorf("published width = %s, want 30", f.view.styles[0].Width)
	}
	if f.view.count("value") != 0 {
		t.Error("geometry change published the value aspect")
	}
}

func TestUpdateContainerResizeWithoutAllocation(t *testing.T) {
	f := newFixture(t)
	ctx := f.context(snapshot.Off)
	ctx.Mode.AllocatedWidth, ctx.Mode.AllocatedHeight = 0, 0
	f.mount(t, ctx)

	f.box.Width = 44
	if err := f.sw.UpdateView(ctx); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	if len(f.view.styles) != 1 || f.view.styles[0].Width != geometry.Px(44) {
		t.Errorf("styles = %+v, want one publish with width 44", f.view.styles)
	}
}

func TestUpdateNilContextTreatedAsEmpty(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.On))

	if err := f.sw.UpdateView(nil); err != nil {
		t.Fatalf("UpdateView(nil): %v", err)
	}
	if got := f.sw.GetOutputs().Value; got != snapshot.Unset {
		t.Errorf("GetOutputs() = %s after empty snapshot, want unset", got)
	}
	if f.view.count("visible") != 1 || f.view.visible[0] {
		t.Errorf("visible publishes = %v, want [false]", f.view.visible)
	}
}

func TestHandlerFailureDoesNotAbortCycle(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))
	f.view.props.Disable.Subscribe(func(bool) error { panic("render failed") })

	ctx := f.context(snapshot.On)
	ctx.Mode.IsControlDisabled = true
	err := f.sw.UpdateView(ctx)
	if err == nil {
		t.Fatal("UpdateView returned nil, want handler error")
	}
	if !strings.Contains(err.Error(), "render failed") {
		t.Errorf("error %q does not carry the panic value", err)
	}
	if f.view.count("value") != 1 {
		t.Error("value aspect not published after disabled handler panicked")
	}
	if f.sw.GetOutputs().Value != snapshot.On {
		t.Error("value cache not updated after handler failure")
	}
}

func TestReentrantUpdateRejected(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))

	var inner error
	f.view.props.Value.Subscribe(func(snapshot.SwitchValue) error {
		inner = f.sw.UpdateView(f.context(snapshot.Off))
		return nil
	})
	if err := f.sw.UpdateView(f.context(snapshot.On)); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	if !errors.Is(inner, ErrReentrant) {
		t.Errorf("nested UpdateView err = %v, want ErrReentrant", inner)
	}

	// The guard is released after the outer call returns.
	if err := f.sw.UpdateView(f.context(snapshot.On)); err != nil {
		t.Errorf("UpdateView after reentrancy: %v", err)
	}
}

func TestUpdateBeforeInit(t *testing.T) {
	sw := New(func(geometry.Element, Props) (View, error) { return &recordingView{}, nil })
	if err := sw.UpdateView(&Context{}); !errors.Is(err, ErrNotMounted) {
		t.Errorf("UpdateView before Init err = %v, want ErrNotMounted", err)
	}
	if got := sw.GetOutputs().Value; got != snapshot.Unset {
		t.Errorf("GetOutputs() before Init = %s, want unset", got)
	}
}

// --- User interaction ---

func TestUserToggleNotifiesHostWithoutPublishing(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))

	f.view.props.OnValueChanged(snapshot.On)
	if f.notified != 1 {
		t.Errorf("notifyOutputChanged called %d times, want 1", f.notified)
	}
	if got := f.sw.GetOutputs().Value; got != snapshot.On {
		t.Errorf("GetOutputs() = %s, want true", got)
	}
	if len(f.view.events) != 0 {
		t.Errorf("user toggle published %v", f.view.events)
	}

	// The host echoes the committed value back: nothing to publish.
	if err := f.sw.UpdateView(f.context(snapshot.On)); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	if f.view.count("value") != 0 {
		t.Error("echoed value was published")
	}
}

// --- Destroy ---

func TestDestroy(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.On))
	view := f.view

	f.sw.Destroy()
	f.sw.Destroy()

	if view.unmounted != 1 {
		t.Errorf("Unmount called %d times, want 1", view.unmounted)
	}
	if f.sw.Lifecycle() != Destroyed {
		t.Errorf("Lifecycle() = %s, want destroyed", f.sw.Lifecycle())
	}
	if err := f.sw.UpdateView(f.context(snapshot.Off)); !errors.Is(err, ErrDestroyed) {
		t.Errorf("UpdateView after Destroy err = %v, want ErrDestroyed", err)
	}
	if err := f.sw.Init(f.context(snapshot.Off), nil, nil, f.box); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Init after Destroy err = %v, want ErrDestroyed", err)
	}
	if got := f.sw.GetOutputs().Value; got != snapshot.Unset {
		t.Errorf("GetOutputs() after Destroy = %s, want unset", got)
	}

	view.props.OnValueChanged(snapshot.Off)
	if f.notified != 0 {
		t.Error("toggle after Destroy notified the host")
	}
}

func TestFreshInstanceHasNoCache(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.On))
	f.sw.Destroy()

	g := newFixture(t)
	g.mount(t, g.context(snapshot.Off))
	if got := g.sw.GetOutputs().Value; got != snapshot.Off {
		t.Errorf("fresh instance GetOutputs() = %s, want false", got)
	}
}

func TestStateIsCopied(t *testing.T) {
	f := newFixture(t)
	f.mount(t, f.context(snapshot.Off))

	st := f.sw.State()
	st["k"] = "changed"
	if f.sw.State()["k"] != "v" {
		t.Error("State() returned the internal map")
	}
}
