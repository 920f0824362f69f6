package snapshot

import (
	"errors"
	"testing"

	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
)

func baseBundle() StyleBundle {
	return StyleBundle{
		FalseHandleFill:  "#ffffff",
		FalseHandleImage: "off.png",
		FalseTrackFill:   "#444444",
		TrueHandleFill:   "#ffffff",
		TrueHandleImage:  "on.png",
		TrueTrackFill:    "#4ec970",
		Width:            geometry.Px(12),
		Height:           geometry.Px(1),
	}
}

// countPublishes subscribes a counter to tr and returns a pointer to it.
func countPublishes[T comparable](tr *Tracker[T]) *int {
	n := 0
	tr.Subscribe(func(T) error { n++; return nil })
	return &n
}

// --- Observe ---

func TestObserveRepeatedValuePublishesOnce(t *testing.T) {
	for _, n := range []int{2, 3, 10} {
		tr := NewTracker[bool](AspectDisabled, nil)
		published := countPublishes(tr)

		for i := 0; i < n; i++ {
			changed, err := tr.Observe(true)
			if err != nil {
				t.Fatalf("Observe: %v", err)
			}
			if want := i == 0; changed != want {
				t.Errorf("n=%d call %d: changed = %v, want %v", n, i, changed, want)
			}
		}
		if *published != 1 {
			t.Errorf("n=%d: published %d times, want 1", n, *published)
		}
	}
}

func TestSeededTrackerDoesNotPublishSameValue(t *testing.T) {
	tr := NewTracker[SwitchValue](AspectValue, nil)
	tr.Seed(Off)
	published := countPublishes(tr)

	if changed, _ := tr.Observe(Off); changed {
		t.Error("Observe(seeded value) reported a change")
	}
	if *published != 0 {
		t.Errorf("published %d times, want 0", *published)
	}

	if changed, _ := tr.Observe(On); !changed {
		t.Error("Observe(On) after Seed(Off) reported no change")
	}
	if *published != 1 {
		t.Errorf("published %d times, want 1", *published)
	}
}

func TestSeedDoesNotPublish(t *testing.T) {
	tr := NewTracker[bool](AspectVisible, nil)
	published := countPublishes(tr)
	tr.Seed(true)
	if *published != 0 {
		t.Errorf("Seed published %d times", *published)
	}
	if v, ok := tr.Current(); !ok || !v {
		t.Errorf("Current() = %v, %v; want true, true", v, ok)
	}
}

func TestUnsetDiffersFromOff(t *testing.T) {
	tr := NewTracker[SwitchValue](AspectValue, nil)
	tr.Seed(Unset)
	if changed, _ := tr.Observe(Off); !changed {
		t.Error("Observe(Off) after Seed(Unset) reported no change")
	}
	if changed, _ := tr.Observe(Unset); !changed {
		t.Error("Observe(Unset) after Off reported no change")
	}
}

func TestStyleBundleSingleFieldChanges(t *testing.T) {
	mutations := map[string]func(*StyleBundle){
		"FalseHandleFill":  func(b *StyleBundle) { b.FalseHandleFill = "#000000" },
		"FalseHandleImage": func(b *StyleBundle) { b.FalseHandleImage = "" },
		"FalseTrackFill":   func(b *StyleBundle) { b.FalseTrackFill = "#111111" },
		"TrueHandleFill":   func(b *StyleBundle) { b.TrueHandleFill = "#222222" },
		"TrueHandleImage":  func(b *StyleBundle) { b.TrueHandleImage = "alt.png" },
		"TrueTrackFill":    func(b *StyleBundle) { b.TrueTrackFill = "#333333" },
		"Width":            func(b *StyleBundle) { b.Width = geometry.Px(13) },
		"Height":           func(b *StyleBundle) { b.Height = geometry.Unset },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			tr := NewTracker[StyleBundle](AspectStyle, nil)
			tr.Seed(baseBundle())

			var got StyleBundle
			calls := 0
			tr.Subscribe(func(b StyleBundle) error { got = b; calls++; return nil })

			next := baseBundle()
			mutate(&next)
			changed, err := tr.Observe(next)
			if err != nil {
				t.Fatalf("Observe: %v", err)
			}
			if !changed {
				t.Fatal("changed = false, want true")
			}
			if calls != 1 {
				t.Errorf("published %d times, want 1", calls)
			}
			if !got.Equal(next) {
				t.Errorf("published %+v, want %+v", got, next)
			}
		})
	}
}

func TestStyleBundleMutationAfterObserveDoesNotLeak(t *testing.T) {
	tr := NewTracker[StyleBundle](AspectStyle, nil)
	var published StyleBundle
	tr.Subscribe(func(b StyleBundle) error { published = b; return nil })

	src := baseBundle()
	if _, err := tr.Observe(src); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	src.TrueTrackFill = "#ff0000"
	src.Width = geometry.Px(99)

	cached, _ := tr.Current()
	if cached.TrueTrackFill != "#4ec970" || cached.Width != geometry.Px(12) {
		t.Errorf("cache changed after source mutation: %+v", cached)
	}
	if published.TrueTrackFill != "#4ec970" {
		t.Errorf("published value changed after source mutation: %+v", published)
	}
}

func TestObserveUpdatesCacheEvenWhenHandlerFails(t *testing.T) {
	tr := NewTracker[bool](AspectDisabled, nil)
	tr.Seed(false)
	boom := errors.New("boom")
	tr.Subscribe(func(bool) error { return boom })

	changed, err := tr.Observe(true)
	if !changed {
		t.Error("changed = false, want true")
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapping boom", err)
	}
	if v, _ := tr.Current(); !v {
		t.Error("cache not updated after failing handler")
	}
	if changed, _ := tr.Observe(true); changed {
		t.Error("repeat observe after failed publish reported a change")
	}
}

func TestCloseForgetsCache(t *testing.T) {
	tr := NewTracker[bool](AspectVisible, nil)
	tr.Seed(true)
	tr.Subscribe(func(bool) error { return nil })
	tr.Close()

	if tr.Seeded() {
		t.Error("Seeded() = true after Close")
	}
	if tr.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after Close", tr.Subscribers())
	}
}

// --- SwitchValue ---

func TestParseSwitchValue(t *testing.T) {
	tests := []struct {
		in      string
		want    SwitchValue
		wantErr bool
	}{
		{"true", On, false},
		{"TRUE", On, false},
		{"1", On, false},
		{"off", Off, false},
		{"false", Off, false},
		{"", Unset, false},
		{"null", Unset, false},
		{"maybe", Unset, true},
	}
	for _, tt := range tests {
		got, err := ParseSwitchValue(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSwitchValue(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSwitchValue(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSwitchValueToggled(t *testing.T) {
	if Off.Toggled() != On || On.Toggled() != Off || Unset.Toggled() != On {
		t.Error("Toggled() transitions incorrect")
	}
}

func TestSwitchValueMarshalText(t *testing.T) {
	for v, want := range map[SwitchValue]string{On: "true", Off: "false", Unset: ""} {
		b, err := v.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s): %v", v, err)
		}
		if string(b) != want {
			t.Errorf("MarshalText(%s) = %q, want %q", v, b, want)
		}
	}
}

func TestAspectString(t *testing.T) {
	want := []string{"disabled", "visible", "style", "value"}
	for i, a := range Aspects {
		if a.String() != want[i] {
			t.Errorf("Aspects[%d] = %s, want %s", i, a, want[i])
		}
	}
}
