// Package snapshot holds the per-aspect state of a styled switch and the
// differ that decides when an observed host snapshot is worth publishing.
package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
)

// Aspect identifies one independently tracked piece of control state.
type Aspect int

const (
	AspectValue Aspect = iota
	AspectDisabled
	AspectVisible
	AspectStyle
)

// Aspects lists every aspect in update-cycle order.
var Aspects = []Aspect{AspectDisabled, AspectVisible, AspectStyle, AspectValue}

func (a Aspect) String() string {
	switch a {
	case AspectValue:
		return "value"
	case AspectDisabled:
		return "disabled"
	case AspectVisible:
		return "visible"
	case AspectStyle:
		return "style"
	default:
		return "aspect(" + strconv.Itoa(int(a)) + ")"
	}
}

// SwitchValue is the bound value of the switch. Unset is distinct from Off:
// a host that has not bound a value yet reports Unset, and the two never
// compare equal.
type SwitchValue uint8

const (
	Unset SwitchValue = iota
	Off
	On
)

// FromBool converts a plain boolean to a set SwitchValue.
func FromBool(b bool) SwitchValue {
	if b {
		return On
	}
	return Off
}

// IsSet reports whether the value is On or Off.
func (v SwitchValue) IsSet() bool { return v == On || v == Off }

// Bool returns the boolean meaning of the value. Unset reads as false.
func (v SwitchValue) Bool() bool { return v == On }

// Toggled returns the value after a user toggle. Unset toggles to On.
func (v SwitchValue) Toggled() SwitchValue {
	if v == On {
		return Off
	}
	return On
}

func (v SwitchValue) String() string {
	switch v {
	case On:
		return "true"
	case Off:
		return "false"
	default:
		return "unset"
	}
}

// MarshalText encodes On/Off as "true"/"false" and Unset as "".
func (v SwitchValue) MarshalText() ([]byte, error) {
	if !v.IsSet() {
		return []byte{}, nil
	}
	return []byte(v.String()), nil
}

// UnmarshalText accepts true/false (any case, plus 1/0, yes/no, on/off) and
// the empty string or "null" for Unset.
func (v *SwitchValue) UnmarshalText(text []byte) error {
	parsed, err := ParseSwitchValue(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseSwitchValue parses the textual forms accepted by UnmarshalText.
func ParseSwitchValue(s string) (SwitchValue, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "unset", "undefined":
		return Unset, nil
	case "true", "1", "yes", "on":
		return On, nil
	case "false", "0", "no", "off":
		return Off, nil
	}
	return Unset, fmt.Errorf("snapshot: invalid switch value %q", s)
}

// StyleBundle carries the style references and resolved geometry handed to
// the view. References are opaque: they are compared and passed through but
// never interpreted here.
//
// StyleBundle is a comparable value type, so assigning or passing it copies
// every field; a cached bundle can never alias the caller's.
type StyleBundle struct {
	FalseHandleFill  string
	FalseHandleImage string
	FalseTrackFill   string
	TrueHandleFill   string
	TrueHandleImage  string
	TrueTrackFill    string

	Width  geometry.Dim
	Height geometry.Dim
}

// Equal reports whether all eight fields match.
func (b StyleBundle) Equal(o StyleBundle) bool {
	return b == o
}

// Size returns the bundle geometry.
func (b StyleBundle) Size() geometry.Size {
	return geometry.Size{Width: b.Width, Height: b.Height}
}

// HandleFill returns the handle fill reference for the given state.
func (b StyleBundle) HandleFill(on bool) string {
	if on {
		return b.TrueHandleFill
	}
	return b.FalseHandleFill
}

// TrackFill returns the track fill reference for the given state.
func (b StyleBundle) TrackFill(on bool) string {
	if on {
		return b.TrueTrackFill
	}
	return b.FalseTrackFill
}

// HandleImage returns the handle image reference for the given state.
func (b StyleBundle) HandleImage(on bool) string {
	if on {
		return b.TrueHandleImage
	}
	return b.FalseHandleImage
}
