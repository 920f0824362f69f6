package control

import (
	"fmt"

	"gitlab.com/tinyland/lab/styled-switch/pkg/snapshot"
)

// Property names as bound by hosts.
const (
	PropValue            = "Value"
	PropFalseHandleFill  = "FalseHandleFill"
	PropFalseHandleImage = "FalseHandleImage"
	PropFalseTrackFill   = "FalseTrackFill"
	PropTrueHandleFill   = "TrueHandleFill"
	PropTrueHandleImage  = "TrueHandleImage"
	PropTrueTrackFill    = "TrueTrackFill"
)

// ParametersFromBag decodes a loosely typed property bag. A missing key, a
// nil value, or a value of the wrong type yields the zero value for that
// property instead of an error: hosts routinely omit unbound properties.
func ParametersFromBag(bag map[string]any) Parameters {
	return Parameters{
		Value:            bagSwitchValue(bag[PropValue]),
		FalseHandleFill:  bagString(bag[PropFalseHandleFill]),
		FalseHandleImage: bagString(bag[PropFalseHandleImage]),
		FalseTrackFill:   bagString(bag[PropFalseTrackFill]),
		TrueHandleFill:   bagString(bag[PropTrueHandleFill]),
		TrueHandleImage:  bagString(bag[PropTrueHandleImage]),
		TrueTrackFill:    bagString(bag[PropTrueTrackFill]),
	}
}

func bagSwitchValue(v any) snapshot.SwitchValue {
	switch x := v.(type) {
	case snapshot.SwitchValue:
		return x
	case bool:
		return snapshot.FromBool(x)
	case *bool:
		if x == nil {
			return snapshot.Unset
		}
		return snapshot.FromBool(*x)
	case string:
		parsed, err := snapshot.ParseSwitchValue(x)
		if err != nil {
			return snapshot.Unset
		}
		return parsed
	default:
		return snapshot.Unset
	}
}

func bagString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return ""
	}
}
