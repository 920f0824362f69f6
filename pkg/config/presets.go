package config

import (
	"sort"
	"strings"

	"gitlab.com/tinyland/lab/styled-switch/pkg/control"
)

// stylePresets are named fill/image bundles for the switch. Explicit
// properties in the config file override preset fields.
var stylePresets = map[string]PropertiesConfig{
	"plain": {},
	"ios": {
		FalseHandleFill: "#ffffff",
		FalseTrackFill:  "#e9e9eb",
		TrueHandleFill:  "#ffffff",
		TrueTrackFill:   "#34c759",
	},
	"material": {
		FalseHandleFill: "#fafafa",
		FalseTrackFill:  "#9e9e9e",
		TrueHandleFill:  "#3f51b5",
		TrueTrackFill:   "#7986cb",
	},
	"traffic": {
		FalseHandleFill:  "#ffffff",
		FalseHandleImage: "stop.png",
		FalseTrackFill:   "#e06c75",
		TrueHandleFill:   "#ffffff",
		TrueHandleImage:  "go.png",
		TrueTrackFill:    "#4ec970",
	},
}

// PresetNames returns the available style preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(stylePresets))
	for n := range stylePresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func lookupPreset(name string) (PropertiesConfig, bool) {
	p, ok := stylePresets[strings.ToLower(name)]
	return p, ok
}

// Resolved returns the properties with the named preset applied underneath
// the explicit fields. An unknown preset is ignored.
func (p PropertiesConfig) Resolved() PropertiesConfig {
	base, ok := lookupPreset(p.Preset)
	if !ok {
		return p
	}
	out := p
	fill := func(dst *string, preset string) {
		if *dst == "" {
			*dst = preset
		}
	}
	fill(&out.FalseHandleFill, base.FalseHandleFill)
	fill(&out.FalseHandleImage, base.FalseHandleImage)
	fill(&out.FalseTrackFill, base.FalseTrackFill)
	fill(&out.TrueHandleFill, base.TrueHandleFill)
	fill(&out.TrueHandleImage, base.TrueHandleImage)
	fill(&out.TrueTrackFill, base.TrueTrackFill)
	return out
}

// Bag converts the properties into the loose property bag a host binds.
func (p PropertiesConfig) Bag() map[string]any {
	r := p.Resolved()
	bag := map[string]any{
		control.PropFalseHandleFill:  r.FalseHandleFill,
		control.PropFalseHandleImage: r.FalseHandleImage,
		control.PropFalseTrackFill:   r.FalseTrackFill,
		control.PropTrueHandleFill:   r.TrueHandleFill,
		control.PropTrueHandleImage:  r.TrueHandleImage,
		control.PropTrueTrackFill:    r.TrueTrackFill,
	}
	if r.Value != nil {
		bag[control.PropValue] = *r.Value
	}
	return bag
}
