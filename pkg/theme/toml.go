package theme

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name   string       `toml:"name"`
	Base   thTOMLBase   `toml:"base"`
	Frame  thTOMLFrame  `toml:"frame"`
	Switch thTOMLSwitch `toml:"switch"`
	Help   thTOMLHelp   `toml:"help"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLFrame struct {
	Border      string `toml:"border"`
	BorderFocus string `toml:"border_focus"`
}

type thTOMLSwitch struct {
	TrackOn   string `toml:"track_on"`
	TrackOff  string `toml:"track_off"`
	HandleOn  string `toml:"handle_on"`
	HandleOff string `toml:"handle_off"`
	Disabled  string `toml:"disabled"`
}

type thTOMLHelp struct {
	Key  string `toml:"key"`
	Desc string `toml:"desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		Border:      tt.Frame.Border,
		BorderFocus: tt.Frame.BorderFocus,

		TrackOn:   tt.Switch.TrackOn,
		TrackOff:  tt.Switch.TrackOff,
		HandleOn:  tt.Switch.HandleOn,
		HandleOff: tt.Switch.HandleOff,
		Disabled:  tt.Switch.Disabled,

		HelpKey:  tt.Help.Key,
		HelpDesc: tt.Help.Desc,
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}

	return t, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Base: thTOMLBase{
			Background: t.Background,
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
		},
		Frame: thTOMLFrame{
			Border:      t.Border,
			BorderFocus: t.BorderFocus,
		},
		Switch: thTOMLSwitch{
			TrackOn:   t.TrackOn,
			TrackOff:  t.TrackOff,
			HandleOn:  t.HandleOn,
			HandleOff: t.HandleOff,
			Disabled:  t.Disabled,
		},
		Help: thTOMLHelp{
			Key:  t.HelpKey,
			Desc: t.HelpDesc,
		},
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// thValidateTheme checks that the name is present and every color is a
// #RRGGBB hex value.
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}

	colorFields := []struct {
		field, value string
	}{
		{"background", t.Background},
		{"foreground", t.Foreground},
		{"dim", t.Dim},
		{"accent", t.Accent},
		{"border", t.Border},
		{"border_focus", t.BorderFocus},
		{"track_on", t.TrackOn},
		{"track_off", t.TrackOff},
		{"handle_on", t.HandleOn},
		{"handle_off", t.HandleOff},
		{"disabled", t.Disabled},
		{"help_key", t.HelpKey},
		{"help_desc", t.HelpDesc},
	}

	for _, c := range colorFields {
		if c.value == "" {
			return fmt.Errorf("theme: missing required field %q", c.field)
		}
		if !thHexColorRegex.MatchString(c.value) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", c.value, c.field)
		}
	}

	return nil
}
