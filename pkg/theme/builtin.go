package theme

// palette is the small set of base colors a built-in theme is derived from.
// Frame, track and help colors reuse the same few entries, so each built-in
// only names what differs.
type palette struct {
	name    string
	bg, fg  string
	dim     string
	accent  string
	surface string // unfocused border and off track
	on      string // on track
	knobOn  string
	knobOff string
}

func (p palette) theme() Theme {
	return Theme{
		Name:        p.name,
		Background:  p.bg,
		Foreground:  p.fg,
		Dim:         p.dim,
		Accent:      p.accent,
		Border:      p.surface,
		BorderFocus: p.accent,
		TrackOn:     p.on,
		TrackOff:    p.surface,
		HandleOn:    p.knobOn,
		HandleOff:   p.knobOff,
		Disabled:    p.dim,
		HelpKey:     p.accent,
		HelpDesc:    p.dim,
	}
}

var builtinPalettes = []palette{
	{name: "default", bg: "#1e1e1e", fg: "#d4d4d4", dim: "#6b6b6b", accent: "#7C3AED", surface: "#3e3e3e", on: "#4ec970", knobOn: "#ffffff", knobOff: "#d4d4d4"},
	{name: "gruvbox", bg: "#282828", fg: "#ebdbb2", dim: "#928374", accent: "#fe8019", surface: "#504945", on: "#b8bb26", knobOn: "#fbf1c7", knobOff: "#ebdbb2"},
	{name: "nord", bg: "#2e3440", fg: "#eceff4", dim: "#4c566a", accent: "#88c0d0", surface: "#3b4252", on: "#a3be8c", knobOn: "#eceff4", knobOff: "#d8dee9"},
	{name: "catppuccin", bg: "#1e1e2e", fg: "#cdd6f4", dim: "#6c7086", accent: "#cba6f7", surface: "#313244", on: "#a6e3a1", knobOn: "#cdd6f4", knobOff: "#bac2de"},
	{name: "dracula", bg: "#282a36", fg: "#f8f8f2", dim: "#6272a4", accent: "#bd93f9", surface: "#44475a", on: "#50fa7b", knobOn: "#f8f8f2", knobOff: "#f8f8f2"},
	{name: "tokyo-night", bg: "#1a1b26", fg: "#c0caf5", dim: "#565f89", accent: "#7aa2f7", surface: "#292e42", on: "#9ece6a", knobOn: "#c0caf5", knobOff: "#a9b1d6"},
}

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, p := range builtinPalettes {
		thRegister(p.theme())
	}
}
