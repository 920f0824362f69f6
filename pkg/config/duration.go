package config

import (
	"fmt"
	"time"
)

// Duration is a non-negative time.Duration in the config file. It accepts a
// Go duration string ("250ms", "2s") or a bare integer of milliseconds.
type Duration struct {
	time.Duration
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Duration) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		return d.UnmarshalText([]byte(x))
	case int64:
		if x < 0 {
			return fmt.Errorf("config: negative duration %dms", x)
		}
		d.Duration = time.Duration(x) * time.Millisecond
		return nil
	default:
		return fmt.Errorf("config: duration must be a string or milliseconds, got %T", v)
	}
}

// UnmarshalText parses a Go duration string. Environment overrides come in
// through here as well. The empty string means zero.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	switch {
	case err != nil:
		return fmt.Errorf("config: duration %q: %w", text, err)
	case parsed < 0:
		return fmt.Errorf("config: negative duration %q", text)
	}
	d.Duration = parsed
	return nil
}

// MarshalText writes the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Or returns the duration, or fallback when it is not positive.
func (d Duration) Or(fallback time.Duration) time.Duration {
	if d.Duration > 0 {
		return d.Duration
	}
	return fallback
}
