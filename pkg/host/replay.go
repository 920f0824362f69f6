package host

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/styled-switch/pkg/geometry"
	"gitlab.com/tinyland/lab/styled-switch/pkg/snapshot"
	"gitlab.com/tinyland/lab/styled-switch/pkg/view"
)

// ErrEmptyScript is returned when a script has no steps.
var ErrEmptyScript = errors.New("host: script has no steps")

// Extent is a width and height in cells.
type Extent struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Script drives a control without a terminal. Properties and State seed the
// mount; each step then patches the host state and pushes one snapshot.
type Script struct {
	Name       string         `yaml:"name"`
	Container  Extent         `yaml:"container"`
	Parent     *Extent        `yaml:"parent"`
	Properties map[string]any `yaml:"properties"`
	State      map[string]any `yaml:"state"`
	Disabled   bool           `yaml:"disabled"`
	Hidden     bool           `yaml:"hidden"`
	Allocate   *Extent        `yaml:"allocate"`
	Steps      []Step         `yaml:"steps"`
}

// Step is one host-side change followed by an UpdateView. A nil entry in
// Set removes the property from the bag.
type Step struct {
	Name      string         `yaml:"name"`
	Set       map[string]any `yaml:"set"`
	Disabled  *bool          `yaml:"disabled"`
	Visible   *bool          `yaml:"visible"`
	Allocate  *Extent        `yaml:"allocate"`
	Container *Extent        `yaml:"container"`

	// Toggle simulates a user toggle before the snapshot is pushed. The
	// host reads the outputs back into the bag first, as it would after a
	// real output notification.
	Toggle bool `yaml:"toggle"`
}

// StepReport records what one step caused.
type StepReport struct {
	Name            string         `yaml:"name"`
	Published       map[string]int `yaml:"published,omitempty"`
	Value           string         `yaml:"value"`
	Size            string         `yaml:"size"`
	RenderRequested bool           `yaml:"render_requested,omitempty"`
	Error           string         `yaml:"error,omitempty"`
}

// Report is the result of a replay.
type Report struct {
	Script  string       `yaml:"script"`
	Mount   StepReport   `yaml:"mount"`
	Steps   []StepReport `yaml:"steps"`
	Outputs int          `yaml:"outputs"`
	Final   string       `yaml:"final"`
}

// Failed reports whether any step returned an error.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Error != "" {
			return true
		}
	}
	return false
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("host: encode report: %w", err)
	}
	return enc.Close()
}

// ParseScript decodes a YAML script. Unknown fields are rejected.
func ParseScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("host: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	return &s, nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("host: open script: %w", err)
	}
	defer f.Close()
	return ParseScript(f)
}

// Replay mounts a control, runs every step, and destroys it. Handler
// failures are recorded per step and do not stop the replay; only a failed
// mount is returned as an error.
func Replay(s *Script, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(s.Steps) == 0 {
		return nil, ErrEmptyScript
	}

	container := &geometry.Box{Width: s.Container.Width, Height: s.Container.Height}
	if s.Parent != nil {
		container.Up = &geometry.Box{Width: s.Parent.Width, Height: s.Parent.Height}
	}

	in := newInstance(s.Properties, container, logger.With("script", s.Name))
	if in.bag == nil {
		in.bag = map[string]any{}
	}
	in.disabled = s.Disabled
	in.hidden = s.Hidden
	if s.Allocate != nil {
		in.allocW, in.allocH = s.Allocate.Width, s.Allocate.Height
	}

	if err := in.mount(view.Options{Logger: logger}, s.State); err != nil {
		return nil, fmt.Errorf("host: mount: %w", err)
	}
	defer in.destroy()

	report := &Report{
		Script: s.Name,
		Mount: StepReport{
			Name:            "mount",
			Value:           in.sw.Value().String(),
			Size:            in.sw.Styles().Size().String(),
			RenderRequested: in.takeRenderRequest(),
		},
	}

	for i, step := range s.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		report.Steps = append(report.Steps, runStep(in, name, step))
	}

	report.Outputs = in.outputs
	report.Final = in.ctrl.GetOutputs().Value.String()
	return report, nil
}

func runStep(in *instance, name string, step Step) StepReport {
	for k, v := range step.Set {
		if v == nil {
			delete(in.bag, k)
			continue
		}
		in.bag[k] = v
	}
	if step.Disabled != nil {
		in.disabled = *step.Disabled
	}
	if step.Visible != nil {
		in.hidden = !*step.Visible
	}
	if step.Allocate != nil {
		in.allocW, in.allocH = step.Allocate.Width, step.Allocate.Height
	}
	if step.Container != nil {
		in.container.Width, in.container.Height = step.Container.Width, step.Container.Height
	}

	before := in.sw.Renders()
	if step.Toggle && in.sw.Toggle() && in.outputPending {
		in.commitOutput()
	}
	err := in.update()

	rep := StepReport{
		Name:      name,
		Published: publishedSince(before, in.sw.Renders()),
		Value:     in.sw.Value().String(),
		Size:      in.sw.Styles().Size().String(),

		RenderRequested: in.takeRenderRequest(),
	}
	if err != nil {
		rep.Error = err.Error()
	}
	return rep
}

func publishedSince(before, after map[snapshot.Aspect]int) map[string]int {
	out := map[string]int{}
	for _, a := range snapshot.Aspects {
		if n := after[a] - before[a]; n > 0 {
			out[a.String()] = n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
