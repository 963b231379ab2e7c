package trace

import (
	"fmt"
	"os"
	"time"

	"gioui.org/f32"
	"gopkg.in/yaml.v3"

	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/pointer"
)

// Trace is a recorded pointer sequence with the gestures it should produce
type Trace struct {
	Name       string `yaml:"name,omitempty"`
	Mode       string `yaml:"mode,omitempty"`
	Multitouch *bool  `yaml:"multitouch,omitempty"`
	Steps      []Step `yaml:"samples"`
	// Expect lists gesture names in the order they must be recognized.
	// Recognized events whose name is not listed are ignored when checking.
	Expect []string `yaml:"expect,omitempty"`
}

// Step is one sample in file form. Changed names the pointer a down or up
// action refers to.
type Step struct {
	AtMs     int64          `yaml:"at_ms"`
	Action   pointer.Action `yaml:"action"`
	Changed  *pointer.ID    `yaml:"changed,omitempty"`
	Pointers []Point        `yaml:"pointers,flow"`
}

// Point is one pointer position in a step
type Point struct {
	ID pointer.ID `yaml:"id"`
	X  float32    `yaml:"x"`
	Y  float32    `yaml:"y"`
}

// Load reads a trace from a YAML file
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	tr, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// Parse decodes and validates a trace
func Parse(data []byte) (*Trace, error) {
	var tr Trace
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Save writes the trace as YAML
func (tr *Trace) Save(path string) error {
	data, err := yaml.Marshal(tr)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trace file: %w", err)
	}
	return nil
}

// Validate checks every step and that time never goes backwards
func (tr *Trace) Validate() error {
	if len(tr.Steps) == 0 {
		return fmt.Errorf("trace has no samples")
	}
	if _, err := gesture.ParseMode(tr.Mode); err != nil {
		return err
	}
	var last int64
	for i, st := range tr.Steps {
		if st.AtMs < last {
			return fmt.Errorf("sample %d: time %dms before previous %dms", i, st.AtMs, last)
		}
		last = st.AtMs
		if _, err := st.Sample(); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	for _, name := range tr.Expect {
		if _, err := gesture.ParseType(name); err != nil && !gesture.IsKey(name) {
			return fmt.Errorf("expect: unknown gesture %q", name)
		}
	}
	return nil
}

// Samples converts every step
func (tr *Trace) Samples() ([]pointer.Sample, error) {
	out := make([]pointer.Sample, len(tr.Steps))
	for i, st := range tr.Steps {
		s, err := st.Sample()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// Duration returns the time of the last step
func (tr *Trace) Duration() time.Duration {
	if len(tr.Steps) == 0 {
		return 0
	}
	return time.Duration(tr.Steps[len(tr.Steps)-1].AtMs) * time.Millisecond
}

// Sample converts the step to a validated pointer sample
func (st Step) Sample() (pointer.Sample, error) {
	s := pointer.Sample{
		Action:   st.Action,
		Index:    -1,
		Pointers: make([]pointer.Pointer, len(st.Pointers)),
		Time:     time.Duration(st.AtMs) * time.Millisecond,
	}
	for i, p := range st.Pointers {
		s.Pointers[i] = pointer.Pointer{ID: p.ID, Position: f32.Pt(p.X, p.Y)}
	}

	switch st.Action {
	case pointer.Down, pointer.PointerDown, pointer.PointerUp, pointer.Up:
		if st.Changed == nil {
			if len(st.Pointers) != 1 {
				return pointer.Sample{}, fmt.Errorf("%s needs a changed pointer", st.Action)
			}
			s.Index = 0
			break
		}
		for i, p := range st.Pointers {
			if p.ID == *st.Changed {
				s.Index = i
			}
		}
		if s.Index < 0 {
			return pointer.Sample{}, fmt.Errorf("changed pointer %d not in sample", *st.Changed)
		}
	}

	if err := s.Validate(); err != nil {
		return pointer.Sample{}, err
	}
	return s, nil
}

// StepOf converts a pointer sample to file form
func StepOf(s pointer.Sample) Step {
	st := Step{
		AtMs:     s.Time.Milliseconds(),
		Action:   s.Action,
		Pointers: make([]Point, len(s.Pointers)),
	}
	for i, p := range s.Pointers {
		st.Pointers[i] = Point{ID: p.ID, X: p.Position.X, Y: p.Position.Y}
	}
	if p, ok := s.Changed(); ok {
		id := p.ID
		st.Changed = &id
	}
	return st
}
