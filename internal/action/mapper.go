package action

import (
	"fmt"

	"github.com/pleimann/gesture-pad/internal/config"
	"github.com/pleimann/gesture-pad/internal/gesture"
)

// Mapper maps recognized gestures to key sequences based on configuration.
// Bindings are looked up by gesture.Event.Key, so a fling binds per
// direction and a finished pinch binds as pinch_in or pinch_out.
type Mapper struct {
	bindings map[string][]KeyPress
}

// NewMapper creates a mapper, rejecting bindings with unparseable keys
func NewMapper(cfg *config.Config) (*Mapper, error) {
	m := &Mapper{bindings: make(map[string][]KeyPress, len(cfg.Bindings))}
	for _, b := range cfg.Bindings {
		seq, err := ParseSequence(b.Keys)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.Gesture, err)
		}
		m.bindings[b.Gesture] = seq
	}
	return m, nil
}

// Map returns the key sequence for an event, or nil if not mapped
func (m *Mapper) Map(e gesture.Event) []KeyPress {
	return m.bindings[e.Key()]
}

// Len returns the number of bound gestures
func (m *Mapper) Len() int {
	return len(m.bindings)
}

// Reload updates the mapper with new configuration. The old bindings are
// kept when the new ones do not parse.
func (m *Mapper) Reload(cfg *config.Config) error {
	next, err := NewMapper(cfg)
	if err != nil {
		return err
	}
	m.bindings = next.bindings
	return nil
}
