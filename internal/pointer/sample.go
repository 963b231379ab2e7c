package pointer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gioui.org/f32"
)

// ID identifies one pointer (finger) for as long as it stays down
type ID int32

// Action is the kind of change a raw sample reports
type Action uint8

const (
	Down        Action = iota // first pointer went down
	PointerDown               // an additional pointer went down
	Move                      // one or more pointers moved
	PointerUp                 // a non-last pointer lifted
	Up                        // the last pointer lifted
	Cancel                    // the source aborted the sequence
)

var actionNames = [...]string{
	Down:        "down",
	PointerDown: "pointer_down",
	Move:        "move",
	PointerUp:   "pointer_up",
	Up:          "up",
	Cancel:      "cancel",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("unknown(%d)", a)
}

// ParseAction parses the lower-case name returned by String
func ParseAction(s string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("unknown pointer action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	if int(a) >= len(actionNames) {
		return nil, fmt.Errorf("unknown pointer action %d", a)
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// lifts reports whether the changed pointer leaves the surface
func (a Action) lifts() bool {
	return a == PointerUp || a == Up
}

// Pointer is one contact at the time of a sample
type Pointer struct {
	ID       ID
	Position f32.Point
}

// Sample is one raw event from a pointer source. Pointers holds every pointer
// involved, including the one lifting on PointerUp and Up. Index is the index
// of the changed pointer for Down, PointerDown, PointerUp and Up, -1 otherwise.
type Sample struct {
	Action   Action
	Index    int
	Pointers []Pointer
	Time     time.Duration
}

// Validate reports a malformed sample
func (s Sample) Validate() error {
	if int(s.Action) >= len(actionNames) {
		return fmt.Errorf("unknown action %d", s.Action)
	}
	if len(s.Pointers) == 0 {
		return errors.New("sample has no pointers")
	}
	seen := make(map[ID]struct{}, len(s.Pointers))
	for _, p := range s.Pointers {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate pointer id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	switch s.Action {
	case Down, PointerDown, PointerUp, Up:
		if s.Index < 0 || s.Index >= len(s.Pointers) {
			return fmt.Errorf("%s index %d out of range [0,%d)", s.Action, s.Index, len(s.Pointers))
		}
	}
	if (s.Action == PointerDown || s.Action == PointerUp) && len(s.Pointers) < 2 {
		return fmt.Errorf("%s needs at least two pointers, got %d", s.Action, len(s.Pointers))
	}
	return nil
}

// Count returns the number of pointers in the sample
func (s Sample) Count() int {
	return len(s.Pointers)
}

// DownCount returns the number of pointers still down after the sample
func (s Sample) DownCount() int {
	if s.Action.lifts() {
		return len(s.Pointers) - 1
	}
	return len(s.Pointers)
}

// Changed returns the pointer the action refers to
func (s Sample) Changed() (Pointer, bool) {
	if s.Index < 0 || s.Index >= len(s.Pointers) {
		return Pointer{}, false
	}
	return s.Pointers[s.Index], true
}

// Lifted returns the pointer leaving the surface on PointerUp or Up
func (s Sample) Lifted() (Pointer, bool) {
	if !s.Action.lifts() {
		return Pointer{}, false
	}
	return s.Changed()
}

// Down returns the pointers still down after the sample, in sample order
func (s Sample) Down() []Pointer {
	down := make([]Pointer, 0, len(s.Pointers))
	for i, p := range s.Pointers {
		if s.Action.lifts() && i == s.Index {
			continue
		}
		down = append(down, p)
	}
	return down
}

// Find looks up a pointer by id
func (s Sample) Find(id ID) (Pointer, bool) {
	for _, p := range s.Pointers {
		if p.ID == id {
			return p, true
		}
	}
	return Pointer{}, false
}

func (s Sample) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s@%s[", s.Action, s.Time)
	for i, p := range s.Pointers {
		if i > 0 {
			sb.WriteString(" ")
		}
		if i == s.Index {
			sb.WriteString("*")
		}
		fmt.Fprintf(&sb, "%d:(%.1f,%.1f)", p.ID, p.Position.X, p.Position.Y)
	}
	sb.WriteString("]")
	return sb.String()
}
