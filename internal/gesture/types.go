package gesture

import (
	"fmt"
	"strings"

	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/geometry"
	"github.com/pleimann/gesture-pad/internal/pointer"
)

// Type identifies a recognized gesture callback
type Type int

const (
	TypeActionBegin Type = iota
	TypeActionEnd
	TypeSingleTap
	TypeDoubleTap
	TypeMoreTap
	TypeLongTap
	TypeLongPress
	TypeDragBegin
	TypeDrag
	TypeDragFling
	TypeDragEnd
	TypePinchBegin
	TypePinch
	TypePinchFling
	TypePinchEnd
)

var typeNames = [...]string{
	TypeActionBegin: "action_begin",
	TypeActionEnd:   "action_end",
	TypeSingleTap:   "single_tap",
	TypeDoubleTap:   "double_tap",
	TypeMoreTap:     "more_tap",
	TypeLongTap:     "long_tap",
	TypeLongPress:   "long_press",
	TypeDragBegin:   "drag_begin",
	TypeDrag:        "drag",
	TypeDragFling:   "drag_fling",
	TypeDragEnd:     "drag_end",
	TypePinchBegin:  "pinch_begin",
	TypePinch:       "pinch",
	TypePinchFling:  "pinch_fling",
	TypePinchEnd:    "pinch_end",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// ParseType parses the name returned by String
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown gesture type %q", s)
}

// Event is one dispatched callback in value form
type Event struct {
	Type     Type
	Snapshot pointer.Snapshot
	Target   any
	Context  any

	// Count is the number of taps for tap events
	Count int
	// Start and Stop hold one point for drag events and the anchor pair for
	// pinch events
	Start []f32.Point
	Stop  []f32.Point
	// Velocity in px/s, set for fling events
	Velocity f32.Point
}

// Name returns the gesture name used by bindings
func (e Event) Name() string {
	return e.Type.String()
}

// Transform returns the pinch transform carried by a pinch event
func (e Event) Transform() (geometry.Transform, bool) {
	if len(e.Start) < 2 || len(e.Stop) < 2 {
		return geometry.Identity, false
	}
	return geometry.PinchTransform(e.Start, e.Stop), true
}

// Key returns the binding key of the event. Flings carry their dominant
// direction and a finished pinch whether it closed or opened; every other
// event is keyed by its name.
func (e Event) Key() string {
	switch e.Type {
	case TypeDragFling:
		return "drag_fling_" + direction(e.Velocity)
	case TypePinchEnd:
		tr, ok := e.Transform()
		if !ok || tr.ScaleX == 1 {
			return e.Name()
		}
		if tr.ScaleX < 1 {
			return "pinch_in"
		}
		return "pinch_out"
	}
	return e.Name()
}

// Keys lists every key Event.Key can produce for a binding
var Keys = []string{
	"single_tap", "double_tap", "more_tap", "long_tap", "long_press",
	"drag_fling_left", "drag_fling_right", "drag_fling_up", "drag_fling_down",
	"pinch_in", "pinch_out",
}

// IsKey reports whether s names a bindable gesture
func IsKey(s string) bool {
	for _, k := range Keys {
		if k == s {
			return true
		}
	}
	return false
}

func direction(v f32.Point) string {
	if abs(v.X) >= abs(v.Y) {
		if v.X < 0 {
			return "left"
		}
		return "right"
	}
	// Screen coordinates grow downwards
	if v.Y < 0 {
		return "up"
	}
	return "down"
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func (e Event) String() string {
	var sb strings.Builder
	sb.WriteString(e.Name())
	switch e.Type {
	case TypeSingleTap, TypeDoubleTap, TypeMoreTap:
		fmt.Fprintf(&sb, "(%d)", e.Count)
	case TypeDrag, TypeDragEnd, TypeDragFling:
		if len(e.Start) > 0 && len(e.Stop) > 0 {
			fmt.Fprintf(&sb, "(%.1f,%.1f -> %.1f,%.1f)", e.Start[0].X, e.Start[0].Y, e.Stop[0].X, e.Stop[0].Y)
		}
	case TypePinch, TypePinchEnd, TypePinchFling:
		if tr, ok := e.Transform(); ok {
			fmt.Fprintf(&sb, "(%s)", tr)
		}
	}
	if e.Type == TypeDragFling || e.Type == TypePinchFling {
		fmt.Fprintf(&sb, " v=(%.0f,%.0f)", e.Velocity.X, e.Velocity.Y)
	}
	fmt.Fprintf(&sb, " @(%.1f,%.1f)", e.Snapshot.Focus.X, e.Snapshot.Focus.Y)
	return sb.String()
}
