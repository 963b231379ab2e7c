package gesture

import (
	"strings"
	"testing"

	"gioui.org/f32"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeActionBegin, "action_begin"},
		{TypeSingleTap, "single_tap"},
		{TypeMoreTap, "more_tap"},
		{TypeLongPress, "long_press"},
		{TypeDragFling, "drag_fling"},
		{TypePinchEnd, "pinch_end"},
		{Type(99), "unknown(99)"},
		{Type(-1), "unknown(-1)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("Type.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for typ := TypeActionBegin; typ <= TypePinchEnd; typ++ {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %v, %v", typ, got, err)
		}
	}
	if _, err := ParseType("swipe"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"all", ModeAll, false},
		{"", ModeAll, false},
		{"DRAG_ONLY", ModeDragOnly, false},
		{"drag-only", ModeDragOnly, false},
		{"pinch_only", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEventKey(t *testing.T) {
	pair := func(x0, y0, x1, y1 float32) []f32.Point {
		return []f32.Point{f32.Pt(x0, y0), f32.Pt(x1, y1)}
	}

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"single tap", Event{Type: TypeSingleTap, Count: 1}, "single_tap"},
		{"more tap", Event{Type: TypeMoreTap, Count: 4}, "more_tap"},
		{"fling left", Event{Type: TypeDragFling, Velocity: f32.Pt(-900, 100)}, "drag_fling_left"},
		{"fling right", Event{Type: TypeDragFling, Velocity: f32.Pt(900, -100)}, "drag_fling_right"},
		{"fling up", Event{Type: TypeDragFling, Velocity: f32.Pt(10, -400)}, "drag_fling_up"},
		{"fling down", Event{Type: TypeDragFling, Velocity: f32.Pt(10, 400)}, "drag_fling_down"},
		{"pinch in", Event{Type: TypePinchEnd, Start: pair(0, 0, 100, 0), Stop: pair(0, 0, 40, 0)}, "pinch_in"},
		{"pinch out", Event{Type: TypePinchEnd, Start: pair(0, 0, 40, 0), Stop: pair(0, 0, 100, 0)}, "pinch_out"},
		{"pinch unchanged", Event{Type: TypePinchEnd, Start: pair(0, 0, 40, 0), Stop: pair(5, 5, 45, 5)}, "pinch_end"},
		{"drag", Event{Type: TypeDrag}, "drag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeysAreKnown(t *testing.T) {
	for _, k := range Keys {
		if !IsKey(k) {
			t.Errorf("IsKey(%q) = false", k)
		}
	}
	if IsKey("pinch") {
		t.Error("IsKey(pinch) = true, pinch is not bindable")
	}
}

func TestEventString(t *testing.T) {
	e := Event{Type: TypeMoreTap, Count: 3}
	if s := e.String(); !strings.HasPrefix(s, "more_tap(3)") {
		t.Errorf("String() = %q", s)
	}
	fling := Event{Type: TypeDragFling, Start: []f32.Point{{}}, Stop: []f32.Point{{X: 10}}, Velocity: f32.Pt(1200, 0)}
	if s := fling.String(); !strings.Contains(s, "v=(1200,0)") {
		t.Errorf("String() = %q", s)
	}
}
