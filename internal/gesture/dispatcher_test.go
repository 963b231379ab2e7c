package gesture

import (
	"errors"
	"reflect"
	"testing"

	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

func TestRegistryCopyOnWrite(t *testing.T) {
	d := newDispatcher()
	var calls []string

	second := &LifecycleFuncs{ActionBegin: func(pointer.Snapshot, any, any) { calls = append(calls, "second") }}
	late := &LifecycleFuncs{ActionBegin: func(pointer.Snapshot, any, any) { calls = append(calls, "late") }}
	var first *LifecycleFuncs
	first = &LifecycleFuncs{ActionBegin: func(pointer.Snapshot, any, any) {
		calls = append(calls, "first")
		// Mutating mid-dispatch must not disturb the iteration in flight
		d.RemoveLifecycleListener(first)
		d.RemoveLifecycleListener(second)
		d.AddLifecycleListener(late)
	}}

	d.AddLifecycleListener(first)
	d.AddLifecycleListener(second)

	d.actionBegin(pointer.Snapshot{}, nil, nil)
	if want := []string{"first", "second"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("first dispatch calls = %v, want %v", calls, want)
	}

	calls = nil
	d.actionBegin(pointer.Snapshot{}, nil, nil)
	if want := []string{"late"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("second dispatch calls = %v, want %v", calls, want)
	}
}

func TestRegistryRemoveUnknown(t *testing.T) {
	var r registry[TapListener]
	if r.remove(&TapFuncs{}) {
		t.Error("remove of an unregistered listener reported true")
	}
	l := &TapFuncs{}
	r.add("add", l)
	r.add("add", l)
	if !r.remove(l) || r.len() != 1 {
		t.Errorf("remove left %d listeners, want 1", r.len())
	}
}

func TestListenRegistersEveryFamily(t *testing.T) {
	d := newDispatcher()
	rec := NewRecorder()
	d.Listen(rec)

	s := pointer.Snapshot{}
	d.actionBegin(s, nil, nil)
	d.singleTap(s, nil, nil)
	d.dragBegin(s, nil, nil)
	d.pinchBegin(s, nil, nil, []f32.Point{{}, {}})
	want := []Type{TypeActionBegin, TypeSingleTap, TypeDragBegin, TypePinchBegin}
	if got := rec.Types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("types = %v, want %v", got, want)
	}

	d.Unlisten(rec)
	rec.Reset()
	d.actionEnd(s, nil, nil)
	d.doubleTap(s, nil, nil)
	if got := rec.Types(); len(got) != 0 {
		t.Errorf("after Unlisten got %v", got)
	}
}

// sliceLifecycle is a value listener whose type cannot be compared with ==
type sliceLifecycle struct {
	seen []string
}

func (sliceLifecycle) OnActionBegin(pointer.Snapshot, any, any) {}
func (sliceLifecycle) OnActionEnd(pointer.Snapshot, any, any)   {}

func TestUncomparableListenerRejected(t *testing.T) {
	tests := []struct {
		name string
		run  func(d *Dispatcher)
	}{
		{"Listen", func(d *Dispatcher) { d.Listen(sliceLifecycle{}) }},
		{"AddLifecycleListener", func(d *Dispatcher) { d.AddLifecycleListener(sliceLifecycle{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDispatcher()
			func() {
				defer func() {
					err, _ := recover().(error)
					var ce *ContractError
					if !errors.As(err, &ce) || ce.Op != tt.name {
						t.Fatalf("recovered %v, want *ContractError from %s", err, tt.name)
					}
				}()
				tt.run(d)
			}()
			if d.lifecycle.len() != 0 {
				t.Errorf("rejected listener was registered")
			}
			// Removing a value of the same type is a no-op, not a panic
			d.Unlisten(sliceLifecycle{})
		})
	}

	d := newDispatcher()
	l := &sliceLifecycle{}
	d.Listen(l)
	d.Unlisten(l)
	if d.lifecycle.len() != 0 {
		t.Errorf("pointer listener not removed, %d left", d.lifecycle.len())
	}
}

func TestLongPressGating(t *testing.T) {
	tests := []struct {
		name      string
		tap       bool
		longPress bool
		want      []Type
	}{
		{"all enabled", true, true, []Type{TypeSingleTap, TypeLongTap, TypeLongPress}},
		{"taps off", false, true, []Type{TypeLongTap, TypeLongPress}},
		{"long press off", true, false, []Type{TypeSingleTap}},
		{"both off", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDispatcher()
			rec := NewRecorder()
			d.Listen(rec)
			d.SetTapEnabled(tt.tap)
			d.SetLongPressEnabled(tt.longPress)

			s := pointer.Snapshot{}
			d.singleTap(s, nil, nil)
			d.longTap(s, nil, nil)
			d.longPress(s, nil, nil)

			if got := rec.Types(); !reflect.DeepEqual(got, tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Errorf("types = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPinchLatchedAtBegin(t *testing.T) {
	d := newDispatcher()
	rec := NewRecorder()
	d.Listen(rec)
	pair := []f32.Point{{}, {X: 10}}
	s := pointer.Snapshot{}

	d.pinchBegin(s, nil, nil, pair)
	d.SetPinchEnabled(false)
	d.pinch(s, nil, nil, pair, pair)
	d.pinchEnd(s, nil, nil, pair, pair)

	// The next session sees the flag
	d.pinchBegin(s, nil, nil, pair)
	d.pinchEnd(s, nil, nil, pair, pair)

	want := []Type{TypePinchBegin, TypePinch, TypePinchEnd}
	if got := rec.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("types = %v, want %v", got, want)
	}
}

func TestFuncAdaptersSkipNil(t *testing.T) {
	s := pointer.Snapshot{}
	(&TapFuncs{}).OnMoreTap(s, nil, nil, 3)
	(&DragFuncs{}).OnDragFling(s, nil, nil, f32.Point{}, f32.Point{}, 1, 1)
	(&PinchFuncs{}).OnPinchEnd(s, nil, nil, nil, nil)
	(&LifecycleFuncs{}).OnActionEnd(s, nil, nil)

	var taps int
	f := &TapFuncs{MoreTap: func(_ pointer.Snapshot, _, _ any, n int) { taps = n }}
	f.OnMoreTap(s, nil, nil, 4)
	if taps != 4 {
		t.Errorf("MoreTap got %d, want 4", taps)
	}
}
