package gesture

import (
	"reflect"

	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

// registry is a copy-on-write listener list. Mutations build a new slice, so
// an iteration in flight keeps the list it started with.
type registry[L comparable] struct {
	items []L
}

// add panics when l's dynamic type is not comparable, since remove could
// not find it again
func (r *registry[L]) add(op string, l L) {
	if t := reflect.TypeOf(l); t != nil && !t.Comparable() {
		violate(op, "listener of type %s is not comparable; register a pointer", t)
	}
	next := make([]L, len(r.items), len(r.items)+1)
	copy(next, r.items)
	r.items = append(next, l)
}

func (r *registry[L]) remove(l L) bool {
	for i, item := range r.items {
		if item == l {
			next := make([]L, 0, len(r.items)-1)
			next = append(next, r.items[:i]...)
			r.items = append(next, r.items[i+1:]...)
			return true
		}
	}
	return false
}

func (r *registry[L]) each(fn func(L)) {
	for _, l := range r.items {
		fn(l)
	}
}

func (r *registry[L]) len() int {
	return len(r.items)
}

// Dispatcher fans recognized gestures out to the registered listeners and
// applies the enable flags. Taps and lifecycle callbacks are gated when they
// fire; drag and pinch sessions decide at Begin and keep that decision until
// their End.
type Dispatcher struct {
	lifecycle registry[LifecycleListener]
	taps      registry[TapListener]
	drags     registry[DragListener]
	pinches   registry[PinchListener]

	tapEnabled       bool
	longPressEnabled bool
	dragEnabled      bool
	pinchEnabled     bool

	dragSession  bool
	pinchSession bool
}

func newDispatcher() *Dispatcher {
	return &Dispatcher{
		tapEnabled:       true,
		longPressEnabled: true,
		dragEnabled:      true,
		pinchEnabled:     true,
	}
}

// Listen registers l with every listener family it implements. Listeners
// are told apart by ==, so l must be comparable; pointers always are.
func (d *Dispatcher) Listen(l any) {
	if v, ok := l.(LifecycleListener); ok {
		d.lifecycle.add("Listen", v)
	}
	if v, ok := l.(TapListener); ok {
		d.taps.add("Listen", v)
	}
	if v, ok := l.(DragListener); ok {
		d.drags.add("Listen", v)
	}
	if v, ok := l.(PinchListener); ok {
		d.pinches.add("Listen", v)
	}
}

// Unlisten removes l from every family it was registered with
func (d *Dispatcher) Unlisten(l any) {
	if v, ok := l.(LifecycleListener); ok {
		d.lifecycle.remove(v)
	}
	if v, ok := l.(TapListener); ok {
		d.taps.remove(v)
	}
	if v, ok := l.(DragListener); ok {
		d.drags.remove(v)
	}
	if v, ok := l.(PinchListener); ok {
		d.pinches.remove(v)
	}
}

// AddLifecycleListener registers l for action begin and end
func (d *Dispatcher) AddLifecycleListener(l LifecycleListener) {
	d.lifecycle.add("AddLifecycleListener", l)
}

// RemoveLifecycleListener unregisters l; unknown listeners are ignored
func (d *Dispatcher) RemoveLifecycleListener(l LifecycleListener) { d.lifecycle.remove(l) }

// AddTapListener registers l for taps, long taps and long presses
func (d *Dispatcher) AddTapListener(l TapListener) { d.taps.add("AddTapListener", l) }

// RemoveTapListener unregisters l; unknown listeners are ignored
func (d *Dispatcher) RemoveTapListener(l TapListener) { d.taps.remove(l) }

// AddDragListener registers l for drag sessions
func (d *Dispatcher) AddDragListener(l DragListener) { d.drags.add("AddDragListener", l) }

// RemoveDragListener unregisters l; unknown listeners are ignored
func (d *Dispatcher) RemoveDragListener(l DragListener) { d.drags.remove(l) }

// AddPinchListener registers l for pinch sessions
func (d *Dispatcher) AddPinchListener(l PinchListener) { d.pinches.add("AddPinchListener", l) }

// RemovePinchListener unregisters l; unknown listeners are ignored
func (d *Dispatcher) RemovePinchListener(l PinchListener) { d.pinches.remove(l) }

// SetTapEnabled gates single, double and more taps as they fire
func (d *Dispatcher) SetTapEnabled(on bool) { d.tapEnabled = on }

// SetLongPressEnabled gates long press and the long tap that follows it
func (d *Dispatcher) SetLongPressEnabled(on bool) { d.longPressEnabled = on }

// SetDragEnabled gates drag sessions starting after the call
func (d *Dispatcher) SetDragEnabled(on bool) { d.dragEnabled = on }

// SetPinchEnabled gates pinch sessions starting after the call
func (d *Dispatcher) SetPinchEnabled(on bool) { d.pinchEnabled = on }

// TapEnabled reports whether taps are dispatched
func (d *Dispatcher) TapEnabled() bool { return d.tapEnabled }

// LongPressEnabled reports whether long presses and long taps are dispatched
func (d *Dispatcher) LongPressEnabled() bool { return d.longPressEnabled }

// DragEnabled reports whether the next drag session will be dispatched
func (d *Dispatcher) DragEnabled() bool { return d.dragEnabled }

// PinchEnabled reports whether the next pinch session will be dispatched
func (d *Dispatcher) PinchEnabled() bool { return d.pinchEnabled }

func (d *Dispatcher) actionBegin(s pointer.Snapshot, target, context any) {
	d.lifecycle.each(func(l LifecycleListener) { l.OnActionBegin(s, target, context) })
}

func (d *Dispatcher) actionEnd(s pointer.Snapshot, target, context any) {
	d.lifecycle.each(func(l LifecycleListener) { l.OnActionEnd(s, target, context) })
}

func (d *Dispatcher) singleTap(s pointer.Snapshot, target, context any) {
	if !d.tapEnabled {
		return
	}
	d.taps.each(func(l TapListener) { l.OnSingleTap(s, target, context) })
}

func (d *Dispatcher) doubleTap(s pointer.Snapshot, target, context any) {
	if !d.tapEnabled {
		return
	}
	d.taps.each(func(l TapListener) { l.OnDoubleTap(s, target, context) })
}

func (d *Dispatcher) moreTap(s pointer.Snapshot, target, context any, taps int) {
	if !d.tapEnabled {
		return
	}
	d.taps.each(func(l TapListener) { l.OnMoreTap(s, target, context, taps) })
}

func (d *Dispatcher) longTap(s pointer.Snapshot, target, context any) {
	if !d.longPressEnabled {
		return
	}
	d.taps.each(func(l TapListener) { l.OnLongTap(s, target, context) })
}

func (d *Dispatcher) longPress(s pointer.Snapshot, target, context any) {
	if !d.longPressEnabled {
		return
	}
	d.taps.each(func(l TapListener) { l.OnLongPress(s, target, context) })
}

func (d *Dispatcher) dragBegin(s pointer.Snapshot, target, context any) {
	d.dragSession = d.dragEnabled
	if !d.dragSession {
		return
	}
	d.drags.each(func(l DragListener) { l.OnDragBegin(s, target, context) })
}

func (d *Dispatcher) drag(s pointer.Snapshot, target, context any, start, stop f32.Point) {
	if !d.dragSession {
		return
	}
	d.drags.each(func(l DragListener) { l.OnDrag(s, target, context, start, stop) })
}

func (d *Dispatcher) dragFling(s pointer.Snapshot, target, context any, start, stop f32.Point, vx, vy float32) {
	if !d.dragSession {
		return
	}
	d.drags.each(func(l DragListener) { l.OnDragFling(s, target, context, start, stop, vx, vy) })
}

func (d *Dispatcher) dragEnd(s pointer.Snapshot, target, context any, start, stop f32.Point) {
	if !d.dragSession {
		return
	}
	d.dragSession = false
	d.drags.each(func(l DragListener) { l.OnDragEnd(s, target, context, start, stop) })
}

func (d *Dispatcher) pinchBegin(s pointer.Snapshot, target, context any, start []f32.Point) {
	d.pinchSession = d.pinchEnabled
	if !d.pinchSession {
		return
	}
	d.pinches.each(func(l PinchListener) { l.OnPinchBegin(s, target, context, start) })
}

func (d *Dispatcher) pinch(s pointer.Snapshot, target, context any, start, stop []f32.Point) {
	if !d.pinchSession {
		return
	}
	d.pinches.each(func(l PinchListener) { l.OnPinch(s, target, context, start, stop) })
}

func (d *Dispatcher) pinchFling(s pointer.Snapshot, target, context any, start, stop []f32.Point, vx, vy float32) {
	if !d.pinchSession {
		return
	}
	d.pinches.each(func(l PinchListener) { l.OnPinchFling(s, target, context, start, stop, vx, vy) })
}

func (d *Dispatcher) pinchEnd(s pointer.Snapshot, target, context any, start, stop []f32.Point) {
	if !d.pinchSession {
		return
	}
	d.pinchSession = false
	d.pinches.each(func(l PinchListener) { l.OnPinchEnd(s, target, context, start, stop) })
}
