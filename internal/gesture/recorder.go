package gesture

import (
	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

// Funnel implements every listener family and turns each callback into an
// Event handed to one function.
type Funnel struct {
	emit func(Event)
}

// NewFunnel creates a funnel calling emit for every callback
func NewFunnel(emit func(Event)) *Funnel {
	return &Funnel{emit: emit}
}

func (f *Funnel) send(t Type, s pointer.Snapshot, target, context any, fill func(*Event)) {
	e := Event{Type: t, Snapshot: s, Target: target, Context: context}
	if fill != nil {
		fill(&e)
	}
	f.emit(e)
}

func (f *Funnel) OnActionBegin(s pointer.Snapshot, target, context any) {
	f.send(TypeActionBegin, s, target, context, nil)
}

func (f *Funnel) OnActionEnd(s pointer.Snapshot, target, context any) {
	f.send(TypeActionEnd, s, target, context, nil)
}

func (f *Funnel) OnSingleTap(s pointer.Snapshot, target, context any) {
	f.send(TypeSingleTap, s, target, context, func(e *Event) { e.Count = 1 })
}

func (f *Funnel) OnDoubleTap(s pointer.Snapshot, target, context any) {
	f.send(TypeDoubleTap, s, target, context, func(e *Event) { e.Count = 2 })
}

func (f *Funnel) OnMoreTap(s pointer.Snapshot, target, context any, taps int) {
	f.send(TypeMoreTap, s, target, context, func(e *Event) { e.Count = taps })
}

func (f *Funnel) OnLongTap(s pointer.Snapshot, target, context any) {
	f.send(TypeLongTap, s, target, context, nil)
}

func (f *Funnel) OnLongPress(s pointer.Snapshot, target, context any) {
	f.send(TypeLongPress, s, target, context, nil)
}

func (f *Funnel) OnDragBegin(s pointer.Snapshot, target, context any) {
	f.send(TypeDragBegin, s, target, context, nil)
}

func (f *Funnel) OnDrag(s pointer.Snapshot, target, context any, start, stop f32.Point) {
	f.send(TypeDrag, s, target, context, func(e *Event) {
		e.Start, e.Stop = []f32.Point{start}, []f32.Point{stop}
	})
}

func (f *Funnel) OnDragFling(s pointer.Snapshot, target, context any, start, stop f32.Point, vx, vy float32) {
	f.send(TypeDragFling, s, target, context, func(e *Event) {
		e.Start, e.Stop = []f32.Point{start}, []f32.Point{stop}
		e.Velocity = f32.Pt(vx, vy)
	})
}

func (f *Funnel) OnDragEnd(s pointer.Snapshot, target, context any, start, stop f32.Point) {
	f.send(TypeDragEnd, s, target, context, func(e *Event) {
		e.Start, e.Stop = []f32.Point{start}, []f32.Point{stop}
	})
}

func (f *Funnel) OnPinchBegin(s pointer.Snapshot, target, context any, start []f32.Point) {
	f.send(TypePinchBegin, s, target, context, func(e *Event) {
		e.Start = append([]f32.Point(nil), start...)
	})
}

func (f *Funnel) OnPinch(s pointer.Snapshot, target, context any, start, stop []f32.Point) {
	f.send(TypePinch, s, target, context, func(e *Event) {
		e.Start, e.Stop = append([]f32.Point(nil), start...), append([]f32.Point(nil), stop...)
	})
}

func (f *Funnel) OnPinchFling(s pointer.Snapshot, target, context any, start, stop []f32.Point, vx, vy float32) {
	f.send(TypePinchFling, s, target, context, func(e *Event) {
		e.Start, e.Stop = append([]f32.Point(nil), start...), append([]f32.Point(nil), stop...)
		e.Velocity = f32.Pt(vx, vy)
	})
}

func (f *Funnel) OnPinchEnd(s pointer.Snapshot, target, context any, start, stop []f32.Point) {
	f.send(TypePinchEnd, s, target, context, func(e *Event) {
		e.Start, e.Stop = append([]f32.Point(nil), start...), append([]f32.Point(nil), stop...)
	})
}

// Recorder collects every callback as an Event
type Recorder struct {
	*Funnel
	events []Event
}

func NewRecorder() *Recorder {
	r := &Recorder{}
	r.Funnel = NewFunnel(func(e Event) { r.events = append(r.events, e) })
	return r
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	return append([]Event(nil), r.events...)
}

// Types returns the types of the recorded events in order
func (r *Recorder) Types() []Type {
	types := make([]Type, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

// Reset forgets the recorded events
func (r *Recorder) Reset() {
	r.events = nil
}
