package gesture

import (
	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

// LifecycleListener observes touch sessions: ActionBegin when the first
// pointer goes down, ActionEnd once the session is over.
type LifecycleListener interface {
	OnActionBegin(s pointer.Snapshot, target, context any)
	OnActionEnd(s pointer.Snapshot, target, context any)
}

// TapListener observes committed taps and long presses
type TapListener interface {
	OnSingleTap(s pointer.Snapshot, target, context any)
	OnDoubleTap(s pointer.Snapshot, target, context any)
	OnMoreTap(s pointer.Snapshot, target, context any, taps int)
	OnLongTap(s pointer.Snapshot, target, context any)
	OnLongPress(s pointer.Snapshot, target, context any)
}

// DragListener observes single pointer drags
type DragListener interface {
	OnDragBegin(s pointer.Snapshot, target, context any)
	OnDrag(s pointer.Snapshot, target, context any, start, stop f32.Point)
	OnDragFling(s pointer.Snapshot, target, context any, start, stop f32.Point, vx, vy float32)
	OnDragEnd(s pointer.Snapshot, target, context any, start, stop f32.Point)
}

// PinchListener observes two pointer pinches. Start and stop hold the anchor
// pair positions.
type PinchListener interface {
	OnPinchBegin(s pointer.Snapshot, target, context any, start []f32.Point)
	OnPinch(s pointer.Snapshot, target, context any, start, stop []f32.Point)
	OnPinchFling(s pointer.Snapshot, target, context any, start, stop []f32.Point, vx, vy float32)
	OnPinchEnd(s pointer.Snapshot, target, context any, start, stop []f32.Point)
}

// LifecycleFuncs adapts functions to LifecycleListener. Nil fields are
// skipped. Register it by pointer so it can be removed again.
type LifecycleFuncs struct {
	ActionBegin func(s pointer.Snapshot, target, context any)
	ActionEnd   func(s pointer.Snapshot, target, context any)
}

func (f *LifecycleFuncs) OnActionBegin(s pointer.Snapshot, target, context any) {
	if f.ActionBegin != nil {
		f.ActionBegin(s, target, context)
	}
}

func (f *LifecycleFuncs) OnActionEnd(s pointer.Snapshot, target, context any) {
	if f.ActionEnd != nil {
		f.ActionEnd(s, target, context)
	}
}

// TapFuncs adapts functions to TapListener
type TapFuncs struct {
	SingleTap func(s pointer.Snapshot, target, context any)
	DoubleTap func(s pointer.Snapshot, target, context any)
	MoreTap   func(s pointer.Snapshot, target, context any, taps int)
	LongTap   func(s pointer.Snapshot, target, context any)
	LongPress func(s pointer.Snapshot, target, context any)
}

func (f *TapFuncs) OnSingleTap(s pointer.Snapshot, target, context any) {
	if f.SingleTap != nil {
		f.SingleTap(s, target, context)
	}
}

func (f *TapFuncs) OnDoubleTap(s pointer.Snapshot, target, context any) {
	if f.DoubleTap != nil {
		f.DoubleTap(s, target, context)
	}
}

func (f *TapFuncs) OnMoreTap(s pointer.Snapshot, target, context any, taps int) {
	if f.MoreTap != nil {
		f.MoreTap(s, target, context, taps)
	}
}

func (f *TapFuncs) OnLongTap(s pointer.Snapshot, target, context any) {
	if f.LongTap != nil {
		f.LongTap(s, target, context)
	}
}

func (f *TapFuncs) OnLongPress(s pointer.Snapshot, target, context any) {
	if f.LongPress != nil {
		f.LongPress(s, target, context)
	}
}

// DragFuncs adapts functions to DragListener
type DragFuncs struct {
	DragBegin func(s pointer.Snapshot, target, context any)
	Drag      func(s pointer.Snapshot, target, context any, start, stop f32.Point)
	DragFling func(s pointer.Snapshot, target, context any, start, stop f32.Point, vx, vy float32)
	DragEnd   func(s pointer.Snapshot, target, context any, start, stop f32.Point)
}

func (f *DragFuncs) OnDragBegin(s pointer.Snapshot, target, context any) {
	if f.DragBegin != nil {
		f.DragBegin(s, target, context)
	}
}

func (f *DragFuncs) OnDrag(s pointer.Snapshot, target, context any, start, stop f32.Point) {
	if f.Drag != nil {
		f.Drag(s, target, context, start, stop)
	}
}

func (f *DragFuncs) OnDragFling(s pointer.Snapshot, target, context any, start, stop f32.Point, vx, vy float32) {
	if f.DragFling != nil {
		f.DragFling(s, target, context, start, stop, vx, vy)
	}
}

func (f *DragFuncs) OnDragEnd(s pointer.Snapshot, target, context any, start, stop f32.Point) {
	if f.DragEnd != nil {
		f.DragEnd(s, target, context, start, stop)
	}
}

// PinchFuncs adapts functions to PinchListener
type PinchFuncs struct {
	PinchBegin func(s pointer.Snapshot, target, context any, start []f32.Point)
	Pinch      func(s pointer.Snapshot, target, context any, start, stop []f32.Point)
	PinchFling func(s pointer.Snapshot, target, context any, start, stop []f32.Point, vx, vy float32)
	PinchEnd   func(s pointer.Snapshot, target, context any, start, stop []f32.Point)
}

func (f *PinchFuncs) OnPinchBegin(s pointer.Snapshot, target, context any, start []f32.Point) {
	if f.PinchBegin != nil {
		f.PinchBegin(s, target, context, start)
	}
}

func (f *PinchFuncs) OnPinch(s pointer.Snapshot, target, context any, start, stop []f32.Point) {
	if f.Pinch != nil {
		f.Pinch(s, target, context, start, stop)
	}
}

func (f *PinchFuncs) OnPinchFling(s pointer.Snapshot, target, context any, start, stop []f32.Point, vx, vy float32) {
	if f.PinchFling != nil {
		f.PinchFling(s, target, context, start, stop, vx, vy)
	}
}

func (f *PinchFuncs) OnPinchEnd(s pointer.Snapshot, target, context any, start, stop []f32.Point) {
	if f.PinchEnd != nil {
		f.PinchEnd(s, target, context, start, stop)
	}
}
