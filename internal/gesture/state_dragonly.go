package gesture

import (
	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/geometry"
	"github.com/pleimann/gesture-pad/internal/pointer"
)

// dragOnlyPressing waits for the focus to leave the touch slop. Taps, long
// presses and extra pointers are ignored.
type dragOnlyPressing struct {
	d          *Detector
	th         Thresholds
	startFocus f32.Point
}

func newDragOnlyPressing(d *Detector, th Thresholds) *dragOnlyPressing {
	return &dragOnlyPressing{d: d, th: th}
}

func (s *dragOnlyPressing) kind() Kind { return KindSingleFingerPressing }

func (s *dragOnlyPressing) enter(st step) {
	s.startFocus = st.snap.Focus
	s.doing(st)
}

func (s *dragOnlyPressing) doing(st step) {
	switch st.sample.Action {
	case pointer.Down, pointer.PointerUp:
		s.startFocus = st.snap.Focus
	case pointer.Move:
		if geometry.BeyondSlop(s.startFocus, st.snap.Focus, s.th.touchSlopSquare()) {
			s.d.transition(KindDrag, st)
		}
	case pointer.Up, pointer.Cancel:
		s.d.transition(KindIdle, st)
	}
}

func (s *dragOnlyPressing) exit(st step) {}

// dragOnlyDrag follows a single focus pointer. When it lifts while others
// remain, the drag restarts on the oldest remaining pointer.
type dragOnlyDrag struct {
	d        *Detector
	th       Thresholds
	focusID  pointer.ID
	start    f32.Point
	velocity *pointer.VelocityTracker
}

func newDragOnlyDrag(d *Detector, th Thresholds) *dragOnlyDrag {
	return &dragOnlyDrag{d: d, th: th, velocity: pointer.NewVelocityTracker()}
}

func (s *dragOnlyDrag) kind() Kind { return KindDrag }

func (s *dragOnlyDrag) enter(st step) {
	var focus pointer.Pointer
	if st.sample.Action == pointer.PointerUp {
		focus = st.sample.Down()[0]
	} else if p, ok := st.sample.Changed(); ok {
		focus = p
	} else {
		focus = st.sample.Pointers[0]
	}
	s.focusID = focus.ID
	s.start = focus.Position
	s.velocity.Clear()
	s.velocity.Add(st.sample)
	s.d.dragBegin(st.snap, st.target, st.context)
}

func (s *dragOnlyDrag) doing(st step) {
	s.velocity.Add(st.sample)

	switch st.sample.Action {
	case pointer.Move:
		if p, ok := st.sample.Find(s.focusID); ok {
			s.d.drag(st.snap, st.target, st.context, s.start, p.Position)
		}
	case pointer.PointerUp:
		if lifted, _ := st.sample.Lifted(); lifted.ID == s.focusID {
			s.d.transition(KindDrag, st)
		}
	case pointer.Up, pointer.Cancel:
		s.d.transition(KindIdle, st)
	}
}

func (s *dragOnlyDrag) exit(st step) {
	stop := s.start
	if p, ok := st.sample.Find(s.focusID); ok {
		stop = p.Position
	}
	if st.sample.Action == pointer.Up {
		vx, vy := s.velocity.Velocity(s.focusID, s.th.MaxFlingVelocity)
		if flinging(vx, vy, s.th.MinFlingVelocity) {
			s.d.dragFling(st.snap, st.target, st.context, s.start, stop, vx, vy)
		}
	}
	s.d.dragEnd(st.snap, st.target, st.context, s.start, stop)
	s.velocity.Clear()
}
