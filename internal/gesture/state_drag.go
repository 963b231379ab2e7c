package gesture

import (
	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

// drag follows the focus of the down pointers
type drag struct {
	d        *Detector
	th       Thresholds
	start    f32.Point
	velocity *pointer.VelocityTracker
}

func newDrag(d *Detector, th Thresholds) *drag {
	return &drag{d: d, th: th, velocity: pointer.NewVelocityTracker()}
}

func (s *drag) kind() Kind { return KindDrag }

func (s *drag) enter(st step) {
	s.start = st.snap.Focus
	s.velocity.Clear()
	s.velocity.Add(st.sample)
	s.d.dragBegin(st.snap, st.target, st.context)
}

func (s *drag) doing(st step) {
	s.velocity.Add(st.sample)

	switch st.sample.Action {
	case pointer.PointerDown:
		if s.d.multitouch() {
			s.d.transition(KindMultiFingerPressing, st)
		}

	case pointer.Move:
		s.d.drag(st.snap, st.target, st.context, s.start, st.snap.Focus)

	case pointer.Up:
		if st.sample.DownCount() > 0 {
			return
		}
		s.d.transition(KindIdle, st)

	case pointer.Cancel:
		s.d.transition(KindIdle, st)
	}
}

func (s *drag) exit(st step) {
	stop := st.snap.Focus
	if st.sample.Action == pointer.Up {
		if lifted, ok := st.sample.Lifted(); ok {
			vx, vy := s.velocity.Velocity(lifted.ID, s.th.MaxFlingVelocity)
			if flinging(vx, vy, s.th.MinFlingVelocity) {
				s.d.dragFling(st.snap, st.target, st.context, s.start, stop, vx, vy)
			}
		}
	}
	s.d.dragEnd(st.snap, st.target, st.context, s.start, stop)
	s.velocity.Clear()
}

// flinging reports whether either axis of an already clamped velocity
// exceeds the minimum
func flinging(vx, vy, min float32) bool {
	return abs(vx) > min || abs(vy) > min
}
