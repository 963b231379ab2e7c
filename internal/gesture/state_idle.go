package gesture

import "github.com/pleimann/gesture-pad/internal/pointer"

// idle waits for the first pointer. Leaving it opens a session, entering it
// closes one.
type idle struct {
	d        *Detector
	dragOnly bool
}

func (s *idle) kind() Kind { return KindIdle }

func (s *idle) enter(st step) {
	s.d.actionEnd(st.snap, st.target, st.context)
}

func (s *idle) doing(st step) {
	if st.sample.Action != pointer.Down {
		return
	}
	if !s.dragOnly && st.sample.DownCount() > 1 && s.d.multitouch() {
		s.d.transition(KindMultiFingerPressing, st)
		return
	}
	s.d.transition(KindSingleFingerPressing, st)
}

func (s *idle) exit(st step) {
	s.d.actionBegin(st.snap, st.target, st.context)
}
