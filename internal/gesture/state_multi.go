package gesture

import "github.com/pleimann/gesture-pad/internal/pointer"

// multiPressing holds two or more pointers that have not moved far enough to
// start a pinch.
type multiPressing struct {
	d     *Detector
	th    Thresholds
	track *pointer.Track
}

func newMultiPressing(d *Detector, th Thresholds) *multiPressing {
	return &multiPressing{d: d, th: th, track: pointer.NewTrack()}
}

func (s *multiPressing) kind() Kind { return KindMultiFingerPressing }

func (s *multiPressing) enter(st step) {
	switch {
	case st.sample.Action == pointer.Up || st.sample.Action == pointer.Cancel:
		s.d.transition(KindIdle, st)
	case st.sample.DownCount() > 1:
		s.track.Clear()
		for _, p := range st.sample.Down() {
			s.track.Put(p.ID, p.Position)
		}
	default:
		s.d.transition(KindSingleFingerPressing, st)
	}
}

func (s *multiPressing) doing(st step) {
	switch st.sample.Action {
	case pointer.Move:
		if st.sample.DownCount() < 2 {
			s.d.transition(KindSingleFingerPressing, st)
			return
		}
		for _, p := range st.sample.Down() {
			s.track.Move(p.ID, p.Position)
		}
		if s.track.AnyBeyond(s.th.touchSlopSquare()) {
			s.d.transition(KindPinch, st)
		}

	case pointer.PointerDown:
		if p, ok := st.sample.Changed(); ok {
			s.track.Put(p.ID, p.Position)
		}

	case pointer.PointerUp:
		if p, ok := st.sample.Lifted(); ok {
			s.track.Remove(p.ID)
		}
		if st.sample.DownCount() <= 1 {
			s.d.transition(KindSingleFingerPressing, st)
		}

	case pointer.Up, pointer.Cancel:
		s.d.transition(KindIdle, st)
	}
}

func (s *multiPressing) exit(st step) {
	s.track.Clear()
}
