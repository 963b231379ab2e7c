package gesture

import (
	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

// pinch follows the anchor pair: the two pointers that went down first among
// those still down
type pinch struct {
	d        *Detector
	th       Thresholds
	track    *pointer.Track
	velocity *pointer.VelocityTracker
}

func newPinch(d *Detector, th Thresholds) *pinch {
	return &pinch{d: d, th: th, track: pointer.NewTrack(), velocity: pointer.NewVelocityTracker()}
}

func (s *pinch) kind() Kind { return KindPinch }

func (s *pinch) enter(st step) {
	down := st.sample.Down()
	if len(down) < 2 {
		violate("pinch", "entered with %d pointers down", len(down))
	}
	s.track.Clear()
	for _, p := range down {
		s.track.Put(p.ID, p.Position)
	}
	s.velocity.Clear()
	s.velocity.Add(st.sample)
	s.d.pinchBegin(st.snap, st.target, st.context, s.starts())
}

func (s *pinch) doing(st step) {
	s.velocity.Add(st.sample)

	switch st.sample.Action {
	case pointer.Move:
		if st.sample.DownCount() < 2 {
			s.d.transition(KindSingleFingerPressing, st)
			return
		}
		s.moveAll(st.sample)
		s.d.pinch(st.snap, st.target, st.context, s.starts(), s.stops())

	case pointer.PointerDown:
		if p, ok := st.sample.Changed(); ok {
			s.track.Put(p.ID, p.Position)
		}

	case pointer.PointerUp:
		if st.sample.DownCount() < 2 {
			s.d.transition(KindSingleFingerPressing, st)
			return
		}
		lifted, _ := st.sample.Lifted()
		index := s.track.Index(lifted.ID)
		if index < 0 {
			violate("pinch", "lifted pointer %d is not tracked", lifted.ID)
		}
		s.moveAll(st.sample)
		if index >= 2 {
			s.track.Remove(lifted.ID)
			return
		}

		// An anchor lifted: close this pinch and start over from the
		// remaining pointers, keeping their order
		s.d.pinchEnd(st.snap, st.target, st.context, s.starts(), s.stops())
		s.track.Remove(lifted.ID)
		s.track.Rebase()
		s.d.pinchBegin(st.snap, st.target, st.context, s.starts())

	case pointer.Up, pointer.Cancel:
		s.d.transition(KindIdle, st)
	}
}

func (s *pinch) exit(st step) {
	if s.track.Len() >= 2 {
		starts, stops := s.starts(), s.stops()
		if lifted, ok := st.sample.Lifted(); ok && s.track.Index(lifted.ID) >= 0 && s.track.Index(lifted.ID) < 2 {
			s.fling(st, starts, stops)
		}
		s.d.pinchEnd(st.snap, st.target, st.context, starts, stops)
	}
	s.track.Clear()
	s.velocity.Clear()
}

// fling judges the anchor pair's mean velocity when a lift ends the pinch
func (s *pinch) fling(st step, starts, stops []f32.Point) {
	ids := s.track.IDs()
	var vx, vy float32
	for _, id := range ids[:2] {
		x, y := s.velocity.Velocity(id, s.th.MaxFlingVelocity)
		vx += x / 2
		vy += y / 2
	}
	if flinging(vx, vy, s.th.MinFlingVelocity) {
		s.d.pinchFling(st.snap, st.target, st.context, starts, stops, vx, vy)
	}
}

func (s *pinch) moveAll(sample pointer.Sample) {
	for _, p := range sample.Pointers {
		s.track.Move(p.ID, p.Position)
	}
}

func (s *pinch) starts() []f32.Point {
	a, b := s.track.Anchors()
	return []f32.Point{a.Start, b.Start}
}

func (s *pinch) stops() []f32.Point {
	a, b := s.track.Anchors()
	return []f32.Point{a.Stop, b.Stop}
}
