package gesture

import (
	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/geometry"
	"github.com/pleimann/gesture-pad/internal/pointer"
)

// singlePressing counts taps and waits for a long press while one pointer is
// down or a tap sequence may still continue.
type singlePressing struct {
	d  *Detector
	th Thresholds

	tapCount     int
	hadLongPress bool
	startFocus   f32.Point
	prevDown     *f32.Point
	currDown     *f32.Point
	up           *step

	target  any
	context any

	tapTimer       *timer
	longPressTimer *timer
}

func newSinglePressing(d *Detector, th Thresholds) *singlePressing {
	return &singlePressing{d: d, th: th}
}

func (s *singlePressing) kind() Kind { return KindSingleFingerPressing }

func (s *singlePressing) enter(st step) {
	s.tapCount = 0
	s.hadLongPress = false
	s.prevDown, s.currDown, s.up = nil, nil, nil
	s.target, s.context = st.target, st.context
	s.startFocus = st.snap.Focus
	s.doing(st)
}

func (s *singlePressing) doing(st step) {
	switch st.sample.Action {
	case pointer.PointerDown:
		if s.d.multitouch() {
			s.d.transition(KindMultiFingerPressing, st)
		}

	case pointer.PointerUp:
		s.startFocus = st.snap.Focus

	case pointer.Down:
		if st.sample.DownCount() > 1 && s.d.multitouch() {
			s.d.transition(KindMultiFingerPressing, st)
			return
		}
		changed, _ := st.sample.Changed()
		pos := changed.Position
		s.prevDown, s.currDown = s.currDown, &pos

		// A new press continues the tap sequence
		s.tapTimer.stop()
		s.longPressTimer.stop()
		if s.d.LongPressEnabled() {
			held := st
			s.longPressTimer = s.d.after(s.th.LongPressTimeout, func() { s.longPress(held) })
		}
		s.startFocus = st.snap.Focus

	case pointer.Move:
		if geometry.BeyondSlop(s.startFocus, st.snap.Focus, s.th.touchSlopSquare()) {
			s.d.transition(KindDrag, st)
		}

	case pointer.Up:
		held := st
		s.up = &held
		if s.hadLongPress {
			s.d.transition(KindIdle, st)
			return
		}
		if s.closeTap() {
			s.tapCount++
		}
		s.longPressTimer.stop()
		s.tapTimer.stop()
		s.tapTimer = s.d.after(s.th.TapTimeout, func() { s.d.transition(KindIdle, held) })

	case pointer.Cancel:
		s.d.transition(KindIdle, st)
	}
}

func (s *singlePressing) exit(st step) {
	s.tapTimer.stop()
	s.longPressTimer.stop()
	s.tapTimer, s.longPressTimer = nil, nil

	if st.sample.Action == pointer.Up {
		snap := st.snap
		if s.up != nil {
			snap = s.up.snap
		}
		switch {
		case s.hadLongPress:
			s.d.longTap(snap, s.target, s.context)
		case s.tapCount == 1:
			s.d.singleTap(snap, s.target, s.context)
		case s.tapCount == 2:
			s.d.doubleTap(snap, s.target, s.context)
		case s.tapCount > 2:
			s.d.moreTap(snap, s.target, s.context, s.tapCount)
		}
	}

	s.tapCount = 0
	s.hadLongPress = false
	s.prevDown, s.currDown, s.up = nil, nil, nil
	s.target, s.context = nil, nil
}

func (s *singlePressing) longPress(st step) {
	s.tapTimer.stop()
	s.hadLongPress = true
	s.d.longPress(st.snap, s.target, s.context)
}

// closeTap reports whether the latest press counts toward the running tap
// sequence. A press that did not start in this state never does.
func (s *singlePressing) closeTap() bool {
	if s.currDown == nil {
		return false
	}
	if s.prevDown == nil {
		return true
	}
	return geometry.DistanceSquared(*s.prevDown, *s.currDown) < s.th.tapSlopSquare()
}
