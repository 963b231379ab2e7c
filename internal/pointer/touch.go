package pointer

import (
	"time"

	"gioui.org/f32"
	"golang.org/x/mobile/event/touch"
)

// TouchAdapter converts golang.org/x/mobile touch events, which arrive one
// finger at a time, into samples.
type TouchAdapter struct {
	frames   FrameTracker
	contacts []Contact
}

// Translate applies one touch event observed at time t
func (a *TouchAdapter) Translate(e touch.Event, t time.Duration) []Sample {
	id := ID(e.Sequence)
	pos := f32.Pt(e.X, e.Y)

	i := a.index(id)
	switch e.Type {
	case touch.TypeBegin, touch.TypeMove:
		if i < 0 {
			if e.Type == touch.TypeMove {
				// A move for a finger we never saw begin
				return nil
			}
			a.contacts = append(a.contacts, Contact{ID: id, Position: pos, Touching: true})
		} else {
			a.contacts[i].Position = pos
		}
	case touch.TypeEnd:
		if i < 0 {
			return nil
		}
		a.contacts[i].Position = pos
		a.contacts[i].Touching = false
	}

	samples := a.frames.Update(t, a.contacts)
	if e.Type == touch.TypeEnd {
		a.contacts = append(a.contacts[:i], a.contacts[i+1:]...)
	}
	return samples
}

func (a *TouchAdapter) index(id ID) int {
	for i, c := range a.contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}
