package pointer

import (
	"time"

	"gioui.org/f32"
)

// Contact is one entry of a whole-frame contact report, as delivered by
// digitizers that report every finger on every frame.
type Contact struct {
	ID       ID
	Position f32.Point
	Touching bool
}

// FrameTracker turns successive contact frames into the sample sequence the
// gesture detector consumes: one sample per change, pointers in join order.
type FrameTracker struct {
	down []Pointer
}

// Down returns the pointers currently down
func (f *FrameTracker) Down() []Pointer {
	return append([]Pointer(nil), f.down...)
}

// Update diffs a frame against the pointers currently down. Movement of the
// remaining pointers is reported first, then lifts, then new contacts.
func (f *FrameTracker) Update(t time.Duration, contacts []Contact) []Sample {
	touching := make(map[ID]f32.Point, len(contacts))
	var order []ID
	for _, c := range contacts {
		if !c.Touching {
			continue
		}
		if _, dup := touching[c.ID]; !dup {
			order = append(order, c.ID)
		}
		touching[c.ID] = c.Position
	}

	var samples []Sample

	moved := false
	for i, p := range f.down {
		if pos, ok := touching[p.ID]; ok && pos != p.Position {
			f.down[i].Position = pos
			moved = true
		}
	}
	if moved {
		samples = append(samples, f.sample(Move, -1, t))
	}

	for i := 0; i < len(f.down); {
		if _, ok := touching[f.down[i].ID]; ok {
			i++
			continue
		}
		action := PointerUp
		if len(f.down) == 1 {
			action = Up
		}
		samples = append(samples, f.sample(action, i, t))
		f.down = append(f.down[:i], f.down[i+1:]...)
	}

	for _, id := range order {
		if f.isDown(id) {
			continue
		}
		action := PointerDown
		if len(f.down) == 0 {
			action = Down
		}
		f.down = append(f.down, Pointer{ID: id, Position: touching[id]})
		samples = append(samples, f.sample(action, len(f.down)-1, t))
	}
	return samples
}

// Cancel aborts the current sequence. It returns nothing when no pointer is down.
func (f *FrameTracker) Cancel(t time.Duration) []Sample {
	if len(f.down) == 0 {
		return nil
	}
	s := f.sample(Cancel, -1, t)
	f.down = nil
	return []Sample{s}
}

func (f *FrameTracker) isDown(id ID) bool {
	for _, p := range f.down {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (f *FrameTracker) sample(action Action, index int, t time.Duration) Sample {
	return Sample{
		Action:   action,
		Index:    index,
		Pointers: append([]Pointer(nil), f.down...),
		Time:     t,
	}
}
