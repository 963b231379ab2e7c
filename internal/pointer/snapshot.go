package pointer

import (
	"fmt"

	"gioui.org/f32"
)

// Snapshot is the immutable, normalized view of one sample that listeners
// receive. The lifting pointer of a PointerUp or Up is excluded from the down
// arrays and the focus, and reported through Lifted/LiftX/LiftY instead.
type Snapshot struct {
	Action Action
	DownXs []float32
	DownYs []float32
	Focus  f32.Point
	Lifted bool
	LiftX  float32
	LiftY  float32
}

// NewSnapshot builds the snapshot for a validated sample
func NewSnapshot(s Sample) Snapshot {
	snap := Snapshot{Action: s.Action}
	down := s.Down()
	snap.DownXs = make([]float32, len(down))
	snap.DownYs = make([]float32, len(down))
	var sum f32.Point
	for i, p := range down {
		snap.DownXs[i] = p.Position.X
		snap.DownYs[i] = p.Position.Y
		sum = sum.Add(p.Position)
	}
	if lifted, ok := s.Lifted(); ok {
		snap.Lifted = true
		snap.LiftX = lifted.Position.X
		snap.LiftY = lifted.Position.Y
	}
	switch {
	case len(down) > 0:
		snap.Focus = sum.Mul(1 / float32(len(down)))
	case snap.Lifted:
		snap.Focus = f32.Pt(snap.LiftX, snap.LiftY)
	}
	return snap
}

// SnapshotOf builds a snapshot from parallel coordinate slices. It panics if
// the slices differ in length or are empty.
func SnapshotOf(action Action, xs, ys []float32) Snapshot {
	if len(xs) != len(ys) {
		panic(fmt.Sprintf("pointer: snapshot coordinates mismatch: %d xs, %d ys", len(xs), len(ys)))
	}
	if len(xs) == 0 {
		panic("pointer: snapshot with no down pointers")
	}
	snap := Snapshot{
		Action: action,
		DownXs: append([]float32(nil), xs...),
		DownYs: append([]float32(nil), ys...),
	}
	for i := range xs {
		snap.Focus.X += xs[i]
		snap.Focus.Y += ys[i]
	}
	snap.Focus = snap.Focus.Mul(1 / float32(len(xs)))
	return snap
}

// DownCount returns the number of pointers down in the snapshot
func (s Snapshot) DownCount() int {
	return len(s.DownXs)
}

// Down returns the position of the i-th down pointer
func (s Snapshot) Down(i int) f32.Point {
	return f32.Pt(s.DownXs[i], s.DownYs[i])
}

// Equal reports value equality
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Action != o.Action || s.Focus != o.Focus || s.Lifted != o.Lifted ||
		s.LiftX != o.LiftX || s.LiftY != o.LiftY {
		return false
	}
	return equalFloats(s.DownXs, o.DownXs) && equalFloats(s.DownYs, o.DownYs)
}

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s Snapshot) String() string {
	if s.Lifted {
		return fmt.Sprintf("%s xs=%v ys=%v focus=(%.1f,%.1f) lift=(%.1f,%.1f)",
			s.Action, s.DownXs, s.DownYs, s.Focus.X, s.Focus.Y, s.LiftX, s.LiftY)
	}
	return fmt.Sprintf("%s xs=%v ys=%v focus=(%.1f,%.1f)", s.Action, s.DownXs, s.DownYs, s.Focus.X, s.Focus.Y)
}
