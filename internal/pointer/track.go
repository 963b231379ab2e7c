package pointer

import (
	"fmt"

	"gioui.org/f32"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pleimann/gesture-pad/internal/geometry"
)

// Span is where a tracked pointer started and where it is now
type Span struct {
	Start f32.Point
	Stop  f32.Point
}

// Track records the start and current position of pointers, iterating in the
// order the pointers were first added.
type Track struct {
	spans *orderedmap.OrderedMap[ID, *Span]
}

// NewTrack creates an empty track
func NewTrack() *Track {
	return &Track{spans: orderedmap.New[ID, *Span]()}
}

// Put starts tracking id at pos. A pointer already tracked keeps its place in
// the order and is rebased to pos.
func (t *Track) Put(id ID, pos f32.Point) {
	if span, ok := t.spans.Get(id); ok {
		span.Start, span.Stop = pos, pos
		return
	}
	t.spans.Set(id, &Span{Start: pos, Stop: pos})
}

// Move updates the current position of a tracked pointer
func (t *Track) Move(id ID, pos f32.Point) bool {
	span, ok := t.spans.Get(id)
	if !ok {
		return false
	}
	span.Stop = pos
	return true
}

// Remove stops tracking id and returns the position it held in the order
func (t *Track) Remove(id ID) (int, bool) {
	index := t.Index(id)
	if index < 0 {
		return -1, false
	}
	t.spans.Delete(id)
	return index, true
}

// Index returns the position of id in the order, or -1
func (t *Track) Index(id ID) int {
	i := 0
	for p := t.spans.Oldest(); p != nil; p = p.Next() {
		if p.Key == id {
			return i
		}
		i++
	}
	return -1
}

// Has reports whether id is tracked
func (t *Track) Has(id ID) bool {
	_, ok := t.spans.Get(id)
	return ok
}

// Len returns the number of tracked pointers
func (t *Track) Len() int {
	return t.spans.Len()
}

// IDs returns the tracked ids in order
func (t *Track) IDs() []ID {
	ids := make([]ID, 0, t.spans.Len())
	for p := t.spans.Oldest(); p != nil; p = p.Next() {
		ids = append(ids, p.Key)
	}
	return ids
}

// Starts returns the start positions in order
func (t *Track) Starts() []f32.Point {
	pts := make([]f32.Point, 0, t.spans.Len())
	for p := t.spans.Oldest(); p != nil; p = p.Next() {
		pts = append(pts, p.Value.Start)
	}
	return pts
}

// Stops returns the current positions in order
func (t *Track) Stops() []f32.Point {
	pts := make([]f32.Point, 0, t.spans.Len())
	for p := t.spans.Oldest(); p != nil; p = p.Next() {
		pts = append(pts, p.Value.Stop)
	}
	return pts
}

// Anchors returns the spans of the first two pointers in order. It panics if
// fewer than two pointers are tracked.
func (t *Track) Anchors() (Span, Span) {
	if t.spans.Len() < 2 {
		panic(fmt.Sprintf("pointer: track has %d pointers, anchors need two", t.spans.Len()))
	}
	first := t.spans.Oldest()
	second := first.Next()
	return *first.Value, *second.Value
}

// Rebase makes every current position the new start position
func (t *Track) Rebase() {
	for p := t.spans.Oldest(); p != nil; p = p.Next() {
		p.Value.Start = p.Value.Stop
	}
}

// AnyBeyond reports whether any pointer moved beyond the squared slop
func (t *Track) AnyBeyond(slopSquare float32) bool {
	for p := t.spans.Oldest(); p != nil; p = p.Next() {
		if geometry.BeyondSlop(p.Value.Start, p.Value.Stop, slopSquare) {
			return true
		}
	}
	return false
}

// Clear drops every tracked pointer
func (t *Track) Clear() {
	t.spans = orderedmap.New[ID, *Span]()
}
