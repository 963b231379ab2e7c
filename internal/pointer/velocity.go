package pointer

import (
	"math"
	"time"

	"gioui.org/f32"
)

const (
	velocityHorizon = 100 * time.Millisecond
	velocityHistory = 20
)

type timedPoint struct {
	t   time.Duration
	pos f32.Point
}

// VelocityTracker estimates per-pointer velocity with a least squares line
// fit over the most recent movement.
type VelocityTracker struct {
	history map[ID][]timedPoint
}

func NewVelocityTracker() *VelocityTracker {
	return &VelocityTracker{history: make(map[ID][]timedPoint)}
}

// Add records the positions of every pointer in s. A Down starts over.
func (v *VelocityTracker) Add(s Sample) {
	if s.Action == Down {
		v.Clear()
	}
	for _, p := range s.Pointers {
		h := append(v.history[p.ID], timedPoint{t: s.Time, pos: p.Position})
		if len(h) > velocityHistory {
			h = h[len(h)-velocityHistory:]
		}
		v.history[p.ID] = h
	}
}

// Velocity returns the velocity of id in pixels per second, each axis
// clamped to [-max, max] when max is positive.
func (v *VelocityTracker) Velocity(id ID, max float32) (vx, vy float32) {
	h := v.history[id]
	if len(h) < 2 {
		return 0, 0
	}
	newest := h[len(h)-1].t
	start := len(h) - 1
	for start > 0 && newest-h[start-1].t <= velocityHorizon {
		start--
	}
	h = h[start:]
	if len(h) < 2 {
		return 0, 0
	}

	// Fit x(t) = a + b*t per axis; b is the velocity
	var mt, mx, my float64
	for _, p := range h {
		mt += p.t.Seconds()
		mx += float64(p.pos.X)
		my += float64(p.pos.Y)
	}
	n := float64(len(h))
	mt, mx, my = mt/n, mx/n, my/n

	var stt, stx, sty float64
	for _, p := range h {
		dt := p.t.Seconds() - mt
		stt += dt * dt
		stx += dt * (float64(p.pos.X) - mx)
		sty += dt * (float64(p.pos.Y) - my)
	}
	if stt == 0 {
		return 0, 0
	}
	return clamp(float32(stx/stt), max), clamp(float32(sty/stt), max)
}

// Clear forgets all history
func (v *VelocityTracker) Clear() {
	v.history = make(map[ID][]timedPoint)
}

func clamp(v, max float32) float32 {
	if max <= 0 {
		return v
	}
	return float32(math.Max(-float64(max), math.Min(float64(max), float64(v))))
}
