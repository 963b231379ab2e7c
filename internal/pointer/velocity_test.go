package pointer

import (
	"math"
	"testing"
	"time"
)

func moveAt(ms int, x, y float32) Sample {
	return Sample{Action: Move, Index: -1, Pointers: []Pointer{pt(0, x, y)}, Time: time.Duration(ms) * time.Millisecond}
}

func TestVelocityConstantMotion(t *testing.T) {
	v := NewVelocityTracker()
	// 10px every 10ms along x is 1000 px/s
	for i := 0; i <= 8; i++ {
		v.Add(moveAt(i*10, float32(i*10), 50))
	}
	vx, vy := v.Velocity(0, 0)
	if math.Abs(float64(vx-1000)) > 1 || math.Abs(float64(vy)) > 1e-3 {
		t.Errorf("Velocity() = (%v, %v), want (1000, 0)", vx, vy)
	}
}

func TestVelocityClamp(t *testing.T) {
	v := NewVelocityTracker()
	v.Add(moveAt(0, 0, 0))
	v.Add(moveAt(10, 0, -500))
	_, vy := v.Velocity(0, 8000)
	if vy != -8000 {
		t.Errorf("vy = %v, want clamped -8000", vy)
	}
}

func TestVelocityHorizon(t *testing.T) {
	v := NewVelocityTracker()
	// A fast early flick followed by a slow tail outside the horizon
	v.Add(moveAt(0, 0, 0))
	v.Add(moveAt(10, 500, 0))
	for i := 1; i <= 11; i++ {
		v.Add(moveAt(200+i*10, 500+float32(i), 0))
	}
	vx, _ := v.Velocity(0, 0)
	if math.Abs(float64(vx-100)) > 1 {
		t.Errorf("vx = %v, want 100 from the recent samples only", vx)
	}
}

func TestVelocityUnknownPointer(t *testing.T) {
	v := NewVelocityTracker()
	v.Add(moveAt(0, 1, 1))
	if vx, vy := v.Velocity(5, 0); vx != 0 || vy != 0 {
		t.Errorf("Velocity(unknown) = (%v, %v)", vx, vy)
	}
	if vx, vy := v.Velocity(0, 0); vx != 0 || vy != 0 {
		t.Errorf("Velocity with one sample = (%v, %v)", vx, vy)
	}
}
