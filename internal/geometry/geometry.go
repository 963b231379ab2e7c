package geometry

import (
	"fmt"
	"math"

	"gioui.org/f32"
)

// DistanceSquared returns the squared euclidean distance between a and b
func DistanceSquared(a, b f32.Point) float32 {
	d := b.Sub(a)
	return d.X*d.X + d.Y*d.Y
}

// BeyondSlop reports whether b lies strictly outside the slop circle around a.
// slopSquare is the squared slop radius.
func BeyondSlop(a, b f32.Point, slopSquare float32) bool {
	return DistanceSquared(a, b) > slopSquare
}

// Centroid returns the arithmetic mean of points. It panics on an empty slice.
func Centroid(points []f32.Point) f32.Point {
	if len(points) == 0 {
		panic("geometry: centroid of zero points")
	}
	var sum f32.Point
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(len(points)))
}

// Transform describes how an anchor pair moved between two moments.
// Translation is the motion of the first anchor, PivotShift the motion of the
// pair midpoint. Rotation is in radians, counter-clockwise positive.
type Transform struct {
	Translation f32.Point
	PivotShift  f32.Point
	ScaleX      float32
	ScaleY      float32
	Rotation    float32
}

// Identity is the transform of an anchor pair that did not move
var Identity = Transform{ScaleX: 1, ScaleY: 1}

// PinchTransform derives the transform mapping the start anchor pair onto the
// stop anchor pair. Only the first two points of each slice are used.
func PinchTransform(start, stop []f32.Point) Transform {
	if len(start) < 2 || len(stop) < 2 {
		panic(fmt.Sprintf("geometry: pinch transform needs two anchors, got start=%d stop=%d", len(start), len(stop)))
	}
	startVec := start[1].Sub(start[0])
	stopVec := stop[1].Sub(stop[0])

	scale := float32(1)
	if startLen := length(startVec); startLen > 0 {
		scale = length(stopVec) / startLen
	}
	rotation := math.Atan2(float64(stopVec.Y), float64(stopVec.X)) -
		math.Atan2(float64(startVec.Y), float64(startVec.X))

	return Transform{
		Translation: stop[0].Sub(start[0]),
		PivotShift:  midpoint(stop[0], stop[1]).Sub(midpoint(start[0], start[1])),
		ScaleX:      scale,
		ScaleY:      scale,
		Rotation:    float32(normalizeAngle(rotation)),
	}
}

// Affine returns the transform as an affine map: scale and rotation around
// origin, then the translation. With origin set to the first start anchor it
// maps the start pair onto the stop pair.
func (t Transform) Affine(origin f32.Point) f32.Affine2D {
	return f32.Affine2D{}.
		Scale(origin, f32.Pt(t.ScaleX, t.ScaleY)).
		Rotate(origin, t.Rotation).
		Offset(t.Translation)
}

// Degrees returns the rotation in degrees
func (t Transform) Degrees() float32 {
	return t.Rotation * 180 / math.Pi
}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%.1f,%.1f) scale(%.3f,%.3f) rotate(%.1f°)",
		t.Translation.X, t.Translation.Y, t.ScaleX, t.ScaleY, t.Degrees())
}

func length(v f32.Point) float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

func midpoint(a, b f32.Point) f32.Point {
	return a.Add(b).Mul(0.5)
}

// normalizeAngle folds r into (-pi, pi]
func normalizeAngle(r float64) float64 {
	for r <= -math.Pi {
		r += 2 * math.Pi
	}
	for r > math.Pi {
		r -= 2 * math.Pi
	}
	return r
}
