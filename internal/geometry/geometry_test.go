package geometry

import (
	"math"
	"testing"

	"gioui.org/f32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func nearPt(a, b f32.Point) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func TestBeyondSlop(t *testing.T) {
	tests := []struct {
		name string
		a, b f32.Point
		slop float32
		want bool
	}{
		{"same point", f32.Pt(5, 5), f32.Pt(5, 5), 8, false},
		{"inside", f32.Pt(0, 0), f32.Pt(3, 4), 8, false},
		{"on the circle", f32.Pt(0, 0), f32.Pt(6, 8), 10, false},
		{"outside", f32.Pt(0, 0), f32.Pt(9, 0), 8, true},
		{"zero slop any motion", f32.Pt(0, 0), f32.Pt(0.5, 0), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BeyondSlop(tt.a, tt.b, tt.slop*tt.slop); got != tt.want {
				t.Errorf("BeyondSlop(%v, %v, %v²) = %v, want %v", tt.a, tt.b, tt.slop, got, tt.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid([]f32.Point{f32.Pt(0, 0), f32.Pt(10, 0), f32.Pt(5, 9)})
	if !nearPt(got, f32.Pt(5, 3)) {
		t.Errorf("Centroid = %v, want (5,3)", got)
	}
}

func TestCentroidEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty centroid")
		}
	}()
	Centroid(nil)
}

func TestPinchTransform(t *testing.T) {
	tests := []struct {
		name        string
		start, stop []f32.Point
		scale       float32
		degrees     float32
		translation f32.Point
		pivot       f32.Point
	}{
		{
			name:  "spread doubles distance",
			start: []f32.Point{f32.Pt(0, 0), f32.Pt(10, 0)},
			stop:  []f32.Point{f32.Pt(0, 0), f32.Pt(20, 0)},
			scale: 2, degrees: 0,
			translation: f32.Pt(0, 0),
			pivot:       f32.Pt(5, 0),
		},
		{
			name:  "quarter turn",
			start: []f32.Point{f32.Pt(0, 0), f32.Pt(10, 0)},
			stop:  []f32.Point{f32.Pt(0, 0), f32.Pt(0, 10)},
			scale: 1, degrees: 90,
			translation: f32.Pt(0, 0),
			pivot:       f32.Pt(-5, 5),
		},
		{
			name:  "pure translation",
			start: []f32.Point{f32.Pt(1, 1), f32.Pt(11, 1)},
			stop:  []f32.Point{f32.Pt(4, 5), f32.Pt(14, 5)},
			scale: 1, degrees: 0,
			translation: f32.Pt(3, 4),
			pivot:       f32.Pt(3, 4),
		},
		{
			name:  "extra points ignored",
			start: []f32.Point{f32.Pt(0, 0), f32.Pt(10, 0), f32.Pt(99, 99)},
			stop:  []f32.Point{f32.Pt(0, 0), f32.Pt(5, 0), f32.Pt(-99, 3)},
			scale: 0.5, degrees: 0,
			translation: f32.Pt(0, 0),
			pivot:       f32.Pt(-2.5, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := PinchTransform(tt.start, tt.stop)
			if !near(tr.ScaleX, tt.scale) || !near(tr.ScaleY, tt.scale) {
				t.Errorf("scale = (%v,%v), want %v", tr.ScaleX, tr.ScaleY, tt.scale)
			}
			if !near(tr.Degrees(), tt.degrees) {
				t.Errorf("rotation = %v°, want %v°", tr.Degrees(), tt.degrees)
			}
			if !nearPt(tr.Translation, tt.translation) {
				t.Errorf("translation = %v, want %v", tr.Translation, tt.translation)
			}
			if !nearPt(tr.PivotShift, tt.pivot) {
				t.Errorf("pivot shift = %v, want %v", tr.PivotShift, tt.pivot)
			}

			// The affine form must carry the start pair onto the stop pair
			m := tr.Affine(tt.start[0])
			for i := 0; i < 2; i++ {
				if got := m.Transform(tt.start[i]); !nearPt(got, tt.stop[i]) {
					t.Errorf("affine(start[%d]) = %v, want %v", i, got, tt.stop[i])
				}
			}
		})
	}
}

func TestPinchTransformNeedsTwoAnchors(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic with a single anchor")
		}
	}()
	PinchTransform([]f32.Point{{}}, []f32.Point{{}, {}})
}

func TestNormalizeAngle(t *testing.T) {
	// Crossing the -x axis must not report a near full turn
	tr := PinchTransform(
		[]f32.Point{f32.Pt(0, 0), f32.Pt(-10, 1)},
		[]f32.Point{f32.Pt(0, 0), f32.Pt(-10, -1)},
	)
	if math.Abs(float64(tr.Degrees())) > 20 {
		t.Errorf("rotation = %v°, want a small angle", tr.Degrees())
	}
}
