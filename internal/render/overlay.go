package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/pointer"
	"github.com/pleimann/gesture-pad/internal/trace"
)

const margin = 16

var (
	palette = []color.RGBA{
		{R: 0x7a, G: 0xa2, B: 0xf7, A: 0xff},
		{R: 0x9e, G: 0xce, B: 0x6a, A: 0xff},
		{R: 0xe0, G: 0xaf, B: 0x68, A: 0xff},
		{R: 0xbb, G: 0x9a, B: 0xf7, A: 0xff},
		{R: 0x7d, G: 0xcf, B: 0xff, A: 0xff},
	}
	textColor  = color.RGBA{R: 0xc0, G: 0xca, B: 0xf5, A: 0xff}
	eventColor = color.RGBA{R: 0xf7, G: 0x76, B: 0x8e, A: 0xff}
	frameColor = color.RGBA{R: 0x41, G: 0x48, B: 0x68, A: 0xff}
)

// path is the positions of one pointer between its down and its lift
type path struct {
	id     pointer.ID
	points []f32.Point
}

// Overlay renders the pointer paths of a replay with the recognized
// gestures labelled where they happened.
func Overlay(res *trace.Result, width, height int) *image.RGBA {
	r := NewRenderer(width, height)

	top := margin
	if title := res.Trace.Name; title != "" {
		r.DrawText(margin, top+r.LineHeight(), title, textColor)
		top += r.LineHeight()
	}
	if names := res.Names(); len(names) > 0 {
		top += r.DrawTextWrapped(margin, top+r.LineHeight(), width-2*margin, strings.Join(names, " "), eventColor)
	}
	top += margin / 2

	area := image.Rect(margin, top, width-margin, height-margin)
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return r.Image()
	}
	r.DrawRect(area, frameColor)

	paths := collectPaths(res.Samples)
	toCanvas := fit(paths, area)

	for _, p := range paths {
		c := palette[int(p.id)%len(palette)]
		pts := make([]f32.Point, len(p.points))
		for i, pt := range p.points {
			pts[i] = toCanvas.Transform(pt)
		}
		r.DrawPath(pts, 2, c)
		r.FillCircle(pts[0], 4, c)
		r.FillCircle(pts[len(pts)-1], 3, r.Background())
	}

	for _, e := range res.Events {
		switch e.Type {
		case gesture.TypeActionBegin, gesture.TypeActionEnd, gesture.TypeDrag, gesture.TypePinch:
			continue
		}
		for i := range e.Start {
			if i < len(e.Stop) {
				r.DrawLine(toCanvas.Transform(e.Start[i]), toCanvas.Transform(e.Stop[i]), 1, eventColor)
			}
		}
		at := toCanvas.Transform(e.Snapshot.Focus)
		r.DrawText(int(at.X)+6, int(at.Y)-6, e.Key(), eventColor)
	}

	return r.Image()
}

// collectPaths splits the samples into one path per pointer down period
func collectPaths(samples []pointer.Sample) []*path {
	var paths []*path
	active := make(map[pointer.ID]*path)

	for _, s := range samples {
		for _, p := range s.Pointers {
			ph, ok := active[p.ID]
			if !ok {
				ph = &path{id: p.ID}
				active[p.ID] = ph
				paths = append(paths, ph)
			}
			if n := len(ph.points); n == 0 || ph.points[n-1] != p.Position {
				ph.points = append(ph.points, p.Position)
			}
		}
		switch s.Action {
		case pointer.Up, pointer.Cancel:
			clear(active)
		case pointer.PointerUp:
			if p, ok := s.Lifted(); ok {
				delete(active, p.ID)
			}
		}
	}
	return paths
}

// fit maps the bounding box of the paths into area, keeping the aspect ratio
func fit(paths []*path, area image.Rectangle) f32.Affine2D {
	first := true
	var lo, hi f32.Point
	for _, p := range paths {
		for _, pt := range p.points {
			if first {
				lo, hi, first = pt, pt, false
				continue
			}
			lo = f32.Pt(min(lo.X, pt.X), min(lo.Y, pt.Y))
			hi = f32.Pt(max(hi.X, pt.X), max(hi.Y, pt.Y))
		}
	}

	inner := area.Inset(margin)
	w, h := float32(inner.Dx()), float32(inner.Dy())
	span := hi.Sub(lo)
	scale := float32(1)
	switch {
	case span.X > 0 && span.Y > 0:
		scale = min(w/span.X, h/span.Y)
	case span.X > 0:
		scale = w / span.X
	case span.Y > 0:
		scale = h / span.Y
	}

	// Centre the scaled box inside the area
	size := span.Mul(scale)
	offset := f32.Pt(float32(inner.Min.X)+(w-size.X)/2, float32(inner.Min.Y)+(h-size.Y)/2)
	return f32.Affine2D{}.
		Offset(lo.Mul(-1)).
		Scale(f32.Point{}, f32.Pt(scale, scale)).
		Offset(offset)
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to a PNG file
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
