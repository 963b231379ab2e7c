package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"gioui.org/f32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Renderer draws strokes, markers and text onto an RGBA canvas
type Renderer struct {
	width      int
	height     int
	img        *image.RGBA
	face       font.Face
	raster     *vector.Rasterizer
	background color.Color
}

// NewRenderer creates a renderer with a dark background
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{
		width:      width,
		height:     height,
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		face:       basicfont.Face7x13,
		raster:     vector.NewRasterizer(width, height),
		background: color.RGBA{R: 0x1a, G: 0x1b, B: 0x26, A: 0xff},
	}
	r.Clear()
	return r
}

// Clear fills the canvas with the background colour
func (r *Renderer) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
}

// DrawText draws text with its baseline at y
func (r *Renderer) DrawText(x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// DrawTextWrapped draws text with word wrapping and returns the height used
func (r *Renderer) DrawTextWrapped(x, y, maxWidth int, text string, c color.Color) int {
	lineHeight := r.LineHeight()
	currentY := y
	line := ""

	for _, word := range strings.Fields(text) {
		testLine := line
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		if font.MeasureString(r.face, testLine).Ceil() > maxWidth && line != "" {
			r.DrawText(x, currentY, line, c)
			currentY += lineHeight
			line = word
		} else {
			line = testLine
		}
	}

	if line != "" {
		r.DrawText(x, currentY, line, c)
		currentY += lineHeight
	}

	return currentY - y
}

// LineHeight returns the height of one text line
func (r *Renderer) LineHeight() int {
	return r.face.Metrics().Height.Ceil()
}

// DrawLine strokes the segment a-b with the given width
func (r *Renderer) DrawLine(a, b f32.Point, width float32, c color.Color) {
	d := b.Sub(a)
	length := float32(math.Hypot(float64(d.X), float64(d.Y)))
	if length == 0 {
		r.FillCircle(a, width/2, c)
		return
	}
	// Unit normal scaled to half the stroke width
	n := f32.Pt(-d.Y/length, d.X/length).Mul(width / 2)

	r.raster.Reset(r.width, r.height)
	r.raster.MoveTo(a.X+n.X, a.Y+n.Y)
	r.raster.LineTo(b.X+n.X, b.Y+n.Y)
	r.raster.LineTo(b.X-n.X, b.Y-n.Y)
	r.raster.LineTo(a.X-n.X, a.Y-n.Y)
	r.raster.ClosePath()
	r.fill(c)
}

// DrawPath strokes consecutive points
func (r *Renderer) DrawPath(points []f32.Point, width float32, c color.Color) {
	for i := 1; i < len(points); i++ {
		r.DrawLine(points[i-1], points[i], width, c)
	}
}

// FillCircle draws a filled disc
func (r *Renderer) FillCircle(center f32.Point, radius float32, c color.Color) {
	const segments = 16
	r.raster.Reset(r.width, r.height)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / segments
		x := center.X + radius*float32(math.Cos(angle))
		y := center.Y + radius*float32(math.Sin(angle))
		if i == 0 {
			r.raster.MoveTo(x, y)
		} else {
			r.raster.LineTo(x, y)
		}
	}
	r.raster.ClosePath()
	r.fill(c)
}

// DrawRect draws a rectangle outline
func (r *Renderer) DrawRect(rect image.Rectangle, c color.Color) {
	lo, hi := f32.Pt(float32(rect.Min.X), float32(rect.Min.Y)), f32.Pt(float32(rect.Max.X), float32(rect.Max.Y))
	r.DrawLine(lo, f32.Pt(hi.X, lo.Y), 1, c)
	r.DrawLine(f32.Pt(hi.X, lo.Y), hi, 1, c)
	r.DrawLine(hi, f32.Pt(lo.X, hi.Y), 1, c)
	r.DrawLine(f32.Pt(lo.X, hi.Y), lo, 1, c)
}

func (r *Renderer) fill(c color.Color) {
	r.raster.DrawOp = draw.Over
	r.raster.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

// Image returns the canvas
func (r *Renderer) Image() *image.RGBA {
	return r.img
}

// Width returns the renderer width
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the renderer height
func (r *Renderer) Height() int {
	return r.height
}

// Background returns the colour Clear fills with
func (r *Renderer) Background() color.Color {
	return r.background
}
