package signature

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Surface is the pixel buffer strokes are composited onto. It is sized to
// the container times the device pixel ratio and addressed in container
// coordinates. It holds no state that cannot be rebuilt from the strokes.
type Surface struct {
	width, height float64
	ratio         float64
	sized         bool

	ink  *image.Uniform
	img  *image.RGBA
	rast *vector.Rasterizer
}

// NewSurface returns an unsized surface that fills with ink.
func NewSurface(ink color.Color) *Surface {
	return &Surface{ratio: 1, ink: image.NewUniform(ink)}
}

// Resize changes the logical size and pixel ratio. Ratios below 1 are
// treated as 1. The pixel buffer is reallocated empty; callers re-render.
// It reports whether anything changed.
func (s *Surface) Resize(width, height, ratio float64) bool {
	if ratio < 1 || math.IsNaN(ratio) {
		ratio = 1
	}
	if !(width > 0) {
		width = 0
	}
	if !(height > 0) {
		height = 0
	}
	if s.sized && width == s.width && height == s.height && ratio == s.ratio {
		return false
	}
	s.sized = true
	s.width, s.height, s.ratio = width, height, ratio

	pw, ph := s.PixelSize()
	if pw == 0 || ph == 0 {
		s.img, s.rast = nil, nil
		return true
	}
	s.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
	if s.rast == nil {
		s.rast = vector.NewRasterizer(pw, ph)
	} else {
		s.rast.Reset(pw, ph)
	}
	s.rast.DrawOp = draw.Over
	Logger().Debug("surface resized", "width", width, "height", height, "ratio", ratio, "pixels_w", pw, "pixels_h", ph)
	return true
}

// Size returns the logical size and the pixel ratio.
func (s *Surface) Size() (width, height, ratio float64) {
	return s.width, s.height, s.ratio
}

// PixelSize returns the buffer dimensions.
func (s *Surface) PixelSize() (int, int) {
	return int(math.Ceil(s.width * s.ratio)), int(math.Ceil(s.height * s.ratio))
}

// Image returns the backing buffer, or nil while the surface has no area.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// SetInk changes the fill color for subsequent fills.
func (s *Surface) SetInk(c color.Color) {
	s.ink = image.NewUniform(c)
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	if s.img == nil {
		return
	}
	clear(s.img.Pix)
}

// Fill rasterizes one closed outline in container coordinates. Outlines with
// fewer than three vertices cover no area and are skipped.
func (s *Surface) Fill(outline []Point) {
	if s.img == nil || len(outline) < 3 {
		return
	}
	r := float32(s.ratio)
	pw, ph := s.PixelSize()
	s.rast.Reset(pw, ph)
	s.rast.DrawOp = draw.Over
	s.rast.MoveTo(float32(outline[0].X)*r, float32(outline[0].Y)*r)
	for _, p := range outline[1:] {
		s.rast.LineTo(float32(p.X)*r, float32(p.Y)*r)
	}
	s.rast.ClosePath()
	s.rast.Draw(s.img, s.img.Bounds(), s.ink, image.Point{})
}

// Render clears the surface and fills each outline in order.
func (s *Surface) Render(outlines [][]Point) {
	if s.img == nil {
		return
	}
	s.Clear()
	for _, o := range outlines {
		s.Fill(o)
	}
}

// Clone returns an independent copy of the surface's pixels.
func (s *Surface) Clone() *image.RGBA {
	if s.img == nil {
		return nil
	}
	c := image.NewRGBA(s.img.Bounds())
	copy(c.Pix, s.img.Pix)
	return c
}
