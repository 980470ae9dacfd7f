package signature

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func TestSurfaceResize(t *testing.T) {
	tests := []struct {
		name          string
		w, h, ratio   float64
		wantW, wantH  int
		wantRatio     float64
		wantAllocated bool
	}{
		{"unit ratio", 300, 150, 1, 300, 150, 1, true},
		{"retina", 300, 150, 2, 600, 300, 2, true},
		{"fractional", 101, 51, 1.5, 152, 77, 1.5, true},
		{"ratio below one", 100, 100, 0.5, 100, 100, 1, true},
		{"zero width", 0, 100, 1, 0, 100, 1, false},
		{"negative height", 100, -5, 1, 100, 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(color.Black)
			assert.True(t, s.Resize(tt.w, tt.h, tt.ratio))
			pw, ph := s.PixelSize()
			assert.Equal(t, tt.wantW, pw)
			assert.Equal(t, tt.wantH, ph)
			_, _, r := s.Size()
			assert.Equal(t, tt.wantRatio, r)
			assert.Equal(t, tt.wantAllocated, s.Image() != nil)
		})
	}
}

func TestSurfaceResizeSameGeometryIsNoop(t *testing.T) {
	s := NewSurface(color.Black)
	require.True(t, s.Resize(100, 80, 2))
	img := s.Image()
	assert.False(t, s.Resize(100, 80, 2))
	assert.Same(t, img, s.Image())
	assert.True(t, s.Resize(100, 80, 3))
}

func TestSurfaceFillScalesByRatio(t *testing.T) {
	s := NewSurface(color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff})
	s.Resize(50, 50, 2)
	s.Fill(square(10, 10, 30, 30))

	img := s.Image()
	assert.Equal(t, uint8(0xff), img.RGBAAt(40, 40).A)
	assert.Equal(t, uint8(0xd4), img.RGBAAt(40, 40).R)
	assert.Equal(t, uint8(0xff), img.RGBAAt(21, 59).A)
	assert.Zero(t, img.RGBAAt(15, 15).A)
	assert.Zero(t, img.RGBAAt(70, 70).A)
}

func TestSurfaceSkipsDegenerateOutlines(t *testing.T) {
	s := NewSurface(color.Black)
	s.Resize(20, 20, 1)
	s.Fill(nil)
	s.Fill([]Point{{1, 1}, {5, 5}})
	assert.Zero(t, inkIn(s.Image(), rgbaAlpha(s.Image()), s.Image().Bounds()))
}

func TestSurfaceRenderIsDeterministic(t *testing.T) {
	outlines := [][]Point{
		Outline(ramp(50, 10, 190, 60, 0.2, 0.9), DefaultStyle(), true),
		Outline(line(30, 20, 150, 180, 20, 0.7), DefaultStyle(), true),
	}
	s := NewSurface(color.Black)
	s.Resize(200, 200, 2)

	s.Render(outlines)
	first := s.Clone()
	s.Render(outlines)
	assert.Equal(t, first.Pix, s.Image().Pix)

	other := NewSurface(color.Black)
	other.Resize(200, 200, 2)
	other.Render(outlines)
	assert.Equal(t, first.Pix, other.Image().Pix)
}

func TestSurfaceRenderClearsPreviousContent(t *testing.T) {
	s := NewSurface(color.Black)
	s.Resize(40, 40, 1)
	s.Render([][]Point{square(0, 0, 20, 20)})
	s.Render([][]Point{square(20, 20, 40, 40)})
	img := s.Image()
	assert.Zero(t, inkIn(img, rgbaAlpha(img), image.Rect(0, 0, 19, 19)))
	assert.Equal(t, uint8(0xff), img.RGBAAt(30, 30).A)
}

func TestSurfaceWithoutAreaIsNoop(t *testing.T) {
	s := NewSurface(color.Black)
	s.Render([][]Point{square(0, 0, 10, 10)})
	s.Clear()
	assert.Nil(t, s.Image())
	assert.Nil(t, s.Clone())
}
