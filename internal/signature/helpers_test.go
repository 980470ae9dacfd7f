package signature

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// line returns n samples from (x0,y0) to (x1,y1) at constant pressure.
func line(n int, x0, y0, x1, y1, pressure float64) []Sample {
	out := make([]Sample, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = Sample{X: x0 + (x1-x0)*t, Y: y0 + (y1-y0)*t, Pressure: pressure}
	}
	return out
}

// ramp returns n samples along a horizontal line whose pressure rises from
// lo to hi at the midpoint and falls back to lo.
func ramp(n int, x0, x1, y, lo, hi float64) []Sample {
	out := line(n, x0, y, x1, y, 0)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i].Pressure = lo + (hi-lo)*(1-math.Abs(2*t-1))
	}
	return out
}

func drawStroke(p *Pad, samples []Sample) {
	p.HandlePointer(Event{Phase: PhaseDown})
	for _, s := range samples {
		p.HandlePointer(Event{Phase: PhaseMove, X: s.X, Y: s.Y, Pressure: s.Pressure})
	}
	p.HandlePointer(Event{Phase: PhaseUp})
}

func newTestPad(t *testing.T, onChange func(*Artifact)) *Pad {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ArtifactDelay = 0
	p := NewPad(cfg, onChange)
	p.Resize(200, 200, 1)
	t.Cleanup(p.Close)
	return p
}

func decodeArtifact(t *testing.T, a *Artifact) *image.NRGBA {
	t.Helper()
	require.NotNil(t, a)
	img, err := png.Decode(bytes.NewReader(a.PNG))
	require.NoError(t, err)
	n, ok := img.(*image.NRGBA)
	require.True(t, ok, "artifact decodes as %T", img)
	return n
}

// inkIn reports the largest alpha inside r.
func inkIn(img interface{ Bounds() image.Rectangle }, alpha func(x, y int) uint8, r image.Rectangle) uint8 {
	var max uint8
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if a := alpha(x, y); a > max {
				max = a
			}
		}
	}
	return max
}

func rgbaAlpha(img *image.RGBA) func(x, y int) uint8 {
	return func(x, y int) uint8 { return img.RGBAAt(x, y).A }
}

func nrgbaAlpha(img *image.NRGBA) func(x, y int) uint8 {
	return func(x, y int) uint8 { return img.NRGBAAt(x, y).A }
}

func requireFinite(t *testing.T, pts []Point) {
	t.Helper()
	for i, p := range pts {
		require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0),
			"vertex %d is not finite: %+v", i, p)
	}
}
