package signature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halfWidth returns the largest distance of any vertex from the line y.
func halfWidth(pts []Point, y float64) float64 {
	var w float64
	for _, p := range pts {
		w = math.Max(w, math.Abs(p.Y-y))
	}
	return w
}

func maxX(pts []Point) float64 {
	m := math.Inf(-1)
	for _, p := range pts {
		m = math.Max(m, p.X)
	}
	return m
}

func untapered() Style {
	s := DefaultStyle()
	s.TaperStart, s.TaperEnd = 0, 0
	return s
}

func TestOutlineEmpty(t *testing.T) {
	assert.Nil(t, Outline(nil, DefaultStyle(), true))
	assert.Nil(t, Outline([]Sample{{X: 1, Y: 1}}, Style{Size: 0, CapStart: true}, true))
}

func TestOutlineSingleSample(t *testing.T) {
	tests := []struct {
		name     string
		samples  []Sample
		capStart bool
		capEnd   bool
		wantDot  bool
	}{
		{"one sample capped", []Sample{{X: 40, Y: 40, Pressure: 0.5}}, true, true, true},
		{"one sample start cap only", []Sample{{X: 40, Y: 40, Pressure: 0.5}}, true, false, true},
		{"one sample uncapped", []Sample{{X: 40, Y: 40, Pressure: 0.5}}, false, false, false},
		{"duplicates capped", []Sample{{X: 40, Y: 40}, {X: 40, Y: 40}, {X: 40, Y: 40}}, true, true, true},
		{"duplicates uncapped", []Sample{{X: 40, Y: 40}, {X: 40, Y: 40}}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := DefaultStyle()
			style.CapStart, style.CapEnd = tt.capStart, tt.capEnd
			out := Outline(tt.samples, style, true)
			if !tt.wantDot {
				assert.Nil(t, out)
				return
			}
			require.Len(t, out, capSteps)
			requireFinite(t, out)
			r := style.Radius(0.5)
			for _, p := range out {
				assert.InDelta(t, r, p.Dist(Point{40, 40}), 1e-6)
			}
		})
	}
}

func TestOutlineIsBoundedAndFinite(t *testing.T) {
	samples := ramp(50, 10, 190, 100, 0.2, 0.9)
	style := DefaultStyle()
	out := Outline(samples, style, true)
	require.GreaterOrEqual(t, len(out), 3)
	requireFinite(t, out)
	for _, p := range out {
		assert.True(t, p.X >= 10-style.Size && p.X <= 190+style.Size, "x out of range: %v", p)
		assert.True(t, p.Y >= 100-style.Size && p.Y <= 100+style.Size, "y out of range: %v", p)
	}
}

func TestOutlinePressureWidensStroke(t *testing.T) {
	style := untapered()
	light := Outline(line(40, 10, 50, 190, 50, 0.2), style, true)
	heavy := Outline(line(40, 10, 50, 190, 50, 0.9), style, true)

	assert.InDelta(t, style.Radius(0.2), halfWidth(light, 50), 0.05)
	assert.InDelta(t, style.Radius(0.9), halfWidth(heavy, 50), 0.05)
	assert.Greater(t, halfWidth(heavy, 50), halfWidth(light, 50))
}

func TestOutlineThinningIncreasesContrast(t *testing.T) {
	contrast := func(thinning float64) float64 {
		s := untapered()
		s.Thinning = thinning
		return s.Radius(0.9) - s.Radius(0.2)
	}
	assert.Zero(t, contrast(0))
	assert.Greater(t, contrast(0.8), contrast(0.3))
}

func TestOutlineTaperNarrowsEnds(t *testing.T) {
	samples := line(40, 10, 50, 190, 50, 0.8)

	tapered := DefaultStyle()
	tapered.TaperStart, tapered.TaperEnd = 30, 30
	capped := untapered()

	near := func(pts []Point, x float64) float64 {
		var w float64
		for _, p := range pts {
			if math.Abs(p.X-x) <= 1 {
				w = math.Max(w, math.Abs(p.Y-50))
			}
		}
		return w
	}
	tOut := Outline(samples, tapered, true)
	cOut := Outline(samples, capped, true)
	requireFinite(t, tOut)

	assert.Less(t, near(tOut, 10), 0.5)
	assert.Less(t, near(tOut, 190), 0.5)
	assert.Greater(t, near(cOut, 10), 1.0)
	assert.InDelta(t, halfWidth(cOut, 50), halfWidth(tOut, 50), 0.2, "middle keeps full width")
}

func TestOutlineStreamlineLagsInProgressStroke(t *testing.T) {
	samples := line(11, 0, 50, 100, 50, 0.5)
	loose := untapered()
	loose.Streamline = 0.1
	tight := untapered()
	tight.Streamline = 0.9

	assert.Less(t, maxX(Outline(samples, tight, false)), maxX(Outline(samples, loose, false)))
	// A committed stroke ends on its final sample either way.
	assert.InDelta(t, maxX(Outline(samples, tight, true)), maxX(Outline(samples, loose, true)), 0.5)
}

func TestOutlineReversalIsFinite(t *testing.T) {
	samples := append(line(20, 10, 50, 100, 50, 0.6), line(20, 100, 50, 10, 52, 0.6)...)
	out := Outline(samples, DefaultStyle(), true)
	require.NotEmpty(t, out)
	requireFinite(t, out)
}

func TestOutlineShortStrokes(t *testing.T) {
	for n := 2; n < 6; n++ {
		out := Outline(line(n, 20, 20, 21, 21, 0.5), DefaultStyle(), false)
		requireFinite(t, out)
		for _, p := range out {
			assert.Less(t, p.Dist(Point{20.5, 20.5}), 10.0)
		}
	}
}

func TestOutlineVeryShortStrokeHasArea(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
	}{
		{"one unit", []Sample{{X: 50, Y: 50, Pressure: 0.5}, {X: 51, Y: 50, Pressure: 0.5}}},
		{"two units", []Sample{{X: 50, Y: 50, Pressure: 0.5}, {X: 52, Y: 50, Pressure: 0.5}}},
		{"short diagonal", []Sample{{X: 50, Y: 50}, {X: 52, Y: 52}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Outline(tt.samples, DefaultStyle(), true)
			require.Len(t, out, capSteps)
			requireFinite(t, out)
			assert.Greater(t, polygonArea(out), minInkArea)
		})
	}
}

func TestCommittedOutlineAlwaysInks(t *testing.T) {
	uncapped := DefaultStyle()
	uncapped.CapStart, uncapped.CapEnd = false, false
	noTaper := uncapped
	noTaper.TaperStart, noTaper.TaperEnd = 0, 0

	strokes := [][]Sample{
		{{X: 40, Y: 40, Pressure: 0.5}},
		{{X: 40, Y: 40}, {X: 41, Y: 40}},
		{{X: 40, Y: 40}, {X: 42, Y: 41}},
		line(30, 20, 100, 180, 100, 0.7),
	}
	for _, style := range []Style{DefaultStyle(), uncapped, noTaper} {
		for _, st := range strokes {
			out := committedOutline(st, style)
			requireFinite(t, out)
			assert.GreaterOrEqual(t, polygonArea(out), minInkArea, "style %+v stroke %v", style, st)
		}
	}
}

func TestPolygonArea(t *testing.T) {
	square := []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	assert.InDelta(t, 4, polygonArea(square), 1e-9)
	assert.Zero(t, polygonArea([]Point{{0, 0}, {1, 0}, {2, 0}}))
	assert.Zero(t, polygonArea(nil))
}
