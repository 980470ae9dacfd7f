package signature

import "math"

const (
	// pressureRate controls how fast simulated pressure follows speed.
	pressureRate = 0.275
	// fixedPi nudges half-turn rotations past π so cap arcs close cleanly.
	fixedPi = math.Pi + 0.0001
	// capSteps is the number of segments in a start cap or corner arc.
	capSteps = 13
	// endCapSteps is the number of segments in a rounded end cap.
	endCapSteps = 29
)

// Style configures the pen. Widths and taper lengths are in container units.
type Style struct {
	Size       float64 `toml:"size"`
	Thinning   float64 `toml:"thinning"`
	Smoothing  float64 `toml:"smoothing"`
	Streamline float64 `toml:"streamline"`
	TaperStart float64 `toml:"taper_start"`
	TaperEnd   float64 `toml:"taper_end"`
	CapStart   bool    `toml:"cap_start"`
	CapEnd     bool    `toml:"cap_end"`

	// SimulatePressure derives pressure from drawing speed instead of the
	// sampled value.
	SimulatePressure bool `toml:"simulate_pressure"`
}

// DefaultStyle is a signature pen: 1.5 to 3.5 units wide under normal
// pressure, lightly tapered.
func DefaultStyle() Style {
	return Style{
		Size:       3.5,
		Thinning:   0.6,
		Smoothing:  0.5,
		Streamline: 0.5,
		TaperStart: 4,
		TaperEnd:   4,
		CapStart:   true,
		CapEnd:     true,
	}
}

// Radius returns the half-width at the given pressure.
func (s Style) Radius(pressure float64) float64 {
	return s.Size * (0.5 - s.Thinning*(0.5-pressure))
}

// strokePoint is a streamlined sample with its direction and running length.
type strokePoint struct {
	point         Point
	pressure      float64
	vector        Point
	distance      float64
	runningLength float64
}

// strokePoints applies streamlining and drops points that do not move.
// The first point's vector is copied from the second so the start cap faces
// the direction of travel.
func strokePoints(samples []Sample, style Style, complete bool) []strokePoint {
	if len(samples) == 0 {
		return nil
	}
	t := 0.15 + (1-style.Streamline)*0.85

	first := Point{samples[0].X, samples[0].Y}
	pts := []strokePoint{{
		point:    first,
		pressure: normalizePressure(samples[0].Pressure),
		vector:   Point{1, 1},
	}}

	prev := pts[0]
	last := len(samples) - 1
	var running float64
	reachedMin := false
	for i := 1; i <= last; i++ {
		target := Point{samples[i].X, samples[i].Y}
		p := target
		if !complete || i != last {
			p = prev.point.Lerp(target, t)
		}
		if p == prev.point {
			continue
		}
		d := p.Dist(prev.point)
		running += d
		// Skip the first few jittery points until the stroke is at least one
		// pen width long.
		if i < last && !reachedMin {
			if running < style.Size {
				continue
			}
			reachedMin = true
		}
		prev = strokePoint{
			point:         p,
			pressure:      normalizePressure(samples[i].Pressure),
			vector:        prev.point.Sub(p).Unit(),
			distance:      d,
			runningLength: running,
		}
		pts = append(pts, prev)
	}
	if len(pts) > 1 {
		pts[0].vector = pts[1].vector
	} else {
		pts[0].vector = Point{}
	}
	return pts
}

func easeTaperStart(t float64) float64 { return t * (2 - t) }

func easeTaperEnd(t float64) float64 {
	t--
	return t*t*t + 1
}

// dot returns a closed polygon approximating a round dab at c.
func dot(c Point, radius float64) []Point {
	start := c.Add(Point{0, -radius})
	out := make([]Point, 0, capSteps)
	for i := 1; i <= capSteps; i++ {
		out = append(out, start.RotateAround(c, fixedPi*2*float64(i)/capSteps))
	}
	return out
}

// Outline converts one stroke into a closed polygon. complete marks a
// committed stroke whose final sample is taken literally rather than
// streamlined. The result is nil for an empty stroke, or for a stroke that
// is shorter than the pen is wide when the style has no caps.
func Outline(samples []Sample, style Style, complete bool) []Point {
	if len(samples) == 0 || style.Size <= 0 {
		return nil
	}
	points := strokePoints(samples, style, complete)
	last := len(points) - 1

	if len(points) == 1 {
		if !style.CapStart && !style.CapEnd {
			return nil
		}
		return dot(points[0].point, math.Max(0.01, style.Radius(points[0].pressure)))
	}

	totalLength := points[last].runningLength
	taperless := style.TaperStart <= 0 && style.TaperEnd <= 0
	if totalLength < style.Size && (complete || taperless) {
		// Shorter than the pen is wide: the offset loop would collapse to a
		// line, so draw a dab covering the whole stroke.
		if !style.CapStart && !style.CapEnd {
			return nil
		}
		center := points[0].point.Lerp(points[last].point, 0.5)
		return dot(center, math.Max(0.01, style.Radius(points[last].pressure)+totalLength/2))
	}
	taperStart := math.Max(0, style.TaperStart)
	taperEnd := math.Max(0, style.TaperEnd)
	minDistance := math.Pow(style.Size*style.Smoothing, 2)

	// Seed the simulated pressure with the first few points so a fast start
	// does not begin at full width.
	prevPressure := points[0].pressure
	for i := 0; i < len(points) && i < 10; i++ {
		p := points[i].pressure
		if style.SimulatePressure {
			p = simulatePressure(prevPressure, points[i].distance, style.Size)
		}
		prevPressure = (prevPressure + p) / 2
	}

	var (
		left, right  []Point
		radius       = style.Radius(points[last].pressure)
		prevVector   = points[0].vector
		pl           = points[0].point
		pr           = pl
		prevWasSharp bool
	)

	for i, sp := range points {
		if i < last && totalLength-sp.runningLength < 3 {
			continue
		}

		pressure := sp.pressure
		if style.Thinning != 0 {
			if style.SimulatePressure {
				pressure = simulatePressure(prevPressure, sp.distance, style.Size)
			}
			radius = style.Radius(pressure)
		} else {
			radius = style.Size / 2
		}

		ts, te := 1.0, 1.0
		if sp.runningLength < taperStart {
			ts = easeTaperStart(sp.runningLength / taperStart)
		}
		if totalLength-sp.runningLength < taperEnd {
			te = easeTaperEnd((totalLength - sp.runningLength) / taperEnd)
		}
		radius = math.Max(0.01, radius*math.Min(ts, te))

		nextVector := sp.vector
		nextDpr := 1.0
		if i < last {
			nextVector = points[i+1].vector
			nextDpr = sp.vector.Dot(nextVector)
		}
		prevDpr := sp.vector.Dot(prevVector)

		isSharp := prevDpr < 0 && !prevWasSharp
		nextIsSharp := nextDpr < 0

		if isSharp || nextIsSharp {
			// Wrap the reversal with a half turn on each side.
			offset := prevVector.Perp().Mul(radius)
			var tl, tr Point
			for step := 0; step <= capSteps; step++ {
				t := float64(step) / capSteps
				tl = sp.point.Sub(offset).RotateAround(sp.point, fixedPi*t)
				left = append(left, tl)
				tr = sp.point.Add(offset).RotateAround(sp.point, -fixedPi*t)
				right = append(right, tr)
			}
			pl, pr = tl, tr
			if nextIsSharp {
				prevWasSharp = true
			}
			continue
		}
		prevWasSharp = false

		if i == last {
			offset := sp.vector.Perp().Mul(radius)
			left = append(left, sp.point.Sub(offset))
			right = append(right, sp.point.Add(offset))
			continue
		}

		offset := nextVector.Lerp(sp.vector, nextDpr).Perp().Mul(radius)
		tl := sp.point.Sub(offset)
		if i <= 1 || pl.Dist2(tl) > minDistance {
			left = append(left, tl)
			pl = tl
		}
		tr := sp.point.Add(offset)
		if i <= 1 || pr.Dist2(tr) > minDistance {
			right = append(right, tr)
			pr = tr
		}
		prevPressure = pressure
		prevVector = sp.vector
	}

	if len(left) == 0 || len(right) == 0 {
		return nil
	}

	firstPoint := points[0].point
	lastPoint := points[last].point

	var startCap []Point
	switch {
	case taperStart > 0:
	case style.CapStart:
		for step := 1; step <= capSteps; step++ {
			startCap = append(startCap, right[0].RotateAround(firstPoint, fixedPi*float64(step)/capSteps))
		}
	default:
		corners := left[0].Sub(right[0])
		a, b := corners.Mul(0.5), corners.Mul(0.51)
		startCap = append(startCap, firstPoint.Sub(a), firstPoint.Sub(b), firstPoint.Add(b), firstPoint.Add(a))
	}

	var endCap []Point
	direction := points[last].vector.Neg().Perp()
	switch {
	case taperEnd > 0:
		endCap = append(endCap, lastPoint)
	case style.CapEnd:
		start := lastPoint.Add(direction.Mul(radius))
		for step := 1; step < endCapSteps; step++ {
			endCap = append(endCap, start.RotateAround(lastPoint, fixedPi*3*float64(step)/endCapSteps))
		}
	default:
		endCap = append(endCap,
			lastPoint.Add(direction.Mul(radius)),
			lastPoint.Add(direction.Mul(radius*0.99)),
			lastPoint.Sub(direction.Mul(radius*0.99)),
			lastPoint.Sub(direction.Mul(radius)),
		)
	}

	out := make([]Point, 0, len(left)+len(endCap)+len(right)+len(startCap))
	out = append(out, left...)
	out = append(out, endCap...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	out = append(out, startCap...)
	return out
}

func simulatePressure(prev, distance, size float64) float64 {
	sp := math.Min(1, distance/size)
	rp := math.Min(1, 1-sp)
	return math.Min(1, prev+(rp-prev)*(sp*pressureRate))
}

// minInkArea is the smallest committed outline, in square units, that still
// leaves visible ink.
const minInkArea = 0.25

// polygonArea returns the unsigned area of a closed polygon.
func polygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	prev := pts[len(pts)-1]
	for _, p := range pts {
		sum += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return math.Abs(sum) / 2
}

// committedOutline is the outline of a finished stroke. A committed stroke
// always leaves ink: when Outline yields nothing visible, for example with
// an uncapped style, it falls back to a dab over the samples.
func committedOutline(samples []Sample, style Style) []Point {
	out := Outline(samples, style, true)
	if polygonArea(out) >= minInkArea {
		return out
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range samples {
		minX, maxX = math.Min(minX, s.X), math.Max(maxX, s.X)
		minY, maxY = math.Min(minY, s.Y), math.Max(maxY, s.Y)
	}
	center := Point{(minX + maxX) / 2, (minY + maxY) / 2}
	radius := 0.5
	if style.Size > 0 {
		radius = math.Max(radius, style.Radius(normalizePressure(samples[len(samples)-1].Pressure)))
	}
	return dot(center, radius)
}
