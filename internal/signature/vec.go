package signature

import "math"

// Point is a 2D vertex in container coordinates.
type Point struct {
	X, Y float64
}

func (a Point) Add(b Point) Point             { return Point{a.X + b.X, a.Y + b.Y} }
func (a Point) Sub(b Point) Point             { return Point{a.X - b.X, a.Y - b.Y} }
func (a Point) Mul(n float64) Point           { return Point{a.X * n, a.Y * n} }
func (a Point) Neg() Point                    { return Point{-a.X, -a.Y} }
func (a Point) Dot(b Point) float64           { return a.X*b.X + a.Y*b.Y }
func (a Point) Len() float64                  { return math.Hypot(a.X, a.Y) }
func (a Point) Dist(b Point) float64          { return a.Sub(b).Len() }
func (a Point) Dist2(b Point) float64         { d := a.Sub(b); return d.Dot(d) }
func (a Point) Lerp(b Point, t float64) Point { return a.Add(b.Sub(a).Mul(t)) }

// Perp returns a rotated a quarter turn.
func (a Point) Perp() Point { return Point{a.Y, -a.X} }

// Unit returns a scaled to length 1, or the zero vector for zero input.
func (a Point) Unit() Point {
	l := a.Len()
	if l == 0 {
		return Point{}
	}
	return a.Mul(1 / l)
}

// RotateAround rotates a about c by r radians.
func (a Point) RotateAround(c Point, r float64) Point {
	s, co := math.Sincos(r)
	px, py := a.X-c.X, a.Y-c.Y
	return Point{px*co - py*s + c.X, px*s + py*co + c.Y}
}
