package fractal

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate on the curve.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Add returns p+o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p-o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Mul scales both coordinates by f.
func (p Point) Mul(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Div divides both coordinates by f.
func (p Point) Div(f float64) Point {
	return Point{X: p.X / f, Y: p.Y / f}
}

// Rotate rotates p around the origin by the angle whose cosine and sine are given.
// Positive angles rotate counter-clockwise.
func (p Point) Rotate(cos, sin float64) Point {
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// Radius returns the distance from the origin.
func (p Point) Radius() float64 {
	return math.Hypot(p.X, p.Y)
}

// Angle returns atan2(y, x) in radians, in (-π, π].
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}
