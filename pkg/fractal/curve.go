// Package fractal generates the closed boundary curve of a square seed
// subdivided with outward equilateral bumps.
package fractal

import (
	"errors"
	"math"
)

// ErrInvalidArgument is returned for parameters outside their valid domain.
var ErrInvalidArgument = errors.New("invalid argument")

// Curve is an ordered, cyclic sequence of points. The edge from the last
// point back to the first is implicit.
type Curve struct {
	order  int
	scale  float64
	points []Point
}

// NewCurve builds a curve from arbitrary points. Order and scale are left at
// zero since the points were not produced by Generate.
func NewCurve(points []Point) Curve {
	return Curve{points: append([]Point(nil), points...)}
}

// Order returns the subdivision order the curve was generated with.
func (c Curve) Order() int { return c.order }

// Scale returns the seed radius the curve was generated with.
func (c Curve) Scale() float64 { return c.scale }

// Len returns the number of points.
func (c Curve) Len() int { return len(c.points) }

// At returns the i-th point.
func (c Curve) At(i int) Point { return c.points[i] }

// Points returns a copy of the point sequence.
func (c Curve) Points() []Point {
	return append([]Point(nil), c.points...)
}

// Edge returns the i-th edge, wrapping from the last point to the first.
// An empty curve has no edges and yields two zero points.
func (c Curve) Edge(i int) (a, b Point) {
	n := len(c.points)
	if n == 0 {
		return Point{}, Point{}
	}
	return c.points[i%n], c.points[(i+1)%n]
}

// Bounds returns the minimum and maximum extents of the curve.
func (c Curve) Bounds() (lo, hi Point) {
	if len(c.points) == 0 {
		return Point{}, Point{}
	}
	lo, hi = c.points[0], c.points[0]
	for _, p := range c.points[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// MarkerIndex returns the index of the point shown at frame out of
// totalFrames when the curve is walked over the length of an animation.
func (c Curve) MarkerIndex(frame, totalFrames int) int {
	n := len(c.points)
	if n == 0 || totalFrames <= 0 || frame <= 0 {
		return 0
	}
	idx := int(float64(frame) / float64(totalFrames) * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
