package fractal

import (
	"fmt"
	"math"
)

// seed holds the order-0 square as exact unit vectors at 0°, 90°, 180° and
// 270°, traversed counter-clockwise.
var seed = [4]Point{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

var (
	cos60 = math.Cos(math.Pi / 3)
	sin60 = math.Sin(math.Pi / 3)
)

// PointCount returns the number of points a curve of the given order has.
func PointCount(order int) int {
	return 4 << (2 * uint(order))
}

// Generate returns the curve of the given order whose seed square has its
// corners at distance scale from the origin.
//
// Each step replaces every edge (a, b) with the points a, c, d, e where c and
// e split the edge in thirds and d is the edge midpoint pushed off the edge by
// a sixth of (b-a) rotated +60°, the same sense as the seed's winding. b is
// emitted as the a of the following edge, so the point count grows exactly
// fourfold per order.
func Generate(order int, scale float64) (Curve, error) {
	if order < 0 {
		return Curve{}, fmt.Errorf("%w: order must be non-negative, got %d", ErrInvalidArgument, order)
	}
	if !(scale > 0) || math.IsInf(scale, 1) {
		return Curve{}, fmt.Errorf("%w: scale must be positive and finite, got %g", ErrInvalidArgument, scale)
	}

	points := make([]Point, len(seed))
	for i, u := range seed {
		points[i] = u.Mul(scale)
	}

	for k := 0; k < order; k++ {
		points = subdivide(points)
	}

	return Curve{order: order, scale: scale, points: points}, nil
}

func subdivide(prev []Point) []Point {
	n := len(prev)
	next := make([]Point, 0, n*4)
	for i := 0; i < n; i++ {
		a, b := prev[i], prev[(i+1)%n]
		v := b.Sub(a)
		c := a.Add(v.Div(3))
		d := a.Add(v.Div(2)).Add(v.Div(6).Rotate(cos60, sin60))
		e := a.Add(v.Mul(2).Div(3))
		next = append(next, a, c, d, e)
	}
	return next
}
