// Package geom holds the float geometry used by the annotation canvas: points,
// sizes, rectangles and the eight resize handles of a bounding box.
package geom

import (
	"fmt"
	"image"
	"math"
)

// Point is a location on the canvas in device units.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by d.
func (p Point) Add(d Size) Point { return Point{p.X + d.W, p.Y + d.H} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Size { return Size{p.X - q.X, p.Y - q.Y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Size is a width/height pair. It doubles as a drag delta (dx, dy).
type Size struct {
	W, H float64
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h float64) Size { return Size{W: w, H: h} }

// Add returns the component-wise sum of s and d.
func (s Size) Add(d Size) Size { return Size{s.W + d.W, s.H + d.H} }

// Scale multiplies both components by k.
func (s Size) Scale(k float64) Size { return Size{s.W * k, s.H * k} }

// Len returns the length of s treated as a vector.
func (s Size) Len() float64 { return math.Hypot(s.W, s.H) }

// Zero reports whether both components are zero.
func (s Size) Zero() bool { return s.W == 0 && s.H == 0 }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }

// Rect is an origin plus a size. A Rect may carry a negative size while a drag
// is in progress; Canon returns the equivalent rectangle with a non-negative
// size.
type Rect struct {
	Origin Point
	Size   Size
}

// R builds a Rect from origin and size components.
func R(x, y, w, h float64) Rect { return Rect{Origin: Point{x, y}, Size: Size{w, h}} }

// Span returns the canonical rectangle spanned by the two corners a and b.
func Span(a, b Point) Rect {
	return Rect{Origin: a, Size: b.Sub(a)}.Canon()
}

// Canon returns r with negative extents folded so that Size is non-negative.
func (r Rect) Canon() Rect {
	if r.Size.W < 0 {
		r.Origin.X += r.Size.W
		r.Size.W = -r.Size.W
	}
	if r.Size.H < 0 {
		r.Origin.Y += r.Size.H
		r.Size.H = -r.Size.H
	}
	return r
}

// Min is the top-left corner of the canonical rectangle.
func (r Rect) Min() Point { return r.Canon().Origin }

// Max is the bottom-right corner of the canonical rectangle.
func (r Rect) Max() Point {
	c := r.Canon()
	return c.Origin.Add(c.Size)
}

// Center returns the midpoint of r.
func (r Rect) Center() Point { return r.Origin.Add(r.Size.Scale(0.5)) }

// Translate moves r by d.
func (r Rect) Translate(d Size) Rect {
	r.Origin = r.Origin.Add(d)
	return r
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	c := r.Canon()
	return p.X >= c.Origin.X && p.X <= c.Origin.X+c.Size.W &&
		p.Y >= c.Origin.Y && p.Y <= c.Origin.Y+c.Size.H
}

// Degenerate reports whether r has no extent on at least one axis.
func (r Rect) Degenerate() bool { return r.Size.W == 0 || r.Size.H == 0 }

// Image converts r to an integer image.Rectangle, rounding outwards.
func (r Rect) Image() image.Rectangle {
	c := r.Canon()
	return image.Rect(
		int(math.Floor(c.Origin.X)),
		int(math.Floor(c.Origin.Y)),
		int(math.Ceil(c.Origin.X+c.Size.W)),
		int(math.Ceil(c.Origin.Y+c.Size.H)),
	)
}

func (r Rect) String() string { return fmt.Sprintf("%v+%v", r.Origin, r.Size) }
