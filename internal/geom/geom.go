// Package geom provides the rectangle math used to place an image inside
// the viewer.
package geom

import (
	"math"

	"gioui.org/f32"
)

// Rect is an axis-aligned rectangle in float coordinates. Min is inclusive,
// Max exclusive, same as image.Rectangle.
type Rect struct {
	Min, Max f32.Point
}

// R is shorthand for Rect{Min: f32.Pt(x0, y0), Max: f32.Pt(x1, y1)}.
func R(x0, y0, x1, y1 float32) Rect {
	return Rect{Min: f32.Pt(x0, y0), Max: f32.Pt(x1, y1)}
}

// RectAt returns the rectangle of the given size centered on c.
func RectAt(c, size f32.Point) Rect {
	half := size.Mul(0.5)
	return Rect{Min: c.Sub(half), Max: c.Add(half)}
}

// Dx returns the width of r.
func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

// Size returns the width and height of r.
func (r Rect) Size() f32.Point { return r.Max.Sub(r.Min) }

// Center returns the midpoint of r.
func (r Rect) Center() f32.Point {
	return f32.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// Area returns the area of r, or 0 when r is empty.
func (r Rect) Area() float32 {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// Empty reports whether r contains no points.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies within r.
func (r Rect) Contains(p f32.Point) bool {
	return r.Min.X <= p.X && p.X < r.Max.X &&
		r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// Add translates r by p.
func (r Rect) Add(p f32.Point) Rect {
	return Rect{Min: r.Min.Add(p), Max: r.Max.Add(p)}
}

// Scale multiplies both corners of r by s.
func (r Rect) Scale(s float32) Rect {
	return Rect{Min: r.Min.Mul(s), Max: r.Max.Mul(s)}
}

// Intersect returns the largest rectangle contained by both r and s.
// The result is the zero Rect when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	if r.Min.X < s.Min.X {
		r.Min.X = s.Min.X
	}
	if r.Min.Y < s.Min.Y {
		r.Min.Y = s.Min.Y
	}
	if r.Max.X > s.Max.X {
		r.Max.X = s.Max.X
	}
	if r.Max.Y > s.Max.Y {
		r.Max.Y = s.Max.Y
	}
	if r.Empty() {
		return Rect{}
	}
	return r
}

// Overlaps reports whether r and s have a non-empty intersection.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.Min.X < s.Max.X && s.Min.X < r.Max.X &&
		r.Min.Y < s.Max.Y && s.Min.Y < r.Max.Y
}

// Lerp interpolates between a and b; t=0 gives a, t=1 gives b.
func Lerp(a, b Rect, t float32) Rect {
	return Rect{
		Min: LerpPt(a.Min, b.Min, t),
		Max: LerpPt(a.Max, b.Max, t),
	}
}

// LerpPt interpolates between two points.
func LerpPt(a, b f32.Point, t float32) f32.Point {
	return a.Add(b.Sub(a).Mul(t))
}

// Len returns the length of the vector p.
func Len(p f32.Point) float32 {
	return float32(math.Hypot(float64(p.X), float64(p.Y)))
}

// Rotate rotates p around the origin by angle radians.
func Rotate(p f32.Point, angle float32) f32.Point {
	s, c := math.Sincos(float64(angle))
	return f32.Pt(
		p.X*float32(c)-p.Y*float32(s),
		p.X*float32(s)+p.Y*float32(c),
	)
}

// Cross returns the z component of the cross product a × b.
func Cross(a, b f32.Point) float32 {
	return a.X*b.Y - a.Y*b.X
}

// Dot returns the dot product of a and b.
func Dot(a, b f32.Point) float32 {
	return a.X*b.X + a.Y*b.Y
}
