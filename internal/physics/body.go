// Package physics simulates the single rigid body the viewer throws around:
// an image that can be attached to a moving anchor, pushed, and left to
// drift.
package physics

import (
	"math"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
)

const (
	// massUnitArea is the area (in points²) that has mass 1 at density 1.
	massUnitArea = 100 * 100
	// pushUnit converts an impulse magnitude of 1 into 100 points/s of
	// velocity for a unit-mass body.
	pushUnit = 100
)

// Body is a rectangular rigid body. Angle is in radians, velocities in
// points per second.
type Body struct {
	Center          f32.Point
	Size            f32.Point
	Angle           float32
	Velocity        f32.Point
	AngularVelocity float32
	Props           BodyProperties
}

// Frame returns the unrotated rectangle of the body.
func (b *Body) Frame() geom.Rect {
	return geom.RectAt(b.Center, b.Size)
}

// SetFrame moves and resizes the body to r and clears its rotation.
func (b *Body) SetFrame(r geom.Rect) {
	b.Center = r.Center()
	b.Size = r.Size()
	b.Angle = 0
}

// Bounds returns the axis-aligned bounding box of the rotated body.
func (b *Body) Bounds() geom.Rect {
	s, c := math.Sincos(float64(b.Angle))
	sa, ca := float32(math.Abs(s)), float32(math.Abs(c))
	w := b.Size.X*ca + b.Size.Y*sa
	h := b.Size.X*sa + b.Size.Y*ca
	return geom.RectAt(b.Center, f32.Pt(w, h))
}

// Mass returns the body mass derived from its density and area.
func (b *Body) Mass() float32 {
	m := b.Props.Density * b.Size.X * b.Size.Y / massUnitArea
	if m <= 0 {
		return 1
	}
	return m
}

// gyration returns the squared radius of gyration of the rectangle.
func (b *Body) gyration() float32 {
	r2 := (b.Size.X*b.Size.X + b.Size.Y*b.Size.Y) / 12
	if r2 <= 0 {
		return 1
	}
	return r2
}

// Stop clears linear and angular velocity.
func (b *Body) Stop() {
	b.Velocity = f32.Point{}
	b.AngularVelocity = 0
}

// ApplyImpulse applies an instantaneous push at offset (world space,
// relative to the center).
func (b *Body) ApplyImpulse(impulse, offset f32.Point) {
	dv := impulse.Mul(pushUnit / b.Mass())
	b.Velocity = b.Velocity.Add(dv)
	b.AngularVelocity += geom.Cross(offset, dv) / b.gyration()
}

// Step integrates a free body for dt seconds. Angular velocity decays with
// the body's angular resistance; linear motion is undamped.
func (b *Body) Step(dt float32) {
	if dt <= 0 {
		return
	}
	b.Center = b.Center.Add(b.Velocity.Mul(dt))
	b.Angle += b.AngularVelocity * dt
	b.AngularVelocity *= float32(math.Exp(-float64(b.Props.AngularResistance * dt)))
}
