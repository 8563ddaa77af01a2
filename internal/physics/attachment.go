package physics

import (
	"math"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
)

// Attachment ties a point of a body to a moving anchor. Offset is kept in
// the body's local frame, so the grab point stays fixed on the image while
// it rotates.
type Attachment struct {
	Anchor f32.Point
	Offset f32.Point
}

// Attach links b to anchor at the world-space offset from its center.
func Attach(b *Body, anchor, offset f32.Point) *Attachment {
	return &Attachment{
		Anchor: anchor,
		Offset: geom.Rotate(offset, -b.Angle),
	}
}

// Point returns the attached point of b in world space.
func (a *Attachment) Point(b *Body) f32.Point {
	return b.Center.Add(a.WorldOffset(b))
}

// WorldOffset returns the attachment offset rotated into world space.
func (a *Attachment) WorldOffset(b *Body) f32.Point {
	return geom.Rotate(a.Offset, b.Angle)
}

// Follow advances b by dt so that the attached point lands on the anchor.
// Part of the displacement is taken up by rotation about the center, less
// so for bodies with a high angular resistance; the rest is translation.
func (a *Attachment) Follow(b *Body, dt float32) {
	if dt <= 0 {
		return
	}
	r := a.WorldOffset(b)
	if geom.Len(r) > 1 {
		target := a.Anchor.Sub(b.Center)
		turn := float32(math.Atan2(float64(geom.Cross(r, target)), float64(geom.Dot(r, target))))
		turn /= 1 + b.Props.AngularResistance
		b.Angle += turn
		b.AngularVelocity = turn / dt
		r = a.WorldOffset(b)
	} else {
		b.AngularVelocity = 0
	}
	center := a.Anchor.Sub(r)
	b.Velocity = center.Sub(b.Center).Mul(1 / dt)
	b.Center = center
}
