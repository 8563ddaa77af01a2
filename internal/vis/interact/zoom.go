// Package interact maps scroll wheel and key input to zoom steps.
package interact

import (
	"gioui.org/f32"
	"gioui.org/io/pointer"
)

// DefaultStep is the zoom factor of one scroll notch or key press.
const DefaultStep = 1.1

// Zoomer is zoomed around a focus point.
type Zoomer interface {
	ZoomAt(factor float32, focus f32.Point)
}

// Zoom turns scroll and keyboard input into zoom factors.
type Zoom struct {
	Step float32
}

// NewZoom creates a zoom handler. Steps of 1 or less use DefaultStep.
func NewZoom(step float32) *Zoom {
	if step <= 1 {
		step = DefaultStep
	}
	return &Zoom{Step: step}
}

// ScrollFactor maps a vertical scroll amount to a zoom factor: scrolling
// up zooms in.
func (z *Zoom) ScrollFactor(scrollY float32) float32 {
	switch {
	case scrollY < 0:
		return z.Step
	case scrollY > 0:
		return 1 / z.Step
	default:
		return 1
	}
}

// HandleEvent zooms target around the pointer for scroll events and
// reports whether ev was consumed.
func (z *Zoom) HandleEvent(ev pointer.Event, target Zoomer) bool {
	if ev.Kind != pointer.Scroll || ev.Scroll.Y == 0 {
		return false
	}
	target.ZoomAt(z.ScrollFactor(ev.Scroll.Y), ev.Position)
	return true
}

// In zooms one step in around center.
func (z *Zoom) In(target Zoomer, center f32.Point) { target.ZoomAt(z.Step, center) }

// Out zooms one step out around center.
func (z *Zoom) Out(target Zoomer, center f32.Point) { target.ZoomAt(1/z.Step, center) }
