// Package viewport handles zooming and panning of the displayed image.
package viewport

import (
	"math"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
)

const (
	// MinZoom is the fitted, unzoomed scale.
	MinZoom = 1
	// DefaultMaxZoom applies when no image is set.
	DefaultMaxZoom = 8
	// DefaultZoomCap bounds the computed maximum zoom.
	DefaultZoomCap = 16
)

// Viewport manages the view transform of the image (zoom and pan).
type Viewport struct {
	bounds  f32.Point // container size
	native  f32.Point // image size in pixels
	zoom    float32
	offset  f32.Point // content offset of the zoomed image, in points
	max     float32
	ceiling float32

	// OnDismissEnabled is called whenever dismiss-by-drag is switched
	// on or off by a zoom change.
	OnDismissEnabled func(enabled bool)
}

// New creates a viewport of the given container size.
func New(bounds f32.Point) *Viewport {
	v := &Viewport{bounds: bounds, zoom: MinZoom}
	v.max = v.computeMaxZoom()
	return v
}

// SetImage sets the native size of the image and resets the view.
func (v *Viewport) SetImage(native f32.Point) {
	v.native = native
	v.max = v.computeMaxZoom()
	v.Recenter()
}

// Resize changes the container size, e.g. after a rotation, and resets
// the view.
func (v *Viewport) Resize(bounds f32.Point) {
	v.bounds = bounds
	v.max = v.computeMaxZoom()
	v.Recenter()
}

// SetZoomCap bounds MaxZoom. Zero restores DefaultZoomCap.
func (v *Viewport) SetZoomCap(c float32) {
	v.ceiling = c
	v.max = v.computeMaxZoom()
	if v.zoom > v.max {
		v.Recenter()
	}
}

// Bounds returns the container size.
func (v *Viewport) Bounds() f32.Point { return v.bounds }

// Zoom returns the current zoom scale.
func (v *Viewport) Zoom() float32 { return v.zoom }

// MaxZoom returns the zoom ceiling for the current image.
func (v *Viewport) MaxZoom() float32 { return v.max }

// DismissEnabled reports whether drag-to-dismiss is allowed, which is only
// the case at exactly the fitted scale.
func (v *Viewport) DismissEnabled() bool { return v.zoom == MinZoom }

// FittedRect returns the unzoomed display rectangle of the image.
func (v *Viewport) FittedRect() geom.Rect {
	return geom.FitRect(v.native, v.bounds)
}

// RestCenter is the center of the container.
func (v *Viewport) RestCenter() f32.Point { return v.bounds.Mul(0.5) }

// Visible returns the container rectangle.
func (v *Viewport) Visible() geom.Rect { return geom.Rect{Max: v.bounds} }

// ContentSize returns the size of the image at the current zoom.
func (v *Viewport) ContentSize() f32.Point {
	return geom.FitSize(v.native, v.bounds).Mul(v.zoom)
}

// Insets returns the insets that keep content smaller than the container
// centered.
func (v *Viewport) Insets() geom.Insets {
	return geom.CenterInsets(v.ContentSize(), v.bounds)
}

// Offset returns the scroll offset of the zoomed content.
func (v *Viewport) Offset() f32.Point { return v.offset }

// ContentRect returns the on-screen rectangle of the image at the current
// zoom and offset.
func (v *Viewport) ContentRect() geom.Rect {
	size := v.ContentSize()
	in := v.Insets()
	origin := f32.Pt(in.Left, in.Top).Sub(v.offset)
	return geom.Rect{Min: origin, Max: origin.Add(size)}
}

// SetZoom sets the zoom scale, clamped to [1, MaxZoom], keeping the
// container center fixed.
func (v *Viewport) SetZoom(scale float32) {
	v.zoomTo(scale, v.RestCenter())
}

// ZoomAt multiplies the zoom by factor, keeping the content point under
// focus fixed on screen.
func (v *Viewport) ZoomAt(factor float32, focus f32.Point) {
	if factor <= 0 {
		return
	}
	v.zoomTo(v.zoom*factor, focus)
}

func (v *Viewport) zoomTo(zoom float32, focus f32.Point) {
	before := v.ContentRect()
	wasEnabled := v.DismissEnabled()

	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > v.max {
		zoom = v.max
	}
	if zoom == v.zoom {
		return
	}

	// Relative position of focus within the content before zooming.
	rel := f32.Pt(0.5, 0.5)
	if before.Dx() > 0 && before.Dy() > 0 {
		rel = f32.Pt((focus.X-before.Min.X)/before.Dx(), (focus.Y-before.Min.Y)/before.Dy())
	}
	v.zoom = zoom
	if v.zoom == MinZoom {
		v.offset = f32.Point{}
	} else {
		size := v.ContentSize()
		in := v.Insets()
		// Solve in.Left - offset + rel*size = focus.
		v.offset = f32.Pt(in.Left+rel.X*size.X-focus.X, in.Top+rel.Y*size.Y-focus.Y)
		v.clampOffset()
	}

	if enabled := v.DismissEnabled(); enabled != wasEnabled && v.OnDismissEnabled != nil {
		v.OnDismissEnabled(enabled)
	}
}

// Pan scrolls zoomed content by the given screen delta. It has no effect
// at the fitted scale.
func (v *Viewport) Pan(delta f32.Point) {
	if v.zoom == MinZoom {
		return
	}
	v.offset = v.offset.Sub(delta)
	v.clampOffset()
}

// Recenter returns to the fitted scale with the image centered.
func (v *Viewport) Recenter() {
	wasEnabled := v.DismissEnabled()
	v.zoom = MinZoom
	v.offset = f32.Point{}
	if !wasEnabled && v.OnDismissEnabled != nil {
		v.OnDismissEnabled(true)
	}
}

func (v *Viewport) clampOffset() {
	size := v.ContentSize()
	maxX := size.X - v.bounds.X
	maxY := size.Y - v.bounds.Y
	v.offset.X = clamp(v.offset.X, 0, maxX)
	v.offset.Y = clamp(v.offset.Y, 0, maxY)
}

// computeMaxZoom gives high resolution images a higher ceiling: four times
// the ratio of the image's short side to the container's, rounded, at
// least 2 and at most the cap.
func (v *Viewport) computeMaxZoom() float32 {
	if v.native.X <= 0 || v.native.Y <= 0 {
		return DefaultMaxZoom
	}
	short := min(v.bounds.X, v.bounds.Y)
	if short <= 0 {
		return DefaultMaxZoom
	}
	z := float32(math.Round(float64(min(v.native.X, v.native.Y) / short * 4)))
	if z <= MinZoom {
		z = MinZoom + 1
	}
	zoomCap := v.ceiling
	if zoomCap <= 0 {
		zoomCap = DefaultZoomCap
	}
	if z > zoomCap {
		z = zoomCap
	}
	return z
}

func clamp(x, lo, hi float32) float32 {
	if hi < lo {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
