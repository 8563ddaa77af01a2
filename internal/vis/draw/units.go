package draw

import (
	"gioui.org/f32"
	"gioui.org/layout"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
)

// The viewer works in device independent points (dp); Gio hands out
// pixels. These convert between the two with gtx.Metric.

func pxPerDp(gtx layout.Context) float32 {
	if s := gtx.Metric.PxPerDp; s > 0 {
		return s
	}
	return 1
}

// Points converts a pixel position to points.
func Points(gtx layout.Context, p f32.Point) f32.Point {
	return p.Mul(1 / pxPerDp(gtx))
}

// RectPoints converts a pixel rectangle to points.
func RectPoints(gtx layout.Context, r geom.Rect) geom.Rect {
	return r.Scale(1 / pxPerDp(gtx))
}

// Pixels converts a rectangle in points to pixels.
func Pixels(gtx layout.Context, r geom.Rect) geom.Rect {
	return r.Scale(pxPerDp(gtx))
}

// ScreenPoints returns the maximum constraints in points.
func ScreenPoints(gtx layout.Context) f32.Point {
	size := gtx.Constraints.Max
	return Points(gtx, f32.Pt(float32(size.X), float32(size.Y)))
}
