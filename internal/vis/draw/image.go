// Package draw renders the viewer: the backdrop, the image and its
// thumbnail.
package draw

import (
	"image"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
)

// ImageTransform maps an image of size src onto frame, rotated by angle
// (radians) about the frame center.
func ImageTransform(src image.Point, frame geom.Rect, angle float32) f32.Affine2D {
	if src.X <= 0 || src.Y <= 0 {
		return f32.Affine2D{}
	}
	scale := f32.Pt(frame.Dx()/float32(src.X), frame.Dy()/float32(src.Y))
	return f32.Affine2D{}.
		Scale(f32.Point{}, scale).
		Offset(frame.Min).
		Rotate(frame.Center(), angle)
}

// DrawImage paints img into frame.
func DrawImage(gtx layout.Context, img paint.ImageOp, frame geom.Rect, angle float32) {
	size := img.Size()
	if size.X <= 0 || size.Y <= 0 || frame.Empty() {
		return
	}
	defer op.Affine(ImageTransform(size, frame, angle)).Push(gtx.Ops).Pop()
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	img.Filter = paint.FilterLinear
	img.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// Bounds converts a frame to the integer rectangle used for clipping and
// hit areas.
func Bounds(r geom.Rect) image.Rectangle {
	return image.Rect(int(r.Min.X), int(r.Min.Y), int(r.Max.X+0.5), int(r.Max.Y+0.5))
}
