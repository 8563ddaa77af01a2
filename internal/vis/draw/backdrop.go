package draw

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/elektrokombinacija/imageviewer/internal/media"
)

// DrawBackdrop covers the whole area with bg, or with tint when bg is
// nil, at the given opacity.
func DrawBackdrop(gtx layout.Context, bg *paint.ImageOp, tint colorful.Color, alpha float32) {
	if alpha <= 0 {
		return
	}
	size := gtx.Constraints.Max
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	defer paint.PushOpacity(gtx.Ops, min(alpha, 1)).Pop()

	if bg == nil {
		paint.Fill(gtx.Ops, media.NRGBA(tint, 1))
		return
	}
	src := bg.Size()
	if src != size && src.X > 0 && src.Y > 0 {
		// Stretch a stale backdrop until it is rebuilt for the new size.
		sx := float32(size.X) / float32(src.X)
		sy := float32(size.Y) / float32(src.Y)
		defer op.Affine(f32.Affine2D{}.Scale(f32.Point{}, f32.Pt(sx, sy))).Push(gtx.Ops).Pop()
	}
	bg.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// Scrim darkens the area behind chrome such as the status bar.
func Scrim(gtx layout.Context, r image.Rectangle, alpha float32) {
	a := uint8(min(max(alpha, 0), 1) * 255)
	paint.FillShape(gtx.Ops, color.NRGBA{A: a}, clip.Rect(r).Op())
}
