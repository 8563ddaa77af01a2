package widgets

import (
	"image"

	"gioui.org/gesture"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
	"github.com/elektrokombinacija/imageviewer/internal/vis/draw"
)

// Thumbnail is the small picture the viewer opens from.
type Thumbnail struct {
	click gesture.Click
	img   paint.ImageOp
	frame geom.Rect
}

// NewThumbnail creates a thumbnail showing img.
func NewThumbnail(img image.Image) *Thumbnail {
	return &Thumbnail{img: paint.NewImageOp(img)}
}

// Clicked reports whether the thumbnail was clicked since the last call.
func (t *Thumbnail) Clicked(gtx layout.Context) bool {
	clicked := false
	for {
		ev, ok := t.click.Update(gtx.Source)
		if !ok {
			break
		}
		if ev.Kind == gesture.KindClick {
			clicked = true
		}
	}
	return clicked
}

// Frame returns the frame of the last layout, in window coordinates.
func (t *Thumbnail) Frame() geom.Rect { return t.frame }

// Layout draws the thumbnail into frame and registers it for clicks.
func (t *Thumbnail) Layout(gtx layout.Context, frame geom.Rect) layout.Dimensions {
	t.frame = frame
	r := draw.Bounds(frame)

	area := clip.Rect(r).Push(gtx.Ops)
	t.click.Add(gtx.Ops)
	area.Pop()

	draw.DrawImage(gtx, t.img, frame, 0)
	return layout.Dimensions{Size: r.Max}
}
