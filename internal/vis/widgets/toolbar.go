package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/imageviewer/internal/viewer"
	"github.com/elektrokombinacija/imageviewer/internal/vis/draw"
	"github.com/elektrokombinacija/imageviewer/internal/vis/interact"
	"github.com/elektrokombinacija/imageviewer/internal/vis/observer"
)

// Toolbar provides zoom and close buttons over the viewer, with a status
// line.
type Toolbar struct {
	zoom     *interact.Zoom
	recorder *observer.Recorder

	// Buttons
	zoomOutBtn widget.Clickable
	zoomInBtn  widget.Clickable
	resetBtn   widget.Clickable
	closeBtn   widget.Clickable
}

// NewToolbar creates a new toolbar. recorder may be nil.
func NewToolbar(zoom *interact.Zoom, recorder *observer.Recorder) *Toolbar {
	return &Toolbar{zoom: zoom, recorder: recorder}
}

// Layout renders the toolbar.
func (t *Toolbar) Layout(gtx layout.Context, th *material.Theme, v *viewer.Viewer) layout.Dimensions {
	height := gtx.Dp(unit.Dp(44))

	// Background
	draw.Scrim(gtx, image.Rect(0, 0, gtx.Constraints.Max.X, height), 0.55)

	// Handle button clicks
	t.handleClicks(gtx, v)

	gtx.Constraints.Max.Y = height
	return layout.Inset{Left: unit.Dp(10), Right: unit.Dp(10), Top: unit.Dp(8), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.iconButton(gtx, th, &t.zoomOutBtn, "-")
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.iconButton(gtx, th, &t.resetBtn, "1:1")
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.iconButton(gtx, th, &t.zoomInBtn, "+")
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.layoutSeparator(gtx)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				label := material.Label(th, 12, t.status(v))
				label.Color = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
				return label.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.iconButton(gtx, th, &t.closeBtn, "X")
			}),
		)
	})
}

func (t *Toolbar) status(v *viewer.Viewer) string {
	s := fmt.Sprintf("%.1fx of %.0fx", v.Zoom(), v.MaxZoom())
	if t.recorder != nil {
		if last, ok := t.recorder.Last(); ok {
			s += fmt.Sprintf("  %s -> %s", last.From, last.To)
		}
	}
	return s
}

func (t *Toolbar) layoutSeparator(gtx layout.Context) layout.Dimensions {
	return layout.Inset{Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		rect := image.Rect(0, 0, 1, 24)
		paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 65, B: 70, A: 255}, clip.Rect(rect).Op())
		return layout.Dimensions{Size: image.Point{X: 1, Y: 24}}
	})
}

func (t *Toolbar) iconButton(gtx layout.Context, th *material.Theme, btn *widget.Clickable, icon string) layout.Dimensions {
	bg := color.NRGBA{R: 55, G: 58, B: 65, A: 220}
	if btn.Hovered() {
		bg.R = min(bg.R+15, 255)
		bg.G = min(bg.G+15, 255)
		bg.B = min(bg.B+15, 255)
	}

	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Background{}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min = image.Point{X: 32, Y: 28}
				rect := image.Rect(0, 0, gtx.Constraints.Min.X, gtx.Constraints.Min.Y)
				paint.FillShape(gtx.Ops, bg, clip.Rect(rect).Op())
				return layout.Dimensions{Size: gtx.Constraints.Min}
			},
			func(gtx layout.Context) layout.Dimensions {
				return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					label := material.Label(th, 12, icon)
					label.Color = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
					return label.Layout(gtx)
				})
			},
		)
	})
}

func (t *Toolbar) handleClicks(gtx layout.Context, v *viewer.Viewer) {
	center := draw.ScreenPoints(gtx).Mul(0.5)
	for t.zoomInBtn.Clicked(gtx) {
		t.zoom.In(v, center)
	}
	for t.zoomOutBtn.Clicked(gtx) {
		t.zoom.Out(v, center)
	}
	for t.resetBtn.Clicked(gtx) {
		v.ResetZoom()
	}
	for t.closeBtn.Clicked(gtx) {
		v.Close()
	}
}
