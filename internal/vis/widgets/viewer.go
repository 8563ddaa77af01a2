// Package widgets provides Gio UI widgets for the visualizer.
package widgets

import (
	"image"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/imageviewer/internal/gesture"
	"github.com/elektrokombinacija/imageviewer/internal/viewer"
	"github.com/elektrokombinacija/imageviewer/internal/vis/draw"
	"github.com/elektrokombinacija/imageviewer/internal/vis/interact"
	"github.com/elektrokombinacija/imageviewer/internal/vis/state"
)

// Viewer is the full-screen overlay: backdrop, image and input.
type Viewer struct {
	state   *state.State
	zoom    *interact.Zoom
	tracker gesture.Tracker

	img paint.ImageOp

	bgSrc *image.NRGBA
	bg    paint.ImageOp
}

// NewViewer creates the overlay widget for st.
func NewViewer(st *state.State, zoom *interact.Zoom) *Viewer {
	w := &Viewer{
		state: st,
		zoom:  zoom,
		tracker: gesture.Tracker{
			Slop:       st.Config.Gesture.TouchSlop,
			TapTimeout: st.Config.Gesture.TapTimeout,
		},
	}
	if st.Image != nil {
		w.img = paint.NewImageOp(st.Image.Display)
	}
	return w
}

// Tracking reports whether a pointer is down on the overlay.
func (w *Viewer) Tracking() bool { return w.tracker.Active() }

// Layout handles input for v, advances its animations to the frame time
// and draws it.
func (w *Viewer) Layout(gtx layout.Context, v *viewer.Viewer) layout.Dimensions {
	size := gtx.Constraints.Max
	v.Resize(draw.ScreenPoints(gtx), f32.Point{})

	w.handlePointerEvents(gtx, v)
	v.Advance(gtx.Now)

	scene := v.Scene()
	if src := w.state.Backdrop(size); src != w.bgSrc {
		w.bgSrc = src
		w.bg = paint.NewImageOp(src)
	}
	draw.DrawBackdrop(gtx, &w.bg, w.state.Tint, scene.Backdrop)
	if scene.HasImage {
		draw.DrawImage(gtx, w.img, draw.Pixels(gtx, scene.Frame), scene.Angle)
	}
	return layout.Dimensions{Size: size}
}

func (w *Viewer) handlePointerEvents(gtx layout.Context, v *viewer.Viewer) {
	// Register for pointer events
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  w,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		// Slop, thresholds and physics are tuned in points.
		pe.Position = draw.Points(gtx, pe.Position)
		if w.zoom.HandleEvent(pe, v) {
			continue
		}
		if gev, ok := w.tracker.Update(pe); ok {
			v.HandleGesture(gev)
		}
	}
}
