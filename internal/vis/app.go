// Package vis implements the Gio front end of the image viewer: a screen
// with a thumbnail that opens the full-screen viewer.
package vis

import (
	"image"
	"image/color"
	"log/slog"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
	"github.com/elektrokombinacija/imageviewer/internal/media"
	"github.com/elektrokombinacija/imageviewer/internal/vis/draw"
	"github.com/elektrokombinacija/imageviewer/internal/vis/interact"
	"github.com/elektrokombinacija/imageviewer/internal/vis/observer"
	"github.com/elektrokombinacija/imageviewer/internal/vis/state"
	"github.com/elektrokombinacija/imageviewer/internal/vis/widgets"
)

// thumbSize is the side of the thumbnail, in dp.
const thumbSize = 120

// App is the main visualization application.
type App struct {
	state    *state.State
	theme    *material.Theme
	thumb    *widgets.Thumbnail
	viewer   *widgets.Viewer
	toolbar  *widgets.Toolbar
	zoom     *interact.Zoom
	recorder *observer.Recorder

	// openOnStart presents the viewer on the first frame.
	openOnStart bool
}

// NewApp creates a new visualization application.
func NewApp(st *state.State, openOnStart bool) *App {
	th := material.NewTheme()
	zoom := interact.NewZoom(st.Config.Viewport.ZoomStep)
	rec := &observer.Recorder{}

	level, _ := st.Config.Log.SlogLevel()
	st.Observers = append(st.Observers,
		observer.NewTransitionLogger(st.Log, min(level, slog.LevelInfo)),
		rec,
	)

	var thumb image.Image
	if st.Image != nil {
		thumb = media.Thumbnail(st.Image.Display, 256, 256)
	} else {
		thumb = media.Placeholder(256, 256, st.Tint, media.Dim(st.Tint, 0.5))
	}

	return &App{
		state:       st,
		theme:       th,
		thumb:       widgets.NewThumbnail(thumb),
		viewer:      widgets.NewViewer(st, zoom),
		toolbar:     widgets.NewToolbar(zoom, rec),
		zoom:        zoom,
		recorder:    rec,
		openOnStart: openOnStart,
	}
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	// Event filters for keyboard input
	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			// Handle keyboard events
			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(gtx, ke)
				}
			}

			// Request focus for keyboard input
			event.Op(gtx.Ops, tag)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			// Request continuous redraws while anything moves
			if v := a.state.Viewer; v != nil && (v.Animating() || a.viewer.Tracking()) {
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(gtx layout.Context, e key.Event) {
	v := a.state.Viewer
	if v == nil {
		if e.Name == key.NameReturn || e.Name == key.NameSpace {
			a.open(gtx)
		}
		return
	}
	center := draw.ScreenPoints(gtx).Mul(0.5)
	switch e.Name {
	case key.NameEscape:
		v.Close()
	case "+", "=":
		a.zoom.In(v, center)
	case "-":
		a.zoom.Out(v, center)
	case "0":
		v.ResetZoom()
	}
}

func (a *App) open(gtx layout.Context) {
	a.recorder.Reset()
	a.state.Open(draw.ScreenPoints(gtx), draw.RectPoints(gtx, a.thumb.Frame()), gtx.Now)
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	// Fill background
	paint.Fill(gtx.Ops, color.NRGBA{R: 30, G: 30, B: 35, A: 255})

	margin := float32(gtx.Dp(unit.Dp(24)))
	side := float32(gtx.Dp(unit.Dp(thumbSize)))
	frame := geom.R(margin, margin, margin+side, margin+side)
	a.thumb.Layout(gtx, frame)

	if a.thumb.Clicked(gtx) || a.openOnStart {
		a.openOnStart = false
		a.open(gtx)
	}

	if v := a.state.Viewer; v != nil {
		a.viewer.Layout(gtx, v)
		a.toolbar.Layout(gtx, a.theme, v)
	}
	return layout.Dimensions{Size: gtx.Constraints.Max}
}
