// Package viewer assembles the full-screen image viewer: viewport, drag
// interpretation, the dismissal engine and the overlay lifecycle. It has no
// UI dependencies beyond geometry types, so it runs headless under the
// simulator and in tests.
package viewer

import (
	"log/slog"
	"time"

	"gioui.org/f32"
	"github.com/google/uuid"

	"github.com/elektrokombinacija/imageviewer/internal/anim"
	"github.com/elektrokombinacija/imageviewer/internal/config"
	"github.com/elektrokombinacija/imageviewer/internal/dismiss"
	"github.com/elektrokombinacija/imageviewer/internal/geom"
	"github.com/elektrokombinacija/imageviewer/internal/gesture"
	"github.com/elektrokombinacija/imageviewer/internal/overlay"
	"github.com/elektrokombinacija/imageviewer/internal/physics"
	"github.com/elektrokombinacija/imageviewer/internal/viewport"
)

// Options describe one viewer session.
type Options struct {
	// Screen is the size of the device screen.
	Screen f32.Point
	// Bounds is the size of the overlay container. Zero means Screen.
	Bounds f32.Point
	// Image is the native image size. Zero means there is no image.
	Image f32.Point
	// Thumbnail is the frame the image appears from and returns to.
	Thumbnail geom.Rect

	Dismiss dismiss.Config
	Overlay overlay.Config
	ZoomCap float32

	Logger *slog.Logger
	// Now starts the animation clock.
	Now time.Time
}

// DefaultOptions returns options with the default tuning and no geometry.
func DefaultOptions() Options {
	return Options{
		Dismiss: dismiss.DefaultConfig(),
		Overlay: overlay.DefaultConfig(),
		ZoomCap: viewport.DefaultZoomCap,
	}
}

// OptionsFromConfig converts loaded configuration into viewer tuning.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.Dismiss = dismiss.Config{
		Threshold: cfg.Dismiss.Threshold,
		PushScale: cfg.Dismiss.PushScale,
		SnapBack:  cfg.Dismiss.SnapBack,
		SnapEase:  anim.ByName(cfg.Dismiss.SnapEasing),
		Fade:      cfg.Dismiss.Fade,
		Reference: cfg.Dismiss.Reference,
	}
	opts.Overlay.Appear = cfg.Overlay.Appear
	opts.Overlay.TapDismiss = cfg.Overlay.TapDismiss
	opts.ZoomCap = cfg.Viewport.ZoomCap
	return opts
}

// Scene is what the renderer needs to draw one frame.
type Scene struct {
	// Frame is the unrotated image rectangle and Angle its rotation about
	// the frame center.
	Frame    geom.Rect
	Angle    float32
	Backdrop float32
	Zoom     float32
	Overlay  overlay.Phase
	Dismiss  dismiss.Phase
	HasImage bool
}

// Viewer is one presentation of an image.
type Viewer struct {
	id  uuid.UUID
	log *slog.Logger

	driver   *anim.Driver
	body     *physics.Body
	viewport *viewport.Viewport
	overlay  *overlay.Overlay
	engine   *dismiss.Engine
	gestures *gesture.Interpreter

	screen   f32.Point
	hasImage bool

	// Translation already applied to the viewport by the current pan.
	panned  f32.Point
	panning bool
}

// New creates a hidden viewer. host receives Present and Dismiss.
func New(opts Options, host overlay.Host) *Viewer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	id := uuid.New()
	log = log.With("session", id.String())

	bounds := opts.Bounds
	if bounds == (f32.Point{}) {
		bounds = opts.Screen
	}
	hasImage := opts.Image.X > 0 && opts.Image.Y > 0

	v := &Viewer{
		id:       id,
		log:      log,
		driver:   anim.NewDriver(opts.Now),
		body:     &physics.Body{},
		viewport: viewport.New(bounds),
		screen:   opts.Screen,
		hasImage: hasImage,
	}
	v.viewport.SetZoomCap(opts.ZoomCap)
	if hasImage {
		v.viewport.SetImage(opts.Image)
	}
	v.overlay = overlay.New(opts.Overlay, v.driver, v.body, v.viewport, opts.Thumbnail, hasImage, host, log)
	v.engine = dismiss.New(opts.Dismiss, v.body, v.driver, v, v.overlay, log)
	v.gestures = gesture.NewInterpreter(v.engine, v.body.Bounds, opts.Dismiss.Threshold, log)
	v.viewport.OnDismissEnabled = func(enabled bool) {
		v.log.Debug("drag to dismiss toggled", "enabled", enabled, "zoom", v.viewport.Zoom())
		v.gestures.SetEnabled(enabled)
	}
	return v
}

// ID returns the session id.
func (v *Viewer) ID() uuid.UUID { return v.id }

// Logger returns the session logger.
func (v *Viewer) Logger() *slog.Logger { return v.log }

// Observe registers o for dismissal phase changes.
func (v *Viewer) Observe(o dismiss.Observer) { v.engine.Observe(o) }

// OnOverlay registers fn for overlay phase changes, replacing any previous
// function.
func (v *Viewer) OnOverlay(fn func(overlay.Phase)) { v.overlay.OnPhase = fn }

// Present shows the viewer.
func (v *Viewer) Present() {
	v.log.Info("presenting viewer", "image", v.hasImage, "max_zoom", v.viewport.MaxZoom())
	v.overlay.Present()
}

// Close dismisses the viewer the way a tap does. A running snap-back is
// cut short; while the image is being dragged or thrown it is ignored.
func (v *Viewer) Close() {
	switch v.engine.Phase() {
	case dismiss.Idle:
	case dismiss.SnappingBack:
		v.engine.Reset()
	default:
		return
	}
	v.overlay.TapDismiss()
}

// Closed reports whether the viewer has been torn down.
func (v *Viewer) Closed() bool { return v.overlay.Phase() == overlay.Closed }

// HandleGesture routes one gesture event. Taps close the viewer; drags
// pan zoomed content and otherwise go to the dismissal interpreter.
func (v *Viewer) HandleGesture(ev gesture.Event) {
	if v.overlay.Phase() != overlay.Shown {
		return
	}
	if ev.Phase == gesture.Tapped {
		v.Close()
		return
	}
	if !v.viewport.DismissEnabled() && v.gestures.Session() == nil {
		v.pan(ev)
		return
	}
	v.gestures.Handle(ev)
}

func (v *Viewer) pan(ev gesture.Event) {
	switch ev.Phase {
	case gesture.Began:
		v.panning = true
		v.panned = ev.Translation
	case gesture.Changed:
		if !v.panning {
			v.panning = true
			v.panned = ev.Translation
			return
		}
		v.viewport.Pan(ev.Translation.Sub(v.panned))
		v.panned = ev.Translation
	case gesture.Ended, gesture.Cancelled:
		v.panning = false
		v.panned = f32.Point{}
	}
}

// ZoomAt multiplies the zoom around focus. Only allowed while the image
// rests on screen.
func (v *Viewer) ZoomAt(factor float32, focus f32.Point) {
	if !v.zoomable() {
		return
	}
	v.viewport.ZoomAt(factor, focus)
}

// SetZoom sets the zoom around the container center.
func (v *Viewer) SetZoom(scale float32) {
	if !v.zoomable() {
		return
	}
	v.viewport.SetZoom(scale)
}

// ResetZoom returns to the fitted scale.
func (v *Viewer) ResetZoom() {
	if !v.zoomable() {
		return
	}
	v.viewport.Recenter()
}

func (v *Viewer) zoomable() bool {
	return v.hasImage && v.overlay.Phase() == overlay.Shown && v.engine.Phase() == dismiss.Idle
}

// Zoom returns the current zoom scale.
func (v *Viewer) Zoom() float32 { return v.viewport.Zoom() }

// MaxZoom returns the zoom ceiling.
func (v *Viewer) MaxZoom() float32 { return v.viewport.MaxZoom() }

// Resize handles a container or screen size change, such as a rotation.
// A drag in progress is dropped and the image is refitted.
func (v *Viewer) Resize(screen, bounds f32.Point) {
	if bounds == (f32.Point{}) {
		bounds = screen
	}
	if screen == v.screen && bounds == v.viewport.Bounds() {
		return
	}
	v.log.Debug("viewer resized", "screen", screen, "bounds", bounds)
	v.screen = screen
	switch v.engine.Phase() {
	case dismiss.Flinging, dismiss.Dismissed:
		// The image is on its way out: keep it where it flies.
		v.viewport.Resize(bounds)
		return
	}
	v.engine.Reset()
	v.gestures.Handle(gesture.Event{Phase: gesture.Cancelled})
	v.panning = false
	v.overlay.Resize(bounds)
}

// Advance runs animations and the simulation up to now.
func (v *Viewer) Advance(now time.Time) { v.driver.Advance(now) }

// Animating reports whether frames are still needed.
func (v *Viewer) Animating() bool { return v.driver.Active() }

// Phase returns the dismissal phase.
func (v *Viewer) Phase() dismiss.Phase { return v.engine.Phase() }

// OverlayPhase returns the overlay lifecycle phase.
func (v *Viewer) OverlayPhase() overlay.Phase { return v.overlay.Phase() }

// Body exposes the simulated image body.
func (v *Viewer) Body() *physics.Body { return v.body }

// Scene returns the current drawable state.
func (v *Viewer) Scene() Scene {
	s := Scene{
		Frame:    v.body.Frame(),
		Angle:    v.body.Angle,
		Backdrop: v.overlay.Backdrop(),
		Zoom:     v.viewport.Zoom(),
		Overlay:  v.overlay.Phase(),
		Dismiss:  v.engine.Phase(),
		HasImage: v.hasImage,
	}
	if s.Zoom != viewport.MinZoom && s.Overlay == overlay.Shown && s.Dismiss == dismiss.Idle {
		s.Frame = v.viewport.ContentRect()
		s.Angle = 0
	}
	return s
}

// RestCenter implements dismiss.Stage.
func (v *Viewer) RestCenter() f32.Point { return v.viewport.RestCenter() }

// Visible implements dismiss.Stage.
func (v *Viewer) Visible() geom.Rect { return v.viewport.Visible() }

// ContainerSize implements dismiss.Stage.
func (v *Viewer) ContainerSize() f32.Point { return v.viewport.Bounds() }

// ScreenSize implements dismiss.Stage.
func (v *Viewer) ScreenSize() f32.Point { return v.screen }
