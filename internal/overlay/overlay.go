// Package overlay manages presenting and tearing down the full-screen
// viewer on top of the host screen.
package overlay

import (
	"fmt"
	"log/slog"
	"time"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/anim"
	"github.com/elektrokombinacija/imageviewer/internal/geom"
	"github.com/elektrokombinacija/imageviewer/internal/physics"
	"github.com/elektrokombinacija/imageviewer/internal/viewport"
)

// Phase is the lifecycle stage of the overlay.
type Phase uint8

const (
	Hidden Phase = iota
	Appearing
	Shown
	Closing
	Closed
)

func (p Phase) String() string {
	switch p {
	case Hidden:
		return "hidden"
	case Appearing:
		return "appearing"
	case Shown:
		return "shown"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Host presents and removes the overlay surface.
type Host interface {
	Present()
	Dismiss()
}

// Config holds the transition timings.
type Config struct {
	Appear     time.Duration
	TapDismiss time.Duration
	Ease       anim.Easing
}

// DefaultConfig returns the standard transition timings.
func DefaultConfig() Config {
	return Config{
		Appear:     200 * time.Millisecond,
		TapDismiss: 200 * time.Millisecond,
		Ease:       anim.EaseInOut,
	}
}

// Overlay animates the image between the thumbnail and full screen and
// owns the backdrop opacity.
type Overlay struct {
	cfg      Config
	driver   *anim.Driver
	body     *physics.Body
	viewport *viewport.Viewport
	host     Host
	log      *slog.Logger

	origin   geom.Rect
	hasImage bool
	phase    Phase
	backdrop float32
	tween    *anim.Handle

	// OnPhase is called after every phase change.
	OnPhase func(Phase)
}

// New creates a hidden overlay. origin is the thumbnail frame in overlay
// coordinates; hasImage is false when there is nothing to display.
func New(cfg Config, driver *anim.Driver, body *physics.Body, vp *viewport.Viewport, origin geom.Rect, hasImage bool, host Host, log *slog.Logger) *Overlay {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Ease == nil {
		cfg.Ease = anim.EaseInOut
	}
	return &Overlay{
		cfg:      cfg,
		driver:   driver,
		body:     body,
		viewport: vp,
		host:     host,
		log:      log,
		origin:   origin,
		hasImage: hasImage,
	}
}

// Phase returns the lifecycle stage.
func (o *Overlay) Phase() Phase { return o.phase }

// Backdrop returns the backdrop opacity in [0, 1].
func (o *Overlay) Backdrop() float32 { return o.backdrop }

// Present shows the overlay and grows the image from the thumbnail frame
// to its fitted frame. Without an image the overlay is shown as is.
func (o *Overlay) Present() {
	if o.phase != Hidden {
		return
	}
	o.host.Present()
	o.backdrop = 1
	if !o.hasImage {
		o.log.Warn("presenting viewer without an image")
		o.setPhase(Shown)
		return
	}

	from := o.origin
	to := o.viewport.FittedRect()
	o.body.SetFrame(from)
	o.tween = o.driver.Animate(o.cfg.Appear, o.cfg.Ease,
		func(t float32) { o.body.SetFrame(geom.Lerp(from, to, t)) },
		func() {
			o.viewport.Recenter()
			o.body.SetFrame(o.viewport.FittedRect())
			o.setPhase(Shown)
		},
	)
	o.setPhase(Appearing)
}

// TapDismiss shrinks the image back into the thumbnail frame and then
// tears the overlay down. Only valid once the overlay is shown.
func (o *Overlay) TapDismiss() {
	if o.phase != Shown {
		return
	}
	if !o.hasImage {
		o.Teardown()
		return
	}

	// Start from what is on screen, zoomed or not.
	from := o.body.Frame()
	if o.viewport.Zoom() != viewport.MinZoom {
		from = o.viewport.ContentRect()
		o.viewport.Recenter()
	}
	to := o.origin
	o.body.Stop()
	o.tween = o.driver.Animate(o.cfg.TapDismiss, o.cfg.Ease,
		func(t float32) { o.body.SetFrame(geom.Lerp(from, to, t)) },
		o.Teardown,
	)
	o.setPhase(Closing)
}

// SetBackdrop sets the backdrop opacity.
func (o *Overlay) SetBackdrop(alpha float32) {
	o.backdrop = min(max(alpha, 0), 1)
}

// Teardown removes the overlay. Only the first call reaches the host.
func (o *Overlay) Teardown() {
	if o.phase == Closed {
		return
	}
	o.tween.Cancel()
	o.setPhase(Closed)
	o.host.Dismiss()
}

// Resize refits the image after the container changed size. Ignored
// while a transition is running.
func (o *Overlay) Resize(bounds f32.Point) {
	o.viewport.Resize(bounds)
	if o.phase == Shown && o.hasImage {
		o.body.SetFrame(o.viewport.FittedRect())
	}
}

func (o *Overlay) setPhase(p Phase) {
	if o.phase == p {
		return
	}
	o.log.Debug("overlay transition", "from", o.phase, "to", p)
	o.phase = p
	if o.OnPhase != nil {
		o.OnPhase(p)
	}
}
