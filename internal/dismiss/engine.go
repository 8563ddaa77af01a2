// Package dismiss implements flick-to-dismiss: the dragged image hangs from
// the pointer on an attachment link, and on release it either snaps back
// or is thrown off-screen, after which the overlay is torn down.
package dismiss

import (
	"fmt"
	"log/slog"
	"time"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/anim"
	"github.com/elektrokombinacija/imageviewer/internal/geom"
	"github.com/elektrokombinacija/imageviewer/internal/physics"
)

// Phase is the externally visible state of the engine.
type Phase uint8

const (
	Idle Phase = iota
	Attached
	SnappingBack
	Flinging
	Dismissed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Attached:
		return "attached"
	case SnappingBack:
		return "snapping-back"
	case Flinging:
		return "flinging"
	case Dismissed:
		return "dismissed"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Stage describes where the image lives.
type Stage interface {
	// RestCenter is where the image sits when nothing is moving it.
	RestCenter() f32.Point
	// Visible is the on-screen rectangle, in the body's coordinates.
	Visible() geom.Rect
	// ContainerSize is the size of the viewport holding the image.
	ContainerSize() f32.Point
	// ScreenSize is the size of the screen the viewer runs on.
	ScreenSize() f32.Point
}

// Host owns the backdrop and the overlay itself.
type Host interface {
	SetBackdrop(alpha float32)
	Teardown()
}

// Observer is notified of every phase change.
type Observer interface {
	OnTransition(from, to Phase)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(from, to Phase)

// OnTransition calls f(from, to).
func (f ObserverFunc) OnTransition(from, to Phase) { f(from, to) }

// Config tunes the engine.
type Config struct {
	// Threshold is the release speed in points/s above which the image
	// is thrown away.
	Threshold float32
	// PushScale converts release velocity into the push impulse.
	PushScale float32
	SnapBack  time.Duration
	SnapEase  anim.Easing
	Fade      time.Duration
	Reference physics.Profile
}

// DefaultConfig returns the tuning used by the viewer.
func DefaultConfig() Config {
	return Config{
		Threshold: 800,
		PushScale: 0.1,
		SnapBack:  300 * time.Millisecond,
		SnapEase:  anim.EaseOut,
		Fade:      250 * time.Millisecond,
		Reference: physics.Reference,
	}
}

// state is one of idle, attached, snapping, flinging or dismissed. Each
// variant carries only what is valid in that phase.
type state interface {
	phase() Phase
}

type idle struct{}

type attached struct {
	link *physics.Attachment
	tick *anim.Handle
}

type snapping struct {
	tween *anim.Handle
}

type flinging struct {
	tick *anim.Handle
}

type dismissed struct {
	fade *anim.Handle
}

func (idle) phase() Phase      { return Idle }
func (attached) phase() Phase  { return Attached }
func (snapping) phase() Phase  { return SnappingBack }
func (flinging) phase() Phase  { return Flinging }
func (dismissed) phase() Phase { return Dismissed }

// Engine is the dismissal state machine. Methods called in a phase where
// they make no sense are ignored.
type Engine struct {
	cfg    Config
	body   *physics.Body
	driver *anim.Driver
	stage  Stage
	host   Host
	log    *slog.Logger

	state     state
	observers []Observer
}

// New creates an engine moving body.
func New(cfg Config, body *physics.Body, driver *anim.Driver, stage Stage, host Host, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if cfg.SnapEase == nil {
		cfg.SnapEase = anim.EaseOut
	}
	return &Engine{
		cfg:    cfg,
		body:   body,
		driver: driver,
		stage:  stage,
		host:   host,
		log:    log,
		state:  idle{},
	}
}

// Observe registers o for phase changes.
func (e *Engine) Observe(o Observer) {
	e.observers = append(e.observers, o)
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.state.phase() }

// Threshold returns the configured fling threshold.
func (e *Engine) Threshold() float32 { return e.cfg.Threshold }

// Link returns the attachment link while attached, nil otherwise.
func (e *Engine) Link() *physics.Attachment {
	if s, ok := e.state.(attached); ok {
		return s.link
	}
	return nil
}

// Attach hangs the image from point. offset is the grab point relative to
// the image center and stays fixed on the image. A running snap-back is
// cancelled.
func (e *Engine) Attach(point, offset f32.Point) {
	switch s := e.state.(type) {
	case idle:
	case snapping:
		s.tween.Cancel()
	default:
		e.log.Debug("attach ignored", "phase", e.Phase())
		return
	}

	e.body.Stop()
	e.body.Props = physics.ComputeBodyProperties(
		e.cfg.Reference, e.stage.ScreenSize(), e.stage.ContainerSize(), e.body.Size)
	link := physics.Attach(e.body, point, offset)
	tick := e.driver.Every(func(dt float32) {
		link.Follow(e.body, dt)
	})
	e.set(attached{link: link, tick: tick})
	e.log.Debug("image attached",
		"anchor", point, "offset", offset,
		"density", e.body.Props.Density, "angular_resistance", e.body.Props.AngularResistance)
}

// UpdateAnchor moves the attachment anchor.
func (e *Engine) UpdateAnchor(point f32.Point) {
	s, ok := e.state.(attached)
	if !ok {
		return
	}
	s.link.Anchor = point
}

// Release ends the drag. Releases faster than threshold throw the image
// in the direction of velocity; slower ones snap it back.
func (e *Engine) Release(speed float32, velocity f32.Point, threshold float32) {
	s, ok := e.state.(attached)
	if !ok {
		return
	}
	s.tick.Cancel()

	if speed > threshold {
		e.fling(s.link, velocity)
		return
	}
	e.snapBack()
}

func (e *Engine) fling(link *physics.Attachment, velocity f32.Point) {
	offset := link.WorldOffset(e.body)
	e.body.Stop()
	e.body.ApplyImpulse(velocity.Mul(e.cfg.PushScale), offset)
	tick := e.driver.Every(func(dt float32) {
		e.body.Step(dt)
		e.Poll()
	})
	e.set(flinging{tick: tick})
	e.log.Debug("image flung", "velocity", velocity, "body_velocity", e.body.Velocity)
}

func (e *Engine) snapBack() {
	e.body.Stop()
	fromCenter, fromAngle := e.body.Center, e.body.Angle
	toCenter := e.stage.RestCenter()
	tween := e.driver.Animate(e.cfg.SnapBack, e.cfg.SnapEase,
		func(t float32) {
			e.body.Center = geom.LerpPt(fromCenter, toCenter, t)
			e.body.Angle = fromAngle + (0-fromAngle)*t
		},
		func() {
			e.body.Center = toCenter
			e.body.Angle = 0
			e.set(idle{})
		},
	)
	e.set(snapping{tween: tween})
}

// Poll checks whether a thrown image has left the visible area and, the
// first time it has, starts the final dismissal. It is a no-op in every
// other phase.
func (e *Engine) Poll() {
	s, ok := e.state.(flinging)
	if !ok {
		return
	}
	if e.body.Bounds().Overlaps(e.stage.Visible()) {
		return
	}
	s.tick.Cancel()
	e.body.Stop()

	fade := e.driver.Animate(e.cfg.Fade, anim.Linear,
		func(t float32) { e.host.SetBackdrop(1 - t) },
		func() { e.host.Teardown() },
	)
	e.set(dismissed{fade: fade})
	e.log.Debug("image left the screen", "bounds", e.body.Bounds())
}

// Reset drops any link or running animation and returns to Idle without
// moving the image. Used when the viewport is resized mid-gesture.
func (e *Engine) Reset() {
	switch s := e.state.(type) {
	case attached:
		s.tick.Cancel()
	case snapping:
		s.tween.Cancel()
	case flinging, dismissed:
		return
	}
	e.body.Stop()
	e.body.Angle = 0
	e.set(idle{})
}

func (e *Engine) set(s state) {
	from := e.state.phase()
	e.state = s
	to := s.phase()
	if from == to {
		return
	}
	e.log.Debug("dismiss transition", "from", from, "to", to)
	for _, o := range e.observers {
		o.OnTransition(from, to)
	}
}
