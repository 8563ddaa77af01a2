package gesture

import (
	"log/slog"
	"math"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
)

// Target receives the drag lifecycle. The dismissal engine implements it.
type Target interface {
	Attach(point, offset f32.Point)
	UpdateAnchor(point f32.Point)
	Release(speed float32, velocity f32.Point, threshold float32)
}

// Session is the state of a claimed drag.
type Session struct {
	// Start is the pointer position when the drag was claimed.
	Start f32.Point
	// AnchorOffset is the vector from the image center to Start.
	AnchorOffset f32.Point
	// TranslationBias cancels translation accumulated before a lazy claim.
	TranslationBias f32.Point
}

// Anchor returns the anchor position for the given translation.
func (s *Session) Anchor(translation f32.Point) f32.Point {
	return s.Start.Add(translation).Add(s.TranslationBias)
}

// Interpreter claims drags that start on the image and forwards them to
// a Target.
type Interpreter struct {
	target    Target
	bounds    func() geom.Rect
	threshold float32
	log       *slog.Logger

	session  *Session
	disabled bool
}

// NewInterpreter creates an interpreter. bounds reports the current
// on-screen rectangle of the image; threshold is the release speed above
// which a drag becomes a fling.
func NewInterpreter(target Target, bounds func() geom.Rect, threshold float32, log *slog.Logger) *Interpreter {
	if log == nil {
		log = slog.Default()
	}
	return &Interpreter{
		target:    target,
		bounds:    bounds,
		threshold: threshold,
		log:       log,
	}
}

// Session returns the active drag session, or nil.
func (i *Interpreter) Session() *Session { return i.session }

// SetEnabled toggles claiming of new drags. A session already in progress
// is not affected.
func (i *Interpreter) SetEnabled(enabled bool) { i.disabled = !enabled }

// Enabled reports whether new drags may be claimed.
func (i *Interpreter) Enabled() bool { return !i.disabled }

// Handle processes one pointer event.
func (i *Interpreter) Handle(ev Event) {
	switch ev.Phase {
	case Began:
		if i.session != nil {
			// The drag in progress still owns the link.
			i.log.Debug("began ignored during drag", "position", ev.Position)
			return
		}
		i.claim(ev.Position, f32.Point{})

	case Changed:
		if i.session == nil {
			// Pointer went down outside the image; claim once it is over it.
			if i.claim(ev.Position, ev.Translation.Mul(-1)) {
				i.log.Debug("drag claimed late", "position", ev.Position, "translation", ev.Translation)
			}
			return
		}
		i.target.UpdateAnchor(i.session.Anchor(ev.Translation))

	case Ended:
		if i.session != nil {
			speed := float32(math.Hypot(float64(ev.Velocity.X), float64(ev.Velocity.Y)))
			i.target.Release(speed, ev.Velocity, i.threshold)
		}
		i.session = nil

	case Cancelled:
		if i.session != nil {
			i.target.Release(0, f32.Point{}, i.threshold)
		}
		i.session = nil
	}
}

func (i *Interpreter) claim(pos, bias f32.Point) bool {
	if i.disabled {
		return false
	}
	b := i.bounds()
	if !b.Contains(pos) {
		return false
	}
	i.session = &Session{
		Start:           pos,
		AnchorOffset:    pos.Sub(b.Center()),
		TranslationBias: bias,
	}
	i.target.Attach(pos, i.session.AnchorOffset)
	return true
}
