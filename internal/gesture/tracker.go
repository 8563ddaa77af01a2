package gesture

import (
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
)

const (
	// DefaultSlop is the distance a pointer travels before a press
	// becomes a pan.
	DefaultSlop = 8
	// DefaultTapTimeout is the longest press still reported as a tap.
	DefaultTapTimeout = 300 * time.Millisecond

	velocityWindow = 100 * time.Millisecond
	maxSamples     = 20
)

type sample struct {
	t   time.Duration
	pos f32.Point
}

// Tracker follows the first pointer pressed and converts its Gio events
// into pan events. Other pointers are ignored until it is released.
type Tracker struct {
	Slop       float32
	TapTimeout time.Duration

	active  bool
	panning bool
	id      pointer.ID
	down    f32.Point
	downAt  time.Duration
	origin  f32.Point
	samples []sample
}

// Active reports whether a pointer is being tracked.
func (t *Tracker) Active() bool { return t.active }

// Update feeds one pointer event and returns the resulting pan event, if
// any.
func (t *Tracker) Update(e pointer.Event) (Event, bool) {
	switch e.Kind {
	case pointer.Press:
		if t.active {
			return Event{}, false
		}
		if e.Source != pointer.Touch && !e.Buttons.Contain(pointer.ButtonPrimary) {
			return Event{}, false
		}
		t.active = true
		t.panning = false
		t.id = e.PointerID
		t.down = e.Position
		t.downAt = e.Time
		t.samples = t.samples[:0]
		t.record(e)
		return Event{}, false

	case pointer.Drag:
		if !t.active || e.PointerID != t.id {
			return Event{}, false
		}
		t.record(e)
		if !t.panning {
			if geom.Len(e.Position.Sub(t.down)) < t.slop() {
				return Event{}, false
			}
			t.panning = true
			t.origin = e.Position
			return t.event(Began, e), true
		}
		return t.event(Changed, e), true

	case pointer.Release:
		if !t.active || e.PointerID != t.id {
			return Event{}, false
		}
		t.record(e)
		t.active = false
		if t.panning {
			return t.event(Ended, e), true
		}
		if e.Time-t.downAt <= t.tapTimeout() {
			return t.event(Tapped, e), true
		}

	case pointer.Cancel:
		if !t.active {
			return Event{}, false
		}
		t.active = false
		if t.panning {
			ev := t.event(Cancelled, e)
			ev.Velocity = f32.Point{}
			return ev, true
		}
	}
	return Event{}, false
}

func (t *Tracker) event(phase Phase, e pointer.Event) Event {
	ev := Event{
		Phase:    phase,
		Position: e.Position,
		Velocity: t.velocity(),
		Elapsed:  e.Time - t.downAt,
	}
	if t.panning {
		ev.Translation = e.Position.Sub(t.origin)
	}
	return ev
}

func (t *Tracker) slop() float32 {
	if t.Slop > 0 {
		return t.Slop
	}
	return DefaultSlop
}

func (t *Tracker) tapTimeout() time.Duration {
	if t.TapTimeout > 0 {
		return t.TapTimeout
	}
	return DefaultTapTimeout
}

func (t *Tracker) record(e pointer.Event) {
	t.samples = append(t.samples, sample{t: e.Time, pos: e.Position})
	if len(t.samples) > maxSamples {
		t.samples = t.samples[len(t.samples)-maxSamples:]
	}
}

// velocity fits a line through the samples of the last velocityWindow
// and returns its slope in points per second.
func (t *Tracker) velocity() f32.Point {
	n := len(t.samples)
	if n < 2 {
		return f32.Point{}
	}
	last := t.samples[n-1].t
	first := n - 1
	for first > 0 && last-t.samples[first-1].t <= velocityWindow {
		first--
	}
	window := t.samples[first:]
	if len(window) < 2 {
		return f32.Point{}
	}

	var mt, mx, my float64
	for _, s := range window {
		mt += (s.t - last).Seconds()
		mx += float64(s.pos.X)
		my += float64(s.pos.Y)
	}
	k := float64(len(window))
	mt, mx, my = mt/k, mx/k, my/k

	var stt, stx, sty float64
	for _, s := range window {
		dt := (s.t - last).Seconds() - mt
		stt += dt * dt
		stx += dt * (float64(s.pos.X) - mx)
		sty += dt * (float64(s.pos.Y) - my)
	}
	if stt == 0 {
		return f32.Point{}
	}
	return f32.Pt(float32(stx/stt), float32(sty/stt))
}
