// Package anim drives time-based animations and per-frame simulation
// callbacks for the viewer. Everything runs on the caller's goroutine: the
// UI loop calls Advance once per frame.
package anim

import (
	"time"
)

// maxStep bounds the simulation step after a stalled frame.
const maxStep = 50 * time.Millisecond

// Driver owns running tweens and tick callbacks.
type Driver struct {
	now   time.Time
	tasks []*Handle
}

// NewDriver creates a driver whose clock starts at now.
func NewDriver(now time.Time) *Driver {
	return &Driver{now: now}
}

// Handle refers to a running tween or tick callback.
type Handle struct {
	start    time.Time
	duration time.Duration
	ease     Easing
	step     func(t float32)
	tick     func(dt float32)
	done     func()
	stopped  bool
}

// Cancel stops the animation. Its completion callback is discarded.
// Cancelling a finished or nil handle does nothing.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.stopped = true
}

// Running reports whether the handle is still scheduled.
func (h *Handle) Running() bool {
	return h != nil && !h.stopped
}

// Animate schedules a tween over dur. step receives the eased progress in
// [0, 1]; done runs after the final step unless the handle was cancelled.
// A zero duration completes on the next Advance.
func (d *Driver) Animate(dur time.Duration, ease Easing, step func(t float32), done func()) *Handle {
	if ease == nil {
		ease = Linear
	}
	h := &Handle{start: d.now, duration: dur, ease: ease, step: step, done: done}
	d.tasks = append(d.tasks, h)
	return h
}

// Every schedules fn to run on every Advance with the elapsed seconds.
func (d *Driver) Every(fn func(dt float32)) *Handle {
	h := &Handle{start: d.now, tick: fn}
	d.tasks = append(d.tasks, h)
	return h
}

// Active reports whether any animation is scheduled; the UI keeps
// requesting frames while it is.
func (d *Driver) Active() bool {
	for _, h := range d.tasks {
		if !h.stopped {
			return true
		}
	}
	return false
}

// Advance moves the clock to now and runs every scheduled task once.
// Tasks scheduled by callbacks during Advance first run on the next call.
func (d *Driver) Advance(now time.Time) {
	elapsed := now.Sub(d.now)
	if elapsed < 0 {
		elapsed = 0
	}
	d.now = now
	dt := elapsed
	if dt > maxStep {
		dt = maxStep
	}

	tasks := d.tasks
	d.tasks = nil
	for _, h := range tasks {
		if h.stopped {
			continue
		}
		if h.tick != nil {
			h.tick(float32(dt.Seconds()))
			continue
		}
		h.advance(now)
	}

	// Keep what is still live, including tasks added by callbacks.
	live := tasks[:0]
	for _, h := range tasks {
		if !h.stopped {
			live = append(live, h)
		}
	}
	for _, h := range d.tasks {
		if !h.stopped {
			live = append(live, h)
		}
	}
	d.tasks = live
}

func (h *Handle) advance(now time.Time) {
	t := float32(1)
	if h.duration > 0 {
		t = float32(now.Sub(h.start)) / float32(h.duration)
	}
	if t < 0 {
		t = 0
	}
	if t < 1 {
		if h.step != nil {
			h.step(h.ease(t))
		}
		return
	}
	if h.step != nil {
		h.step(1)
	}
	if h.stopped {
		return
	}
	h.stopped = true
	if h.done != nil {
		h.done()
	}
}
