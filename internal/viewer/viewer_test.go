package viewer

import (
	"testing"
	"time"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/dismiss"
	"github.com/elektrokombinacija/imageviewer/internal/geom"
	"github.com/elektrokombinacija/imageviewer/internal/gesture"
	"github.com/elektrokombinacija/imageviewer/internal/overlay"
)

type countingHost struct {
	presents, dismisses int
}

func (h *countingHost) Present() { h.presents++ }
func (h *countingHost) Dismiss() { h.dismisses++ }

type transition struct{ from, to dismiss.Phase }

type harness struct {
	t     *testing.T
	v     *Viewer
	host  *countingHost
	now   time.Time
	trail []transition
}

func newHarness(t *testing.T, image f32.Point) *harness {
	t.Helper()
	opts := DefaultOptions()
	opts.Screen = f32.Pt(320, 480)
	opts.Image = image
	opts.Thumbnail = geom.R(20, 20, 100, 80)
	opts.Now = time.Unix(0, 0)

	h := &harness{t: t, host: &countingHost{}, now: opts.Now}
	h.v = New(opts, h.host)
	h.v.Observe(dismiss.ObserverFunc(func(from, to dismiss.Phase) {
		h.trail = append(h.trail, transition{from, to})
	}))
	h.v.Present()
	h.run(300 * time.Millisecond)
	if h.v.OverlayPhase() != overlay.Shown {
		t.Fatalf("overlay phase after present = %v", h.v.OverlayPhase())
	}
	return h
}

// run advances the clock in 16ms frames.
func (h *harness) run(d time.Duration) {
	end := h.now.Add(d)
	for h.now.Before(end) {
		h.now = h.now.Add(16 * time.Millisecond)
		h.v.Advance(h.now)
	}
}

func (h *harness) gesture(phase gesture.Phase, pos, translation, velocity f32.Point) {
	h.v.HandleGesture(gesture.Event{Phase: phase, Position: pos, Translation: translation, Velocity: velocity})
}

func (h *harness) drag(velocity f32.Point) {
	h.gesture(gesture.Began, f32.Pt(160, 240), f32.Point{}, f32.Point{})
	h.run(16 * time.Millisecond)
	h.gesture(gesture.Changed, f32.Pt(160, 300), f32.Pt(0, 60), f32.Point{})
	h.run(48 * time.Millisecond)
	h.gesture(gesture.Ended, f32.Pt(160, 300), f32.Pt(0, 60), velocity)
}

func (h *harness) wantTrail(want ...transition) {
	h.t.Helper()
	if len(h.trail) != len(want) {
		h.t.Fatalf("transitions = %v, want %v", h.trail, want)
	}
	for i := range want {
		if h.trail[i] != want[i] {
			h.t.Errorf("transition %d = %v, want %v", i, h.trail[i], want[i])
		}
	}
}

func TestFlingDismisses(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.drag(f32.Pt(0, 2000))
	if h.v.Phase() != dismiss.Flinging {
		t.Fatalf("phase after fast release = %v", h.v.Phase())
	}
	h.run(2 * time.Second)

	h.wantTrail(
		transition{dismiss.Idle, dismiss.Attached},
		transition{dismiss.Attached, dismiss.Flinging},
		transition{dismiss.Flinging, dismiss.Dismissed},
	)
	if h.host.dismisses != 1 {
		t.Errorf("teardowns = %d, want 1", h.host.dismisses)
	}
	if !h.v.Closed() {
		t.Errorf("viewer not closed")
	}
	if s := h.v.Scene(); s.Backdrop != 0 {
		t.Errorf("backdrop after fade = %v", s.Backdrop)
	}
}

func TestSlowReleaseSnapsBack(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.drag(f32.Pt(0, 100))
	if h.v.Phase() != dismiss.SnappingBack {
		t.Fatalf("phase after slow release = %v", h.v.Phase())
	}
	h.run(time.Second)

	h.wantTrail(
		transition{dismiss.Idle, dismiss.Attached},
		transition{dismiss.Attached, dismiss.SnappingBack},
		transition{dismiss.SnappingBack, dismiss.Idle},
	)
	if h.host.dismisses != 0 {
		t.Errorf("teardowns = %d, want 0", h.host.dismisses)
	}
	if c := h.v.Body().Center; c != f32.Pt(160, 240) {
		t.Errorf("center = %v, want rest center (160,240)", c)
	}
	if h.v.Body().Angle != 0 {
		t.Errorf("angle = %v", h.v.Body().Angle)
	}
}

func TestTapCloses(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.gesture(gesture.Tapped, f32.Pt(160, 240), f32.Point{}, f32.Point{})
	if h.v.OverlayPhase() != overlay.Closing {
		t.Fatalf("overlay phase = %v, want closing", h.v.OverlayPhase())
	}
	h.run(300 * time.Millisecond)
	if h.host.dismisses != 1 || !h.v.Closed() {
		t.Errorf("dismisses=%d closed=%v", h.host.dismisses, h.v.Closed())
	}
	if len(h.trail) != 0 {
		t.Errorf("tap moved the dismissal engine: %v", h.trail)
	}
}

func TestDragWhileZoomedPans(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.v.SetZoom(2)
	if h.v.Zoom() != 2 {
		t.Fatalf("zoom = %v", h.v.Zoom())
	}
	before := h.v.Scene().Frame

	h.gesture(gesture.Began, f32.Pt(160, 240), f32.Point{}, f32.Point{})
	h.gesture(gesture.Changed, f32.Pt(140, 240), f32.Pt(-20, 0), f32.Point{})
	h.gesture(gesture.Ended, f32.Pt(140, 240), f32.Pt(-20, 0), f32.Pt(-3000, 0))

	if len(h.trail) != 0 {
		t.Errorf("zoomed drag reached the engine: %v", h.trail)
	}
	after := h.v.Scene().Frame
	if d := after.Min.X - before.Min.X; d != -20 {
		t.Errorf("content moved by %v, want -20", d)
	}

	h.v.ResetZoom()
	h.drag(f32.Pt(0, 100))
	if h.v.Phase() != dismiss.SnappingBack {
		t.Errorf("drag at zoom 1 not claimed: %v", h.v.Phase())
	}
}

func TestLateClaimKeepsAnchorContinuous(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	// The fitted image spans y 120..360; start above it.
	h.gesture(gesture.Began, f32.Pt(160, 50), f32.Point{}, f32.Point{})
	if h.v.Phase() != dismiss.Idle {
		t.Fatalf("claimed outside image")
	}
	h.gesture(gesture.Changed, f32.Pt(160, 200), f32.Pt(0, 150), f32.Point{})
	if h.v.Phase() != dismiss.Attached {
		t.Fatalf("phase = %v, want attached", h.v.Phase())
	}
	if s := h.v.gestures.Session(); s.Anchor(f32.Pt(0, 150)) != f32.Pt(160, 200) {
		t.Errorf("anchor jumped to %v", s.Anchor(f32.Pt(0, 150)))
	}
}

func TestZoomIgnoredWhileDragging(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.gesture(gesture.Began, f32.Pt(160, 240), f32.Point{}, f32.Point{})
	h.v.SetZoom(3)
	if h.v.Zoom() != 1 {
		t.Errorf("zoom changed mid-drag: %v", h.v.Zoom())
	}
}

func TestResizeDropsDrag(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.gesture(gesture.Began, f32.Pt(160, 240), f32.Point{}, f32.Point{})
	h.v.Resize(f32.Pt(480, 320), f32.Point{})
	if h.v.Phase() != dismiss.Idle {
		t.Errorf("phase after resize = %v", h.v.Phase())
	}
	if h.v.gestures.Session() != nil {
		t.Errorf("session survived resize")
	}
	if c := h.v.Body().Center.Sub(f32.Pt(240, 160)); c.X*c.X+c.Y*c.Y > 1e-6 {
		t.Errorf("center after resize = %v", h.v.Body().Center)
	}
}

func TestNoImage(t *testing.T) {
	h := newHarness(t, f32.Point{})
	h.drag(f32.Pt(0, 3000))
	if len(h.trail) != 0 {
		t.Errorf("drag without image reached the engine: %v", h.trail)
	}
	h.gesture(gesture.Tapped, f32.Pt(160, 240), f32.Point{}, f32.Point{})
	if h.host.dismisses != 1 {
		t.Errorf("tap without image: dismisses = %d", h.host.dismisses)
	}
}

func TestSessionIDsDiffer(t *testing.T) {
	a := New(DefaultOptions(), &countingHost{})
	b := New(DefaultOptions(), &countingHost{})
	if a.ID() == b.ID() {
		t.Errorf("sessions share id %v", a.ID())
	}
}

func TestResizeKeepsThrownImageOffscreen(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.drag(f32.Pt(0, 2000))
	for i := 0; i < 200 && h.v.Phase() != dismiss.Dismissed; i++ {
		h.run(16 * time.Millisecond)
	}
	if h.v.Phase() != dismiss.Dismissed {
		t.Fatalf("phase = %v, want dismissed", h.v.Phase())
	}
	// Partway through the fade.
	h.run(64 * time.Millisecond)
	center := h.v.Body().Center
	backdrop := h.v.Scene().Backdrop
	if backdrop >= 1 {
		t.Fatalf("fade has not started: backdrop %v", backdrop)
	}

	h.v.Resize(f32.Pt(480, 320), f32.Point{})
	if c := h.v.Body().Center; c != center {
		t.Errorf("center moved from %v to %v", center, c)
	}
	if b := h.v.Body().Bounds(); b.Overlaps(geom.R(0, 0, 480, 320)) {
		t.Errorf("thrown image back on screen: %v", b)
	}
	if s := h.v.Scene(); s.Backdrop != backdrop {
		t.Errorf("backdrop changed from %v to %v", backdrop, s.Backdrop)
	}

	h.run(time.Second)
	if h.host.dismisses != 1 {
		t.Errorf("dismisses = %d, want 1", h.host.dismisses)
	}
}

func TestResizeDuringFlingKeepsTrajectory(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.drag(f32.Pt(0, 2000))
	if h.v.Phase() != dismiss.Flinging {
		t.Fatalf("phase = %v, want flinging", h.v.Phase())
	}
	center := h.v.Body().Center

	h.v.Resize(f32.Pt(480, 320), f32.Point{})
	if h.v.Phase() != dismiss.Flinging {
		t.Errorf("resize interrupted the throw: %v", h.v.Phase())
	}
	if c := h.v.Body().Center; c != center {
		t.Errorf("center moved from %v to %v", center, c)
	}

	h.run(2 * time.Second)
	if !h.v.Closed() || h.host.dismisses != 1 {
		t.Errorf("closed=%v dismisses=%d", h.v.Closed(), h.host.dismisses)
	}
}

func TestCloseDuringSnapBack(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.drag(f32.Pt(0, 100))
	if h.v.Phase() != dismiss.SnappingBack {
		t.Fatalf("phase = %v, want snapping back", h.v.Phase())
	}

	h.v.Close()
	if h.v.Phase() != dismiss.Idle || h.v.OverlayPhase() != overlay.Closing {
		t.Fatalf("phase=%v overlay=%v", h.v.Phase(), h.v.OverlayPhase())
	}
	h.run(300 * time.Millisecond)
	if !h.v.Closed() || h.host.dismisses != 1 {
		t.Errorf("closed=%v dismisses=%d", h.v.Closed(), h.host.dismisses)
	}
	h.wantTrail(
		transition{dismiss.Idle, dismiss.Attached},
		transition{dismiss.Attached, dismiss.SnappingBack},
		transition{dismiss.SnappingBack, dismiss.Idle},
	)
}

func TestCloseIgnoredWhileDragging(t *testing.T) {
	h := newHarness(t, f32.Pt(640, 480))
	h.gesture(gesture.Began, f32.Pt(160, 240), f32.Point{}, f32.Point{})
	h.v.Close()
	if h.v.OverlayPhase() != overlay.Shown || h.v.Phase() != dismiss.Attached {
		t.Errorf("close during drag: overlay=%v phase=%v", h.v.OverlayPhase(), h.v.Phase())
	}
}
