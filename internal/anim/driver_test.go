package anim

import (
	"testing"
	"time"
)

func TestAnimateRunsToCompletion(t *testing.T) {
	start := time.Unix(0, 0)
	d := NewDriver(start)

	var last float32
	done := 0
	d.Animate(100*time.Millisecond, Linear, func(t float32) { last = t }, func() { done++ })

	d.Advance(start.Add(50 * time.Millisecond))
	if last != 0.5 {
		t.Errorf("progress at 50ms = %v, want 0.5", last)
	}
	if done != 0 {
		t.Fatalf("completed early")
	}

	d.Advance(start.Add(150 * time.Millisecond))
	if last != 1 || done != 1 {
		t.Errorf("last=%v done=%d, want 1 and 1", last, done)
	}
	if d.Active() {
		t.Errorf("driver still active after completion")
	}

	d.Advance(start.Add(300 * time.Millisecond))
	if done != 1 {
		t.Errorf("completion ran %d times", done)
	}
}

func TestCancelDiscardsCompletion(t *testing.T) {
	start := time.Unix(0, 0)
	d := NewDriver(start)

	done := false
	h := d.Animate(100*time.Millisecond, EaseOut, func(float32) {}, func() { done = true })
	d.Advance(start.Add(10 * time.Millisecond))
	h.Cancel()
	d.Advance(start.Add(200 * time.Millisecond))

	if done {
		t.Errorf("cancelled animation ran its completion")
	}
	if h.Running() {
		t.Errorf("cancelled handle reports running")
	}
}

func TestEveryReceivesClampedStep(t *testing.T) {
	start := time.Unix(0, 0)
	d := NewDriver(start)

	var steps []float32
	h := d.Every(func(dt float32) { steps = append(steps, dt) })
	d.Advance(start.Add(16 * time.Millisecond))
	d.Advance(start.Add(2 * time.Second))
	h.Cancel()
	d.Advance(start.Add(3 * time.Second))

	if len(steps) != 2 {
		t.Fatalf("ticks = %d, want 2", len(steps))
	}
	if steps[1] != float32(maxStep.Seconds()) {
		t.Errorf("stalled frame step = %v, want %v", steps[1], maxStep.Seconds())
	}
}

func TestTasksAddedDuringAdvanceRunNextFrame(t *testing.T) {
	start := time.Unix(0, 0)
	d := NewDriver(start)

	ran := 0
	d.Animate(0, nil, nil, func() {
		d.Every(func(float32) { ran++ })
	})
	d.Advance(start.Add(time.Millisecond))
	if ran != 0 {
		t.Errorf("nested task ran in the same frame")
	}
	d.Advance(start.Add(2 * time.Millisecond))
	if ran != 1 {
		t.Errorf("nested task ran %d times, want 1", ran)
	}
}

func TestEasingEndpoints(t *testing.T) {
	for name, e := range map[string]Easing{
		"linear":      Linear,
		"ease-out":    EaseOut,
		"ease-in-out": EaseInOut,
		"spring":      Spring(0.7),
	} {
		if got := e(0); got > 1e-6 || got < -1e-6 {
			t.Errorf("%s(0) = %v", name, got)
		}
		if got := e(1); got != 1 {
			t.Errorf("%s(1) = %v", name, got)
		}
	}
}

func TestFirstAdvanceMeasuresFromCreation(t *testing.T) {
	start := time.Unix(0, 0)
	d := NewDriver(start)

	var steps []float32
	d.Every(func(dt float32) { steps = append(steps, dt) })
	d.Advance(start.Add(20 * time.Millisecond))
	d.Advance(start.Add(10 * time.Millisecond)) // clock went backwards

	if len(steps) != 2 || steps[0] != float32((20*time.Millisecond).Seconds()) || steps[1] != 0 {
		t.Errorf("steps = %v, want [0.02 0]", steps)
	}
}
