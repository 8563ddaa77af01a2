package observer

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/elektrokombinacija/imageviewer/internal/dismiss"
)

func TestTransitionLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	o := NewTransitionLogger(log, slog.LevelInfo)
	o.OnTransition(dismiss.Attached, dismiss.Flinging)

	out := buf.String()
	if !strings.Contains(out, "from=attached") || !strings.Contains(out, "to=flinging") {
		t.Errorf("log output = %q", out)
	}
}

func TestRecorderLimit(t *testing.T) {
	t0 := time.Unix(100, 0)
	r := &Recorder{Limit: 2, Clock: func() time.Time { return t0 }}
	if _, ok := r.Last(); ok {
		t.Fatalf("empty recorder has a last transition")
	}

	r.OnTransition(dismiss.Idle, dismiss.Attached)
	r.OnTransition(dismiss.Attached, dismiss.SnappingBack)
	r.OnTransition(dismiss.SnappingBack, dismiss.Idle)

	h := r.History()
	if len(h) != 2 || h[0].From != dismiss.Attached {
		t.Errorf("history = %v", h)
	}
	last, ok := r.Last()
	if !ok || last.To != dismiss.Idle || !last.At.Equal(t0) {
		t.Errorf("last = %v", last)
	}

	r.Reset()
	if len(r.History()) != 0 {
		t.Errorf("history after reset = %v", r.History())
	}
}
