package gesture

import (
	"testing"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
)

type call struct {
	op        string
	point     f32.Point
	offset    f32.Point
	speed     float32
	threshold float32
}

type recorder struct {
	calls []call
}

func (r *recorder) Attach(point, offset f32.Point) {
	r.calls = append(r.calls, call{op: "attach", point: point, offset: offset})
}

func (r *recorder) UpdateAnchor(point f32.Point) {
	r.calls = append(r.calls, call{op: "update", point: point})
}

func (r *recorder) Release(speed float32, velocity f32.Point, threshold float32) {
	r.calls = append(r.calls, call{op: "release", speed: speed, point: velocity, threshold: threshold})
}

func newTestInterpreter() (*Interpreter, *recorder) {
	rec := &recorder{}
	image := geom.R(0, 120, 320, 360)
	return NewInterpreter(rec, func() geom.Rect { return image }, 800, nil), rec
}

func TestAnchorFollowsTranslation(t *testing.T) {
	in, rec := newTestInterpreter()

	in.Handle(Event{Phase: Began, Position: f32.Pt(170, 250)})
	if in.Session() == nil {
		t.Fatal("drag inside the image was not claimed")
	}
	if got := rec.calls[0]; got.op != "attach" || got.point != f32.Pt(170, 250) || got.offset != f32.Pt(10, 10) {
		t.Errorf("attach call = %+v", got)
	}

	for _, tr := range []f32.Point{f32.Pt(0, 50), f32.Pt(-30, 120), f32.Pt(5, -40)} {
		in.Handle(Event{Phase: Changed, Position: f32.Pt(170, 250).Add(tr), Translation: tr})
		last := rec.calls[len(rec.calls)-1]
		want := in.Session().Start.Add(tr).Add(in.Session().TranslationBias)
		if last.op != "update" || last.point != want {
			t.Errorf("translation %v: anchor = %v, want %v", tr, last.point, want)
		}
	}
}

func TestBeganOutsideImageIsNotClaimed(t *testing.T) {
	in, rec := newTestInterpreter()
	in.Handle(Event{Phase: Began, Position: f32.Pt(160, 50)})
	if in.Session() != nil || len(rec.calls) != 0 {
		t.Errorf("drag outside the image was claimed: %+v", rec.calls)
	}

	// Still outside: nothing happens.
	in.Handle(Event{Phase: Changed, Position: f32.Pt(160, 100), Translation: f32.Pt(0, 50)})
	if len(rec.calls) != 0 {
		t.Errorf("calls while outside: %+v", rec.calls)
	}
}

func TestLateClaimDoesNotJump(t *testing.T) {
	in, rec := newTestInterpreter()
	in.Handle(Event{Phase: Began, Position: f32.Pt(160, 50)})

	entry := f32.Pt(160, 150)
	in.Handle(Event{Phase: Changed, Position: entry, Translation: f32.Pt(0, 100)})
	s := in.Session()
	if s == nil {
		t.Fatal("pointer entering the image was not claimed")
	}
	if s.TranslationBias != f32.Pt(0, -100) {
		t.Errorf("bias = %v, want (0,-100)", s.TranslationBias)
	}
	if got := s.Anchor(f32.Pt(0, 100)); got != entry {
		t.Errorf("anchor right after claim = %v, want %v", got, entry)
	}
	if got := rec.calls[0]; got.op != "attach" || got.point != entry {
		t.Errorf("attach call = %+v", got)
	}

	in.Handle(Event{Phase: Changed, Position: f32.Pt(160, 170), Translation: f32.Pt(0, 120)})
	if got := rec.calls[len(rec.calls)-1].point; got != f32.Pt(160, 170) {
		t.Errorf("anchor after move = %v, want (160,170)", got)
	}
}

func TestReleaseSpeedAndSessionCleared(t *testing.T) {
	in, rec := newTestInterpreter()
	in.Handle(Event{Phase: Began, Position: f32.Pt(160, 240)})
	in.Handle(Event{Phase: Ended, Velocity: f32.Pt(300, 400)})

	last := rec.calls[len(rec.calls)-1]
	if last.op != "release" || last.speed != 500 || last.threshold != 800 {
		t.Errorf("release call = %+v", last)
	}
	if in.Session() != nil {
		t.Errorf("session survived Ended")
	}

	// A stray changed after ended must not move anything.
	n := len(rec.calls)
	in.Handle(Event{Phase: Changed, Position: f32.Pt(0, 0), Translation: f32.Pt(5, 5)})
	in.Handle(Event{Phase: Ended, Velocity: f32.Pt(2000, 0)})
	if len(rec.calls) != n {
		t.Errorf("stray events produced calls: %+v", rec.calls[n:])
	}
}

func TestCancelSnapsBack(t *testing.T) {
	in, rec := newTestInterpreter()
	in.Handle(Event{Phase: Began, Position: f32.Pt(160, 240)})
	in.Handle(Event{Phase: Cancelled, Velocity: f32.Pt(5000, 0)})
	last := rec.calls[len(rec.calls)-1]
	if last.op != "release" || last.speed != 0 {
		t.Errorf("cancel release = %+v, want zero speed", last)
	}
}

func TestDisabledInterpreterIgnoresNewDrags(t *testing.T) {
	in, rec := newTestInterpreter()
	in.SetEnabled(false)
	in.Handle(Event{Phase: Began, Position: f32.Pt(160, 240)})
	in.Handle(Event{Phase: Changed, Position: f32.Pt(160, 260), Translation: f32.Pt(0, 20)})
	if len(rec.calls) != 0 {
		t.Errorf("disabled interpreter forwarded %+v", rec.calls)
	}
}

func TestParsePhase(t *testing.T) {
	for p := Began; p <= Tapped; p++ {
		got, err := ParsePhase(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePhase(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePhase("wiggle"); err == nil {
		t.Errorf("ParsePhase accepted an unknown phase")
	}
}

func TestBeganDuringDragKeepsSession(t *testing.T) {
	in, rec := newTestInterpreter()
	in.Handle(Event{Phase: Began, Position: f32.Pt(160, 240)})
	in.Handle(Event{Phase: Changed, Position: f32.Pt(160, 270), Translation: f32.Pt(0, 30)})
	first := in.Session()

	in.Handle(Event{Phase: Began, Position: f32.Pt(40, 300)})
	if in.Session() != first {
		t.Fatalf("second began replaced the session")
	}
	attaches := 0
	for _, c := range rec.calls {
		if c.op == "attach" {
			attaches++
		}
	}
	if attaches != 1 {
		t.Errorf("attach calls = %d, want 1", attaches)
	}

	in.Handle(Event{Phase: Changed, Position: f32.Pt(160, 290), Translation: f32.Pt(0, 50)})
	if got := rec.calls[len(rec.calls)-1]; got.op != "update" || got.point != f32.Pt(160, 290) {
		t.Errorf("anchor after stray began = %+v, want (160,290)", got)
	}
}
