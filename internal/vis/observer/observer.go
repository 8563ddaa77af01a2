// Package observer provides observers of the dismissal engine for the
// visualizer: a structured log of transitions and an in-memory recorder the
// status bar reads.
package observer

import (
	"context"
	"log/slog"
	"time"

	"github.com/elektrokombinacija/imageviewer/internal/dismiss"
)

// TransitionLogger logs every dismissal transition.
type TransitionLogger struct {
	log   *slog.Logger
	level slog.Level
}

// NewTransitionLogger creates a logger observer writing at level.
func NewTransitionLogger(log *slog.Logger, level slog.Level) *TransitionLogger {
	if log == nil {
		log = slog.Default()
	}
	return &TransitionLogger{log: log, level: level}
}

// OnTransition implements dismiss.Observer.
func (o *TransitionLogger) OnTransition(from, to dismiss.Phase) {
	o.log.Log(context.Background(), o.level, "dismiss phase", "from", from.String(), "to", to.String())
}

// Transition is one recorded phase change.
type Transition struct {
	From, To dismiss.Phase
	At       time.Time
}

// Recorder keeps the most recent transitions.
type Recorder struct {
	// Limit bounds the history; zero keeps 32.
	Limit int
	// Clock stamps transitions; nil uses time.Now.
	Clock func() time.Time

	history []Transition
}

// OnTransition implements dismiss.Observer.
func (r *Recorder) OnTransition(from, to dismiss.Phase) {
	now := time.Now
	if r.Clock != nil {
		now = r.Clock
	}
	limit := r.Limit
	if limit <= 0 {
		limit = 32
	}
	r.history = append(r.history, Transition{From: from, To: to, At: now()})
	if len(r.history) > limit {
		r.history = r.history[len(r.history)-limit:]
	}
}

// History returns the recorded transitions, oldest first.
func (r *Recorder) History() []Transition { return r.history }

// Last returns the newest transition.
func (r *Recorder) Last() (Transition, bool) {
	if len(r.history) == 0 {
		return Transition{}, false
	}
	return r.history[len(r.history)-1], true
}

// Reset clears the history.
func (r *Recorder) Reset() { r.history = nil }
