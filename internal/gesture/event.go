// Package gesture turns single-pointer input into drag sessions on the
// displayed image.
package gesture

import (
	"fmt"
	"time"

	"gioui.org/f32"
)

// Phase is the stage of a pan gesture.
type Phase uint8

const (
	Began Phase = iota
	Changed
	Ended
	Cancelled
	// Tapped reports a press released before the pointer moved far enough
	// to start a pan.
	Tapped
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	case Tapped:
		return "tapped"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	for p := Began; p <= Tapped; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown gesture phase %q", s)
}

// Event is one step of the tracked pointer. Translation is measured from
// the position where the pan began; Velocity is in points per second.
type Event struct {
	Phase       Phase
	Position    f32.Point
	Translation f32.Point
	Velocity    f32.Point
	// Elapsed is the time since the pointer went down.
	Elapsed time.Duration
}
