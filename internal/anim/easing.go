package anim

import "math"

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float32) float32

// Linear is the identity easing.
func Linear(t float32) float32 { return t }

// EaseOut decelerates towards the end (cubic).
func EaseOut(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOut accelerates then decelerates (cubic).
func EaseInOut(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Spring returns an underdamped spring easing with the given damping
// ratio in (0, 1). It overshoots slightly and settles at 1.
func Spring(damping float32) Easing {
	if damping <= 0 || damping >= 1 {
		return EaseOut
	}
	z := float64(damping)
	// Natural frequency chosen so the envelope has decayed to ~0.1% at t=1.
	w := 7 / z
	wd := w * math.Sqrt(1-z*z)
	return func(t float32) float32 {
		if t >= 1 {
			return 1
		}
		x := float64(t)
		env := math.Exp(-z * w * x)
		v := 1 - env*(math.Cos(wd*x)+z*w/wd*math.Sin(wd*x))
		return float32(v)
	}
}

// ByName returns the easing registered under name, EaseOut when unknown.
func ByName(name string) Easing {
	switch name {
	case "linear":
		return Linear
	case "ease-in-out":
		return EaseInOut
	case "spring":
		return Spring(0.7)
	default:
		return EaseOut
	}
}
