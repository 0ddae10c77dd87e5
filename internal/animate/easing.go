package animate

import (
	"math"

	"framesync/internal/timeline"
)

// Func reshapes normalized progress in [0,1] before interpolation.
// Every function here maps 0 to 0 and 1 to 1; values in between may
// overshoot (elastic) or bounce below the line (bounce pieces).
type Func func(t float64) float64

// Linear leaves progress unchanged.
func Linear(t float64) float64 { return t }

// EaseIn accelerates from rest: t².
func EaseIn(t float64) float64 { return t * t }

// EaseOut decelerates to rest: 1-(1-t)².
func EaseOut(t float64) float64 { return 1 - (1-t)*(1-t) }

// EaseInOut accelerates through the first half and decelerates through the
// second.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// Bounce is the four-piece quadratic bounce with breakpoints at 1/2.75,
// 2/2.75, and 2.5/2.75.
func Bounce(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75

	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// Elastic is 2^(-10t)·sin((t-p/4)·2π/p)+1 with period p=0.3. The endpoints
// are pinned: the damped sine leaves a residual ripple at t=1, and the exact
// fixed points matter for clamped extrapolation.
func Elastic(t float64) float64 {
	const p = 0.3

	if t == 0 {
		return 0
	}
	if t == 1 {
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t-p/4)*(2*math.Pi/p)) + 1
}

var easingFuncs = map[timeline.Easing]Func{
	timeline.EasingLinear:    Linear,
	timeline.EasingEaseIn:    EaseIn,
	timeline.EasingEaseOut:   EaseOut,
	timeline.EasingEaseInOut: EaseInOut,
	timeline.EasingBounce:    Bounce,
	timeline.EasingElastic:   Elastic,
}

// ForName returns the easing function for a name.
// The second return is false for unrecognized names.
func ForName(name timeline.Easing) (Func, bool) {
	f, ok := easingFuncs[name]
	return f, ok
}

// forNameOrLinear resolves an easing name, falling back to Linear for the
// empty string and anything unrecognized. The compiler rejects typos up
// front; evaluation stays total.
func forNameOrLinear(name timeline.Easing) Func {
	if f, ok := easingFuncs[name]; ok {
		return f
	}
	return Linear
}
