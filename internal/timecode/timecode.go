// Package timecode maps between continuous time in seconds and discrete
// frame indices. The truncation rule here is the single rounding policy for
// the whole engine; nothing else may round times to frames on its own.
package timecode

import "math"

// ToFrame converts seconds to a frame index at the given frame rate.
// Fractional seconds below one frame width truncate toward zero, never to
// nearest. Callers are responsible for non-negative, finite inputs; the
// function itself is total.
func ToFrame(seconds, fps float64) int {
	return int(math.Floor(seconds * fps))
}

// ToSeconds converts a frame index back to seconds at the given frame rate.
func ToSeconds(frame int, fps float64) float64 {
	return float64(frame) / fps
}
