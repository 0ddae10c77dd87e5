// Package animate evaluates keyframe animations at arbitrary query times.
//
// Evaluation is a pure function of the animation and the query time, so the
// rendering pipeline can evaluate frames out of order and across workers
// with byte-identical results.
package animate

import (
	"framesync/internal/timeline"
)

// Evaluate returns the animation's value at query time t in seconds.
//
// The value is clamped at the keyframe range: queries at or before the first
// keyframe return its value, queries at or past the last return the last.
// Between keyframes the bracketing pair is blended with the animation's
// easing applied to normalized progress.
//
// The second return is false when the animation has no keyframes. That is
// "no value", not an error; the caller decides what to render.
func Evaluate(anim timeline.Animation, t float64) (timeline.Value, bool) {
	kfs := anim.SortedKeyframes()
	if len(kfs) == 0 {
		return nil, false
	}

	if t <= kfs[0].Time {
		return kfs[0].Value, true
	}
	last := kfs[len(kfs)-1]
	if t >= last.Time {
		return last.Value, true
	}

	// Lower bound: first keyframe at or past t. The scan picks the first of
	// any duplicates, so an exact-time query returns the first match.
	hi := 0
	for hi < len(kfs) && kfs[hi].Time < t {
		hi++
	}
	if kfs[hi].Time == t {
		return kfs[hi].Value, true
	}

	a, b := kfs[hi-1], kfs[hi]
	progress := 0.0
	if b.Time > a.Time {
		progress = (t - a.Time) / (b.Time - a.Time)
	}
	eased := forNameOrLinear(anim.Easing)(progress)

	return blend(a.Value, b.Value, eased), true
}

// blend combines two keyframe values at an eased progress.
//
// Scalars blend linearly. Records blend per key where both sides are
// numeric; any other pairing falls back to a discrete pick of the nearer
// side. The discrete fallback is a deliberate simplification: values like
// color names have no meaningful midpoint.
func blend(a, b timeline.Value, eased float64) timeline.Value {
	av, aScalar := a.(timeline.Scalar)
	bv, bScalar := b.(timeline.Scalar)
	if aScalar && bScalar {
		return timeline.Scalar(float64(av) + (float64(bv)-float64(av))*eased)
	}

	ar, aRec := a.(timeline.Record)
	br, bRec := b.(timeline.Record)
	if aRec && bRec {
		return blendRecords(ar, br, eased)
	}

	return discrete(a, b, eased)
}

// blendRecords merges two records over the union of their keys.
func blendRecords(a, b timeline.Record, eased float64) timeline.Record {
	out := make(timeline.Record, len(a))
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			out[k] = av
			continue
		}
		as, aScalar := av.(timeline.Scalar)
		bs, bScalar := bv.(timeline.Scalar)
		if aScalar && bScalar {
			out[k] = timeline.Scalar(float64(as) + (float64(bs)-float64(as))*eased)
		} else {
			out[k] = discrete(av, bv, eased)
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			out[k] = bv
		}
	}
	return out
}

// discrete picks the nearer side: a below the midpoint, b at or above it.
func discrete(a, b timeline.Value, eased float64) timeline.Value {
	if eased < 0.5 {
		return a
	}
	return b
}
