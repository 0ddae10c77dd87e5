package engine

import (
	"framesync/internal/timeline"
)

// Result is the output of one synchronization pass.
//
// Conflicts always carries the full pre-resolution detection report, so a
// "successful" result can still list conflicts that were auto-resolved.
// Synchronized is false exactly when a gap conflict is present, meaning a
// timeline entry referenced a segment that was never imported. Nothing in a
// batch aborts: a gap is reported here, never thrown.
type Result struct {
	Adjusted     []timeline.Segment
	Conflicts    []timeline.Conflict
	Points       []timeline.SyncPoint
	Synchronized bool

	// Quality carries the configured rendering hints through to the plan
	// uninterpreted.
	Quality timeline.QualityHints
}

// Synchronize runs one detection/resolution pass over a placed segment
// batch and derives its synchronization points.
//
// When cfg.EnableAutoSync is set, overlap and duration_mismatch conflicts
// are resolved into adjusted segment copies; otherwise the segments pass
// through untouched (beyond canonical ordering) and every conflict is left
// for the caller. Gaps are never auto-resolved either way.
func Synchronize(entries []timeline.Entry, segments []timeline.Segment, cfg timeline.Config) Result {
	conflicts := Detect(entries, segments)

	var adjusted []timeline.Segment
	if cfg.EnableAutoSync {
		adjusted = Resolve(segments, conflicts)
	} else {
		adjusted = make([]timeline.Segment, len(segments))
		for i, seg := range segments {
			adjusted[i] = timeline.CloneSegment(seg)
		}
		timeline.SortSegments(adjusted)
	}

	synchronized := true
	for _, c := range conflicts {
		if c.Type == timeline.ConflictGap {
			synchronized = false
			break
		}
	}

	return Result{
		Adjusted:     adjusted,
		Conflicts:    conflicts,
		Points:       DerivePoints(adjusted),
		Synchronized: synchronized,
		Quality:      cfg.Quality,
	}
}
