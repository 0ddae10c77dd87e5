package engine

import (
	"framesync/internal/timeline"
)

// OverlapNudge is the fixed forward shift applied to the later of two
// overlapping segments. A minimal deterministic nudge, not a repacking.
const OverlapNudge = 0.1

// Resolve applies the fixed auto-resolution strategies to detected
// conflicts and returns adjusted segment copies:
//
//   - overlap: the later segment's start time shifts forward by OverlapNudge
//   - duration_mismatch: the clip's asset duration is clamped to the
//     timeline-assigned duration
//   - gap: never auto-resolved, always left for the caller
//
// Resolution is a single pass over the conflict set. Nudging a segment can
// itself create a new overlap with a third segment; that residue is left in
// place rather than iterated to a fixed point, and shows up in the next
// detection run. Only temporal fields change; identity and content
// references are never touched.
func Resolve(segments []timeline.Segment, conflicts []timeline.Conflict) []timeline.Segment {
	adjusted := make([]timeline.Segment, len(segments))
	byID := make(map[string]*timeline.Segment, len(segments))
	for i, seg := range segments {
		adjusted[i] = timeline.CloneSegment(seg)
		byID[seg.ID] = &adjusted[i]
	}

	// Conflicts arrive sorted by content-hash ID, so the pass order is the
	// same for any permutation of the inputs.
	for _, c := range conflicts {
		switch c.Type {
		case timeline.ConflictOverlap:
			if len(c.SegmentIDs) != 2 {
				continue
			}
			a, okA := byID[c.SegmentIDs[0]]
			b, okB := byID[c.SegmentIDs[1]]
			if !okA || !okB {
				continue
			}
			later(a, b).StartTime += OverlapNudge

		case timeline.ConflictDurationMismatch:
			if len(c.SegmentIDs) != 1 {
				continue
			}
			if seg, ok := byID[c.SegmentIDs[0]]; ok && seg.Clip != nil {
				seg.Clip.Asset.Duration = seg.Duration
			}

		case timeline.ConflictGap:
			// Nothing to adjust; the referenced segment does not exist.
		}
	}

	timeline.SortSegments(adjusted)
	return adjusted
}

// later picks the segment that starts later; a start-time tie breaks toward
// the greater ID so the choice never depends on input order.
func later(a, b *timeline.Segment) *timeline.Segment {
	if a.StartTime > b.StartTime {
		return a
	}
	if b.StartTime > a.StartTime {
		return b
	}
	if a.ID > b.ID {
		return a
	}
	return b
}
