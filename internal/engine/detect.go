package engine

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"framesync/internal/timeline"
)

// DurationMismatchTolerance is how far a clip's own duration may drift from
// its timeline-assigned duration before it is reported.
const DurationMismatchTolerance = 0.5

// Detect finds timing conflicts over the placed segment set.
//
// Three conflict kinds are reported:
//   - overlap: two segments share part of a time window (severity medium)
//   - duration_mismatch: a clip's asset duration differs from its
//     timeline-assigned duration by more than the tolerance (severity low)
//   - gap: a timeline entry references a segment that was never imported
//     (severity high; the only kind that blocks synchronized status)
//
// Detection is order independent: any permutation of the same entries and
// segments yields the same conflict set. Segment IDs in each conflict are
// sorted, conflict IDs are content hashes of (type, segment IDs), and the
// returned slice is ordered by ID.
func Detect(entries []timeline.Entry, segments []timeline.Segment) []timeline.Conflict {
	placed := slices.Clone(segments)
	timeline.SortSegments(placed)

	var conflicts []timeline.Conflict

	// Pairwise overlap scan. The set stays small enough (one batch of a
	// video's segments) that the quadratic scan is not worth avoiding.
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			a, b := placed[i], placed[j]
			if math.Max(a.StartTime, b.StartTime) < math.Min(a.End(), b.End()) {
				ids := sortedPair(a.ID, b.ID)
				conflicts = append(conflicts, timeline.Conflict{
					ID:         timeline.MustConflictID(timeline.ConflictOverlap, ids),
					Type:       timeline.ConflictOverlap,
					SegmentIDs: ids,
					Severity:   timeline.SeverityMedium,
					SuggestedResolution: fmt.Sprintf(
						"shift the later of %s and %s forward past the overlap", ids[0], ids[1]),
				})
			}
		}
	}

	for _, seg := range placed {
		if seg.Clip == nil {
			continue
		}
		if math.Abs(seg.Clip.Asset.Duration-seg.Duration) > DurationMismatchTolerance {
			conflicts = append(conflicts, timeline.Conflict{
				ID:         timeline.MustConflictID(timeline.ConflictDurationMismatch, []string{seg.ID}),
				Type:       timeline.ConflictDurationMismatch,
				SegmentIDs: []string{seg.ID},
				Severity:   timeline.SeverityLow,
				SuggestedResolution: fmt.Sprintf(
					"clamp clip duration %.3fs to timeline duration %.3fs",
					seg.Clip.Asset.Duration, seg.Duration),
			})
		}
	}

	imported := make(map[string]bool, len(placed))
	for _, seg := range placed {
		imported[seg.ID] = true
	}
	for _, entry := range entries {
		if !imported[entry.SegmentID] {
			conflicts = append(conflicts, timeline.Conflict{
				ID:         timeline.MustConflictID(timeline.ConflictGap, []string{entry.SegmentID}),
				Type:       timeline.ConflictGap,
				SegmentIDs: []string{entry.SegmentID},
				Severity:   timeline.SeverityHigh,
				SuggestedResolution: fmt.Sprintf(
					"segment %s was never imported; re-render or remove the timeline entry", entry.SegmentID),
			})
		}
	}

	timeline.SortConflicts(conflicts)
	return conflicts
}

func sortedPair(a, b string) []string {
	if strings.Compare(a, b) <= 0 {
		return []string{a, b}
	}
	return []string{b, a}
}
