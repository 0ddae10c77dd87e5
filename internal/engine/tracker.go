package engine

import (
	"math"
	"slices"

	"framesync/internal/timeline"
)

// PointTolerance is the half-width of the window within which a
// synchronization point counts as active for a query time.
const PointTolerance = 0.1

// Tracker answers active/next/previous queries over an immutable
// synchronization point set. All queries are pure functions of the point
// set and the query time; the tracker keeps no memory of prior queries.
type Tracker struct {
	points []timeline.SyncPoint // sorted by timestamp, then ID
}

// NewTracker copies and sorts the point set. The caller's slice is not
// retained.
func NewTracker(points []timeline.SyncPoint) *Tracker {
	sorted := slices.Clone(points)
	timeline.SortSyncPoints(sorted)
	return &Tracker{points: sorted}
}

// Points returns the tracked points in timestamp order.
func (tr *Tracker) Points() []timeline.SyncPoint {
	return slices.Clone(tr.points)
}

// Active returns every point within PointTolerance of the query time,
// exclusive at the window edge.
func (tr *Tracker) Active(at float64) []timeline.SyncPoint {
	var active []timeline.SyncPoint
	for _, p := range tr.points {
		if math.Abs(at-p.Timestamp) < PointTolerance {
			active = append(active, p)
		}
	}
	return active
}

// Next returns the point with the smallest timestamp strictly after the
// query time. The second return is false when no such point exists.
func (tr *Tracker) Next(at float64) (timeline.SyncPoint, bool) {
	for _, p := range tr.points {
		if p.Timestamp > at {
			return p, true
		}
	}
	return timeline.SyncPoint{}, false
}

// Previous returns the point with the largest timestamp at or before the
// query time. The second return is false when no such point exists.
func (tr *Tracker) Previous(at float64) (timeline.SyncPoint, bool) {
	for i := len(tr.points) - 1; i >= 0; i-- {
		if tr.points[i].Timestamp <= at {
			return tr.points[i], true
		}
	}
	return timeline.SyncPoint{}, false
}
