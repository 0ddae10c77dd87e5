package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesync/internal/timeline"
)

func TestSynchronize_CleanTimeline(t *testing.T) {
	segments := []timeline.Segment{
		seg("A", 0, 10),
		seg("B", 10, 5),
	}
	entries := []timeline.Entry{
		{SegmentID: "A", StartTime: 0, Duration: 10},
		{SegmentID: "B", StartTime: 10, Duration: 5},
	}

	res := Synchronize(entries, segments, timeline.DefaultConfig())

	assert.True(t, res.Synchronized)
	assert.Empty(t, res.Conflicts)
	assert.Len(t, res.Adjusted, 2)
	assert.Len(t, res.Points, 2)
}

func TestSynchronize_AutoSyncResolvesOverlap(t *testing.T) {
	segments := []timeline.Segment{
		seg("A", 0, 10),
		seg("B", 1, 10),
	}

	res := Synchronize(nil, segments, timeline.DefaultConfig())

	assert.True(t, res.Synchronized, "overlap does not block synchronized status")
	require.Len(t, res.Conflicts, 1, "resolved conflicts are still reported")
	assert.InDelta(t, 1.1, findSeg(t, res.Adjusted, "B").StartTime, 1e-12)
}

func TestSynchronize_AutoSyncDisabled(t *testing.T) {
	segments := []timeline.Segment{
		seg("A", 0, 10),
		seg("B", 1, 10),
	}
	cfg := timeline.DefaultConfig()
	cfg.EnableAutoSync = false

	res := Synchronize(nil, segments, cfg)

	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, 1.0, findSeg(t, res.Adjusted, "B").StartTime, "no adjustment without auto-sync")
}

func TestSynchronize_GapBlocksSynchronizedStatus(t *testing.T) {
	entries := []timeline.Entry{{SegmentID: "x", StartTime: 0, Duration: 5}}
	segments := []timeline.Segment{seg("A", 0, 10)}

	res := Synchronize(entries, segments, timeline.DefaultConfig())

	assert.False(t, res.Synchronized)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, timeline.ConflictGap, res.Conflicts[0].Type)

	// Auto-sync on or off makes no difference for gaps.
	cfg := timeline.DefaultConfig()
	cfg.EnableAutoSync = false
	assert.False(t, Synchronize(entries, segments, cfg).Synchronized)
}

func TestSynchronize_Deterministic(t *testing.T) {
	segments := []timeline.Segment{
		seg("A", 0, 10),
		clipSeg("B", 3, 10, 12),
		seg("C", 30, 2),
	}
	entries := []timeline.Entry{{SegmentID: "ghost", StartTime: 50, Duration: 1}}

	a := Synchronize(entries, segments, timeline.DefaultConfig())
	b := Synchronize(entries, []timeline.Segment{segments[2], segments[1], segments[0]}, timeline.DefaultConfig())

	assert.Equal(t, a, b)
}

func TestSynchronize_PointsDerivedFromAdjustedSegments(t *testing.T) {
	segments := []timeline.Segment{
		seg("A", 0, 10),
		seg("B", 1, 10),
	}

	res := Synchronize(nil, segments, timeline.DefaultConfig())

	// B was nudged to 1.1; its start point follows.
	var times []float64
	for _, p := range res.Points {
		times = append(times, p.Timestamp)
	}
	assert.Equal(t, []float64{0, 1.1}, times)
}

func TestSynchronize_QualityPassesThrough(t *testing.T) {
	cfg := timeline.DefaultConfig()
	cfg.Quality = timeline.QualityHints{Width: 1280, Height: 720, Scaling: "fit"}

	res := Synchronize(nil, []timeline.Segment{seg("A", 0, 10)}, cfg)

	assert.Equal(t, cfg.Quality, res.Quality, "hints are carried uninterpreted")
}
