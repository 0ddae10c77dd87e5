package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesync/internal/timeline"
)

func TestDerivePoints_SegmentStarts(t *testing.T) {
	segments := []timeline.Segment{
		seg("A", 0, 10),
		seg("B", 10, 5),
	}

	points := DerivePoints(segments)

	require.Len(t, points, 2)
	assert.Equal(t, 0.0, points[0].Timestamp)
	assert.Equal(t, "segment_start", points[0].Event)
	assert.Equal(t, []string{string(timeline.SourceScene)}, points[0].Sources)
	assert.Equal(t, "A", points[0].Properties["segments"])
}

func TestDerivePoints_CoincidentStartsMergeAcrossSources(t *testing.T) {
	clip := clipSeg("C", 5, 10, 10)
	clip.Clip.IntegrationPoints = nil
	segments := []timeline.Segment{
		seg("S", 5, 8),
		clip,
	}

	points := DerivePoints(segments)

	require.Len(t, points, 1)
	assert.Equal(t, []string{string(timeline.SourceClip), string(timeline.SourceScene)}, points[0].Sources)
	assert.Equal(t, "C,S", points[0].Properties["segments"])
}

func TestDerivePoints_IntegrationPointsOffsetByPlacement(t *testing.T) {
	clip := clipSeg("C", 2, 10, 10)
	clip.Clip.IntegrationPoints = []timeline.IntegrationPoint{
		{ID: "C/start", Timestamp: 0, Type: "start"},
		{ID: "C/end", Timestamp: 10, Type: "end", Properties: map[string]string{"fade": "out"}},
	}

	points := DerivePoints([]timeline.Segment{clip})

	require.Len(t, points, 3) // segment_start + 2 integration points
	byEvent := map[string]timeline.SyncPoint{}
	for _, p := range points {
		byEvent[p.Event] = p
	}
	assert.Equal(t, 2.0, byEvent["start"].Timestamp)
	assert.Equal(t, 12.0, byEvent["end"].Timestamp)
	assert.Equal(t, "out", byEvent["end"].Properties["fade"])
}

func TestDerivePoints_Deterministic(t *testing.T) {
	segments := []timeline.Segment{
		seg("A", 0, 10),
		clipSeg("B", 0, 10, 10),
		seg("C", 4, 2),
	}

	a := DerivePoints(segments)
	b := DerivePoints([]timeline.Segment{segments[2], segments[0], segments[1]})
	assert.Equal(t, a, b)
}
