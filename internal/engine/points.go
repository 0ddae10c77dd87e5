package engine

import (
	"slices"
	"strings"

	"framesync/internal/timeline"
)

// DerivePoints builds the synchronization point set for a placed segment
// batch. Two marker families contribute:
//
//   - a "segment_start" marker at every segment's start time
//   - one marker per clip integration point, at the clip's placement offset
//
// Markers sharing an event tag and an exact timestamp merge into a single
// point whose sources are the union of the contributing source tags. That
// merge is what makes a point "cross-source": a clip start coinciding with a
// procedural scene start yields one point with both tags.
func DerivePoints(segments []timeline.Segment) []timeline.SyncPoint {
	type markerKey struct {
		event     string
		timestamp float64
	}
	type marker struct {
		sources  map[string]bool
		segments map[string]bool
		props    map[string]string
	}

	markers := make(map[markerKey]*marker)
	add := func(key markerKey, source, segmentID string, props map[string]string) {
		m, ok := markers[key]
		if !ok {
			m = &marker{
				sources:  make(map[string]bool),
				segments: make(map[string]bool),
				props:    make(map[string]string),
			}
			markers[key] = m
		}
		m.sources[source] = true
		m.segments[segmentID] = true
		for k, v := range props {
			m.props[k] = v
		}
	}

	for _, seg := range segments {
		add(markerKey{"segment_start", seg.StartTime}, string(seg.Source), seg.ID, nil)

		if seg.Clip == nil {
			continue
		}
		for _, pt := range seg.Clip.IntegrationPoints {
			key := markerKey{pt.Type, seg.StartTime + pt.Timestamp}
			add(key, string(timeline.SourceClip), seg.ID, pt.Properties)
		}
	}

	points := make([]timeline.SyncPoint, 0, len(markers))
	for key, m := range markers {
		sources := sortedSetKeys(m.sources)
		props := make(map[string]string, len(m.props)+1)
		for k, v := range m.props {
			props[k] = v
		}
		props["segments"] = strings.Join(sortedSetKeys(m.segments), ",")

		points = append(points, timeline.SyncPoint{
			ID:         timeline.MustSyncPointID(key.event, key.timestamp, sources),
			Timestamp:  key.timestamp,
			Sources:    sources,
			Event:      key.event,
			Properties: props,
		})
	}

	timeline.SortSyncPoints(points)
	return points
}

func sortedSetKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
