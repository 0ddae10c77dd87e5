package compose

import (
	"github.com/tidwall/gjson"

	"framesync/internal/timeline"
)

// SegmentComplexity resolves a segment's complexity bucket.
//
// Clips declare complexity in their metadata. Procedural scenes carry an
// opaque payload the engine otherwise never inspects; when that payload is
// JSON with a metadata.complexity field, the declared value is honored,
// and anything else falls back to moderate.
func SegmentComplexity(seg timeline.Segment) timeline.Complexity {
	if seg.Clip != nil {
		switch seg.Clip.Meta.Complexity {
		case timeline.ComplexitySimple, timeline.ComplexityModerate, timeline.ComplexityComplex:
			return seg.Clip.Meta.Complexity
		}
		return timeline.ComplexityModerate
	}

	if c := gjson.GetBytes(seg.Content, "metadata.complexity"); c.Exists() {
		switch timeline.Complexity(c.String()) {
		case timeline.ComplexitySimple:
			return timeline.ComplexitySimple
		case timeline.ComplexityComplex:
			return timeline.ComplexityComplex
		case timeline.ComplexityModerate:
			return timeline.ComplexityModerate
		}
	}
	return timeline.ComplexityModerate
}

// SceneCount extracts the internal scene count a segment exposes: the clip
// metadata's count for clips, and for procedural scenes either a declared
// metadata.scene_count or the length of a top-level scenes array.
func SceneCount(seg timeline.Segment) int {
	if seg.Clip != nil {
		return seg.Clip.Meta.SceneCount
	}
	if n := gjson.GetBytes(seg.Content, "metadata.scene_count"); n.Exists() {
		return int(n.Int())
	}
	if scenes := gjson.GetBytes(seg.Content, "scenes.#"); scenes.Exists() {
		return int(scenes.Int())
	}
	return 0
}

// DefaultDiscriminator treats two segments as distinguishable when their
// internal scene counts differ. A crude proxy for "visually different
// enough to overlay", but cheap and deterministic.
func DefaultDiscriminator(a, b timeline.Segment) bool {
	return SceneCount(a) != SceneCount(b)
}
