// Package compose plans the layer stack for a synchronized segment batch:
// which segments may render simultaneously, in what z-order, and with what
// blend mode and opacity.
//
// Planning is pure and deterministic. The grouping key and the content
// discriminator are pluggable heuristics; the opacity and blend tables are
// fixed policy.
package compose

import (
	"math"
	"slices"

	"framesync/internal/timeline"
)

// GroupKeyFunc buckets a segment; segments sharing a key are considered for
// simultaneous layering together.
type GroupKeyFunc func(timeline.Segment) string

// DiscriminatorFunc reports whether two segments are visually distinct
// enough to overlay. Layering requires every pair in a group to pass.
type DiscriminatorFunc func(a, b timeline.Segment) bool

// Option configures a planning run.
type Option func(*planner)

// WithGrouping replaces the default complexity-by-time-bucket grouping key.
func WithGrouping(fn GroupKeyFunc) Option {
	return func(p *planner) { p.groupKey = fn }
}

// WithDiscriminator replaces the default scene-count discriminator.
func WithDiscriminator(fn DiscriminatorFunc) Option {
	return func(p *planner) { p.distinct = fn }
}

type planner struct {
	groupKey GroupKeyFunc
	distinct DiscriminatorFunc
}

// Plan assigns every segment a layer composition.
//
// Segments are bucketed by the grouping key. A group is stacked (rendered
// simultaneously on layers 0..n-1 with the opacity table applied) only
// when the group is within cfg.MaxConcurrentSegments and every pair passes
// the discriminator. Otherwise the group's segments get strictly sequential
// layer indices at full opacity.
//
// Each composition copies its segment's time window verbatim, and layer
// indices within a group form a dense range starting at zero.
func Plan(segments []timeline.Segment, cfg timeline.Config, opts ...Option) []timeline.LayerComposition {
	p := &planner{
		groupKey: DefaultGroupKey,
		distinct: DefaultDiscriminator,
	}
	for _, opt := range opts {
		opt(p)
	}

	sorted := slices.Clone(segments)
	timeline.SortSegments(sorted)

	groups := make(map[string][]timeline.Segment)
	for _, seg := range sorted {
		key := p.groupKey(seg)
		groups[key] = append(groups[key], seg)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var plan []timeline.LayerComposition
	for _, key := range keys {
		group := groups[key]
		layered := len(group) <= cfg.MaxConcurrentSegments && p.pairwiseDistinct(group)

		for i, seg := range group {
			opacity := 1.0
			if layered {
				opacity = opacityFor(len(group))
			}
			plan = append(plan, timeline.LayerComposition{
				ID:         timeline.MustLayerID(seg.ID, i),
				SegmentID:  seg.ID,
				LayerIndex: i,
				Source:     seg.Source,
				BlendMode:  BlendFor(SegmentComplexity(seg)),
				Opacity:    opacity,
				StartTime:  seg.StartTime,
				Duration:   seg.Duration,
			})
		}
	}

	return plan
}

func (p *planner) pairwiseDistinct(group []timeline.Segment) bool {
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			if !p.distinct(group[i], group[j]) {
				return false
			}
		}
	}
	return true
}

// opacityFor implements the stacking opacity table: a single member is
// opaque, and each additional member dims the stack down to a floor of 0.4.
func opacityFor(count int) float64 {
	switch count {
	case 1:
		return 1.0
	case 2:
		return 0.8
	case 3:
		return 0.6
	default:
		return math.Max(0.4, 1.0/float64(count))
	}
}

// BlendFor maps declared complexity to a blend mode. Simple content
// composites normally, complex content overlays, everything between
// multiplies.
func BlendFor(c timeline.Complexity) timeline.BlendMode {
	switch c {
	case timeline.ComplexitySimple:
		return timeline.BlendNormal
	case timeline.ComplexityComplex:
		return timeline.BlendOverlay
	default:
		return timeline.BlendMultiply
	}
}

// DefaultGroupKey buckets segments by complexity and a coarse (10 second)
// start-time bucket, so segments likely to coexist on screen group together.
func DefaultGroupKey(seg timeline.Segment) string {
	bucket := int(math.Floor(seg.StartTime / 10))
	return string(SegmentComplexity(seg)) + "|" + itoa(bucket)
}

// itoa avoids fmt for the hot grouping path.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b [24]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}
