package timeline

import (
	"slices"
	"strings"
)

// SourceKind identifies which renderer produced a segment's content.
// This is a closed enum: every switch over SourceKind must handle both
// variants and reject anything else.
type SourceKind string

const (
	// SourceClip marks content pre-rendered by the external animation service.
	SourceClip SourceKind = "clip"

	// SourceScene marks procedurally generated 3D scene content.
	SourceScene SourceKind = "procedural_scene"
)

// ValidSourceKinds defines the allowed source kinds.
var ValidSourceKinds = map[SourceKind]bool{
	SourceClip:  true,
	SourceScene: true,
}

// Format is the container format of a pre-rendered video asset.
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatWebM Format = "webm"
	FormatMOV  Format = "mov"
)

// ValidFormats defines the accepted asset formats.
var ValidFormats = map[Format]bool{
	FormatMP4:  true,
	FormatWebM: true,
	FormatMOV:  true,
}

// FormatFromPath derives the asset format from a file path extension.
// Returns the empty Format when the extension is not recognized.
func FormatFromPath(path string) Format {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	f := Format(strings.ToLower(path[idx+1:]))
	if ValidFormats[f] {
		return f
	}
	return ""
}

// Complexity buckets a clip's rendering complexity. It drives blend mode
// selection and layer grouping.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// BlendMode is the compositing operation for a layer.
type BlendMode string

const (
	BlendNormal   BlendMode = "normal"
	BlendMultiply BlendMode = "multiply"
	BlendOverlay  BlendMode = "overlay"
	BlendScreen   BlendMode = "screen"
)

// Easing names the progress-reshaping function applied before interpolation.
// The exact function forms live in the animate package; this type exists so
// the model and the compiler can validate names without importing it.
type Easing string

const (
	EasingLinear    Easing = "linear"
	EasingEaseIn    Easing = "easeIn"
	EasingEaseOut   Easing = "easeOut"
	EasingEaseInOut Easing = "easeInOut"
	EasingBounce    Easing = "bounce"
	EasingElastic   Easing = "elastic"
)

// ValidEasings defines the recognized easing names.
var ValidEasings = map[Easing]bool{
	EasingLinear:    true,
	EasingEaseIn:    true,
	EasingEaseOut:   true,
	EasingEaseInOut: true,
	EasingBounce:    true,
	EasingElastic:   true,
}

// Keyframe anchors a value at a point in time. Times are seconds relative to
// the owning animation's start.
type Keyframe struct {
	Time  float64 `json:"time"`
	Value Value   `json:"value"`
}

// Animation is a keyframed property track attached to a segment.
type Animation struct {
	ID        string     `json:"id"`
	TargetID  string     `json:"target_id"`
	Property  string     `json:"property"` // dotted path, e.g. "transform.scale"
	Keyframes []Keyframe `json:"keyframes"`
	Duration  float64    `json:"duration"`
	Easing    Easing     `json:"easing"`
}

// SortedKeyframes returns the animation's keyframes ordered ascending by
// time. The sort is stable so keyframes sharing a time keep their declared
// order, and the first of them wins for a query at that exact time. The
// receiver is never modified.
func (a Animation) SortedKeyframes() []Keyframe {
	kfs := slices.Clone(a.Keyframes)
	slices.SortStableFunc(kfs, func(x, y Keyframe) int {
		switch {
		case x.Time < y.Time:
			return -1
		case x.Time > y.Time:
			return 1
		default:
			return 0
		}
	})
	return kfs
}

// VideoAsset describes a pre-rendered clip file.
type VideoAsset struct {
	FilePath string  `json:"file_path"`
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Format   Format  `json:"format"`
}

// ClipMetadata carries the animation service's self-reported statistics for
// a rendered clip.
type ClipMetadata struct {
	SceneCount        int        `json:"scene_count"`
	ObjectCount       int        `json:"object_count"`
	AnimationCount    int        `json:"animation_count"`
	Complexity        Complexity `json:"complexity"`
	RenderTimeSeconds float64    `json:"render_time_seconds"`
}

// IntegrationPoint is a named instant inside a clip where other content may
// attach. Timestamps are seconds relative to the clip start.
type IntegrationPoint struct {
	ID         string            `json:"id"`
	Timestamp  float64           `json:"timestamp"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Clip wraps the asset, metadata, and integration points of a pre-rendered
// segment.
type Clip struct {
	Asset             VideoAsset         `json:"asset"`
	Meta              ClipMetadata       `json:"meta"`
	IntegrationPoints []IntegrationPoint `json:"integration_points,omitempty"`
}

// Segment is a time-bounded unit of content placed on the timeline.
//
// Content is an opaque payload reference; the engine never inspects it
// beyond the attached Animations, except for the layer composer's pluggable
// content discriminator. Clip is non-nil exactly when Source == SourceClip.
type Segment struct {
	ID         string      `json:"id"`
	StartTime  float64     `json:"start_time"`
	Duration   float64     `json:"duration"`
	Source     SourceKind  `json:"source"`
	Content    []byte      `json:"content,omitempty"`
	Clip       *Clip       `json:"clip,omitempty"`
	Animations []Animation `json:"animations,omitempty"`
}

// End returns the segment's exclusive end time.
func (s Segment) End() float64 {
	return s.StartTime + s.Duration
}

// CloneSegment deep-copies a segment so resolution can adjust temporal
// fields without touching the caller's value.
func CloneSegment(s Segment) Segment {
	out := s
	out.Content = slices.Clone(s.Content)
	out.Animations = slices.Clone(s.Animations)
	if s.Clip != nil {
		clip := *s.Clip
		clip.IntegrationPoints = slices.Clone(s.Clip.IntegrationPoints)
		out.Clip = &clip
	}
	return out
}

// SortSegments orders segments by start time, breaking ties by ID. This is
// the canonical placement order used by conflict detection and composition
// so that results are independent of input order.
func SortSegments(segs []Segment) {
	slices.SortFunc(segs, func(a, b Segment) int {
		switch {
		case a.StartTime < b.StartTime:
			return -1
		case a.StartTime > b.StartTime:
			return 1
		default:
			return strings.Compare(a.ID, b.ID)
		}
	})
}

// Entry is a timeline reference to a segment by ID with its assigned
// placement. An entry whose SegmentID matches no imported segment is a gap.
type Entry struct {
	SegmentID string  `json:"segment_id"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

// ConflictType classifies a timing conflict.
type ConflictType string

const (
	ConflictOverlap          ConflictType = "overlap"
	ConflictGap              ConflictType = "gap"
	ConflictDurationMismatch ConflictType = "duration_mismatch"
)

// Severity ranks how disruptive a conflict is. Only gaps block the
// synchronized status of a batch.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Conflict reports a timing problem between one or two segments.
// SuggestedResolution is advisory text for the caller; the resolver applies
// only its own fixed strategies.
type Conflict struct {
	ID                  string       `json:"id"`
	Type                ConflictType `json:"type"`
	SegmentIDs          []string     `json:"segment_ids"` // 1-2 entries, sorted
	Severity            Severity     `json:"severity"`
	SuggestedResolution string       `json:"suggested_resolution"`
}

// SortConflicts orders conflicts by ID. Conflict IDs are content hashes, so
// this yields the same sequence for any permutation of the same conflict set.
func SortConflicts(conflicts []Conflict) {
	slices.SortFunc(conflicts, func(a, b Conflict) int {
		return strings.Compare(a.ID, b.ID)
	})
}

// SyncPoint is a named instant shared across content sources.
// Immutable once created.
type SyncPoint struct {
	ID         string            `json:"id"`
	Timestamp  float64           `json:"timestamp"`
	Sources    []string          `json:"sources"` // non-empty, sorted source tags
	Event      string            `json:"event"`
	Properties map[string]string `json:"properties,omitempty"`
}

// SortSyncPoints orders points by timestamp, breaking ties by ID.
func SortSyncPoints(points []SyncPoint) {
	slices.SortFunc(points, func(a, b SyncPoint) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return strings.Compare(a.ID, b.ID)
		}
	})
}

// LayerComposition is one z-ordered slot in the per-frame composite.
//
// Every composition corresponds to exactly one segment whose time window it
// copies verbatim; StartTime and Duration are never edited independently of
// the segment. LayerIndex values within a composition batch form a dense
// range starting at zero.
type LayerComposition struct {
	ID         string     `json:"id"`
	SegmentID  string     `json:"segment_id"`
	LayerIndex int        `json:"layer_index"`
	Source     SourceKind `json:"source"`
	BlendMode  BlendMode  `json:"blend_mode"`
	Opacity    float64    `json:"opacity"`
	StartTime  float64    `json:"start_time"`
	Duration   float64    `json:"duration"`
}
