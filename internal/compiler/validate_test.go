package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesync/internal/timeline"
)

func validDoc() *Document {
	return &Document{
		FPS:    30,
		Config: timeline.DefaultConfig(),
		Entries: []timeline.Entry{
			{SegmentID: "s", StartTime: 0, Duration: 5},
		},
		Scenes: []timeline.Segment{{
			ID:        "s",
			StartTime: 0,
			Duration:  5,
			Source:    timeline.SourceScene,
			Animations: []timeline.Animation{{
				ID:       "s/fade",
				TargetID: "s",
				Property: "opacity",
				Duration: 2,
				Easing:   timeline.EasingLinear,
				Keyframes: []timeline.Keyframe{
					{Time: 0, Value: timeline.Scalar(0)},
					{Time: 2, Value: timeline.Scalar(1)},
				},
			}},
		}},
	}
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidate_CleanDocument(t *testing.T) {
	assert.Empty(t, Validate(validDoc()))
}

func TestValidate_BadFPS(t *testing.T) {
	doc := validDoc()
	doc.FPS = 0
	assert.Contains(t, codes(Validate(doc)), ErrBadFPS)
}

func TestValidate_EmptyTimeline(t *testing.T) {
	doc := &Document{FPS: 30, Config: timeline.DefaultConfig()}
	assert.Contains(t, codes(Validate(doc)), ErrEmptyTimeline)
}

func TestValidate_NegativeStart(t *testing.T) {
	doc := validDoc()
	doc.Entries[0].StartTime = -1
	assert.Contains(t, codes(Validate(doc)), ErrNegativeStart)
}

func TestValidate_SceneDurationMustBePositive(t *testing.T) {
	doc := validDoc()
	doc.Scenes[0].Duration = 0
	assert.Contains(t, codes(Validate(doc)), ErrBadDuration)
}

func TestValidate_ClipZeroDurationAllowed(t *testing.T) {
	doc := validDoc()
	doc.Entries = append(doc.Entries, timeline.Entry{SegmentID: "c", StartTime: 5})
	doc.Clips = []ClipSpec{{
		SegmentID: "c",
		StartTime: 5,
		Meta:      timeline.ClipMetadata{Complexity: timeline.ComplexityModerate},
	}}
	assert.Empty(t, Validate(doc), "zero clip duration means inherit from asset")

	doc.Clips[0].Duration = -2
	assert.Contains(t, codes(Validate(doc)), ErrBadDuration)
}

func TestValidate_UnknownEasing(t *testing.T) {
	doc := validDoc()
	doc.Scenes[0].Animations[0].Easing = "easein"

	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownEasing, errs[0].Code)
	assert.Contains(t, errs[0].Field, "animations.fade.easing")
}

func TestValidate_KeyframeOutOfRange(t *testing.T) {
	doc := validDoc()
	doc.Scenes[0].Animations[0].Keyframes[1].Time = 5 // duration is 2

	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrKeyframeOutOfRange, errs[0].Code)
}

func TestValidate_AnimationDuration(t *testing.T) {
	doc := validDoc()
	doc.Scenes[0].Animations[0].Duration = 0
	doc.Scenes[0].Animations[0].Keyframes = nil
	assert.Contains(t, codes(Validate(doc)), ErrBadAnimDuration)
}

func TestValidate_UnknownComplexity(t *testing.T) {
	doc := validDoc()
	doc.Clips = []ClipSpec{{
		SegmentID: "c",
		Meta:      timeline.ClipMetadata{Complexity: "extreme"},
	}}
	assert.Contains(t, codes(Validate(doc)), ErrUnknownComplexity)
}

func TestValidate_BadConfig(t *testing.T) {
	doc := validDoc()
	doc.Config.MaxConcurrentSegments = 0
	assert.Contains(t, codes(Validate(doc)), ErrBadConfig)

	doc = validDoc()
	doc.Config.DefaultTransitionDuration = -0.5
	assert.Contains(t, codes(Validate(doc)), ErrBadConfig)
}

func TestValidate_DuplicateAnimationID(t *testing.T) {
	doc := validDoc()
	doc.Scenes[0].Animations = append(doc.Scenes[0].Animations, doc.Scenes[0].Animations[0])
	assert.Contains(t, codes(Validate(doc)), ErrDuplicateID)
}

func TestValidate_ReportsAllFindings(t *testing.T) {
	doc := validDoc()
	doc.FPS = -1
	doc.Scenes[0].Animations[0].Easing = "snap"
	doc.Scenes[0].Animations[0].Keyframes[1].Time = 99

	errs := Validate(doc)
	assert.Len(t, errs, 3, "validation does not fail fast")
}

func TestCompileThenValidate_CatchesEasingTypo(t *testing.T) {
	doc, err := CompileString(`
timeline: segments: s: {
	start:    0.0
	duration: 5.0
	source:   "procedural_scene"
	animations: slide: {
		property: "x"
		duration: 3.0
		easing:   "bouncey"
		keyframes: [{time: 0.0, value: 0.0}, {time: 3.0, value: 1.0}]
	}
}
`, "t.cue")
	require.NoError(t, err, "easing names are a validation concern, not a compile concern")

	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownEasing, errs[0].Code)
}
