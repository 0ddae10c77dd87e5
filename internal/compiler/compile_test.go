package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesync/internal/timeline"
)

const fullDoc = `
timeline: {
	fps: 24.0
	config: {
		enable_auto_sync: false
		max_concurrent_segments: 2
		quality: {width: 1280, height: 720}
	}
	segments: {
		intro: {
			start:    0.0
			duration: 10.0
			source:   "procedural_scene"
			content: {kind: "title_card", scenes: 2}
			animations: {
				fade: {
					property: "opacity"
					duration: 2.0
					easing:   "easeIn"
					keyframes: [
						{time: 0.0, value: 0.0},
						{time: 2.0, value: 1.0},
					]
				}
			}
		}
		main: {
			start:  10.0
			source: "clip"
			metadata: {scene_count: 3, complexity: "complex"}
		}
	}
}
`

func TestCompile_FullDocument(t *testing.T) {
	doc, err := CompileString(fullDoc, "timeline.cue")
	require.NoError(t, err)

	assert.Equal(t, 24.0, doc.FPS)
	assert.False(t, doc.Config.EnableAutoSync)
	assert.Equal(t, 2, doc.Config.MaxConcurrentSegments)
	assert.Equal(t, 0.5, doc.Config.DefaultTransitionDuration, "unset config keys keep defaults")
	assert.Equal(t, 1280, doc.Config.Quality.Width)

	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "intro", doc.Entries[0].SegmentID)
	assert.Equal(t, "main", doc.Entries[1].SegmentID)

	require.Len(t, doc.Scenes, 1)
	scene := doc.Scenes[0]
	assert.Equal(t, "intro", scene.ID)
	assert.Equal(t, timeline.SourceScene, scene.Source)
	assert.Equal(t, 10.0, scene.Duration)
	assert.Contains(t, string(scene.Content), "title_card")

	require.Len(t, scene.Animations, 1)
	anim := scene.Animations[0]
	assert.Equal(t, "intro/fade", anim.ID)
	assert.Equal(t, "intro", anim.TargetID)
	assert.Equal(t, "opacity", anim.Property)
	assert.Equal(t, timeline.EasingEaseIn, anim.Easing)
	require.Len(t, anim.Keyframes, 2)
	assert.Equal(t, timeline.Scalar(0), anim.Keyframes[0].Value)
	assert.Equal(t, timeline.Scalar(1), anim.Keyframes[1].Value)

	require.Len(t, doc.Clips, 1)
	clip := doc.Clips[0]
	assert.Equal(t, "main", clip.SegmentID)
	assert.Equal(t, 10.0, clip.StartTime)
	assert.Equal(t, 0.0, clip.Duration, "clip duration inherited at import time")
	assert.Equal(t, 3, clip.Meta.SceneCount)
	assert.Equal(t, timeline.ComplexityComplex, clip.Meta.Complexity)
}

func TestCompile_Defaults(t *testing.T) {
	doc, err := CompileString(`
timeline: segments: solo: {
	start:    0.0
	duration: 5.0
	source:   "procedural_scene"
}
`, "t.cue")
	require.NoError(t, err)

	assert.Equal(t, DefaultFPS, doc.FPS)
	assert.Equal(t, timeline.DefaultConfig(), doc.Config)
	require.Len(t, doc.Scenes, 1)
	assert.Empty(t, doc.Scenes[0].Animations)
}

func TestCompile_ClipMetadataDefaultsToModerate(t *testing.T) {
	doc, err := CompileString(`
timeline: segments: c: {start: 0.0, source: "clip"}
`, "t.cue")
	require.NoError(t, err)
	require.Len(t, doc.Clips, 1)
	assert.Equal(t, timeline.ComplexityModerate, doc.Clips[0].Meta.Complexity)
}

func TestCompile_RecordKeyframeValue(t *testing.T) {
	doc, err := CompileString(`
timeline: segments: s: {
	start:    0.0
	duration: 4.0
	source:   "procedural_scene"
	animations: move: {
		property: "transform.position"
		duration: 4.0
		keyframes: [
			{time: 0.0, value: {x: 0.0, y: 0.0}},
			{time: 4.0, value: {x: 10.0, y: 5.0}},
		]
	}
}
`, "t.cue")
	require.NoError(t, err)

	anim := doc.Scenes[0].Animations[0]
	assert.Equal(t, timeline.EasingLinear, anim.Easing, "easing defaults to linear")
	rec, ok := anim.Keyframes[1].Value.(timeline.Record)
	require.True(t, ok)
	assert.Equal(t, timeline.Scalar(10), rec["x"])
}

func TestCompile_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing timeline struct",
			src:  `segments: {}`,
			want: "must declare a timeline",
		},
		{
			name: "missing start",
			src:  `timeline: segments: s: {duration: 1.0, source: "clip"}`,
			want: "start time is required",
		},
		{
			name: "missing source",
			src:  `timeline: segments: s: {start: 0.0, duration: 1.0}`,
			want: "source is required",
		},
		{
			name: "unknown source",
			src:  `timeline: segments: s: {start: 0.0, duration: 1.0, source: "live"}`,
			want: `unknown source "live"`,
		},
		{
			name: "scene without duration",
			src:  `timeline: segments: s: {start: 0.0, source: "procedural_scene"}`,
			want: "must declare a duration",
		},
		{
			name: "animation without property",
			src: `timeline: segments: s: {
				start: 0.0, duration: 1.0, source: "procedural_scene"
				animations: a: {duration: 1.0}
			}`,
			want: "property is required",
		},
		{
			name: "keyframe without value",
			src: `timeline: segments: s: {
				start: 0.0, duration: 1.0, source: "procedural_scene"
				animations: a: {property: "opacity", duration: 1.0, keyframes: [{time: 0.0}]}
			}`,
			want: "value is required",
		},
		{
			name: "boolean keyframe value",
			src: `timeline: segments: s: {
				start: 0.0, duration: 1.0, source: "procedural_scene"
				animations: a: {property: "visible", duration: 1.0, keyframes: [{time: 0.0, value: true}]}
			}`,
			want: "unsupported value kind",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileString(tc.src, "t.cue")
			require.Error(t, err)
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Contains(t, ce.Message, tc.want)
		})
	}
}

func TestCompile_SyntaxErrorCarriesPosition(t *testing.T) {
	_, err := CompileString("timeline: {", "broken.cue")
	require.Error(t, err)
	var ce *CompileError
	if assert.ErrorAs(t, err, &ce) {
		assert.True(t, ce.Pos.IsValid())
	}
}

func TestCompile_OrderIndependence(t *testing.T) {
	a, err := CompileString(`
timeline: segments: {
	b: {start: 5.0, duration: 1.0, source: "procedural_scene"}
	a: {start: 0.0, duration: 1.0, source: "procedural_scene"}
}
`, "t.cue")
	require.NoError(t, err)

	b, err := CompileString(`
timeline: segments: {
	a: {start: 0.0, duration: 1.0, source: "procedural_scene"}
	b: {start: 5.0, duration: 1.0, source: "procedural_scene"}
}
`, "t.cue")
	require.NoError(t, err)

	assert.Equal(t, a.Entries, b.Entries)
	assert.Equal(t, a.Scenes, b.Scenes)
}
