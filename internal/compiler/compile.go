package compiler

import (
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"framesync/internal/importer"
	"framesync/internal/timeline"
)

// DefaultFPS applies when a document does not declare a playback rate.
const DefaultFPS = 30.0

// Document is a compiled timeline.
//
// Scenes are complete segments. Clips still need their descriptors fetched
// and imported before they become segments; Entries covers both kinds, so
// conflict detection sees a gap for every clip that fails to import.
type Document struct {
	FPS     float64
	Config  timeline.Config
	Entries []timeline.Entry
	Scenes  []timeline.Segment
	Clips   []ClipSpec
}

// ClipSpec is a clip segment's document-side half: its placement and
// caller-declared metadata, without the asset the clip service provides.
type ClipSpec struct {
	SegmentID  string
	StartTime  float64
	Duration   float64
	Meta       timeline.ClipMetadata
	Content    []byte
	Animations []timeline.Animation
}

// Requests converts the document's clip specs into import requests.
func (d *Document) Requests() []importer.Request {
	reqs := make([]importer.Request, 0, len(d.Clips))
	for _, clip := range d.Clips {
		reqs = append(reqs, importer.Request{
			SegmentID:  clip.SegmentID,
			StartTime:  clip.StartTime,
			Duration:   clip.Duration,
			Meta:       clip.Meta,
			Content:    clip.Content,
			Animations: clip.Animations,
		})
	}
	return reqs
}

// ClipIDs lists the document's clip segment IDs in canonical order.
func (d *Document) ClipIDs() []string {
	ids := make([]string, 0, len(d.Clips))
	for _, clip := range d.Clips {
		ids = append(ids, clip.SegmentID)
	}
	return ids
}

// CompileFile reads and compiles a CUE timeline document from disk.
func CompileFile(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline document: %w", err)
	}
	return CompileString(string(src), path)
}

// CompileString compiles CUE source into a Document. The filename is used
// in error positions only.
func CompileString(src, filename string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Compile(v)
}

// Compile parses a CUE value holding a `timeline` struct into a Document.
//
// The CUE value is the file root, e.g.:
//
//	timeline: {
//		fps: 30
//		segments: {
//			intro: {start: 0.0, duration: 10.0, source: "procedural_scene", ...}
//		}
//	}
func Compile(v cue.Value) (*Document, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("timeline"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "timeline",
			Message: "document must declare a timeline struct",
			Pos:     v.Pos(),
		}
	}

	doc := &Document{FPS: DefaultFPS, Config: timeline.DefaultConfig()}

	if fpsVal := root.LookupPath(cue.ParsePath("fps")); fpsVal.Exists() {
		fps, err := fpsVal.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		doc.FPS = fps
	}

	if cfgVal := root.LookupPath(cue.ParsePath("config")); cfgVal.Exists() {
		cfg, err := parseConfig(cfgVal, doc.Config)
		if err != nil {
			return nil, err
		}
		doc.Config = cfg
	}

	segsVal := root.LookupPath(cue.ParsePath("segments"))
	if !segsVal.Exists() {
		return nil, &CompileError{
			Field:   "timeline.segments",
			Message: "timeline must declare segments",
			Pos:     root.Pos(),
		}
	}

	iter, err := segsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		if err := parseSegment(doc, iter.Selector().Unquoted(), iter.Value()); err != nil {
			return nil, err
		}
	}

	// CUE struct field order follows the source; canonical order here keeps
	// compiled output independent of how the author arranged the file.
	sort.Slice(doc.Entries, func(i, j int) bool {
		return doc.Entries[i].SegmentID < doc.Entries[j].SegmentID
	})
	timeline.SortSegments(doc.Scenes)
	sort.Slice(doc.Clips, func(i, j int) bool {
		return doc.Clips[i].SegmentID < doc.Clips[j].SegmentID
	})

	return doc, nil
}

func parseConfig(v cue.Value, base timeline.Config) (timeline.Config, error) {
	cfg := base

	if b := v.LookupPath(cue.ParsePath("enable_auto_sync")); b.Exists() {
		val, err := b.Bool()
		if err != nil {
			return cfg, formatCUEError(err)
		}
		cfg.EnableAutoSync = val
	}
	if f := v.LookupPath(cue.ParsePath("default_transition_duration")); f.Exists() {
		val, err := f.Float64()
		if err != nil {
			return cfg, formatCUEError(err)
		}
		cfg.DefaultTransitionDuration = val
	}
	if n := v.LookupPath(cue.ParsePath("max_concurrent_segments")); n.Exists() {
		val, err := n.Int64()
		if err != nil {
			return cfg, formatCUEError(err)
		}
		cfg.MaxConcurrentSegments = int(val)
	}
	if q := v.LookupPath(cue.ParsePath("quality")); q.Exists() {
		if w := q.LookupPath(cue.ParsePath("width")); w.Exists() {
			val, err := w.Int64()
			if err != nil {
				return cfg, formatCUEError(err)
			}
			cfg.Quality.Width = int(val)
		}
		if h := q.LookupPath(cue.ParsePath("height")); h.Exists() {
			val, err := h.Int64()
			if err != nil {
				return cfg, formatCUEError(err)
			}
			cfg.Quality.Height = int(val)
		}
		if s := q.LookupPath(cue.ParsePath("scaling")); s.Exists() {
			val, err := s.String()
			if err != nil {
				return cfg, formatCUEError(err)
			}
			cfg.Quality.Scaling = val
		}
		if i := q.LookupPath(cue.ParsePath("interpolation")); i.Exists() {
			val, err := i.String()
			if err != nil {
				return cfg, formatCUEError(err)
			}
			cfg.Quality.Interpolation = val
		}
	}

	return cfg, nil
}

func parseSegment(doc *Document, id string, v cue.Value) error {
	startVal := v.LookupPath(cue.ParsePath("start"))
	if !startVal.Exists() {
		return &CompileError{
			Field:   fmt.Sprintf("segments.%s.start", id),
			Message: "segment start time is required",
			Pos:     v.Pos(),
		}
	}
	start, err := startVal.Float64()
	if err != nil {
		return formatCUEError(err)
	}

	sourceVal := v.LookupPath(cue.ParsePath("source"))
	if !sourceVal.Exists() {
		return &CompileError{
			Field:   fmt.Sprintf("segments.%s.source", id),
			Message: "segment source is required",
			Pos:     v.Pos(),
		}
	}
	sourceStr, err := sourceVal.String()
	if err != nil {
		return formatCUEError(err)
	}
	source := timeline.SourceKind(sourceStr)
	if !timeline.ValidSourceKinds[source] {
		return &CompileError{
			Field:   fmt.Sprintf("segments.%s.source", id),
			Message: fmt.Sprintf("unknown source %q, must be %q or %q", sourceStr, timeline.SourceClip, timeline.SourceScene),
			Pos:     sourceVal.Pos(),
		}
	}

	// Duration is required for scenes; clips may omit it and inherit the
	// asset duration at import time.
	var duration float64
	durVal := v.LookupPath(cue.ParsePath("duration"))
	switch {
	case durVal.Exists():
		duration, err = durVal.Float64()
		if err != nil {
			return formatCUEError(err)
		}
	case source == timeline.SourceScene:
		return &CompileError{
			Field:   fmt.Sprintf("segments.%s.duration", id),
			Message: "scene segments must declare a duration",
			Pos:     v.Pos(),
		}
	}

	var content []byte
	if contentVal := v.LookupPath(cue.ParsePath("content")); contentVal.Exists() {
		content, err = contentVal.MarshalJSON()
		if err != nil {
			return formatCUEError(err)
		}
	}

	animations, err := parseAnimations(id, v)
	if err != nil {
		return err
	}

	doc.Entries = append(doc.Entries, timeline.Entry{
		SegmentID: id,
		StartTime: start,
		Duration:  duration,
	})

	if source == timeline.SourceClip {
		meta, err := parseClipMetadata(id, v)
		if err != nil {
			return err
		}
		doc.Clips = append(doc.Clips, ClipSpec{
			SegmentID:  id,
			StartTime:  start,
			Duration:   duration,
			Meta:       meta,
			Content:    content,
			Animations: animations,
		})
		return nil
	}

	doc.Scenes = append(doc.Scenes, timeline.Segment{
		ID:         id,
		StartTime:  start,
		Duration:   duration,
		Source:     timeline.SourceScene,
		Content:    content,
		Animations: animations,
	})
	return nil
}

func parseClipMetadata(id string, v cue.Value) (timeline.ClipMetadata, error) {
	var meta timeline.ClipMetadata
	metaVal := v.LookupPath(cue.ParsePath("metadata"))
	if !metaVal.Exists() {
		meta.Complexity = timeline.ComplexityModerate
		return meta, nil
	}

	intField := func(name string, dst *int) error {
		f := metaVal.LookupPath(cue.ParsePath(name))
		if !f.Exists() {
			return nil
		}
		val, err := f.Int64()
		if err != nil {
			return formatCUEError(err)
		}
		*dst = int(val)
		return nil
	}
	if err := intField("scene_count", &meta.SceneCount); err != nil {
		return meta, err
	}
	if err := intField("object_count", &meta.ObjectCount); err != nil {
		return meta, err
	}
	if err := intField("animation_count", &meta.AnimationCount); err != nil {
		return meta, err
	}

	if f := metaVal.LookupPath(cue.ParsePath("render_time")); f.Exists() {
		val, err := f.Float64()
		if err != nil {
			return meta, formatCUEError(err)
		}
		meta.RenderTimeSeconds = val
	}

	meta.Complexity = timeline.ComplexityModerate
	if c := metaVal.LookupPath(cue.ParsePath("complexity")); c.Exists() {
		val, err := c.String()
		if err != nil {
			return meta, formatCUEError(err)
		}
		meta.Complexity = timeline.Complexity(val)
	}

	return meta, nil
}

func parseAnimations(segID string, v cue.Value) ([]timeline.Animation, error) {
	animsVal := v.LookupPath(cue.ParsePath("animations"))
	if !animsVal.Exists() {
		return nil, nil
	}

	iter, err := animsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var anims []timeline.Animation
	for iter.Next() {
		anim, err := parseAnimation(segID, iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		anims = append(anims, anim)
	}

	sort.Slice(anims, func(i, j int) bool { return anims[i].ID < anims[j].ID })
	return anims, nil
}

func parseAnimation(segID, label string, v cue.Value) (timeline.Animation, error) {
	anim := timeline.Animation{
		ID:       segID + "/" + label,
		TargetID: segID,
		Easing:   timeline.EasingLinear,
	}

	propVal := v.LookupPath(cue.ParsePath("property"))
	if !propVal.Exists() {
		return anim, &CompileError{
			Field:   fmt.Sprintf("segments.%s.animations.%s.property", segID, label),
			Message: "animation property is required",
			Pos:     v.Pos(),
		}
	}
	prop, err := propVal.String()
	if err != nil {
		return anim, formatCUEError(err)
	}
	anim.Property = prop

	if t := v.LookupPath(cue.ParsePath("target")); t.Exists() {
		target, err := t.String()
		if err != nil {
			return anim, formatCUEError(err)
		}
		anim.TargetID = target
	}

	durVal := v.LookupPath(cue.ParsePath("duration"))
	if !durVal.Exists() {
		return anim, &CompileError{
			Field:   fmt.Sprintf("segments.%s.animations.%s.duration", segID, label),
			Message: "animation duration is required",
			Pos:     v.Pos(),
		}
	}
	anim.Duration, err = durVal.Float64()
	if err != nil {
		return anim, formatCUEError(err)
	}

	if e := v.LookupPath(cue.ParsePath("easing")); e.Exists() {
		easing, err := e.String()
		if err != nil {
			return anim, formatCUEError(err)
		}
		anim.Easing = timeline.Easing(easing)
	}

	kfsVal := v.LookupPath(cue.ParsePath("keyframes"))
	if kfsVal.Exists() {
		kfIter, err := kfsVal.List()
		if err != nil {
			return anim, formatCUEError(err)
		}
		for kfIter.Next() {
			kf, err := parseKeyframe(segID, label, kfIter.Value())
			if err != nil {
				return anim, err
			}
			anim.Keyframes = append(anim.Keyframes, kf)
		}
	}

	return anim, nil
}

func parseKeyframe(segID, label string, v cue.Value) (timeline.Keyframe, error) {
	var kf timeline.Keyframe

	timeVal := v.LookupPath(cue.ParsePath("time"))
	if !timeVal.Exists() {
		return kf, &CompileError{
			Field:   fmt.Sprintf("segments.%s.animations.%s.keyframes", segID, label),
			Message: "keyframe time is required",
			Pos:     v.Pos(),
		}
	}
	t, err := timeVal.Float64()
	if err != nil {
		return kf, formatCUEError(err)
	}
	kf.Time = t

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if !valueVal.Exists() {
		return kf, &CompileError{
			Field:   fmt.Sprintf("segments.%s.animations.%s.keyframes", segID, label),
			Message: "keyframe value is required",
			Pos:     v.Pos(),
		}
	}
	kf.Value, err = parseValue(valueVal)
	if err != nil {
		return kf, err
	}

	return kf, nil
}

// parseValue converts a CUE value into an animatable value: a number, a
// string, or a flat struct of numbers and strings.
func parseValue(v cue.Value) (timeline.Value, error) {
	switch v.Kind() {
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return timeline.Scalar(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return timeline.Text(s), nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		record := timeline.Record{}
		for iter.Next() {
			inner, err := parseValue(iter.Value())
			if err != nil {
				return nil, err
			}
			if _, nested := inner.(timeline.Record); nested {
				return nil, &CompileError{
					Field:   "value",
					Message: "record values must be flat",
					Pos:     iter.Value().Pos(),
				}
			}
			record[iter.Selector().Unquoted()] = inner
		}
		return record, nil
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported value kind %v, must be number, string, or struct", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
