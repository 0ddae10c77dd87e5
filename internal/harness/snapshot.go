package harness

import (
	"framesync/internal/engine"
	"framesync/internal/importer"
	"framesync/internal/timeline"
)

// PlanMap converts a synchronization result and its layer plan into plain
// maps for canonical JSON serialization. Everything derived (conflict IDs,
// layer IDs, point IDs) is content-addressed, so the serialized form is
// byte-identical across runs of the same inputs.
func PlanMap(sync engine.Result, layers []timeline.LayerComposition) map[string]any {
	segs := make([]any, len(sync.Adjusted))
	for i, seg := range sync.Adjusted {
		segs[i] = segmentMap(seg)
	}

	conflicts := make([]any, len(sync.Conflicts))
	for i, c := range sync.Conflicts {
		conflicts[i] = map[string]any{
			"id":                   c.ID,
			"type":                 string(c.Type),
			"segment_ids":          c.SegmentIDs,
			"severity":             string(c.Severity),
			"suggested_resolution": c.SuggestedResolution,
		}
	}

	points := make([]any, len(sync.Points))
	for i, p := range sync.Points {
		pm := map[string]any{
			"id":        p.ID,
			"timestamp": p.Timestamp,
			"event":     p.Event,
			"sources":   p.Sources,
		}
		if len(p.Properties) > 0 {
			pm["properties"] = p.Properties
		}
		points[i] = pm
	}

	layerList := make([]any, len(layers))
	for i, l := range layers {
		layerList[i] = map[string]any{
			"id":          l.ID,
			"segment_id":  l.SegmentID,
			"layer_index": l.LayerIndex,
			"source":      string(l.Source),
			"blend_mode":  string(l.BlendMode),
			"opacity":     l.Opacity,
			"start_time":  l.StartTime,
			"duration":    l.Duration,
		}
	}

	m := map[string]any{
		"synchronized": sync.Synchronized,
		"segments":     segs,
		"conflicts":    conflicts,
		"sync_points":  points,
		"layers":       layerList,
	}
	if sync.Quality != (timeline.QualityHints{}) {
		quality := map[string]any{}
		if sync.Quality.Width > 0 {
			quality["width"] = sync.Quality.Width
		}
		if sync.Quality.Height > 0 {
			quality["height"] = sync.Quality.Height
		}
		if sync.Quality.Scaling != "" {
			quality["scaling"] = sync.Quality.Scaling
		}
		if sync.Quality.Interpolation != "" {
			quality["interpolation"] = sync.Quality.Interpolation
		}
		m["quality"] = quality
	}
	return m
}

// MarshalPlan serializes a plan to canonical JSON.
func MarshalPlan(sync engine.Result, layers []timeline.LayerComposition) ([]byte, error) {
	return timeline.MarshalCanonical(PlanMap(sync, layers))
}

// PlanDigest computes the content hash recorded in the run log.
func PlanDigest(sync engine.Result, layers []timeline.LayerComposition) (string, error) {
	canonical, err := MarshalPlan(sync, layers)
	if err != nil {
		return "", err
	}
	return timeline.PlanHash(canonical), nil
}

func segmentMap(seg timeline.Segment) map[string]any {
	m := map[string]any{
		"id":         seg.ID,
		"start_time": seg.StartTime,
		"duration":   seg.Duration,
		"source":     string(seg.Source),
	}
	if len(seg.Content) > 0 {
		m["content"] = string(seg.Content)
	}
	if seg.Clip != nil {
		m["clip"] = map[string]any{
			"file_path":  seg.Clip.Asset.FilePath,
			"duration":   seg.Clip.Asset.Duration,
			"width":      seg.Clip.Asset.Width,
			"height":     seg.Clip.Asset.Height,
			"format":     string(seg.Clip.Asset.Format),
			"complexity": string(seg.Clip.Meta.Complexity),
		}
	}
	if len(seg.Animations) > 0 {
		anims := make([]any, len(seg.Animations))
		for i, a := range seg.Animations {
			anims[i] = map[string]any{
				"id":       a.ID,
				"property": a.Property,
				"duration": a.Duration,
				"easing":   string(a.Easing),
			}
		}
		m["animations"] = anims
	}
	return m
}

// snapshotMap builds the full golden snapshot for one scenario run: the plan
// plus import issues and probe answers.
func snapshotMap(name string, result *Result) map[string]any {
	m := PlanMap(result.Sync, result.Layers)
	m["scenario_name"] = name
	m["fps"] = result.Document.FPS

	if len(result.Issues) > 0 {
		issues := make([]any, len(result.Issues))
		for i, issue := range result.Issues {
			issues[i] = issueMap(issue)
		}
		m["issues"] = issues
	}

	if len(result.Probes) > 0 {
		probes := make([]any, len(result.Probes))
		for i, p := range result.Probes {
			probes[i] = probeMap(p)
		}
		m["probes"] = probes
	}

	return m
}

func issueMap(issue importer.Issue) map[string]any {
	return map[string]any{
		"severity":   string(issue.Severity),
		"code":       string(issue.Code),
		"segment_id": issue.SegmentID,
		"message":    issue.Message,
	}
}

func probeMap(p ProbeResult) map[string]any {
	m := map[string]any{
		"at":    p.At,
		"frame": p.Frame,
	}
	if len(p.Active) > 0 {
		m["active"] = p.Active
	}
	if p.Next != "" {
		m["next"] = p.Next
	}
	if p.Previous != "" {
		m["previous"] = p.Previous
	}
	if len(p.Animations) > 0 {
		samples := make([]any, len(p.Animations))
		for i, s := range p.Animations {
			samples[i] = map[string]any{
				"animation_id": s.AnimationID,
				"property":     s.Property,
				"value":        s.Value,
			}
		}
		m["animations"] = samples
	}
	return m
}
