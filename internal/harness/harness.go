package harness

import (
	"fmt"
	"sort"

	"framesync/internal/animate"
	"framesync/internal/compiler"
	"framesync/internal/compose"
	"framesync/internal/engine"
	"framesync/internal/importer"
	"framesync/internal/timecode"
	"framesync/internal/timeline"
)

// Result captures one scenario execution end to end.
type Result struct {
	Document *compiler.Document
	Issues   []importer.Issue
	Sync     engine.Result
	Layers   []timeline.LayerComposition
	Probes   []ProbeResult
}

// ProbeResult is the answer to every plan query at one time.
type ProbeResult struct {
	At         float64
	Frame      int
	Active     []string
	Next       string
	Previous   string
	Animations []AnimationSample
}

// AnimationSample is one animation's interpolated value at a probe time.
type AnimationSample struct {
	AnimationID string
	Property    string
	Value       timeline.Value
}

// Run executes a scenario through the full pipeline: compile the document,
// run static validation, import clips from the stub descriptors, synchronize,
// compose layers, and evaluate every probe.
//
// Import issues do not fail the run; they are part of the result, and a
// dropped clip shows up as a gap conflict exactly as it would in production.
func Run(scenario *Scenario) (*Result, error) {
	doc, err := compiler.CompileFile(scenario.Document)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	if verrs := compiler.Validate(doc); len(verrs) > 0 {
		return nil, fmt.Errorf("scenario %s: document invalid: %w", scenario.Name, verrs[0])
	}

	clipSegs, issues := importer.Import(doc.Requests(), scenario.DescriptorMap())

	segments := make([]timeline.Segment, 0, len(doc.Scenes)+len(clipSegs))
	for _, scene := range doc.Scenes {
		segments = append(segments, timeline.CloneSegment(scene))
	}
	segments = append(segments, clipSegs...)

	syncResult := engine.Synchronize(doc.Entries, segments, doc.Config)
	layers := compose.Plan(syncResult.Adjusted, doc.Config)

	result := &Result{
		Document: doc,
		Issues:   issues,
		Sync:     syncResult,
		Layers:   layers,
	}
	for _, at := range scenario.Probes {
		result.Probes = append(result.Probes, Probe(doc, syncResult, at))
	}

	return result, nil
}

// Probe evaluates the sync point queries and every in-window animation at
// one time.
func Probe(doc *compiler.Document, syncResult engine.Result, at float64) ProbeResult {
	tracker := engine.NewTracker(syncResult.Points)

	pr := ProbeResult{
		At:    at,
		Frame: timecode.ToFrame(at, doc.FPS),
	}
	for _, point := range tracker.Active(at) {
		pr.Active = append(pr.Active, point.ID)
	}
	if next, ok := tracker.Next(at); ok {
		pr.Next = next.ID
	}
	if prev, ok := tracker.Previous(at); ok {
		pr.Previous = prev.ID
	}

	// Animation clocks are relative to the owning segment, and a segment's
	// animations only play while the segment is on screen.
	for _, seg := range syncResult.Adjusted {
		if at < seg.StartTime || at >= seg.End() {
			continue
		}
		local := at - seg.StartTime
		for _, anim := range seg.Animations {
			value, ok := animate.Evaluate(anim, local)
			if !ok {
				continue
			}
			pr.Animations = append(pr.Animations, AnimationSample{
				AnimationID: anim.ID,
				Property:    anim.Property,
				Value:       value,
			})
		}
	}
	sort.Slice(pr.Animations, func(i, j int) bool {
		return pr.Animations[i].AnimationID < pr.Animations[j].AnimationID
	})

	return pr
}
