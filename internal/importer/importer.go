package importer

import (
	"framesync/internal/timeline"
)

// Engine defaults substituted during the auto-fix pass. They match what the
// animation service reports for a clip it could not probe.
const (
	DefaultDuration = 10.0
	DefaultWidth    = 1920
	DefaultHeight   = 1080
)

// Descriptor is the remote clip service's report for one rendered clip.
type Descriptor struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	FilePath   string  `json:"file_path"`
	Duration   float64 `json:"duration"`
	Resolution [2]int  `json:"resolution"`
	Error      string  `json:"error,omitempty"`
}

// Clip service status values.
const (
	StatusCompleted  = "completed"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
)

// Request asks for one clip segment to be built from a descriptor plus its
// timeline placement and caller-supplied metadata.
type Request struct {
	SegmentID  string
	StartTime  float64
	Duration   float64 // timeline-assigned; 0 means inherit the clip duration
	Meta       timeline.ClipMetadata
	Content    []byte
	Animations []timeline.Animation
}

// Import normalizes descriptors into clip segments.
//
// Each request resolves independently: a failed segment contributes error
// issues and nothing else, and the rest of the batch proceeds. Warnings
// accompany segments that imported with substituted defaults. The returned
// segments are in request order.
func Import(reqs []Request, descs map[string]Descriptor) ([]timeline.Segment, []Issue) {
	var segments []timeline.Segment
	var issues []Issue

	for _, req := range reqs {
		seg, segIssues := importOne(req, descs)
		issues = append(issues, segIssues...)
		if seg != nil {
			segments = append(segments, *seg)
		}
	}

	return segments, issues
}

func importOne(req Request, descs map[string]Descriptor) (*timeline.Segment, []Issue) {
	desc, ok := descs[req.SegmentID]
	if !ok {
		return nil, []Issue{errorIssue(req.SegmentID, CodeMissingDescriptor,
			"no descriptor supplied for segment")}
	}

	if desc.Status != StatusCompleted {
		msg := "clip service status " + desc.Status
		if desc.Error != "" {
			msg += ": " + desc.Error
		}
		return nil, []Issue{errorIssue(req.SegmentID, CodeNotReady, "%s", msg)}
	}

	var errs []Issue
	format := timeline.FormatFromPath(desc.FilePath)
	switch {
	case desc.FilePath == "":
		errs = append(errs, errorIssue(req.SegmentID, CodeMissingPath, "descriptor has no file path"))
	case format == "":
		errs = append(errs, errorIssue(req.SegmentID, CodeBadFormat,
			"unsupported container format in %q", desc.FilePath))
	}

	duration := desc.Duration
	width, height := desc.Resolution[0], desc.Resolution[1]
	durValid := duration > 0
	resValid := width > 0 && height > 0

	var warns []Issue
	switch {
	case !durValid && !resValid:
		// Broken in both dimensions: too far gone to guess.
		errs = append(errs,
			errorIssue(req.SegmentID, CodeBadDuration, "invalid duration %v", duration),
			errorIssue(req.SegmentID, CodeBadResolution, "invalid resolution %dx%d", width, height))
	case !durValid:
		duration = DefaultDuration
		warns = append(warns, warningIssue(req.SegmentID, CodeFixedDuration,
			"invalid duration %v replaced with default %vs", desc.Duration, DefaultDuration))
	case !resValid:
		width, height = DefaultWidth, DefaultHeight
		warns = append(warns, warningIssue(req.SegmentID, CodeFixedResolution,
			"invalid resolution %dx%d replaced with default %dx%d",
			desc.Resolution[0], desc.Resolution[1], DefaultWidth, DefaultHeight))
	}

	if len(errs) > 0 {
		return nil, errs
	}

	timelineDuration := req.Duration
	if timelineDuration <= 0 {
		timelineDuration = duration
	}

	seg := timeline.Segment{
		ID:        req.SegmentID,
		StartTime: req.StartTime,
		Duration:  timelineDuration,
		Source:    timeline.SourceClip,
		Content:   req.Content,
		Clip: &timeline.Clip{
			Asset: timeline.VideoAsset{
				FilePath: desc.FilePath,
				Duration: duration,
				Width:    width,
				Height:   height,
				Format:   format,
			},
			Meta:              req.Meta,
			IntegrationPoints: defaultIntegrationPoints(req.SegmentID, duration, req.Meta.Complexity),
		},
		Animations: req.Animations,
	}

	return &seg, warns
}

// defaultIntegrationPoints anchors every imported clip at its start and
// end, plus the midpoint for complex clips where mid-roll attachment is
// most likely to matter.
func defaultIntegrationPoints(segID string, duration float64, complexity timeline.Complexity) []timeline.IntegrationPoint {
	points := []timeline.IntegrationPoint{
		{ID: segID + "/start", Timestamp: 0, Type: "start"},
		{ID: segID + "/end", Timestamp: duration, Type: "end"},
	}
	if complexity == timeline.ComplexityComplex {
		points = append(points, timeline.IntegrationPoint{
			ID: segID + "/mid", Timestamp: duration / 2, Type: "midpoint",
		})
	}
	return points
}
