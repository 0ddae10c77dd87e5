package compiler

import (
	"fmt"
	"strings"

	"framesync/internal/timeline"
)

// Validation error codes (E100-E199)
const (
	ErrEmptyTimeline      = "E100" // no segments declared
	ErrBadFPS             = "E101" // fps must be positive
	ErrNegativeStart      = "E102" // segment start before zero
	ErrBadDuration        = "E103" // non-positive segment duration
	ErrBadAnimDuration    = "E104" // non-positive animation duration
	ErrUnknownEasing      = "E105" // easing name not recognized
	ErrKeyframeOutOfRange = "E106" // keyframe time outside [0, duration]
	ErrUnknownComplexity  = "E107" // clip complexity not recognized
	ErrBadConfig          = "E108" // config value out of range
	ErrDuplicateID        = "E109" // duplicate animation id
)

// ValidationError represents a static check failure in a compiled document.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var validComplexities = map[timeline.Complexity]bool{
	timeline.ComplexitySimple:   true,
	timeline.ComplexityModerate: true,
	timeline.ComplexityComplex:  true,
}

// Validate runs the whole-document static checks on a compiled timeline.
// Returns all errors found (does not fail-fast).
func Validate(doc *Document) []ValidationError {
	var errs []ValidationError

	if doc.FPS <= 0 {
		errs = append(errs, ValidationError{
			Field:   "timeline.fps",
			Message: fmt.Sprintf("fps must be positive, got %v", doc.FPS),
			Code:    ErrBadFPS,
		})
	}

	if len(doc.Entries) == 0 {
		errs = append(errs, ValidationError{
			Field:   "timeline.segments",
			Message: "timeline declares no segments",
			Code:    ErrEmptyTimeline,
		})
	}

	if doc.Config.MaxConcurrentSegments < 1 {
		errs = append(errs, ValidationError{
			Field:   "timeline.config.max_concurrent_segments",
			Message: fmt.Sprintf("must be at least 1, got %d", doc.Config.MaxConcurrentSegments),
			Code:    ErrBadConfig,
		})
	}
	if doc.Config.DefaultTransitionDuration < 0 {
		errs = append(errs, ValidationError{
			Field:   "timeline.config.default_transition_duration",
			Message: fmt.Sprintf("must not be negative, got %v", doc.Config.DefaultTransitionDuration),
			Code:    ErrBadConfig,
		})
	}

	for _, entry := range doc.Entries {
		if entry.StartTime < 0 {
			errs = append(errs, ValidationError{
				Field:   segField(entry.SegmentID, "start"),
				Message: fmt.Sprintf("start time must not be negative, got %v", entry.StartTime),
				Code:    ErrNegativeStart,
			})
		}
	}

	// Scene durations are mandatory; clip durations of zero mean "inherit
	// from the asset", so only explicit negatives are flagged there.
	for _, scene := range doc.Scenes {
		if scene.Duration <= 0 {
			errs = append(errs, ValidationError{
				Field:   segField(scene.ID, "duration"),
				Message: fmt.Sprintf("duration must be positive, got %v", scene.Duration),
				Code:    ErrBadDuration,
			})
		}
		errs = append(errs, validateAnimations(scene.ID, scene.Animations)...)
	}

	animIDs := make(map[string]bool)
	for _, scene := range doc.Scenes {
		errs = append(errs, checkDuplicateAnims(scene.Animations, animIDs)...)
	}

	for _, clip := range doc.Clips {
		if clip.Duration < 0 {
			errs = append(errs, ValidationError{
				Field:   segField(clip.SegmentID, "duration"),
				Message: fmt.Sprintf("duration must not be negative, got %v", clip.Duration),
				Code:    ErrBadDuration,
			})
		}
		if !validComplexities[clip.Meta.Complexity] {
			errs = append(errs, ValidationError{
				Field:   segField(clip.SegmentID, "metadata.complexity"),
				Message: fmt.Sprintf("unknown complexity %q", clip.Meta.Complexity),
				Code:    ErrUnknownComplexity,
			})
		}
		errs = append(errs, validateAnimations(clip.SegmentID, clip.Animations)...)
		errs = append(errs, checkDuplicateAnims(clip.Animations, animIDs)...)
	}

	return errs
}

func validateAnimations(segID string, anims []timeline.Animation) []ValidationError {
	var errs []ValidationError

	for _, anim := range anims {
		field := animField(segID, anim.ID)

		if anim.Duration <= 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".duration",
				Message: fmt.Sprintf("duration must be positive, got %v", anim.Duration),
				Code:    ErrBadAnimDuration,
			})
		}

		if !timeline.ValidEasings[anim.Easing] {
			errs = append(errs, ValidationError{
				Field:   field + ".easing",
				Message: fmt.Sprintf("unknown easing %q", anim.Easing),
				Code:    ErrUnknownEasing,
			})
		}

		for i, kf := range anim.Keyframes {
			if kf.Time < 0 || (anim.Duration > 0 && kf.Time > anim.Duration) {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.keyframes[%d]", field, i),
					Message: fmt.Sprintf("keyframe time %v outside [0, %v]", kf.Time, anim.Duration),
					Code:    ErrKeyframeOutOfRange,
				})
			}
		}
	}

	return errs
}

func checkDuplicateAnims(anims []timeline.Animation, seen map[string]bool) []ValidationError {
	var errs []ValidationError
	for _, anim := range anims {
		if seen[anim.ID] {
			errs = append(errs, ValidationError{
				Field:   "animations",
				Message: fmt.Sprintf("duplicate animation id %q", anim.ID),
				Code:    ErrDuplicateID,
			})
		}
		seen[anim.ID] = true
	}
	return errs
}

func segField(segID, suffix string) string {
	return "timeline.segments." + segID + "." + suffix
}

func animField(segID, animID string) string {
	// Animation IDs are "<segment>/<label>"; strip the segment prefix for
	// the document path.
	label := animID
	if rest, ok := strings.CutPrefix(animID, segID+"/"); ok {
		label = rest
	}
	return segField(segID, "animations."+label)
}
