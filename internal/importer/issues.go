package importer

import "fmt"

// IssueSeverity separates unrecoverable defects from auto-fixed ones.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// IssueCode categorizes import issues.
type IssueCode string

const (
	// CodeMissingDescriptor indicates no descriptor was supplied for a
	// requested segment.
	CodeMissingDescriptor IssueCode = "MISSING_DESCRIPTOR"

	// CodeNotReady indicates the clip service has not finished rendering.
	// Retryable by the caller.
	CodeNotReady IssueCode = "NOT_READY"

	// CodeMissingPath indicates an empty asset file path.
	CodeMissingPath IssueCode = "MISSING_PATH"

	// CodeBadFormat indicates a container format outside mp4/webm/mov.
	CodeBadFormat IssueCode = "BAD_FORMAT"

	// CodeBadDuration indicates a non-positive duration that could not be
	// auto-fixed because the descriptor was broken in other ways too.
	CodeBadDuration IssueCode = "BAD_DURATION"

	// CodeBadResolution indicates non-positive dimensions that could not be
	// auto-fixed.
	CodeBadResolution IssueCode = "BAD_RESOLUTION"

	// CodeFixedDuration indicates the default duration was substituted.
	CodeFixedDuration IssueCode = "FIXED_DURATION"

	// CodeFixedResolution indicates the default resolution was substituted.
	CodeFixedResolution IssueCode = "FIXED_RESOLUTION"
)

// Issue reports one import defect for one segment. Issues are values, not
// errors: a warning accompanies a successfully imported segment.
type Issue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      IssueCode     `json:"code"`
	SegmentID string        `json:"segment_id"`
	Message   string        `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s [%s]: %s", i.Severity, i.Code, i.SegmentID, i.Message)
}

// IsError reports whether the issue is unrecoverable for its segment.
func (i Issue) IsError() bool { return i.Severity == SeverityError }

// Errors filters a batch's issues down to the unrecoverable ones.
func Errors(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.IsError() {
			out = append(out, i)
		}
	}
	return out
}

// Warnings filters a batch's issues down to the auto-fixed ones.
func Warnings(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if !i.IsError() {
			out = append(out, i)
		}
	}
	return out
}

func errorIssue(segID string, code IssueCode, format string, args ...any) Issue {
	return Issue{
		Severity:  SeverityError,
		Code:      code,
		SegmentID: segID,
		Message:   fmt.Sprintf(format, args...),
	}
}

func warningIssue(segID string, code IssueCode, format string, args ...any) Issue {
	return Issue{
		Severity:  SeverityWarning,
		Code:      code,
		SegmentID: segID,
		Message:   fmt.Sprintf(format, args...),
	}
}
