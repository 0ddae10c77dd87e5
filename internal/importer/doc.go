// Package importer normalizes externally rendered clip descriptors into the
// engine's segment model.
//
// The importer draws a hard line between two defect classes. Unrecoverable
// defects (unknown container format, missing file path, or a descriptor
// broken in more than one dimension) produce per-segment error issues and
// drop that segment without aborting the rest of the batch. A single invalid
// duration or resolution is auto-fixed with engine defaults and reported as
// a warning, so the caller can always tell "cannot proceed" apart from
// "proceeded with a guess".
package importer
