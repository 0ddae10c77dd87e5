// Package compiler turns CUE timeline documents into the engine's model.
//
// A document is a single `timeline` struct declaring the playback rate,
// engine configuration, and segments. Procedural scene segments compile
// directly into segments; clip segments compile into clip specs that the
// importer completes once descriptors are fetched. Compilation reports the
// first structural error with its source position; Validate then runs the
// static checks that need the whole document and reports every finding.
package compiler
