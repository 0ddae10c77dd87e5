// Package harness runs end-to-end planning scenarios from YAML files.
//
// A scenario names a CUE timeline document, supplies stub clip descriptors
// so no network is involved, and lists probe times. Running it exercises the
// whole pipeline: compile, validate, import, synchronize, compose, and probe
// queries. Snapshots of the resulting plan serialize to canonical JSON and
// compare against golden files, so any behavior change in the pipeline shows
// up as a golden diff.
package harness
