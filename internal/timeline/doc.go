// Package timeline defines the core data model for the synchronization and
// layer composition engine: segments, clip assets, animations, conflicts,
// layer compositions, and synchronization points.
//
// All types here are plain values. The engine never mutates caller-owned
// segments; resolution produces adjusted copies. Derived identities (conflict
// IDs, layer IDs, sync point IDs) are content-addressed hashes over canonical
// JSON, so any two evaluations of the same inputs produce byte-identical
// output regardless of which worker performs them.
package timeline
