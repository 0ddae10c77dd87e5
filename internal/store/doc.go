// Package store provides SQLite-backed caching and run history for the
// planning pipeline.
//
// Two tables:
//   - descriptors: the clip service's reports, cached so repeated plans of
//     the same document do not refetch over HTTP
//   - runs: one row per plan invocation (run id, synchronized flag, conflict
//     counts, plan hash)
//
// The pure planning core never touches this package; caching and history are
// caller-side concerns wired in by the CLI.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
