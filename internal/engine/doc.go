// Package engine implements timeline synchronization: conflict detection
// over placed segments, deterministic best-effort resolution, and
// synchronization point derivation and queries.
//
// Every function here is a pure function of its explicit inputs. There is no
// shared mutable state, no I/O, and no ambient time source, so independent
// workers evaluating the same inputs produce byte-identical results. Caller
// segments are never mutated; resolution returns adjusted copies.
package engine
