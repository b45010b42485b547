// SPDX-License-Identifier: MIT

// Package segment builds candidate track segments: directed edges from a hit
// in module i to a hit in module i+1.
//
// For every consecutive module pair the builder emits the full cross product
// of (from, to) hits. No edge skips a module and no self-loop is produced.
// Segment IDs are dense and sequential over one Build call; the counter is
// owned by the Builder and reset at the start of each call, so independent
// reconstructions never share ID state.
//
// Complexity
//
// The number of segments is Σ_i |hits_i|·|hits_{i+1}|. This product is the
// combinatorial bottleneck of the whole reconstruction: it sizes the
// Hamiltonian and every later stage. Count reports it without building, so
// callers can refuse events that are too dense before paying for them.
//
// Geometry
//
// Direction returns the unit vector from the start hit to the end hit, and
// Cosine is the dot product of two directions. A segment whose endpoints
// coincide has no direction (NaN components). Validate only orders modules
// by Z, so two hits at the same position in consecutive modules do produce
// one; the Hamiltonian never couples such a segment.
package segment
