// SPDX-License-Identifier: MIT

// Package trackhhl reconstructs particle tracks from detector hits by casting
// track finding as a pairwise quadratic optimization over candidate
// hit-to-hit segments.
//
// Pipeline
//
//	event/       — hits grouped into detector modules ordered along z
//	segment/     — candidate segments between hits of adjacent modules
//	matrix/      — COO builder frozen into an immutable CSC sparse matrix
//	hamiltonian/ — cost model (A, b) in Hard or Smoothed mode, energy
//	solver/      — conjugate gradient on A·x = b with a stop report
//	tracks/      — active-set selection and flood-fill chaining into tracks
//
// Reconstruct runs the stages in order with one Config:
//
//	cfg := trackhhl.DefaultConfig()
//	rep, err := trackhhl.Reconstruct(ctx, ev, cfg)
//	for _, tr := range rep.Tracks { ... }
//
// A solve that stops before reaching its tolerance still produces tracks;
// the returned error then wraps solver.ErrNotConverged and the report
// carries the best-effort solution.
//
// Logging goes through log/slog (WithLogger); every line of one run is
// tagged with its run_id.
package trackhhl
