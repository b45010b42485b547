// SPDX-License-Identifier: MIT

// Package hamiltonian assembles the pairwise cost model of track finding and
// evaluates candidate solutions against it.
//
// Model
//
// For n candidate segments the model is a symmetric n×n matrix A and a bias
// vector b. Assembly starts from A = −(reward+bias)·I and b = bias·1, then
// visits every pair (s, t) from consecutive gaps where s ends on the hit t
// starts from, and writes a symmetric coupling from the cosine between them:
//
//   - Hard:     coupling 1 when |cos − 1| < ε, nothing otherwise.
//   - Smoothed: coupling 1 + erf((ε − |arccos(cos)|) / (w·√2)). The weight
//     is not clamped and may leave [0, 2]; w is the smoothing width.
//
// The matrix is negated before it is cached and returned, so the public
// (A, b) pair is the final cost model: diagonal reward+bias, couplings
// negative. Chains of near-collinear, hit-sharing segments lower the energy
//
//	E(x) = −½·xᵀAx + b·x
//
// while isolated activation is penalized. Solve relaxes the binary problem
// to the linear system A·x = b.
//
// Memoization
//
// A Hamiltonian memoizes its segments and the assembled model. Assembling
// twice without Reset returns identical segments and an identical matrix.
// Segments are only rebuilt by ConstructSegments or after Reset: assembling
// for a different event without Reset reuses the stale segments (a warning
// is logged), so callers reconstructing many events must Reset in between.
//
// A Hamiltonian is not safe for concurrent use.
//
// Errors
//
//   - ErrInvalidParameter  bad epsilon, weights or option values.
//   - ErrUninitialized     Solve, Evaluate or Model before Assemble.
//   - matrix.ErrDimensionMismatch  candidate vector of the wrong length.
package hamiltonian
