// SPDX-License-Identifier: MIT

// Package matrix provides sparse square matrices for assembling and solving
// pairwise cost models.
//
// The package follows a mutate-then-freeze discipline:
//
//   - COO is a coordinate-format (triplet) builder. Entries are written with
//     Set/SetSym in any order; a repeated (i,j) overwrites the earlier value
//     (last write wins). Writing never re-compacts storage.
//   - Freeze converts the builder once into CSC, an immutable compressed
//     sparse column matrix. After Freeze the builder rejects writes with
//     ErrFrozen, so the frozen matrix can be shared without copying.
//
// CSC satisfies gonum's mat.Matrix (Dims, At, T) and adds MulVecTo, which
// lets iterative solvers use it without ever densifying. Quadratic computes
// xᵀAx directly over the stored entries.
//
// Numeric policy
//
// By default Set rejects NaN and ±Inf with ErrNaNInf (WithNoValidateNaNInf
// relaxes this). Symmetry checks use an absolute tolerance (WithEpsilon,
// DefaultEpsilon).
//
// Complexity (n = dimension, z = stored entries)
//
//   - COO.Set:     O(1) expected
//   - Freeze:      O(n + z log z)
//   - CSC.At:      O(log z_j) for column j
//   - MulVecTo:    O(n + z)
//   - Quadratic:   O(z)
//
// Errors
//
//   - ErrBadShape           negative dimension.
//   - ErrOutOfRange         index outside [0,n).
//   - ErrDimensionMismatch  vector length differs from the dimension.
//   - ErrNaNInf             non-finite value under validation.
//   - ErrFrozen             write after Freeze.
//   - ErrNilMatrix          nil receiver or argument.
//   - ErrAsymmetry          ValidateSymmetric found |a_ij − a_ji| > eps.
package matrix
