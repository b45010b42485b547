// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Algorithms return these sentinels (optionally wrapped with an operation
// tag) and tests match them via errors.Is. User-triggered conditions never
// panic; MulVecTo follows gonum's convention and panics on shape misuse.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested dimension is negative.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand dimensions.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrFrozen indicates a write to a builder that has already been frozen.
	ErrFrozen = errors.New("matrix: builder is frozen")

	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrAsymmetry signals that a matrix expected to be symmetric is not,
	// within the configured epsilon.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")
)

// Operation tags for error wrapping.
const (
	opSet       = "COO.Set"
	opSetSym    = "COO.SetSym"
	opNewCOO    = "NewCOO"
	opMulVec    = "MulVec"
	opQuadratic = "Quadratic"
	opSymmetric = "ValidateSymmetric"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
