// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Single source of truth for shape and symmetry checks.
//  - Return sentinel errors so call sites can wrap uniformly.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateVecLen ensures x is non-nil with exactly n elements. A nil slice
// is accepted only when n == 0.
// Complexity: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil && n != 0 {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSymmetric checks that m is square and that every stored a_ij has
// a matching a_ji within m's epsilon. Unstored positions count as zero, so
// a one-sided entry larger than eps is an asymmetry.
// Complexity: O(z log z_j).
func ValidateSymmetric(m *CSC) error {
	if m == nil {
		return validatorErrorf(opSymmetric, ErrNilMatrix)
	}
	if m.r != m.c {
		return validatorErrorf(opSymmetric, ErrDimensionMismatch)
	}
	for j := 0; j < m.c; j++ {
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			i := m.rowIdx[p]
			if i == j {
				continue
			}
			if math.Abs(m.vals[p]-m.At(j, i)) > m.eps {
				return fmt.Errorf("%s: (%d,%d): %w", opSymmetric, i, j, ErrAsymmetry)
			}
		}
	}

	return nil
}
