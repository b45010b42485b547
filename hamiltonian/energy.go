// SPDX-License-Identifier: MIT

package hamiltonian

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/trackhhl/matrix"
	"github.com/katalvlaran/trackhhl/solver"
)

// Solve relaxes the model to A·x = b and solves it by conjugate gradient.
// On non-convergence the best-effort result is returned together with an
// error wrapping solver.ErrNotConverged, and a warning is logged.
// Errors: ErrUninitialized before Assemble, plus solver errors.
func (h *Hamiltonian) Solve(opts ...solver.Option) (*solver.Result, error) {
	if !h.assembled {
		return nil, ErrUninitialized
	}
	res, err := solver.CG(h.a, h.b, opts...)
	switch {
	case errors.Is(err, solver.ErrNotConverged):
		h.log.Warn("classical relaxation did not converge",
			"reason", res.Reason.String(),
			"iterations", res.Iterations,
			"residual", res.Residual,
			"tolerance", res.Tolerance,
		)

		return res, fmt.Errorf("Solve: %w", err)
	case err != nil:
		return res, fmt.Errorf("Solve: %w", err)
	}
	h.log.Debug("classical relaxation converged",
		"iterations", res.Iterations,
		"residual", res.Residual,
	)

	return res, nil
}

// Evaluate returns the energy −½·xᵀAx + b·x of a candidate x, continuous or
// discretized. The zero vector always evaluates to 0.
// Errors: ErrUninitialized, matrix.ErrDimensionMismatch.
// Complexity: O(n + z).
func (h *Hamiltonian) Evaluate(x []float64) (float64, error) {
	if !h.assembled {
		return 0, ErrUninitialized
	}
	q, err := matrix.Quadratic(h.a, x)
	if err != nil {
		return 0, fmt.Errorf("Evaluate: %w", err)
	}

	return -0.5*q + floats.Dot(h.b, x), nil
}

// EvaluateColumns evaluates every column of an n×k matrix as a separate
// candidate and returns the k energies. A single column vector (for example
// a *mat.VecDense) yields one energy, the same value Evaluate returns for
// its data.
// Errors: ErrUninitialized, matrix.ErrDimensionMismatch.
// Complexity: O(k·(n + z)).
func (h *Hamiltonian) EvaluateColumns(x mat.Matrix) ([]float64, error) {
	if !h.assembled {
		return nil, ErrUninitialized
	}
	r, k := x.Dims()
	if r != len(h.b) {
		return nil, fmt.Errorf("EvaluateColumns: %d rows, model has %d: %w",
			r, len(h.b), matrix.ErrDimensionMismatch)
	}
	energies := make([]float64, k)
	col := make([]float64, r)
	for j := 0; j < k; j++ {
		mat.Col(col, j, x)
		e, err := h.Evaluate(col)
		if err != nil {
			return nil, fmt.Errorf("EvaluateColumns: column %d: %w", j, err)
		}
		energies[j] = e
	}

	return energies, nil
}
