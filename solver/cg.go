// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CG solves A·x = b by conjugate gradient.
//
// Stage 1 (Validate): operator present and square, options valid, len(b)
// and len(x0) equal n.
// Stage 2 (Prepare): x = x0, r = b − A·x, tol = max(absTol, relTol·‖b‖).
// A zero right-hand side returns x = 0 immediately, converged.
// Stage 3 (Execute): standard CG recurrence; the residual is tested before
// every step, so Iterations counts completed updates.
// Stage 4 (Finalize): a Result is returned in every non-validation path;
// when the stopping rule was not met the error wraps ErrNotConverged (or the
// context error on cancellation).
//
// Complexity: O(k·(n + z)) time, O(n) memory.
func CG(a Operator, b []float64, opts ...Option) (*Result, error) {
	if a == nil {
		return nil, ErrNilOperator
	}
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.err != nil {
		return nil, o.err
	}

	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("CG: operator %dx%d: %w", r, c, ErrDimensionMismatch)
	}
	n := r
	if len(b) != n {
		return nil, fmt.Errorf("CG: len(b)=%d, n=%d: %w", len(b), n, ErrDimensionMismatch)
	}
	if o.X0 != nil && len(o.X0) != n {
		return nil, fmt.Errorf("CG: len(x0)=%d, n=%d: %w", len(o.X0), n, ErrDimensionMismatch)
	}
	if n == 0 {
		// gonum vectors cannot be empty; the trivial system is solved.
		return &Result{X: []float64{}, Converged: true, Reason: StopConverged}, nil
	}

	maxIter := o.MaxIter
	if maxIter == 0 {
		maxIter = DefaultMaxIterFactor * n
	}

	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return &Result{X: make([]float64, n), Converged: true, Reason: StopConverged}, nil
	}
	tol := math.Max(o.AbsTol, o.RelTol*bnorm)

	x := mat.NewVecDense(n, nil)
	if o.X0 != nil {
		copy(x.RawVector().Data, o.X0)
	}
	bv := mat.NewVecDense(n, append([]float64(nil), b...))

	// r = b − A·x
	res := mat.NewVecDense(n, nil)
	a.MulVecTo(res, false, x)
	res.SubVec(bv, res)

	p := mat.NewVecDense(n, nil)
	q := mat.NewVecDense(n, nil)

	out := &Result{Tolerance: tol, Reason: StopMaxIterations}
	var rhoPrev float64
	for k := 0; k < maxIter; k++ {
		rnorm := math.Sqrt(mat.Dot(res, res))
		out.Residual = rnorm
		if rnorm < tol {
			out.Converged = true
			out.Reason = StopConverged

			break
		}
		if err := o.Ctx.Err(); err != nil {
			out.Reason = StopCancelled
			out.X = x.RawVector().Data

			return out, fmt.Errorf("CG: iteration %d: %w", k, err)
		}

		rho := rnorm * rnorm
		if k == 0 {
			p.CopyVec(res)
		} else {
			p.ScaleVec(rho/rhoPrev, p)
			p.AddVec(p, res)
		}

		a.MulVecTo(q, false, p)
		curvature := mat.Dot(p, q)
		if curvature == 0 || math.IsNaN(curvature) || math.IsInf(curvature, 0) {
			out.Reason = StopBreakdown

			break
		}
		alpha := rho / curvature
		x.AddScaledVec(x, alpha, p)
		res.AddScaledVec(res, -alpha, q)
		rhoPrev = rho
		out.Iterations = k + 1
	}

	if !out.Converged && out.Reason == StopMaxIterations {
		// The loop may exit on the cap right after a final update.
		out.Residual = math.Sqrt(mat.Dot(res, res))
		if out.Residual < tol {
			out.Converged = true
			out.Reason = StopConverged
		}
	}
	out.X = x.RawVector().Data
	if !out.Converged {
		return out, fmt.Errorf("CG: %s after %d iterations (residual %g, tol %g): %w",
			out.Reason, out.Iterations, out.Residual, tol, ErrNotConverged)
	}

	return out, nil
}
