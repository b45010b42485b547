// SPDX-License-Identifier: MIT

// Package solver solves symmetric linear systems A·x = b with the conjugate
// gradient method, over any operator that can multiply a vector.
//
// What
//
//   - CG runs unpreconditioned conjugate gradient from x0 = 0 (or a supplied
//     initial guess) until ‖r‖ < max(absTol, relTol·‖b‖) or the iteration cap
//     is reached.
//   - Defaults: relTol = 1e-5, absTol = 0 (no absolute floor), cap = 10·n.
//   - The result always carries the final iterate, the iteration count, the
//     residual norm and whether the stopping rule was met.
//
// Convergence is reported, never swallowed
//
// When the cap is reached, or the search direction has zero curvature
// (pᵀAp == 0 or non-finite), CG returns the best-effort Result together with
// an error wrapping ErrNotConverged. The vector is still usable; callers
// decide whether an unconverged relaxation is good enough:
//
//	res, err := solver.CG(A, b)
//	if errors.Is(err, solver.ErrNotConverged) {
//	    log.Warn("relaxation did not converge", "residual", res.Residual)
//	} else if err != nil {
//	    return err
//	}
//
// Cancellation
//
// CG itself never blocks on anything but arithmetic. WithContext installs a
// context that is checked once per iteration; cancellation returns the
// current iterate and the context error.
//
// Complexity: O(k·(n + z)) time for k iterations over a sparse operator with
// z stored entries, O(n) extra memory.
package solver
