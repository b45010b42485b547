// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for CG execution.
var (
	// ErrNotConverged is returned (wrapped) together with a best-effort
	// Result when the stopping rule was not met.
	ErrNotConverged = errors.New("solver: conjugate gradient did not converge")

	// ErrDimensionMismatch indicates a non-square operator or a right-hand
	// side / initial guess of the wrong length.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")

	// ErrNilOperator indicates a nil operator.
	ErrNilOperator = errors.New("solver: operator is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("solver: invalid option supplied")
)

// Defaults mirror the classical relaxation this package was written for:
// no absolute floor and a relative tolerance of 1e-5.
const (
	DefaultRelTol = 1e-5
	DefaultAbsTol = 0.0

	// DefaultMaxIterFactor sets the iteration cap to factor·n when
	// WithMaxIterations is not used.
	DefaultMaxIterFactor = 10
)

// Operator is a square linear operator. *matrix.CSC satisfies it; any gonum
// matrix can be adapted with FromMatrix.
type Operator interface {
	Dims() (r, c int)
	MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector)
}

// denseOperator adapts a gonum mat.Matrix to Operator.
type denseOperator struct {
	a mat.Matrix
}

func (d denseOperator) Dims() (r, c int) { return d.a.Dims() }

func (d denseOperator) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	if trans {
		dst.MulVec(d.a.T(), x)

		return
	}
	dst.MulVec(d.a, x)
}

// FromMatrix wraps any gonum matrix as an Operator.
func FromMatrix(a mat.Matrix) Operator {
	return denseOperator{a: a}
}

// StopReason explains why CG stopped.
type StopReason int

const (
	// StopConverged means ‖r‖ fell below the tolerance.
	StopConverged StopReason = iota
	// StopMaxIterations means the iteration cap was reached first.
	StopMaxIterations
	// StopBreakdown means a search direction had zero or non-finite curvature.
	StopBreakdown
	// StopCancelled means the context was done.
	StopCancelled
)

// String implements fmt.Stringer.
func (s StopReason) String() string {
	switch s {
	case StopConverged:
		return "converged"
	case StopMaxIterations:
		return "max-iterations"
	case StopBreakdown:
		return "breakdown"
	case StopCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("StopReason(%d)", int(s))
	}
}

// Result holds the outcome of a CG run.
type Result struct {
	// X is the final iterate, length n.
	X []float64

	// Iterations is the number of completed CG steps.
	Iterations int

	// Residual is ‖b − A·x‖ as tracked by the recurrence.
	Residual float64

	// Tolerance is the effective stopping threshold max(absTol, relTol·‖b‖).
	Tolerance float64

	// Converged reports whether Residual < Tolerance was reached.
	Converged bool

	// Reason explains why the iteration stopped.
	Reason StopReason
}

// Option configures CG via functional arguments. Invalid values are
// recorded and surfaced as ErrOptionViolation when CG runs.
type Option func(*Options)

// Options holds CG parameters.
type Options struct {
	Ctx     context.Context
	RelTol  float64
	AbsTol  float64
	MaxIter int       // 0 means DefaultMaxIterFactor·n
	X0      []float64 // nil means the zero vector

	err error
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Ctx:    context.Background(),
		RelTol: DefaultRelTol,
		AbsTol: DefaultAbsTol,
	}
}

// WithContext sets a context checked once per iteration.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithTolerance sets the relative and absolute residual tolerances.
// Both must be finite and non-negative.
func WithTolerance(rel, abs float64) Option {
	return func(o *Options) {
		if !(rel >= 0) || !(abs >= 0) || math.IsInf(rel, 0) || math.IsInf(abs, 0) {
			o.err = fmt.Errorf("%w: tolerances must be finite and non-negative (rel=%g, abs=%g)",
				ErrOptionViolation, rel, abs)

			return
		}
		o.RelTol, o.AbsTol = rel, abs
	}
}

// WithMaxIterations caps the number of iterations.
//
//	k > 0: cap at k
//	k == 0: default cap (10·n)
//	k < 0: invalid option → ErrOptionViolation
func WithMaxIterations(k int) Option {
	return func(o *Options) {
		if k < 0 {
			o.err = fmt.Errorf("%w: MaxIter cannot be negative (%d)", ErrOptionViolation, k)

			return
		}
		o.MaxIter = k
	}
}

// WithInitialGuess starts the iteration from x0 instead of zero. The slice
// is copied when CG runs.
func WithInitialGuess(x0 []float64) Option {
	return func(o *Options) { o.X0 = x0 }
}
