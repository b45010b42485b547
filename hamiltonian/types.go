// SPDX-License-Identifier: MIT

package hamiltonian

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
)

// Sentinel errors for model assembly and evaluation.
var (
	// ErrUninitialized is returned when the model is used before Assemble.
	ErrUninitialized = errors.New("hamiltonian: not initialised")

	// ErrInvalidParameter is returned for non-finite or out-of-range parameters.
	ErrInvalidParameter = errors.New("hamiltonian: invalid parameter")
)

// DefaultSmoothingWidth is the erf width used in Smoothed mode.
const DefaultSmoothingWidth = 1e-4

// Mode selects how angular compatibility is turned into a coupling weight.
type Mode int

const (
	// Hard writes coupling 1 for near-collinear pairs and nothing otherwise.
	Hard Mode = iota

	// Smoothed writes the erf-smoothed step 1 + erf((ε − |θ|)/(w·√2)).
	Smoothed
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Hard:
		return "hard"
	case Smoothed:
		return "smoothed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Option configures a Hamiltonian. Invalid values are recorded and returned
// by New as ErrInvalidParameter.
type Option func(*options)

type options struct {
	width  float64
	logger *slog.Logger
	err    error
}

// WithSmoothingWidth sets the erf width w used in Smoothed mode (w > 0).
func WithSmoothingWidth(w float64) Option {
	return func(o *options) {
		if !(w > 0) || math.IsInf(w, 0) {
			o.err = fmt.Errorf("%w: smoothing width must be finite and > 0 (got %g)", ErrInvalidParameter, w)

			return
		}
		o.width = w
	}
}

// WithLogger sets the structured logger. A nil logger keeps the default,
// which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// discardLogger returns a logger that drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
