// SPDX-License-Identifier: MIT

package trackhhl

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/trackhhl/hamiltonian"
	"github.com/katalvlaran/trackhhl/solver"
	"github.com/katalvlaran/trackhhl/tracks"
)

// ErrInvalidConfig is returned by Config.Validate and Reconstruct.
var ErrInvalidConfig = errors.New("trackhhl: invalid config")

// Defaults used by DefaultConfig.
const (
	DefaultEpsilon = 1e-2
	DefaultReward  = 1.0
	DefaultBias    = 1.0
)

// Config groups the parameters of one reconstruction.
type Config struct {
	// Epsilon is the angular tolerance of the compatibility test (> 0).
	Epsilon float64

	// Reward and Bias shape the diagonal −(reward+bias) and the bias vector.
	Reward float64
	Bias   float64

	// SmoothingWidth is the erf width used in Smoothed mode (> 0).
	SmoothingWidth float64

	// Mode selects Hard or Smoothed coupling weights.
	Mode hamiltonian.Mode

	// RelTol, AbsTol and MaxIter configure conjugate gradient; MaxIter 0
	// means the solver default.
	RelTol  float64
	AbsTol  float64
	MaxIter int

	// Threshold picks the activation cutoff; nil means tracks.AboveMinimum.
	Threshold tracks.Threshold
}

// DefaultConfig returns a hard-mode configuration with documented defaults.
func DefaultConfig() Config {
	return Config{
		Epsilon:        DefaultEpsilon,
		Reward:         DefaultReward,
		Bias:           DefaultBias,
		SmoothingWidth: hamiltonian.DefaultSmoothingWidth,
		Mode:           hamiltonian.Hard,
		RelTol:         solver.DefaultRelTol,
		AbsTol:         solver.DefaultAbsTol,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !(c.Epsilon > 0) || math.IsInf(c.Epsilon, 0):
		return fmt.Errorf("%w: Epsilon must be positive and finite (%g)", ErrInvalidConfig, c.Epsilon)
	case !finite(c.Reward):
		return fmt.Errorf("%w: Reward must be finite (%g)", ErrInvalidConfig, c.Reward)
	case !finite(c.Bias):
		return fmt.Errorf("%w: Bias must be finite (%g)", ErrInvalidConfig, c.Bias)
	case !(c.SmoothingWidth > 0) || math.IsInf(c.SmoothingWidth, 0):
		return fmt.Errorf("%w: SmoothingWidth must be positive and finite (%g)", ErrInvalidConfig, c.SmoothingWidth)
	case c.Mode != hamiltonian.Hard && c.Mode != hamiltonian.Smoothed:
		return fmt.Errorf("%w: unknown %s", ErrInvalidConfig, c.Mode)
	case !(c.RelTol >= 0) || !(c.AbsTol >= 0) || math.IsInf(c.RelTol, 0) || math.IsInf(c.AbsTol, 0):
		return fmt.Errorf("%w: tolerances must be finite and non-negative (rel=%g, abs=%g)",
			ErrInvalidConfig, c.RelTol, c.AbsTol)
	case c.MaxIter < 0:
		return fmt.Errorf("%w: MaxIter cannot be negative (%d)", ErrInvalidConfig, c.MaxIter)
	}

	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
