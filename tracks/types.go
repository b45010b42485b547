// SPDX-License-Identifier: MIT

package tracks

import (
	"errors"
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/trackhhl/event"
)

// ErrLengthMismatch is returned when the activation vector and the segment
// list differ in length.
var ErrLengthMismatch = errors.New("tracks: solution length does not match segment count")

// DefaultConfidence is the confidence assigned to every extracted track.
const DefaultConfidence = 1.0

// Track is one reconstructed particle track.
type Track struct {
	// Index is the position of the track among the emitted tracks. A chain
	// whose hits all fail to resolve is skipped without consuming an index,
	// so indices stay contiguous.
	Index int

	// Hits are the resolved hits, ordered by hit ID.
	Hits []event.Hit

	// Confidence is constant (DefaultConfidence).
	Confidence float64
}

// HitIDs returns the IDs of the track's hits in order.
func (t Track) HitIDs() []int {
	ids := make([]int, len(t.Hits))
	for i, h := range t.Hits {
		ids[i] = h.ID
	}

	return ids
}

// Result is the outcome of Extract.
type Result struct {
	Tracks []Track

	// Active is the number of segments selected by the threshold.
	Active int

	// Dropped counts hit IDs that could not be resolved against the event.
	Dropped int
}

// Threshold computes the activation cutoff for a solution vector; segments
// with a value strictly greater than the cutoff are active.
type Threshold func(x []float64) float64

// AboveMinimum is the default Threshold: the global minimum of x, so that
// exactly the segments tied at the minimum are excluded.
//
// A flat vector (every value tied) carries no ranking at all. In that case
// a positive common value activates every segment and a non-positive one
// activates none.
func AboveMinimum(x []float64) float64 {
	if len(x) == 0 {
		return math.Inf(1)
	}
	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi && lo > 0 {
		return math.Inf(-1)
	}

	return lo
}

// Fixed returns a Threshold with constant cutoff c.
func Fixed(c float64) Threshold {
	return func([]float64) float64 { return c }
}

// Option configures Extract.
type Option func(*options)

type options struct {
	threshold Threshold
	logger    *slog.Logger
}

// WithThreshold replaces the default AboveMinimum cutoff.
func WithThreshold(t Threshold) Option {
	return func(o *options) {
		if t != nil {
			o.threshold = t
		}
	}
}

// WithLogger sets the structured logger; nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(opts ...Option) options {
	o := options{
		threshold: AboveMinimum,
		logger:    slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
