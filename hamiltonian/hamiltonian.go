// SPDX-License-Identifier: MIT

package hamiltonian

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/trackhhl/event"
	"github.com/katalvlaran/trackhhl/matrix"
	"github.com/katalvlaran/trackhhl/segment"
)

// Hamiltonian holds the model parameters and the memoized segments and
// assembled (A, b) of one event.
type Hamiltonian struct {
	epsilon float64 // angular tolerance ε
	reward  float64 // self-usage reward
	bias    float64 // bias weight
	width   float64 // erf smoothing width
	log     *slog.Logger

	builder *segment.Builder

	// memoized state, cleared by Reset
	source    *event.Event
	segments  *segment.Set
	a         *matrix.CSC
	b         []float64
	mode      Mode
	couplings int
	assembled bool
}

// New returns a Hamiltonian with angular tolerance epsilon (finite, > 0),
// self-usage reward and bias weight (finite).
func New(epsilon, reward, bias float64, opts ...Option) (*Hamiltonian, error) {
	if !(epsilon > 0) || math.IsInf(epsilon, 0) {
		return nil, fmt.Errorf("%w: epsilon must be finite and > 0 (got %g)", ErrInvalidParameter, epsilon)
	}
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return nil, fmt.Errorf("%w: reward must be finite (got %g)", ErrInvalidParameter, reward)
	}
	if math.IsNaN(bias) || math.IsInf(bias, 0) {
		return nil, fmt.Errorf("%w: bias must be finite (got %g)", ErrInvalidParameter, bias)
	}
	o := options{width: DefaultSmoothingWidth, logger: discardLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.err != nil {
		return nil, o.err
	}

	return &Hamiltonian{
		epsilon: epsilon,
		reward:  reward,
		bias:    bias,
		width:   o.width,
		log:     o.logger,
		builder: segment.NewBuilder(),
	}, nil
}

// Epsilon returns the angular tolerance.
func (h *Hamiltonian) Epsilon() float64 { return h.epsilon }

// SmoothingWidth returns the erf width used in Smoothed mode.
func (h *Hamiltonian) SmoothingWidth() float64 { return h.width }

// Reset drops the memoized segments and model. The next Assemble rebuilds
// everything from its event.
func (h *Hamiltonian) Reset() {
	h.source = nil
	h.segments = nil
	h.a = nil
	h.b = nil
	h.couplings = 0
	h.assembled = false
}

// ConstructSegments builds and memoizes the segments of ev, replacing any
// previous segments and invalidating the assembled model.
// Complexity: O(Σ |hits_g|·|hits_{g+1}|).
func (h *Hamiltonian) ConstructSegments(ev *event.Event) error {
	set, err := h.builder.Build(ev)
	if err != nil {
		return fmt.Errorf("ConstructSegments: %w", err)
	}
	h.Reset()
	h.source = ev
	h.segments = set
	h.log.Debug("segments constructed",
		"modules", len(ev.Modules),
		"hits", len(ev.Hits),
		"segments", set.Len(),
		"groups", len(set.Grouped),
	)

	return nil
}

// Segments returns the memoized segments in ID order, or nil before
// construction. The slice must not be modified.
func (h *Hamiltonian) Segments() []segment.Segment {
	if h.segments == nil {
		return nil
	}

	return h.segments.All
}

// SegmentSet returns the memoized segment set, or nil before construction.
func (h *Hamiltonian) SegmentSet() *segment.Set { return h.segments }

// Couplings returns the number of symmetric off-diagonal pairs written by
// the last assembly.
func (h *Hamiltonian) Couplings() int { return h.couplings }

// Assemble builds (A, b) for ev in the given mode and memoizes them.
//
// Stage 1 (Prepare): construct segments if none are memoized; if segments
// exist for another event they are reused as-is and a warning is logged.
// Stage 2 (Memo): a model already assembled in the same mode is returned
// unchanged.
// Stage 3 (Execute): diagonal −(reward+bias), bias vector, then couplings
// between chainable segments of consecutive gaps, written symmetrically
// into a triplet builder.
// Stage 4 (Finalize): freeze, negate, cache.
//
// The returned matrix and slice are shared with the Hamiltonian and must
// not be modified.
// Complexity: O(S + Σ_g |G_g| + P) for S segments and P chainable pairs.
func (h *Hamiltonian) Assemble(ev *event.Event, mode Mode) (*matrix.CSC, []float64, error) {
	if mode != Hard && mode != Smoothed {
		return nil, nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidParameter, int(mode))
	}
	if h.segments == nil {
		if err := h.ConstructSegments(ev); err != nil {
			return nil, nil, fmt.Errorf("Assemble: %w", err)
		}
	} else if ev != h.source {
		h.log.Warn("reusing segments from a previous event; call Reset before assembling a new event",
			"segments", h.segments.Len())
	}
	if h.assembled && h.mode == mode {
		return h.a, h.b, nil
	}

	n := h.segments.Len()
	coo, err := matrix.NewCOO(n)
	if err != nil {
		return nil, nil, fmt.Errorf("Assemble: %w", err)
	}
	diag := -(h.bias + h.reward)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		if err = coo.Set(i, i, diag); err != nil {
			return nil, nil, fmt.Errorf("Assemble: %w", err)
		}
		b[i] = h.bias
	}

	couplings := 0
	grouped := h.segments.Grouped
	for g := 0; g+1 < len(grouped); g++ {
		next := startsAt(grouped[g+1])
		for _, s := range grouped[g] {
			for _, t := range next[s.To.ID] {
				w, ok := h.weight(s.Cosine(t), mode)
				if !ok {
					continue
				}
				if err = coo.SetSym(s.ID, t.ID, w); err != nil {
					return nil, nil, fmt.Errorf("Assemble: pair (%d,%d): %w", s.ID, t.ID, err)
				}
				couplings++
			}
		}
	}

	h.a = coo.Freeze().Scale(-1)
	h.b = b
	h.mode = mode
	h.couplings = couplings
	h.assembled = true
	h.log.Debug("hamiltonian assembled",
		"mode", mode.String(),
		"segments", n,
		"couplings", couplings,
		"nnz", h.a.NNZ(),
	)

	return h.a, h.b, nil
}

// Model returns the memoized (A, b) and segments.
// Errors: ErrUninitialized before Assemble.
func (h *Hamiltonian) Model() (*matrix.CSC, []float64, []segment.Segment, error) {
	if !h.assembled {
		return nil, nil, nil, ErrUninitialized
	}

	return h.a, h.b, h.segments.All, nil
}

// Mode returns the mode of the memoized model.
// Errors: ErrUninitialized before Assemble.
func (h *Hamiltonian) Mode() (Mode, error) {
	if !h.assembled {
		return Hard, ErrUninitialized
	}

	return h.mode, nil
}

// weight maps a cosine to a coupling value; ok is false when no coupling
// is written. A non-finite cosine (a zero-length segment) never couples.
func (h *Hamiltonian) weight(cosine float64, mode Mode) (float64, bool) {
	if math.IsNaN(cosine) || math.IsInf(cosine, 0) {
		return 0, false
	}
	if mode == Hard {
		if math.Abs(cosine-1) < h.epsilon {
			return 1, true
		}

		return 0, false
	}

	return SmoothedWeight(cosine, h.epsilon, h.width), true
}

// SmoothedWeight returns 1 + erf((epsilon − |arccos(cosine)|)/(width·√2)).
// The cosine is clamped to [−1, 1] first so that rounding just outside the
// domain of arccos yields 0 or π rather than NaN. The result is not clamped.
func SmoothedWeight(cosine, epsilon, width float64) float64 {
	c := math.Max(-1, math.Min(1, cosine))

	return 1 + math.Erf((epsilon-math.Abs(math.Acos(c)))/(width*math.Sqrt2))
}

// startsAt indexes a gap's segments by the ID of their start hit.
func startsAt(group []segment.Segment) map[int][]segment.Segment {
	idx := make(map[int][]segment.Segment)
	for _, t := range group {
		idx[t.From.ID] = append(idx[t.From.ID], t)
	}

	return idx
}
