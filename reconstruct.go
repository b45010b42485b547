// SPDX-License-Identifier: MIT

package trackhhl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/katalvlaran/trackhhl/event"
	"github.com/katalvlaran/trackhhl/hamiltonian"
	"github.com/katalvlaran/trackhhl/solver"
	"github.com/katalvlaran/trackhhl/tracks"
)

// Report summarizes one Reconstruct run.
type Report struct {
	// RunID tags every log line of the run.
	RunID uuid.UUID

	// Segments and Couplings size the assembled model.
	Segments  int
	Couplings int

	// Solve is the conjugate gradient outcome, including the solution X.
	Solve *solver.Result

	// Tracks are the extracted tracks; Dropped counts unresolved hit IDs.
	Tracks  []tracks.Track
	Dropped int

	// Energy is the model energy of the continuous solution.
	Energy float64
}

// Option configures Reconstruct.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the structured logger; nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Reconstruct runs segment building, assembly, relaxation and extraction on
// ev with a fresh model.
//
// Stage 1 (Validate): cfg.Validate, ev non-nil and ev.Validate.
// Stage 2 (Assemble): build segments and (A, b) in cfg.Mode.
// Stage 3 (Solve): conjugate gradient under ctx.
// Stage 4 (Extract): threshold and chain the solution into tracks.
//
// When the solver stops without converging the report is still complete and
// the returned error wraps solver.ErrNotConverged. Cancellation of ctx
// aborts the run with the context error.
func Reconstruct(ctx context.Context, ev *event.Event, cfg Config, opts ...Option) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Reconstruct: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("Reconstruct: %w", event.ErrNilEvent)
	}
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("Reconstruct: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	rep := &Report{RunID: uuid.New()}
	log := o.logger.With("run_id", rep.RunID.String())

	h, err := hamiltonian.New(cfg.Epsilon, cfg.Reward, cfg.Bias,
		hamiltonian.WithSmoothingWidth(cfg.SmoothingWidth),
		hamiltonian.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("Reconstruct: %w", err)
	}
	if _, _, err = h.Assemble(ev, cfg.Mode); err != nil {
		return nil, fmt.Errorf("Reconstruct: %w", err)
	}
	segs := h.Segments()
	rep.Segments, rep.Couplings = len(segs), h.Couplings()
	log.Debug("model assembled",
		"mode", cfg.Mode.String(),
		"hits", ev.HitCount(),
		"segments", rep.Segments,
		"couplings", rep.Couplings,
	)

	res, solveErr := h.Solve(
		solver.WithContext(ctx),
		solver.WithTolerance(cfg.RelTol, cfg.AbsTol),
		solver.WithMaxIterations(cfg.MaxIter),
	)
	if solveErr != nil && !errors.Is(solveErr, solver.ErrNotConverged) {
		return nil, fmt.Errorf("Reconstruct: %w", solveErr)
	}
	rep.Solve = res

	if rep.Energy, err = h.Evaluate(res.X); err != nil {
		return nil, fmt.Errorf("Reconstruct: %w", err)
	}

	found, err := tracks.Extract(segs, res.X, ev,
		tracks.WithThreshold(cfg.Threshold),
		tracks.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("Reconstruct: %w", err)
	}
	rep.Tracks, rep.Dropped = found.Tracks, found.Dropped
	log.Info("reconstruction finished",
		"tracks", len(rep.Tracks),
		"active", found.Active,
		"iterations", res.Iterations,
		"converged", res.Converged,
		"energy", rep.Energy,
	)

	if solveErr != nil {
		return rep, fmt.Errorf("Reconstruct: %w", solveErr)
	}

	return rep, nil
}
