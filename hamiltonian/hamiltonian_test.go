package hamiltonian_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/trackhhl/event"
	"github.com/katalvlaran/trackhhl/hamiltonian"
	"github.com/katalvlaran/trackhhl/matrix"
	"github.com/katalvlaran/trackhhl/solver"
)

// line builds an event with one hit per module at the given positions.
func line(t *testing.T, pts ...r3.Vec) *event.Event {
	t.Helper()
	zs := make([]float64, len(pts))
	for i := range pts {
		zs[i] = float64(i)
	}
	ev := event.New(zs...)
	for m, p := range pts {
		_, err := ev.AddHit(m, p, 0)
		require.NoError(t, err)
	}

	return ev
}

// grid builds an event with counts[m] hits in module m, spread along x.
func grid(t *testing.T, counts ...int) *event.Event {
	t.Helper()
	zs := make([]float64, len(counts))
	for i := range zs {
		zs[i] = float64(i)
	}
	ev := event.New(zs...)
	for m, n := range counts {
		for k := 0; k < n; k++ {
			_, err := ev.AddHit(m, r3.Vec{X: float64(k), Z: float64(m)}, k)
			require.NoError(t, err)
		}
	}

	return ev
}

func mustNew(t *testing.T, eps, reward, bias float64, opts ...hamiltonian.Option) *hamiltonian.Hamiltonian {
	t.Helper()
	h, err := hamiltonian.New(eps, reward, bias, opts...)
	require.NoError(t, err)

	return h
}

func TestNew_Validation(t *testing.T) {
	for name, tc := range map[string]struct {
		eps, reward, bias float64
		opts              []hamiltonian.Option
	}{
		"zero epsilon":     {eps: 0, reward: 1, bias: 1},
		"negative epsilon": {eps: -0.1, reward: 1, bias: 1},
		"nan epsilon":      {eps: math.NaN(), reward: 1, bias: 1},
		"inf reward":       {eps: 0.1, reward: math.Inf(1), bias: 1},
		"nan bias":         {eps: 0.1, reward: 1, bias: math.NaN()},
		"zero width":       {eps: 0.1, reward: 1, bias: 1, opts: []hamiltonian.Option{hamiltonian.WithSmoothingWidth(0)}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := hamiltonian.New(tc.eps, tc.reward, tc.bias, tc.opts...)
			require.ErrorIs(t, err, hamiltonian.ErrInvalidParameter)
		})
	}

	h := mustNew(t, 0.1, 1, 1)
	assert.Equal(t, hamiltonian.DefaultSmoothingWidth, h.SmoothingWidth())
	assert.Equal(t, 0.1, h.Epsilon())
}

func TestUninitialized(t *testing.T) {
	h := mustNew(t, 0.1, 1, 1)

	_, err := h.Solve()
	require.ErrorIs(t, err, hamiltonian.ErrUninitialized)
	_, err = h.Evaluate([]float64{0})
	require.ErrorIs(t, err, hamiltonian.ErrUninitialized)
	_, err = h.EvaluateColumns(mat.NewVecDense(1, nil))
	require.ErrorIs(t, err, hamiltonian.ErrUninitialized)
	_, _, _, err = h.Model()
	require.ErrorIs(t, err, hamiltonian.ErrUninitialized)
	_, err = h.Mode()
	require.ErrorIs(t, err, hamiltonian.ErrUninitialized)
	assert.Nil(t, h.Segments())
}

func TestAssemble_HardModeStructure(t *testing.T) {
	const reward, bias = 0.5, 2.0
	ev := grid(t, 2, 3, 2)
	h := mustNew(t, 0.3, reward, bias)

	A, b, err := h.Assemble(ev, hamiltonian.Hard)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 6}, h.SegmentSet().GroupSizes())
	require.Len(t, h.Segments(), 12)

	n, _ := A.Dims()
	require.Equal(t, 12, n)
	require.NoError(t, matrix.ValidateSymmetric(A))
	for i := 0; i < n; i++ {
		assert.Equal(t, reward+bias, A.At(i, i), "diagonal after negation")
		assert.Equal(t, bias, b[i])
	}

	offDiag := 0
	A.Do(func(i, j int, v float64) {
		if i == j {
			return
		}
		offDiag++
		coupling := -v
		assert.True(t, coupling == 0 || coupling == 1, "hard coupling (%d,%d)=%g", i, j, coupling)
		segs := h.Segments()
		assert.True(t, segs[i].Touches(segs[j]), "coupled segments must share a hit")
	})
	assert.Equal(t, 2*h.Couplings(), offDiag)
	assert.Positive(t, h.Couplings(), "straight x=k lines through the grid are collinear")

	mode, err := h.Mode()
	require.NoError(t, err)
	assert.Equal(t, hamiltonian.Hard, mode)
}

func TestAssemble_Memoized(t *testing.T) {
	ev := grid(t, 2, 2, 2)
	h := mustNew(t, 0.2, 1, 1)

	A1, b1, err := h.Assemble(ev, hamiltonian.Hard)
	require.NoError(t, err)
	segs1 := append(h.Segments()[:0:0], h.Segments()...)
	A2, b2, err := h.Assemble(ev, hamiltonian.Hard)
	require.NoError(t, err)

	assert.Same(t, A1, A2)
	assert.Equal(t, b1, b2)
	if diff := cmp.Diff(segs1, h.Segments()); diff != "" {
		t.Fatalf("segments changed between assemblies (-first +second):\n%s", diff)
	}
}

func TestAssemble_StaleSegmentsWithoutReset(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	h := mustNew(t, 0.1, 1, 1, hamiltonian.WithLogger(logger))

	_, _, err := h.Assemble(grid(t, 1, 1), hamiltonian.Hard)
	require.NoError(t, err)
	require.Len(t, h.Segments(), 1)

	bigger := grid(t, 2, 2)
	_, _, err = h.Assemble(bigger, hamiltonian.Smoothed)
	require.NoError(t, err)
	assert.Len(t, h.Segments(), 1, "segments are memoized until Reset")
	assert.Contains(t, logs.String(), "reusing segments")

	h.Reset()
	_, _, err = h.Assemble(bigger, hamiltonian.Hard)
	require.NoError(t, err)
	assert.Len(t, h.Segments(), 4)
}

func TestAssemble_SmoothedWeights(t *testing.T) {
	const eps, width = 0.2, 0.05
	// Bend of 0.1 rad at the middle hit.
	bend := 0.1
	ev := line(t,
		r3.Vec{Z: 0},
		r3.Vec{Z: 1},
		r3.Vec{X: math.Sin(bend), Z: 1 + math.Cos(bend)},
	)
	h := mustNew(t, eps, 1, 1, hamiltonian.WithSmoothingWidth(width))

	A, _, err := h.Assemble(ev, hamiltonian.Smoothed)
	require.NoError(t, err)
	segs := h.Segments()
	require.Len(t, segs, 2)

	cos := segs[0].Cosine(segs[1])
	want := 1 + math.Erf((eps-math.Abs(math.Acos(cos)))/(width*math.Sqrt2))
	assert.Equal(t, want, -A.At(0, 1))
	assert.Equal(t, want, -A.At(1, 0))
	assert.InDelta(t, 1+math.Erf(0.1/(width*math.Sqrt2)), want, 1e-9)
}

func TestSmoothedWeight_Unclamped(t *testing.T) {
	// Far outside tolerance the weight approaches 0, well inside it approaches 2.
	assert.InDelta(t, 0, hamiltonian.SmoothedWeight(0, 0.1, 1e-4), 1e-12)
	assert.InDelta(t, 2, hamiltonian.SmoothedWeight(1, 0.1, 1e-4), 1e-12)
	// Rounding above 1 must not produce NaN.
	assert.False(t, math.IsNaN(hamiltonian.SmoothedWeight(1+1e-15, 0.1, 1e-4)))
	// A negative epsilon pushes the weight below 0's neighbourhood but never clamps to it.
	w := hamiltonian.SmoothedWeight(1, -0.1, 1)
	assert.Less(t, w, 1.0)
	assert.Greater(t, w, 0.0)
}

func TestAssemble_IncompatibleChainsDoNotCouple(t *testing.T) {
	// A right-angle turn at the middle hit: cosine 0.
	ev := line(t, r3.Vec{Z: 0}, r3.Vec{Z: 1}, r3.Vec{X: 1, Z: 1})
	h := mustNew(t, 0.1, 1, 1)

	A, _, err := h.Assemble(ev, hamiltonian.Hard)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Couplings())
	assert.Equal(t, 2, A.NNZ(), "only the diagonal is stored")
}

func TestAssemble_ZeroLengthSegmentDoesNotCouple(t *testing.T) {
	// The first two hits coincide, so segment 0 has no direction.
	ev := line(t, r3.Vec{Z: 0}, r3.Vec{Z: 0}, r3.Vec{Z: 1})
	for _, mode := range []hamiltonian.Mode{hamiltonian.Hard, hamiltonian.Smoothed} {
		t.Run(mode.String(), func(t *testing.T) {
			h := mustNew(t, 0.1, 1, 1)
			A, _, err := h.Assemble(ev, mode)
			require.NoError(t, err)
			assert.Equal(t, 0, h.Couplings())
			assert.Equal(t, 2, A.NNZ())
		})
	}
}

func TestAssemble_UnknownModeAndNilEvent(t *testing.T) {
	h := mustNew(t, 0.1, 1, 1)
	_, _, err := h.Assemble(grid(t, 1, 1), hamiltonian.Mode(7))
	require.ErrorIs(t, err, hamiltonian.ErrInvalidParameter)

	_, _, err = h.Assemble(nil, hamiltonian.Hard)
	require.ErrorIs(t, err, event.ErrNilEvent)
}

func TestEvaluate(t *testing.T) {
	ev := grid(t, 2, 2, 2)
	h := mustNew(t, 0.2, 1, 0.5)
	A, b, err := h.Assemble(ev, hamiltonian.Hard)
	require.NoError(t, err)
	n := len(b)

	zero, err := h.Evaluate(make([]float64, n))
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i%2) + 0.25
	}
	got, err := h.Evaluate(x)
	require.NoError(t, err)

	xv := mat.NewVecDense(n, x)
	want := -0.5*mat.Inner(xv, A.ToDense(), xv) + mat.Dot(mat.NewVecDense(n, b), xv)
	assert.InDelta(t, want, got, 1e-12)

	cols := mat.NewDense(n, 2, nil)
	cols.SetCol(0, x)
	energies, err := h.EvaluateColumns(cols)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{got, 0}, energies, 1e-12)

	single, err := h.EvaluateColumns(xv)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{got}, single, 1e-12)

	_, err = h.Evaluate(x[:n-1])
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = h.EvaluateColumns(mat.NewDense(n+1, 1, nil))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestSolve_CollinearChain(t *testing.T) {
	ev := line(t, r3.Vec{Z: 0}, r3.Vec{Z: 1}, r3.Vec{Z: 2})
	h := mustNew(t, 0.1, 1, 1)

	A, _, err := h.Assemble(ev, hamiltonian.Hard)
	require.NoError(t, err)
	segs := h.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, 0, segs[0].ID)
	assert.Equal(t, 1, segs[1].ID)
	assert.Equal(t, 1.0, segs[0].Cosine(segs[1]))
	assert.Equal(t, 1.0, -A.At(0, 1))

	res, err := h.Solve()
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDeltaSlice(t, []float64{1, 1}, res.X, 1e-9)
}

func TestSolve_NotConvergedIsReported(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := mustNew(t, 0.5, 1, 1, hamiltonian.WithLogger(logger))
	_, _, err := h.Assemble(grid(t, 3, 3, 3, 3), hamiltonian.Hard)
	require.NoError(t, err)

	res, err := h.Solve(solver.WithMaxIterations(1), solver.WithTolerance(1e-14, 0))
	require.ErrorIs(t, err, solver.ErrNotConverged)
	require.NotNil(t, res)
	assert.False(t, res.Converged)
	assert.Contains(t, logs.String(), "did not converge")
}
