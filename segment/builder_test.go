package segment_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/trackhhl/event"
	"github.com/katalvlaran/trackhhl/segment"
)

// buildEvent places counts[i] hits in module i at z=i.
func buildEvent(t *testing.T, counts ...int) *event.Event {
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

func TestBuild_GroupSizes(t *testing.T) {
	ev := buildEvent(t, 2, 3, 2)
	set, err := segment.NewBuilder().Build(ev)
	require.NoError(t, err)

	assert.Equal(t, []int{6, 6}, set.GroupSizes())
	assert.Equal(t, 12, set.Len())
	assert.Equal(t, 12, segment.Count(ev))
	for i, s := range set.All {
		assert.Equal(t, i, s.ID, "ids must be dense and sequential")
		assert.Equal(t, s.From.Module+1, s.To.Module, "segments connect consecutive modules only")
		assert.Equal(t, s.Gap, s.From.Module)
	}
}

func TestBuild_GroupsShareStorage(t *testing.T) {
	set, err := segment.NewBuilder().Build(buildEvent(t, 2, 2, 2))
	require.NoError(t, err)
	require.Len(t, set.Grouped, 2)
	assert.Equal(t, set.All[4], set.Grouped[1][0])
}

func TestBuild_ResetsCounterPerCall(t *testing.T) {
	b := segment.NewBuilder()
	first, err := b.Build(buildEvent(t, 1, 2))
	require.NoError(t, err)
	second, err := b.Build(buildEvent(t, 2, 1))
	require.NoError(t, err)

	assert.Equal(t, 0, first.All[0].ID)
	assert.Equal(t, 0, second.All[0].ID)
	assert.Equal(t, 1, second.All[1].ID)
}

func TestBuild_IndependentBuilders(t *testing.T) {
	ev := buildEvent(t, 2, 2)
	a, err := segment.NewBuilder().Build(ev)
	require.NoError(t, err)
	b, err := segment.NewBuilder().Build(ev)
	require.NoError(t, err)
	assert.Equal(t, a.All, b.All)
}

func TestBuild_Degenerate(t *testing.T) {
	_, err := segment.NewBuilder().Build(nil)
	require.ErrorIs(t, err, event.ErrNilEvent)

	set, err := segment.NewBuilder().Build(buildEvent(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Grouped)

	set, err = segment.NewBuilder().Build(buildEvent(t, 2, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, set.GroupSizes())
}

func TestSegmentGeometry(t *testing.T) {
	a := segment.Segment{
		From: event.Hit{ID: 0, Pos: r3.Vec{Z: 0}},
		To:   event.Hit{ID: 1, Pos: r3.Vec{Z: 1}},
	}
	b := segment.Segment{
		From: event.Hit{ID: 1, Pos: r3.Vec{Z: 1}},
		To:   event.Hit{ID: 2, Pos: r3.Vec{Z: 3}},
	}
	c := segment.Segment{
		From: event.Hit{ID: 1, Pos: r3.Vec{Z: 1}},
		To:   event.Hit{ID: 3, Pos: r3.Vec{X: 1, Z: 1}},
	}

	assert.Equal(t, r3.Vec{Z: 1}, a.Direction())
	assert.InDelta(t, 1.0, a.Cosine(b), 1e-15)
	assert.InDelta(t, 0.0, a.Cosine(c), 1e-15)
	assert.InDelta(t, math.Sqrt2/2, segment.Segment{
		From: event.Hit{Pos: r3.Vec{}},
		To:   event.Hit{Pos: r3.Vec{X: 1, Z: 1}},
	}.Cosine(a), 1e-12)

	assert.True(t, a.Chains(b))
	assert.False(t, b.Chains(a))
	assert.True(t, a.Touches(b))
	assert.True(t, b.Touches(a))
	assert.False(t, b.Touches(c), "sharing only a start hit is not a chain")
}
