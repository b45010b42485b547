// SPDX-License-Identifier: MIT

package tracks

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/trackhhl/event"
	"github.com/katalvlaran/trackhhl/segment"
)

// Active returns, in ascending order, the indices i with x[i] above the
// cutoff chosen by the configured Threshold (AboveMinimum by default).
// Complexity: O(n).
func Active(x []float64, opts ...Option) []int {
	o := gatherOptions(opts...)

	return active(x, o.threshold)
}

func active(x []float64, th Threshold) []int {
	cut := th(x)
	var idx []int
	for i, v := range x {
		if v > cut {
			idx = append(idx, i)
		}
	}

	return idx
}

// chainer holds the mutable state of one extraction: the fixed segment
// array, the live pool and the hit → segment indices of active segments.
type chainer struct {
	segs    []segment.Segment
	live    *roaring.Bitmap
	byEnd   map[int][]uint32 // hit ID → active segments ending on it
	byStart map[int][]uint32 // hit ID → active segments starting from it
}

func newChainer(segs []segment.Segment, activeIdx []int) *chainer {
	c := &chainer{
		segs:    segs,
		live:    roaring.New(),
		byEnd:   make(map[int][]uint32, len(activeIdx)),
		byStart: make(map[int][]uint32, len(activeIdx)),
	}
	for _, i := range activeIdx {
		s := segs[i]
		u := uint32(i)
		c.live.Add(u)
		c.byEnd[s.To.ID] = append(c.byEnd[s.To.ID], u)
		c.byStart[s.From.ID] = append(c.byStart[s.From.ID], u)
	}

	return c
}

// neighbors appends to dst the live segments joined end-to-start with s.
func (c *chainer) neighbors(dst []uint32, s segment.Segment) []uint32 {
	for _, j := range c.byEnd[s.From.ID] {
		if c.live.Contains(j) {
			dst = append(dst, j)
		}
	}
	for _, j := range c.byStart[s.To.ID] {
		if c.live.Contains(j) {
			dst = append(dst, j)
		}
	}

	return dst
}

// next pops one chain off the pool and returns its hit IDs, ascending.
// The seed is the highest live index; candidates are consumed only if
// they are still live when popped.
func (c *chainer) next() []int {
	seed := c.live.Maximum()
	c.live.Remove(seed)

	seen := make(map[int]struct{})
	var ids []int
	add := func(s segment.Segment) {
		for _, id := range [2]int{s.From.ID, s.To.ID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	s := c.segs[seed]
	add(s)
	stack := c.neighbors(nil, s)
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !c.live.CheckedRemove(j) {
			continue // already consumed through another path
		}
		s = c.segs[j]
		add(s)
		stack = c.neighbors(stack, s)
	}
	sort.Ints(ids)

	return ids
}

// Extract selects the active segments of x, merges them into chains over
// shared hits and resolves each chain into a Track.
//
// Stage 1 (Validate): ev non-nil, len(x) == len(segs).
// Stage 2 (Select): threshold x into the live pool.
// Stage 3 (Chain): flood-fill chains until the pool is empty.
// Stage 4 (Materialize): resolve hit IDs, first match wins; unresolved IDs
// are counted and logged, empty chains skipped. Tracks are indexed
// sequentially in extraction order.
func Extract(segs []segment.Segment, x []float64, ev *event.Event, opts ...Option) (*Result, error) {
	if ev == nil {
		return nil, fmt.Errorf("Extract: %w", event.ErrNilEvent)
	}
	if len(x) != len(segs) {
		return nil, fmt.Errorf("Extract: len(x)=%d, segments=%d: %w", len(x), len(segs), ErrLengthMismatch)
	}
	o := gatherOptions(opts...)

	activeIdx := active(x, o.threshold)
	res := &Result{Tracks: []Track{}, Active: len(activeIdx)}
	if len(activeIdx) == 0 {
		o.logger.Debug("no active segments", "segments", len(segs))

		return res, nil
	}

	c := newChainer(segs, activeIdx)
	var chains [][]int
	for !c.live.IsEmpty() {
		chains = append(chains, c.next())
	}

	index := ev.Index()
	for _, ids := range chains {
		hits := make([]event.Hit, 0, len(ids))
		for _, id := range ids {
			h, ok := index[id]
			if !ok {
				res.Dropped++

				continue
			}
			hits = append(hits, h)
		}
		if len(hits) == 0 {
			continue
		}
		res.Tracks = append(res.Tracks, Track{
			Index:      len(res.Tracks),
			Hits:       hits,
			Confidence: DefaultConfidence,
		})
	}

	if res.Dropped > 0 {
		o.logger.Warn("hit ids not found in event; dropped from tracks",
			"dropped", res.Dropped,
			"chains", len(chains),
		)
	}
	o.logger.Debug("tracks extracted",
		"segments", len(segs),
		"active", res.Active,
		"chains", len(chains),
		"tracks", len(res.Tracks),
	)

	return res, nil
}
