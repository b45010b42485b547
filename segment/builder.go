// SPDX-License-Identifier: MIT

package segment

import (
	"github.com/katalvlaran/trackhhl/event"
)

// Builder turns per-module hit lists into segments. It owns the ID counter;
// a Builder is not safe for concurrent use, but distinct Builders are fully
// independent.
type Builder struct {
	next int // next segment ID; reset by Build
}

// NewBuilder returns a Builder with a fresh ID counter.
func NewBuilder() *Builder {
	return &Builder{}
}

// Count returns the number of segments Build would emit for ev without
// allocating any of them.
// Complexity: O(M).
func Count(ev *event.Event) int {
	if ev == nil {
		return 0
	}
	total := 0
	for i := 0; i+1 < len(ev.Modules); i++ {
		total += len(ev.Modules[i].Hits) * len(ev.Modules[i+1].Hits)
	}

	return total
}

// Build emits the cross product of hits for every consecutive module pair.
//
// Stage 1 (Validate): ev must be non-nil.
// Stage 2 (Prepare): reset the ID counter and size the backing slice exactly.
// Stage 3 (Execute): for each gap g, for each from-hit, for each to-hit,
// append one segment with the next ID. Grouped[g] is a view into All, so
// no segment is stored twice.
//
// Events with fewer than two modules yield an empty Set.
// Complexity: O(Σ |hits_g|·|hits_{g+1}|) time and memory.
func (b *Builder) Build(ev *event.Event) (*Set, error) {
	if ev == nil {
		return nil, event.ErrNilEvent
	}
	b.next = 0

	gaps := len(ev.Modules) - 1
	if gaps < 1 {
		return &Set{All: []Segment{}, Grouped: [][]Segment{}}, nil
	}

	all := make([]Segment, 0, Count(ev))
	grouped := make([][]Segment, gaps)
	for g := 0; g < gaps; g++ {
		start := len(all)
		from := ev.Modules[g].Hits
		to := ev.Modules[g+1].Hits
		for _, fh := range from {
			for _, th := range to {
				all = append(all, Segment{ID: b.next, From: fh, To: th, Gap: g})
				b.next++
			}
		}
		grouped[g] = all[start:len(all):len(all)]
	}

	return &Set{All: all, Grouped: grouped}, nil
}
