// SPDX-License-Identifier: MIT

package event

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// New creates an Event with one empty module per position in zs, indexed in
// the given order. Positions are not sorted; Validate reports disorder.
func New(zs ...float64) *Event {
	ev := &Event{Modules: make([]Module, len(zs))}
	for i, z := range zs {
		ev.Modules[i] = Module{Index: i, Z: z}
	}

	return ev
}

// AddHit appends a hit at pos to module m, assigning the next dense hit ID
// (the current length of the flat hit list). The hit is recorded both in the
// module and in ev.Hits.
// Complexity: O(1) amortized.
func (ev *Event) AddHit(m int, pos r3.Vec, trackID int) (Hit, error) {
	if ev == nil {
		return Hit{}, ErrNilEvent
	}
	if m < 0 || m >= len(ev.Modules) {
		return Hit{}, fmt.Errorf("AddHit(%d): %w", m, ErrModuleOutOfRange)
	}
	h := Hit{ID: len(ev.Hits), Pos: pos, Module: m, TrackID: trackID}
	ev.Modules[m].Hits = append(ev.Modules[m].Hits, h)
	ev.Hits = append(ev.Hits, h)

	return h, nil
}

// HitCount returns the number of hits in the flat list.
func (ev *Event) HitCount() int {
	if ev == nil {
		return 0
	}

	return len(ev.Hits)
}

// Validate checks that module positions strictly increase and that every
// module hit is present in the flat hit list.
// Complexity: O(M + H).
func (ev *Event) Validate() error {
	if ev == nil {
		return ErrNilEvent
	}
	for i := 1; i < len(ev.Modules); i++ {
		if !(ev.Modules[i].Z > ev.Modules[i-1].Z) {
			return fmt.Errorf("Validate: module %d (z=%g) after z=%g: %w",
				i, ev.Modules[i].Z, ev.Modules[i-1].Z, ErrModulesUnordered)
		}
	}
	known := make(map[int]struct{}, len(ev.Hits))
	for _, h := range ev.Hits {
		known[h.ID] = struct{}{}
	}
	for _, mod := range ev.Modules {
		for _, h := range mod.Hits {
			if _, ok := known[h.ID]; !ok {
				return fmt.Errorf("Validate: module %d hit %d: %w", mod.Index, h.ID, ErrUnknownHit)
			}
		}
	}

	return nil
}

// Index maps hit IDs to hits from the flat list. When several hits share an
// ID the first one wins, matching a linear first-match lookup.
func (ev *Event) Index() map[int]Hit {
	if ev == nil {
		return nil
	}
	idx := make(map[int]Hit, len(ev.Hits))
	for _, h := range ev.Hits {
		if _, seen := idx[h.ID]; !seen {
			idx[h.ID] = h
		}
	}

	return idx
}

// TrackLabels returns the distinct ground-truth labels present in the event,
// excluding NoTrack, in order of first appearance.
func (ev *Event) TrackLabels() []int {
	if ev == nil {
		return nil
	}
	seen := make(map[int]struct{})
	var labels []int
	for _, h := range ev.Hits {
		if h.TrackID == NoTrack {
			continue
		}
		if _, ok := seen[h.TrackID]; ok {
			continue
		}
		seen[h.TrackID] = struct{}{}
		labels = append(labels, h.TrackID)
	}

	return labels
}
