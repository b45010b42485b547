// SPDX-License-Identifier: MIT

// Package event defines the detector-side input of track reconstruction:
// hits, the planar modules that own them, and the event that groups both.
//
// What
//
//   - Hit: an immutable measurement with a dense integer ID, a 3D position
//     (gonum spatial/r3), the index of its owning module and an optional
//     ground-truth track label (NoTrack when unlabeled).
//   - Module: a detector plane at a scalar position Z along the detection
//     axis, owning an ordered list of hits.
//   - Event: modules in ascending Z plus the flat list of every hit.
//
// Modules are globally ordered and adjacency exists only between consecutive
// modules; segment construction relies on that ordering, so Validate checks it.
//
// Events are normally produced by an external generator. New and AddHit
// exist so callers (and tests) can assemble small events by hand:
//
//	ev := event.New(0, 1, 2)
//	h, err := ev.AddHit(0, r3.Vec{X: 0, Y: 0, Z: 0}, 7)
//
// Errors
//
//   - ErrNilEvent          nil *Event passed to a consumer.
//   - ErrModuleOutOfRange  AddHit referenced a module that does not exist.
//   - ErrModulesUnordered  module positions are not strictly increasing.
//   - ErrUnknownHit        a module hit is missing from the flat hit list.
//   - ErrAxisOutOfRange    Coord called with an axis outside 0..2.
package event
