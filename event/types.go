// SPDX-License-Identifier: MIT

package event

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sentinel errors for event construction and validation.
var (
	// ErrNilEvent indicates that a nil *Event was supplied.
	ErrNilEvent = errors.New("event: event is nil")

	// ErrModuleOutOfRange indicates a module index outside [0, len(Modules)).
	ErrModuleOutOfRange = errors.New("event: module index out of range")

	// ErrModulesUnordered indicates module positions are not strictly increasing.
	ErrModulesUnordered = errors.New("event: modules are not ordered by position")

	// ErrUnknownHit indicates a module references a hit absent from the flat list.
	ErrUnknownHit = errors.New("event: module hit missing from event hit list")

	// ErrAxisOutOfRange indicates a coordinate axis outside 0..2.
	ErrAxisOutOfRange = errors.New("event: axis out of range")
)

// NoTrack is the TrackID of a hit without a ground-truth label (noise).
const NoTrack = -1

// Axis indices accepted by Hit.Coord.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// Hit is a single detector measurement. It is treated as immutable once
// added to an Event.
type Hit struct {
	// ID identifies the hit within its event.
	ID int

	// Pos is the measured position.
	Pos r3.Vec

	// Module is the index of the owning module.
	Module int

	// TrackID is the ground-truth track label, or NoTrack.
	TrackID int
}

// Coord returns the coordinate of h along axis (AxisX, AxisY or AxisZ).
func (h Hit) Coord(axis int) (float64, error) {
	switch axis {
	case AxisX:
		return h.Pos.X, nil
	case AxisY:
		return h.Pos.Y, nil
	case AxisZ:
		return h.Pos.Z, nil
	default:
		return 0, fmt.Errorf("Hit.Coord(%d): %w", axis, ErrAxisOutOfRange)
	}
}

// String implements fmt.Stringer for debugging.
func (h Hit) String() string {
	return fmt.Sprintf("hit#%d@m%d(%g,%g,%g)", h.ID, h.Module, h.Pos.X, h.Pos.Y, h.Pos.Z)
}

// Module is a detector plane at position Z owning an ordered hit list.
type Module struct {
	Index int
	Z     float64
	Hits  []Hit
}

// Event groups the ordered modules of one collision with the flat hit list.
type Event struct {
	Modules []Module
	Hits    []Hit
}
