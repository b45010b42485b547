// SPDX-License-Identifier: MIT

package segment

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/trackhhl/event"
)

// Segment is a directed edge between a hit in module Gap and a hit in
// module Gap+1.
type Segment struct {
	// ID is dense and unique within one Build call.
	ID int

	// From is the hit in the upstream module.
	From event.Hit

	// To is the hit in the downstream module.
	To event.Hit

	// Gap is the index of the upstream module; the segment spans Gap→Gap+1.
	Gap int
}

// Direction returns the unit vector pointing from From to To.
func (s Segment) Direction() r3.Vec {
	return r3.Unit(r3.Sub(s.To.Pos, s.From.Pos))
}

// Cosine returns the cosine of the angle between s and o, i.e. the dot
// product of their unit directions.
func (s Segment) Cosine(o Segment) float64 {
	return r3.Dot(s.Direction(), o.Direction())
}

// Chains reports whether o continues s, i.e. s ends on the hit o starts from.
func (s Segment) Chains(o Segment) bool {
	return s.To.ID == o.From.ID
}

// Touches reports whether s and o are joined end-to-start in either order.
// This is the adjacency used when merging active segments into tracks.
func (s Segment) Touches(o Segment) bool {
	return s.From.ID == o.To.ID || o.From.ID == s.To.ID
}

// String implements fmt.Stringer.
func (s Segment) String() string {
	return fmt.Sprintf("seg#%d(%d→%d)", s.ID, s.From.ID, s.To.ID)
}

// Set is the output of one Build call. All lists every segment in ID order;
// Grouped holds the same segments split by module gap, so Grouped[g]
// contains the segments spanning module g→g+1.
type Set struct {
	All     []Segment
	Grouped [][]Segment
}

// Len returns the total number of segments.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.All)
}

// GroupSizes returns the number of segments in each gap.
func (s *Set) GroupSizes() []int {
	if s == nil {
		return nil
	}
	sizes := make([]int, len(s.Grouped))
	for i, g := range s.Grouped {
		sizes[i] = len(g)
	}

	return sizes
}
