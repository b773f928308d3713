// Package plate implements the geometric reasoning that turns traced image
// contours into plausible license-plate regions: filtering character-sized
// contours, grouping mutually similar ones, removing nested duplicates and
// computing the oriented region a character group occupies.
package plate

import (
	"github.com/arsenicprojects/police-plate-gate/pkg/geometry"
)

// Candidate is one traced contour interpreted as a possible character.
// Its bounding box and area are supplied by the contour tracer and cached
// at construction; they are never recomputed or mutated afterward.
type Candidate struct {
	Points []geometry.PointInt
	Box    geometry.RectInt
	Area   float64
}

// NewCandidate creates a candidate from a traced contour. The bounding box
// and area come from the tracer so they match what the contour pass measured.
func NewCandidate(points []geometry.PointInt, box geometry.RectInt, area float64) *Candidate {
	return &Candidate{Points: points, Box: box, Area: area}
}

// Group is an ordered set of candidates hypothesized to be the characters
// of one plate, sorted left to right by bounding box x.
type Group []*Candidate

// Leftmost returns the first candidate of the sorted group.
func (g Group) Leftmost() *Candidate {
	return g[0]
}

// Rightmost returns the last candidate of the sorted group.
func (g Group) Rightmost() *Candidate {
	return g[len(g)-1]
}
