package model

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/spore/pkg/core/geom"
)

// Node is a rectangle taking part in overlap removal or compaction.
//
// C always equals Rect.Center(); both move together through Translate.
// Original is the center recorded at the start of the current pass and is
// only used for stable ordering and lookups; it changes only through
// Graph.RefreshOriginals.
type Node struct {
	ID       int
	Ref      string
	Rect     geom.Rect
	C        geom.Vertex
	Original geom.Vertex
	Inset    float64
}

// Translate moves the node by d.
func (n *Node) Translate(d geom.Vertex) {
	n.Rect = n.Rect.Translate(d)
	n.C = r2.Add(n.C, d)
}

// Underlap returns how far n and o could be pushed together along the line
// joining their centers before their boundaries touch. It is 0 when the two
// already touch or overlap.
func (n *Node) Underlap(o *Node) float64 {
	d := r2.Sub(o.C, n.C)
	dist := r2.Norm(d)
	gx := math.Abs(d.X) - (n.Rect.W+o.Rect.W)/2
	gy := math.Abs(d.Y) - (n.Rect.H+o.Rect.H)/2
	if gx <= geom.Fuzz && gy <= geom.Fuzz {
		return 0
	}

	// Moving along the center line closes the x gap at rate |dx|/dist and
	// the y gap at |dy|/dist; contact happens once both projections meet.
	s := 0.0
	if gx > geom.Fuzz {
		s = math.Max(s, gx*dist/math.Abs(d.X))
	}
	if gy > geom.Fuzz {
		s = math.Max(s, gy*dist/math.Abs(d.Y))
	}
	return s
}

// Overlap returns the intersection extents of n and o on each axis.
func (n *Node) Overlap(o *Node) (ox, oy float64) {
	return n.Rect.OverlapExtent(o.Rect)
}

// Overlaps reports whether n and o intersect with strictly positive area.
func (n *Node) Overlaps(o *Node) bool {
	ox, oy := n.Overlap(o)
	return ox > geom.Fuzz && oy > geom.Fuzz
}

// Touches reports whether n and o abut or overlap on both axes.
func (n *Node) Touches(o *Node) bool {
	ox, oy := n.Overlap(o)
	return ox >= -geom.Fuzz && oy >= -geom.Fuzz
}

// Distance returns how far n can move along dir before colliding with o,
// in multiples of dir. It is the minimum directional distance over all
// pairs of boundary segments.
func (n *Node) Distance(o *Node, dir geom.Vertex) float64 {
	best := math.Inf(1)
	for _, a := range n.Rect.Segments() {
		for _, b := range o.Rect.Segments() {
			best = math.Min(best, geom.SegmentDistance(a, b, dir))
		}
	}
	return best
}

// Presses reports whether moving n along dir would push it further into o.
// It is only meaningful when n and o already touch.
func (n *Node) Presses(o *Node, dir geom.Vertex) bool {
	ox, oy := n.Overlap(o)
	d := r2.Sub(o.C, n.C)
	flatX := math.Abs(ox) <= geom.Fuzz
	flatY := math.Abs(oy) <= geom.Fuzz

	switch {
	case flatX && flatY:
		// Corner contact: blocked only when heading into the corner.
		return towards(dir.X, d.X) && towards(dir.Y, d.Y)
	case flatX:
		// Vertical shared side.
		return towards(dir.X, d.X)
	case flatY:
		return towards(dir.Y, d.Y)
	default:
		return r2.Dot(dir, d) > geom.Fuzz
	}
}

func towards(v, d float64) bool {
	return (v > geom.Fuzz && d > 0) || (v < -geom.Fuzz && d < 0)
}
