package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Fuzz is the tolerance used by all fuzzy geometric comparisons.
const Fuzz = 1e-9

// Vertex is a point in the plane.
type Vertex = r2.Vec

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vertex) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Unit returns v scaled to length 1 and false if v is too short to have a
// direction.
func Unit(v Vertex) (Vertex, bool) {
	n := r2.Norm(v)
	if n < Fuzz {
		return Vertex{}, false
	}
	return r2.Scale(1/n, v), true
}

// NearlyEqual reports whether a and b differ by at most Fuzz.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Fuzz
}

// =============================================================================
// Edge
// =============================================================================

// Edge is an undirected pair of vertex indices, stored with U < V.
type Edge struct {
	U int `json:"u"`
	V int `json:"v"`
}

// NewEdge returns the normalized edge between a and b.
// Callers must not pass a == b; use Valid to check untrusted input.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{U: a, V: b}
}

// Valid reports whether the edge joins two distinct non-negative vertices.
func (e Edge) Valid() bool {
	return e.U >= 0 && e.U < e.V
}

// Has reports whether id is an endpoint of e.
func (e Edge) Has(id int) bool {
	return e.U == id || e.V == id
}

// Other returns the endpoint of e that is not id.
func (e Edge) Other(id int) int {
	if e.U == id {
		return e.V
	}
	return e.U
}

// Compare orders edges by U, then V.
func (e Edge) Compare(o Edge) int {
	switch {
	case e.U != o.U:
		return e.U - o.U
	default:
		return e.V - o.V
	}
}
