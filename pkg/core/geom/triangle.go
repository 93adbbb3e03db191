package geom

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/spore/pkg/errors"
)

// collinearTolerance bounds |cross| / longest-edge² below which a triangle
// is considered collinear.
const collinearTolerance = 1e-12

// Triangle is a triangle over three vertex indices with a precomputed
// circumcircle.
type Triangle struct {
	A, B, C int
	Center  Vertex  // circumcenter
	Radius  float64 // circumradius
}

// NewTriangle builds the triangle (a, b, c) over pts and computes its
// circumcircle. It fails with a degenerate geometry error if the three
// points are (nearly) collinear or not distinct.
func NewTriangle(pts []Vertex, a, b, c int) (Triangle, error) {
	if a == b || b == c || a == c {
		return Triangle{}, errors.Degenerate("triangle repeats vertex (%d, %d, %d)", a, b, c)
	}
	pa, pb, pc := pts[a], pts[b], pts[c]

	// Work relative to pa to keep the arithmetic well conditioned.
	ab := r2.Sub(pb, pa)
	ac := r2.Sub(pc, pa)
	d := 2 * r2.Cross(ab, ac)

	longest := max(r2.Norm2(ab), r2.Norm2(ac), r2.Norm2(r2.Sub(pc, pb)))
	if longest == 0 || math.Abs(d) <= collinearTolerance*longest {
		return Triangle{}, errors.Degenerate("vertices %d, %d, %d are collinear", a, b, c)
	}

	lab, lac := r2.Norm2(ab), r2.Norm2(ac)
	rel := Vertex{
		X: (ac.Y*lab - ab.Y*lac) / d,
		Y: (ab.X*lac - ac.X*lab) / d,
	}
	return Triangle{
		A:      a,
		B:      b,
		C:      c,
		Center: r2.Add(pa, rel),
		Radius: r2.Norm(rel),
	}, nil
}

// Edges returns the three edges of t.
func (t Triangle) Edges() [3]Edge {
	return [3]Edge{NewEdge(t.A, t.B), NewEdge(t.B, t.C), NewEdge(t.C, t.A)}
}

// Key identifies the triangle by its vertex set, independent of order.
func (t Triangle) Key() [3]int {
	k := []int{t.A, t.B, t.C}
	slices.Sort(k)
	return [3]int{k[0], k[1], k[2]}
}

// Has reports whether id is one of t's vertices.
func (t Triangle) Has(id int) bool {
	return t.A == id || t.B == id || t.C == id
}

// InCircumcircle reports whether p lies strictly inside t's circumcircle.
// Points within a radius-relative tolerance of the circle count as outside,
// which keeps nearly cocircular configurations from flip-flopping.
func (t Triangle) InCircumcircle(p Vertex) bool {
	eps := Fuzz * max(1, t.Radius)
	return Distance(t.Center, p) < t.Radius-eps
}
