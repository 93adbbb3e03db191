// Package delaunay triangulates node centers with the Bowyer–Watson
// algorithm and exposes the resulting proximity edges.
//
// Points are inserted one at a time in input order into a triangulation
// seeded with a super-triangle that encloses every point with a wide
// margin. Each insertion removes the triangles whose circumcircle strictly
// contains the new point (a fuzzy test, see geom.Triangle.InCircumcircle)
// and fans the new point out to the boundary of the resulting cavity.
//
// Input points must be pairwise distinct. Exactly coincident points are
// rejected with a degenerate geometry error; callers jitter them first.
package delaunay

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/errors"
)

// superMargin scales the super-triangle relative to the input extent.
const superMargin = 20

// Result is the output of a triangulation. Indices refer to the input
// slice passed to Triangulate.
type Result struct {
	// Edges are the distinct triangulation edges between input points,
	// sorted by (U, V).
	Edges []geom.Edge
	// Triangles are the triangles whose three vertices are input points.
	Triangles []geom.Triangle
}

// Triangulate computes the Delaunay triangulation of pts.
//
// Fewer than two points produce an empty result, and exactly two points a
// single edge. Exactly collinear inputs produce the path through the points
// and no triangles. Near-collinear inputs yield a connected graph, but the
// fuzzy circumcircle test may drop an edge of the exact triangulation.
func Triangulate(pts []geom.Vertex) (*Result, error) {
	n := len(pts)
	if err := checkDistinct(pts); err != nil {
		return nil, err
	}
	switch n {
	case 0, 1:
		return &Result{}, nil
	case 2:
		return &Result{Edges: []geom.Edge{geom.NewEdge(0, 1)}}, nil
	}

	all := append(slices.Clone(pts), superTriangle(pts)...)
	super, err := geom.NewTriangle(all, n, n+1, n+2)
	if err != nil {
		return nil, err
	}
	tris := []geom.Triangle{super}

	for i := 0; i < n; i++ {
		if tris, err = insert(all, tris, i); err != nil {
			return nil, err
		}
	}
	return collect(tris, n), nil
}

// insert adds point i to the triangulation and returns the new triangle set.
func insert(pts []geom.Vertex, tris []geom.Triangle, i int) ([]geom.Triangle, error) {
	p := pts[i]
	keep := tris[:0:0]
	var bad []geom.Triangle
	for _, t := range tris {
		if t.InCircumcircle(p) {
			bad = append(bad, t)
		} else {
			keep = append(keep, t)
		}
	}
	if len(bad) == 0 {
		return nil, errors.Degenerate("point %d at (%g, %g) lies in no circumcircle", i, p.X, p.Y)
	}

	count := make(map[geom.Edge]int, 3*len(bad))
	for _, t := range bad {
		for _, e := range t.Edges() {
			count[e]++
		}
	}
	for _, t := range bad {
		for _, e := range t.Edges() {
			if count[e] != 1 {
				continue
			}
			nt, err := geom.NewTriangle(pts, e.U, e.V, i)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeDegenerateGeometry, err, "insert point %d", i)
			}
			keep = append(keep, nt)
		}
	}
	return keep, nil
}

// collect gathers the edges and triangles that do not touch the super
// vertices (indices >= n).
func collect(tris []geom.Triangle, n int) *Result {
	seen := make(map[geom.Edge]struct{})
	res := &Result{}
	for _, t := range tris {
		if t.A < n && t.B < n && t.C < n {
			res.Triangles = append(res.Triangles, t)
		}
		for _, e := range t.Edges() {
			if e.V >= n {
				continue
			}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			res.Edges = append(res.Edges, e)
		}
	}
	slices.SortFunc(res.Edges, geom.Edge.Compare)
	slices.SortFunc(res.Triangles, func(a, b geom.Triangle) int {
		ka, kb := a.Key(), b.Key()
		return cmp.Or(cmp.Compare(ka[0], kb[0]), cmp.Compare(ka[1], kb[1]), cmp.Compare(ka[2], kb[2]))
	})
	return res
}

// superTriangle returns three vertices enclosing every point of pts with a
// margin of superMargin times the larger extent.
func superTriangle(pts []geom.Vertex) []geom.Vertex {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	d := math.Max(math.Max(maxX-minX, maxY-minY), 1)
	mx, my := (minX+maxX)/2, (minY+maxY)/2
	return []geom.Vertex{
		{X: mx - superMargin*d, Y: my - d},
		{X: mx, Y: my + superMargin*d},
		{X: mx + superMargin*d, Y: my - d},
	}
}

func checkDistinct(pts []geom.Vertex) error {
	seen := make(map[geom.Vertex]int, len(pts))
	for i, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return errors.Degenerate("point %d is not finite", i)
		}
		if j, dup := seen[p]; dup {
			return errors.Degenerate("points %d and %d coincide at (%g, %g)", j, i, p.X, p.Y)
		}
		seen[p] = i
	}
	return nil
}
