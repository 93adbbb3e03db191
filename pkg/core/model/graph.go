// Package model holds the node arena shared by the layout algorithms.
//
// A Graph owns its nodes and hands out stable integer IDs in insertion
// order. Every other structure (triangulations, spanning trees, overlap
// pairs) refers to nodes by ID, never by pointer or coordinate.
package model

import (
	"math"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/errors"
)

// Graph is an ordered arena of nodes. It is not safe for concurrent use.
type Graph struct {
	nodes []*Node
	refs  map[string]int
}

// NewGraph returns an empty graph with room for n nodes.
func NewGraph(n int) *Graph {
	return &Graph{nodes: make([]*Node, 0, n), refs: make(map[string]int, n)}
}

// Add appends a node with the given external reference and rectangle and
// returns its ID. References must be unique.
func (g *Graph) Add(ref string, r geom.Rect) (int, error) {
	if _, dup := g.refs[ref]; dup {
		return 0, errors.New(errors.ErrCodeInvalidInput, "duplicate node %q", ref)
	}
	if r.W < 0 || r.H < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "node %q has negative size %gx%g", ref, r.W, r.H)
	}
	for _, v := range []float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.New(errors.ErrCodeInvalidInput, "node %q has non-finite geometry", ref)
		}
	}
	id := len(g.nodes)
	c := r.Center()
	g.nodes = append(g.nodes, &Node{ID: id, Ref: ref, Rect: r, C: c, Original: c})
	g.refs[ref] = id
	return id, nil
}

// Node returns the node with the given ID. It panics if id is out of range.
func (g *Graph) Node(id int) *Node { return g.nodes[id] }

// Nodes returns the nodes in ID order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Lookup resolves an external reference to a node ID.
func (g *Graph) Lookup(ref string) (int, bool) {
	id, ok := g.refs[ref]
	return id, ok
}

// Centers returns the current centers in ID order.
func (g *Graph) Centers() []geom.Vertex {
	pts := make([]geom.Vertex, len(g.nodes))
	for i, n := range g.nodes {
		pts[i] = n.C
	}
	return pts
}

// Originals returns the original centers in ID order.
func (g *Graph) Originals() []geom.Vertex {
	pts := make([]geom.Vertex, len(g.nodes))
	for i, n := range g.nodes {
		pts[i] = n.Original
	}
	return pts
}

// Bounds returns the bounding box of all node rectangles. An empty graph
// has zero bounds.
func (g *Graph) Bounds() geom.Rect {
	if len(g.nodes) == 0 {
		return geom.Rect{}
	}
	b := g.nodes[0].Rect
	for _, n := range g.nodes[1:] {
		b = b.Union(n.Rect)
	}
	return b
}

// RefreshOriginals records every node's current center as its original.
func (g *Graph) RefreshOriginals() {
	for _, n := range g.nodes {
		n.Original = n.C
	}
}

// Snapshot copies the current rectangles in ID order.
func (g *Graph) Snapshot() []geom.Rect {
	rects := make([]geom.Rect, len(g.nodes))
	for i, n := range g.nodes {
		rects[i] = n.Rect
	}
	return rects
}

// Overlapping returns every pair of nodes that overlap with positive area,
// by brute force.
func (g *Graph) Overlapping() []geom.Edge {
	var pairs []geom.Edge
	for i, a := range g.nodes {
		for _, b := range g.nodes[i+1:] {
			if a.Overlaps(b) {
				pairs = append(pairs, geom.NewEdge(a.ID, b.ID))
			}
		}
	}
	return pairs
}
