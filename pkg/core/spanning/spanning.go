// Package spanning builds spanning trees over structure edges.
//
// Build grows a tree from a root by repeatedly taking the cheapest edge
// with exactly one endpoint in the tree (a naive Prim). Edge costs come
// from one of the [CostFunction] heuristics bound to a model.Graph.
//
// Build assumes the edge set is connected. On disconnected input it
// returns a tree over the root's component only; use [AssertConnected]
// when that must be detected.
package spanning

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/tree"
	"github.com/matzehuels/spore/pkg/errors"
)

type weighted struct {
	edge geom.Edge
	cost float64
}

// Build returns a spanning tree rooted at root over edges. With maximize
// set, the most expensive edges are preferred instead.
func Build(edges []geom.Edge, root int, cost Cost, maximize bool) (*tree.Tree, error) {
	ws := make([]weighted, 0, len(edges))
	for _, e := range edges {
		if !e.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid edge %v", e)
		}
		c := cost(e)
		if maximize {
			c = -c
		}
		ws = append(ws, weighted{edge: e, cost: c})
	}
	slices.SortStableFunc(ws, func(a, b weighted) int {
		return cmp.Or(cmp.Compare(a.cost, b.cost), a.edge.Compare(b.edge))
	})

	t := tree.New(root)
	used := make([]bool, len(ws))
	for {
		attached := false
		for i, w := range ws {
			if used[i] {
				continue
			}
			inU, inV := t.Contains(w.edge.U), t.Contains(w.edge.V)
			if inU && inV {
				used[i] = true
				continue
			}
			if !inU && !inV {
				continue
			}
			parent, child := w.edge.U, w.edge.V
			if inV {
				parent, child = child, parent
			}
			if err := t.Attach(parent, child); err != nil {
				return nil, err
			}
			used[i] = true
			attached = true
			break
		}
		if !attached {
			return t, nil
		}
	}
}

// Components partitions the IDs 0..n-1 into connected components of edges.
// Each component is sorted and components are ordered by their smallest ID.
func Components(n int, edges []geom.Edge) [][]int {
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		g.SetEdge(simple.Edge{F: simple.Node(e.U), T: simple.Node(e.V)})
	}

	var comps [][]int
	for _, cc := range topo.ConnectedComponents(g) {
		ids := make([]int, len(cc))
		for i, node := range cc {
			ids[i] = int(node.ID())
		}
		slices.Sort(ids)
		comps = append(comps, ids)
	}
	slices.SortFunc(comps, func(a, b []int) int { return cmp.Compare(a[0], b[0]) })
	return comps
}

// AssertConnected returns an error unless edges connect all IDs 0..n-1.
func AssertConnected(n int, edges []geom.Edge) error {
	if n <= 1 {
		return nil
	}
	if comps := Components(n, edges); len(comps) > 1 {
		return errors.Inconsistent("structure graph has %d components", len(comps))
	}
	return nil
}
