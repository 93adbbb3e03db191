package compact

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/core/tree"
	"github.com/matzehuels/spore/pkg/errors"
)

// Grow resolves overlaps along the edges of t top-down: a child that
// overlaps its parent is pushed, together with its subtree, directly away
// from the parent until the two rectangles just touch.
//
// Grow only separates tree-adjacent pairs; overlaps between other pairs are
// left for the next pass of the caller's loop.
func Grow(g *model.Graph, t *tree.Tree) error {
	return grow(g, t, t.Root())
}

func grow(g *model.Graph, t *tree.Tree, id int) error {
	for _, c := range t.Children(id) {
		if err := push(g, t, id, c); err != nil {
			return err
		}
		if err := grow(g, t, c); err != nil {
			return err
		}
	}
	return nil
}

func push(g *model.Graph, t *tree.Tree, parent, child int) error {
	p, c := g.Node(parent), g.Node(child)
	if !c.Overlaps(p) {
		return nil
	}
	d := r2.Sub(c.C, p.C)
	u, ok := geom.Unit(d)
	if !ok {
		return errors.Degenerate("nodes %q and %q share a center", p.Ref, c.Ref)
	}

	s := math.Inf(1)
	if math.Abs(u.X) > geom.Fuzz {
		need := (p.Rect.W+c.Rect.W)/2 - math.Abs(d.X)
		s = math.Min(s, need/math.Abs(u.X))
	}
	if math.Abs(u.Y) > geom.Fuzz {
		need := (p.Rect.H+c.Rect.H)/2 - math.Abs(d.Y)
		s = math.Min(s, need/math.Abs(u.Y))
	}
	if math.IsInf(s, 1) || s <= 0 {
		return nil
	}
	translate(g, t.Subtree(child), r2.Scale(s, u))
	return nil
}
