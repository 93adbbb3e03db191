// Package compact moves whole subtrees of a spanning tree, either pulling
// them towards their parents (Shrink) or pushing them away until they no
// longer overlap (Grow).
package compact

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/core/tree"
	"github.com/matzehuels/spore/pkg/errors"
)

// Mode restricts the direction of compaction moves.
type Mode int

const (
	// Free moves a subtree along the line between child and parent centers.
	Free Mode = iota
	// Orthogonal moves a subtree along a single axis.
	Orthogonal
)

func (m Mode) String() string {
	switch m {
	case Free:
		return "FREE"
	case Orthogonal:
		return "ORTHOGONAL"
	default:
		return "UNKNOWN"
	}
}

// ParseMode parses a compaction mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FREE":
		return Free, nil
	case "ORTHOGONAL":
		return Orthogonal, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown compaction mode: %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != Free && m != Orthogonal {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown compaction mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// =============================================================================
// Shrink
// =============================================================================

// Shrink compacts t depth-first: every child subtree is compacted first,
// then each child of a node is rigidly pulled towards it as far as the
// rest of the drawing allows. No move creates a new overlap.
func Shrink(g *model.Graph, t *tree.Tree, mode Mode) error {
	if mode != Free && mode != Orthogonal {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown compaction mode: %d", int(mode))
	}
	return shrink(g, t, t.Root(), mode)
}

func shrink(g *model.Graph, t *tree.Tree, id int, mode Mode) error {
	for _, c := range t.Children(id) {
		if err := shrink(g, t, c, mode); err != nil {
			return err
		}
	}
	for _, c := range t.Children(id) {
		if err := pull(g, t, id, c, mode); err != nil {
			return err
		}
	}
	return nil
}

// pull moves the subtree of child towards parent.
func pull(g *model.Graph, t *tree.Tree, parent, child int, mode Mode) error {
	p, c := g.Node(parent), g.Node(child)
	v := r2.Sub(p.C, c.C)
	if r2.Norm(v) < geom.Fuzz {
		return errors.Degenerate("nodes %q and %q share a center", p.Ref, c.Ref)
	}

	switch mode {
	case Orthogonal:
		v = axisMove(p, c, v)
	default:
		u, _ := geom.Unit(v)
		v = r2.Scale(c.Underlap(p), u)
	}

	length := r2.Norm(v)
	if length <= geom.Fuzz {
		return nil
	}
	dir := r2.Scale(1/length, v)
	moving := t.Subtree(child)
	step := math.Min(length, clearance(g, moving, dir))
	if step <= geom.Fuzz {
		return nil
	}
	translate(g, moving, r2.Scale(step, dir))
	return nil
}

// axisMove keeps the dominant axis of v and sets it to the gap between p
// and c along that axis. If the two do not overlap on the other axis, an
// axis move can never close the gap and the move is zero.
func axisMove(p, c *model.Node, v geom.Vertex) geom.Vertex {
	ox, oy := c.Overlap(p)
	if math.Abs(v.X) >= math.Abs(v.Y) {
		if oy <= geom.Fuzz {
			return geom.Vertex{}
		}
		gap := math.Max(math.Abs(v.X)-(p.Rect.W+c.Rect.W)/2, 0)
		return geom.Vertex{X: math.Copysign(gap, v.X)}
	}
	if ox <= geom.Fuzz {
		return geom.Vertex{}
	}
	gap := math.Max(math.Abs(v.Y)-(p.Rect.H+c.Rect.H)/2, 0)
	return geom.Vertex{Y: math.Copysign(gap, v.Y)}
}

// clearance returns how far the nodes in moving can travel along dir
// before any of them hits a node outside moving.
func clearance(g *model.Graph, moving []int, dir geom.Vertex) float64 {
	inside := make(map[int]bool, len(moving))
	for _, id := range moving {
		inside[id] = true
	}
	best := math.Inf(1)
	for _, id := range moving {
		m := g.Node(id)
		for _, o := range g.Nodes() {
			if inside[o.ID] {
				continue
			}
			if m.Touches(o) {
				if m.Presses(o, dir) {
					return 0
				}
				continue
			}
			best = math.Min(best, m.Distance(o, dir))
		}
	}
	return best
}

func translate(g *model.Graph, ids []int, d geom.Vertex) {
	for _, id := range ids {
		g.Node(id).Translate(d)
	}
}
