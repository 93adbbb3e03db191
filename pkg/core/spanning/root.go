package spanning

import (
	"math"
	"strings"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/errors"
)

// RootSelection chooses the root of a spanning tree.
type RootSelection int

const (
	// Fixed uses a caller-named node, defaulting to the first one.
	Fixed RootSelection = iota
	// CenterNode uses the node nearest the center of the drawing.
	CenterNode
)

func (r RootSelection) String() string {
	switch r {
	case Fixed:
		return "FIXED"
	case CenterNode:
		return "CENTER_NODE"
	default:
		return "UNKNOWN"
	}
}

// ParseRootSelection parses a root selection name.
func ParseRootSelection(s string) (RootSelection, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "FIXED":
		return Fixed, nil
	case "CENTER_NODE":
		return CenterNode, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown root selection: %q", s)
}

func (r RootSelection) MarshalText() ([]byte, error) {
	if r != Fixed && r != CenterNode {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown root selection: %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *RootSelection) UnmarshalText(b []byte) error {
	v, err := ParseRootSelection(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// SelectRoot resolves the root node of g. For Fixed, ref names the root by
// its external reference; an empty ref selects the first node.
func SelectRoot(g *model.Graph, sel RootSelection, ref string) (int, error) {
	if g.Len() == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "cannot select a root in an empty graph")
	}
	switch sel {
	case Fixed:
		if ref == "" {
			return 0, nil
		}
		id, ok := g.Lookup(ref)
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidConfig, "root node %q not found", ref)
		}
		return id, nil
	case CenterNode:
		return CenterOf(g.Nodes()), nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown root selection: %d", int(sel))
	}
}

// CenterOf returns the ID of the node whose original position is nearest
// the center of the bounding box of nodes. Ties go to the lower ID.
func CenterOf(nodes []*model.Node) int {
	if len(nodes) == 0 {
		return -1
	}
	bounds := nodes[0].Rect
	for _, n := range nodes[1:] {
		bounds = bounds.Union(n.Rect)
	}
	c := bounds.Center()
	best, bestD := -1, math.Inf(1)
	for _, n := range nodes {
		d := geom.Distance(n.Original, c)
		if d < bestD || (d == bestD && n.ID < best) {
			best, bestD = n.ID, d
		}
	}
	return best
}
