package spanning

import (
	"math"
	"strings"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/errors"
)

// CostFunction selects the heuristic used to weigh structure edges.
type CostFunction int

const (
	CenterDistance CostFunction = iota
	CircleUnderlap
	RectangleUnderlap
	InvertedOverlap
	MinimumRootDistance
)

var costNames = map[CostFunction]string{
	CenterDistance:      "CENTER_DISTANCE",
	CircleUnderlap:      "CIRCLE_UNDERLAP",
	RectangleUnderlap:   "RECTANGLE_UNDERLAP",
	InvertedOverlap:     "INVERTED_OVERLAP",
	MinimumRootDistance: "MINIMUM_ROOT_DISTANCE",
}

func (f CostFunction) String() string {
	if s, ok := costNames[f]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseCostFunction parses a cost function name. Matching ignores case and
// accepts '-' in place of '_'.
func ParseCostFunction(s string) (CostFunction, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for f, name := range costNames {
		if name == key {
			return f, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown cost function: %q", s)
}

func (f CostFunction) MarshalText() ([]byte, error) {
	if _, ok := costNames[f]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cost function: %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *CostFunction) UnmarshalText(b []byte) error {
	v, err := ParseCostFunction(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Cost weighs a structure edge. Lower costs are preferred by Build.
type Cost func(e geom.Edge) float64

// NewCost binds fn to the nodes of g. root is only consulted by
// MinimumRootDistance.
func NewCost(fn CostFunction, g *model.Graph, root int) (Cost, error) {
	switch fn {
	case CenterDistance:
		return func(e geom.Edge) float64 {
			return geom.Distance(g.Node(e.U).C, g.Node(e.V).C)
		}, nil
	case CircleUnderlap:
		return func(e geom.Edge) float64 {
			a, b := g.Node(e.U), g.Node(e.V)
			return geom.Distance(a.C, b.C) - a.Rect.HalfDiagonal() - b.Rect.HalfDiagonal()
		}, nil
	case RectangleUnderlap:
		return func(e geom.Edge) float64 {
			return g.Node(e.U).Underlap(g.Node(e.V))
		}, nil
	case InvertedOverlap:
		return func(e geom.Edge) float64 {
			a, b := g.Node(e.U), g.Node(e.V)
			if a.Overlaps(b) {
				ox, oy := a.Overlap(b)
				return -math.Min(ox, oy)
			}
			return a.Underlap(b)
		}, nil
	case MinimumRootDistance:
		if root < 0 || root >= g.Len() {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "root %d out of range", root)
		}
		rc := g.Node(root).C
		return func(e geom.Edge) float64 {
			return math.Min(geom.Distance(g.Node(e.U).C, rc), geom.Distance(g.Node(e.V).C, rc))
		}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cost function: %d", int(fn))
	}
}
