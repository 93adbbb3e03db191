package pipeline

import (
	"github.com/matzehuels/spore/pkg/core/spore"
	"github.com/matzehuels/spore/pkg/graph"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout runs the configured algorithm on d and returns the placed
// layout. It does not touch any cache; see Runner.LayoutWithCacheInfo.
//
// A diagram-level padding applies when opts.Padding is unset.
func ComputeLayout(d graph.Diagram, opts Options) (graph.Layout, error) {
	if err := d.Validate(); err != nil {
		return graph.Layout{}, err
	}
	alg, err := opts.AlgorithmValue()
	if err != nil {
		return graph.Layout{}, err
	}
	cfg, err := configFor(d, opts)
	if err != nil {
		return graph.Layout{}, err
	}

	res, err := spore.Run(d.Rectangles(), d.Links(), alg, cfg)
	if err != nil {
		return graph.Layout{}, err
	}
	return graph.NewLayout(d, alg, res), nil
}

func configFor(d graph.Diagram, opts Options) (spore.Config, error) {
	cfg, err := opts.Config()
	if err != nil {
		return cfg, err
	}
	if opts.Padding == nil && d.Padding > 0 {
		cfg.Padding = d.Padding
	}
	return cfg, nil
}

// =============================================================================
// Overlap Check
// =============================================================================

// CheckReport lists the overlapping node pairs of a diagram, measured after
// each box is grown by its margin and half the spacing.
type CheckReport struct {
	Nodes int           `json:"nodes"`
	Pairs []OverlapPair `json:"pairs"`
}

// OverlapPair is one pair of overlapping nodes and the extent of the overlap
// along each axis.
type OverlapPair struct {
	A  string  `json:"a"`
	B  string  `json:"b"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Clean reports whether no pairs overlap.
func (r *CheckReport) Clean() bool { return len(r.Pairs) == 0 }

// CheckOverlaps detects overlapping pairs in d without moving anything.
func CheckOverlaps(d graph.Diagram, opts Options) (*CheckReport, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	cfg, err := configFor(d, opts)
	if err != nil {
		return nil, err
	}
	g, err := spore.Import(d.Rectangles(), cfg)
	if err != nil {
		return nil, err
	}
	pairs, err := spore.Detect(g, cfg)
	if err != nil {
		return nil, err
	}

	report := &CheckReport{Nodes: g.Len(), Pairs: make([]OverlapPair, 0, len(pairs))}
	for _, e := range pairs {
		a, b := g.Node(e.U), g.Node(e.V)
		dx, dy := a.Overlap(b)
		report.Pairs = append(report.Pairs, OverlapPair{A: a.Ref, B: b.Ref, DX: dx, DY: dy})
	}
	return report, nil
}
