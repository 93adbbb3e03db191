package spore

import (
	"slices"
	"strings"

	"github.com/matzehuels/spore/pkg/core/compact"
	"github.com/matzehuels/spore/pkg/core/delaunay"
	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/core/scanline"
	"github.com/matzehuels/spore/pkg/core/spanning"
	"github.com/matzehuels/spore/pkg/core/tree"
	"github.com/matzehuels/spore/pkg/errors"
)

// Algorithm selects what Run does with the imported nodes.
type Algorithm string

const (
	AlgorithmOverlap Algorithm = "overlap"
	AlgorithmCompact Algorithm = "compact"
	// AlgorithmChain removes overlaps and then compacts the result.
	AlgorithmChain Algorithm = "overlap+compact"
)

// ParseAlgorithm parses an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case AlgorithmOverlap, AlgorithmCompact, AlgorithmChain:
		return a, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown algorithm: %q", s)
}

// Stats describes what a run did.
type Stats struct {
	// Iterations is the number of structural passes that moved nodes.
	Iterations int `json:"iterations"`
	// Overlaps holds the overlap count found at the start of each pass.
	Overlaps []int `json:"overlaps,omitempty"`
	// Remaining is the number of overlapping pairs left at the end.
	Remaining int `json:"remaining"`
	// CapReached reports that overlap removal stopped at MaxIterations
	// with overlaps left.
	CapReached bool `json:"cap_reached,omitempty"`
	// StructureEdges is the size of the last structure graph.
	StructureEdges int `json:"structure_edges"`
	// Jittered counts nodes moved apart because their centers coincided.
	Jittered int `json:"jittered,omitempty"`
}

// Result bundles the output of Run with its statistics.
type Result struct {
	Output *Output
	Stats  Stats
}

// Run imports rects, applies alg and exports the result.
func Run(rects []Rectangle, links []Link, alg Algorithm, cfg Config) (*Result, error) {
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	g, err := Import(rects, cfg)
	if err != nil {
		return nil, err
	}

	var stats Stats
	if alg == AlgorithmOverlap || alg == AlgorithmChain {
		if stats, err = RemoveOverlaps(g, cfg); err != nil {
			return nil, err
		}
	}
	if alg == AlgorithmCompact || alg == AlgorithmChain {
		cs, err := Compact(g, cfg)
		if err != nil {
			return nil, err
		}
		stats = merge(stats, cs)
	}

	out, err := Export(g, links, cfg)
	if err != nil {
		return nil, err
	}
	return &Result{Output: out, Stats: stats}, nil
}

func merge(a, b Stats) Stats {
	return Stats{
		Iterations:     a.Iterations + b.Iterations,
		Overlaps:       a.Overlaps,
		Remaining:      b.Remaining,
		CapReached:     a.CapReached,
		StructureEdges: b.StructureEdges,
		Jittered:       a.Jittered + b.Jittered,
	}
}

// =============================================================================
// Overlap removal
// =============================================================================

// RemoveOverlaps pushes overlapping nodes of g apart. Each pass detects the
// overlapping pairs, triangulates the node centers, combines both edge sets
// according to cfg.EdgePolicy, spans them with the worst overlaps first and
// grows the tree outward. The loop ends when no overlaps remain or after
// cfg.MaxIterations passes.
func RemoveOverlaps(g *model.Graph, cfg Config) (Stats, error) {
	var stats Stats
	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	p := &probe{obs: cfg.Observer, alg: AlgorithmOverlap, g: g}
	jit := newJitterer(cfg)

	for p.iteration = 0; p.iteration < cfg.MaxIterations; p.iteration++ {
		pairs, err := Detect(g, cfg)
		if err != nil {
			return stats, err
		}
		p.overlaps(pairs)
		if len(pairs) == 0 {
			break
		}
		stats.Iterations++
		stats.Overlaps = append(stats.Overlaps, len(pairs))
		stats.Jittered += jit.apply(g)

		var trees []*tree.Tree
		switch cfg.EdgePolicy {
		case OverlapsOnly:
			stats.StructureEdges = len(pairs)
			p.structure(pairs)
			trees, err = overlapForest(g, pairs)
		default:
			var tri *delaunay.Result
			if tri, err = delaunay.Triangulate(g.Centers()); err != nil {
				return stats, err
			}
			edges := union(tri.Edges, pairs)
			stats.StructureEdges = len(edges)
			p.structure(edges)
			trees, err = overlapTree(g, edges, cfg)
		}
		if err != nil {
			return stats, err
		}
		p.trees(trees)

		for _, t := range trees {
			if err := compact.Grow(g, t); err != nil {
				return stats, err
			}
		}
		g.RefreshOriginals()
		p.emit(PhaseMoved, nil)
	}

	pairs, err := Detect(g, cfg)
	if err != nil {
		return stats, err
	}
	stats.Remaining = len(pairs)
	stats.CapReached = len(pairs) > 0
	p.emit(PhaseDone, func(cp *Checkpoint) { cp.Overlaps = pairs })
	return stats, nil
}

func overlapTree(g *model.Graph, edges []geom.Edge, cfg Config) ([]*tree.Tree, error) {
	if cfg.AssertConnected {
		if err := spanning.AssertConnected(g.Len(), edges); err != nil {
			return nil, err
		}
	}
	root, err := spanning.SelectRoot(g, spanning.CenterNode, "")
	if err != nil {
		return nil, err
	}
	cost, err := spanning.NewCost(spanning.InvertedOverlap, g, root)
	if err != nil {
		return nil, err
	}
	t, err := spanning.Build(edges, root, cost, false)
	if err != nil {
		return nil, err
	}
	return []*tree.Tree{t}, nil
}

// overlapForest spans each cluster of mutually overlapping nodes on its own,
// rooted at the node nearest the cluster's center.
func overlapForest(g *model.Graph, pairs []geom.Edge) ([]*tree.Tree, error) {
	var trees []*tree.Tree
	for _, comp := range spanning.Components(g.Len(), pairs) {
		if len(comp) < 2 {
			continue
		}
		nodes := make([]*model.Node, len(comp))
		for i, id := range comp {
			nodes[i] = g.Node(id)
		}
		root := spanning.CenterOf(nodes)
		cost, err := spanning.NewCost(spanning.InvertedOverlap, g, root)
		if err != nil {
			return nil, err
		}
		var edges []geom.Edge
		for _, e := range pairs {
			if _, ok := slices.BinarySearch(comp, e.U); ok {
				edges = append(edges, e)
			}
		}
		t, err := spanning.Build(edges, root, cost, false)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, nil
}

// =============================================================================
// Compaction
// =============================================================================

// Compact runs one structural compaction pass over g: triangulate the node
// centers, span them with cfg.CostFunction from the cfg.RootSelection root
// and shrink the tree in cfg.Mode.
func Compact(g *model.Graph, cfg Config) (Stats, error) {
	var stats Stats
	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	p := &probe{obs: cfg.Observer, alg: AlgorithmCompact, g: g}
	if g.Len() == 0 {
		p.emit(PhaseDone, nil)
		return stats, nil
	}
	stats.Jittered = newJitterer(cfg).apply(g)

	tri, err := delaunay.Triangulate(g.Centers())
	if err != nil {
		return stats, err
	}
	stats.StructureEdges = len(tri.Edges)
	p.structure(tri.Edges)
	if cfg.AssertConnected {
		if err := spanning.AssertConnected(g.Len(), tri.Edges); err != nil {
			return stats, err
		}
	}

	root, err := spanning.SelectRoot(g, cfg.RootSelection, cfg.RootRef)
	if err != nil {
		return stats, err
	}
	cost, err := spanning.NewCost(cfg.CostFunction, g, root)
	if err != nil {
		return stats, err
	}
	t, err := spanning.Build(tri.Edges, root, cost, false)
	if err != nil {
		return stats, err
	}
	p.trees([]*tree.Tree{t})

	if err := compact.Shrink(g, t, cfg.Mode); err != nil {
		return stats, err
	}
	g.RefreshOriginals()
	stats.Iterations = 1
	p.emit(PhaseMoved, nil)

	pairs, err := Detect(g, cfg)
	if err != nil {
		return stats, err
	}
	stats.Remaining = len(pairs)
	p.emit(PhaseDone, func(cp *Checkpoint) { cp.Overlaps = pairs })
	return stats, nil
}

// =============================================================================
// Helpers
// =============================================================================

// Detect returns the overlapping pairs of g using the detector selected by
// cfg.RunScanlineCheck.
func Detect(g *model.Graph, cfg Config) ([]geom.Edge, error) {
	if cfg.RunScanlineCheck {
		return scanline.Overlaps(g.Nodes())
	}
	return scanline.Naive(g.Nodes()), nil
}

// union merges two sorted edge lists without duplicates.
func union(a, b []geom.Edge) []geom.Edge {
	out := make([]geom.Edge, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.SortFunc(out, geom.Edge.Compare)
	return slices.Compact(out)
}
