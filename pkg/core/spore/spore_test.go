package spore

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/scanline"
	"github.com/matzehuels/spore/pkg/core/spanning"
	"github.com/matzehuels/spore/pkg/errors"
)

func abc() []Rectangle {
	return []Rectangle{
		{Ref: "A", Rect: geom.Rect{X: 0, Y: 0, W: 20, H: 20}},
		{Ref: "B", Rect: geom.Rect{X: 5, Y: 5, W: 20, H: 20}},
		{Ref: "C", Rect: geom.Rect{X: 100, Y: 100, W: 20, H: 20}},
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func placement(t *testing.T, out *Output, ref string) geom.Rect {
	t.Helper()
	for _, p := range out.Placements {
		if p.Ref == ref {
			return p.Rect
		}
	}
	t.Fatalf("no placement for %q", ref)
	return geom.Rect{}
}

func overlapArea(out *Output) float64 {
	total := 0.0
	for i, a := range out.Placements {
		for _, b := range out.Placements[i+1:] {
			ox, oy := a.Rect.OverlapExtent(b.Rect)
			if ox > 0 && oy > 0 {
				total += ox * oy
			}
		}
	}
	return total
}

func TestRemoveOverlapsEndToEnd(t *testing.T) {
	res, err := Run(abc(), nil, AlgorithmOverlap, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := res.Output

	a := placement(t, out, "A")
	if !near(a.X, -35) || !near(a.Y, -35) || a.W != 20 || a.H != 20 {
		t.Errorf("A = %v, want (-35,-35,20,20)", a)
	}
	if b := placement(t, out, "B"); b != (geom.Rect{X: 5, Y: 5, W: 20, H: 20}) {
		t.Errorf("B = %v, want unchanged", b)
	}
	if c := placement(t, out, "C"); c != (geom.Rect{X: 100, Y: 100, W: 20, H: 20}) {
		t.Errorf("C = %v, want unchanged", c)
	}
	if area := overlapArea(out); area != 0 {
		t.Errorf("total overlap area = %v, want 0", area)
	}
	if res.Stats.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", res.Stats.Iterations)
	}
	if res.Stats.Remaining != 0 || res.Stats.CapReached {
		t.Errorf("Remaining = %d, CapReached = %v", res.Stats.Remaining, res.Stats.CapReached)
	}
	if !slices.Equal(res.Stats.Overlaps, []int{1}) {
		t.Errorf("Overlaps = %v, want [1]", res.Stats.Overlaps)
	}
}

func TestRemoveOverlapsKeepsSpacing(t *testing.T) {
	res, err := Run(abc(), nil, AlgorithmOverlap, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	a, b := placement(t, res.Output, "A"), placement(t, res.Output, "B")
	// A sits diagonally up-left of B, so the gap on both axes is Spacing.
	if gap := b.X - a.MaxX(); !near(gap, DefaultSpacing) {
		t.Errorf("horizontal gap = %v, want %v", gap, DefaultSpacing)
	}
}

func TestCompactExample(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spacing = 0
	rects := []Rectangle{
		{Ref: "parent", Rect: geom.Rect{X: 0, Y: 0, W: 20, H: 20}},
		{Ref: "child", Rect: geom.Rect{X: 30, Y: 0, W: 20, H: 20}},
	}
	res, err := Run(rects, nil, AlgorithmCompact, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p := placement(t, res.Output, "parent"); p.X != 0 {
		t.Errorf("parent moved to %v", p)
	}
	if c := placement(t, res.Output, "child"); !near(c.X, 20) || c.Y != 0 {
		t.Errorf("child = %v, want X=20", c)
	}
}

func TestCompactFixedRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spacing = 0
	cfg.RootSelection = spanning.Fixed
	cfg.RootRef = "child"
	rects := []Rectangle{
		{Ref: "parent", Rect: geom.Rect{X: 0, Y: 0, W: 20, H: 20}},
		{Ref: "child", Rect: geom.Rect{X: 30, Y: 0, W: 20, H: 20}},
	}
	res, err := Run(rects, nil, AlgorithmCompact, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p := placement(t, res.Output, "parent"); !near(p.X, 10) {
		t.Errorf("parent = %v, want X=10", p)
	}
	if c := placement(t, res.Output, "child"); c.X != 30 {
		t.Errorf("root child moved to %v", c)
	}
}

func TestChainRemovesThenCompacts(t *testing.T) {
	cfg := DefaultConfig()
	rects := append(abc(), Rectangle{Ref: "D", Rect: geom.Rect{X: 400, Y: 0, W: 20, H: 20}})
	res, err := Run(rects, nil, AlgorithmChain, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if area := overlapArea(res.Output); area != 0 {
		t.Errorf("overlap area = %v, want 0", area)
	}
	if res.Stats.Iterations < 2 {
		t.Errorf("Iterations = %d, want overlap and compaction passes", res.Stats.Iterations)
	}
	d := placement(t, res.Output, "D")
	if d.X >= 400 {
		t.Errorf("isolated node D was not pulled in: %v", d)
	}
}

func TestOverlapsOnlyPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EdgePolicy = OverlapsOnly
	res, err := Run(abc(), nil, AlgorithmOverlap, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a := placement(t, res.Output, "A"); a.X != 0 || a.Y != 0 {
		t.Errorf("cluster root A moved to %v", a)
	}
	b := placement(t, res.Output, "B")
	if !near(b.X, 40) || !near(b.Y, 40) {
		t.Errorf("B = %v, want (40,40)", b)
	}
	if res.Stats.StructureEdges != 1 {
		t.Errorf("StructureEdges = %d, want 1", res.Stats.StructureEdges)
	}
}

func TestNaiveCheckMatchesScanline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RunScanlineCheck = false
	res, err := Run(abc(), nil, AlgorithmOverlap, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a := placement(t, res.Output, "A"); !near(a.X, -35) {
		t.Errorf("A = %v, want X=-35", a)
	}
}

func TestCoincidentCentersAreJittered(t *testing.T) {
	rects := []Rectangle{
		{Ref: "a", Rect: geom.Rect{X: 0, Y: 0, W: 20, H: 20}},
		{Ref: "b", Rect: geom.Rect{X: 0, Y: 0, W: 20, H: 20}},
	}
	res, err := Run(rects, nil, AlgorithmOverlap, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stats.Jittered != 1 {
		t.Errorf("Jittered = %d, want 1", res.Stats.Jittered)
	}
	if res.Stats.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", res.Stats.Remaining)
	}

	again, err := Run(rects, nil, AlgorithmOverlap, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !slices.Equal(res.Output.Placements, again.Output.Placements) {
		t.Error("same seed produced different placements")
	}
}

func TestConvergence(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 9))
	rects := make([]Rectangle, 25)
	for i := range rects {
		rects[i] = Rectangle{
			Ref:  string(rune('a' + i)),
			Rect: geom.Rect{X: rng.Float64() * 120, Y: rng.Float64() * 120, W: 10 + rng.Float64()*30, H: 10 + rng.Float64()*30},
		}
	}
	cfg := DefaultConfig()
	g, err := Import(rects, cfg)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	stats, err := RemoveOverlaps(g, cfg)
	if err != nil {
		t.Fatalf("RemoveOverlaps: %v", err)
	}
	left := scanline.Naive(g.Nodes())
	if stats.Remaining != len(left) {
		t.Errorf("Remaining = %d, naive check finds %d", stats.Remaining, len(left))
	}
	if stats.CapReached != (len(left) > 0) {
		t.Errorf("CapReached = %v with %d overlaps left", stats.CapReached, len(left))
	}
	if !stats.CapReached && stats.Iterations > cfg.MaxIterations {
		t.Errorf("Iterations = %d exceeds cap", stats.Iterations)
	}
}

func TestIterationCapIsObservable(t *testing.T) {
	var rects []Rectangle
	for i := 0; i < 6; i++ {
		rects = append(rects, Rectangle{
			Ref:  string(rune('a' + i)),
			Rect: geom.Rect{X: float64(i * 3), Y: float64(i * 2), W: 40, H: 40},
		})
	}
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	g, err := Import(rects, cfg)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	stats, err := RemoveOverlaps(g, cfg)
	if err != nil {
		t.Fatalf("RemoveOverlaps: %v", err)
	}
	if stats.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", stats.Iterations)
	}
	if stats.CapReached != (stats.Remaining > 0) {
		t.Errorf("CapReached = %v, Remaining = %d", stats.CapReached, stats.Remaining)
	}
}

func TestObserverPhases(t *testing.T) {
	var rec Recorder
	cfg := DefaultConfig()
	cfg.Observer = rec.Observe
	if _, err := Run(abc(), nil, AlgorithmOverlap, cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []Phase{PhaseImport, PhaseOverlaps, PhaseStructure, PhaseTree, PhaseMoved, PhaseOverlaps, PhaseDone}
	if got := rec.Phases(); !slices.Equal(got, want) {
		t.Errorf("phases = %v, want %v", got, want)
	}
	tree := rec.Checkpoints[3]
	if len(tree.Roots) != 1 || tree.Roots[0] != 1 {
		t.Errorf("roots = %v, want [1]", tree.Roots)
	}
	if len(tree.Tree) != 2 {
		t.Errorf("tree links = %v, want 2", tree.Tree)
	}
	if got := rec.Checkpoints[1].Overlaps; !slices.Equal(got, []geom.Edge{{U: 0, V: 1}}) {
		t.Errorf("overlaps = %v", got)
	}
}

func TestExportRoutes(t *testing.T) {
	links := []Link{
		{ID: "ab", Source: "A", Target: "B"},
		{ID: "loop", Source: "C", Target: "C"},
	}
	res, err := Run(abc(), links, AlgorithmOverlap, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := res.Output
	if len(out.Routes) != 1 {
		t.Fatalf("routes = %v, want 1 (self-loop skipped)", out.Routes)
	}
	r := out.Routes[0]
	if !near(r.From.X, -15) || !near(r.From.Y, -15) || !near(r.To.X, 5) || !near(r.To.Y, 5) {
		t.Errorf("route = %v -> %v, want (-15,-15) -> (5,5)", r.From, r.To)
	}

	c := out.Container
	if !near(c.X, -35-DefaultPadding) || !near(c.MaxX(), 120+DefaultPadding) {
		t.Errorf("container = %v", c)
	}

	_, err = Run(abc(), []Link{{Source: "A", Target: "Z"}}, AlgorithmOverlap, DefaultConfig())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown target error = %v, want invalid input", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative spacing", func(c *Config) { c.Spacing = -1 }},
		{"NaN padding", func(c *Config) { c.Padding = math.NaN() }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"zero jitter", func(c *Config) { c.Jitter = 0 }},
		{"unknown cost", func(c *Config) { c.CostFunction = spanning.CostFunction(42) }},
		{"unknown root selection", func(c *Config) { c.RootSelection = spanning.RootSelection(9) }},
		{"unknown mode", func(c *Config) { c.Mode = 7 }},
		{"unknown policy", func(c *Config) { c.EdgePolicy = 3 }},
		{"root ref without fixed", func(c *Config) { c.RootRef = "a" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want invalid config", err)
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if _, err := Run(abc(), nil, "shuffle", DefaultConfig()); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown algorithm error = %v", err)
	}
	dup := append(abc(), Rectangle{Ref: "A", Rect: geom.Rect{W: 1, H: 1}})
	if _, err := Run(dup, nil, AlgorithmOverlap, DefaultConfig()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate ref error = %v", err)
	}
	neg := []Rectangle{{Ref: "x", Rect: geom.Rect{W: 10, H: 10}, Margin: -2}}
	if _, err := Run(neg, nil, AlgorithmOverlap, DefaultConfig()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative margin error = %v", err)
	}
}

func TestParseEnums(t *testing.T) {
	if a, err := ParseAlgorithm("Overlap+Compact"); err != nil || a != AlgorithmChain {
		t.Errorf("ParseAlgorithm = %q, %v", a, err)
	}
	if p, err := ParseEdgePolicy("overlaps-only"); err != nil || p != OverlapsOnly {
		t.Errorf("ParseEdgePolicy = %v, %v", p, err)
	}
	if _, err := ParseEdgePolicy("intersection"); err == nil {
		t.Error("unknown policy should fail")
	}
}
