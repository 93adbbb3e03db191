package scanline

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/errors"
)

func graphOf(t *testing.T, rects ...geom.Rect) *model.Graph {
	t.Helper()
	g := model.NewGraph(len(rects))
	for i, r := range rects {
		if _, err := g.Add(string(rune('a'+i)), r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return g
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name  string
		rects []geom.Rect
		want  []geom.Edge
	}{
		{
			name:  "single overlap",
			rects: []geom.Rect{{X: 0, Y: 0, W: 20, H: 20}, {X: 5, Y: 5, W: 20, H: 20}, {X: 100, Y: 100, W: 20, H: 20}},
			want:  []geom.Edge{{U: 0, V: 1}},
		},
		{
			name:  "shared horizontal boundary",
			rects: []geom.Rect{{X: 0, Y: 0, W: 20, H: 20}, {X: 0, Y: 20, W: 20, H: 20}},
			want:  nil,
		},
		{
			name:  "shared vertical boundary",
			rects: []geom.Rect{{X: 0, Y: 0, W: 20, H: 20}, {X: 20, Y: 5, W: 20, H: 20}},
			want:  nil,
		},
		{
			// The narrow node sits between the wide node's left edge and the
			// entering node; scanning must not stop at it.
			name: "wide rectangle skips narrow one",
			rects: []geom.Rect{
				{X: 0, Y: 0, W: 100, H: 50},
				{X: 10, Y: 0, W: 5, H: 50},
				{X: 60, Y: 10, W: 20, H: 20},
			},
			want: []geom.Edge{{U: 0, V: 1}, {U: 0, V: 2}},
		},
		{
			name: "stack",
			rects: []geom.Rect{
				{X: 0, Y: 0, W: 30, H: 30},
				{X: 10, Y: 10, W: 30, H: 30},
				{X: 20, Y: 20, W: 30, H: 30},
			},
			want: []geom.Edge{{U: 0, V: 1}, {U: 0, V: 2}, {U: 1, V: 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.rects...)
			got, err := Overlaps(g.Nodes())
			if err != nil {
				t.Fatalf("Overlaps: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if naive := Naive(g.Nodes()); !slices.Equal(naive, tt.want) {
				t.Errorf("Naive = %v, want %v", naive, tt.want)
			}
		})
	}
}

func TestOverlapsMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	rects := make([]geom.Rect, 80)
	for i := range rects {
		rects[i] = geom.Rect{
			X: float64(rng.IntN(400)),
			Y: float64(rng.IntN(400)),
			W: float64(5 + rng.IntN(60)),
			H: float64(5 + rng.IntN(60)),
		}
	}
	g := model.NewGraph(len(rects))
	for i, r := range rects {
		if _, err := g.Add(string(rune(0x100+i)), r); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Overlaps(g.Nodes())
	if err != nil {
		t.Fatalf("Overlaps: %v", err)
	}
	want := Naive(g.Nodes())
	if !slices.Equal(got, want) {
		t.Errorf("scanline found %d pairs, naive found %d", len(got), len(want))
	}
}

func TestDetectZeroHeight(t *testing.T) {
	g := graphOf(t, geom.Rect{X: 0, Y: 10, W: 20, H: 0})
	err := Detect(g.Nodes(), func(a, b *model.Node) {})
	if !errors.Is(err, errors.ErrCodeInternalConsistency) {
		t.Errorf("error = %v, want internal consistency", err)
	}
}

func TestDetectDuplicateNode(t *testing.T) {
	g := graphOf(t, geom.Rect{X: 0, Y: 0, W: 20, H: 20})
	n := g.Node(0)
	err := Detect([]*model.Node{n, n}, func(a, b *model.Node) {})
	if !errors.Is(err, errors.ErrCodeInternalConsistency) {
		t.Errorf("error = %v, want internal consistency", err)
	}
}
