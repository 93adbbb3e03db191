package render

import (
	"testing"

	"github.com/matzehuels/spore/pkg/graph"
)

func testLayout() graph.Layout {
	return graph.Layout{
		Name:      "demo",
		Container: graph.Box{X: -10, Y: -20, Width: 100, Height: 60},
		Nodes: []graph.PlacedNode{
			{ID: "A", X: 0, Y: 0, Width: 20, Height: 10},
			{ID: "B", Label: "Bee", X: 50, Y: 10, Width: 30, Height: 20},
		},
		Edges: []graph.RoutedEdge{{Source: "A", Target: "B", X1: 20, Y1: 5, X2: 50, Y2: 20}},
	}
}

func TestNewScene(t *testing.T) {
	sc := NewScene(testLayout(), WithScale(2), WithEdges())

	if sc.Width != 200 || sc.Height != 120 {
		t.Errorf("size = %vx%v, want 200x120", sc.Width, sc.Height)
	}

	tests := []struct {
		i          int
		x, y, w, h float64
		label      string
	}{
		{0, 20, 40, 40, 20, "A"},
		{1, 120, 60, 60, 40, "Bee"},
	}
	for _, tt := range tests {
		b := sc.Boxes[tt.i]
		if b.X != tt.x || b.Y != tt.y || b.Width != tt.w || b.Height != tt.h {
			t.Errorf("Boxes[%d] = %+v, want (%v,%v,%v,%v)", tt.i, b, tt.x, tt.y, tt.w, tt.h)
		}
		if b.Label != tt.label {
			t.Errorf("Boxes[%d].Label = %q, want %q", tt.i, b.Label, tt.label)
		}
	}

	if len(sc.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(sc.Lines))
	}
	if l := sc.Lines[0]; l.X1 != 60 || l.Y1 != 50 || l.X2 != 120 || l.Y2 != 80 {
		t.Errorf("Lines[0] = %+v", l)
	}
}

func TestNewSceneDefaults(t *testing.T) {
	sc := NewScene(testLayout(), WithScale(-3))
	if sc.Options.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", sc.Options.Scale, DefaultScale)
	}
	if len(sc.Lines) != 0 {
		t.Errorf("edges drawn without WithEdges: %d", len(sc.Lines))
	}
}

func TestNewSceneWithoutContainer(t *testing.T) {
	l := testLayout()
	l.Container = graph.Box{}
	sc := NewScene(l)

	if sc.Width != 80 || sc.Height != 30 {
		t.Errorf("size = %vx%v, want 80x30", sc.Width, sc.Height)
	}
	if sc.Boxes[0].X != 0 || sc.Boxes[0].Y != 0 {
		t.Errorf("first box at (%v,%v), want origin", sc.Boxes[0].X, sc.Boxes[0].Y)
	}
}
