package geom

import (
	"math"
	"testing"

	"github.com/matzehuels/spore/pkg/errors"
)

func TestNewEdgeNormalizes(t *testing.T) {
	tests := []struct {
		a, b int
		want Edge
	}{
		{1, 2, Edge{1, 2}},
		{2, 1, Edge{1, 2}},
		{0, 7, Edge{0, 7}},
	}
	for _, tt := range tests {
		if got := NewEdge(tt.a, tt.b); got != tt.want {
			t.Errorf("NewEdge(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
	if NewEdge(3, 5) != NewEdge(5, 3) {
		t.Error("NewEdge should be symmetric")
	}
}

func TestEdgeOther(t *testing.T) {
	e := NewEdge(4, 9)
	if got := e.Other(4); got != 9 {
		t.Errorf("Other(4) = %d, want 9", got)
	}
	if got := e.Other(9); got != 4 {
		t.Errorf("Other(9) = %d, want 4", got)
	}
	if !e.Has(4) || e.Has(5) {
		t.Error("Has returned wrong membership")
	}
}

func TestEdgeValid(t *testing.T) {
	tests := []struct {
		e    Edge
		want bool
	}{
		{Edge{0, 1}, true},
		{Edge{1, 1}, false},
		{Edge{2, 1}, false},
		{Edge{-1, 1}, false},
	}
	for _, tt := range tests {
		if got := tt.e.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.e, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(Vertex{X: 0, Y: 0}, Vertex{X: 3, Y: 4}); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestUnit(t *testing.T) {
	u, ok := Unit(Vertex{X: 0, Y: -2})
	if !ok || u != (Vertex{X: 0, Y: -1}) {
		t.Errorf("Unit = %v, %v, want (0,-1), true", u, ok)
	}
	if _, ok := Unit(Vertex{}); ok {
		t.Error("Unit of zero vector should fail")
	}
}

// =============================================================================
// Triangle
// =============================================================================

func TestNewTriangleCircumcircle(t *testing.T) {
	pts := []Vertex{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}}
	tri, err := NewTriangle(pts, 0, 1, 2)
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}
	if math.Abs(tri.Center.X-2) > 1e-9 || math.Abs(tri.Center.Y-2) > 1e-9 {
		t.Errorf("Center = %v, want (2,2)", tri.Center)
	}
	if want := math.Sqrt(8); math.Abs(tri.Radius-want) > 1e-9 {
		t.Errorf("Radius = %v, want %v", tri.Radius, want)
	}
}

func TestNewTriangleCollinear(t *testing.T) {
	pts := []Vertex{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	_, err := NewTriangle(pts, 0, 1, 2)
	if err == nil {
		t.Fatal("expected error for collinear points")
	}
	if !errors.Is(err, errors.ErrCodeDegenerateGeometry) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeDegenerateGeometry)
	}
}

func TestNewTriangleRepeatedVertex(t *testing.T) {
	pts := []Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}}
	if _, err := NewTriangle(pts, 0, 1, 1); err == nil {
		t.Error("expected error for repeated vertex")
	}
}

func TestInCircumcircle(t *testing.T) {
	pts := []Vertex{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	tri, err := NewTriangle(pts, 0, 1, 2)
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}
	tests := []struct {
		name string
		p    Vertex
		want bool
	}{
		{"center", Vertex{X: 0, Y: 0}, true},
		{"inside", Vertex{X: 0.5, Y: -0.5}, true},
		{"on circle", Vertex{X: 0, Y: -1}, false},
		{"outside", Vertex{X: 2, Y: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tri.InCircumcircle(tt.p); got != tt.want {
				t.Errorf("InCircumcircle(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestTriangleKeyAndEdges(t *testing.T) {
	a := Triangle{A: 5, B: 1, C: 3}
	b := Triangle{A: 3, B: 5, C: 1}
	if a.Key() != b.Key() {
		t.Errorf("Key mismatch: %v vs %v", a.Key(), b.Key())
	}
	want := map[Edge]bool{{1, 5}: true, {1, 3}: true, {3, 5}: true}
	for _, e := range a.Edges() {
		if !want[e] {
			t.Errorf("unexpected edge %v", e)
		}
	}
}

// =============================================================================
// Rect
// =============================================================================

func TestRectAccessors(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	if c := r.Center(); c != (Vertex{X: 25, Y: 40}) {
		t.Errorf("Center = %v, want (25,40)", c)
	}
	if r.MaxX() != 40 || r.MaxY() != 60 {
		t.Errorf("Max = (%v,%v), want (40,60)", r.MaxX(), r.MaxY())
	}
	if got := RectAt(Vertex{X: 25, Y: 40}, 30, 40); got != r {
		t.Errorf("RectAt = %v, want %v", got, r)
	}
}

func TestRectExpandAndUnion(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	if got := r.Expand(5); got != (Rect{X: -5, Y: -5, W: 20, H: 20}) {
		t.Errorf("Expand = %v", got)
	}
	u := r.Union(Rect{X: 20, Y: -10, W: 5, H: 5})
	if u != (Rect{X: 0, Y: -10, W: 25, H: 20}) {
		t.Errorf("Union = %v", u)
	}
}

func TestRectOverlapExtent(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 6, Y: 8, W: 10, H: 10}
	ox, oy := a.OverlapExtent(b)
	if ox != 4 || oy != 2 {
		t.Errorf("OverlapExtent = (%v,%v), want (4,2)", ox, oy)
	}
}

func TestRectBoundary(t *testing.T) {
	r := Rect{X: -10, Y: -5, W: 20, H: 10}
	tests := []struct {
		target, want Vertex
	}{
		{Vertex{X: 100, Y: 0}, Vertex{X: 10, Y: 0}},
		{Vertex{X: 0, Y: -50}, Vertex{X: 0, Y: -5}},
		{Vertex{X: 20, Y: 20}, Vertex{X: 5, Y: 5}},
		{Vertex{X: 0, Y: 0}, Vertex{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		if got := r.Boundary(tt.target); math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("Boundary(%v) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

// =============================================================================
// SegmentDistance
// =============================================================================

func TestSegmentDistance(t *testing.T) {
	vertical := func(x, y0, y1 float64) Segment {
		return Segment{P: Vertex{X: x, Y: y0}, Q: Vertex{X: x, Y: y1}}
	}
	right := Vertex{X: 1, Y: 0}
	tests := []struct {
		name string
		a, b Segment
		dir  Vertex
		want float64
	}{
		{"facing parallel", vertical(0, 0, 10), vertical(5, 0, 10), right, 5},
		{"partial overlap", vertical(0, 0, 10), vertical(5, 8, 20), right, 5},
		{"b inside a span", vertical(0, 0, 10), vertical(3, 4, 6), right, 3},
		{"moving away", vertical(0, 0, 10), vertical(5, 0, 10), Vertex{X: -1, Y: 0}, math.Inf(1)},
		{"no vertical overlap", vertical(0, 0, 10), vertical(5, 20, 30), right, math.Inf(1)},
		{"scaled direction", vertical(0, 0, 10), vertical(6, 0, 10), Vertex{X: 2, Y: 0}, 3},
		{
			"collinear ahead",
			Segment{P: Vertex{X: 0, Y: 0}, Q: Vertex{X: 2, Y: 0}},
			Segment{P: Vertex{X: 5, Y: 0}, Q: Vertex{X: 9, Y: 0}},
			right, 3,
		},
		{
			"collinear behind",
			Segment{P: Vertex{X: 0, Y: 0}, Q: Vertex{X: 2, Y: 0}},
			Segment{P: Vertex{X: -9, Y: 0}, Q: Vertex{X: -5, Y: 0}},
			right, math.Inf(1),
		},
		{"already touching", vertical(0, 0, 10), vertical(0, 5, 15), right, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentDistance(tt.a, tt.b, tt.dir)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("SegmentDistance = %v, want +Inf", got)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SegmentDistance = %v, want %v", got, tt.want)
			}
		})
	}
}
