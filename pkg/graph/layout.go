package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/spore"
)

// =============================================================================
// Layout - Layout Output
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// Nodes keep the order of the input diagram. Edges lists every routed edge;
// self-loops have no route and are omitted.
type Layout struct {
	Name      string       `json:"name,omitempty" bson:"name,omitempty"`
	Algorithm string       `json:"algorithm" bson:"algorithm"`
	Container Box          `json:"container" bson:"container"`
	Nodes     []PlacedNode `json:"nodes" bson:"nodes"`
	Edges     []RoutedEdge `json:"edges,omitempty" bson:"edges,omitempty"`
	Stats     LayoutStats  `json:"stats" bson:"stats"`
}

// Box is an axis-aligned rectangle.
type Box struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Rect converts the box to a geometry rectangle.
func (b Box) Rect() geom.Rect { return geom.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height} }

func boxOf(r geom.Rect) Box { return Box{X: r.X, Y: r.Y, Width: r.W, Height: r.H} }

// PlacedNode is a node at its final position.
type PlacedNode struct {
	ID     string  `json:"id" bson:"id"`
	Label  string  `json:"label,omitempty" bson:"label,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *PlacedNode) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Rect returns the node's box.
func (n *PlacedNode) Rect() geom.Rect {
	return geom.Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

// RoutedEdge is a straight edge from (X1, Y1) on the source box to
// (X2, Y2) on the target box.
type RoutedEdge struct {
	ID     string  `json:"id,omitempty" bson:"id,omitempty"`
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	X1     float64 `json:"x1" bson:"x1"`
	Y1     float64 `json:"y1" bson:"y1"`
	X2     float64 `json:"x2" bson:"x2"`
	Y2     float64 `json:"y2" bson:"y2"`
}

// LayoutStats mirrors spore.Stats on the wire.
type LayoutStats struct {
	Iterations     int   `json:"iterations" bson:"iterations"`
	Overlaps       []int `json:"overlaps,omitempty" bson:"overlaps,omitempty"`
	Remaining      int   `json:"remaining" bson:"remaining"`
	CapReached     bool  `json:"cap_reached,omitempty" bson:"cap_reached,omitempty"`
	StructureEdges int   `json:"structure_edges" bson:"structure_edges"`
	Jittered       int   `json:"jittered,omitempty" bson:"jittered,omitempty"`
}

// NewLayout combines a diagram with the core result computed for it.
func NewLayout(d Diagram, alg spore.Algorithm, res *spore.Result) Layout {
	labels := d.Labels()
	out := res.Output
	l := Layout{
		Name:      d.Name,
		Algorithm: string(alg),
		Container: boxOf(out.Container),
		Nodes:     make([]PlacedNode, len(out.Placements)),
		Stats: LayoutStats{
			Iterations:     res.Stats.Iterations,
			Overlaps:       res.Stats.Overlaps,
			Remaining:      res.Stats.Remaining,
			CapReached:     res.Stats.CapReached,
			StructureEdges: res.Stats.StructureEdges,
			Jittered:       res.Stats.Jittered,
		},
	}
	for i, p := range out.Placements {
		label := labels[p.Ref]
		if label == p.Ref {
			label = ""
		}
		l.Nodes[i] = PlacedNode{ID: p.Ref, Label: label, X: p.Rect.X, Y: p.Rect.Y, Width: p.Rect.W, Height: p.Rect.H}
	}
	for _, r := range out.Routes {
		l.Edges = append(l.Edges, RoutedEdge{
			ID: r.ID, Source: r.Source, Target: r.Target,
			X1: r.From.X, Y1: r.From.Y, X2: r.To.X, Y2: r.To.Y,
		})
	}
	return l
}

// Diagram converts the layout back into a diagram at the final positions,
// so it can be laid out again.
func (l *Layout) Diagram() Diagram {
	d := Diagram{Name: l.Name, Nodes: make([]Node, len(l.Nodes))}
	for i, n := range l.Nodes {
		d.Nodes[i] = Node{ID: n.ID, Label: n.Label, X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
	}
	for _, e := range l.Edges {
		d.Edges = append(d.Edges, Edge{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	return d
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Every edge must reference a node of the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return Layout{}, fmt.Errorf("layout node without id")
		}
		ids[n.ID] = true
	}
	for _, e := range l.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return Layout{}, fmt.Errorf("layout edge %s -> %s references unknown node", e.Source, e.Target)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
