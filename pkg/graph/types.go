package graph

import (
	"fmt"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/spore"
	"github.com/matzehuels/spore/pkg/errors"
)

// =============================================================================
// Diagram - Layout Input
// =============================================================================

// Diagram is the canonical serialization format for layout input.
type Diagram struct {
	Name    string  `json:"name,omitempty" bson:"name,omitempty"`
	Padding float64 `json:"padding,omitempty" bson:"padding,omitempty"` // Overrides the configured padding when > 0
	Nodes   []Node  `json:"nodes" bson:"nodes"`
	Edges   []Edge  `json:"edges,omitempty" bson:"edges,omitempty"`
}

// Node is a positioned box in a diagram.
type Node struct {
	ID     string  `json:"id" bson:"id"`
	Label  string  `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Margin float64 `json:"margin,omitempty" bson:"margin,omitempty"` // Extra clearance around this node
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Rect returns the node's box.
func (n *Node) Rect() geom.Rect {
	return geom.Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

// Edge connects two nodes by ID.
type Edge struct {
	ID     string `json:"id,omitempty" bson:"id,omitempty"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks that node IDs are valid and unique, that every box has a
// finite non-negative size and that every edge names known nodes.
func (d *Diagram) Validate() error {
	if err := errors.ValidateNonNegative("padding", d.Padding); err != nil {
		return err
	}
	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := errors.ValidateID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		for _, f := range []struct {
			name string
			v    float64
			pos  bool
		}{
			{"x", n.X, false},
			{"y", n.Y, false},
			{"width", n.Width, true},
			{"height", n.Height, true},
			{"margin", n.Margin, true},
		} {
			field := fmt.Sprintf("node %q %s", n.ID, f.name)
			var err error
			if f.pos {
				err = errors.ValidateNonNegative(field, f.v)
			} else {
				err = errors.ValidateFinite(field, f.v)
			}
			if err != nil {
				return err
			}
		}
	}
	for _, e := range d.Edges {
		if !seen[e.Source] {
			return errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown source %q", e.ID, e.Source)
		}
		if !seen[e.Target] {
			return errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown target %q", e.ID, e.Target)
		}
	}
	return nil
}

// =============================================================================
// Diagram ↔ Core Conversion
// =============================================================================

// Rectangles converts the nodes to layout core input, in diagram order.
func (d *Diagram) Rectangles() []spore.Rectangle {
	rects := make([]spore.Rectangle, len(d.Nodes))
	for i, n := range d.Nodes {
		rects[i] = spore.Rectangle{Ref: n.ID, Rect: n.Rect(), Margin: n.Margin}
	}
	return rects
}

// Links converts the edges to layout core input.
func (d *Diagram) Links() []spore.Link {
	links := make([]spore.Link, len(d.Edges))
	for i, e := range d.Edges {
		links[i] = spore.Link{ID: e.ID, Source: e.Source, Target: e.Target}
	}
	return links
}

// Labels maps node IDs to display labels.
func (d *Diagram) Labels() map[string]string {
	labels := make(map[string]string, len(d.Nodes))
	for i := range d.Nodes {
		labels[d.Nodes[i].ID] = d.Nodes[i].DisplayLabel()
	}
	return labels
}
