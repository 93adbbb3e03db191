package spore

import (
	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/errors"
)

// Rectangle is an input node box.
type Rectangle struct {
	Ref    string    `json:"ref"`
	Rect   geom.Rect `json:"rect"`
	Margin float64   `json:"margin,omitempty"`
}

// Link is an input edge between two rectangles, by reference.
type Link struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Placement is the final box of a node.
type Placement struct {
	Ref  string    `json:"ref"`
	Rect geom.Rect `json:"rect"`
}

// Route is a straight edge between two placed nodes, clipped to both boxes.
type Route struct {
	ID     string      `json:"id,omitempty"`
	Source string      `json:"source"`
	Target string      `json:"target"`
	From   geom.Vertex `json:"from"`
	To     geom.Vertex `json:"to"`
}

// Output is the result written back to the caller.
type Output struct {
	Placements []Placement `json:"placements"`
	Container  geom.Rect   `json:"container"`
	Routes     []Route     `json:"routes"`
}

// Import builds the node graph for rects. Each rectangle is grown by its
// margin plus half the spacing so that touching grown boxes are exactly
// Spacing apart once shrunk back by Export.
func Import(rects []Rectangle, cfg Config) (*model.Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := model.NewGraph(len(rects))
	for _, r := range rects {
		if err := errors.ValidateID(r.Ref); err != nil {
			return nil, err
		}
		if err := errors.ValidateNonNegative("margin of "+r.Ref, r.Margin); err != nil {
			return nil, err
		}
		inset := r.Margin + cfg.Spacing/2
		id, err := g.Add(r.Ref, r.Rect.Expand(inset))
		if err != nil {
			return nil, err
		}
		g.Node(id).Inset = inset
	}
	p := &probe{obs: cfg.Observer, g: g}
	p.emit(PhaseImport, nil)
	return g, nil
}

// Export shrinks every node back to its input size and routes links.
// Links whose endpoints coincide are skipped; links naming unknown nodes
// are an error.
func Export(g *model.Graph, links []Link, cfg Config) (*Output, error) {
	out := &Output{Placements: make([]Placement, g.Len())}
	for i, n := range g.Nodes() {
		out.Placements[i] = Placement{Ref: n.Ref, Rect: n.Rect.Expand(-n.Inset)}
	}

	if len(out.Placements) > 0 {
		box := out.Placements[0].Rect
		for _, pl := range out.Placements[1:] {
			box = box.Union(pl.Rect)
		}
		out.Container = box.Expand(cfg.Padding)
	}

	for _, l := range links {
		src, ok := g.Lookup(l.Source)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown source %q", l.ID, l.Source)
		}
		dst, ok := g.Lookup(l.Target)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown target %q", l.ID, l.Target)
		}
		if src == dst {
			continue
		}
		a, b := out.Placements[src].Rect, out.Placements[dst].Rect
		out.Routes = append(out.Routes, Route{
			ID:     l.ID,
			Source: l.Source,
			Target: l.Target,
			From:   a.Boundary(b.Center()),
			To:     b.Boundary(a.Center()),
		})
	}
	return out, nil
}
