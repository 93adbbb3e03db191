package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/spore/pkg/graph"
	"github.com/matzehuels/spore/pkg/render"
)

// pointsPerInch converts layout units (points) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT export.
type Options struct {
	// Detailed adds the node size to each label.
	Detailed bool
	// Directed draws edges as arrows.
	Directed bool
}

// ToDOT converts a layout to Graphviz DOT with every node pinned in place.
// Graphviz's y axis points up, so y coordinates are negated.
func ToDOT(l graph.Layout, opts Options) string {
	kind, arrow := "graph", "--"
	if opts.Directed {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %q {\n", kind, graphName(l))
	buf.WriteString("  graph [layout=neato, splines=line, outputorder=edgesfirst, bgcolor=\"transparent\"];\n")
	fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, style=filled, fillcolor=%q, color=%q, fontcolor=%q, fontsize=%s];\n",
		render.ColorFill, render.ColorStroke, render.ColorText, num(render.FontSize))
	fmt.Fprintf(&buf, "  edge [color=%q];\n", render.ColorEdge)
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		cx, cy := n.X+n.Width/2, n.Y+n.Height/2
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%s,%s!\", width=%s, height=%s];\n",
			n.ID, fmtLabel(n, opts.Detailed),
			num(cx), num(-cy),
			num(n.Width/pointsPerInch), num(n.Height/pointsPerInch))
	}

	if len(l.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %q %s %q;\n", e.Source, arrow, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func graphName(l graph.Layout) string {
	if l.Name == "" {
		return "spore"
	}
	return l.Name
}

func fmtLabel(n graph.PlacedNode, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	return fmt.Sprintf("%s\n%s x %s", n.DisplayLabel(), num(n.Width), num(n.Height))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders DOT to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT to PNG with the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
