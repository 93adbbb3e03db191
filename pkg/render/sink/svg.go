package sink

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/spore/pkg/render"
)

// RenderSVG draws the scene as a standalone SVG document.
func RenderSVG(sc render.Scene) []byte {
	var buf bytes.Buffer
	s := sc.Options.Scale

	canvas := svg.New(&buf)
	canvas.Start(sc.Width, sc.Height)
	if sc.Name != "" {
		canvas.Title(sc.Name)
	}
	canvas.Rect(0, 0, sc.Width, sc.Height, "fill:"+render.ColorBackground)

	if sc.Options.ShowContainer {
		c := sc.Container
		canvas.Rect(c.X, c.Y, c.Width, c.Height,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f;stroke-dasharray:4,2", render.ColorContainer, render.StrokeWidth*s))
	}

	if len(sc.Lines) > 0 {
		canvas.Gstyle(fmt.Sprintf("stroke:%s;stroke-width:%.2f", render.ColorEdge, render.EdgeWidth*s))
		for _, l := range sc.Lines {
			canvas.Line(l.X1, l.Y1, l.X2, l.Y2)
		}
		canvas.Gend()
	}

	canvas.Gstyle(fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.2f", render.ColorFill, render.ColorStroke, render.StrokeWidth*s))
	for _, b := range sc.Boxes {
		canvas.Rect(b.X, b.Y, b.Width, b.Height, fmt.Sprintf(`id="node-%s"`, b.ID))
	}
	canvas.Gend()

	if sc.Options.ShowLabels {
		canvas.Gstyle(fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%.1fpx;text-anchor:middle;dominant-baseline:central", render.ColorText, render.FontSize*s))
		for _, b := range sc.Boxes {
			cx, cy := b.Center()
			canvas.Text(cx, cy, b.Label)
		}
		canvas.Gend()
	}

	canvas.End()
	return buf.Bytes()
}
