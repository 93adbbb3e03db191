package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/matzehuels/spore/pkg/render"
)

// RenderPNG rasterizes the scene. One scene unit is one pixel, so the
// scene's scale sets the resolution.
func RenderPNG(sc render.Scene) ([]byte, error) {
	s := sc.Options.Scale
	dc := gg.NewContext(int(sc.Width), int(sc.Height))
	dc.SetHexColor(render.ColorBackground)
	dc.Clear()

	if sc.Options.ShowContainer {
		c := sc.Container
		dc.SetDash(4*s, 2*s)
		dc.SetLineWidth(render.StrokeWidth * s)
		dc.SetHexColor(render.ColorContainer)
		dc.DrawRectangle(c.X, c.Y, c.Width, c.Height)
		dc.Stroke()
		dc.SetDash()
	}

	dc.SetLineWidth(render.EdgeWidth * s)
	dc.SetHexColor(render.ColorEdge)
	for _, l := range sc.Lines {
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}

	dc.SetLineWidth(render.StrokeWidth * s)
	for _, b := range sc.Boxes {
		dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
		dc.SetHexColor(render.ColorFill)
		dc.FillPreserve()
		dc.SetHexColor(render.ColorStroke)
		dc.Stroke()
	}

	if sc.Options.ShowLabels {
		dc.SetHexColor(render.ColorText)
		for _, b := range sc.Boxes {
			cx, cy := b.Center()
			dc.DrawStringAnchored(b.Label, cx, cy, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
