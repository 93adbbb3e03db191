package sink

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/spore/pkg/render"
)

// mmPerUnit converts scene units (points) to canvas millimeters.
const mmPerUnit = 25.4 / 72

var (
	labelFontOnce sync.Once
	labelFont     *canvas.FontFamily
)

// systemFont loads a sans-serif system font for labels. It returns nil when
// no font is installed; labels are then left out of the PDF.
func systemFont() *canvas.FontFamily {
	labelFontOnce.Do(func() {
		family := canvas.NewFontFamily("spore")
		if err := family.LoadSystemFont("sans-serif", canvas.FontRegular); err == nil {
			labelFont = family
		}
	})
	return labelFont
}

// RenderPDF draws the scene as a single-page PDF sized to the frame.
func RenderPDF(sc render.Scene) ([]byte, error) {
	s := sc.Options.Scale
	w, h := sc.Width*mmPerUnit, sc.Height*mmPerUnit

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(canvas.Hex(render.ColorBackground))
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))

	if sc.Options.ShowContainer {
		b := sc.Container
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(canvas.Hex(render.ColorContainer))
		ctx.SetStrokeWidth(render.StrokeWidth * s * mmPerUnit)
		ctx.DrawPath(b.X*mmPerUnit, b.Y*mmPerUnit, canvas.Rectangle(b.Width*mmPerUnit, b.Height*mmPerUnit))
	}

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Hex(render.ColorEdge))
	ctx.SetStrokeWidth(render.EdgeWidth * s * mmPerUnit)
	for _, l := range sc.Lines {
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo((l.X2-l.X1)*mmPerUnit, (l.Y2-l.Y1)*mmPerUnit)
		ctx.DrawPath(l.X1*mmPerUnit, l.Y1*mmPerUnit, p)
	}

	ctx.SetFillColor(canvas.Hex(render.ColorFill))
	ctx.SetStrokeColor(canvas.Hex(render.ColorStroke))
	ctx.SetStrokeWidth(render.StrokeWidth * s * mmPerUnit)
	for _, b := range sc.Boxes {
		ctx.DrawPath(b.X*mmPerUnit, b.Y*mmPerUnit, canvas.Rectangle(b.Width*mmPerUnit, b.Height*mmPerUnit))
	}

	if family := systemFont(); sc.Options.ShowLabels && family != nil {
		face := family.Face(render.FontSize*s, canvas.Hex(render.ColorText), canvas.FontRegular, canvas.FontNormal)
		for _, b := range sc.Boxes {
			cx, cy := b.Center()
			line := canvas.NewTextLine(face, b.Label, canvas.Center)
			ctx.DrawText(cx*mmPerUnit, cy*mmPerUnit, line)
		}
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
