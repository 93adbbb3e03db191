// Package render turns a computed layout into pictures.
//
// # Overview
//
// Every output format starts from a [Scene]: the layout's boxes and routed
// edges moved so that the container's top-left corner sits at the origin and
// multiplied by the scale factor. Sinks then draw the scene:
//
//   - [sink]: SVG (svgo), PNG (gg), PDF (tdewolff/canvas) and JSON
//   - [nodelink]: Graphviz DOT with every node pinned at its position
//
// # Usage
//
//	sc := render.NewScene(layout, render.WithScale(2), render.WithLabels())
//	svg := sink.RenderSVG(sc)
//	png, err := sink.RenderPNG(sc)
//
// [sink]: github.com/matzehuels/spore/pkg/render/sink
// [nodelink]: github.com/matzehuels/spore/pkg/render/nodelink
package render
