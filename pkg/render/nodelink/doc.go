// Package nodelink exports layouts as Graphviz graphs.
//
// # Overview
//
// [ToDOT] writes every node with a pinned position (pos="x,y!") and fixed
// size, so Graphviz draws the layout exactly as computed instead of placing
// nodes itself. Edges become straight arrows between the boxes.
//
// # Usage
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT text can also be saved and processed with the Graphviz tools:
//
//	neato -n2 -Tpng layout.dot -o layout.png
//
// # Dependencies
//
// [RenderSVG] and [RenderPNG] run Graphviz in-process through
// [github.com/goccy/go-graphviz] with the neato engine.
package nodelink
