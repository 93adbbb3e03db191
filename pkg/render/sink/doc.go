// Package sink writes a [render.Scene] in concrete output formats.
//
//   - [RenderSVG]: scalable vector graphics via github.com/ajstarks/svgo
//   - [RenderPNG]: raster image via github.com/fogleman/gg
//   - [RenderPDF]: vector document via github.com/tdewolff/canvas
//   - [RenderJSON]: the layout document itself
//
// All sinks draw in the same order: background, container, edges, boxes,
// labels. Labels are centered in their box and never wrapped.
package sink
