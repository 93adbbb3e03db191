// Package pkg provides the core libraries for Spore overlap removal and
// compaction.
//
// # Overview
//
// Spore tidies node diagrams. Overlap removal pushes intersecting boxes apart
// along the lines between their centers, so the drawing keeps its shape;
// compaction pulls a spread-out drawing back together without creating new
// overlaps. Both work on a spanning tree of a proximity graph. The pkg
// directory is organized into four main areas:
//
//  1. [core] - Geometry and algorithms (triangulation, spanning trees, moves)
//  2. [graph] and [dsl] - Serialization of diagrams and layouts
//  3. [pipeline] - Orchestration (load → layout → render) with caching
//  4. [cache], [store], [config], [api] - Infrastructure around the pipeline
//
// # Architecture
//
// The typical data flow through Spore:
//
//	.spore / JSON diagram
//	         ↓
//	    [dsl] / [graph] (parse and validate)
//	         ↓
//	    [core/spore] (import, remove overlaps, compact, export)
//	         ↓
//	    [graph] Layout
//	         ↓
//	    [render] (SVG/PNG/PDF/JSON/DOT)
//
// # Quick Start
//
//	d, _ := pipeline.LoadDiagram("diagram.spore")
//	l, _ := pipeline.ComputeLayout(d, pipeline.Options{Algorithm: "overlap"})
//	files, _ := pipeline.Render(ctx, l, pipeline.Options{Formats: []string{"svg"}})
//
// # Main Packages
//
// ## Core
//
// [core/geom] - Points, rectangles, segments and triangles.
//
// [core/model] - The node arena: integer node IDs, current and original
// boxes.
//
// [core/delaunay] - Bowyer-Watson triangulation of node centers.
//
// [core/scanline] - Sweep-line overlap detection.
//
// [core/spanning] - Greedy spanning trees with pluggable cost functions and
// root selection.
//
// [core/compact] - Grow (overlap removal) and Shrink (compaction) along a
// tree.
//
// [core/spore] - The driver tying the above together, with an optional
// observer for stepping through a run.
//
// ## Infrastructure
//
// [pipeline] - The layout and render pipeline shared by the CLI and the HTTP
// API, with result caching and run recording.
//
// [cache] - File and Redis result caches. [store] - File and MongoDB run
// history.
//
// [observability] - Hooks for metrics and tracing around the pipeline.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/spore/...         # Specific package
//	go test -run Example                 # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/core
// [core/geom]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/core/geom
// [core/model]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/core/model
// [core/delaunay]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/core/delaunay
// [core/scanline]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/core/scanline
// [core/spanning]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/core/spanning
// [core/compact]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/core/compact
// [core/spore]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/core/spore
// [graph]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/graph
// [dsl]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/dsl
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/spore/pkg/observability
package pkg
