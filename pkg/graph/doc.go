// Package graph provides the serialization types for diagrams and layouts.
//
// This package defines the canonical wire format for spore's data, used for
// JSON files, API requests and responses, caching and run records.
//
// # Architecture
//
// The package sits at the boundary between the layout core and external
// formats:
//
//   - [Diagram], [Layout]: Serialization types (this package)
//   - pkg/core/spore.Rectangle, spore.Link: Input to the layout core
//   - pkg/core/spore.Result: Output of the layout core
//
// Use [Diagram.Rectangles], [Diagram.Links] and [NewLayout] to convert
// between them.
//
// # Diagram Serialization
//
// Diagrams list positioned node boxes and the edges between them:
//
//	{
//	  "nodes": [
//	    {"id": "a", "x": 0, "y": 0, "width": 20, "height": 20},
//	    {"id": "b", "x": 5, "y": 5, "width": 20, "height": 20}
//	  ],
//	  "edges": [{"source": "a", "target": "b"}]
//	}
//
// Common operations:
//
//	d, _ := graph.ReadDiagramFile("diagram.json")  // File → Diagram
//	graph.WriteDiagramFile(d, "out.json")          // Diagram → File
//	data, _ := graph.MarshalDiagram(d)             // Diagram → []byte
//
// # Layout Serialization
//
// A [Layout] holds the final node boxes, the routed edges, the container
// box and the run statistics:
//
//	layout, _ := graph.UnmarshalLayout(data)
//	for _, n := range layout.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y)
//	}
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
