// Package spore drives overlap removal and compaction of rectangular node
// boxes (SPOrE: Shrink, Prune and Overlap Removal via spanning trEes).
//
// # Pipeline
//
// A run has three stages:
//
//  1. [Import] turns input rectangles into a model.Graph, growing each box by
//     its margin plus half the node spacing.
//  2. [RemoveOverlaps] and/or [Compact] move the nodes.
//  3. [Export] shrinks the boxes back, computes the container box and routes
//     every link as a straight segment clipped to both boxes.
//
// [Run] chains the three for a chosen [Algorithm].
//
// # Overlap Removal
//
// Each pass finds all overlapping pairs (scanline or naive), triangulates
// the node centers, adds the overlap pairs to the triangulation edges and
// builds a spanning tree rooted at the most central node using the
// inverted-overlap cost, so the deepest overlaps are resolved first. The
// tree is then grown top-down: every child overlapping its parent is pushed
// away along the center line with its whole subtree. Passes repeat until no
// overlaps are left or [Config.MaxIterations] is reached, which
// [Stats.CapReached] reports.
//
// The structure is rebuilt from scratch on every pass.
//
// # Compaction
//
// A single pass triangulates the centers, spans them with the configured
// cost function and root, and shrinks the tree depth-first so that each
// subtree is pulled as close to its parent as the rest of the drawing
// allows (see package compact).
//
// # Instrumentation
//
// Setting [Config.Observer] delivers a [Checkpoint] at every phase of a
// run. [Recorder] collects them for later inspection.
package spore
