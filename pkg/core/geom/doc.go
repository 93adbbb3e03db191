// Package geom provides the planar primitives shared by the layout core.
//
// Vertices are gonum [r2.Vec] values. Edges and triangles refer to vertices
// by stable integer index instead of by coordinate, so they can be used as
// map keys without floating-point aliasing: an [Edge] is normalized with
// U < V and therefore compares and hashes symmetrically.
//
// # Coordinate System
//
// All rectangles use screen coordinates: X grows to the right and Y grows
// downward, so a [Rect]'s top edge is at Y and its bottom edge at Y+H.
//
// # Tolerances
//
// Comparisons that decide touching, overlapping or circumcircle membership
// use [Fuzz] as an absolute tolerance (scaled by the circumradius for the
// circumcircle test). Constructors that would otherwise divide by a value
// close to zero return an error carrying errors.ErrCodeDegenerateGeometry.
package geom
