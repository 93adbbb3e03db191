package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an axis-aligned rectangle with its top-left corner at (X, Y).
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectAt returns the rectangle of size w×h centered on c.
func RectAt(c Vertex, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the midpoint of r.
func (r Rect) Center() Vertex {
	return Vertex{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// HalfDiagonal returns the radius of the circle circumscribing r.
func (r Rect) HalfDiagonal() float64 {
	return math.Hypot(r.W, r.H) / 2
}

// Translate returns r moved by d.
func (r Rect) Translate(d Vertex) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Expand returns r grown by e on every side. Negative e shrinks it.
func (r Rect) Expand(e float64) Rect {
	return Rect{X: r.X - e, Y: r.Y - e, W: r.W + 2*e, H: r.H + 2*e}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX, minY := math.Min(r.MinX(), o.MinX()), math.Min(r.MinY(), o.MinY())
	maxX, maxY := math.Max(r.MaxX(), o.MaxX()), math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Segments returns the four sides of r: top, right, bottom, left.
func (r Rect) Segments() [4]Segment {
	tl := Vertex{X: r.MinX(), Y: r.MinY()}
	tr := Vertex{X: r.MaxX(), Y: r.MinY()}
	br := Vertex{X: r.MaxX(), Y: r.MaxY()}
	bl := Vertex{X: r.MinX(), Y: r.MaxY()}
	return [4]Segment{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
}

// OverlapExtent returns how far r and o intersect along each axis.
// A non-positive value means the projections are disjoint (or just touch)
// on that axis.
func (r Rect) OverlapExtent(o Rect) (ox, oy float64) {
	ox = math.Min(r.MaxX(), o.MaxX()) - math.Max(r.MinX(), o.MinX())
	oy = math.Min(r.MaxY(), o.MaxY()) - math.Max(r.MinY(), o.MinY())
	return ox, oy
}

// Boundary returns the point where the ray from r's center towards target
// leaves r. If target coincides with the center, the center is returned.
func (r Rect) Boundary(target Vertex) Vertex {
	c := r.Center()
	d := r2.Sub(target, c)
	t := math.Inf(1)
	if math.Abs(d.X) > Fuzz {
		t = math.Min(t, (r.W/2)/math.Abs(d.X))
	}
	if math.Abs(d.Y) > Fuzz {
		t = math.Min(t, (r.H/2)/math.Abs(d.Y))
	}
	if math.IsInf(t, 1) {
		return c
	}
	return r2.Add(c, r2.Scale(t, d))
}
