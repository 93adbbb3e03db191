package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a closed line segment from P to Q.
type Segment struct {
	P, Q Vertex
}

// SegmentDistance returns how far a can travel along dir before it hits b.
// dir need not be normalized; the result is measured in multiples of dir.
// It returns +Inf when a can move along dir forever without meeting b, and
// 0 when the two already touch in a way that blocks motion.
func SegmentDistance(a, b Segment, dir Vertex) float64 {
	back := r2.Scale(-1, dir)
	return min(
		rayHit(a.P, dir, b),
		rayHit(a.Q, dir, b),
		rayHit(b.P, back, a),
		rayHit(b.Q, back, a),
	)
}

// rayHit casts a ray from p along dir and returns the smallest t >= 0 with
// p + t·dir on s, or +Inf if the ray misses.
func rayHit(p, dir Vertex, s Segment) float64 {
	e := r2.Sub(s.Q, s.P)
	w := r2.Sub(s.P, p)
	denom := r2.Cross(dir, e)

	if math.Abs(denom) <= Fuzz*math.Max(1, r2.Norm(dir)*r2.Norm(e)) {
		return parallelHit(p, dir, s, w)
	}

	t := r2.Cross(w, e) / denom
	u := r2.Cross(w, dir) / denom
	if t < -Fuzz || u < -Fuzz || u > 1+Fuzz {
		return math.Inf(1)
	}
	return math.Max(t, 0)
}

// parallelHit handles a ray parallel to s. Only a collinear ray can hit it,
// at the nearest endpoint ahead of p, or immediately if p lies on s.
func parallelHit(p, dir Vertex, s Segment, w Vertex) float64 {
	dd := r2.Norm2(dir)
	if dd == 0 {
		return math.Inf(1)
	}
	if math.Abs(r2.Cross(w, dir)) > Fuzz*math.Max(1, math.Sqrt(dd)*r2.Norm(w)) {
		return math.Inf(1)
	}
	tp := r2.Dot(r2.Sub(s.P, p), dir) / dd
	tq := r2.Dot(r2.Sub(s.Q, p), dir) / dd
	lo, hi := math.Min(tp, tq), math.Max(tp, tq)
	switch {
	case hi < -Fuzz:
		return math.Inf(1)
	case lo <= Fuzz:
		return 0
	default:
		return lo
	}
}
