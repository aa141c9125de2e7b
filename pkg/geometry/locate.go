package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// intersectEps absorbs rounding in orientation tests.
const intersectEps = 1e-12

// Location is the position of the point of a polyline closest to a query point.
type Location struct {
	Segment  int     // index of the first vertex of the segment
	T        float64 // parameter within the segment, in [0, 1]
	Along    float64 // length from the line start to the located point
	Fraction float64 // Along over the line length, 0 for degenerate lines
	Distance float64 // distance from the query point
}

// Locate returns the point of the line closest to p. Ties keep the earliest segment.
func (l Line2) Locate(p r2.Vec) Location {
	best := Location{Distance: math.Inf(1)}
	var along float64
	for i := 0; i+1 < len(l); i++ {
		a, b := l[i], l[i+1]
		ab := r2.Sub(b, a)
		segLen := r2.Norm(ab)
		var t float64
		if segLen > 0 {
			t = clamp01(r2.Dot(r2.Sub(p, a), ab) / (segLen * segLen))
		}
		d := r2.Norm(r2.Sub(p, lerp2(a, b, t)))
		if d < best.Distance {
			best = Location{Segment: i, T: t, Along: along + t*segLen, Distance: d}
		}
		along += segLen
	}
	if len(l) == 1 {
		best = Location{Distance: r2.Norm(r2.Sub(p, l[0]))}
	}
	if along > 0 {
		best.Fraction = best.Along / along
	}
	return best
}

// At returns the point at parameter t of segment seg.
func (l Line2) At(seg int, t float64) r2.Vec {
	if len(l) == 1 {
		return l[0]
	}
	seg = clampSegment(seg, len(l))
	return lerp2(l[seg], l[seg+1], t)
}

// Intersects reports whether the two polylines share at least one point.
func (l Line2) Intersects(o Line2) bool {
	if len(l) == 1 && len(o) == 1 {
		return r2.Norm(r2.Sub(l[0], o[0])) <= intersectEps
	}
	for _, a := range l.segments() {
		for _, b := range o.segments() {
			if segmentsIntersect(a[0], a[1], b[0], b[1]) {
				return true
			}
		}
	}
	return false
}

// DistanceTo returns the planar distance between the two polylines, 0 when they intersect.
func (l Line2) DistanceTo(o Line2) float64 {
	if len(l) == 0 || len(o) == 0 {
		return math.Inf(1)
	}
	if l.Intersects(o) {
		return 0
	}
	d := math.Inf(1)
	for _, p := range l {
		d = math.Min(d, o.Locate(p).Distance)
	}
	for _, p := range o {
		d = math.Min(d, l.Locate(p).Distance)
	}
	return d
}

// segments returns consecutive point pairs; a single point yields a degenerate segment.
func (l Line2) segments() [][2]r2.Vec {
	if len(l) == 1 {
		return [][2]r2.Vec{{l[0], l[0]}}
	}
	out := make([][2]r2.Vec, 0, len(l)-1)
	for i := 0; i+1 < len(l); i++ {
		out = append(out, [2]r2.Vec{l[i], l[i+1]})
	}
	return out
}

func cross(a, b r2.Vec) float64 { return a.X*b.Y - a.Y*b.X }

func orient(a, b, c r2.Vec) float64 { return cross(r2.Sub(b, a), r2.Sub(c, a)) }

func onSegment(a, b, p r2.Vec) bool {
	return math.Min(a.X, b.X)-intersectEps <= p.X && p.X <= math.Max(a.X, b.X)+intersectEps &&
		math.Min(a.Y, b.Y)-intersectEps <= p.Y && p.Y <= math.Max(a.Y, b.Y)+intersectEps
}

func segmentsIntersect(p1, p2, q1, q2 r2.Vec) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)

	if ((d1 > intersectEps && d2 < -intersectEps) || (d1 < -intersectEps && d2 > intersectEps)) &&
		((d3 > intersectEps && d4 < -intersectEps) || (d3 < -intersectEps && d4 > intersectEps)) {
		return true
	}
	switch {
	case math.Abs(d1) <= intersectEps && onSegment(q1, q2, p1):
		return true
	case math.Abs(d2) <= intersectEps && onSegment(q1, q2, p2):
		return true
	case math.Abs(d3) <= intersectEps && onSegment(p1, p2, q1):
		return true
	case math.Abs(d4) <= intersectEps && onSegment(p1, p2, q2):
		return true
	}
	return false
}
