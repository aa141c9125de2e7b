// Package geometry provides the 2D and 3D polylines shared by hole trajectories,
// section drawings and correlation nodes.
//
// Points are gonum r2/r3 vectors; a polyline is parameterized either by segment
// (index + local parameter) or by length fraction in [0, 1].
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Line3 is a 3D polyline.
type Line3 []r3.Vec

// Line2 is a 2D polyline.
type Line2 []r2.Vec

// Length returns the 3D length of the polyline.
func (l Line3) Length() float64 {
	var total float64
	for i := 1; i < len(l); i++ {
		total += r3.Norm(r3.Sub(l[i], l[i-1]))
	}
	return total
}

// Start returns the first point. The line must not be empty.
func (l Line3) Start() r3.Vec { return l[0] }

// End returns the last point. The line must not be empty.
func (l Line3) End() r3.Vec { return l[len(l)-1] }

// XY returns the plan view of the line.
func (l Line3) XY() Line2 {
	out := make(Line2, len(l))
	for i, p := range l {
		out[i] = r2.Vec{X: p.X, Y: p.Y}
	}
	return out
}

// At returns the point at parameter t of segment seg.
// Out of range segments are clamped to the first or last one.
func (l Line3) At(seg int, t float64) r3.Vec {
	if len(l) == 1 {
		return l[0]
	}
	seg = clampSegment(seg, len(l))
	return lerp3(l[seg], l[seg+1], t)
}

// Interpolate returns the point at length fraction f, clamped to [0, 1].
func (l Line3) Interpolate(f float64) r3.Vec {
	cum := l.cumulative()
	return l.pointAtLength(cum, clamp01(f)*cum[len(cum)-1])
}

// Substring returns the part of the line between length fractions f0 and f1.
// Fractions are clamped to [0, 1] and swapped when reversed. The result always
// has at least two points, which coincide for an empty range.
func (l Line3) Substring(f0, f1 float64) Line3 {
	f0, f1 = clamp01(f0), clamp01(f1)
	if f1 < f0 {
		f0, f1 = f1, f0
	}
	cum := l.cumulative()
	total := cum[len(cum)-1]
	d0, d1 := f0*total, f1*total

	out := Line3{l.pointAtLength(cum, d0)}
	for i := 1; i < len(l)-1; i++ {
		if cum[i] > d0 && cum[i] < d1 {
			out = append(out, l[i])
		}
	}
	return append(out, l.pointAtLength(cum, d1))
}

// FractionAt returns the length fraction of the point at parameter t of
// segment seg, 0 for degenerate lines.
func (l Line3) FractionAt(seg int, t float64) float64 {
	if len(l) < 2 {
		return 0
	}
	seg = clampSegment(seg, len(l))
	cum := l.cumulative()
	total := cum[len(cum)-1]
	if total == 0 {
		return 0
	}
	along := cum[seg] + clamp01(t)*(cum[seg+1]-cum[seg])
	return along / total
}

// Dedupe removes consecutive points closer than tol to their predecessor.
func (l Line3) Dedupe(tol float64) Line3 {
	if len(l) == 0 {
		return nil
	}
	out := Line3{l[0]}
	for _, p := range l[1:] {
		if r3.Norm(r3.Sub(p, out[len(out)-1])) > tol {
			out = append(out, p)
		}
	}
	return out
}

// Locate returns the point of the line closest to p.
func (l Line3) Locate(p r3.Vec) Location {
	best := Location{Distance: math.Inf(1)}
	var along float64
	for i := 0; i+1 < len(l); i++ {
		a, b := l[i], l[i+1]
		ab := r3.Sub(b, a)
		segLen := r3.Norm(ab)
		var t float64
		if segLen > 0 {
			t = clamp01(r3.Dot(r3.Sub(p, a), ab) / (segLen * segLen))
		}
		d := r3.Norm(r3.Sub(p, lerp3(a, b, t)))
		if d < best.Distance {
			best = Location{Segment: i, T: t, Along: along + t*segLen, Distance: d}
		}
		along += segLen
	}
	if len(l) == 1 {
		best = Location{Distance: r3.Norm(r3.Sub(p, l[0]))}
	}
	if along > 0 {
		best.Fraction = best.Along / along
	}
	return best
}

func (l Line3) cumulative() []float64 {
	cum := make([]float64, len(l))
	for i := 1; i < len(l); i++ {
		cum[i] = cum[i-1] + r3.Norm(r3.Sub(l[i], l[i-1]))
	}
	return cum
}

func (l Line3) pointAtLength(cum []float64, d float64) r3.Vec {
	for i := 0; i+1 < len(l); i++ {
		if d <= cum[i+1] || i+2 == len(l) {
			seg := cum[i+1] - cum[i]
			if seg <= 0 {
				return l[i]
			}
			return lerp3(l[i], l[i+1], clamp01((d-cum[i])/seg))
		}
	}
	return l[0]
}

// Length returns the planar length of the polyline.
func (l Line2) Length() float64 {
	var total float64
	for i := 1; i < len(l); i++ {
		total += r2.Norm(r2.Sub(l[i], l[i-1]))
	}
	return total
}

// Start returns the first point. The line must not be empty.
func (l Line2) Start() r2.Vec { return l[0] }

// End returns the last point. The line must not be empty.
func (l Line2) End() r2.Vec { return l[len(l)-1] }

func lerp3(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

func lerp2(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func clampSegment(seg, n int) int {
	if seg < 0 {
		return 0
	}
	if seg > n-2 {
		return n - 2
	}
	return seg
}
