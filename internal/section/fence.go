package section

import (
	"math"

	"github.com/leapstack-labs/strata/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

// fence is a plan-view polyline with cumulative abscissas. Its first and last
// segments extend to infinity so that every point has an abscissa.
type fence struct {
	pts geometry.Line2
	cum []float64
}

func newFence(l geometry.Line2) fence {
	f := fence{pts: l, cum: make([]float64, len(l))}
	for i := 1; i < len(l); i++ {
		f.cum[i] = f.cum[i-1] + r2.Norm(r2.Sub(l[i], l[i-1]))
	}
	return f
}

// abscissa returns the distance along the fence of the closest fence point to p.
func (f fence) abscissa(p r2.Vec) float64 {
	n := len(f.pts)
	if n < 2 {
		return 0
	}

	best, bestDist := 0.0, math.Inf(1)
	for i := 0; i+1 < n; i++ {
		a, b := f.pts[i], f.pts[i+1]
		ab := r2.Sub(b, a)
		segLen := r2.Norm(ab)
		if segLen == 0 {
			continue
		}
		t := r2.Dot(r2.Sub(p, a), ab) / (segLen * segLen)
		if t < 0 && i > 0 {
			t = 0
		}
		if t > 1 && i+2 < n {
			t = 1
		}
		d := r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
		if d < bestDist {
			best, bestDist = f.cum[i]+t*segLen, d
		}
	}
	return best
}

// frame returns the fence point at abscissa s with the unit tangent and the
// left-hand normal of the segment carrying it.
func (f fence) frame(s float64) (origin, tangent, normal r2.Vec) {
	n := len(f.pts)
	seg := n - 2
	for i := 0; i+1 < n; i++ {
		if s < f.cum[i+1] {
			seg = i
			break
		}
	}
	// skip zero-length segments
	for seg > 0 && f.cum[seg+1] == f.cum[seg] {
		seg--
	}

	a, b := f.pts[seg], f.pts[seg+1]
	segLen := f.cum[seg+1] - f.cum[seg]
	tangent = r2.Vec{X: 1}
	if segLen > 0 {
		tangent = r2.Scale(1/segLen, r2.Sub(b, a))
	}
	normal = r2.Vec{X: -tangent.Y, Y: tangent.X}
	origin = r2.Add(a, r2.Scale(s-f.cum[seg], tangent))
	return origin, tangent, normal
}

// offset decomposes p in the frame at its own abscissa.
func (f fence) offset(p r2.Vec) (along, across float64) {
	if len(f.pts) < 2 {
		return 0, 0
	}
	o, t, nrm := f.frame(f.abscissa(p))
	d := r2.Sub(p, o)
	return r2.Dot(d, t), r2.Dot(d, nrm)
}

// place is the inverse of offset at abscissa s.
func (f fence) place(s, along, across float64) r2.Vec {
	if len(f.pts) < 2 {
		return r2.Vec{X: s}
	}
	o, t, nrm := f.frame(s)
	return r2.Add(o, r2.Add(r2.Scale(along, t), r2.Scale(across, nrm)))
}
