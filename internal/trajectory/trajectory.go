// Package trajectory reconstructs 3D hole trajectories from deviation surveys.
//
// Build integrates consecutive survey stations with averaged direction vectors,
// then extends, truncates or replaces the result so that its 3D length equals the
// declared hole depth. It is pure: identical inputs give bit-identical output.
package trajectory

import (
	"math"
	"sort"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DedupeTolerance is the distance under which consecutive points merge.
	DedupeTolerance = 1e-6
	// LengthTolerance is the accepted difference between trajectory length and depth.
	LengthTolerance = 1e-3
)

// Build returns the trajectory of a hole starting at collar and of 3D length depth.
func Build(collar r3.Vec, depth float64, samples []core.DeviationSample) (geometry.Line3, error) {
	if depth <= 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return nil, &core.HoleGeometryError{Depth: depth, Reason: "depth must be a positive number"}
	}
	for _, s := range samples {
		if err := validateSample(s); err != nil {
			return nil, err
		}
	}

	line := integrate(collar, depth, sortedSamples(samples))
	length := line.Length()

	switch {
	case len(line) < 2 || length <= DedupeTolerance:
		line = geometry.Line3{collar, r3.Add(collar, r3.Vec{Z: -depth})}
	case length < depth:
		dir := r3.Unit(r3.Sub(line.End(), line[len(line)-2]))
		line = append(line, r3.Add(line.End(), r3.Scale(depth-length, dir)))
	}
	line = line.Dedupe(DedupeTolerance)

	if got := line.Length(); math.Abs(got-depth) > LengthTolerance {
		return nil, &core.HoleGeometryError{Depth: depth, Length: got}
	}
	return line, nil
}

// Direction returns the unit vector pointing down-hole for a dip and azimuth in degrees.
func Direction(dip, azimuth float64) r3.Vec {
	d := dip * math.Pi / 180
	a := azimuth * math.Pi / 180
	return r3.Vec{
		X: math.Cos(d) * math.Sin(a),
		Y: math.Cos(d) * math.Cos(a),
		Z: math.Sin(d),
	}
}

func validateSample(s core.DeviationSample) error {
	switch {
	case math.IsNaN(s.Depth) || s.Depth < 0:
		return &core.HoleGeometryError{Reason: "deviation depth must be >= 0"}
	case !(s.Dip > -180 && s.Dip < 0):
		return &core.HoleGeometryError{Reason: "dip must be in (-180, 0)"}
	case !(s.Azimuth >= 0 && s.Azimuth <= 360):
		return &core.HoleGeometryError{Reason: "azimuth must be in [0, 360]"}
	}
	return nil
}

func sortedSamples(samples []core.DeviationSample) []core.DeviationSample {
	out := make([]core.DeviationSample, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}

// integrate walks the stations and stops at depth. Without stations it returns the
// collar alone, which Build treats as missing data.
func integrate(collar r3.Vec, depth float64, samples []core.DeviationSample) geometry.Line3 {
	line := geometry.Line3{collar}
	if len(samples) == 0 {
		return line
	}

	// collar to the first station along its direction
	prevDepth := 0.0
	prevDir := Direction(samples[0].Dip, samples[0].Azimuth)
	pos := collar

	for i, s := range samples {
		dir := Direction(s.Dip, s.Azimuth)
		step := math.Min(s.Depth, depth) - prevDepth
		if step > 0 {
			avg := prevDir
			if i > 0 {
				avg = averageDirection(prevDir, dir)
			}
			pos = r3.Add(pos, r3.Scale(step, avg))
			line = append(line, pos)
			prevDepth += step
		}
		prevDir = dir
		if s.Depth >= depth {
			break
		}
	}
	return line
}

// averageDirection is the normalized mean of two unit vectors; opposite vectors
// fall back to the second one.
func averageDirection(a, b r3.Vec) r3.Vec {
	sum := r3.Add(a, b)
	if r3.Norm(sum) < 1e-12 {
		return b
	}
	return r3.Unit(sum)
}
