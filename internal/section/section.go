// Package section maps geometries between world coordinates and the 2D frame
// of a vertical section.
//
// A section frame has the abscissa along the plan-view fence as X and the
// scaled elevation as Y, both offset by the section anchor. Points beside the
// fence keep their perpendicular offset only through the reference line used
// by FromSection.
package section

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ToSection projects a 3D line into the frame of s.
func ToSection(l geometry.Line3, s *core.Section) geometry.Line2 {
	f := newFence(s.Fence)
	out := make(geometry.Line2, len(l))
	for i, p := range l {
		out[i] = r2.Vec{
			X: s.Anchor.X + f.abscissa(r2.Vec{X: p.X, Y: p.Y}),
			Y: s.Anchor.Y + (p.Z-s.Anchor.Z)*s.Scale,
		}
	}
	return out
}

// FromSection maps a line drawn in the frame of s back to world coordinates.
//
// Each point is located on the projection of ref; the 3D reference point at the
// same location gives the offset from the fence, which is reapplied at the
// point's own abscissa. Elevation comes from Y alone.
func FromSection(l geometry.Line2, s *core.Section, ref geometry.Line3) geometry.Line3 {
	f := newFence(s.Fence)
	proj := ToSection(ref, s)

	out := make(geometry.Line3, len(l))
	for i, q := range l {
		var along, across float64
		if len(ref) > 0 {
			loc := proj.Locate(q)
			rp := ref.At(loc.Segment, loc.T)
			along, across = f.offset(r2.Vec{X: rp.X, Y: rp.Y})
		}

		xy := f.place(q.X-s.Anchor.X, along, across)
		out[i] = r3.Vec{X: xy.X, Y: xy.Y, Z: (q.Y-s.Anchor.Y)/s.Scale + s.Anchor.Z}
	}
	return out
}

// HolePiece returns the part of the hole trajectory between two depths,
// parameterized by length fraction depth/total and clamped to the hole.
func HolePiece(from, to float64, h *core.Hole) (geometry.Line3, error) {
	if !h.HasGeometry() {
		return nil, fmt.Errorf("hole %q: %w", holeID(h), core.ErrNoGeometry)
	}
	return h.Trajectory.Substring(from/h.Depth, to/h.Depth), nil
}

// ReferenceLine returns the projection of the full hole trajectory into s.
func ReferenceLine(h *core.Hole, s *core.Section) (geometry.Line2, error) {
	if !h.HasGeometry() {
		return nil, fmt.Errorf("hole %q: %w", holeID(h), core.ErrNoGeometry)
	}
	return ToSection(h.Trajectory, s), nil
}

// Validate checks that a section can be used for projection.
func Validate(s *core.Section) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("section id is required")
	case !(s.Scale > 0) || math.IsInf(s.Scale, 0):
		return fmt.Errorf("section %q: scale must be positive, got %g", s.ID, s.Scale)
	case len(s.Fence) < 2 || s.Fence.Length() == 0:
		return fmt.Errorf("section %q: fence needs at least two distinct points", s.ID)
	}
	return nil
}

func holeID(h *core.Hole) string {
	if h == nil {
		return ""
	}
	return h.ID
}
