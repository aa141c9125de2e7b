package interval

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/leapstack-labs/strata/internal/section"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

// location is a drawn edit resolved onto a hole.
type location struct {
	hole      *core.Hole
	sectionID string
	// depth fractions of the drawn endpoints along the hole
	f0, f1 float64
}

type candidate struct {
	line       *core.HoleSection
	intersects bool
	distance   float64
}

// locate2D resolves a line drawn in section coordinates.
func (e *Editor) locate2D(ctx context.Context, drawn geometry.Line2, holeID, sectionID string) (*location, error) {
	lines, err := e.tx.ListHoleSections(ctx, core.HoleSectionFilter{SectionID: sectionID})
	if err != nil {
		return nil, err
	}

	if holeID != "" {
		var pinned []*core.HoleSection
		for _, l := range lines {
			if l.HoleID == holeID {
				pinned = append(pinned, l)
			}
		}
		if len(pinned) > 0 {
			lines = pinned
		}
	}

	if len(lines) == 0 {
		return e.fallback2D(ctx, drawn, holeID, sectionID)
	}

	best := rankCandidates(drawn, lines)[0]
	hole, err := e.tx.GetHole(ctx, best.line.HoleID)
	if err != nil {
		return nil, err
	}
	return locateOnReference(drawn, hole, best.line.SectionID, best.line.Geom), nil
}

// rankCandidates orders reference lines: intersecting first, then by planar
// distance, then by identifiers.
func rankCandidates(drawn geometry.Line2, lines []*core.HoleSection) []candidate {
	out := make([]candidate, len(lines))
	for i, l := range lines {
		out[i] = candidate{line: l, intersects: drawn.Intersects(l.Geom), distance: drawn.DistanceTo(l.Geom)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.intersects != b.intersects {
			return a.intersects
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.line.SectionID != b.line.SectionID {
			return a.line.SectionID < b.line.SectionID
		}
		return a.line.HoleID < b.line.HoleID
	})
	return out
}

// fallback2D picks the nearest section to the drawn start point, then the hole
// whose reference line in that section is nearest to the drawn line.
func (e *Editor) fallback2D(ctx context.Context, drawn geometry.Line2, holeID, sectionID string) (*location, error) {
	var sec *core.Section
	if sectionID != "" {
		s, err := e.tx.GetSection(ctx, sectionID)
		if errors.Is(err, core.ErrNotFound) {
			return nil, &core.ResolutionError{SectionID: sectionID, Reason: "section does not exist"}
		}
		if err != nil {
			return nil, err
		}
		sec = s
	} else {
		sections, err := e.tx.ListSections(ctx)
		if err != nil {
			return nil, err
		}
		if len(sections) == 0 {
			return nil, &core.ResolutionError{Reason: "no section exists"}
		}
		sec = nearestSection(drawn.Start(), sections)
	}

	holes, err := e.tx.ListHoles(ctx)
	if err != nil {
		return nil, err
	}

	var (
		best     *core.Hole
		bestLine geometry.Line2
		bestDist = math.Inf(1)
	)
	for _, h := range holes {
		if holeID != "" && h.ID != holeID {
			continue
		}
		ref, err := section.ReferenceLine(h, sec)
		if errors.Is(err, core.ErrNoGeometry) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if d := drawn.DistanceTo(ref); d < bestDist {
			best, bestLine, bestDist = h, ref, d
		}
	}
	if best == nil {
		return nil, &core.ResolutionError{SectionID: sec.ID, Reason: "no hole found in section"}
	}
	return locateOnReference(drawn, best, sec.ID, bestLine), nil
}

// nearestSection compares the distance from p to each section baseline, the
// segment of length equal to the fence starting at the anchor.
func nearestSection(p r2.Vec, sections []*core.Section) *core.Section {
	var best *core.Section
	bestDist := math.Inf(1)
	for _, s := range sections {
		base := geometry.Line2{
			{X: s.Anchor.X, Y: s.Anchor.Y},
			{X: s.Anchor.X + s.Fence.Length(), Y: s.Anchor.Y},
		}
		if d := base.Locate(p).Distance; d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// locateOnReference maps drawn endpoints to depth fractions. Reference line
// vertices match trajectory vertices one to one, so the located segment and
// parameter are measured along the 3D trajectory. For deviated holes or a
// section scale other than 1 this differs from the 2D fraction along ref.
func locateOnReference(drawn geometry.Line2, h *core.Hole, sectionID string, ref geometry.Line2) *location {
	l0 := ref.Locate(drawn.Start())
	l1 := ref.Locate(drawn.End())
	return &location{
		hole:      h,
		sectionID: sectionID,
		f0:        h.Trajectory.FractionAt(l0.Segment, l0.T),
		f1:        h.Trajectory.FractionAt(l1.Segment, l1.T),
	}
}

// locate3D resolves a line drawn in world coordinates onto the nearest
// trajectory, or onto the pinned hole.
func (e *Editor) locate3D(ctx context.Context, drawn geometry.Line3, holeID, sectionID string) (*location, error) {
	var holes []*core.Hole
	if holeID != "" {
		h, err := e.tx.GetHole(ctx, holeID)
		if errors.Is(err, core.ErrNotFound) {
			return nil, &core.ResolutionError{SectionID: sectionID, Reason: "hole " + holeID + " does not exist"}
		}
		if err != nil {
			return nil, err
		}
		holes = []*core.Hole{h}
	} else {
		var err error
		if holes, err = e.tx.ListHoles(ctx); err != nil {
			return nil, err
		}
	}

	var best *core.Hole
	bestDist := math.Inf(1)
	for _, h := range holes {
		if !h.HasGeometry() {
			continue
		}
		d := math.Min(h.Trajectory.Locate(drawn.Start()).Distance, h.Trajectory.Locate(drawn.End()).Distance)
		if d < bestDist {
			best, bestDist = h, d
		}
	}
	if best == nil {
		return nil, &core.ResolutionError{SectionID: sectionID, Reason: "no hole with geometry"}
	}
	return &location{
		hole:      best,
		sectionID: sectionID,
		f0:        best.Trajectory.Locate(drawn.Start()).Fraction,
		f1:        best.Trajectory.Locate(drawn.End()).Fraction,
	}, nil
}
