package survey

import (
	"context"
	"fmt"
	"math"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

// ClosestHole returns the hole nearest to (x, y) within MaxCollarSnapDistance.
//
// Plan-view trajectories are searched first; when none is in range the point
// is treated as section coordinates and matched against cached reference lines,
// restricted to sectionID when given.
func (s *Service) ClosestHole(ctx context.Context, x, y float64, sectionID string) (string, error) {
	p := geometry.Line2{r2.Vec{X: x, Y: y}}
	limit := s.settings.MaxCollarSnapDistance

	holes, err := s.tx.ListHoles(ctx)
	if err != nil {
		return "", err
	}
	bestID, best := "", math.Inf(1)
	for _, h := range holes {
		if !h.HasGeometry() {
			continue
		}
		if d := h.Trajectory.XY().DistanceTo(p); d <= limit && d < best {
			bestID, best = h.ID, d
		}
	}
	if bestID != "" {
		return bestID, nil
	}

	lines, err := s.tx.ListHoleSections(ctx, core.HoleSectionFilter{SectionID: sectionID})
	if err != nil {
		return "", err
	}
	for _, hs := range lines {
		if d := hs.Geom.DistanceTo(p); d <= limit && d < best {
			bestID, best = hs.HoleID, d
		}
	}
	if bestID == "" {
		return "", fmt.Errorf("no hole within %g of (%g, %g): %w", limit, x, y, core.ErrNotFound)
	}
	return bestID, nil
}
