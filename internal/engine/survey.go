package engine

import (
	"context"

	"github.com/leapstack-labs/strata/pkg/core"
)

// SaveHole creates or replaces a hole and refreshes everything derived from
// its trajectory, including the parents of nodes in nested graphs.
func (e *Engine) SaveHole(ctx context.Context, h *core.Hole) (*core.Hole, error) {
	var saved *core.Hole
	err := e.run(ctx, "save hole", func(s *services) error {
		var err error
		if saved, err = s.survey.SaveHole(ctx, h); err != nil {
			return err
		}
		return s.correlation.RecomputeAll(ctx)
	})
	return saved, err
}

// DeleteHole removes a hole with its intervals and nodes.
func (e *Engine) DeleteHole(ctx context.Context, id string) error {
	return e.run(ctx, "delete hole", func(s *services) error {
		if err := s.survey.DeleteHole(ctx, id); err != nil {
			return err
		}
		return s.correlation.RecomputeAll(ctx)
	})
}

// RebuildAll recomputes every trajectory and cache from the stored surveys.
func (e *Engine) RebuildAll(ctx context.Context) error {
	return e.run(ctx, "rebuild", func(s *services) error {
		if err := s.survey.RebuildAll(ctx); err != nil {
			return err
		}
		return s.correlation.RecomputeAll(ctx)
	})
}

// SaveSection creates or replaces a section and its reference lines.
func (e *Engine) SaveSection(ctx context.Context, sec *core.Section) error {
	return e.run(ctx, "save section", func(s *services) error {
		return s.survey.SaveSection(ctx, sec)
	})
}

// DeleteSection removes a section and its reference lines.
func (e *Engine) DeleteSection(ctx context.Context, id string) error {
	return e.run(ctx, "delete section", func(s *services) error {
		return s.survey.DeleteSection(ctx, id)
	})
}

// CreateDefaultSections stores the two default sections framing every collar.
func (e *Engine) CreateDefaultSections(ctx context.Context, scale, rotationDeg float64) ([]*core.Section, error) {
	var out []*core.Section
	err := e.run(ctx, "default sections", func(s *services) error {
		var err error
		out, err = s.survey.CreateDefaultSections(ctx, scale, rotationDeg)
		return err
	})
	return out, err
}

// ClosestHole returns the hole nearest to a plan-view point, or to a point of
// the given section when sectionID is set.
func (e *Engine) ClosestHole(ctx context.Context, x, y float64, sectionID string) (string, error) {
	var id string
	err := e.run(ctx, "closest hole", func(s *services) error {
		var err error
		id, err = s.survey.ClosestHole(ctx, x, y, sectionID)
		return err
	})
	return id, err
}

// Triangulate recomputes hole adjacency from the collars.
func (e *Engine) Triangulate(ctx context.Context) ([]core.HolePair, error) {
	var pairs []core.HolePair
	err := e.run(ctx, "triangulate", func(s *services) error {
		var err error
		pairs, err = s.survey.Triangulate(ctx)
		return err
	})
	return pairs, err
}

// SetAdjacency replaces hole adjacency with explicit pairs.
func (e *Engine) SetAdjacency(ctx context.Context, pairs []core.HolePair) error {
	return e.run(ctx, "set adjacency", func(s *services) error {
		return s.survey.SetAdjacency(ctx, pairs)
	})
}
