// Package survey owns hole and section mutations together with the caches
// derived from them: trajectories, per-section reference lines, node
// geometries and the hole adjacency used by correlation.
package survey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/strata/internal/section"
	"github.com/leapstack-labs/strata/internal/trajectory"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// Service applies survey mutations inside one transaction.
type Service struct {
	tx       core.Tx
	settings core.Settings
	logger   *slog.Logger
}

// NewService creates a survey service bound to tx.
func NewService(tx core.Tx, settings core.Settings, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{tx: tx, settings: settings, logger: logger}
}

// SaveHole builds the trajectory of h, stores it and refreshes every cache
// depending on the hole.
func (s *Service) SaveHole(ctx context.Context, h *core.Hole) (*core.Hole, error) {
	if h.ID == "" {
		return nil, fmt.Errorf("hole id is required")
	}
	traj, err := buildTrajectory(h)
	if err != nil {
		return nil, err
	}
	h.Trajectory = traj

	if err := s.tx.SaveHole(ctx, h); err != nil {
		return nil, err
	}
	if err := s.refreshHole(ctx, h); err != nil {
		return nil, err
	}

	s.logger.Debug("hole saved",
		slog.String("hole", h.ID),
		slog.Float64("depth", h.Depth),
		slog.Int("points", len(traj)))
	return h, nil
}

// DeleteHole removes a hole with its intervals, nodes and reference lines.
func (s *Service) DeleteHole(ctx context.Context, id string) error {
	if err := s.tx.DeleteHole(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("hole deleted", slog.String("hole", id))
	return nil
}

// SaveSection stores a section and recomputes its reference lines for every hole.
func (s *Service) SaveSection(ctx context.Context, sec *core.Section) error {
	if err := section.Validate(sec); err != nil {
		return err
	}
	if err := s.tx.SaveSection(ctx, sec); err != nil {
		return err
	}

	holes, err := s.tx.ListHoles(ctx)
	if err != nil {
		return err
	}
	if err := s.tx.DeleteHoleSections(ctx, core.HoleSectionFilter{SectionID: sec.ID}); err != nil {
		return err
	}
	for _, h := range holes {
		if err := s.saveReferenceLine(ctx, h, sec); err != nil {
			return err
		}
	}

	s.logger.Debug("section saved", slog.String("section", sec.ID), slog.Int("holes", len(holes)))
	return nil
}

// DeleteSection removes a section and its reference lines.
func (s *Service) DeleteSection(ctx context.Context, id string) error {
	if err := s.tx.DeleteSection(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("section deleted", slog.String("section", id))
	return nil
}

// CreateDefaultSections creates or replaces the WE/SN sections framing every collar.
func (s *Service) CreateDefaultSections(ctx context.Context, scale, rotationDeg float64) ([]*core.Section, error) {
	holes, err := s.tx.ListHoles(ctx)
	if err != nil {
		return nil, err
	}
	collars := make([]r3.Vec, 0, len(holes))
	for _, h := range holes {
		collars = append(collars, h.Collar)
	}

	sections, err := section.DefaultSections(collars, scale, rotationDeg)
	if err != nil {
		return nil, err
	}
	for _, sec := range sections {
		if err := s.SaveSection(ctx, sec); err != nil {
			return nil, err
		}
	}
	return sections, nil
}

// RebuildAll recomputes every trajectory and every derived cache.
// Trajectories are built concurrently; writes stay sequential in the transaction.
func (s *Service) RebuildAll(ctx context.Context) error {
	holes, err := s.tx.ListHoles(ctx)
	if err != nil {
		return err
	}

	trajs := make([]geometry.Line3, len(holes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, h := range holes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := buildTrajectory(h)
			if err != nil {
				return err
			}
			trajs[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, h := range holes {
		h.Trajectory = trajs[i]
		if err := s.tx.SaveHole(ctx, h); err != nil {
			return err
		}
		if err := s.refreshHole(ctx, h); err != nil {
			return err
		}
	}
	s.logger.Debug("survey rebuilt", slog.Int("holes", len(holes)))
	return nil
}

// refreshHole recomputes the reference lines and node geometries of a hole.
func (s *Service) refreshHole(ctx context.Context, h *core.Hole) error {
	sections, err := s.tx.ListSections(ctx)
	if err != nil {
		return err
	}
	if err := s.tx.DeleteHoleSections(ctx, core.HoleSectionFilter{HoleID: h.ID}); err != nil {
		return err
	}
	for _, sec := range sections {
		if err := s.saveReferenceLine(ctx, h, sec); err != nil {
			return err
		}
	}

	nodes, err := s.tx.ListNodes(ctx, core.NodeFilter{HoleID: h.ID})
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if n.Geom, err = section.HolePiece(n.From, n.To, h); err != nil {
			return err
		}
		if err := s.tx.UpdateNode(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) saveReferenceLine(ctx context.Context, h *core.Hole, sec *core.Section) error {
	line, err := section.ReferenceLine(h, sec)
	if errors.Is(err, core.ErrNoGeometry) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.tx.SaveHoleSection(ctx, &core.HoleSection{HoleID: h.ID, SectionID: sec.ID, Geom: line})
}

func buildTrajectory(h *core.Hole) (geometry.Line3, error) {
	t, err := trajectory.Build(h.Collar, h.Depth, h.Deviations)
	var geomErr *core.HoleGeometryError
	if errors.As(err, &geomErr) {
		geomErr.HoleID = h.ID
	}
	return t, err
}
