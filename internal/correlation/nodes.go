package correlation

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/leapstack-labs/strata/internal/dag"
	"github.com/leapstack-labs/strata/internal/section"
	"github.com/leapstack-labs/strata/pkg/core"
)

// InsertNode stores a node, deriving its geometry from the hole when absent
// and resolving its parent. Child graphs are re-parented afterwards.
func (s *Service) InsertNode(ctx context.Context, n *core.Node) (*core.Node, error) {
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.insertNode(ctx, h, n); err != nil {
		return nil, err
	}
	if err := s.updateChildren(ctx, h, n.GraphID); err != nil {
		return nil, err
	}
	return n, nil
}

// AddNodes inserts several nodes into one graph and re-parents its child
// graphs once.
func (s *Service) AddNodes(ctx context.Context, graphID string, nodes []*core.Node) ([]*core.Node, error) {
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		n.GraphID = graphID
		if err := s.insertNode(ctx, h, n); err != nil {
			return nil, err
		}
	}
	if err := s.updateChildren(ctx, h, graphID); err != nil {
		return nil, err
	}
	s.logger.Debug("nodes added", slog.String("graph", graphID), slog.Int("count", len(nodes)))
	return nodes, nil
}

// UpdateNode replaces a node. Empty GraphID or HoleID keep the stored values;
// geometry is rederived unless supplied.
func (s *Service) UpdateNode(ctx context.Context, n *core.Node) (*core.Node, error) {
	existing, err := s.tx.GetNode(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	if n.GraphID == "" {
		n.GraphID = existing.GraphID
	}
	if n.HoleID == "" {
		n.HoleID = existing.HoleID
	}

	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.prepareNode(ctx, h, n); err != nil {
		return nil, err
	}
	if err := s.tx.UpdateNode(ctx, n); err != nil {
		return nil, err
	}

	if err := s.updateChildren(ctx, h, n.GraphID); err != nil {
		return nil, err
	}
	if existing.GraphID != n.GraphID {
		if err := s.updateChildren(ctx, h, existing.GraphID); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("node updated", slog.String("node", n.ID), slog.String("parent", n.ParentID))
	return n, nil
}

// DeleteNode removes a node and re-parents the nodes that pointed to it.
func (s *Service) DeleteNode(ctx context.Context, id string) error {
	n, err := s.tx.GetNode(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tx.DeleteNode(ctx, id); err != nil {
		return err
	}

	h, err := s.hierarchy(ctx)
	if err != nil {
		return err
	}
	if err := s.updateChildren(ctx, h, n.GraphID); err != nil {
		return err
	}
	s.logger.Debug("node deleted", slog.String("node", id), slog.String("graph", n.GraphID))
	return nil
}

// FindNewParent returns the node of a parent graph on the same hole whose
// start elevation is closest to the start of n. Ties go to the earliest
// inserted node. An empty result means n is a root node.
func (s *Service) FindNewParent(ctx context.Context, n *core.Node) (string, error) {
	h, err := s.hierarchy(ctx)
	if err != nil {
		return "", err
	}
	return s.findParent(ctx, h, n)
}

// UpdateChildNodes recomputes the parent of every node in every direct child
// graph of graphID.
func (s *Service) UpdateChildNodes(ctx context.Context, graphID string) error {
	h, err := s.hierarchy(ctx)
	if err != nil {
		return err
	}
	return s.updateChildren(ctx, h, graphID)
}

// RecomputeAll recomputes the parents of every nested graph, parents first.
// It runs after hole edits change node geometries.
func (s *Service) RecomputeAll(ctx context.Context) error {
	h, err := s.hierarchy(ctx)
	if err != nil {
		return err
	}
	order, err := h.Order()
	if err != nil {
		return &core.GraphConsistencyError{Reason: "malformed graph relationships", Err: err}
	}
	for _, id := range order {
		if err := s.recomputeGraph(ctx, h, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) insertNode(ctx context.Context, h *dag.Hierarchy, n *core.Node) error {
	if err := s.graphExists(ctx, n.GraphID); err != nil {
		return err
	}
	if err := s.prepareNode(ctx, h, n); err != nil {
		return err
	}
	if err := s.tx.InsertNode(ctx, n); err != nil {
		return err
	}
	s.logger.Debug("node inserted",
		slog.String("node", n.ID),
		slog.String("graph", n.GraphID),
		slog.String("hole", n.HoleID),
		slog.String("parent", n.ParentID))
	return nil
}

// prepareNode fills the geometry and the parent of n.
func (s *Service) prepareNode(ctx context.Context, h *dag.Hierarchy, n *core.Node) error {
	if len(n.Geom) < 2 {
		hole, err := s.tx.GetHole(ctx, n.HoleID)
		if err != nil {
			return err
		}
		n.Geom, err = section.HolePiece(n.From, n.To, hole)
		if errors.Is(err, core.ErrNoGeometry) {
			return &core.GraphConsistencyError{GraphID: n.GraphID, NodeID: n.ID, Reason: "hole has no geometry", Err: err}
		}
		if err != nil {
			return err
		}
	}

	parent, err := s.findParent(ctx, h, n)
	if err != nil {
		return err
	}
	n.ParentID = parent
	return nil
}

func (s *Service) findParent(ctx context.Context, h *dag.Hierarchy, n *core.Node) (string, error) {
	parents := h.Parents(n.GraphID)
	if len(parents) == 0 {
		return "", nil
	}
	if len(n.Geom) == 0 {
		return "", &core.GraphConsistencyError{GraphID: n.GraphID, NodeID: n.ID, Reason: "node has no geometry"}
	}
	candidates, err := s.tx.ListNodes(ctx, core.NodeFilter{GraphIDs: parents, HoleID: n.HoleID})
	if err != nil {
		return "", err
	}
	return closestParent(n, candidates), nil
}

// closestParent picks the candidate on the same hole with the smallest
// absolute start elevation offset; candidates are in insertion order.
func closestParent(n *core.Node, candidates []*core.Node) string {
	best := ""
	bestOffset := math.Inf(1)
	z := n.Geom.Start().Z
	for _, c := range candidates {
		if c.HoleID != n.HoleID || c.ID == n.ID || len(c.Geom) == 0 {
			continue
		}
		if d := math.Abs(c.Geom.Start().Z - z); d < bestOffset {
			best, bestOffset = c.ID, d
		}
	}
	return best
}

func (s *Service) updateChildren(ctx context.Context, h *dag.Hierarchy, graphID string) error {
	for _, c := range h.Children(graphID) {
		if err := s.recomputeGraph(ctx, h, c); err != nil {
			return err
		}
	}
	return nil
}

// recomputeGraph re-scans every node of graphID against its parent graphs.
func (s *Service) recomputeGraph(ctx context.Context, h *dag.Hierarchy, graphID string) error {
	nodes, err := s.tx.ListNodes(ctx, core.NodeFilter{GraphIDs: []string{graphID}})
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}

	var candidates []*core.Node
	if parents := h.Parents(graphID); len(parents) > 0 {
		if candidates, err = s.tx.ListNodes(ctx, core.NodeFilter{GraphIDs: parents}); err != nil {
			return err
		}
	}

	changed := 0
	for _, n := range nodes {
		parent := ""
		if len(candidates) > 0 {
			if len(n.Geom) == 0 {
				return &core.GraphConsistencyError{GraphID: graphID, NodeID: n.ID, Reason: "node has no geometry"}
			}
			parent = closestParent(n, candidates)
		}
		if parent == n.ParentID {
			continue
		}
		if err := s.tx.SetNodeParent(ctx, n.ID, parent); err != nil {
			return err
		}
		changed++
	}
	s.logger.Debug("child nodes recomputed",
		slog.String("graph", graphID),
		slog.Int("nodes", len(nodes)),
		slog.Int("changed", changed))
	return nil
}
