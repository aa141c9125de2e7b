// Package correlation maintains correlation graphs: the parent links between
// nodes of nested graphs and the geometrically valid edges inside a graph.
//
// Graphs nest at most one level. Every node of a child graph points to the
// node of a parent graph on the same hole with the closest start elevation,
// and these pointers are recomputed whenever a parent graph changes.
package correlation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/strata/internal/dag"
	"github.com/leapstack-labs/strata/pkg/core"
)

// MaxNesting is the deepest supported graph nesting.
const MaxNesting = 1

// Service applies graph and node edits inside one transaction.
type Service struct {
	tx       core.Tx
	settings core.Settings
	logger   *slog.Logger
}

// NewService creates a correlation service bound to tx.
func NewService(tx core.Tx, settings core.Settings, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{tx: tx, settings: settings, logger: logger}
}

// CreateGraph stores a new graph nested under parents.
// An existing identifier fails with core.ErrConflict.
func (s *Service) CreateGraph(ctx context.Context, id, graphType string, parents []string) (*core.Graph, error) {
	g := &core.Graph{ID: id, Type: graphType}
	if err := s.tx.InsertGraph(ctx, g); err != nil {
		return nil, err
	}
	for _, p := range parents {
		if err := s.AddRelationship(ctx, p, g.ID); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("graph created", slog.String("graph", g.ID), slog.Any("parents", parents))
	return g, nil
}

// DeleteGraph removes a graph with its nodes and edges. Nodes of its child
// graphs are re-parented against their remaining parent graphs.
func (s *Service) DeleteGraph(ctx context.Context, id string) error {
	h, err := s.hierarchy(ctx)
	if err != nil {
		return err
	}
	children := h.Children(id)

	if err := s.tx.DeleteGraph(ctx, id); err != nil {
		return err
	}
	h.Remove(id)
	for _, c := range children {
		if err := s.recomputeGraph(ctx, h, c); err != nil {
			return err
		}
	}
	s.logger.Debug("graph deleted", slog.String("graph", id), slog.Int("children", len(children)))
	return nil
}

// AddRelationship nests child under parent and re-parents the child's nodes.
func (s *Service) AddRelationship(ctx context.Context, parentID, childID string) error {
	if parentID == childID {
		return &core.GraphConsistencyError{GraphID: childID, Reason: "graph cannot be its own parent"}
	}
	for _, id := range []string{parentID, childID} {
		if _, err := s.tx.GetGraph(ctx, id); err != nil {
			return err
		}
	}

	h, err := s.hierarchy(ctx)
	if err != nil {
		return err
	}
	if err := h.Link(parentID, childID); err != nil {
		return &core.GraphConsistencyError{GraphID: childID, Reason: "invalid relationship", Err: err}
	}
	if err := h.Validate(MaxNesting); err != nil {
		return &core.GraphConsistencyError{GraphID: childID, Reason: "invalid relationship", Err: err}
	}

	if err := s.tx.AddRelationship(ctx, core.GraphRelationship{ParentID: parentID, ChildID: childID}); err != nil {
		return err
	}
	return s.recomputeGraph(ctx, h, childID)
}

// RemoveRelationship detaches child from parent and re-parents the child's nodes.
func (s *Service) RemoveRelationship(ctx context.Context, parentID, childID string) error {
	if err := s.tx.RemoveRelationship(ctx, core.GraphRelationship{ParentID: parentID, ChildID: childID}); err != nil {
		return err
	}
	h, err := s.hierarchy(ctx)
	if err != nil {
		return err
	}
	return s.recomputeGraph(ctx, h, childID)
}

// EnsureGraphType reports whether the graph is of graphType, assigning the
// type to a graph that has none yet.
func (s *Service) EnsureGraphType(ctx context.Context, id, graphType string) (bool, error) {
	g, err := s.tx.GetGraph(ctx, id)
	if err != nil {
		return false, err
	}
	if g.Type == "" {
		g.Type = graphType
		if err := s.tx.UpdateGraph(ctx, g); err != nil {
			return false, err
		}
		s.logger.Debug("graph type assigned", slog.String("graph", id), slog.String("type", graphType))
		return true, nil
	}
	return g.Type == graphType, nil
}

// hierarchy loads the graph relationships and checks them.
func (s *Service) hierarchy(ctx context.Context) (*dag.Hierarchy, error) {
	graphs, err := s.tx.ListGraphs(ctx)
	if err != nil {
		return nil, err
	}
	rels, err := s.tx.ListRelationships(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(graphs))
	for i, g := range graphs {
		ids[i] = g.ID
	}
	h, err := dag.FromRelationships(ids, rels)
	if err == nil {
		err = h.Validate(MaxNesting)
	}
	if err != nil {
		return nil, &core.GraphConsistencyError{Reason: "malformed graph relationships", Err: err}
	}
	return h, nil
}

func (s *Service) graphExists(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("graph id is required: %w", core.ErrNotFound)
	}
	_, err := s.tx.GetGraph(ctx, id)
	return err
}
