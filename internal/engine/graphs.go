package engine

import (
	"context"

	"github.com/leapstack-labs/strata/pkg/core"
)

// CreateGraph stores a graph nested under parents.
func (e *Engine) CreateGraph(ctx context.Context, id, graphType string, parents []string) (*core.Graph, error) {
	var g *core.Graph
	err := e.run(ctx, "create graph", func(s *services) error {
		var err error
		g, err = s.correlation.CreateGraph(ctx, id, graphType, parents)
		return err
	})
	return g, err
}

// DeleteGraph removes a graph and re-parents the nodes of its children.
func (e *Engine) DeleteGraph(ctx context.Context, id string) error {
	return e.run(ctx, "delete graph", func(s *services) error {
		return s.correlation.DeleteGraph(ctx, id)
	})
}

// AddGraphRelationship nests child under parent.
func (e *Engine) AddGraphRelationship(ctx context.Context, parentID, childID string) error {
	return e.run(ctx, "add relationship", func(s *services) error {
		return s.correlation.AddRelationship(ctx, parentID, childID)
	})
}

// RemoveGraphRelationship detaches child from parent.
func (e *Engine) RemoveGraphRelationship(ctx context.Context, parentID, childID string) error {
	return e.run(ctx, "remove relationship", func(s *services) error {
		return s.correlation.RemoveRelationship(ctx, parentID, childID)
	})
}

// EnsureGraphType reports whether a graph is of graphType, assigning it when unset.
func (e *Engine) EnsureGraphType(ctx context.Context, id, graphType string) (bool, error) {
	var ok bool
	err := e.run(ctx, "graph type", func(s *services) error {
		var err error
		ok, err = s.correlation.EnsureGraphType(ctx, id, graphType)
		return err
	})
	return ok, err
}

// InsertNode stores a node and re-parents dependent graphs.
func (e *Engine) InsertNode(ctx context.Context, n *core.Node) (*core.Node, error) {
	var out *core.Node
	err := e.run(ctx, "insert node", func(s *services) error {
		var err error
		out, err = s.correlation.InsertNode(ctx, n)
		return err
	})
	return out, err
}

// AddNodes inserts several nodes into one graph.
func (e *Engine) AddNodes(ctx context.Context, graphID string, nodes []*core.Node) ([]*core.Node, error) {
	var out []*core.Node
	err := e.run(ctx, "add nodes", func(s *services) error {
		var err error
		out, err = s.correlation.AddNodes(ctx, graphID, nodes)
		return err
	})
	return out, err
}

// UpdateNode replaces a node and re-parents dependent graphs.
func (e *Engine) UpdateNode(ctx context.Context, n *core.Node) (*core.Node, error) {
	var out *core.Node
	err := e.run(ctx, "update node", func(s *services) error {
		var err error
		out, err = s.correlation.UpdateNode(ctx, n)
		return err
	})
	return out, err
}

// DeleteNode removes a node and re-parents dependent graphs.
func (e *Engine) DeleteNode(ctx context.Context, id string) error {
	return e.run(ctx, "delete node", func(s *services) error {
		return s.correlation.DeleteNode(ctx, id)
	})
}

// PossibleEdges computes the valid edges of a graph.
func (e *Engine) PossibleEdges(ctx context.Context, graphID string) ([]*core.PossibleEdge, error) {
	var out []*core.PossibleEdge
	err := e.run(ctx, "possible edges", func(s *services) error {
		var err error
		out, err = s.correlation.PossibleEdges(ctx, graphID)
		return err
	})
	return out, err
}

// AcceptPossibleEdges persists the current possible edges of a graph.
func (e *Engine) AcceptPossibleEdges(ctx context.Context, graphID string) ([]*core.Edge, error) {
	var out []*core.Edge
	err := e.run(ctx, "accept edges", func(s *services) error {
		var err error
		out, err = s.correlation.AcceptPossibleEdges(ctx, graphID)
		return err
	})
	return out, err
}
