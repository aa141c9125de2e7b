package engine

import (
	"context"

	"github.com/leapstack-labs/strata/pkg/core"
)

// query runs a read-only fn in its own transaction.
func (e *Engine) query(ctx context.Context, fn func(tx core.Tx) error) error {
	return e.store.WithTx(ctx, fn)
}

// GetHole returns a hole with its trajectory.
func (e *Engine) GetHole(ctx context.Context, id string) (*core.Hole, error) {
	var h *core.Hole
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		h, err = tx.GetHole(ctx, id)
		return err
	})
	return h, err
}

// ListHoles returns every hole.
func (e *Engine) ListHoles(ctx context.Context) ([]*core.Hole, error) {
	var out []*core.Hole
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListHoles(ctx)
		return err
	})
	return out, err
}

// ListSections returns every section.
func (e *Engine) ListSections(ctx context.Context) ([]*core.Section, error) {
	var out []*core.Section
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListSections(ctx)
		return err
	})
	return out, err
}

// ReferenceLines returns the cached projections matching filter.
func (e *Engine) ReferenceLines(ctx context.Context, filter core.HoleSectionFilter) ([]*core.HoleSection, error) {
	var out []*core.HoleSection
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListHoleSections(ctx, filter)
		return err
	})
	return out, err
}

// ListIntervals returns the intervals of a hole ordered by depth.
func (e *Engine) ListIntervals(ctx context.Context, holeID string) ([]*core.Interval, error) {
	var out []*core.Interval
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListIntervals(ctx, holeID)
		return err
	})
	return out, err
}

// ListGraphs returns every graph.
func (e *Engine) ListGraphs(ctx context.Context) ([]*core.Graph, error) {
	var out []*core.Graph
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListGraphs(ctx)
		return err
	})
	return out, err
}

// ListRelationships returns every graph relationship.
func (e *Engine) ListRelationships(ctx context.Context) ([]core.GraphRelationship, error) {
	var out []core.GraphRelationship
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListRelationships(ctx)
		return err
	})
	return out, err
}

// ListNodes returns the nodes of a graph in insertion order.
func (e *Engine) ListNodes(ctx context.Context, graphID string) ([]*core.Node, error) {
	var out []*core.Node
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListNodes(ctx, core.NodeFilter{GraphIDs: []string{graphID}})
		return err
	})
	return out, err
}

// ListEdges returns the accepted edges of a graph.
func (e *Engine) ListEdges(ctx context.Context, graphID string) ([]*core.Edge, error) {
	var out []*core.Edge
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListEdges(ctx, graphID)
		return err
	})
	return out, err
}

// Adjacency returns the stored hole adjacency.
func (e *Engine) Adjacency(ctx context.Context) ([]core.HolePair, error) {
	var out []core.HolePair
	err := e.query(ctx, func(tx core.Tx) error {
		var err error
		out, err = tx.ListAdjacency(ctx)
		return err
	})
	return out, err
}
