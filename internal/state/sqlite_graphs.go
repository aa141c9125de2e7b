package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/strata/pkg/core"
)

// GetGraph retrieves a graph by ID.
func (t *sqliteTx) GetGraph(ctx context.Context, id string) (*core.Graph, error) {
	g := &core.Graph{}
	err := t.tx.QueryRowContext(ctx, `SELECT id, graph_type FROM graphs WHERE id = ?`, id).Scan(&g.ID, &g.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("graph %q: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get graph: %w", err)
	}
	return g, nil
}

// ListGraphs returns every graph ordered by identifier.
func (t *sqliteTx) ListGraphs(ctx context.Context) ([]*core.Graph, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT id, graph_type FROM graphs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.Graph
	for rows.Next() {
		g := &core.Graph{}
		if err := rows.Scan(&g.ID, &g.Type); err != nil {
			return nil, fmt.Errorf("failed to scan graph: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// InsertGraph stores a new graph, assigning an ID when empty.
func (t *sqliteTx) InsertGraph(ctx context.Context, g *core.Graph) error {
	if g.ID == "" {
		g.ID = generateID()
	}
	_, err := t.tx.ExecContext(ctx, `INSERT INTO graphs (id, graph_type) VALUES (?, ?)`, g.ID, g.Type)
	if isConstraintViolation(err) {
		return fmt.Errorf("graph %q: %w", g.ID, core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert graph: %w", err)
	}
	return nil
}

// UpdateGraph updates the graph type.
func (t *sqliteTx) UpdateGraph(ctx context.Context, g *core.Graph) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE graphs SET graph_type = ? WHERE id = ?`, g.Type, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update graph: %w", err)
	}
	return requireAffected(res, "graph", g.ID)
}

// DeleteGraph deletes a graph; nodes, edges and relationships cascade.
func (t *sqliteTx) DeleteGraph(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM graphs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete graph: %w", err)
	}
	return requireAffected(res, "graph", id)
}

// ListRelationships returns every parent/child link.
func (t *sqliteTx) ListRelationships(ctx context.Context) ([]core.GraphRelationship, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT parent_id, child_id FROM graph_relationships ORDER BY parent_id, child_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.GraphRelationship
	for rows.Next() {
		var r core.GraphRelationship
		if err := rows.Scan(&r.ParentID, &r.ChildID); err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddRelationship stores a parent/child link.
func (t *sqliteTx) AddRelationship(ctx context.Context, r core.GraphRelationship) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO graph_relationships (parent_id, child_id) VALUES (?, ?)`, r.ParentID, r.ChildID)
	if isConstraintViolation(err) {
		return fmt.Errorf("relationship %s -> %s: %w", r.ParentID, r.ChildID, core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to add relationship: %w", err)
	}
	return nil
}

// RemoveRelationship deletes a parent/child link.
func (t *sqliteTx) RemoveRelationship(ctx context.Context, r core.GraphRelationship) error {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM graph_relationships WHERE parent_id = ? AND child_id = ?`, r.ParentID, r.ChildID)
	if err != nil {
		return fmt.Errorf("failed to remove relationship: %w", err)
	}
	return requireAffected(res, "relationship", r.ParentID+" -> "+r.ChildID)
}
