package state

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
)

// ListEdges returns the accepted edges of a graph.
func (t *sqliteTx) ListEdges(ctx context.Context, graphID string) ([]*core.Edge, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT start_id, end_id, graph_id, geom FROM edges WHERE graph_id = ? ORDER BY start_id, end_id`, graphID)
	if err != nil {
		return nil, fmt.Errorf("failed to list edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.Edge
	for rows.Next() {
		e := &core.Edge{}
		var geom []byte
		if err := rows.Scan(&e.StartID, &e.EndID, &e.GraphID, &geom); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		if e.Geom, err = geometry.DecodeLine3(geom); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertEdge stores an edge, refreshing the geometry of an existing one.
func (t *sqliteTx) InsertEdge(ctx context.Context, e *core.Edge) error {
	geom, err := encodeLine3(e.Geom)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO edges (start_id, end_id, graph_id, geom) VALUES (?, ?, ?, ?)
		 ON CONFLICT(start_id, end_id) DO UPDATE SET geom = excluded.geom`,
		e.StartID, e.EndID, e.GraphID, geom,
	)
	if err != nil {
		return fmt.Errorf("failed to insert edge: %w", err)
	}
	return nil
}

// DeleteEdges removes every accepted edge of a graph.
func (t *sqliteTx) DeleteEdges(ctx context.Context, graphID string) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM edges WHERE graph_id = ?`, graphID); err != nil {
		return fmt.Errorf("failed to delete edges: %w", err)
	}
	return nil
}
