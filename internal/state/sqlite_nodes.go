package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
)

const selectNode = `SELECT id, graph_id, hole_id, from_, to_, geom, parent_id FROM nodes`

// GetNode retrieves a node by ID.
func (t *sqliteTx) GetNode(ctx context.Context, id string) (*core.Node, error) {
	n, err := scanNode(t.tx.QueryRowContext(ctx, selectNode+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("node %q: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	return n, nil
}

// ListNodes returns the nodes matching filter in insertion order.
func (t *sqliteTx) ListNodes(ctx context.Context, filter core.NodeFilter) ([]*core.Node, error) {
	var conds []string
	var args []any
	if filter.GraphIDs != nil {
		if len(filter.GraphIDs) == 0 {
			return nil, nil
		}
		conds = append(conds, "graph_id IN (?"+strings.Repeat(", ?", len(filter.GraphIDs)-1)+")")
		for _, id := range filter.GraphIDs {
			args = append(args, id)
		}
	}
	if filter.HoleID != "" {
		conds = append(conds, "hole_id = ?")
		args = append(args, filter.HoleID)
	}

	query := selectNode
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	rows, err := t.tx.QueryContext(ctx, query+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// InsertNode stores a new node, assigning an ID when empty.
func (t *sqliteTx) InsertNode(ctx context.Context, n *core.Node) error {
	if n.ID == "" {
		n.ID = generateID()
	}
	geom, err := encodeLine3(n.Geom)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO nodes (id, graph_id, hole_id, from_, to_, geom, parent_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.GraphID, n.HoleID, n.From, n.To, geom, nullString(n.ParentID),
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("node %q: %w", n.ID, core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert node: %w", err)
	}
	return nil
}

// UpdateNode replaces every field of an existing node.
func (t *sqliteTx) UpdateNode(ctx context.Context, n *core.Node) error {
	geom, err := encodeLine3(n.Geom)
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE nodes SET graph_id = ?, hole_id = ?, from_ = ?, to_ = ?, geom = ?, parent_id = ? WHERE id = ?`,
		n.GraphID, n.HoleID, n.From, n.To, geom, nullString(n.ParentID), n.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update node: %w", err)
	}
	return requireAffected(res, "node", n.ID)
}

// SetNodeParent sets or clears the parent reference of a node.
func (t *sqliteTx) SetNodeParent(ctx context.Context, id, parentID string) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE nodes SET parent_id = ? WHERE id = ?`, nullString(parentID), id)
	if err != nil {
		return fmt.Errorf("failed to set node parent: %w", err)
	}
	return requireAffected(res, "node", id)
}

// DeleteNode deletes a node; its edges cascade and children lose their parent.
func (t *sqliteTx) DeleteNode(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	return requireAffected(res, "node", id)
}

func scanNode(row rowScanner) (*core.Node, error) {
	n := &core.Node{}
	var geom []byte
	var parent sql.NullString
	if err := row.Scan(&n.ID, &n.GraphID, &n.HoleID, &n.From, &n.To, &geom, &parent); err != nil {
		return nil, err
	}
	n.ParentID = parent.String
	var err error
	if n.Geom, err = geometry.DecodeLine3(geom); err != nil {
		return nil, err
	}
	return n, nil
}
