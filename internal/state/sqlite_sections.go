package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
)

const selectSection = `SELECT id, anchor_x, anchor_y, anchor_z, fence, scale FROM sections`

// GetSection retrieves a section by ID.
func (t *sqliteTx) GetSection(ctx context.Context, id string) (*core.Section, error) {
	s, err := scanSection(t.tx.QueryRowContext(ctx, selectSection+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section %q: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return s, nil
}

// ListSections returns every section ordered by identifier.
func (t *sqliteTx) ListSections(ctx context.Context) ([]*core.Section, error) {
	rows, err := t.tx.QueryContext(ctx, selectSection+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SaveSection creates or updates a section.
func (t *sqliteTx) SaveSection(ctx context.Context, s *core.Section) error {
	fence, err := s.Fence.EncodeWKB()
	if err != nil {
		return fmt.Errorf("failed to encode fence: %w", err)
	}
	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO sections (id, anchor_x, anchor_y, anchor_z, fence, scale)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   anchor_x = excluded.anchor_x,
		   anchor_y = excluded.anchor_y,
		   anchor_z = excluded.anchor_z,
		   fence = excluded.fence,
		   scale = excluded.scale`,
		s.ID, s.Anchor.X, s.Anchor.Y, s.Anchor.Z, fence, s.Scale,
	)
	if err != nil {
		return fmt.Errorf("failed to save section: %w", err)
	}
	return nil
}

// DeleteSection deletes a section; cached reference lines cascade.
func (t *sqliteTx) DeleteSection(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	return requireAffected(res, "section", id)
}

func scanSection(row rowScanner) (*core.Section, error) {
	s := &core.Section{}
	var fence []byte
	if err := row.Scan(&s.ID, &s.Anchor.X, &s.Anchor.Y, &s.Anchor.Z, &fence, &s.Scale); err != nil {
		return nil, err
	}
	var err error
	if s.Fence, err = geometry.DecodeLine2(fence); err != nil {
		return nil, err
	}
	return s, nil
}
