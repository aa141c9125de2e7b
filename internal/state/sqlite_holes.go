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

const selectHole = `SELECT id, collar_x, collar_y, collar_z, depth, geom FROM holes`

// GetHole retrieves a hole with its deviations.
func (t *sqliteTx) GetHole(ctx context.Context, id string) (*core.Hole, error) {
	h, err := scanHole(t.tx.QueryRowContext(ctx, selectHole+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hole %q: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hole: %w", err)
	}
	if h.Deviations, err = t.listDeviations(ctx, id); err != nil {
		return nil, err
	}
	return h, nil
}

// ListHoles returns every hole ordered by identifier.
func (t *sqliteTx) ListHoles(ctx context.Context) ([]*core.Hole, error) {
	rows, err := t.tx.QueryContext(ctx, selectHole+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var holes []*core.Hole
	for rows.Next() {
		h, err := scanHole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hole: %w", err)
		}
		holes = append(holes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, h := range holes {
		if h.Deviations, err = t.listDeviations(ctx, h.ID); err != nil {
			return nil, err
		}
	}
	return holes, nil
}

// SaveHole creates or updates a hole and replaces its deviations.
// Dependent records survive the update.
func (t *sqliteTx) SaveHole(ctx context.Context, h *core.Hole) error {
	geom, err := encodeLine3(h.Trajectory)
	if err != nil {
		return err
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO holes (id, collar_x, collar_y, collar_z, depth, geom)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   collar_x = excluded.collar_x,
		   collar_y = excluded.collar_y,
		   collar_z = excluded.collar_z,
		   depth = excluded.depth,
		   geom = excluded.geom`,
		h.ID, h.Collar.X, h.Collar.Y, h.Collar.Z, h.Depth, geom,
	)
	if err != nil {
		return fmt.Errorf("failed to save hole: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, `DELETE FROM deviations WHERE hole_id = ?`, h.ID); err != nil {
		return fmt.Errorf("failed to clear deviations: %w", err)
	}
	for _, d := range h.Deviations {
		_, err := t.tx.ExecContext(ctx,
			`INSERT INTO deviations (hole_id, depth, dip, azimuth) VALUES (?, ?, ?, ?)`,
			h.ID, d.Depth, d.Dip, d.Azimuth,
		)
		if isConstraintViolation(err) {
			return fmt.Errorf("duplicate deviation at depth %g on hole %q: %w", d.Depth, h.ID, core.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to save deviation: %w", err)
		}
	}
	return nil
}

// DeleteHole deletes a hole; dependent records cascade.
func (t *sqliteTx) DeleteHole(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM holes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hole: %w", err)
	}
	return requireAffected(res, "hole", id)
}

func (t *sqliteTx) listDeviations(ctx context.Context, holeID string) ([]core.DeviationSample, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT depth, dip, azimuth FROM deviations WHERE hole_id = ? ORDER BY depth`, holeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deviations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.DeviationSample
	for rows.Next() {
		var d core.DeviationSample
		if err := rows.Scan(&d.Depth, &d.Dip, &d.Azimuth); err != nil {
			return nil, fmt.Errorf("failed to scan deviation: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// --- Hole sections ---

// ListHoleSections returns cached reference lines ordered by hole then section.
func (t *sqliteTx) ListHoleSections(ctx context.Context, filter core.HoleSectionFilter) ([]*core.HoleSection, error) {
	where, args := holeSectionWhere(filter)
	rows, err := t.tx.QueryContext(ctx,
		`SELECT hole_id, section_id, geom FROM hole_sections`+where+` ORDER BY hole_id, section_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hole sections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.HoleSection
	for rows.Next() {
		hs := &core.HoleSection{}
		var geom []byte
		if err := rows.Scan(&hs.HoleID, &hs.SectionID, &geom); err != nil {
			return nil, fmt.Errorf("failed to scan hole section: %w", err)
		}
		if hs.Geom, err = geometry.DecodeLine2(geom); err != nil {
			return nil, err
		}
		out = append(out, hs)
	}
	return out, rows.Err()
}

// SaveHoleSection creates or replaces a cached reference line.
func (t *sqliteTx) SaveHoleSection(ctx context.Context, hs *core.HoleSection) error {
	geom, err := hs.Geom.EncodeWKB()
	if err != nil {
		return fmt.Errorf("failed to encode hole section: %w", err)
	}
	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO hole_sections (hole_id, section_id, geom) VALUES (?, ?, ?)
		 ON CONFLICT(hole_id, section_id) DO UPDATE SET geom = excluded.geom`,
		hs.HoleID, hs.SectionID, geom,
	)
	if err != nil {
		return fmt.Errorf("failed to save hole section: %w", err)
	}
	return nil
}

// DeleteHoleSections removes the cached reference lines matching filter.
func (t *sqliteTx) DeleteHoleSections(ctx context.Context, filter core.HoleSectionFilter) error {
	where, args := holeSectionWhere(filter)
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM hole_sections`+where, args...); err != nil {
		return fmt.Errorf("failed to delete hole sections: %w", err)
	}
	return nil
}

func holeSectionWhere(f core.HoleSectionFilter) (string, []any) {
	var conds []string
	var args []any
	if f.HoleID != "" {
		conds = append(conds, "hole_id = ?")
		args = append(args, f.HoleID)
	}
	if f.SectionID != "" {
		conds = append(conds, "section_id = ?")
		args = append(args, f.SectionID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// --- Adjacency ---

// ListAdjacency returns the adjacent hole pairs ordered by identifiers.
func (t *sqliteTx) ListAdjacency(ctx context.Context) ([]core.HolePair, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT hole_a, hole_b FROM hole_adjacency ORDER BY hole_a, hole_b`)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjacency: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.HolePair
	for rows.Next() {
		var p core.HolePair
		if err := rows.Scan(&p.A, &p.B); err != nil {
			return nil, fmt.Errorf("failed to scan adjacency: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplaceAdjacency replaces the whole adjacency set.
func (t *sqliteTx) ReplaceAdjacency(ctx context.Context, pairs []core.HolePair) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM hole_adjacency`); err != nil {
		return fmt.Errorf("failed to clear adjacency: %w", err)
	}
	for _, p := range pairs {
		p = core.NewHolePair(p.A, p.B)
		_, err := t.tx.ExecContext(ctx,
			`INSERT INTO hole_adjacency (hole_a, hole_b) VALUES (?, ?) ON CONFLICT DO NOTHING`, p.A, p.B)
		if err != nil {
			return fmt.Errorf("failed to save adjacency %s-%s: %w", p.A, p.B, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHole(row rowScanner) (*core.Hole, error) {
	h := &core.Hole{}
	var geom []byte
	if err := row.Scan(&h.ID, &h.Collar.X, &h.Collar.Y, &h.Collar.Z, &h.Depth, &geom); err != nil {
		return nil, err
	}
	var err error
	if h.Trajectory, err = geometry.DecodeLine3(geom); err != nil {
		return nil, err
	}
	return h, nil
}

// encodeLine3 returns nil for lines that cannot carry a geometry.
func encodeLine3(l geometry.Line3) ([]byte, error) {
	if len(l) < 2 {
		return nil, nil
	}
	b, err := l.EncodeWKB()
	if err != nil {
		return nil, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return b, nil
}
