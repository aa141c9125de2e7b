package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/strata/pkg/core"
)

const selectInterval = `SELECT id, hole_id, from_, to_, code, comments FROM intervals`

// GetInterval retrieves an interval by ID.
func (t *sqliteTx) GetInterval(ctx context.Context, id string) (*core.Interval, error) {
	i := &core.Interval{}
	err := t.tx.QueryRowContext(ctx, selectInterval+` WHERE id = ?`, id).
		Scan(&i.ID, &i.HoleID, &i.From, &i.To, &i.Code, &i.Comments)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("interval %q: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interval: %w", err)
	}
	return i, nil
}

// ListIntervals returns the intervals of a hole ordered by From.
func (t *sqliteTx) ListIntervals(ctx context.Context, holeID string) ([]*core.Interval, error) {
	return t.queryIntervals(ctx, selectInterval+` WHERE hole_id = ? ORDER BY from_, id`, holeID)
}

// ListIntervalsByCode returns every interval carrying code ordered by From.
func (t *sqliteTx) ListIntervalsByCode(ctx context.Context, code string) ([]*core.Interval, error) {
	return t.queryIntervals(ctx, selectInterval+` WHERE code = ? ORDER BY from_, id`, code)
}

// InsertInterval stores a new interval, assigning an ID when empty.
func (t *sqliteTx) InsertInterval(ctx context.Context, i *core.Interval) error {
	if i.ID == "" {
		i.ID = generateID()
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO intervals (id, hole_id, from_, to_, code, comments) VALUES (?, ?, ?, ?, ?, ?)`,
		i.ID, i.HoleID, i.From, i.To, i.Code, i.Comments,
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("interval %q: %w", i.ID, core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert interval: %w", err)
	}
	return nil
}

// UpdateInterval replaces every field of an existing interval.
func (t *sqliteTx) UpdateInterval(ctx context.Context, i *core.Interval) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE intervals SET hole_id = ?, from_ = ?, to_ = ?, code = ?, comments = ? WHERE id = ?`,
		i.HoleID, i.From, i.To, i.Code, i.Comments, i.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update interval: %w", err)
	}
	return requireAffected(res, "interval", i.ID)
}

// DeleteInterval deletes an interval.
func (t *sqliteTx) DeleteInterval(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM intervals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interval: %w", err)
	}
	return requireAffected(res, "interval", id)
}

func (t *sqliteTx) queryIntervals(ctx context.Context, query string, args ...any) ([]*core.Interval, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list intervals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.Interval
	for rows.Next() {
		i := &core.Interval{}
		if err := rows.Scan(&i.ID, &i.HoleID, &i.From, &i.To, &i.Code, &i.Comments); err != nil {
			return nil, fmt.Errorf("failed to scan interval: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
