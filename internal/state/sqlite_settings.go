package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/strata/pkg/core"
)

// GetSettings returns the persisted tunables.
func (t *sqliteTx) GetSettings(ctx context.Context) (core.Settings, error) {
	var s core.Settings
	err := t.tx.QueryRowContext(ctx,
		`SELECT snap_tolerance, ghost_pattern, min_thickness, correlation_angle,
		        parent_correlation_angle, max_collar_snap_distance
		 FROM metadata WHERE id = 1`,
	).Scan(&s.SnapTolerance, &s.GhostPattern, &s.MinThickness, &s.CorrelationAngle,
		&s.ParentCorrelationAngle, &s.MaxCollarSnapDistance)
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("settings: %w", core.ErrNotFound)
	}
	if err != nil {
		return s, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// SaveSettings creates or replaces the tunables row.
func (t *sqliteTx) SaveSettings(ctx context.Context, s core.Settings) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO metadata (id, snap_tolerance, ghost_pattern, min_thickness, correlation_angle,
		                       parent_correlation_angle, max_collar_snap_distance)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   snap_tolerance = excluded.snap_tolerance,
		   ghost_pattern = excluded.ghost_pattern,
		   min_thickness = excluded.min_thickness,
		   correlation_angle = excluded.correlation_angle,
		   parent_correlation_angle = excluded.parent_correlation_angle,
		   max_collar_snap_distance = excluded.max_collar_snap_distance`,
		s.SnapTolerance, s.GhostPattern, s.MinThickness, s.CorrelationAngle,
		s.ParentCorrelationAngle, s.MaxCollarSnapDistance,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
