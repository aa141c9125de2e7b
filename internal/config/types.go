// Package config provides the project tunables shared by the engine and the CLI.
// It is decoupled from CLI concerns: it only knows how to default, validate and
// load core.Settings.
package config

import (
	"fmt"

	"github.com/leapstack-labs/strata/pkg/core"
)

// Validate checks that the tunables describe a usable configuration.
func Validate(s core.Settings) error {
	if s.SnapTolerance < 0 {
		return fmt.Errorf("snap_tolerance must be >= 0, got %g", s.SnapTolerance)
	}
	if s.MinThickness <= 0 {
		return fmt.Errorf("min_thickness must be > 0, got %g", s.MinThickness)
	}
	if s.CorrelationAngle <= 0 || s.CorrelationAngle >= 90 {
		return fmt.Errorf("correlation_angle must be in (0, 90), got %g", s.CorrelationAngle)
	}
	if s.ParentCorrelationAngle <= 0 || s.ParentCorrelationAngle >= 90 {
		return fmt.Errorf("parent_correlation_angle must be in (0, 90), got %g", s.ParentCorrelationAngle)
	}
	if s.MaxCollarSnapDistance < 0 {
		return fmt.Errorf("max_collar_snap_distance must be >= 0, got %g", s.MaxCollarSnapDistance)
	}
	return nil
}
