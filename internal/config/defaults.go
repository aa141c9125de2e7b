package config

import "github.com/leapstack-labs/strata/pkg/core"

// Default tunables.
const (
	DefaultSnapTolerance          = 0.1
	DefaultGhostPattern           = "%ghost%"
	DefaultMinThickness           = 0.01
	DefaultCorrelationAngle       = 5.0
	DefaultParentCorrelationAngle = 1.0
	DefaultMaxCollarSnapDistance  = 25.0
)

// Default returns Settings with every tunable at its default.
func Default() core.Settings {
	return core.Settings{
		SnapTolerance:          DefaultSnapTolerance,
		GhostPattern:           DefaultGhostPattern,
		MinThickness:           DefaultMinThickness,
		CorrelationAngle:       DefaultCorrelationAngle,
		ParentCorrelationAngle: DefaultParentCorrelationAngle,
		MaxCollarSnapDistance:  DefaultMaxCollarSnapDistance,
	}
}

// ApplyDefaults fills zero-valued numeric tunables with their defaults.
// GhostPattern is left alone: an empty pattern disables ghost filtering.
func ApplyDefaults(s *core.Settings) {
	if s == nil {
		return
	}
	if s.MinThickness == 0 {
		s.MinThickness = DefaultMinThickness
	}
	if s.CorrelationAngle == 0 {
		s.CorrelationAngle = DefaultCorrelationAngle
	}
	if s.ParentCorrelationAngle == 0 {
		s.ParentCorrelationAngle = DefaultParentCorrelationAngle
	}
	if s.MaxCollarSnapDistance == 0 {
		s.MaxCollarSnapDistance = DefaultMaxCollarSnapDistance
	}
}
