package core

// Settings holds the project tunables consumed by every editing operation.
//
// Settings are read at the start of each operation and passed down explicitly;
// changing them never rewrites records persisted earlier.
type Settings struct {
	// SnapTolerance is the largest gap closed by anti-gap snapping.
	SnapTolerance float64 `koanf:"snap_tolerance" json:"snap_tolerance" yaml:"snap_tolerance"`
	// GhostPattern is a LIKE pattern (% and _) marking intervals ignored by snapping.
	GhostPattern string `koanf:"ghost_pattern" json:"ghost_pattern" yaml:"ghost_pattern"`
	// MinThickness is the smallest accepted To - From.
	MinThickness float64 `koanf:"min_thickness" json:"min_thickness" yaml:"min_thickness"`
	// CorrelationAngle bounds edge slopes, in degrees.
	CorrelationAngle float64 `koanf:"correlation_angle" json:"correlation_angle" yaml:"correlation_angle"`
	// ParentCorrelationAngle bounds the slope difference with the parent edge, in degrees.
	ParentCorrelationAngle float64 `koanf:"parent_correlation_angle" json:"parent_correlation_angle" yaml:"parent_correlation_angle"`
	// MaxCollarSnapDistance bounds the planar search radius of ClosestHole.
	MaxCollarSnapDistance float64 `koanf:"max_collar_snap_distance" json:"max_collar_snap_distance" yaml:"max_collar_snap_distance"`
}
