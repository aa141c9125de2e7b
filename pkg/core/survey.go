package core

import (
	"github.com/leapstack-labs/strata/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// DeviationSample is one station of a directional survey.
type DeviationSample struct {
	Depth   float64 `json:"depth" yaml:"depth"`     // measured depth along hole
	Dip     float64 `json:"dip" yaml:"dip"`         // degrees, in (-180, 0); -90 is straight down
	Azimuth float64 `json:"azimuth" yaml:"azimuth"` // degrees clockwise from north, in [0, 360]
}

// Hole is a borehole with its derived trajectory.
type Hole struct {
	ID         string            `json:"id" yaml:"id"`
	Collar     r3.Vec            `json:"collar" yaml:"collar"`
	Depth      float64           `json:"depth" yaml:"depth"`
	Deviations []DeviationSample `json:"deviations,omitempty" yaml:"deviations,omitempty"`

	// Trajectory is recomputed whenever the collar, depth or deviations change.
	Trajectory geometry.Line3 `json:"-" yaml:"-"`
}

// HasGeometry reports whether the hole carries a usable trajectory.
func (h *Hole) HasGeometry() bool {
	return h != nil && len(h.Trajectory) >= 2 && h.Depth > 0
}

// Section is a vertical drawing plane defined by a plan-view fence line.
//
// A 3D point projects to X = Anchor.X + abscissa along Fence and
// Y = Anchor.Y + (z - Anchor.Z) * Scale.
type Section struct {
	ID     string         `json:"id" yaml:"id"`
	Anchor r3.Vec         `json:"anchor" yaml:"anchor"`
	Fence  geometry.Line2 `json:"-" yaml:"-"`
	Scale  float64        `json:"scale" yaml:"scale"`
}

// HoleSection is the cached projection of a hole trajectory into a section.
type HoleSection struct {
	HoleID    string         `json:"hole_id"`
	SectionID string         `json:"section_id"`
	Geom      geometry.Line2 `json:"-"`
}

// Interval is a formation record: a coded depth range on a hole.
type Interval struct {
	ID       string  `json:"id" yaml:"id"`
	HoleID   string  `json:"hole_id" yaml:"hole_id"`
	From     float64 `json:"from_" yaml:"from_"`
	To       float64 `json:"to_" yaml:"to_"`
	Code     string  `json:"code" yaml:"code"`
	Comments string  `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// Thickness returns To - From.
func (i *Interval) Thickness() float64 { return i.To - i.From }

// HolePair is an unordered pair of geometrically adjacent holes, stored with A < B.
type HolePair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewHolePair orders the two identifiers.
func NewHolePair(a, b string) HolePair {
	if b < a {
		a, b = b, a
	}
	return HolePair{A: a, B: b}
}
