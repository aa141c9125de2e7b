package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a record with the same identifier already exists.
	ErrConflict = errors.New("conflict")
	// ErrNoGeometry is returned when a hole has no usable trajectory.
	ErrNoGeometry = errors.New("hole has no geometry")
)

// HoleGeometryError reports a trajectory that cannot be made to match its declared depth.
type HoleGeometryError struct {
	HoleID string
	Depth  float64
	Length float64
	Reason string
}

func (e *HoleGeometryError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("hole %q geometry: %s", e.HoleID, e.Reason)
	}
	return fmt.Sprintf("hole %q geometry: trajectory length %.6f does not match depth %.6f",
		e.HoleID, e.Length, e.Depth)
}

// ResolutionError reports a drawn edit for which no section or hole can be determined.
type ResolutionError struct {
	SectionID string
	Reason    string
}

func (e *ResolutionError) Error() string {
	if e.SectionID != "" {
		return fmt.Sprintf("cannot resolve edit in section %q: %s", e.SectionID, e.Reason)
	}
	return "cannot resolve edit: " + e.Reason
}

// ThicknessError reports an interval thinner than the minimum thickness after snapping.
type ThicknessError struct {
	HoleID        string
	From          float64
	To            float64
	MinThickness  float64
	SnapTolerance float64
}

func (e *ThicknessError) Error() string {
	return fmt.Sprintf("interval [%g, %g) on hole %q is thinner than %g after snapping (snap tolerance %g)",
		e.From, e.To, e.HoleID, e.MinThickness, e.SnapTolerance)
}

// BoundsError reports manual interval bounds that cannot describe a range on a hole.
type BoundsError struct {
	HoleID string
	From   float64
	To     float64
	Reason string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("interval [%g, %g) on hole %q: %s", e.From, e.To, e.HoleID, e.Reason)
}

// GraphConsistencyError reports malformed graph relationships or ungeometrizable nodes.
type GraphConsistencyError struct {
	GraphID string
	NodeID  string
	Reason  string
	Err     error
}

func (e *GraphConsistencyError) Error() string {
	msg := "graph " + fmt.Sprintf("%q", e.GraphID)
	if e.NodeID != "" {
		msg += fmt.Sprintf(" node %q", e.NodeID)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GraphConsistencyError) Unwrap() error { return e.Err }
