// Package core defines the shared language of strata.
//
// This package contains:
//   - Domain entities (Hole, Section, HoleSection, Interval, Graph, Node, Edge)
//   - The error taxonomy surfaced by editing operations
//   - Repository interfaces implemented by the state store
//   - The tunable Settings threaded into every operation
//
// The Golden Rule: pkg/core imports ONLY pkg/geometry, gonum vectors and stdlib.
// All other packages depend on core, not the reverse.
package core
