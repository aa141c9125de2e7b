package core

import "github.com/leapstack-labs/strata/pkg/geometry"

// Graph is one correlation layer.
type Graph struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"graph_type,omitempty" yaml:"graph_type,omitempty"`
}

// GraphRelationship links a parent graph to a child graph.
type GraphRelationship struct {
	ParentID string `json:"parent_id"`
	ChildID  string `json:"child_id"`
}

// Node is a depth-located pick belonging to a graph.
//
// ParentID is a non-owning reference to a node of one of the parent graphs,
// resolved by identifier. It is recomputed by the correlation engine and is
// empty for root nodes.
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	GraphID  string         `json:"graph_id" yaml:"graph_id"`
	HoleID   string         `json:"hole_id" yaml:"hole_id"`
	From     float64        `json:"from_" yaml:"from_"`
	To       float64        `json:"to_" yaml:"to_"`
	Geom     geometry.Line3 `json:"-" yaml:"-"`
	ParentID string         `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// PossibleEdge is a computed candidate correlation between two nodes of a graph.
type PossibleEdge struct {
	StartID string         `json:"start_"`
	EndID   string         `json:"end_"`
	GraphID string         `json:"graph_id"`
	Geom    geometry.Line3 `json:"-"`
}

// Edge is a possible edge that was accepted into persisted state.
type Edge PossibleEdge
