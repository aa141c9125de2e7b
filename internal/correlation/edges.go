package correlation

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// representative positions along a node, as length fractions
var representative = [...]float64{0, 0.5, 1}

// PossibleEdges computes the valid edges between nodes of a graph lying on
// adjacent holes. Each pair is reported once with StartID < EndID.
//
// Nodes without parents correlate when their elevation offset at a
// representative point stays within the correlation angle. Nodes with
// parents additionally need a valid edge between their parents, and the
// difference between the two offsets must stay within the parent
// correlation angle. A pair where only one node has a parent never correlates.
func (s *Service) PossibleEdges(ctx context.Context, graphID string) ([]*core.PossibleEdge, error) {
	if err := s.graphExists(ctx, graphID); err != nil {
		return nil, err
	}
	h, err := s.hierarchy(ctx)
	if err != nil {
		return nil, err
	}

	nodes, err := s.tx.ListNodes(ctx, core.NodeFilter{GraphIDs: []string{graphID}})
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if len(n.Geom) < 2 {
			return nil, &core.GraphConsistencyError{GraphID: graphID, NodeID: n.ID, Reason: "node has no geometry"}
		}
	}

	parents := make(map[string]*core.Node)
	if ids := h.Parents(graphID); len(ids) > 0 {
		pn, err := s.tx.ListNodes(ctx, core.NodeFilter{GraphIDs: ids})
		if err != nil {
			return nil, err
		}
		for _, n := range pn {
			parents[n.ID] = n
		}
	}

	pairs, err := s.tx.ListAdjacency(ctx)
	if err != nil {
		return nil, err
	}
	adjacent := make(map[core.HolePair]bool, len(pairs))
	for _, p := range pairs {
		adjacent[p] = true
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	tanAngle := tanDeg(s.settings.CorrelationAngle)
	tanParent := tanDeg(s.settings.ParentCorrelationAngle)

	var out []*core.PossibleEdge
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if a.HoleID == b.HoleID || !adjacent[core.NewHolePair(a.HoleID, b.HoleID)] {
				continue
			}
			if !validEdge(a, b, parents, tanAngle, tanParent) {
				continue
			}
			out = append(out, &core.PossibleEdge{
				StartID: a.ID,
				EndID:   b.ID,
				GraphID: graphID,
				Geom:    geometry.Line3{a.Geom.Interpolate(0.5), b.Geom.Interpolate(0.5)},
			})
		}
	}
	s.logger.Debug("possible edges computed",
		slog.String("graph", graphID),
		slog.Int("nodes", len(nodes)),
		slog.Int("edges", len(out)))
	return out, nil
}

// AcceptPossibleEdges persists the current possible edges of a graph.
func (s *Service) AcceptPossibleEdges(ctx context.Context, graphID string) ([]*core.Edge, error) {
	possible, err := s.PossibleEdges(ctx, graphID)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Edge, len(possible))
	for i, p := range possible {
		e := core.Edge(*p)
		if err := s.tx.InsertEdge(ctx, &e); err != nil {
			return nil, err
		}
		out[i] = &e
	}
	s.logger.Debug("possible edges accepted", slog.String("graph", graphID), slog.Int("edges", len(out)))
	return out, nil
}

func validEdge(a, b *core.Node, parents map[string]*core.Node, tanAngle, tanParent float64) bool {
	switch {
	case a.ParentID == "" && b.ParentID == "":
		return validOffset(a.Geom, b.Geom, tanAngle)
	case a.ParentID == "" || b.ParentID == "":
		return false
	}

	pa, pb := parents[a.ParentID], parents[b.ParentID]
	if pa == nil || pb == nil || pa.GraphID != pb.GraphID || pa.HoleID == pb.HoleID {
		return false
	}
	if len(pa.Geom) < 2 || len(pb.Geom) < 2 || !validOffset(pa.Geom, pb.Geom, tanAngle) {
		return false
	}
	return validOffset(a.Geom, b.Geom, tanAngle) && validParentOffset(a.Geom, b.Geom, pa.Geom, pb.Geom, tanParent)
}

// validOffset reports whether the elevation offset between a and b at any
// representative point is within tanAngle times their planar distance.
func validOffset(a, b geometry.Line3, tanAngle float64) bool {
	for _, f := range representative {
		pa, pb := a.Interpolate(f), b.Interpolate(f)
		if math.Abs(pb.Z-pa.Z) <= tanAngle*planar(pa, pb) {
			return true
		}
	}
	return false
}

// validParentOffset compares the offset of a child edge with the offset of
// its parent edge at each representative point.
func validParentOffset(a, b, pa, pb geometry.Line3, tanAngle float64) bool {
	for _, f := range representative {
		ca, cb := a.Interpolate(f), b.Interpolate(f)
		offset := cb.Z - ca.Z
		parentOffset := pb.Interpolate(f).Z - pa.Interpolate(f).Z
		if math.Abs(offset-parentOffset) <= tanAngle*planar(ca, cb) {
			return true
		}
	}
	return false
}

func planar(a, b r3.Vec) float64 {
	return r2.Norm(r2.Sub(r2.Vec{X: b.X, Y: b.Y}, r2.Vec{X: a.X, Y: a.Y}))
}

func tanDeg(deg float64) float64 {
	return math.Tan(deg * math.Pi / 180)
}
