package survey

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fogleman/delaunay"
	"github.com/leapstack-labs/strata/pkg/core"
	"gonum.org/v1/gonum/spatial/r2"
)

// Triangulate replaces the hole adjacency with the edges of the Delaunay
// triangulation of the collars and returns it.
func (s *Service) Triangulate(ctx context.Context) ([]core.HolePair, error) {
	holes, err := s.tx.ListHoles(ctx)
	if err != nil {
		return nil, err
	}

	sites := make([]site, len(holes))
	for i, h := range holes {
		sites[i] = site{id: h.ID, p: r2.Vec{X: h.Collar.X, Y: h.Collar.Y}}
	}
	pairs := adjacency(sites)

	if err := s.tx.ReplaceAdjacency(ctx, pairs); err != nil {
		return nil, err
	}
	s.logger.Debug("holes triangulated", slog.Int("holes", len(holes)), slog.Int("pairs", len(pairs)))
	return pairs, nil
}

// SetAdjacency replaces the hole adjacency with explicit pairs.
func (s *Service) SetAdjacency(ctx context.Context, pairs []core.HolePair) error {
	known := make(map[string]bool)
	holes, err := s.tx.ListHoles(ctx)
	if err != nil {
		return err
	}
	for _, h := range holes {
		known[h.ID] = true
	}

	out := make([]core.HolePair, 0, len(pairs))
	for _, p := range pairs {
		if p.A == p.B {
			return fmt.Errorf("hole %q cannot be adjacent to itself", p.A)
		}
		for _, id := range []string{p.A, p.B} {
			if !known[id] {
				return fmt.Errorf("hole %q: %w", id, core.ErrNotFound)
			}
		}
		out = append(out, core.NewHolePair(p.A, p.B))
	}
	return s.tx.ReplaceAdjacency(ctx, out)
}

type site struct {
	id string
	p  r2.Vec
}

// adjacency returns the sorted, deduplicated Delaunay edges between sites.
// Collinear sites are chained along their line and coincident sites are
// attached to the first one at that position.
func adjacency(sites []site) []core.HolePair {
	sorted := make([]site, len(sites))
	copy(sorted, sites)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].id < sorted[j].id })

	set := make(map[core.HolePair]bool)
	var unique []site
	for _, s := range sorted {
		dup := false
		for _, u := range unique {
			if r2.Norm(r2.Sub(s.p, u.p)) < 1e-9 {
				set[core.NewHolePair(s.id, u.id)] = true
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, s)
		}
	}

	pts := make([]r2.Vec, len(unique))
	for i, u := range unique {
		pts[i] = u.p
	}
	edges, err := delaunayEdges(pts)
	if err != nil {
		edges = chain(pts)
	}
	for _, e := range edges {
		set[core.NewHolePair(unique[e[0]].id, unique[e[1]].id)] = true
	}

	out := make([]core.HolePair, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// chain links points ordered along their dominant axis.
func chain(pts []r2.Vec) [][2]int {
	if len(pts) < 2 {
		return nil
	}
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	dir := r2.Sub(pts[len(pts)-1], pts[0])
	for _, p := range pts[1:] {
		if d := r2.Sub(p, pts[0]); r2.Norm(d) > r2.Norm(dir) {
			dir = d
		}
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return r2.Dot(pts[idx[i]], dir) < r2.Dot(pts[idx[j]], dir)
	})
	out := make([][2]int, 0, len(idx)-1)
	for i := 1; i < len(idx); i++ {
		out = append(out, [2]int{idx[i-1], idx[i]})
	}
	return out
}

// delaunayEdges returns the distinct edges of the Delaunay triangulation of
// pts as index pairs. Fewer than three points or collinear points are an error.
func delaunayEdges(pts []r2.Vec) ([][2]int, error) {
	points := make([]delaunay.Point, len(pts))
	for i, p := range pts {
		points[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	tri, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, err
	}
	if len(tri.Triangles) == 0 {
		return nil, fmt.Errorf("no triangle for %d points", len(pts))
	}

	seen := make(map[[2]int]bool)
	var out [][2]int
	for e := range tri.Triangles {
		next := e + 1
		if e%3 == 2 {
			next = e - 2
		}
		a, b := tri.Triangles[e], tri.Triangles[next]
		if b < a {
			a, b = b, a
		}
		if k := [2]int{a, b}; !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}
