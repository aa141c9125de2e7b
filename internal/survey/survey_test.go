package survey

import (
	"context"
	"testing"

	"github.com/leapstack-labs/strata/internal/config"
	"github.com/leapstack-labs/strata/internal/state"
	"github.com/leapstack-labs/strata/internal/testutil"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func setupStore(t *testing.T) *state.SQLiteStore {
	t.Helper()
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(context.Background(), state.MemoryPath))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// withService runs fn in a committed transaction.
func withService(t *testing.T, store *state.SQLiteStore, fn func(ctx context.Context, svc *Service, tx core.Tx)) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.WithTx(ctx, func(tx core.Tx) error {
		fn(ctx, NewService(tx, config.Default(), testutil.NewTestLogger(t)), tx)
		return nil
	}))
}

func verticalHole(id string, x, y float64) *core.Hole {
	return &core.Hole{ID: id, Collar: r3.Vec{X: x, Y: y, Z: 0}, Depth: 100}
}

func weSection() *core.Section {
	return &core.Section{
		ID:     "WE",
		Anchor: r3.Vec{X: 0, Y: 0, Z: 0},
		Fence:  geometry.Line2{{X: -50, Y: 0}, {X: 250, Y: 0}},
		Scale:  1,
	}
}

func TestService_SaveHoleBuildsCaches(t *testing.T) {
	store := setupStore(t)

	withService(t, store, func(ctx context.Context, svc *Service, tx core.Tx) {
		require.NoError(t, svc.SaveSection(ctx, weSection()))

		h, err := svc.SaveHole(ctx, verticalHole("DH1", 10, 5))
		require.NoError(t, err)
		assert.InDelta(t, 100, h.Trajectory.Length(), 1e-3)

		lines, err := tx.ListHoleSections(ctx, core.HoleSectionFilter{HoleID: "DH1"})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.InDelta(t, 60, lines[0].Geom.Start().X, 1e-9)
		assert.InDelta(t, -100, lines[0].Geom.End().Y, 1e-9)
	})
}

func TestService_SaveSectionCoversExistingHoles(t *testing.T) {
	store := setupStore(t)

	withService(t, store, func(ctx context.Context, svc *Service, tx core.Tx) {
		for i, id := range []string{"DH1", "DH2", "DH3"} {
			_, err := svc.SaveHole(ctx, verticalHole(id, float64(i*50), 0))
			require.NoError(t, err)
		}
		require.NoError(t, svc.SaveSection(ctx, weSection()))

		lines, err := tx.ListHoleSections(ctx, core.HoleSectionFilter{SectionID: "WE"})
		require.NoError(t, err)
		assert.Len(t, lines, 3)

		// moving the section anchor recomputes every line
		moved := weSection()
		moved.Anchor = r3.Vec{X: 1000}
		require.NoError(t, svc.SaveSection(ctx, moved))
		lines, err = tx.ListHoleSections(ctx, core.HoleSectionFilter{SectionID: "WE"})
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.InDelta(t, 1050, lines[0].Geom.Start().X, 1e-9)

		require.NoError(t, svc.DeleteSection(ctx, "WE"))
		lines, err = tx.ListHoleSections(ctx, core.HoleSectionFilter{})
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestService_SaveHoleRefreshesNodeGeometry(t *testing.T) {
	store := setupStore(t)

	withService(t, store, func(ctx context.Context, svc *Service, tx core.Tx) {
		_, err := svc.SaveHole(ctx, verticalHole("DH1", 0, 0))
		require.NoError(t, err)
		require.NoError(t, tx.InsertGraph(ctx, &core.Graph{ID: "g"}))
		require.NoError(t, tx.InsertNode(ctx, &core.Node{ID: "n", GraphID: "g", HoleID: "DH1", From: 10, To: 20}))

		moved := verticalHole("DH1", 0, 0)
		moved.Collar.Z = 50
		_, err = svc.SaveHole(ctx, moved)
		require.NoError(t, err)

		n, err := tx.GetNode(ctx, "n")
		require.NoError(t, err)
		require.Len(t, n.Geom, 2)
		assert.InDelta(t, 40, n.Geom.Start().Z, 1e-9)
		assert.InDelta(t, 30, n.Geom.End().Z, 1e-9)
	})
}

func TestService_SaveHoleErrors(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx core.Tx) error {
		h := verticalHole("BAD", 0, 0)
		h.Deviations = []core.DeviationSample{{Depth: 0, Dip: 20, Azimuth: 0}}
		_, err := NewService(tx, config.Default(), nil).SaveHole(ctx, h)
		return err
	})
	var geomErr *core.HoleGeometryError
	require.ErrorAs(t, err, &geomErr)
	assert.Equal(t, "BAD", geomErr.HoleID)

	err = store.WithTx(ctx, func(tx core.Tx) error {
		_, err := NewService(tx, config.Default(), nil).SaveHole(ctx, &core.Hole{Depth: 10})
		return err
	})
	assert.Error(t, err)
}

func TestService_RebuildAll(t *testing.T) {
	store := setupStore(t)

	withService(t, store, func(ctx context.Context, svc *Service, tx core.Tx) {
		require.NoError(t, svc.SaveSection(ctx, weSection()))
		for i := range 6 {
			_, err := svc.SaveHole(ctx, verticalHole(string(rune('A'+i)), float64(i*20), 0))
			require.NoError(t, err)
		}
		require.NoError(t, tx.DeleteHoleSections(ctx, core.HoleSectionFilter{}))

		require.NoError(t, svc.RebuildAll(ctx))

		lines, err := tx.ListHoleSections(ctx, core.HoleSectionFilter{})
		require.NoError(t, err)
		assert.Len(t, lines, 6)
	})
}

func TestService_CreateDefaultSections(t *testing.T) {
	store := setupStore(t)

	withService(t, store, func(ctx context.Context, svc *Service, tx core.Tx) {
		_, err := svc.CreateDefaultSections(ctx, 1, 0)
		assert.Error(t, err, "no collars")

		for i, id := range []string{"DH1", "DH2"} {
			_, err := svc.SaveHole(ctx, verticalHole(id, float64(i*100), float64(i*50)))
			require.NoError(t, err)
		}
		sections, err := svc.CreateDefaultSections(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, sections, 2)

		stored, err := tx.ListSections(ctx)
		require.NoError(t, err)
		assert.Len(t, stored, 2)

		lines, err := tx.ListHoleSections(ctx, core.HoleSectionFilter{})
		require.NoError(t, err)
		assert.Len(t, lines, 4)
	})
}

func TestService_ClosestHole(t *testing.T) {
	store := setupStore(t)

	withService(t, store, func(ctx context.Context, svc *Service, tx core.Tx) {
		require.NoError(t, svc.SaveSection(ctx, &core.Section{
			ID:     "far",
			Anchor: r3.Vec{X: 5000, Y: 5000},
			Fence:  geometry.Line2{{X: 0, Y: 0}, {X: 100, Y: 0}},
			Scale:  1,
		}))
		for _, h := range []*core.Hole{verticalHole("A", 0, 0), verticalHole("B", 40, 0)} {
			_, err := svc.SaveHole(ctx, h)
			require.NoError(t, err)
		}

		id, err := svc.ClosestHole(ctx, 30, 3, "")
		require.NoError(t, err)
		assert.Equal(t, "B", id)

		// section coordinates of hole A, far away from every collar
		id, err = svc.ClosestHole(ctx, 5001, 4950, "far")
		require.NoError(t, err)
		assert.Equal(t, "A", id)

		_, err = svc.ClosestHole(ctx, -500, -500, "")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestService_Triangulate(t *testing.T) {
	store := setupStore(t)

	withService(t, store, func(ctx context.Context, svc *Service, tx core.Tx) {
		for _, h := range []*core.Hole{
			verticalHole("A", 0, 0),
			verticalHole("B", 100, 0),
			verticalHole("C", 100, 100),
			verticalHole("D", 0, 100),
		} {
			_, err := svc.SaveHole(ctx, h)
			require.NoError(t, err)
		}

		pairs, err := svc.Triangulate(ctx)
		require.NoError(t, err)
		assert.Len(t, pairs, 5, "four sides and one diagonal")
		for _, side := range []core.HolePair{{A: "A", B: "B"}, {A: "B", B: "C"}, {A: "C", B: "D"}, {A: "A", B: "D"}} {
			assert.Contains(t, pairs, side)
		}

		stored, err := tx.ListAdjacency(ctx)
		require.NoError(t, err)
		assert.Equal(t, pairs, stored)

		require.NoError(t, svc.SetAdjacency(ctx, []core.HolePair{{A: "C", B: "A"}}))
		stored, err = tx.ListAdjacency(ctx)
		require.NoError(t, err)
		assert.Equal(t, []core.HolePair{{A: "A", B: "C"}}, stored)

		assert.ErrorIs(t, svc.SetAdjacency(ctx, []core.HolePair{{A: "A", B: "Z"}}), core.ErrNotFound)
		assert.Error(t, svc.SetAdjacency(ctx, []core.HolePair{{A: "A", B: "A"}}))
	})
}

func TestAdjacency(t *testing.T) {
	tests := []struct {
		name  string
		sites []site
		want  []core.HolePair
	}{
		{
			name:  "single",
			sites: []site{{"A", r2.Vec{}}},
			want:  []core.HolePair{},
		},
		{
			name:  "two holes",
			sites: []site{{"B", r2.Vec{X: 10}}, {"A", r2.Vec{}}},
			want:  []core.HolePair{{A: "A", B: "B"}},
		},
		{
			name: "collinear",
			sites: []site{
				{"A", r2.Vec{X: 0, Y: 0}},
				{"C", r2.Vec{X: 20, Y: 20}},
				{"B", r2.Vec{X: 10, Y: 10}},
			},
			want: []core.HolePair{{A: "A", B: "B"}, {A: "B", B: "C"}},
		},
		{
			name: "triangle",
			sites: []site{
				{"A", r2.Vec{X: 0, Y: 0}},
				{"B", r2.Vec{X: 10, Y: 0}},
				{"C", r2.Vec{X: 5, Y: 8}},
			},
			want: []core.HolePair{{A: "A", B: "B"}, {A: "A", B: "C"}, {A: "B", B: "C"}},
		},
		{
			name: "coincident collars",
			sites: []site{
				{"A", r2.Vec{X: 0, Y: 0}},
				{"A2", r2.Vec{X: 0, Y: 0}},
				{"B", r2.Vec{X: 10, Y: 0}},
			},
			want: []core.HolePair{{A: "A", B: "A2"}, {A: "A", B: "B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjacency(tt.sites))
		})
	}
}

func TestDelaunay_CenterPoint(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 5, Y: 5}}
	edges, err := delaunayEdges(pts)
	require.NoError(t, err)
	assert.Len(t, edges, 8, "four sides and four spokes")

	spokes := 0
	for _, e := range edges {
		if e[0] == 4 || e[1] == 4 {
			spokes++
		}
	}
	assert.Equal(t, 4, spokes)
}

func TestDelaunay_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []r2.Vec
	}{
		{name: "two points", pts: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}},
		{name: "collinear", pts: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := delaunayEdges(tt.pts)
			assert.Error(t, err)
		})
	}
}
