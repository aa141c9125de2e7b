package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/strata/internal/config"
	"github.com/leapstack-labs/strata/internal/interval"
	"github.com/leapstack-labs/strata/internal/state"
	"github.com/leapstack-labs/strata/internal/testutil"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newEngine(t *testing.T, settings *core.Settings) *Engine {
	t.Helper()
	e, err := New(context.Background(), Config{
		StatePath: state.MemoryPath,
		Settings:  settings,
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// seed stores section WE and two vertical holes 100 apart along it.
func seed(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.SaveSection(ctx, &core.Section{
		ID:     "WE",
		Anchor: r3.Vec{},
		Fence:  geometry.Line2{{X: -50, Y: 0}, {X: 250, Y: 0}},
		Scale:  1,
	}))
	for id, x := range map[string]float64{"DH1": 0, "DH2": 100} {
		_, err := e.SaveHole(ctx, &core.Hole{ID: id, Collar: r3.Vec{X: x}, Depth: 100})
		require.NoError(t, err)
	}
}

func ptr[T any](v T) *T { return &v }

func TestNew_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.db")
	ctx := context.Background()

	e, err := New(ctx, Config{StatePath: path})
	require.NoError(t, err)
	created, err := e.Init(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, e.Close())

	e, err = New(ctx, Config{StatePath: path})
	require.NoError(t, err)
	defer func() { _ = e.Close() }()
	created, err = e.Init(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestNew_InvalidStatePath(t *testing.T) {
	_, err := New(context.Background(), Config{StatePath: "/nonexistent/dir/project.db"})
	assert.Error(t, err)
}

func TestEngine_Settings(t *testing.T) {
	ctx := context.Background()
	fallback := core.Settings{SnapTolerance: 0.5, GhostPattern: "%skip%"}
	e := newEngine(t, &fallback)

	got, err := e.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.SnapTolerance)
	assert.Equal(t, "%skip%", got.GhostPattern)
	assert.Equal(t, config.DefaultMinThickness, got.MinThickness)

	updated := config.Default()
	updated.CorrelationAngle = 12
	require.NoError(t, e.UpdateSettings(ctx, updated))
	got, err = e.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	bad := config.Default()
	bad.MinThickness = 0
	assert.Error(t, e.UpdateSettings(ctx, bad))
}

func TestEngine_IntervalUsesCurrentSettings(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, nil)
	seed(t, e)

	_, err := e.InsertInterval(ctx, interval.Request{HoleID: "DH1", From: ptr(12.08), To: ptr(20.0), Code: "CLAY"})
	require.NoError(t, err)

	// DH1 projects onto x = 50 in section WE.
	draw := func(top, bottom float64) interval.Request {
		return interval.Request{
			Drawing: geometry.Drawing{Line2: geometry.Line2{{X: 50, Y: -top}, {X: 50, Y: -bottom}}},
			Code:    "SAND",
		}
	}

	res, err := e.InsertInterval(ctx, draw(2, 12.03))
	require.NoError(t, err)
	assert.Equal(t, "DH1", res.Interval.HoleID)
	assert.Equal(t, 12.08, res.Interval.To)
	require.NoError(t, e.DeleteInterval(ctx, res.Interval.ID))

	settings := config.Default()
	settings.SnapTolerance = 0.05
	require.NoError(t, e.UpdateSettings(ctx, settings))

	res, err = e.InsertInterval(ctx, draw(2, 12.03))
	require.NoError(t, err)
	assert.InDelta(t, 12.0, res.Interval.To, 1e-9)

	res, err = e.UpdateInterval(ctx, res.Interval.ID, interval.Request{Code: "GRAVEL"})
	require.NoError(t, err)
	assert.Equal(t, "GRAVEL", res.Interval.Code)

	intervals, err := e.ListIntervals(ctx, "DH1")
	require.NoError(t, err)
	assert.Len(t, intervals, 2)
}

func TestEngine_FailedOperationRollsBack(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, nil)

	_, err := e.CreateGraph(ctx, "child", "", []string{"missing"})
	assert.ErrorIs(t, err, core.ErrNotFound)

	graphs, err := e.ListGraphs(ctx)
	require.NoError(t, err)
	assert.Empty(t, graphs)

	_, err = e.InsertInterval(ctx, interval.Request{HoleID: "nope", From: ptr(1.0), To: ptr(2.0)})
	var rerr *core.ResolutionError
	assert.ErrorAs(t, err, &rerr)
}

func TestEngine_CorrelationWorkflow(t *testing.T) {
	ctx := context.Background()
	settings := config.Default()
	settings.CorrelationAngle = 20
	settings.ParentCorrelationAngle = 10
	e := newEngine(t, &settings)
	seed(t, e)

	pairs, err := e.Triangulate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.HolePair{{A: "DH1", B: "DH2"}}, pairs)

	_, err = e.CreateGraph(ctx, "reference", "", nil)
	require.NoError(t, err)
	_, err = e.CreateGraph(ctx, "child", "", []string{"reference"})
	require.NoError(t, err)

	_, err = e.AddNodes(ctx, "reference", []*core.Node{
		{ID: "A", HoleID: "DH1", From: 20, To: 21},
		{ID: "B", HoleID: "DH2", From: 10, To: 11},
		{ID: "C", HoleID: "DH2", From: 40, To: 41},
	})
	require.NoError(t, err)
	_, err = e.InsertNode(ctx, &core.Node{ID: "D", GraphID: "child", HoleID: "DH1", From: 40, To: 41})
	require.NoError(t, err)
	e2, err := e.InsertNode(ctx, &core.Node{ID: "E", GraphID: "child", HoleID: "DH2", From: 50, To: 51})
	require.NoError(t, err)
	assert.Equal(t, "C", e2.ParentID)

	edges, err := e.PossibleEdges(ctx, "child")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "D", edges[0].StartID)
	assert.Equal(t, "E", edges[0].EndID)

	accepted, err := e.AcceptPossibleEdges(ctx, "reference")
	require.NoError(t, err)
	assert.Len(t, accepted, 2)

	ok, err := e.EnsureGraphType(ctx, "reference", "lithology")
	require.NoError(t, err)
	assert.True(t, ok)

	// Raising the DH2 collar moves its nodes along with it.
	_, err = e.SaveHole(ctx, &core.Hole{ID: "DH2", Collar: r3.Vec{X: 100, Z: 30}, Depth: 100})
	require.NoError(t, err)
	nodes, err := e.ListNodes(ctx, "child")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.InDelta(t, -20, nodes[1].Geom.Start().Z, 1e-9)
	assert.Equal(t, "C", nodes[1].ParentID)

	require.NoError(t, e.DeleteNode(ctx, "C"))
	nodes, err = e.ListNodes(ctx, "child")
	require.NoError(t, err)
	assert.Equal(t, "B", nodes[1].ParentID)

	require.NoError(t, e.RemoveGraphRelationship(ctx, "reference", "child"))
	nodes, err = e.ListNodes(ctx, "child")
	require.NoError(t, err)
	assert.Empty(t, nodes[1].ParentID)

	require.NoError(t, e.AddGraphRelationship(ctx, "reference", "child"))
	require.NoError(t, e.DeleteGraph(ctx, "reference"))
	nodes, err = e.ListNodes(ctx, "child")
	require.NoError(t, err)
	assert.Empty(t, nodes[0].ParentID)

	require.NoError(t, e.DeleteHole(ctx, "DH2"))
	nodes, err = e.ListNodes(ctx, "child")
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestEngine_SurveyQueries(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, nil)
	seed(t, e)

	id, err := e.ClosestHole(ctx, 98, 3, "")
	require.NoError(t, err)
	assert.Equal(t, "DH2", id)

	sections, err := e.CreateDefaultSections(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, sections, 2)

	lines, err := e.ReferenceLines(ctx, core.HoleSectionFilter{HoleID: "DH1"})
	require.NoError(t, err)
	assert.Len(t, lines, 3)

	require.NoError(t, e.DeleteSection(ctx, "WE"))
	all, err := e.ListSections(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, e.SetAdjacency(ctx, []core.HolePair{core.NewHolePair("DH2", "DH1")}))
	pairs, err := e.Adjacency(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.HolePair{{A: "DH1", B: "DH2"}}, pairs)

	require.NoError(t, e.RebuildAll(ctx))
	h, err := e.GetHole(ctx, "DH1")
	require.NoError(t, err)
	assert.InDelta(t, 100, h.Trajectory.Length(), 1e-3)

	holes, err := e.ListHoles(ctx)
	require.NoError(t, err)
	assert.Len(t, holes, 2)
}
