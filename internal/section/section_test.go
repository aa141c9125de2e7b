package section

import (
	"testing"

	"github.com/leapstack-labs/strata/internal/trajectory"
	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func straightSection() *core.Section {
	return &core.Section{
		ID:     "WE x2",
		Anchor: r3.Vec{X: 1000, Y: 0, Z: 0},
		Fence:  geometry.Line2{{X: 0, Y: 0}, {X: 100, Y: 0}},
		Scale:  2,
	}
}

func inclinedHole(t *testing.T) *core.Hole {
	t.Helper()
	h := &core.Hole{
		ID:     "DH1",
		Collar: r3.Vec{X: 20, Y: 15, Z: 50},
		Depth:  80,
		Deviations: []core.DeviationSample{
			{Depth: 0, Dip: -70, Azimuth: 100},
			{Depth: 40, Dip: -65, Azimuth: 120},
			{Depth: 80, Dip: -60, Azimuth: 135},
		},
	}
	var err error
	h.Trajectory, err = trajectory.Build(h.Collar, h.Depth, h.Deviations)
	require.NoError(t, err)
	return h
}

func TestToSection(t *testing.T) {
	s := straightSection()

	tests := []struct {
		name string
		in   r3.Vec
		want r2.Vec
	}{
		{"on fence", r3.Vec{X: 30, Y: 0, Z: 0}, r2.Vec{X: 1030, Y: 0}},
		{"beside fence", r3.Vec{X: 30, Y: 5, Z: -10}, r2.Vec{X: 1030, Y: -20}},
		{"before start", r3.Vec{X: -10, Y: 3, Z: 1}, r2.Vec{X: 990, Y: 2}},
		{"after end", r3.Vec{X: 150, Y: -3, Z: 0}, r2.Vec{X: 1150, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToSection(geometry.Line3{tt.in}, s)
			require.Len(t, got, 1)
			assert.InDelta(t, tt.want.X, got[0].X, 1e-9)
			assert.InDelta(t, tt.want.Y, got[0].Y, 1e-9)
		})
	}
}

func TestToSection_BentFence(t *testing.T) {
	s := &core.Section{
		ID:    "bent",
		Fence: geometry.Line2{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}},
		Scale: 1,
	}
	got := ToSection(geometry.Line3{{X: 90, Y: 50, Z: 0}}, s)
	assert.InDelta(t, 150, got[0].X, 1e-9)
}

func TestFromSection_RoundTrip(t *testing.T) {
	h := inclinedHole(t)
	sections := []*core.Section{
		straightSection(),
		{
			ID:     "oblique",
			Anchor: r3.Vec{X: -50, Y: 300, Z: 20},
			Fence:  geometry.Line2{{X: -100, Y: -100}, {X: 100, Y: 40}, {X: 300, Y: 40}},
			Scale:  1.5,
		},
	}

	for _, s := range sections {
		t.Run(s.ID, func(t *testing.T) {
			piece, err := HolePiece(10, 60, h)
			require.NoError(t, err)

			back := FromSection(ToSection(piece, s), s, h.Trajectory)
			require.Len(t, back, len(piece))
			for i := range piece {
				assert.InDelta(t, piece[i].X, back[i].X, 1e-6)
				assert.InDelta(t, piece[i].Y, back[i].Y, 1e-6)
				assert.InDelta(t, piece[i].Z, back[i].Z, 1e-6)
			}
		})
	}
}

func TestFromSection_Elevation(t *testing.T) {
	s := straightSection()
	ref := geometry.Line3{{X: 40, Y: 10, Z: 0}, {X: 40, Y: 10, Z: -100}}

	got := FromSection(geometry.Line2{{X: 1040, Y: -20}, {X: 1040, Y: -60}}, s, ref)
	require.Len(t, got, 2)
	assert.InDelta(t, -10, got[0].Z, 1e-9)
	assert.InDelta(t, -30, got[1].Z, 1e-9)
	// the reference offset from the fence is kept
	assert.InDelta(t, 10, got[0].Y, 1e-9)
	assert.InDelta(t, 40, got[1].X, 1e-9)
}

func TestHolePiece(t *testing.T) {
	h := &core.Hole{
		ID:         "V",
		Depth:      100,
		Trajectory: geometry.Line3{{Z: 0}, {Z: -100}},
	}

	piece, err := HolePiece(20, 30, h)
	require.NoError(t, err)
	assert.InDelta(t, -20, piece.Start().Z, 1e-9)
	assert.InDelta(t, -30, piece.End().Z, 1e-9)

	clamped, err := HolePiece(-10, 150, h)
	require.NoError(t, err)
	assert.InDelta(t, 0, clamped.Start().Z, 1e-9)
	assert.InDelta(t, -100, clamped.End().Z, 1e-9)

	_, err = HolePiece(0, 1, &core.Hole{ID: "empty", Depth: 10})
	assert.ErrorIs(t, err, core.ErrNoGeometry)

	_, err = ReferenceLine(&core.Hole{ID: "empty", Depth: 10}, straightSection())
	assert.ErrorIs(t, err, core.ErrNoGeometry)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(straightSection()))

	bad := straightSection()
	bad.Scale = 0
	assert.Error(t, Validate(bad))

	bad = straightSection()
	bad.Fence = geometry.Line2{{X: 1, Y: 1}, {X: 1, Y: 1}}
	assert.Error(t, Validate(bad))

	bad = straightSection()
	bad.ID = ""
	assert.Error(t, Validate(bad))
}

func TestDefaultSections(t *testing.T) {
	collars := []r3.Vec{{X: 0, Y: 0, Z: 10}, {X: 100, Y: 50, Z: 12}}

	got, err := DefaultSections(collars, 1, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	we, sn := got[0], got[1]
	assert.Equal(t, "WE x1", we.ID)
	assert.Equal(t, "SN x1", sn.ID)

	assert.InDelta(t, -25, we.Fence[0].X, 1e-9)
	assert.InDelta(t, 125, we.Fence[1].X, 1e-9)
	assert.InDelta(t, -5, we.Fence[0].Y, 1e-9)
	assert.InDelta(t, -5, we.Fence[1].Y, 1e-9)
	assert.Equal(t, we.Fence[0].X, we.Anchor.X)

	assert.InDelta(t, 110, sn.Fence[0].X, 1e-9)
	assert.InDelta(t, -12.5, sn.Fence[0].Y, 1e-9)
	assert.InDelta(t, 62.5, sn.Fence[1].Y, 1e-9)

	for _, s := range got {
		assert.NoError(t, Validate(s))
	}

	_, err = DefaultSections(nil, 1, 0)
	assert.Error(t, err)
}

func TestDefaultSections_Elongated(t *testing.T) {
	got, err := DefaultSections([]r3.Vec{{X: 0, Y: 0}, {X: 300, Y: 100}}, 2.5, 0)
	require.NoError(t, err)
	assert.Equal(t, "WE x2.5", got[0].ID)
	assert.InDelta(t, 600, got[0].Fence.Length(), 1e-9)
}
