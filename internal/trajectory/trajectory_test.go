package trajectory

import (
	"math"
	"testing"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBuild_VerticalWithoutDeviations(t *testing.T) {
	line, err := Build(r3.Vec{X: 10, Y: 20, Z: 5}, 100, nil)
	require.NoError(t, err)

	require.Len(t, line, 2)
	assert.Equal(t, r3.Vec{X: 10, Y: 20, Z: 5}, line.Start())
	assert.Equal(t, r3.Vec{X: 10, Y: 20, Z: -95}, line.End())
	assert.InDelta(t, 100, line.Length(), LengthTolerance)
}

func TestBuild_SingleStationAtCollarFallsBackToVertical(t *testing.T) {
	line, err := Build(r3.Vec{}, 50, []core.DeviationSample{{Depth: 0, Dip: -45, Azimuth: 90}})
	require.NoError(t, err)

	assert.InDelta(t, -50, line.End().Z, 1e-9)
	assert.InDelta(t, 0, line.End().X, 1e-9)
}

func TestBuild_ExtrapolatesAlongLastDirection(t *testing.T) {
	samples := []core.DeviationSample{
		{Depth: 0, Dip: -45, Azimuth: 90},
		{Depth: 20, Dip: -45, Azimuth: 90},
	}
	line, err := Build(r3.Vec{}, 50, samples)
	require.NoError(t, err)

	c := math.Sqrt2 / 2
	end := line.End()
	assert.InDelta(t, 50*c, end.X, 1e-9)
	assert.InDelta(t, 0, end.Y, 1e-9)
	assert.InDelta(t, -50*c, end.Z, 1e-9)
	assert.InDelta(t, 50, line.Length(), LengthTolerance)
}

func TestBuild_CutsDataBeyondDepth(t *testing.T) {
	samples := []core.DeviationSample{
		{Depth: 0, Dip: -90, Azimuth: 0},
		{Depth: 100, Dip: -90, Azimuth: 0},
		{Depth: 200, Dip: -60, Azimuth: 0},
	}
	line, err := Build(r3.Vec{}, 40, samples)
	require.NoError(t, err)

	assert.InDelta(t, -40, line.End().Z, 1e-9)
	assert.InDelta(t, 40, line.Length(), LengthTolerance)
}

func TestBuild_AveragesDirections(t *testing.T) {
	samples := []core.DeviationSample{
		{Depth: 0, Dip: -90, Azimuth: 0},
		{Depth: 10, Dip: -90, Azimuth: 0},
		{Depth: 30, Dip: -60, Azimuth: 90},
	}
	line, err := Build(r3.Vec{}, 30, samples)
	require.NoError(t, err)

	require.Len(t, line, 3)
	assert.InDelta(t, -10, line[1].Z, 1e-9)
	// the second step bends toward the east
	assert.Greater(t, line[2].X, 0.0)
	assert.InDelta(t, 0, line[2].Y, 1e-9)
	assert.InDelta(t, 30, line.Length(), LengthTolerance)
}

func TestBuild_UnsortedSamples(t *testing.T) {
	sorted := []core.DeviationSample{
		{Depth: 0, Dip: -80, Azimuth: 10},
		{Depth: 25, Dip: -70, Azimuth: 20},
		{Depth: 60, Dip: -65, Azimuth: 30},
	}
	shuffled := []core.DeviationSample{sorted[2], sorted[0], sorted[1]}

	a, err := Build(r3.Vec{}, 80, sorted)
	require.NoError(t, err)
	b, err := Build(r3.Vec{}, 80, shuffled)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuild_Deterministic(t *testing.T) {
	samples := []core.DeviationSample{
		{Depth: 0, Dip: -75, Azimuth: 123.4},
		{Depth: 33.3, Dip: -71.2, Azimuth: 130},
		{Depth: 90, Dip: -68, Azimuth: 141.5},
	}
	first, err := Build(r3.Vec{X: 1, Y: 2, Z: 3}, 120, samples)
	require.NoError(t, err)
	for range 5 {
		again, err := Build(r3.Vec{X: 1, Y: 2, Z: 3}, 120, samples)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		depth   float64
		samples []core.DeviationSample
	}{
		{"zero depth", 0, nil},
		{"negative depth", -5, nil},
		{"horizontal dip", 10, []core.DeviationSample{{Depth: 0, Dip: 0, Azimuth: 0}}},
		{"upward dip", 10, []core.DeviationSample{{Depth: 0, Dip: 10, Azimuth: 0}}},
		{"dip below range", 10, []core.DeviationSample{{Depth: 0, Dip: -180, Azimuth: 0}}},
		{"azimuth above range", 10, []core.DeviationSample{{Depth: 0, Dip: -90, Azimuth: 361}}},
		{"negative station depth", 10, []core.DeviationSample{{Depth: -1, Dip: -90, Azimuth: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(r3.Vec{}, tt.depth, tt.samples)
			var geomErr *core.HoleGeometryError
			require.ErrorAs(t, err, &geomErr)
		})
	}
}

func TestDirection(t *testing.T) {
	down := Direction(-90, 0)
	assert.InDelta(t, -1, down.Z, 1e-12)

	north := Direction(-45, 0)
	assert.InDelta(t, 0, north.X, 1e-12)
	assert.Greater(t, north.Y, 0.0)

	east := Direction(-45, 90)
	assert.Greater(t, east.X, 0.0)
	assert.InDelta(t, 0, east.Y, 1e-12)

	assert.InDelta(t, 1, r3.Norm(Direction(-33, 217)), 1e-12)
}
