package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func vertical(depth float64) Line3 {
	return Line3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -depth}}
}

func TestLine3_Length(t *testing.T) {
	l := Line3{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 4, Z: 0}, {X: 3, Y: 4, Z: -10}}
	assert.InDelta(t, 15.0, l.Length(), 1e-12)
	assert.Zero(t, Line3{{X: 1, Y: 1, Z: 1}}.Length())
}

func TestLine3_Interpolate(t *testing.T) {
	l := vertical(100)

	tests := []struct {
		name string
		f    float64
		want r3.Vec
	}{
		{name: "start", f: 0, want: r3.Vec{}},
		{name: "quarter", f: 0.25, want: r3.Vec{Z: -25}},
		{name: "end", f: 1, want: r3.Vec{Z: -100}},
		{name: "clamped below", f: -1, want: r3.Vec{}},
		{name: "clamped above", f: 3, want: r3.Vec{Z: -100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Interpolate(tt.f)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-12)
		})
	}
}

func TestLine3_Substring(t *testing.T) {
	l := Line3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -10}, {X: 10, Y: 0, Z: -10}}

	piece := l.Substring(0.25, 0.75)
	require.Len(t, piece, 3, "interior vertex is kept")
	assert.InDelta(t, -5.0, piece[0].Z, 1e-12)
	assert.Equal(t, r3.Vec{X: 0, Y: 0, Z: -10}, piece[1])
	assert.InDelta(t, 5.0, piece[2].X, 1e-12)
	assert.InDelta(t, 10.0, piece.Length(), 1e-12)

	reversed := l.Substring(0.75, 0.25)
	assert.Equal(t, piece, reversed)

	empty := l.Substring(0.5, 0.5)
	require.Len(t, empty, 2)
	assert.Equal(t, empty[0], empty[1])
}

func TestLine3_Dedupe(t *testing.T) {
	l := Line3{{Z: 0}, {Z: -1e-9}, {Z: -1}, {Z: -1}, {Z: -2}}
	got := l.Dedupe(1e-6)
	assert.Equal(t, Line3{{Z: 0}, {Z: -1}, {Z: -2}}, got)
	assert.Nil(t, Line3(nil).Dedupe(1e-6))
}

func TestLine3_Locate(t *testing.T) {
	l := vertical(100)
	loc := l.Locate(r3.Vec{X: 5, Y: 0, Z: -40})
	assert.Equal(t, 0, loc.Segment)
	assert.InDelta(t, 0.4, loc.Fraction, 1e-12)
	assert.InDelta(t, 5.0, loc.Distance, 1e-12)
}

func TestLine2_Locate(t *testing.T) {
	l := Line2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}

	tests := []struct {
		name     string
		p        r2.Vec
		segment  int
		fraction float64
		distance float64
	}{
		{name: "on first segment", p: r2.Vec{X: 5, Y: 0}, segment: 0, fraction: 0.25, distance: 0},
		{name: "off second segment", p: r2.Vec{X: 12, Y: 5}, segment: 1, fraction: 0.75, distance: 2},
		{name: "before start", p: r2.Vec{X: -3, Y: 4}, segment: 0, fraction: 0, distance: 5},
		{name: "past end", p: r2.Vec{X: 10, Y: 13}, segment: 1, fraction: 1, distance: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := l.Locate(tt.p)
			assert.Equal(t, tt.segment, loc.Segment)
			assert.InDelta(t, tt.fraction, loc.Fraction, 1e-12)
			assert.InDelta(t, tt.distance, loc.Distance, 1e-12)
		})
	}
}

func TestLine2_IntersectsAndDistance(t *testing.T) {
	hole := Line2{{X: 0, Y: 0}, {X: 0, Y: -100}}

	tests := []struct {
		name       string
		drawn      Line2
		intersects bool
		distance   float64
	}{
		{name: "crossing", drawn: Line2{{X: -5, Y: -10}, {X: 5, Y: -12}}, intersects: true, distance: 0},
		{name: "touching endpoint", drawn: Line2{{X: 0, Y: -50}, {X: 5, Y: -50}}, intersects: true, distance: 0},
		{name: "parallel", drawn: Line2{{X: 3, Y: -10}, {X: 3, Y: -20}}, intersects: false, distance: 3},
		{name: "collinear overlap", drawn: Line2{{X: 0, Y: -90}, {X: 0, Y: -110}}, intersects: true, distance: 0},
		{name: "collinear apart", drawn: Line2{{X: 0, Y: -105}, {X: 0, Y: -110}}, intersects: false, distance: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.intersects, hole.Intersects(tt.drawn))
			assert.Equal(t, tt.intersects, tt.drawn.Intersects(hole))
			assert.InDelta(t, tt.distance, hole.DistanceTo(tt.drawn), 1e-12)
		})
	}
}

func TestLine3_FractionAt(t *testing.T) {
	l := Line3{{Z: 0}, {Z: -10}, {X: 30, Z: -10}}

	assert.InDelta(t, 0, l.FractionAt(0, 0), 1e-12)
	assert.InDelta(t, 0.125, l.FractionAt(0, 0.5), 1e-12)
	assert.InDelta(t, 0.625, l.FractionAt(1, 0.5), 1e-12)
	assert.InDelta(t, 1, l.FractionAt(5, 1), 1e-12)
	assert.Equal(t, 0.0, Line3{{X: 1}}.FractionAt(0, 0.5))
}
