package commands

import (
	"testing"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviation(t *testing.T) {
	tests := []struct {
		in      string
		want    core.DeviationSample
		wantErr bool
	}{
		{in: "10,-90,0", want: core.DeviationSample{Depth: 10, Dip: -90, Azimuth: 0}},
		{in: " 25.5 , -60 , 45 ", want: core.DeviationSample{Depth: 25.5, Dip: -60, Azimuth: 45}},
		{in: "10,-90", wantErr: true},
		{in: "a,b,c", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDeviation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHolePair(t *testing.T) {
	p, err := parseHolePair("DH2:DH1")
	require.NoError(t, err)
	assert.Equal(t, core.HolePair{A: "DH1", B: "DH2"}, p)

	for _, bad := range []string{"DH1", "DH1:", ":DH2", "DH1:DH1"} {
		_, err := parseHolePair(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseFence(t *testing.T) {
	fence, err := parseFence("LINESTRING (0 0, 100 0)")
	require.NoError(t, err)
	assert.Len(t, fence, 2)

	fence, err = parseFence("LINESTRING Z (0 0 5, 10 10 5, 20 0 5)")
	require.NoError(t, err)
	assert.Len(t, fence, 3)
	assert.InDelta(t, 10, fence[1].Y, 1e-12)

	_, err = parseFence("POINT (1 2)")
	assert.Error(t, err)
	_, err = parseFence("not wkt")
	assert.Error(t, err)
}
