package commands

import (
	"testing"

	intconfig "github.com/leapstack-labs/strata/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySettings(t *testing.T) {
	tests := []struct {
		name      string
		pairs     []string
		check     func(t *testing.T, got float64, pattern string)
		errSubstr string
	}{
		{
			name:  "weakly typed float",
			pairs: []string{"snap_tolerance=0.05"},
			check: func(t *testing.T, got float64, _ string) { assert.InDelta(t, 0.05, got, 1e-12) },
		},
		{
			name:  "string and float together",
			pairs: []string{"ghost_pattern=%skip%", "snap_tolerance=1"},
			check: func(t *testing.T, got float64, pattern string) {
				assert.InDelta(t, 1.0, got, 1e-12)
				assert.Equal(t, "%skip%", pattern)
			},
		},
		{name: "unknown key", pairs: []string{"snap=1"}, errSubstr: "invalid settings"},
		{name: "not a number", pairs: []string{"snap_tolerance=abc"}, errSubstr: "invalid settings"},
		{name: "missing value", pairs: []string{"snap_tolerance"}, errSubstr: "want key=value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := intconfig.Default()
			err := applySettings(&s, tt.pairs)
			if tt.errSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s.SnapTolerance, s.GhostPattern)
			assert.InDelta(t, intconfig.DefaultCorrelationAngle, s.CorrelationAngle, 1e-12)
		})
	}
}
