package interval

import (
	"testing"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestGhostMatcher(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"%ghost%", "ghost", true},
		{"%ghost%", "Old GHOST layer", true},
		{"%ghost%", "gh0st", false},
		{"ghost", "ghosts", false},
		{"g_ost", "GHOST", true},
		{"g_ost", "gost", false},
		{"100%", "100 percent", true},
		{"a.b", "axb", false},
		{"a.b", "A.B", true},
		{"", "", false},
		{"", "anything", false},
		{"%", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, NewGhostMatcher(tt.pattern).Match(tt.text))
		})
	}
}

func TestGhostMatcher_IsGhost(t *testing.T) {
	m := NewGhostMatcher("%ghost%")

	assert.True(t, m.IsGhost(&core.Interval{Code: "GHOST"}))
	assert.True(t, m.IsGhost(&core.Interval{Code: "SAND", Comments: "ghost of a lens"}))
	assert.False(t, m.IsGhost(&core.Interval{Code: "SAND", Comments: "fine"}))
}
