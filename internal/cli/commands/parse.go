package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"github.com/spf13/cobra"
)

// parseDeviation parses "depth,dip,azimuth".
func parseDeviation(s string) (core.DeviationSample, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.DeviationSample{}, fmt.Errorf("deviation %q: want depth,dip,azimuth", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.DeviationSample{}, fmt.Errorf("deviation %q: %w", s, err)
		}
		v[i] = f
	}
	return core.DeviationSample{Depth: v[0], Dip: v[1], Azimuth: v[2]}, nil
}

// parseHolePair parses "A:B".
func parseHolePair(s string) (core.HolePair, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok || a == "" || b == "" || a == b {
		return core.HolePair{}, fmt.Errorf("hole pair %q: want A:B with distinct holes", s)
	}
	return core.NewHolePair(a, b), nil
}

// parseFence parses a plan-view LINESTRING; Z values are dropped.
func parseFence(s string) (geometry.Line2, error) {
	d, err := geometry.ParseWKT(s)
	if err != nil {
		return nil, err
	}
	fence := d.Line2
	if d.HasZ {
		fence = d.Line3.XY()
	}
	if len(fence) < 2 {
		return nil, fmt.Errorf("fence needs at least two points")
	}
	return fence, nil
}

// optionalFloat returns the flag value when it was set on the command line.
func optionalFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

// optionalString returns the flag value when it was set on the command line.
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

func wktOrEmpty(wkt func() (string, error)) string {
	s, err := wkt()
	if err != nil {
		return ""
	}
	return s
}
