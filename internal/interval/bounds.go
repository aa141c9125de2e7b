package interval

import (
	"context"
	"math"

	"github.com/leapstack-labs/strata/pkg/core"
	"gonum.org/v1/gonum/floats/scalar"
)

// floatGuard absorbs representation error in tolerance comparisons.
const floatGuard = 1e-9

// bounds is an interval range under normalization. Automatic sides are
// rounded, grown and snapped; manual sides are kept as submitted.
type bounds struct {
	from, to         float64
	autoFrom, autoTo bool
}

func (b bounds) thickness() float64 { return b.to - b.from }

// inferBounds turns depth fractions into a range, keeping manual sides.
func inferBounds(loc *location, from, to *float64) bounds {
	depth := loc.hole.Depth
	raw0 := clamp(math.Min(loc.f0, loc.f1)*depth, 0, depth)
	raw1 := clamp(math.Max(loc.f0, loc.f1)*depth, 0, depth)

	b := bounds{from: raw0, to: raw1, autoFrom: from == nil, autoTo: to == nil}
	if from != nil {
		b.from = *from
	}
	if to != nil {
		b.to = *to
	}
	b.round(depth)
	return b
}

// round applies the rounding policy to automatic sides: a from below one
// depth unit becomes 0, everything else keeps one decimal.
func (b *bounds) round(depth float64) {
	if b.autoFrom {
		if b.from < 1.0 {
			b.from = 0
		} else {
			b.from = scalar.Round(b.from, 1)
		}
		b.from = clamp(b.from, 0, depth)
	}
	if b.autoTo {
		b.to = clamp(scalar.Round(b.to, 1), 0, depth)
	}
}

// enforceThickness grows a range thinner than eps, moving automatic sides first.
// A manual from only moves when to is capped at depth.
func (b *bounds) enforceThickness(eps, depth float64) {
	if b.thickness() >= eps-floatGuard {
		return
	}
	switch {
	case b.autoTo:
		b.to = b.from + eps
		if b.to > depth {
			b.to = depth
			b.from = math.Max(0, b.to-eps)
		}
	case b.autoFrom:
		b.from = math.Max(0, b.to-eps)
		if b.thickness() < eps-floatGuard {
			b.to = b.from + eps
		}
	default:
		b.to += eps
		if b.to > depth {
			b.to = depth
			b.from = math.Max(0, b.to-eps)
		}
	}
}

// snap closes small gaps between automatic sides and the nearest non-ghost
// neighbours on the same hole.
func (e *Editor) snap(ctx context.Context, b *bounds, holeID, selfID string) error {
	if !b.autoFrom && !b.autoTo {
		return nil
	}
	intervals, err := e.tx.ListIntervals(ctx, holeID)
	if err != nil {
		return err
	}

	var above, below *core.Interval
	for _, n := range intervals {
		if n.ID == selfID || e.ghost.IsGhost(n) {
			continue
		}
		if n.To <= b.from+floatGuard && (above == nil || n.To > above.To) {
			above = n
		}
		if n.From >= b.to-floatGuard && (below == nil || n.From < below.From) {
			below = n
		}
	}

	tol := e.settings.SnapTolerance
	if b.autoFrom && above != nil && b.from-above.To <= tol+floatGuard {
		b.from = above.To
	}
	if b.autoTo && below != nil && below.From-b.to <= tol+floatGuard {
		b.to = below.From
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
