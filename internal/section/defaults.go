package section

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/strata/pkg/core"
	"github.com/leapstack-labs/strata/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSectionIDs returns the identifiers used by DefaultSections for scale.
func DefaultSectionIDs(scale float64) (we, sn string) {
	return fmt.Sprintf("WE x%g", scale), fmt.Sprintf("SN x%g", scale)
}

// DefaultSections frames the collar bounding box with a west-east and a
// south-north section, both rotated by rotationDeg counterclockwise.
//
// Fences are 1.5 times the box extent, or twice for boxes elongated more than
// 2:1, and are shifted off the box by 0.6 times the orthogonal extent. Each
// section is anchored at the start of its fence at elevation zero.
func DefaultSections(collars []r3.Vec, scale, rotationDeg float64) ([]*core.Section, error) {
	if len(collars) == 0 {
		return nil, fmt.Errorf("no collars to frame")
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("scale must be positive, got %g", scale)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range collars {
		minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
		minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
	}

	center := r2.Vec{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
	distX := math.Max(maxX-minX, 1e-9)
	distY := math.Max(maxY-minY, 1e-9)

	factor := 1.5
	if math.Max(distX/distY, distY/distX) > 2 {
		factor = 2
	}

	theta := rotationDeg * math.Pi / 180
	u := r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	v := r2.Vec{X: -math.Sin(theta), Y: math.Cos(theta)}

	weShift := r2.Scale(-0.6*distY, v)
	snShift := r2.Scale(0.6*distX, u)
	we := centeredFence(center, u, factor*distX, weShift)
	sn := centeredFence(center, v, factor*distY, snShift)

	weID, snID := DefaultSectionIDs(scale)
	return []*core.Section{
		{ID: weID, Anchor: r3.Vec{X: we[0].X, Y: we[0].Y}, Fence: we, Scale: scale},
		{ID: snID, Anchor: r3.Vec{X: sn[0].X, Y: sn[0].Y}, Fence: sn, Scale: scale},
	}, nil
}

func centeredFence(center, dir r2.Vec, length float64, shift r2.Vec) geometry.Line2 {
	half := r2.Scale(length/2, dir)
	return geometry.Line2{
		r2.Add(r2.Sub(center, half), shift),
		r2.Add(r2.Add(center, half), shift),
	}
}
