package zoning

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// landValueFrequency controls how quickly seeded land value varies across
// the grid. Lower values give broader value neighborhoods.
const landValueFrequency = 0.08

// SeedLandValue replaces the uniform starting land value with a smooth
// noise field, so freshly zoned districts develop unevenly the way real
// land markets do. Deterministic for a given seed. Intended to run once at
// city creation, before any update pass.
func (g *Grid) SeedLandValue(seed int64) {
	noise := opensimplex.NewNormalized(seed)
	for y := 0; y < g.size.Height; y++ {
		for x := 0; x < g.size.Width; x++ {
			v := noise.Eval2(float64(x)*landValueFrequency, float64(y)*landValueFrequency)
			// Keep values off the extremes so every tile can still move in
			// both directions under the per-tick drift.
			g.tiles[g.size.Index(x, y)].LandValue = 0.2 + v*0.6
		}
	}
}
