package zoning

import (
	"math"

	"github.com/talgya/gridcity/internal/grid"
)

// DemandInput carries the current aggregate RCI demand scores (-100..100)
// into a zoning pass. The scheduler assembles it from the demand model's
// snapshot each tick; the zoning grid never reads demand state directly.
type DemandInput struct {
	Residential float64
	Commercial  float64
	Industrial  float64
}

// forZone selects the aggregate score matching a tile's zone category,
// normalized to -1..1.
func (d DemandInput) forZone(zone ZoneType) float64 {
	switch {
	case zone.IsResidential():
		return d.Residential / 100.0
	case zone.IsCommercial():
		return d.Commercial / 100.0
	case zone.IsIndustrial():
		return d.Industrial / 100.0
	default:
		return 0
	}
}

const (
	developmentRate      = 0.01
	growthThreshold      = 0.5
	abandonmentThreshold = 0.2
	ageBonusSaturation   = 1000.0 // ticks until age stops boosting potential
)

// neighborBonus averages the development of up to 8 occupied neighbors,
// each contributing a tenth of its development level.
func (g *Grid) neighborBonus(x, y int) float64 {
	bonus := 0.0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !g.size.InBounds(nx, ny) {
				continue
			}
			neighbor := &g.tiles[g.size.Index(nx, ny)]
			if neighbor.Building != BuildingNone {
				bonus += neighbor.Development * 0.1
			}
		}
	}
	return bonus
}

// DevelopmentPotential scores how likely the tile at (x, y) is to develop
// this tick, in [0, 1]. Tiles missing power or water score exactly 0: no
// development happens without both utilities. Unzoned or out-of-bounds
// tiles also score 0.
func (g *Grid) DevelopmentPotential(x, y int, demand DemandInput) float64 {
	tile := g.Tile(x, y)
	if tile == nil || tile.Zone == ZoneNone {
		return 0
	}

	// Hard utility gate.
	if !tile.HasPower || !tile.HasWater {
		return 0
	}

	zoneDemand := demand.forZone(tile.Zone)
	landValueFactor := 0.5 + tile.LandValue*0.5
	neighborBonus := g.neighborBonus(x, y)
	ageBonus := math.Min(float64(tile.AgeTicks)/ageBonusSaturation, 1.0)

	potential := (zoneDemand + 1.0) * 0.5 *
		landValueFactor *
		(1.0 + neighborBonus) *
		(0.5 + ageBonus*0.5)

	return grid.Clamp01(potential)
}

// Update advances every zoned tile's growth/decay state machine by dt.
// Potential above the growth threshold raises development and re-derives
// the building (assigning its capacity as population or jobs); potential
// below the abandonment threshold decays development, eventually flagging
// the tile abandoned and clearing occupants. Land value independently
// drifts toward the neighbor development bonus.
func (g *Grid) Update(dt float64, demand DemandInput) {
	for y := 0; y < g.size.Height; y++ {
		for x := 0; x < g.size.Width; x++ {
			tile := &g.tiles[g.size.Index(x, y)]
			if tile.Zone == ZoneNone {
				continue
			}

			tile.AgeTicks++

			potential := g.DevelopmentPotential(x, y, demand)
			tile.Desirability = potential

			switch {
			case potential > growthThreshold && !tile.Abandoned:
				tile.Development += developmentRate * potential * dt
				if tile.Development > 1.0 {
					tile.Development = 1.0
				}

				building := BuildingForZone(tile.Zone, tile.Development)
				if building != tile.Building {
					tile.Building = building
					if tile.Zone.IsResidential() {
						tile.Population = BuildingCapacity(building)
						tile.Jobs = 0
					} else {
						tile.Jobs = BuildingCapacity(building)
						tile.Population = 0
					}
				}

			case potential < abandonmentThreshold && tile.Building != BuildingNone:
				tile.Development -= developmentRate * 2.0 * dt
				if tile.Development <= 0 {
					tile.Development = 0
					tile.Abandoned = true
					tile.Population = 0
					tile.Jobs = 0
				}
			}

			tile.LandValue = grid.Clamp01(tile.LandValue*0.95 + g.neighborBonus(x, y)*0.05)
		}
	}
}
