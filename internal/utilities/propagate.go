package utilities

import (
	"github.com/talgya/gridcity/internal/grid"
	"github.com/talgya/gridcity/internal/zoning"
)

// clearCoverage resets one network's fields across every cell.
func (n *Network) clearCoverage(kind Kind) {
	for i := range n.cells {
		if kind == KindPower {
			n.cells[i].HasPower = false
			n.cells[i].PowerLevel = 0
			n.cells[i].PowerSource = NoSource
		} else {
			n.cells[i].HasWater = false
			n.cells[i].WaterPressure = 0
			n.cells[i].WaterSource = NoSource
		}
	}
}

// radiusFor returns the propagation radius in tiles for a network.
func radiusFor(kind Kind) float64 {
	if kind == KindPower {
		return powerRadius
	}
	return waterRadius
}

// PropagatePower recomputes power coverage for the whole grid from all
// operational power plants. O(buildings x grid area); intended to run on
// topology change, not every tick.
func (n *Network) PropagatePower() {
	n.propagate(KindPower)
}

// PropagateWater recomputes water coverage for the whole grid from all
// operational water sources.
func (n *Network) PropagateWater() {
	n.propagate(KindWater)
}

// propagate floods one network outward from each source with a BFS over
// the four orthogonal neighbors. A tile is accepted when it carries a zone
// assignment and the level from this source (linear falloff with
// straight-line distance) clears both the minimum threshold and whatever
// another source already recorded. Levels only overwrite on strictly
// greater values, so final coverage is independent of source order; the
// owning source id on an exact tie follows registration order.
func (n *Network) propagate(kind Kind) {
	n.clearCoverage(kind)

	radius := radiusFor(kind)
	queue := make([]int, 0, n.size.Area())

	for b := range n.buildings {
		building := &n.buildings[b]
		if building.Kind != kind || !building.Operational {
			continue
		}

		start := n.size.Index(building.X, building.Y)
		n.setCoverage(start, kind, 1.0, b)

		queue = queue[:0]
		queue = append(queue, start)

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			cx, cy := n.size.Coords(current)

			for _, d := range grid.Cardinal {
				nx, ny := cx+d[0], cy+d[1]
				if !n.size.InBounds(nx, ny) {
					continue
				}

				// Coverage only travels across zoned land.
				tile := n.zones.Tile(nx, ny)
				if tile == nil || tile.Zone == zoning.ZoneNone {
					continue
				}

				distance := grid.Euclidean(nx, ny, building.X, building.Y)
				level := 1.0 - distance/radius

				idx := n.size.Index(nx, ny)
				if level > minLevel && level > n.level(idx, kind) {
					n.setCoverage(idx, kind, level, b)
					if distance < radius-1 {
						queue = append(queue, idx)
					}
				}
			}
		}
	}
}

func (n *Network) level(idx int, kind Kind) float64 {
	if kind == KindPower {
		return n.cells[idx].PowerLevel
	}
	return n.cells[idx].WaterPressure
}

func (n *Network) setCoverage(idx int, kind Kind, level float64, source int) {
	if kind == KindPower {
		n.cells[idx].HasPower = true
		n.cells[idx].PowerLevel = level
		n.cells[idx].PowerSource = source
	} else {
		n.cells[idx].HasWater = true
		n.cells[idx].WaterPressure = level
		n.cells[idx].WaterSource = source
	}
}
