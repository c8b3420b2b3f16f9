package utilities

import (
	"github.com/talgya/gridcity/internal/zoning"
)

// Update refreshes network statistics and building loads from the current
// coverage grid, and syncs per-tile power/water flags into the zoning
// grid. Coverage itself is untouched; call the propagation methods after
// topology changes.
func (n *Network) Update(dt float64) {
	_ = dt // reserved; the stats pass is rate-independent

	n.stats = Stats{}

	for i := range n.buildings {
		b := &n.buildings[i]
		if !b.Operational {
			continue
		}
		switch b.Kind {
		case KindPower:
			n.stats.TotalPowerCapacity += b.Capacity
		case KindWater:
			n.stats.TotalWaterCapacity += b.Capacity
		}
	}

	for y := 0; y < n.size.Height; y++ {
		for x := 0; x < n.size.Width; x++ {
			tile := n.zones.Tile(x, y)
			if tile == nil || tile.Building == zoning.BuildingNone {
				continue
			}

			idx := n.size.Index(x, y)
			cell := &n.cells[idx]

			n.stats.TotalPowerDemand += (tile.Population + tile.Jobs) / 10
			if cell.HasPower {
				n.stats.PoweredBuildings++
			} else {
				n.stats.UnpoweredBuildings++
			}
			tile.HasPower = cell.HasPower

			n.stats.TotalWaterDemand += (tile.Population + tile.Jobs) * 100
			if cell.HasWater {
				n.stats.WateredBuildings++
			} else {
				n.stats.UnwateredBuildings++
			}
			tile.HasWater = cell.HasWater
		}
	}

	total := n.stats.PoweredBuildings + n.stats.UnpoweredBuildings
	if total > 0 {
		n.stats.GridEfficiency = float64(n.stats.PoweredBuildings) / float64(total)
	}

	n.updateLoads()
}

// updateLoads recounts each building's served cells and derates its
// efficiency when demand exceeds capacity.
func (n *Network) updateLoads() {
	for i := range n.buildings {
		n.buildings[i].Load = 0
	}

	for idx := range n.cells {
		cell := &n.cells[idx]
		if cell.PowerSource != NoSource {
			n.buildings[cell.PowerSource].Load += 10
		}
		if cell.WaterSource != NoSource {
			n.buildings[cell.WaterSource].Load += 10
		}
	}

	for i := range n.buildings {
		b := &n.buildings[i]
		if b.Load > b.Capacity && b.Load > 0 {
			b.Efficiency = float64(b.Capacity) / float64(b.Load)
		} else {
			b.Efficiency = 1.0
		}
	}
}

// SyncTileFlags pushes current coverage into the zoning grid without
// recomputing statistics. Useful right after propagation when a caller
// wants utility gating to take effect before the next stats pass.
func (n *Network) SyncTileFlags() {
	for y := 0; y < n.size.Height; y++ {
		for x := 0; x < n.size.Width; x++ {
			tile := n.zones.Tile(x, y)
			if tile == nil {
				continue
			}
			idx := n.size.Index(x, y)
			tile.HasPower = n.cells[idx].HasPower
			tile.HasWater = n.cells[idx].HasWater
		}
	}
}
