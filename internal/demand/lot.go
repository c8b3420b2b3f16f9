package demand

import (
	"github.com/talgya/gridcity/internal/zoning"
)

// Lot is a free-standing development lot for the desirability-based
// growth strategy. This strategy is independent of the zoning grid's
// potential-based state machine; integrations pick one driver per lot and
// never mix the two on the same tile.
type Lot struct {
	Zone           zoning.ZoneType `json:"zone"`
	Population     int             `json:"population"`
	Jobs           int             `json:"jobs"`
	Desirability   float64         `json:"desirability"`
	GrowthRate     float64         `json:"growth_rate"`
	LastUpdateTick uint64          `json:"last_update_tick"`
}

const (
	lotGrowthThreshold = 0.6
	lotDecayThreshold  = 0.3
)

// DevelopLot advances one lot under the desirability strategy: the lot's
// smoothed desirability (9:1 blend of old and freshly computed) is
// compared against the 0.6 growth / 0.3 decay thresholds, and population
// or jobs move by the resulting growth rate. Residential lots gain and
// lose population; all other zones move jobs.
func (m *Model) DevelopLot(lot *Lot, local Factors) {
	current := m.LotDesirability(lot.Zone, local.LandValue, local.AverageCommuteTime, local.UtilityCoverage)
	lot.Desirability = lot.Desirability*0.9 + current*0.1

	switch {
	case lot.Desirability > lotGrowthThreshold:
		lot.GrowthRate = (lot.Desirability - lotGrowthThreshold) * 2.0
		if lot.Zone.IsResidential() {
			lot.Population += int(lot.GrowthRate * 10)
		} else {
			lot.Jobs += int(lot.GrowthRate * 5)
		}

	case lot.Desirability < lotDecayThreshold:
		lot.GrowthRate = (lot.Desirability - lotDecayThreshold) * 1.5
		if lot.Population > 0 {
			loss := int(-lot.GrowthRate * 5)
			if loss < lot.Population {
				lot.Population -= loss
			} else {
				lot.Population = 0
			}
		}
		if lot.Jobs > 0 {
			loss := int(-lot.GrowthRate * 3)
			if loss < lot.Jobs {
				lot.Jobs -= loss
			} else {
				lot.Jobs = 0
			}
		}

	default:
		lot.GrowthRate = 0
	}

	lot.LastUpdateTick = m.tick
}
