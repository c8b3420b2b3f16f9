package demand_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/gridcity/internal/demand"
	"github.com/talgya/gridcity/internal/zoning"
)

// neutralFactors zero out every penalty term: no taxes, no unemployment,
// baseline 30-minute commute, full education, no pollution or crime. Each
// subtype score then equals its base demand exactly.
var neutralFactors = demand.Factors{
	AverageCommuteTime: 30.0,
	EducationLevel:     1.0,
}

var allZones = []zoning.ZoneType{
	zoning.ZoneResidentialLow,
	zoning.ZoneResidentialMedium,
	zoning.ZoneResidentialHigh,
	zoning.ZoneCommercialLow,
	zoning.ZoneCommercialHigh,
	zoning.ZoneIndustrialAgriculture,
	zoning.ZoneIndustrialDirty,
	zoning.ZoneIndustrialManufacturing,
	zoning.ZoneIndustrialHightech,
}

func TestNewModel_StartingDemand(t *testing.T) {
	m := demand.NewModel()
	snap := m.Demand()

	assert.Equal(t, 20.0, snap.Residential)
	assert.Equal(t, 10.0, snap.Commercial)
	assert.Equal(t, 15.0, snap.Industrial)
	assert.Zero(t, m.Tick())
}

func TestUpdate_NeutralFactorsYieldBaseDemand(t *testing.T) {
	m := demand.NewModel()
	m.Update(neutralFactors)
	snap := m.Demand()

	assert.InDelta(t, 20.0, snap.ResidentialLow, 1e-9)
	assert.InDelta(t, 15.0, snap.ResidentialMedium, 1e-9)
	assert.InDelta(t, 10.0, snap.ResidentialHigh, 1e-9)
	assert.InDelta(t, 15.0, snap.CommercialLow, 1e-9)
	assert.InDelta(t, 10.0, snap.CommercialHigh, 1e-9)
	assert.InDelta(t, 12.0, snap.IndustrialAgriculture, 1e-9)
	assert.InDelta(t, 18.0, snap.IndustrialDirty, 1e-9)
	assert.InDelta(t, 15.0, snap.IndustrialManufacturing, 1e-9)
	assert.InDelta(t, 8.0, snap.IndustrialHightech, 1e-9)

	// Aggregates are fixed weighted averages of the subtype scores.
	assert.InDelta(t, 16.5, snap.Residential, 1e-9)
	assert.InDelta(t, 13.0, snap.Commercial, 1e-9)
	assert.InDelta(t, 13.9, snap.Industrial, 1e-9)

	assert.Equal(t, uint64(1), m.Tick())
}

func TestUpdate_TaxesDepressAllDemand(t *testing.T) {
	m := demand.NewModel()
	m.Update(neutralFactors)
	base := m.Demand()

	taxed := neutralFactors
	taxed.TaxRate = 15.0
	m.Update(taxed)
	snap := m.Demand()

	for _, zone := range allZones {
		assert.Less(t, snap.ForZone(zone), base.ForZone(zone), "zone %s", zone)
	}
}

func TestUpdate_UnemploymentSplitsResidentialFromIndustry(t *testing.T) {
	m := demand.NewModel()

	jobless := neutralFactors
	jobless.UnemploymentRate = 10.0
	m.Update(jobless)
	snap := m.Demand()

	// Idle workers push residents away but attract employers.
	assert.Less(t, snap.ResidentialLow, 20.0)
	assert.Greater(t, snap.IndustrialDirty, 18.0)
	assert.Greater(t, snap.CommercialLow, 15.0)
}

func TestUpdate_ScoresAlwaysClamped(t *testing.T) {
	m := demand.NewModel()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		f := demand.Factors{
			TaxRate:            rng.Float64()*200 - 100,
			UnemploymentRate:   rng.Float64() * 100,
			AverageCommuteTime: rng.Float64() * 400,
			EducationLevel:     rng.Float64(),
			PollutionLevel:     rng.Float64() * 2,
			CrimeRate:          rng.Float64() * 2,
			LandValue:          rng.Float64(),
			UtilityCoverage:    rng.Float64(),
		}
		m.Update(f)
		snap := m.Demand()

		for _, zone := range allZones {
			score := snap.ForZone(zone)
			assert.GreaterOrEqual(t, score, -100.0)
			assert.LessOrEqual(t, score, 100.0)
		}
		assert.GreaterOrEqual(t, snap.Residential, -100.0)
		assert.LessOrEqual(t, snap.Residential, 100.0)
	}
}

func TestUpdate_Deterministic(t *testing.T) {
	a := demand.NewModel()
	b := demand.NewModel()

	f := demand.Factors{
		TaxRate:            9.0,
		UnemploymentRate:   4.0,
		AverageCommuteTime: 45.0,
		EducationLevel:     0.5,
		PollutionLevel:     0.2,
		CrimeRate:          0.1,
		UtilityCoverage:    0.7,
	}
	a.Update(f)
	b.Update(f)

	assert.Equal(t, a.Demand(), b.Demand())
}

func TestSnapshot_ForZoneNoneIsZero(t *testing.T) {
	m := demand.NewModel()
	m.Update(neutralFactors)

	assert.Zero(t, m.Demand().ForZone(zoning.ZoneNone))
}

func TestLotDesirability_RangeAndInvalidZone(t *testing.T) {
	m := demand.NewModel()
	m.Update(neutralFactors)

	assert.Zero(t, m.LotDesirability(zoning.ZoneNone, 0.5, 30, 0.5))

	for _, zone := range allZones {
		d := m.LotDesirability(zone, 0.5, 30, 0.5)
		assert.GreaterOrEqual(t, d, 0.0)
		assert.LessOrEqual(t, d, 1.0)
	}
}

func TestLotDesirability_CommuteFloor(t *testing.T) {
	m := demand.NewModel()
	m.Update(neutralFactors)

	// Beyond two hours the commute factor floors at 0.1 rather than going
	// negative, so absurd commutes still yield a small positive score.
	far := m.LotDesirability(zoning.ZoneResidentialLow, 0.5, 500, 1.0)
	farther := m.LotDesirability(zoning.ZoneResidentialLow, 0.5, 5000, 1.0)
	assert.Greater(t, far, 0.0)
	assert.Equal(t, far, farther)
}

func TestLotDesirability_LandValueOnlyMidTierZones(t *testing.T) {
	m := demand.NewModel()
	m.Update(neutralFactors)

	// Low-density residential ignores land value.
	cheap := m.LotDesirability(zoning.ZoneResidentialLow, 0.0, 30, 0.5)
	dear := m.LotDesirability(zoning.ZoneResidentialLow, 1.0, 30, 0.5)
	assert.Equal(t, cheap, dear)

	// Medium residential weights it.
	cheap = m.LotDesirability(zoning.ZoneResidentialMedium, 0.0, 30, 0.5)
	dear = m.LotDesirability(zoning.ZoneResidentialMedium, 1.0, 30, 0.5)
	assert.Less(t, cheap, dear)
}

func TestDevelopLot_GrowthAddsJobs(t *testing.T) {
	m := demand.NewModel()

	// Heavy unemployment saturates dirty-industry demand at the clamp, so
	// lot desirability converges to 1.0 under perfect local conditions.
	boom := demand.Factors{
		UnemploymentRate:   20.0,
		EducationLevel:     1.0,
		UtilityCoverage:    1.0,
		AverageCommuteTime: 0.0,
	}
	m.Update(boom)

	lot := &demand.Lot{Zone: zoning.ZoneIndustrialDirty}
	for i := 0; i < 200; i++ {
		m.DevelopLot(lot, boom)
	}

	assert.Greater(t, lot.Desirability, 0.6)
	assert.Greater(t, lot.GrowthRate, 0.0)
	assert.Greater(t, lot.Jobs, 0)
	assert.Zero(t, lot.Population, "industrial lots grow jobs, not residents")
	assert.Equal(t, m.Tick(), lot.LastUpdateTick)
}

func TestDevelopLot_DecayShedsPopulation(t *testing.T) {
	m := demand.NewModel()

	bust := demand.Factors{
		TaxRate:   30.0,
		CrimeRate: 1.0,
	}
	m.Update(bust)

	lot := &demand.Lot{
		Zone:         zoning.ZoneResidentialLow,
		Population:   50,
		Desirability: 0.1,
	}
	before := lot.Population
	m.DevelopLot(lot, bust)

	assert.Less(t, lot.GrowthRate, 0.0)
	assert.Less(t, lot.Population, before)

	// Losses never drive the count negative.
	for i := 0; i < 500; i++ {
		m.DevelopLot(lot, bust)
	}
	assert.GreaterOrEqual(t, lot.Population, 0)
}

func TestDevelopLot_StableBandHoldsSteady(t *testing.T) {
	m := demand.NewModel()
	m.Update(neutralFactors)

	lot := &demand.Lot{
		Zone:         zoning.ZoneResidentialLow,
		Population:   30,
		Desirability: 0.45,
	}
	m.DevelopLot(lot, neutralFactors)

	require.Zero(t, lot.GrowthRate)
	assert.Equal(t, 30, lot.Population)
}
