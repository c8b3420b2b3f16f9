package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/gridcity/internal/engine"
	"github.com/talgya/gridcity/internal/entropy"
	"github.com/talgya/gridcity/internal/utilities"
	"github.com/talgya/gridcity/internal/zoning"
)

// growthPolicy removes every demand headwind: low taxes, full schooling,
// clean and safe.
var growthPolicy = engine.Policy{
	TaxRate:        5.0,
	EducationLevel: 1.0,
	PollutionLevel: 0.0,
	CrimeRate:      0.0,
}

func newSim(t *testing.T, w, h int) *engine.Simulation {
	t.Helper()
	sim, err := engine.NewSimulation(w, h, entropy.NewSeeded(1))
	require.NoError(t, err)
	return sim
}

// zoneBlock zones a rectangle and marks every tile mature and desirable so
// growth hinges on demand and utilities alone.
func zoneBlock(sim *engine.Simulation, x0, y0, x1, y1 int, zone zoning.ZoneType) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sim.Zones.SetZone(x, y, zone)
			tile := sim.Zones.Tile(x, y)
			tile.LandValue = 1.0
			tile.AgeTicks = 1000
		}
	}
}

func TestNewSimulation_RejectsBadDimensions(t *testing.T) {
	_, err := engine.NewSimulation(0, 10, entropy.NewSeeded(1))
	assert.Error(t, err)
}

func TestTickDay_CityGrowsWithUtilities(t *testing.T) {
	sim := newSim(t, 30, 30)
	sim.Policy = growthPolicy

	zoneBlock(sim, 10, 10, 14, 14, zoning.ZoneResidentialLow)
	zoneBlock(sim, 15, 10, 18, 14, zoning.ZoneIndustrialDirty)

	require.NoError(t, sim.Utilities.PlacePowerPlant(14, 12, utilities.PowerCoal))
	require.NoError(t, sim.Utilities.PlaceWaterSource(14, 13, utilities.WaterTower))

	for day := uint64(1); day <= 120; day++ {
		sim.TickDay(day, 1.0)
	}

	assert.Greater(t, sim.Stats.Population, 0, "serviced residential land should fill in")
	assert.Greater(t, sim.Stats.Jobs, 0, "industrial land should fill in too")
	assert.Equal(t, uint64(120), sim.LastTick)
	assert.Greater(t, sim.Stats.UtilityCoverage, 0.0)
}

func TestTickDay_NoUtilitiesNoGrowth(t *testing.T) {
	sim := newSim(t, 30, 30)
	sim.Policy = growthPolicy

	zoneBlock(sim, 10, 10, 14, 14, zoning.ZoneResidentialLow)

	for day := uint64(1); day <= 50; day++ {
		sim.TickDay(day, 1.0)
	}

	assert.Zero(t, sim.Stats.Population)
	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			tile := sim.Zones.Tile(x, y)
			assert.Zero(t, tile.Development)
			assert.Zero(t, tile.Desirability)
		}
	}
}

func TestTickDay_PopulatesStats(t *testing.T) {
	sim := newSim(t, 20, 20)
	sim.TickDay(1, 1.0)

	assert.Equal(t, uint64(1), sim.LastTick)
	assert.Equal(t, uint64(1), sim.Demand.Tick())
	assert.NotZero(t, sim.Stats.ResidentialDemand)
	assert.Equal(t, 0.5, sim.Stats.AverageLandValue, "empty grid reports the neutral land value")
}

func TestTickDay_UnemploymentFlooredAtZero(t *testing.T) {
	sim := newSim(t, 20, 20)

	sim.Zones.SetZone(5, 5, zoning.ZoneResidentialLow)
	sim.Zones.Tile(5, 5).Population = 10
	sim.Zones.SetZone(6, 5, zoning.ZoneCommercialLow)
	sim.Zones.Tile(6, 5).Jobs = 50

	sim.TickDay(1, 1.0)

	assert.Zero(t, sim.Stats.UnemploymentRate, "more jobs than workers is full employment")
}

func TestDefaultPolicy(t *testing.T) {
	p := engine.DefaultPolicy()
	assert.Equal(t, 9.0, p.TaxRate)
	assert.Equal(t, 0.5, p.EducationLevel)
}

func TestSimDate(t *testing.T) {
	assert.Equal(t, "Year 1, Month 1, Day 1", engine.SimDate(0))
	assert.Equal(t, "Year 1, Month 1, Day 30", engine.SimDate(29))
	assert.Equal(t, "Year 1, Month 2, Day 1", engine.SimDate(30))
	assert.Equal(t, "Year 2, Month 1, Day 1", engine.SimDate(360))
}

func TestLoop_RunsUntilStopped(t *testing.T) {
	loop := engine.NewLoop()
	loop.Interval = time.Millisecond
	loop.Speed = 100.0

	var days []uint64
	loop.OnDay = func(tick uint64) {
		days = append(days, tick)
		if tick >= 3 {
			loop.Stop()
		}
	}

	loop.Run()

	assert.Equal(t, []uint64{1, 2, 3}, days)
	assert.False(t, loop.Running)
}
