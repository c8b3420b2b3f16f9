package utilities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/gridcity/internal/utilities"
	"github.com/talgya/gridcity/internal/zoning"
)

// zonedNetwork builds a w x h grid fully zoned low-density residential so
// coverage can flood anywhere.
func zonedNetwork(t *testing.T, w, h int) (*zoning.Grid, *utilities.Network) {
	t.Helper()
	zones, err := zoning.New(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			zones.SetZone(x, y, zoning.ZoneResidentialLow)
		}
	}
	return zones, utilities.New(zones)
}

func powerLevelAt(n *utilities.Network, x, y int) float64 {
	return n.Grid()[n.Size().Index(x, y)].PowerLevel
}

func TestPlacePowerPlant_SourceTileFullLevel(t *testing.T) {
	_, net := zonedNetwork(t, 40, 40)
	require.NoError(t, net.PlacePowerPlant(20, 20, utilities.PowerCoal))

	assert.Equal(t, 1.0, powerLevelAt(net, 20, 20))
	assert.True(t, net.HasPower(20, 20))
}

func TestPropagation_LevelFallsWithDistance(t *testing.T) {
	_, net := zonedNetwork(t, 40, 40)
	require.NoError(t, net.PlacePowerPlant(20, 20, utilities.PowerCoal))

	prev := powerLevelAt(net, 20, 20)
	for d := 1; d <= 17; d++ {
		level := powerLevelAt(net, 20+d, 20)
		assert.Less(t, level, prev, "level must fall at distance %d", d)
		assert.Greater(t, level, 0.1)
		prev = level
	}

	// Level hits the 0.1 floor at 18 tiles out and coverage stops.
	assert.False(t, net.HasPower(38, 20))
	assert.True(t, net.HasPower(37, 20))
}

func TestPropagation_WaterRadiusShorterThanPower(t *testing.T) {
	_, net := zonedNetwork(t, 40, 40)
	require.NoError(t, net.PlaceWaterSource(20, 20, utilities.WaterTower))

	assert.True(t, net.HasWater(20, 20))
	assert.True(t, net.HasWater(33, 20))  // 13 tiles, level 0.133
	assert.False(t, net.HasWater(34, 20)) // 14 tiles, under the floor
	assert.False(t, net.HasPower(20, 20))
}

func TestPropagation_Idempotent(t *testing.T) {
	_, net := zonedNetwork(t, 30, 30)
	require.NoError(t, net.PlacePowerPlant(5, 5, utilities.PowerGas))
	require.NoError(t, net.PlaceWaterSource(25, 25, utilities.WaterPump))

	first := net.Grid()
	net.PropagatePower()
	net.PropagateWater()
	assert.Equal(t, first, net.Grid())
}

func TestPropagation_BlockedByUnzonedLand(t *testing.T) {
	zones, err := zoning.New(20, 3)
	require.NoError(t, err)
	// Zone the middle row except a one-tile gap at x=10.
	for x := 0; x < 20; x++ {
		if x != 10 {
			zones.SetZone(x, 1, zoning.ZoneResidentialLow)
		}
	}
	net := utilities.New(zones)
	require.NoError(t, net.PlacePowerPlant(2, 1, utilities.PowerCoal))

	assert.True(t, net.HasPower(9, 1))
	assert.False(t, net.HasPower(10, 1), "unzoned tile carries no coverage")
	assert.False(t, net.HasPower(11, 1), "coverage cannot jump the gap")
}

func TestPropagation_StrictlyGreaterOverwrite(t *testing.T) {
	_, net := zonedNetwork(t, 20, 3)
	require.NoError(t, net.PlacePowerPlant(0, 1, utilities.PowerWind))
	require.NoError(t, net.PlacePowerPlant(8, 1, utilities.PowerSolar))

	cells := net.Grid()
	size := net.Size()

	// Closer to the second plant: it wins.
	near := cells[size.Index(6, 1)]
	assert.Equal(t, 1, near.PowerSource)

	// Equidistant: the first-registered source keeps the tile.
	tie := cells[size.Index(4, 1)]
	assert.Equal(t, 0, tie.PowerSource)
	assert.InDelta(t, 0.8, tie.PowerLevel, 1e-9)
}

func TestPlace_OutOfBoundsRejected(t *testing.T) {
	_, net := zonedNetwork(t, 10, 10)

	assert.Error(t, net.PlacePowerPlant(-1, 0, utilities.PowerCoal))
	assert.Error(t, net.PlacePowerPlant(10, 0, utilities.PowerCoal))
	assert.Error(t, net.PlaceWaterSource(0, 10, utilities.WaterPump))
}

func TestPlace_InvalidTypeRejected(t *testing.T) {
	_, net := zonedNetwork(t, 10, 10)

	assert.Error(t, net.PlacePowerPlant(0, 0, utilities.PowerNone))
	assert.Error(t, net.PlaceWaterSource(0, 0, utilities.WaterNone))
}

func TestPlace_CapacityCeiling(t *testing.T) {
	_, net := zonedNetwork(t, 10, 10)

	for i := 0; i < utilities.MaxBuildings; i++ {
		require.NoError(t, net.PlacePowerPlant(i%10, i/10, utilities.PowerWind))
	}

	err := net.PlacePowerPlant(0, 0, utilities.PowerWind)
	require.ErrorIs(t, err, utilities.ErrCapacity)

	// The failed placement leaves the building list untouched.
	assert.Len(t, net.Buildings(), utilities.MaxBuildings)
}

func TestRemoveBuilding_ClearsCoverage(t *testing.T) {
	_, net := zonedNetwork(t, 20, 20)
	require.NoError(t, net.PlacePowerPlant(10, 10, utilities.PowerNuclear))
	require.True(t, net.HasPower(12, 10))

	net.RemoveBuilding(10, 10)

	assert.Empty(t, net.Buildings())
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			assert.False(t, net.HasPower(x, y))
		}
	}

	// Removing from an empty position is a no-op.
	net.RemoveBuilding(3, 3)
}

func TestUpdate_StatsAndTileFlagSync(t *testing.T) {
	zones, net := zonedNetwork(t, 20, 20)
	require.NoError(t, net.PlacePowerPlant(0, 0, utilities.PowerCoal))
	require.NoError(t, net.PlaceWaterSource(0, 0, utilities.WaterTower))

	near := zones.Tile(1, 1)
	near.Building = zoning.BuildingHouseSmall
	near.Population = 40

	// (19,19) is ~26.9 tiles out, beyond both radii.
	far := zones.Tile(19, 19)
	far.Building = zoning.BuildingHouseSmall
	far.Population = 20
	far.HasPower = true // stale flag, must be overwritten by the sync
	far.HasWater = true

	net.Update(1.0)
	stats := net.Stats()

	assert.Equal(t, 150, stats.TotalPowerCapacity)
	assert.Equal(t, 50000, stats.TotalWaterCapacity)
	assert.Equal(t, 6, stats.TotalPowerDemand) // (40+20+0 jobs)/10 per tile
	assert.Equal(t, 6000, stats.TotalWaterDemand)
	assert.Equal(t, 1, stats.PoweredBuildings)
	assert.Equal(t, 1, stats.UnpoweredBuildings)
	assert.Equal(t, 1, stats.WateredBuildings)
	assert.Equal(t, 1, stats.UnwateredBuildings)
	assert.InDelta(t, 0.5, stats.GridEfficiency, 1e-9)

	assert.True(t, near.HasPower)
	assert.True(t, near.HasWater)
	assert.False(t, far.HasPower)
	assert.False(t, far.HasWater)
}

func TestUpdate_OverloadedPlantDerated(t *testing.T) {
	_, net := zonedNetwork(t, 20, 20)
	require.NoError(t, net.PlacePowerPlant(0, 0, utilities.PowerWind))

	net.Update(1.0)

	// A 40 MW plant serving a large covered area carries more than four
	// cells of load, so its efficiency drops below 1.
	b := net.Buildings()[0]
	assert.Greater(t, b.Load, b.Capacity)
	assert.Less(t, b.Efficiency, 1.0)
	assert.Greater(t, b.Efficiency, 0.0)
}

func TestSyncTileFlags_CoversUnbuiltTiles(t *testing.T) {
	zones, net := zonedNetwork(t, 20, 20)
	require.NoError(t, net.PlacePowerPlant(10, 10, utilities.PowerCoal))
	require.NoError(t, net.PlaceWaterSource(10, 10, utilities.WaterTower))

	// No buildings exist yet; the sync alone flips the tile flags so
	// zoned land can start developing.
	net.SyncTileFlags()

	tile := zones.Tile(11, 10)
	assert.True(t, tile.HasPower)
	assert.True(t, tile.HasWater)

	edge := zones.Tile(0, 0)
	assert.False(t, edge.HasWater)
}
