// Package utilities floods power and water coverage outward from utility
// buildings across zoned tiles. Coverage is recomputed in full whenever the
// building topology changes; the per-tick update only refreshes statistics
// and syncs coverage flags into the zoning grid.
package utilities

import (
	"errors"
	"fmt"

	"github.com/talgya/gridcity/internal/grid"
	"github.com/talgya/gridcity/internal/zoning"
)

// Kind separates the two propagated utility networks.
type Kind uint8

const (
	KindPower Kind = iota
	KindWater
)

// PowerPlant enumerates power plant variants.
type PowerPlant uint8

const (
	PowerNone PowerPlant = iota
	PowerCoal
	PowerGas
	PowerNuclear
	PowerSolar
	PowerWind
)

// WaterSource enumerates water source variants.
type WaterSource uint8

const (
	WaterNone WaterSource = iota
	WaterPump
	WaterTower
	WaterTreatment
)

// powerPlantInfo holds fixed plant properties: capacity in MW and the
// pollution each plant contributes to its surroundings.
var powerPlantInfo = map[PowerPlant]struct {
	capacity  int
	pollution float64
	cost      float64
}{
	PowerCoal:    {150, 0.8, 5000},
	PowerGas:     {100, 0.5, 4000},
	PowerNuclear: {300, 0.1, 15000},
	PowerSolar:   {50, 0.0, 8000},
	PowerWind:    {40, 0.0, 6000},
}

// waterSourceInfo holds fixed source properties: capacity in gallons/day.
var waterSourceInfo = map[WaterSource]struct {
	capacity int
	cost     float64
}{
	WaterPump:      {10000, 2000},
	WaterTower:     {50000, 5000},
	WaterTreatment: {100000, 10000},
}

// PowerCapacity returns the MW capacity of a plant type, or 0 if unknown.
func PowerCapacity(t PowerPlant) int {
	return powerPlantInfo[t].capacity
}

// PowerPollution returns the pollution output of a plant type.
func PowerPollution(t PowerPlant) float64 {
	return powerPlantInfo[t].pollution
}

// WaterCapacity returns the gallons/day capacity of a source type.
func WaterCapacity(t WaterSource) int {
	return waterSourceInfo[t].capacity
}

// Building is one placed utility source.
type Building struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Kind        Kind        `json:"kind"`
	Power       PowerPlant  `json:"power,omitempty"` // valid when Kind == KindPower
	Water       WaterSource `json:"water,omitempty"` // valid when Kind == KindWater
	Capacity    int         `json:"capacity"`
	Load        int         `json:"load"`
	Efficiency  float64     `json:"efficiency"` // 0.0 to 1.0
	Operational bool        `json:"operational"`
}

// Cell is the per-tile coverage state, overwritten wholesale by every
// propagation pass. Source indices refer to the network's building list;
// NoSource means uncovered.
type Cell struct {
	HasPower      bool    `json:"has_power"`
	HasWater      bool    `json:"has_water"`
	PowerLevel    float64 `json:"power_level"`    // 0.0 to 1.0, falls with distance
	WaterPressure float64 `json:"water_pressure"` // 0.0 to 1.0, falls with distance
	PowerSource   int     `json:"power_source"`
	WaterSource   int     `json:"water_source"`
}

// NoSource marks a cell with no owning utility building.
const NoSource = -1

// Stats summarizes network-wide capacity, demand, and coverage.
type Stats struct {
	TotalPowerCapacity int     `json:"total_power_capacity"`
	TotalPowerDemand   int     `json:"total_power_demand"`
	TotalWaterCapacity int     `json:"total_water_capacity"`
	TotalWaterDemand   int     `json:"total_water_demand"`
	PoweredBuildings   int     `json:"powered_buildings"`
	UnpoweredBuildings int     `json:"unpowered_buildings"`
	WateredBuildings   int     `json:"watered_buildings"`
	UnwateredBuildings int     `json:"unwatered_buildings"`
	GridEfficiency     float64 `json:"grid_efficiency"`
}

const (
	// MaxBuildings is the hard operational ceiling on placed utility
	// sources. Placement past the cap fails with ErrCapacity.
	MaxBuildings = 100

	powerRadius = 20.0 // tiles
	waterRadius = 15.0 // tiles
	minLevel    = 0.1  // coverage below this is dropped
)

// ErrCapacity is returned when the building cap is reached.
var ErrCapacity = errors.New("utilities: building capacity exceeded")

// Network owns the utility buildings and coverage grid for one city.
type Network struct {
	size      grid.Size
	cells     []Cell
	buildings []Building
	zones     *zoning.Grid
	stats     Stats
}

// New creates an empty utility network over the same grid as zones.
func New(zones *zoning.Grid) *Network {
	size := zones.Size()
	n := &Network{
		size:      size,
		cells:     make([]Cell, size.Area()),
		buildings: make([]Building, 0, MaxBuildings),
		zones:     zones,
	}
	n.clearCoverage(KindPower)
	n.clearCoverage(KindWater)
	return n
}

// Size returns the grid dimensions.
func (n *Network) Size() grid.Size {
	return n.size
}

// PlacePowerPlant registers a power plant and re-floods both networks.
func (n *Network) PlacePowerPlant(x, y int, t PowerPlant) error {
	if t == PowerNone {
		return fmt.Errorf("utilities: invalid power plant type %d", t)
	}
	return n.place(Building{
		X: x, Y: y,
		Kind:     KindPower,
		Power:    t,
		Capacity: PowerCapacity(t),
	})
}

// PlaceWaterSource registers a water source and re-floods both networks.
func (n *Network) PlaceWaterSource(x, y int, t WaterSource) error {
	if t == WaterNone {
		return fmt.Errorf("utilities: invalid water source type %d", t)
	}
	return n.place(Building{
		X: x, Y: y,
		Kind:     KindWater,
		Water:    t,
		Capacity: WaterCapacity(t),
	})
}

func (n *Network) place(b Building) error {
	if !n.size.InBounds(b.X, b.Y) {
		return fmt.Errorf("utilities: position (%d,%d) out of bounds for %s grid", b.X, b.Y, n.size)
	}
	if len(n.buildings) >= MaxBuildings {
		return ErrCapacity
	}

	b.Efficiency = 1.0
	b.Operational = true
	n.buildings = append(n.buildings, b)

	n.PropagatePower()
	n.PropagateWater()
	return nil
}

// RemoveBuilding removes the first building at (x, y), compacting the
// list and re-flooding both networks. Removing from an empty position is
// a no-op.
func (n *Network) RemoveBuilding(x, y int) {
	for i := range n.buildings {
		if n.buildings[i].X == x && n.buildings[i].Y == y {
			n.buildings = append(n.buildings[:i], n.buildings[i+1:]...)
			n.PropagatePower()
			n.PropagateWater()
			return
		}
	}
}

// Buildings returns a copy of the registered building list.
func (n *Network) Buildings() []Building {
	out := make([]Building, len(n.buildings))
	copy(out, n.buildings)
	return out
}

// HasPower reports power coverage at (x, y); false out of bounds.
func (n *Network) HasPower(x, y int) bool {
	if !n.size.InBounds(x, y) {
		return false
	}
	return n.cells[n.size.Index(x, y)].HasPower
}

// HasWater reports water coverage at (x, y); false out of bounds.
func (n *Network) HasWater(x, y int) bool {
	if !n.size.InBounds(x, y) {
		return false
	}
	return n.cells[n.size.Index(x, y)].HasWater
}

// Stats returns the statistics computed by the last Update.
func (n *Network) Stats() Stats {
	return n.stats
}

// Grid returns a copy of the coverage cells in row-major order for
// read-only consumers.
func (n *Network) Grid() []Cell {
	out := make([]Cell, len(n.cells))
	copy(out, n.cells)
	return out
}
