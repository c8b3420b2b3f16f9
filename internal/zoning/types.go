// Package zoning owns the authoritative per-tile simulation state: zone
// assignments, developed buildings, population, jobs, land value, and the
// growth/decay state machine that advances them each tick.
package zoning

// ZoneType identifies what a tile is zoned for.
type ZoneType uint8

const (
	ZoneNone ZoneType = iota
	ZoneResidentialLow
	ZoneResidentialMedium
	ZoneResidentialHigh
	ZoneCommercialLow
	ZoneCommercialHigh
	ZoneIndustrialAgriculture
	ZoneIndustrialDirty
	ZoneIndustrialManufacturing
	ZoneIndustrialHightech

	zoneTypeCount
)

var zoneNames = [zoneTypeCount]string{
	"none",
	"residential-low",
	"residential-medium",
	"residential-high",
	"commercial-low",
	"commercial-high",
	"industrial-agriculture",
	"industrial-dirty",
	"industrial-manufacturing",
	"industrial-hightech",
}

func (z ZoneType) String() string {
	if z < zoneTypeCount {
		return zoneNames[z]
	}
	return "unknown"
}

// Valid reports whether z is a zonable (non-none) zone type.
func (z ZoneType) Valid() bool {
	return z > ZoneNone && z < zoneTypeCount
}

// IsResidential reports whether z is one of the residential densities.
func (z ZoneType) IsResidential() bool {
	return z >= ZoneResidentialLow && z <= ZoneResidentialHigh
}

// IsCommercial reports whether z is one of the commercial densities.
func (z ZoneType) IsCommercial() bool {
	return z == ZoneCommercialLow || z == ZoneCommercialHigh
}

// IsIndustrial reports whether z is one of the industrial subtypes.
func (z ZoneType) IsIndustrial() bool {
	return z >= ZoneIndustrialAgriculture && z <= ZoneIndustrialHightech
}

// BuildingType identifies the structure currently developed on a tile.
// Buildings are derived from the tile's zone and development level; they
// are never assigned directly.
type BuildingType uint8

const (
	BuildingNone BuildingType = iota
	// Residential
	BuildingHouseSmall
	BuildingHouseMedium
	BuildingApartmentLow
	BuildingApartmentHigh
	BuildingCondoTower
	// Commercial
	BuildingShopSmall
	BuildingShopMedium
	BuildingOfficeLow
	BuildingOfficeHigh
	BuildingMall
	// Industrial
	BuildingFarm
	BuildingFactoryDirty
	BuildingFactoryClean
	BuildingWarehouse
	BuildingTechPark

	buildingTypeCount
)

// buildingInfo holds the fixed per-building properties. Capacity counts
// population for residential buildings and jobs for everything else.
var buildingInfo = [buildingTypeCount]struct {
	name           string
	capacity       int
	minDevelopment float64
	powerDraw      float64
	waterDraw      float64
}{
	BuildingNone:          {"Empty Lot", 0, 0.0, 0.0, 0.0},
	BuildingHouseSmall:    {"Small House", 4, 0.1, 1.0, 0.5},
	BuildingHouseMedium:   {"Medium House", 8, 0.3, 1.5, 1.0},
	BuildingApartmentLow:  {"Low-Rise Apartments", 20, 0.5, 3.0, 2.0},
	BuildingApartmentHigh: {"High-Rise Apartments", 50, 0.7, 5.0, 4.0},
	BuildingCondoTower:    {"Luxury Condos", 80, 0.9, 8.0, 6.0},
	BuildingShopSmall:     {"Corner Store", 2, 0.1, 1.0, 0.5},
	BuildingShopMedium:    {"Shopping Center", 10, 0.3, 3.0, 1.5},
	BuildingOfficeLow:     {"Small Office", 20, 0.5, 4.0, 2.0},
	BuildingOfficeHigh:    {"Office Tower", 100, 0.7, 10.0, 5.0},
	BuildingMall:          {"Shopping Mall", 150, 0.9, 15.0, 8.0},
	BuildingFarm:          {"Farm", 5, 0.1, 0.5, 1.0},
	BuildingFactoryDirty:  {"Heavy Industry", 30, 0.3, 5.0, 3.0},
	BuildingFactoryClean:  {"Light Manufacturing", 40, 0.5, 6.0, 3.0},
	BuildingWarehouse:     {"Warehouse", 20, 0.3, 3.0, 1.0},
	BuildingTechPark:      {"Tech Campus", 80, 0.8, 8.0, 4.0},
}

// BuildingName returns the display name for a building type.
func BuildingName(b BuildingType) string {
	if b < buildingTypeCount {
		return buildingInfo[b].name
	}
	return "Unknown"
}

// BuildingCapacity returns the population (residential) or job (other)
// capacity of a building type.
func BuildingCapacity(b BuildingType) int {
	if b < buildingTypeCount {
		return buildingInfo[b].capacity
	}
	return 0
}

// BuildingForZone derives the building that appears on a tile given its
// zone and current development level. Higher development unlocks denser
// structures within the zone.
func BuildingForZone(zone ZoneType, development float64) BuildingType {
	switch zone {
	case ZoneResidentialLow:
		if development < 0.5 {
			return BuildingHouseSmall
		}
		return BuildingHouseMedium

	case ZoneResidentialMedium:
		if development < 0.3 {
			return BuildingHouseMedium
		}
		if development < 0.7 {
			return BuildingApartmentLow
		}
		return BuildingApartmentHigh

	case ZoneResidentialHigh:
		if development < 0.5 {
			return BuildingApartmentHigh
		}
		return BuildingCondoTower

	case ZoneCommercialLow:
		if development < 0.5 {
			return BuildingShopSmall
		}
		return BuildingShopMedium

	case ZoneCommercialHigh:
		if development < 0.3 {
			return BuildingOfficeLow
		}
		if development < 0.7 {
			return BuildingOfficeHigh
		}
		return BuildingMall

	case ZoneIndustrialAgriculture:
		return BuildingFarm

	case ZoneIndustrialDirty:
		return BuildingFactoryDirty

	case ZoneIndustrialManufacturing:
		if development < 0.5 {
			return BuildingWarehouse
		}
		return BuildingFactoryClean

	case ZoneIndustrialHightech:
		return BuildingTechPark

	default:
		return BuildingNone
	}
}

// Tile is the authoritative simulation state for one grid cell.
type Tile struct {
	Zone         ZoneType     `json:"zone"`
	Building     BuildingType `json:"building"`
	Population   int          `json:"population"`
	Jobs         int          `json:"jobs"`
	Development  float64      `json:"development"`  // 0.0 to 1.0
	Desirability float64      `json:"desirability"` // 0.0 to 1.0
	LandValue    float64      `json:"land_value"`   // 0.0 to 1.0
	AgeTicks     int          `json:"age_ticks"`    // ticks since last zoned
	HasPower     bool         `json:"has_power"`
	HasWater     bool         `json:"has_water"`
	Abandoned    bool         `json:"abandoned"`
}
