// Package demand implements the RCI (residential/commercial/industrial)
// demand model: fixed linear curves that convert citywide economic
// indicators into per-zone-subtype desirability scores.
package demand

import (
	"github.com/talgya/gridcity/internal/grid"
	"github.com/talgya/gridcity/internal/zoning"
)

// Factors are the caller-supplied economic indicators for one update.
// Tax and unemployment rates are percentages, commute time is minutes,
// and the remaining fields are 0..1 levels.
type Factors struct {
	TaxRate            float64 `json:"tax_rate"`
	UnemploymentRate   float64 `json:"unemployment_rate"`
	AverageCommuteTime float64 `json:"average_commute_time"`
	EducationLevel     float64 `json:"education_level"`
	PollutionLevel     float64 `json:"pollution_level"`
	CrimeRate          float64 `json:"crime_rate"`
	LandValue          float64 `json:"land_value"`
	UtilityCoverage    float64 `json:"utility_coverage"`
}

// Snapshot holds the full set of demand scores after an update. All values
// are clamped to [-100, 100]. The three aggregates are fixed weighted
// averages of their subtype scores.
type Snapshot struct {
	Residential float64 `json:"residential"`
	Commercial  float64 `json:"commercial"`
	Industrial  float64 `json:"industrial"`

	ResidentialLow          float64 `json:"residential_low"`
	ResidentialMedium       float64 `json:"residential_medium"`
	ResidentialHigh         float64 `json:"residential_high"`
	CommercialLow           float64 `json:"commercial_low"`
	CommercialHigh          float64 `json:"commercial_high"`
	IndustrialAgriculture   float64 `json:"industrial_agriculture"`
	IndustrialDirty         float64 `json:"industrial_dirty"`
	IndustrialManufacturing float64 `json:"industrial_manufacturing"`
	IndustrialHightech      float64 `json:"industrial_hightech"`
}

// ForZone returns the subtype score matching a zone type, or 0 for an
// invalid or none zone.
func (s Snapshot) ForZone(zone zoning.ZoneType) float64 {
	switch zone {
	case zoning.ZoneResidentialLow:
		return s.ResidentialLow
	case zoning.ZoneResidentialMedium:
		return s.ResidentialMedium
	case zoning.ZoneResidentialHigh:
		return s.ResidentialHigh
	case zoning.ZoneCommercialLow:
		return s.CommercialLow
	case zoning.ZoneCommercialHigh:
		return s.CommercialHigh
	case zoning.ZoneIndustrialAgriculture:
		return s.IndustrialAgriculture
	case zoning.ZoneIndustrialDirty:
		return s.IndustrialDirty
	case zoning.ZoneIndustrialManufacturing:
		return s.IndustrialManufacturing
	case zoning.ZoneIndustrialHightech:
		return s.IndustrialHightech
	default:
		return 0
	}
}

// zoneParams are the tunable curve coefficients per zone subtype.
// Unemployment sensitivity is negative for residential (people leave where
// work is scarce) and positive for commercial/industrial (idle workers are
// cheap labor).
var zoneParams = map[zoning.ZoneType]struct {
	baseDemand              float64
	taxSensitivity          float64
	unemploymentSensitivity float64
	commuteSensitivity      float64
	educationRequirement    float64
	pollutionTolerance      float64
}{
	zoning.ZoneResidentialLow:          {20.0, -2.0, -3.0, -1.5, 0.0, 0.6},
	zoning.ZoneResidentialMedium:       {15.0, -2.5, -4.0, -2.0, 0.3, 0.3},
	zoning.ZoneResidentialHigh:         {10.0, -3.0, -5.0, -3.0, 0.6, 0.1},
	zoning.ZoneCommercialLow:           {15.0, -2.5, 2.0, -1.0, 0.2, 0.5},
	zoning.ZoneCommercialHigh:          {10.0, -3.5, 1.5, -2.0, 0.7, 0.2},
	zoning.ZoneIndustrialAgriculture:   {12.0, -1.5, 3.0, -0.5, 0.0, 0.8},
	zoning.ZoneIndustrialDirty:         {18.0, -2.0, 4.0, -0.5, 0.1, 1.0},
	zoning.ZoneIndustrialManufacturing: {15.0, -2.5, 3.5, -1.0, 0.4, 0.7},
	zoning.ZoneIndustrialHightech:      {8.0, -3.0, 2.5, -2.0, 0.8, 0.3},
}

// Model recomputes the demand snapshot from supplied factors. Updates are
// deterministic: no state carries over between calls except a tick counter
// kept for diagnostics.
type Model struct {
	current Snapshot
	tick    uint64
}

// NewModel returns a model with mildly positive starting demand, matching
// a young city that wants all three zone categories.
func NewModel() *Model {
	return &Model{
		current: Snapshot{
			Residential: 20.0,
			Commercial:  10.0,
			Industrial:  15.0,
		},
	}
}

// zoneDemand evaluates one subtype's linear curve, clamped to [-100, 100].
func zoneDemand(zone zoning.ZoneType, f Factors) float64 {
	params, ok := zoneParams[zone]
	if !ok {
		return 0
	}

	demand := params.baseDemand
	demand += params.taxSensitivity * f.TaxRate
	demand += params.unemploymentSensitivity * f.UnemploymentRate
	demand += params.commuteSensitivity * (f.AverageCommuteTime - 30.0) / 10.0

	if gap := params.educationRequirement - f.EducationLevel; gap > 0 {
		demand -= gap * 20.0
	}
	if excess := f.PollutionLevel - params.pollutionTolerance; excess > 0 {
		demand -= excess * 15.0
	}

	demand -= f.CrimeRate * 10.0
	demand += f.UtilityCoverage * 5.0

	return grid.Clamp(demand, -100.0, 100.0)
}

// Update overwrites the snapshot from the supplied factors.
func (m *Model) Update(f Factors) {
	s := &m.current

	s.ResidentialLow = zoneDemand(zoning.ZoneResidentialLow, f)
	s.ResidentialMedium = zoneDemand(zoning.ZoneResidentialMedium, f)
	s.ResidentialHigh = zoneDemand(zoning.ZoneResidentialHigh, f)

	s.CommercialLow = zoneDemand(zoning.ZoneCommercialLow, f)
	s.CommercialHigh = zoneDemand(zoning.ZoneCommercialHigh, f)

	s.IndustrialAgriculture = zoneDemand(zoning.ZoneIndustrialAgriculture, f)
	s.IndustrialDirty = zoneDemand(zoning.ZoneIndustrialDirty, f)
	s.IndustrialManufacturing = zoneDemand(zoning.ZoneIndustrialManufacturing, f)
	s.IndustrialHightech = zoneDemand(zoning.ZoneIndustrialHightech, f)

	s.Residential = s.ResidentialLow*0.5 + s.ResidentialMedium*0.3 + s.ResidentialHigh*0.2
	s.Commercial = s.CommercialLow*0.6 + s.CommercialHigh*0.4
	s.Industrial = s.IndustrialAgriculture*0.2 + s.IndustrialDirty*0.3 +
		s.IndustrialManufacturing*0.3 + s.IndustrialHightech*0.2

	m.tick++
}

// Demand returns the current snapshot by value; callers cannot mutate
// model state through it.
func (m *Model) Demand() Snapshot {
	return m.current
}

// Tick returns how many updates the model has processed. Diagnostic only.
func (m *Model) Tick() uint64 {
	return m.tick
}

// LotDesirability converts a subtype's current demand score into a 0..1
// desirability for a single lot, weighted by land value (residential and
// commercial only), commute time (floored at 0.1 beyond two hours), and
// service/utility coverage. Invalid or none zones return exactly 0.
func (m *Model) LotDesirability(zone zoning.ZoneType, landValue, commuteTime, services float64) float64 {
	if !zone.Valid() {
		return 0
	}
	desirability := (m.current.ForZone(zone) + 100.0) / 200.0

	landValueFactor := 1.0
	if zone >= zoning.ZoneResidentialMedium && zone <= zoning.ZoneCommercialHigh {
		landValueFactor = 0.5 + landValue*0.5
	}

	commuteFactor := grid.Clamp(1.0-commuteTime/120.0, 0.1, 1.0)
	serviceFactor := 0.8 + services*0.2

	return grid.Clamp01(desirability * landValueFactor * commuteFactor * serviceFactor)
}
