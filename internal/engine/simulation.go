// Package engine ties the simulation components together and drives them
// in the fixed per-tick order the design relies on instead of locks:
// demand, then utility stats, then the morning commute, then zoning
// growth/decay, then the evening commute.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/gridcity/internal/commute"
	"github.com/talgya/gridcity/internal/demand"
	"github.com/talgya/gridcity/internal/entropy"
	"github.com/talgya/gridcity/internal/utilities"
	"github.com/talgya/gridcity/internal/zoning"
)

// Policy holds the caller-controlled economic levers that feed the demand
// model alongside the measured indicators.
type Policy struct {
	TaxRate        float64 `json:"tax_rate"`
	EducationLevel float64 `json:"education_level"`
	PollutionLevel float64 `json:"pollution_level"`
	CrimeRate      float64 `json:"crime_rate"`
}

// DefaultPolicy is a modest starting city: 9% taxes, middling schooling,
// light pollution and crime.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:        9.0,
		EducationLevel: 0.5,
		PollutionLevel: 0.2,
		CrimeRate:      0.1,
	}
}

// SimStats is the per-day aggregate view of the whole simulation.
type SimStats struct {
	Population         int     `json:"population"`
	Jobs               int     `json:"jobs"`
	ResidentialDemand  float64 `json:"residential_demand"`
	CommercialDemand   float64 `json:"commercial_demand"`
	IndustrialDemand   float64 `json:"industrial_demand"`
	AverageCommuteTime float64 `json:"average_commute_time"`
	CongestionLevel    float64 `json:"congestion_level"`
	UnemploymentRate   float64 `json:"unemployment_rate"`
	UtilityCoverage    float64 `json:"utility_coverage"`
	AverageLandValue   float64 `json:"average_land_value"`
}

// Simulation owns all component state explicitly; nothing global survives
// outside it. Components share the zoning grid by reference and rely on
// the pass ordering in TickDay, so a Simulation must only ever be advanced
// from one goroutine.
type Simulation struct {
	Zones     *zoning.Grid
	Demand    *demand.Model
	Utilities *utilities.Network
	Commute   *commute.Engine

	Policy   Policy
	LastTick uint64
	Stats    SimStats
}

// NewSimulation creates all components over one shared grid.
func NewSimulation(width, height int, rng entropy.Source) (*Simulation, error) {
	zones, err := zoning.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("create zoning grid: %w", err)
	}

	return &Simulation{
		Zones:     zones,
		Demand:    demand.NewModel(),
		Utilities: utilities.New(zones),
		Commute:   commute.New(zones, rng),
		Policy:    DefaultPolicy(),
	}, nil
}

// gatherFactors assembles the demand factors for this tick from policy
// levers plus last tick's measured commute, employment, and coverage.
func (s *Simulation) gatherFactors() demand.Factors {
	commuteStats := s.Commute.Stats()
	utilityStats := s.Utilities.Stats()

	avgCommute := commuteStats.AverageCommuteTime
	if avgCommute == 0 {
		avgCommute = 30.0 // neutral before the first morning pass
	}

	population := s.Zones.TotalPopulation()
	jobs := s.Zones.TotalJobs()
	unemployment := 0.0
	if workers := population / 2; workers > 0 {
		unemployment = float64(workers-jobs) / float64(workers)
		if unemployment < 0 {
			unemployment = 0
		}
	}

	return demand.Factors{
		TaxRate:            s.Policy.TaxRate,
		UnemploymentRate:   unemployment,
		AverageCommuteTime: avgCommute,
		EducationLevel:     s.Policy.EducationLevel,
		PollutionLevel:     s.Policy.PollutionLevel,
		CrimeRate:          s.Policy.CrimeRate,
		LandValue:          s.Zones.AverageLandValue(),
		UtilityCoverage:    utilityStats.GridEfficiency,
	}
}

// TickDay advances the city by one simulated day. dt scales the zoning
// growth/decay step; 1.0 is one full day.
func (s *Simulation) TickDay(tick uint64, dt float64) {
	s.LastTick = tick

	// 1. Demand from current indicators.
	s.Demand.Update(s.gatherFactors())

	// 2. Utility statistics and tile coverage flags. Propagation itself
	// only runs on building placement/removal.
	s.Utilities.SyncTileFlags()
	s.Utilities.Update(dt)

	// 3. Morning commute: traffic and commute statistics.
	s.Commute.SimulateMorning()

	// 4. Zoning growth/decay under the fresh demand snapshot.
	snapshot := s.Demand.Demand()
	s.Zones.Update(dt, zoning.DemandInput{
		Residential: snapshot.Residential,
		Commercial:  snapshot.Commercial,
		Industrial:  snapshot.Industrial,
	})

	// 5. Evening commute: simplified return-trip decay.
	s.Commute.SimulateEvening()

	s.updateStats()
}

func (s *Simulation) updateStats() {
	snapshot := s.Demand.Demand()
	commuteStats := s.Commute.Stats()
	utilityStats := s.Utilities.Stats()
	factors := s.gatherFactors()

	s.Stats = SimStats{
		Population:         s.Zones.TotalPopulation(),
		Jobs:               s.Zones.TotalJobs(),
		ResidentialDemand:  snapshot.Residential,
		CommercialDemand:   snapshot.Commercial,
		IndustrialDemand:   snapshot.Industrial,
		AverageCommuteTime: commuteStats.AverageCommuteTime,
		CongestionLevel:    commuteStats.CongestionLevel,
		UnemploymentRate:   factors.UnemploymentRate,
		UtilityCoverage:    utilityStats.GridEfficiency,
		AverageLandValue:   s.Zones.AverageLandValue(),
	}
}

// LogDailyReport emits the structured daily summary.
func (s *Simulation) LogDailyReport(tick uint64) {
	slog.Info("daily report",
		"tick", tick,
		"day", SimDate(tick),
		"population", humanize.Comma(int64(s.Stats.Population)),
		"jobs", humanize.Comma(int64(s.Stats.Jobs)),
		"demand_r", fmt.Sprintf("%.1f", s.Stats.ResidentialDemand),
		"demand_c", fmt.Sprintf("%.1f", s.Stats.CommercialDemand),
		"demand_i", fmt.Sprintf("%.1f", s.Stats.IndustrialDemand),
		"avg_commute", fmt.Sprintf("%.1f", s.Stats.AverageCommuteTime),
		"congestion", fmt.Sprintf("%.3f", s.Stats.CongestionLevel),
		"unemployment", fmt.Sprintf("%.2f", s.Stats.UnemploymentRate),
		"utility_coverage", fmt.Sprintf("%.2f", s.Stats.UtilityCoverage),
	)
}
