package commute

import (
	"math"

	"github.com/talgya/gridcity/internal/grid"
)

// trafficIncrement is the congestion added to each path tile per
// successful traversal, by mode.
func trafficIncrement(mode Mode) float64 {
	switch mode {
	case ModeCar:
		return 0.02
	case ModeBus:
		return 0.015
	default:
		return 0.01
	}
}

// CalculateTime derives the commuter's travel time in minutes from its
// found path under current congestion: each edge costs the inverse of the
// mode speed derated by congestion at the edge's destination tile.
// Unsuccessful commuters are charged the maximum commute time.
func (e *Engine) CalculateTime(c *Commuter) float64 {
	if !c.Successful || len(c.Path) == 0 {
		return MaxCommuteMinutes
	}

	speed := modeSpeeds[c.Mode]
	total := 0.0
	for i := 1; i < len(c.Path); i++ {
		congestion := e.flow[c.Path[i]]
		total += 1.0 / (speed / (1.0 + congestion))
	}

	c.Time = total
	return total
}

// UpdateTrafficFlow adds this commuter's traversal to the congestion grid,
// clamping every tile at 1.0. No-op for unsuccessful commuters.
func (e *Engine) UpdateTrafficFlow(c *Commuter) {
	if !c.Successful || len(c.Path) == 0 {
		return
	}

	increment := trafficIncrement(c.Mode)
	for _, idx := range c.Path {
		e.flow[idx] += increment
		if e.flow[idx] > 1.0 {
			e.flow[idx] = 1.0
		}
	}
}

// decayFlow scales every congestion value by factor.
func (e *Engine) decayFlow(factor float64) {
	for i := range e.flow {
		e.flow[i] *= factor
	}
}

// findNearestJob scans every job-bearing commercial or industrial tile and
// returns the closest one within the maximum commute distance. Exact
// distance ties are broken by the engine's entropy source, so which of two
// equally near employers wins varies run to run.
func (e *Engine) findNearestJob(fromX, fromY int) (jx, jy int, ok bool) {
	best := math.Inf(1)
	for y := 0; y < e.size.Height; y++ {
		for x := 0; x < e.size.Width; x++ {
			tile := e.zones.Tile(x, y)
			if tile == nil || tile.Jobs == 0 {
				continue
			}
			if !tile.Zone.IsCommercial() && !tile.Zone.IsIndustrial() {
				continue
			}

			distance := float64(grid.Manhattan(fromX, fromY, x, y))
			if distance >= MaxCommuteMinutes {
				continue
			}
			if distance < best || (distance == best && e.rng.Float() < 0.5) {
				best = distance
				jx, jy = x, y
				ok = true
			}
		}
	}
	return jx, jy, ok
}

// chooseMode picks a commute mode: roughly 70% of trips go by car, the
// rest by bus.
func (e *Engine) chooseMode() Mode {
	if e.rng.Intn(100) < 70 {
		return ModeCar
	}
	return ModeBus
}

// SimulateMorning runs the aggregate home-to-work pass: overnight traffic
// decays to 10%, then every residential tile sends half its population out
// to the nearest job-bearing tile. Successful trips accumulate congestion
// and commute statistics; trips longer than the maximum commute time count
// as failures.
func (e *Engine) SimulateMorning() {
	e.decayFlow(0.1)

	e.stats.TotalCommutes = 0
	e.stats.SuccessfulCommutes = 0
	e.stats.FailedCommutes = 0
	e.stats.JobsFilled = 0
	e.stats.JobsVacant = 0

	totalTime := 0.0

	for y := 0; y < e.size.Height; y++ {
		for x := 0; x < e.size.Width; x++ {
			tile := e.zones.Tile(x, y)
			if tile == nil || tile.Population == 0 || !tile.Zone.IsResidential() {
				continue
			}

			workers := tile.Population / 2

			for w := 0; w < workers; w++ {
				jx, jy, found := e.findNearestJob(x, y)
				if !found {
					e.stats.FailedCommutes++
					e.stats.TotalCommutes++
					continue
				}

				commuter := NewCommuter(x, y, jx, jy, TripHomeToWork, e.chooseMode())

				if e.FindPath(&commuter) {
					time := e.CalculateTime(&commuter)
					if time < MaxCommuteMinutes {
						e.UpdateTrafficFlow(&commuter)
						e.stats.SuccessfulCommutes++
						e.stats.JobsFilled++
						totalTime += time
					} else {
						e.stats.FailedCommutes++
					}
				} else {
					e.stats.FailedCommutes++
				}

				e.stats.TotalCommutes++
			}
		}
	}

	if e.stats.SuccessfulCommutes > 0 {
		e.stats.AverageCommuteTime = totalTime / float64(e.stats.SuccessfulCommutes)
	}

	e.stats.CongestionLevel = e.congestionLevel()
}

// SimulateEvening is the simplified return pass: traffic decays to 80%
// without re-pathing (return trips retrace morning routes).
func (e *Engine) SimulateEvening() {
	e.decayFlow(0.8)
}

// congestionLevel is the mean congestion over tiles above the 0.1 noise
// floor, or 0 when the grid is quiet.
func (e *Engine) congestionLevel() float64 {
	total := 0.0
	congested := 0
	for _, flow := range e.flow {
		if flow > 0.1 {
			total += flow
			congested++
		}
	}
	if congested == 0 {
		return 0
	}
	return total / float64(congested)
}

// Stats returns the aggregate statistics from the last morning pass.
func (e *Engine) Stats() Stats {
	return e.stats
}

// TrafficFlow returns a copy of the congestion grid in row-major order
// for read-only consumers.
func (e *Engine) TrafficFlow() []float64 {
	out := make([]float64, len(e.flow))
	copy(out, e.flow)
	return out
}
