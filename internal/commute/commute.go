// Package commute finds routes between residential and job tiles,
// accumulates per-tile traffic congestion, and derives the aggregate
// commute statistics fed back into the demand model.
package commute

import (
	"math"

	"github.com/talgya/gridcity/internal/entropy"
	"github.com/talgya/gridcity/internal/grid"
	"github.com/talgya/gridcity/internal/zoning"
)

// Trip classifies what a commute is for.
type Trip uint8

const (
	TripHomeToWork Trip = iota
	TripWorkToHome
	TripHomeToShop
	TripHomeToSchool
)

// Mode is the transport mode for a commute.
type Mode uint8

const (
	ModeWalk Mode = iota
	ModeCar
	ModeBus
	ModeSubway
	ModeTrain

	modeCount
)

// modeSpeeds are base speeds in tiles per minute.
var modeSpeeds = [modeCount]float64{
	ModeWalk:   0.5,
	ModeCar:    2.0,
	ModeBus:    1.5,
	ModeSubway: 3.0,
	ModeTrain:  4.0,
}

// congestionSensitive reports whether a mode pays the doubled congestion
// penalty. Walk, subway, and train run outside road traffic.
func (m Mode) congestionSensitive() bool {
	return m == ModeCar || m == ModeBus
}

const (
	// MaxAttempts is the per-commuter pathfinding budget ("SimCity-4
	// rule": a trip gives up after six route attempts).
	MaxAttempts = 6
	// MaxCommuteMinutes is the longest acceptable commute; trips past it
	// count as failed and job searches ignore farther destinations.
	MaxCommuteMinutes = 60.0

	maxPathLen = 256
)

// Commuter is a single ephemeral trip query. The caller owns it for the
// duration of the query; Path is populated on success and invalid while
// Successful is false.
type Commuter struct {
	OriginX, OriginY int
	DestX, DestY     int
	Trip             Trip
	Mode             Mode
	Time             float64
	AttemptsLeft     int
	Successful       bool
	Path             []int // tile indices, origin first
}

// NewCommuter returns a trip query with a full attempt budget.
func NewCommuter(originX, originY, destX, destY int, trip Trip, mode Mode) Commuter {
	return Commuter{
		OriginX: originX, OriginY: originY,
		DestX: destX, DestY: destY,
		Trip:         trip,
		Mode:         mode,
		AttemptsLeft: MaxAttempts,
	}
}

// Stats aggregates the outcome of a commute pass.
type Stats struct {
	TotalCommutes      int     `json:"total_commutes"`
	SuccessfulCommutes int     `json:"successful_commutes"`
	FailedCommutes     int     `json:"failed_commutes"`
	AverageCommuteTime float64 `json:"average_commute_time"`
	CongestionLevel    float64 `json:"congestion_level"`
	JobsFilled         int     `json:"jobs_filled"`
	JobsVacant         int     `json:"jobs_vacant"`
}

// Pathfinder finds a route for one commuter. The concrete engine resets
// its whole scratch grid per query; the seam exists so an incremental
// open-set-only reset can replace it without touching call sites.
type Pathfinder interface {
	FindPath(c *Commuter) bool
}

// pathNode is per-tile scratch state for one A* query.
type pathNode struct {
	x, y    int
	g, h, f float64
	parent  int
	open    bool
	closed  bool
}

// Engine owns the traffic-flow grid, the reusable pathfinding scratch
// grid, and the aggregate statistics. At most one path query may be in
// flight at a time; concurrent use must be serialized by the caller.
type Engine struct {
	size  grid.Size
	zones *zoning.Grid
	flow  []float64
	nodes []pathNode
	stats Stats
	rng   entropy.Source
}

var _ Pathfinder = (*Engine)(nil)

// New creates a commuter engine over the same grid as zones. The entropy
// source drives transport-mode choice and job-search tie-breaking.
func New(zones *zoning.Grid, rng entropy.Source) *Engine {
	size := zones.Size()
	return &Engine{
		size:  size,
		zones: zones,
		flow:  make([]float64, size.Area()),
		nodes: make([]pathNode, size.Area()),
		rng:   rng,
	}
}

// Size returns the grid dimensions.
func (e *Engine) Size() grid.Size {
	return e.size
}

// passable reports whether a tile can be traversed. Any tile on the zoning
// grid qualifies; the zoning engine decides what exists.
func (e *Engine) passable(x, y int) bool {
	return e.zones.Tile(x, y) != nil
}

// movementCost prices one step onto (x, y): base cost plus a congestion
// penalty, doubled for road-bound modes.
func (e *Engine) movementCost(x, y int, mode Mode) float64 {
	cost := 1.0
	if mode.congestionSensitive() {
		cost += e.flow[e.size.Index(x, y)] * 2.0
	}
	return cost
}

// resetScratch reinitializes the whole pathfinding grid. This makes every
// query O(grid area) regardless of path length; a deliberate
// cost-for-simplicity trade at city scale.
func (e *Engine) resetScratch() {
	for y := 0; y < e.size.Height; y++ {
		for x := 0; x < e.size.Width; x++ {
			idx := e.size.Index(x, y)
			e.nodes[idx] = pathNode{
				x: x, y: y,
				g: math.Inf(1), f: math.Inf(1),
				parent: -1,
			}
		}
	}
}

// FindPath runs one A* search attempt from the commuter's origin to its
// destination, consuming one unit of the attempt budget. On success the
// commuter's path holds the tile indices from origin to destination
// (capped at 256 tiles) and Successful is set; on failure the path stays
// empty and the caller may retry while attempts remain.
func (e *Engine) FindPath(c *Commuter) bool {
	if c.AttemptsLeft <= 0 {
		c.Successful = false
		return false
	}
	c.AttemptsLeft--

	if !e.size.InBounds(c.OriginX, c.OriginY) || !e.size.InBounds(c.DestX, c.DestY) {
		c.Successful = false
		return false
	}

	e.resetScratch()

	startIdx := e.size.Index(c.OriginX, c.OriginY)
	goalIdx := e.size.Index(c.DestX, c.DestY)

	start := &e.nodes[startIdx]
	start.g = 0
	start.h = float64(grid.Manhattan(c.OriginX, c.OriginY, c.DestX, c.DestY))
	start.f = start.h
	start.open = true

	for {
		// Lowest-f node in the open set; linear scan keeps the scratch
		// grid the only state.
		current := -1
		lowest := math.Inf(1)
		for i := range e.nodes {
			if e.nodes[i].open && e.nodes[i].f < lowest {
				current = i
				lowest = e.nodes[i].f
			}
		}
		if current == -1 {
			// Open set exhausted without reaching the goal.
			c.Successful = false
			return false
		}

		if current == goalIdx {
			c.Path = e.reconstructPath(startIdx, goalIdx)
			c.Successful = true
			return true
		}

		node := &e.nodes[current]
		node.open = false
		node.closed = true

		for _, d := range grid.Cardinal {
			nx, ny := node.x+d[0], node.y+d[1]
			if !e.size.InBounds(nx, ny) || !e.passable(nx, ny) {
				continue
			}

			neighborIdx := e.size.Index(nx, ny)
			neighbor := &e.nodes[neighborIdx]
			if neighbor.closed {
				continue
			}

			tentative := node.g + e.movementCost(nx, ny, c.Mode)
			if !neighbor.open || tentative < neighbor.g {
				neighbor.parent = current
				neighbor.g = tentative
				neighbor.h = float64(grid.Manhattan(nx, ny, c.DestX, c.DestY))
				neighbor.f = neighbor.g + neighbor.h
				neighbor.open = true
			}
		}
	}
}

// reconstructPath walks parent pointers from goal back to start and
// reverses into origin-first order, capped at maxPathLen tiles.
func (e *Engine) reconstructPath(startIdx, goalIdx int) []int {
	reversed := make([]int, 0, 64)
	idx := goalIdx
	for idx != startIdx && idx >= 0 && len(reversed) < maxPathLen-1 {
		reversed = append(reversed, idx)
		idx = e.nodes[idx].parent
	}
	reversed = append(reversed, startIdx)

	path := make([]int, len(reversed))
	for i, tile := range reversed {
		path[len(reversed)-1-i] = tile
	}
	return path
}
