package zoning

import (
	"github.com/talgya/gridcity/internal/grid"
)

// Grid holds the zoning state for every tile in the city.
type Grid struct {
	size  grid.Size
	tiles []Tile
}

// New creates a zoning grid with all tiles unzoned and medium land value.
func New(width, height int) (*Grid, error) {
	size, err := grid.NewSize(width, height)
	if err != nil {
		return nil, err
	}
	g := &Grid{
		size:  size,
		tiles: make([]Tile, size.Area()),
	}
	for i := range g.tiles {
		g.tiles[i].LandValue = 0.5
	}
	return g, nil
}

// Size returns the grid dimensions.
func (g *Grid) Size() grid.Size {
	return g.size
}

// Tile returns the tile at (x, y), or nil when out of bounds. The returned
// pointer aliases live grid state; snapshot consumers should use Snapshot.
func (g *Grid) Tile(x, y int) *Tile {
	if !g.size.InBounds(x, y) {
		return nil
	}
	return &g.tiles[g.size.Index(x, y)]
}

// SetZone assigns a zone type to a tile. Changing the zone is the only way
// to re-zone: it unconditionally clears any existing development,
// population, jobs, age, and abandonment state. Out-of-bounds calls are
// ignored.
func (g *Grid) SetZone(x, y int, zone ZoneType) {
	if !g.size.InBounds(x, y) {
		return
	}
	tile := &g.tiles[g.size.Index(x, y)]
	if tile.Zone == zone {
		return
	}
	tile.Zone = zone
	tile.Building = BuildingNone
	tile.Population = 0
	tile.Jobs = 0
	tile.Development = 0
	tile.AgeTicks = 0
	tile.Abandoned = false
}

// TotalPopulation sums population across all tiles.
func (g *Grid) TotalPopulation() int {
	total := 0
	for i := range g.tiles {
		total += g.tiles[i].Population
	}
	return total
}

// TotalJobs sums jobs across all tiles.
func (g *Grid) TotalJobs() int {
	total := 0
	for i := range g.tiles {
		total += g.tiles[i].Jobs
	}
	return total
}

// ZoneCount returns how many tiles carry the given zone type.
func (g *Grid) ZoneCount(zone ZoneType) int {
	count := 0
	for i := range g.tiles {
		if g.tiles[i].Zone == zone {
			count++
		}
	}
	return count
}

// AverageLandValue returns the mean land value over zoned tiles, or 0.5
// when nothing is zoned.
func (g *Grid) AverageLandValue() float64 {
	total := 0.0
	zoned := 0
	for i := range g.tiles {
		if g.tiles[i].Zone != ZoneNone {
			total += g.tiles[i].LandValue
			zoned++
		}
	}
	if zoned == 0 {
		return 0.5
	}
	return total / float64(zoned)
}

// Snapshot returns a copy of all tiles in row-major order for read-only
// consumers (renderers, telemetry). Mutating the copy has no effect on the
// simulation.
func (g *Grid) Snapshot() []Tile {
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}
