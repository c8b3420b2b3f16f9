// Package grid provides the shared row-major tile addressing convention
// used identically by every simulation component. A tile at (x, y) maps to
// index y*width + x; all components sharing a city must be created with the
// same dimensions.
package grid

import (
	"fmt"
	"math"
)

// Size describes the dimensions of the shared tile grid.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewSize validates and returns grid dimensions.
func NewSize(width, height int) (Size, error) {
	if width <= 0 || height <= 0 {
		return Size{}, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	return Size{Width: width, Height: height}, nil
}

// Area returns the total tile count.
func (s Size) Area() int {
	return s.Width * s.Height
}

// InBounds reports whether (x, y) lies on the grid.
func (s Size) InBounds(x, y int) bool {
	return x >= 0 && x < s.Width && y >= 0 && y < s.Height
}

// Index returns the row-major tile index for (x, y).
// The caller is responsible for bounds checking.
func (s Size) Index(x, y int) int {
	return y*s.Width + x
}

// Coords returns the (x, y) position for a row-major tile index.
func (s Size) Coords(idx int) (x, y int) {
	return idx % s.Width, idx / s.Width
}

// String returns a summary of the grid dimensions.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Cardinal lists the four orthogonal neighbor offsets in N, E, S, W order.
var Cardinal = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Manhattan returns the Manhattan distance between two tiles.
func Manhattan(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Euclidean returns the straight-line distance between two tiles.
func Euclidean(x1, y1, x2, y2 int) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return math.Sqrt(dx*dx + dy*dy)
}

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
