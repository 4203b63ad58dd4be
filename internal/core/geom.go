// Package core holds the shared platform types: screen buffer, input
// frames, geometry, and runtime config. It imports nothing outside the
// standard library so game logic stays pure and testable.
package core

// Rect is an axis-aligned box in screen coordinates, used for board
// layout and click hit testing.
type Rect struct {
	X, Y int // top-left corner
	W, H int
}

// NewRect builds a Rect from a top-left corner and a size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right is the x just past the last column.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom is the y just past the last row.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether (x, y) lies inside the box. Right and
// bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// CellAt maps a screen point to a grid cell inside this rectangle.
// The rectangle is treated as a grid of cells, each cellW by cellH screen
// units. Returns the cell column and row, or ok=false when the point lies
// outside the rectangle. Points on the right or bottom edge are outside.
func (r Rect) CellAt(px, py, cellW, cellH int) (col, row int, ok bool) {
	if cellW <= 0 || cellH <= 0 {
		return 0, 0, false
	}
	if !r.Contains(px, py) {
		return 0, 0, false
	}
	return (px - r.X) / cellW, (py - r.Y) / cellH, true
}

// Clamp pins val into [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs is integer absolute value.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
