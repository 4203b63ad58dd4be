// Package battle implements the naval battle rules: fleets, placement,
// shot resolution and the turn engine. This package is UI-agnostic and
// deterministic; the platform handles input mapping and rendering.
package battle

import "fmt"

// Coord addresses one cell of a battle grid. X grows rightward and Y
// downward, the same directions the screen draws in.
type Coord struct {
	X int
	Y int
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String formats the coordinate as (x,y). Label gives the naval form.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Label returns the naval form of the coordinate: column letter plus
// row number, e.g. C(0,0) is "A1" and C(3,4) is "D5".
func (c Coord) Label() string {
	return fmt.Sprintf("%c%d", 'A'+rune(c.X), c.Y+1)
}

// Add returns the coordinate shifted by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// In returns true if the coordinate lies inside a size x size grid.
func (c Coord) In(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// Neighbors returns the four orthogonally adjacent coordinates.
// Callers filter out-of-grid entries with In.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{
		{X: c.X, Y: c.Y - 1},
		{X: c.X + 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y},
	}
}

// Orientation says which way a ship lies on the grid.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns the string representation of an orientation.
func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}
