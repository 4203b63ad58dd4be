package battle

// ShipClass describes one kind of ship a fleet may field.
// Classes come from config; the battle engine only cares about length.
type ShipClass struct {
	Name   string
	Length int
}

// Ship is one vessel on the grid. It occupies a straight line of cells
// and tracks accumulated damage. A ship with damage equal to its length
// is sunk.
type Ship struct {
	name   string
	cells  []Coord
	damage int
}

// NewShip builds a ship of the given length with its bow at the given
// cell, extending right (Horizontal) or down (Vertical).
func NewShip(name string, bow Coord, o Orientation, length int) *Ship {
	cells := make([]Coord, 0, length)
	for i := 0; i < length; i++ {
		if o == Horizontal {
			cells = append(cells, bow.Add(i, 0))
		} else {
			cells = append(cells, bow.Add(0, i))
		}
	}
	return &Ship{name: name, cells: cells}
}

// Name returns the ship's class name (e.g. "Destroyer").
func (s *Ship) Name() string {
	return s.name
}

// Length returns the number of cells the ship occupies.
func (s *Ship) Length() int {
	return len(s.cells)
}

// Cells returns the cells the ship occupies. Callers must not modify
// the returned slice.
func (s *Ship) Cells() []Coord {
	return s.cells
}

// Bow returns the ship's first cell.
func (s *Ship) Bow() Coord {
	return s.cells[0]
}

// Horizontal returns true if the ship lies horizontally.
// Length-one ships count as horizontal.
func (s *Ship) Horizontal() bool {
	return len(s.cells) < 2 || s.cells[0].Y == s.cells[1].Y
}

// Occupies returns true if the ship covers the given cell.
func (s *Ship) Occupies(c Coord) bool {
	for _, cell := range s.cells {
		if cell == c {
			return true
		}
	}
	return false
}

// Hit records one hit on the ship. Damage never exceeds the ship's
// length; extra hits on a sunk ship are ignored.
func (s *Ship) Hit() {
	if s.damage < len(s.cells) {
		s.damage++
	}
}

// Damage returns the number of cells hit so far.
func (s *Ship) Damage() int {
	return s.damage
}

// Sunk returns true once every cell of the ship has been hit.
func (s *Ship) Sunk() bool {
	return s.damage >= len(s.cells)
}
