package battle

// Fleet is the set of ships one side fields for a battle.
type Fleet struct {
	ships []*Ship
}

// NewFleet creates a fleet from the given ships.
func NewFleet(ships ...*Ship) *Fleet {
	return &Fleet{ships: ships}
}

// Ships returns the fleet's ships in placement order.
// Callers must not modify the returned slice.
func (f *Fleet) Ships() []*Ship {
	return f.ships
}

// Size returns the number of ships in the fleet.
func (f *Fleet) Size() int {
	return len(f.ships)
}

// ShipAt returns the ship covering the given cell, or nil if the cell
// is open water.
func (f *Fleet) ShipAt(c Coord) *Ship {
	for _, s := range f.ships {
		if s.Occupies(c) {
			return s
		}
	}
	return nil
}

// AllSunk returns true once every ship in the fleet has been sunk.
func (f *Fleet) AllSunk() bool {
	for _, s := range f.ships {
		if !s.Sunk() {
			return false
		}
	}
	return true
}

// Afloat returns the number of ships not yet sunk.
func (f *Fleet) Afloat() int {
	n := 0
	for _, s := range f.ships {
		if !s.Sunk() {
			n++
		}
	}
	return n
}

// CellCount returns the total number of cells the fleet occupies.
func (f *Fleet) CellCount() int {
	n := 0
	for _, s := range f.ships {
		n += s.Length()
	}
	return n
}

// Damage returns the total number of hits the fleet has taken.
func (f *Fleet) Damage() int {
	n := 0
	for _, s := range f.ships {
		n += s.Damage()
	}
	return n
}
