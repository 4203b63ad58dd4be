package battle

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-armada/internal/core"
)

// Placement attempt limits. A full fleet retry starts over with an
// empty grid when a single ship cannot find a legal position.
const (
	shipAttempts  = 200
	fleetAttempts = 50
)

// CanPlace reports whether a ship with the given cells may be placed on
// a gridSize x gridSize grid alongside the already-placed ships. Cells
// must lie inside the grid and must not overlap any placed ship. Unless
// allowTouching is set, cells must also keep one cell of open water to
// every placed ship, diagonals included.
func CanPlace(placed []*Ship, cells []Coord, gridSize int, allowTouching bool) bool {
	for _, c := range cells {
		if !c.In(gridSize) {
			return false
		}
	}

	for _, s := range placed {
		for _, c := range cells {
			for _, other := range s.Cells() {
				dx := core.Abs(c.X - other.X)
				dy := core.Abs(c.Y - other.Y)
				if dx == 0 && dy == 0 {
					return false // overlap
				}
				if !allowTouching && dx <= 1 && dy <= 1 {
					return false // adjacent, including diagonally
				}
			}
		}
	}
	return true
}

// RandomFleet places one ship per class at a random legal position and
// returns the resulting fleet. Placement is deterministic for a given
// rng state. Returns an error when the classes cannot legally fit the
// grid, which only happens with oversized fleets or tiny grids.
func RandomFleet(rng *rand.Rand, classes []ShipClass, gridSize int, allowTouching bool) (*Fleet, error) {
	for attempt := 0; attempt < fleetAttempts; attempt++ {
		ships, ok := tryPlaceAll(rng, classes, gridSize, allowTouching)
		if ok {
			return NewFleet(ships...), nil
		}
	}
	return nil, fmt.Errorf("battle: fleet of %d ships does not fit a %dx%d grid",
		len(classes), gridSize, gridSize)
}

// tryPlaceAll attempts one full placement pass, longest ships first.
func tryPlaceAll(rng *rand.Rand, classes []ShipClass, gridSize int, allowTouching bool) ([]*Ship, bool) {
	placed := make([]*Ship, 0, len(classes))

	for _, class := range classes {
		ship, ok := tryPlaceOne(rng, placed, class, gridSize, allowTouching)
		if !ok {
			return nil, false
		}
		placed = append(placed, ship)
	}
	return placed, true
}

func tryPlaceOne(rng *rand.Rand, placed []*Ship, class ShipClass, gridSize int, allowTouching bool) (*Ship, bool) {
	for i := 0; i < shipAttempts; i++ {
		o := Horizontal
		if rng.Intn(2) == 1 {
			o = Vertical
		}

		// Bow range keeps the whole ship inside the grid
		maxX, maxY := gridSize-class.Length, gridSize-1
		if o == Vertical {
			maxX, maxY = gridSize-1, gridSize-class.Length
		}
		if maxX < 0 || maxY < 0 {
			return nil, false // ship longer than the grid
		}

		bow := C(rng.Intn(maxX+1), rng.Intn(maxY+1))
		ship := NewShip(class.Name, bow, o, class.Length)
		if CanPlace(placed, ship.Cells(), gridSize, allowTouching) {
			return ship, true
		}
	}
	return nil, false
}
