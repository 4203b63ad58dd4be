package battle

import "testing"

func TestCoordLabel(t *testing.T) {
	tests := []struct {
		coord Coord
		label string
	}{
		{C(0, 0), "A1"},
		{C(2, 4), "C5"},
		{C(7, 7), "H8"},
		{C(9, 11), "J12"},
	}

	for _, tt := range tests {
		if got := tt.coord.Label(); got != tt.label {
			t.Errorf("Label of %v should be %s, got %s", tt.coord, tt.label, got)
		}
	}
}

func TestCoordIn(t *testing.T) {
	if !C(0, 0).In(8) || !C(7, 7).In(8) {
		t.Error("Corners of an 8x8 grid should be inside")
	}
	if C(8, 0).In(8) || C(0, 8).In(8) || C(-1, 3).In(8) || C(3, -1).In(8) {
		t.Error("Cells past any edge should be outside")
	}
}

func TestNewShipCells(t *testing.T) {
	h := NewShip("Cruiser", C(2, 3), Horizontal, 3)
	want := []Coord{C(2, 3), C(3, 3), C(4, 3)}
	for i, c := range h.Cells() {
		if c != want[i] {
			t.Errorf("Horizontal cell %d should be %v, got %v", i, want[i], c)
		}
	}
	if !h.Horizontal() {
		t.Error("Ship built rightward should report horizontal")
	}

	v := NewShip("Cruiser", C(2, 3), Vertical, 3)
	want = []Coord{C(2, 3), C(2, 4), C(2, 5)}
	for i, c := range v.Cells() {
		if c != want[i] {
			t.Errorf("Vertical cell %d should be %v, got %v", i, want[i], c)
		}
	}
	if v.Horizontal() {
		t.Error("Ship built downward should report vertical")
	}

	if h.Bow() != C(2, 3) {
		t.Errorf("Bow should be the first cell, got %v", h.Bow())
	}
}

func TestShipDamageClamped(t *testing.T) {
	s := NewShip("Destroyer", C(0, 0), Horizontal, 2)

	if s.Sunk() {
		t.Fatal("Fresh ship should be afloat")
	}

	s.Hit()
	if s.Damage() != 1 || s.Sunk() {
		t.Errorf("One hit on a 2-cell ship: damage=%d sunk=%v", s.Damage(), s.Sunk())
	}

	s.Hit()
	if s.Damage() != 2 || !s.Sunk() {
		t.Errorf("Two hits should sink it: damage=%d sunk=%v", s.Damage(), s.Sunk())
	}

	// Extra hits never push damage past the hull
	for i := 0; i < 5; i++ {
		s.Hit()
	}
	if s.Damage() != 2 {
		t.Errorf("Damage should stay clamped at length, got %d", s.Damage())
	}
}

func TestFleetShipAt(t *testing.T) {
	destroyer := NewShip("Destroyer", C(2, 3), Horizontal, 2)
	sub := NewShip("Submarine", C(6, 6), Horizontal, 1)
	fleet := NewFleet(destroyer, sub)

	if fleet.ShipAt(C(0, 0)) != nil {
		t.Error("Open water should have no ship")
	}
	if fleet.ShipAt(C(3, 3)) != destroyer {
		t.Error("Cell (3,3) should belong to the destroyer")
	}
	if fleet.ShipAt(C(6, 6)) != sub {
		t.Error("Cell (6,6) should belong to the submarine")
	}
}

func TestFleetSinkingProgress(t *testing.T) {
	fleet := NewFleet(
		NewShip("Destroyer", C(0, 0), Horizontal, 2),
		NewShip("Submarine", C(4, 4), Horizontal, 1),
	)

	if fleet.Afloat() != 2 || fleet.AllSunk() {
		t.Fatalf("Fresh fleet: afloat=%d allSunk=%v", fleet.Afloat(), fleet.AllSunk())
	}
	if fleet.CellCount() != 3 {
		t.Errorf("Fleet should span 3 cells, got %d", fleet.CellCount())
	}

	fleet.ShipAt(C(0, 0)).Hit()
	fleet.ShipAt(C(1, 0)).Hit()
	if fleet.Afloat() != 1 {
		t.Errorf("One ship down: afloat=%d", fleet.Afloat())
	}
	if fleet.AllSunk() {
		t.Error("Fleet is not finished while the submarine floats")
	}

	fleet.ShipAt(C(4, 4)).Hit()
	if !fleet.AllSunk() {
		t.Error("Fleet should be finished once every ship is sunk")
	}
	if fleet.Damage() != 3 {
		t.Errorf("Total damage should be 3, got %d", fleet.Damage())
	}
}
