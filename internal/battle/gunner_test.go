package battle

import (
	"math/rand"
	"testing"
)

func emptyView(gridSize int) TargetView {
	return TargetView{GridSize: gridSize, Shots: make(map[Coord]ShotMark)}
}

func TestRandomGunnerNeverRepeats(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	view := emptyView(5)
	gunner := RandomGunner{}

	for i := 0; i < 25; i++ {
		c := gunner.Aim(rng, view)
		if view.Mark(c) != MarkNone {
			t.Fatalf("Shot %d repeated cell %v", i, c)
		}
		view.Shots[c] = MarkMiss
	}

	if len(view.Unshot()) != 0 {
		t.Errorf("25 shots should exhaust a 5x5 grid, %d cells left", len(view.Unshot()))
	}
}

func TestHuntGunnerNeverRepeats(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	view := emptyView(5)
	gunner := HuntGunner{Parity: true}

	// Scatter some wounds so the chase path is exercised too
	marks := []ShotMark{MarkMiss, MarkMiss, MarkHit, MarkMiss}
	for i := 0; i < 25; i++ {
		c := gunner.Aim(rng, view)
		if view.Mark(c) != MarkNone {
			t.Fatalf("Shot %d repeated cell %v", i, c)
		}
		view.Shots[c] = marks[i%len(marks)]
	}

	if len(view.Unshot()) != 0 {
		t.Errorf("25 shots should exhaust a 5x5 grid, %d cells left", len(view.Unshot()))
	}
}

func TestHuntGunnerChasesWound(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	view := emptyView(8)
	view.Shots[C(4, 4)] = MarkHit

	gunner := HuntGunner{}
	for i := 0; i < 10; i++ {
		c := gunner.Aim(rng, view)
		if !isNeighbor(c, C(4, 4)) {
			t.Fatalf("Aim after a lone wound should hit a neighbor, got %v", c)
		}
	}
}

func TestHuntGunnerExtendsLine(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	view := emptyView(8)
	view.Shots[C(3, 4)] = MarkHit
	view.Shots[C(4, 4)] = MarkHit

	gunner := HuntGunner{}
	for i := 0; i < 10; i++ {
		c := gunner.Aim(rng, view)
		if c != C(2, 4) && c != C(5, 4) {
			t.Fatalf("Two hits in a row should extend the line, got %v", c)
		}
	}
}

func TestHuntGunnerBlockedLineFallsBackToNeighbors(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	view := emptyView(8)

	// A horizontal run pinned against the left edge with a miss on the
	// right end: the only fresh follow-ups are perpendicular
	view.Shots[C(0, 0)] = MarkHit
	view.Shots[C(1, 0)] = MarkHit
	view.Shots[C(2, 0)] = MarkMiss

	gunner := HuntGunner{}
	for i := 0; i < 10; i++ {
		c := gunner.Aim(rng, view)
		if c != C(0, 1) && c != C(1, 1) {
			t.Fatalf("Blocked line should fall back to fresh neighbors, got %v", c)
		}
	}
}

func TestHuntGunnerIgnoresSunkWrecks(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	view := emptyView(8)
	view.Shots[C(2, 2)] = MarkSunk
	view.Shots[C(3, 2)] = MarkSunk

	gunner := HuntGunner{}
	c := gunner.Aim(rng, view)

	// No open wounds: this must be a search shot, not a chase around
	// the wreck
	if view.Mark(c) != MarkNone {
		t.Errorf("Search shot landed on a marked cell %v", c)
	}
}

func TestParitySearchSticksToCheckerboard(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	view := emptyView(8)
	gunner := HuntGunner{Parity: true}

	// First 20 search shots all land on the even checkerboard, which
	// still has cells left
	for i := 0; i < 20; i++ {
		c := gunner.Aim(rng, view)
		if (c.X+c.Y)%2 != 0 {
			t.Fatalf("Parity search left the checkerboard at %v", c)
		}
		view.Shots[c] = MarkMiss
	}
}

func isNeighbor(a, b Coord) bool {
	for _, n := range b.Neighbors() {
		if a == n {
			return true
		}
	}
	return false
}
