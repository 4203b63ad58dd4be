package battle

import "math/rand"

// TargetView is everything a gunner may know about the enemy grid when
// aiming: the grid size and the marks left by its own previous shots.
// Ship positions are never exposed.
type TargetView struct {
	GridSize int
	Shots    map[Coord]ShotMark
}

// Mark returns the recorded mark for a cell, MarkNone if unshot.
func (v TargetView) Mark(c Coord) ShotMark {
	return v.Shots[c]
}

// Unshot returns all cells not yet fired at, in row-major order.
// The fixed order keeps CPU aiming deterministic for a given seed.
func (v TargetView) Unshot() []Coord {
	cells := make([]Coord, 0, v.GridSize*v.GridSize)
	for y := 0; y < v.GridSize; y++ {
		for x := 0; x < v.GridSize; x++ {
			c := C(x, y)
			if v.Mark(c) == MarkNone {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// wounds returns cells marked as hits on ships still afloat, in
// row-major order. Sunk ships are excluded; there is nothing left to
// chase around them.
func (v TargetView) wounds() []Coord {
	cells := make([]Coord, 0, 4)
	for y := 0; y < v.GridSize; y++ {
		for x := 0; x < v.GridSize; x++ {
			c := C(x, y)
			if v.Mark(c) == MarkHit {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// Gunner picks target cells for a CPU-controlled side.
// Aim must return a cell that has not been shot while unshot cells
// remain; the game fires exactly one shot per call.
type Gunner interface {
	Aim(rng *rand.Rand, view TargetView) Coord
}

// RandomGunner fires at a uniformly random unshot cell. The easiest
// opponent: it never follows up on its own hits.
type RandomGunner struct{}

// Aim picks a random unshot cell.
func (RandomGunner) Aim(rng *rand.Rand, view TargetView) Coord {
	cells := view.Unshot()
	if len(cells) == 0 {
		return C(0, 0)
	}
	return cells[rng.Intn(len(cells))]
}

// HuntGunner searches randomly until it wounds a ship, then chases the
// wound: it fires at neighboring cells, and once two hits line up it
// extends the line from both ends. With Parity set, search shots only
// land on a checkerboard pattern, which cannot miss any ship of length
// two or more.
type HuntGunner struct {
	Parity bool
}

// Aim picks the next target, preferring follow-ups on open wounds.
func (h HuntGunner) Aim(rng *rand.Rand, view TargetView) Coord {
	if c, ok := h.chase(rng, view); ok {
		return c
	}
	return h.search(rng, view)
}

// chase aims around existing wounds. Returns false when no wound has an
// open follow-up cell.
func (h HuntGunner) chase(rng *rand.Rand, view TargetView) (Coord, bool) {
	wounds := view.wounds()
	if len(wounds) == 0 {
		return Coord{}, false
	}

	candidates := h.lineExtensions(wounds, view)
	if len(candidates) == 0 {
		// Single wound or broken line: try all fresh neighbors
		for _, w := range wounds {
			for _, n := range w.Neighbors() {
				if n.In(view.GridSize) && view.Mark(n) == MarkNone {
					candidates = append(candidates, n)
				}
			}
		}
	}
	if len(candidates) == 0 {
		return Coord{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// lineExtensions finds unshot cells extending a straight run of two or
// more wounds. Once the ship's axis is known there is no point shooting
// beside the line.
func (h HuntGunner) lineExtensions(wounds []Coord, view TargetView) []Coord {
	var candidates []Coord
	for _, w := range wounds {
		for _, d := range [2][2]int{{1, 0}, {0, 1}} {
			next := w.Add(d[0], d[1])
			if view.Mark(next) != MarkHit {
				continue
			}
			// Found a run along this axis; walk to both ends
			for _, dir := range [2][2]int{{d[0], d[1]}, {-d[0], -d[1]}} {
				c := w
				for view.Mark(c) == MarkHit {
					c = c.Add(dir[0], dir[1])
				}
				if c.In(view.GridSize) && view.Mark(c) == MarkNone {
					candidates = append(candidates, c)
				}
			}
		}
	}
	return candidates
}

// search picks a fresh cell when there are no wounds to chase.
func (h HuntGunner) search(rng *rand.Rand, view TargetView) Coord {
	cells := view.Unshot()
	if len(cells) == 0 {
		return C(0, 0)
	}

	if h.Parity {
		parity := make([]Coord, 0, len(cells)/2+1)
		for _, c := range cells {
			if (c.X+c.Y)%2 == 0 {
				parity = append(parity, c)
			}
		}
		if len(parity) > 0 {
			return parity[rng.Intn(len(parity))]
		}
	}
	return cells[rng.Intn(len(cells))]
}
