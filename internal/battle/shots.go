package battle

// ShotMark is the recorded outcome of one shot on a grid cell.
// MarkSunk replaces MarkHit on every cell of a ship once it goes down,
// so shot boards can show dead ships differently from live wounds.
type ShotMark uint8

const (
	MarkNone ShotMark = iota
	MarkMiss
	MarkHit
	MarkSunk
)

// String returns a human-readable name for the mark.
func (m ShotMark) String() string {
	switch m {
	case MarkMiss:
		return "Miss"
	case MarkHit:
		return "Hit"
	case MarkSunk:
		return "Sunk"
	default:
		return "None"
	}
}

// HitResult is the outcome of resolving a single shot.
type HitResult int

const (
	// Miss means the shot landed on open water.
	Miss HitResult = iota

	// Hit means the shot damaged a ship that is still afloat.
	Hit

	// HitAndSunk means the shot put down a ship, with others remaining.
	HitAndSunk

	// GameOver means the shot sank the last ship of the fleet.
	GameOver
)

// String returns a human-readable name for the result.
func (r HitResult) String() string {
	switch r {
	case Miss:
		return "Miss"
	case Hit:
		return "Hit"
	case HitAndSunk:
		return "Hit and sunk"
	case GameOver:
		return "Game over"
	default:
		return "Unknown"
	}
}
