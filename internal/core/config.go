package core

// RuntimeConfig is what the platform hands a game at Reset: the screen
// it will draw into, the tick rate it runs at, and the seed that places
// the fleets. The same seed on the same config replays the same battle.
type RuntimeConfig struct {
	ScreenW  int   // columns
	ScreenH  int   // rows
	TickRate int   // simulation ticks per second
	Seed     int64 // fleet placement seed; 0 means seed from the clock
}

// DefaultConfig is a standard 80x24 terminal at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// GameState is what a game reports back to the platform each tick.
type GameState struct {
	Score    int  // hits landed so far
	GameOver bool
	Paused   bool
}

// Cue is a feedback event emitted by a game step. The platform decides how
// to present cues (terminal bell, flash); games only name what happened.
type Cue int

const (
	CueFire      Cue = iota // A shot was fired
	CueSplash               // The shot hit open water
	CueExplosion            // The shot hit a ship
	CueSunk                 // The shot sank a ship
	CueVictory              // The match ended in this side's favor
	CueDefeat               // The match ended against this side
)

// String names the cue for logs.
func (c Cue) String() string {
	switch c {
	case CueFire:
		return "Fire"
	case CueSplash:
		return "Splash"
	case CueExplosion:
		return "Explosion"
	case CueSunk:
		return "Sunk"
	case CueVictory:
		return "Victory"
	case CueDefeat:
		return "Defeat"
	default:
		return "Unknown"
	}
}

// StepResult is what one tick of Game.Step produced.
type StepResult struct {
	State GameState

	// Cues lists feedback events raised during this tick, in order.
	// Empty on ticks where nothing notable happened.
	Cues []Cue
}
