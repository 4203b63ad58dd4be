package core

// PlayerID identifies one side of a match. Used by games to key per-player
// input and state, and by the multiplayer layer to route sessions.
type PlayerID int

const (
	NoPlayer PlayerID = 0
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// Opponent returns the other side of a two-player match.
// Returns NoPlayer for anything that is not Player1 or Player2.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

// Valid returns true if the ID names an actual player.
func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// String returns a human-readable name for the player.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "No Player"
	}
}
