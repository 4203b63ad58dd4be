// Package multiplayer pairs sessions into battles and runs the
// authoritative match loop. Sides are identified by core.PlayerID; the
// coordinator owns lobbies and live matches, and games stay transport
// agnostic behind the OnlineGame interface.
package multiplayer

import "github.com/vovakirdan/tui-armada/internal/core"

// PlayerID aliases core.PlayerID so battle code never has to import this
// package. Player1 is the host or local player, Player2 the joiner or CPU.
type PlayerID = core.PlayerID

// The seat constants, re-exported under the alias.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID names one connected player, typically an SSH connection.
// The coordinator pairs sessions into matches by these IDs.
type SessionID string

// MatchID uniquely identifies one battle.
type MatchID string

// MatchMode defines who sits on the far side of the board.
type MatchMode int

const (
	// MatchModeVsCPU is a local battle against the CPU gunner.
	MatchModeVsCPU MatchMode = iota

	// MatchModeOnlinePvP pairs two sessions through the coordinator.
	MatchModeOnlinePvP
)

// String names the mode the way the battle log displays it.
func (m MatchMode) String() string {
	switch m {
	case MatchModeVsCPU:
		return "vs CPU"
	case MatchModeOnlinePvP:
		return "Online PvP"
	default:
		return "Unknown"
	}
}

// MatchHandle is the read-only view of a match that a game sees.
// Lifecycle stays with the coordinator; the game only learns its context.
type MatchHandle interface {
	// ID identifies the match.
	ID() MatchID

	// Mode says who the opponent is.
	Mode() MatchMode
}

// Match is the coordinator's record behind MatchHandle.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs holds the seated sessions, host first.
	// One entry for VsCPU, two for OnlinePvP.
	SessionIDs []SessionID
}

// NewMatch records a match over the given sessions.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// ID identifies the match.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode says who the opponent is.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions lists the seated session IDs, host first.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}
