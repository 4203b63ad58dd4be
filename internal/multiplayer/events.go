package multiplayer

import "github.com/vovakirdan/tui-armada/internal/core"

// SessionEvent is anything the coordinator pushes down to a session:
// lobby lifecycle, battle start and end, per-tick views.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent confirms a hosted lobby and carries the join code
// the host hands to their opponent.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a failed lobby operation. Message is fit
// for direct display.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent tells both players their lobby is full. The host
// always takes seat 1, the joiner seat 2.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent is sent when a player leaves the lobby before
// the battle starts.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// MatchStartedEvent is sent when the battle begins. Side tells the
// session which fleet it commands.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string // still shown in the battle header
}

func (MatchStartedEvent) sessionEvent() {}

// MatchEndedEvent is sent when the battle ends. Winner is NoPlayer
// when nobody won (lobby closed before the first shot).
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int // Hits landed by side 1
	Score2  int // Hits landed by side 2
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a battle ended.
type MatchEndReason int

const (
	// MatchEndReasonCompleted is the normal end: a fleet was destroyed.
	MatchEndReasonCompleted MatchEndReason = iota

	// MatchEndReasonConcede means a player struck their colors mid-battle.
	MatchEndReasonConcede

	// MatchEndReasonDisconnect means a session dropped mid-battle; the
	// remaining side wins by forfeit.
	MatchEndReasonDisconnect

	// MatchEndReasonCancelled means the battle was cancelled before it ended.
	MatchEndReasonCancelled

	// MatchEndReasonHostLeft and MatchEndReasonJoinerLeft cover lobby
	// breakups before the battle starts.
	MatchEndReasonHostLeft
	MatchEndReasonJoinerLeft
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Fleet destroyed"
	case MatchEndReasonConcede:
		return "Opponent conceded"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Battle cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonJoinerLeft:
		return "Opponent left"
	default:
		return "Unknown"
	}
}

// SnapshotEvent carries one side's view of the battle to its session.
// Each session receives its own view; enemy fleets never leave the
// server.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Side     PlayerID // The seat this view was built for
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// GameSnapshot is the marker interface for mode-specific view data
// carried inside a SnapshotEvent.
type GameSnapshot interface {
	IsGameSnapshot()
}

// CoordinatorMessage is anything a session sends up to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg opens a lobby for the given battle mode.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg asks for the open seat at the lobby with this code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg tears down a lobby the session hosts.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg gives back a seat taken with JoinLobbyMsg.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg concedes an active battle. The remaining side wins.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg forwards one tick of player input to a battle.
type PlayerInputMsg struct {
	MatchID  MatchID
	Player   PlayerID
	TickHint uint64 // client tick the input was captured on, when known
	Input    core.InputFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// ReadyForRematchMsg votes for a rematch once a battle has ended.
type ReadyForRematchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (ReadyForRematchMsg) coordinatorMessage() {}

// SessionDisconnectedMsg tells the coordinator a session's transport
// dropped. Mid-battle this forfeits to the remaining player.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
