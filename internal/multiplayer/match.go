package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-armada/internal/core"
)

// OnlineGame is the interface battle modes must implement to run under
// the match loop. It extends the basic mode interface with input from
// both sides and per-seat state views.
type OnlineGame interface {
	// Reset deals a fresh battle from the config's seed.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances one tick under both seats' input.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns Player 1's view of the battle.
	Snapshot() GameSnapshot

	// SnapshotFor returns one side's view for network transmission.
	// A view must never reveal where the opponent's intact ships sit.
	SnapshotFor(player PlayerID) GameSnapshot

	// IsGameOver returns true once a fleet is destroyed.
	IsGameOver() bool

	// Winner is the winning player, or NoPlayer while the battle runs.
	Winner() PlayerID

	// Score1 is the hits landed by Player 1.
	Score1() int

	// Score2 is the hits landed by Player 2.
	Score2() int
}

// MatchResult is how a match ended: who won, why, and the final tallies.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
}

// OnlineMatch runs one authoritative battle between two sessions.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	game   OnlineGame

	player1Session SessionHandle
	player2Session SessionHandle

	// Per-seat input, merged from the channel each tick
	inputMu    sync.Mutex
	lastInput1 core.InputFrame
	lastInput2 core.InputFrame
	inputChan  chan playerInput

	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	// Concede and disconnect handling
	departChan chan departure
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// departure is a player leaving a live battle, either on purpose or by
// losing the connection. Both forfeit; only the recorded reason differs.
type departure struct {
	session SessionID
	reason  MatchEndReason
}

// NewOnlineMatch seats two sessions at a battle. Run starts the loop.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	game OnlineGame,
	p1Session, p2Session SessionHandle,
	tickRate int,
) *OnlineMatch {
	return &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		game:           game,
		player1Session: p1Session,
		player2Session: p2Session,
		lastInput1:     core.NewInputFrame(),
		lastInput2:     core.NewInputFrame(),
		inputChan:      make(chan playerInput, 64),
		tick:           0,
		tickRate:       tickRate,
		done:           make(chan struct{}),
		departChan:     make(chan departure, 2),
	}
}

// ID identifies the match.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code is the join code the lobby was opened with.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID names the mode being played.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// SendInput queues one seat's input without blocking. Under a full
// buffer the frame is dropped; the next tick's input supersedes it.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
	}
}

// PlayerDisconnected signals that a player's session dropped.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	m.depart(departure{session: sessionID, reason: MatchEndReasonDisconnect})
}

// Concede signals that a player gave up the battle on purpose.
func (m *OnlineMatch) Concede(sessionID SessionID) {
	m.depart(departure{session: sessionID, reason: MatchEndReasonConcede})
}

func (m *OnlineMatch) depart(dep departure) {
	select {
	case m.departChan <- dep:
	default:
	}
}

// Run drives the authoritative battle loop: drain inputs, step the
// game, push per-seat views, until a fleet falls or a player departs.
// The callback is called once with the final result.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer func() {
		m.doneOnce.Do(func() {
			close(m.done)
		})
	}()

	tickDuration := time.Second / time.Duration(m.tickRate)
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	go m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			result, done := m.runTick()
			if done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case dep := <-m.departChan:
			result := m.forfeitResult(dep)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	// Hand each seat's accumulated input to this tick, then start both
	// accumulators empty for the next one
	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	multiInput.SetPlayer(Player1, m.lastInput1.Clone())
	multiInput.SetPlayer(Player2, m.lastInput2.Clone())
	m.lastInput1.Clear()
	m.lastInput2.Clear()
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	// Each session gets its own view; enemy fleets stay server-side
	m.player1Session.Send(SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Side:     Player1,
		Snapshot: m.game.SnapshotFor(Player1),
	})
	m.player2Session.Send(SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Side:     Player2,
		Snapshot: m.game.SnapshotFor(Player2),
	})

	if m.game.IsGameOver() {
		return MatchResult{
			MatchID: m.id,
			Reason:  MatchEndReasonCompleted,
			Winner:  m.game.Winner(),
			Score1:  m.game.Score1(),
			Score2:  m.game.Score2(),
			Ticks:   m.tick,
		}, true
	}

	return MatchResult{}, false
}

func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			dst := &m.lastInput1
			if pi.player == Player2 {
				dst = &m.lastInput2
			}
			// Merge actions (OR together) and keep the latest click
			for action, pressed := range pi.input.Actions {
				if pressed {
					dst.Set(action)
				}
			}
			if pi.input.Click != nil {
				dst.SetClick(pi.input.Click.X, pi.input.Click.Y)
			}
		default:
			return
		}
	}
}

func (m *OnlineMatch) forfeitResult(dep departure) MatchResult {
	// The side that stayed wins by forfeit
	winner := Player1
	if dep.session == m.player1Session.ID() {
		winner = Player2
	}

	return MatchResult{
		MatchID: m.id,
		Reason:  dep.reason,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		m.PlayerDisconnected(m.player1Session.ID())
	case <-m.player2Session.Done():
		m.PlayerDisconnected(m.player2Session.ID())
	case <-m.done:
	}
}

// Stop ends the match loop without producing a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
