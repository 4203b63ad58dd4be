package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-armada/internal/battle"
	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/multiplayer"
)

// battleForGame maps a registry game ID to a fresh two-player battle.
// Unknown IDs fall back to the classic rules; a mirror built that way
// corrects itself from the first snapshot, which carries the real mode.
func battleForGame(gameID string) *battle.Game {
	if gameID == "battle_streak" {
		return battle.NewOnline(battle.ModeStreak)
	}
	return battle.NewOnline(battle.ModeClassic)
}

// onlineGameFactory builds authoritative battles for the coordinator.
// The match loop never resets games itself, so the factory hands back
// an instance with both fleets already placed and awaiting confirmation.
func onlineGameFactory(gameID string, cfg core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	game := battleForGame(gameID)
	game.Reset(cfg)
	return game, nil
}

// OnlineState tracks where in the host/join flow a session is.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // picking host or join
	OnlineStateHostWaiting                      // code on screen, second seat empty
	OnlineStateJoinEnterCode                    // typing a code
	OnlineStateJoinWaiting                      // code sent, no reply yet
	OnlineStateMatchStarting                    // seats assigned, battle about to begin
	OnlineStateInMatch                          // battle under way
	OnlineStateMatchEnded                       // result on screen
)

// OnlineLobbyModel walks one session through hosting or joining a
// battle, up to the point where OnlineBattleModel takes over.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	keyMapper   *KeyMapper
	gameID      string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	// Hosting
	lobbyCode string

	// Joining
	joinCodeInput string
	joinError     string

	// Seat assignment once matched
	matchID    multiplayer.MatchID
	side       core.PlayerID
	opponentID multiplayer.SessionID

	// How the flow exited
	backToMenu bool
	cancelled  bool
	quitting   bool

	// Coordinator push channel, shared with the battle model
	eventChan <-chan multiplayer.SessionEvent
}

// NewOnlineLobbyModel starts the flow at the host-or-join choice.
func NewOnlineLobbyModel(
	gameID string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(),
		gameID:      gameID,
		sessionID:   sessionID,
		coordinator: coordinator,
		eventChan:   eventChan,
	}
}

// Init arms the first event wait.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent blocks on the next coordinator event as a command.
// At most one of these may be outstanding per session; handlers that
// hand control to another model must not re-arm.
func (m OnlineLobbyModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update feeds keys and coordinator events through the flow.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
		return m, m.waitForEvent()
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		m.opponentID = msg.OpponentID
		return m, m.waitForEvent()
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
		return m, m.waitForEvent()
	case multiplayer.LobbyPlayerLeftEvent:
		// Joiner backed out; keep hosting
		return m, m.waitForEvent()
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.state = OnlineStateInMatch
		return m, nil // The battle model takes over the event channel
	case multiplayer.MatchEndedEvent:
		m.state = OnlineStateMatchEnded
		return m, nil
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Ctrl+C quits from any state
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}

	return m, nil
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "h", "H", "1":
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
		return m, m.waitForEvent()
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		// The lobby comes down with the host
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.cancelled = true
		m.backToMenu = true
		return m, nil
	case "q":
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
			return m, m.waitForEvent()
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Codes are uppercase letters and digits; anything else is ignored
		if len(key) == 1 && len(m.joinCodeInput) < 6 {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		// Give the seat back and return to the code prompt
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.joinCodeInput,
		})
		m.state = OnlineStateJoinEnterCode
		return m, nil
	}

	return m, nil
}

// View draws whichever screen the flow is on.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	switch m.state {
	case OnlineStateChooseMode:
		b.WriteString(m.viewChooseMode())
	case OnlineStateHostWaiting:
		b.WriteString(m.viewHostWaiting())
	case OnlineStateJoinEnterCode:
		b.WriteString(m.viewJoinEnterCode())
	case OnlineStateJoinWaiting:
		b.WriteString(m.viewJoinWaiting())
	case OnlineStateMatchStarting:
		b.WriteString(m.viewMatchStarting())
	}

	return b.String()
}

func (m OnlineLobbyModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ONLINE BATTLE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose an option:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a battle", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a battle", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING BATTLE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for an opponent...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN BATTLE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the battle code:", m.width))
	b.WriteString("\n\n")

	// Underscore cursor marks the next slot
	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < 6 {
		codeDisplay += "_"
		codeDisplay += strings.Repeat(" ", 5-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.joinError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining battle: %s", m.joinCodeInput), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewMatchStarting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("MATCH STARTING", m.width))
	b.WriteString("\n\n")

	sideText := "Player 1 - you fire first"
	if m.side == core.Player2 {
		sideText = "Player 2 - the enemy fires first"
	}
	b.WriteString(centerText(fmt.Sprintf("You are: %s", sideText), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Get ready!", m.width))

	return b.String()
}

// State reports where in the flow the model stopped.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu reports that the player backed out to the menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports that the player closed the whole session.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID is the started match, or zero when none started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side is the seat this session was dealt.
func (m OnlineLobbyModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode is the code this session hosted under.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// OnlineBattleModel mirrors a server-side battle for one seat. It never
// steps the game locally: every change of state arrives as a snapshot
// and every key press goes back through the coordinator. Pointer aim
// stays a local-play feature; screen coordinates from this terminal
// mean nothing on the authoritative board.
type OnlineBattleModel struct {
	game        *battle.Game
	screen      *core.Screen
	keyMapper   *KeyMapper
	coordinator *multiplayer.Coordinator
	sessionID   multiplayer.SessionID
	matchID     multiplayer.MatchID
	side        core.PlayerID
	eventChan   <-chan multiplayer.SessionEvent

	// tick is the last snapshot tick, echoed back as an input hint.
	tick uint64

	synced bool
	ended  bool
	result multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineBattleModel creates the client mirror for one match seat.
// The mirror starts from a throwaway local reset; the first snapshot
// replaces everything, including the mode if the host picked another.
func NewOnlineBattleModel(
	gameID string,
	sessionID multiplayer.SessionID,
	matchID multiplayer.MatchID,
	side core.PlayerID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	cfg core.RuntimeConfig,
) OnlineBattleModel {
	game := battleForGame(gameID)
	game.Reset(cfg)
	return OnlineBattleModel{
		game:        game,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		keyMapper:   NewKeyMapper(),
		coordinator: coordinator,
		sessionID:   sessionID,
		matchID:     matchID,
		side:        side,
		eventChan:   eventChan,
	}
}

// Init starts listening for snapshots.
func (m OnlineBattleModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m OnlineBattleModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update applies snapshots and forwards key presses upstream.
func (m OnlineBattleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case multiplayer.SnapshotEvent:
		if view, ok := msg.Snapshot.(battle.BattleView); ok {
			m.game.ApplyView(view)
			m.tick = msg.Tick
			m.synced = true
		}
		return m, m.waitForEvent()
	case multiplayer.MatchEndedEvent:
		m.ended = true
		m.result = msg
		// Stop pumping: the next lobby model takes the channel back
		return m, nil
	case multiplayer.SessionEvent:
		// Stray lobby events must not stall the snapshot pump
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m OnlineBattleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.leaveMatch()
		m.quitting = true
		return m, tea.Quit
	}

	if m.ended {
		switch key {
		case "enter", " ", "b", "esc", "q":
			m.backToMenu = true
		}
		return m, nil
	}

	// Leaving mid-battle concedes for both sides. Esc is deliberately
	// not bound here so a stray press cannot throw the match.
	if key == "q" {
		m.leaveMatch()
		m.backToMenu = true
		return m, nil
	}

	var frame core.InputFrame
	m.keyMapper.MapKeyToFrame(msg, &frame)
	if !frame.Empty() {
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.side,
			TickHint: m.tick,
			Input:    frame,
		})
	}
	return m, nil
}

func (m OnlineBattleModel) leaveMatch() {
	m.coordinator.Send(multiplayer.LeaveMatchMsg{
		SessionID: m.sessionID,
		MatchID:   m.matchID,
	})
}

// View renders the mirrored battle.
func (m OnlineBattleModel) View() string {
	if m.quitting {
		return ""
	}

	if !m.synced {
		m.screen.Clear()
		m.screen.DrawTextCentered(m.screen.Height()/2, "Waiting for the first frame...")
		return RenderScreen(m.screen)
	}

	m.game.Render(m.screen)

	if m.ended {
		summary := m.result.Reason.String()
		if m.result.Winner != core.NoPlayer {
			summary = fmt.Sprintf("%s  %d : %d", summary, m.result.Score1, m.result.Score2)
		}
		m.screen.DrawTextCenteredColored(m.screen.Height()-2, summary, core.ColorBrightYellow)
		m.screen.DrawTextCentered(m.screen.Height()-1, "Enter: Back to menu")
	}

	return RenderScreen(m.screen)
}

// BackToMenu returns true once the player is done with the match.
func (m OnlineBattleModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the player closed the session.
func (m OnlineBattleModel) IsQuitting() bool {
	return m.quitting
}
