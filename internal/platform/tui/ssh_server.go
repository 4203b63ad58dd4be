// Package tui is the Bubble Tea front end: the menu flow, local and
// online battles, and the Wish SSH server that hosts them remotely.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-armada/internal/battle"
	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/multiplayer"
	"github.com/vovakirdan/tui-armada/internal/registry"
	"github.com/vovakirdan/tui-armada/internal/storage"
)

// sessionEventBuffer is how many coordinator events can queue per
// session before the oldest is dropped.
const sessionEventBuffer = 64

// contextKey carries the coordinator session handle through the SSH
// context between middleware and the Bubble Tea handler.
type contextKey string

const sessionContextKey contextKey = "armada-session"

// SSHServerConfig configures the listener, host key, and storage.
type SSHServerConfig struct {
	// Address is the listen address in host:port form (":23234").
	Address string

	// HostKeyPath locates the server's host key. When empty a key is
	// generated at ~/.armada/host_key on first start.
	HostKeyPath string

	// DBPath is the path to the battle results database.
	DBPath string

	// IdleTimeout closes connections that stay silent this long.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig listens on :23234 with a 30 minute idle timeout.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.armada/battles.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the armada. Every connection
// gets a coordinator session, so any two players on the same server
// can pair up for an online battle.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// NewSSHServer wires storage, the coordinator, and the Wish
// middleware chain. Call ListenAndServe to start accepting players.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "armada-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open battle database", "error", err)
		// The server runs on; battles go unrecorded
	}

	sessions := multiplayer.NewSessionRegistry()
	coordinator := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), onlineGameFactory, sessions)
	coordinator.SetLogger(log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "armada-coord",
	}))
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".armada", "host_key")
	}

	// The key directory may not exist on first start
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler builds the per-connection Bubble Tea program.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// The PTY window is the screen
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	// The session handle was registered by sessionMiddleware
	sess, _ := sshSession.Context().Value(sessionContextKey).(*multiplayer.ChannelSession)

	// Cue bells go straight to the session; BEL does not disturb the frame
	model := NewSessionModel(s.store, s.coordinator, sess, cfg, sshSession.User(), NewCueBell(sshSession))

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		// Enable click-to-fire in local battles
		tea.WithMouseCellMotion(),
	}
}

// sessionMiddleware gives each connection a coordinator session and
// tears it down when the connection ends. It sits outside the Bubble
// Tea middleware so the handle exists before the program starts.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
		sess := multiplayer.NewChannelSession(id, sessionEventBuffer)
		s.sessions.Register(sess)
		sshSession.Context().SetValue(sessionContextKey, sess)

		next(sshSession)

		// Lets the coordinator resolve any lobby or match the player
		// was still part of
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		s.sessions.Unregister(id)
		sess.Close()
	}
}

// loggingMiddleware records connects and disconnects.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops the coordinator, closes storage, and drains the listener.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr reports the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionState tracks which screen an SSH session is on.
type sessionState int

const (
	sessionStateMenu sessionState = iota
	sessionStateSetup
	sessionStateLog
	sessionStateLobby
	sessionStateBattle
	sessionStateOnline
)

// SessionModel manages the full session flow: menu, opponent setup,
// battle and back. This is the top-level model used for SSH sessions.
type SessionModel struct {
	store       *storage.Store
	coordinator *multiplayer.Coordinator
	session     *multiplayer.ChannelSession
	config      core.RuntimeConfig
	username    string
	sessionID   multiplayer.SessionID
	bell        *CueBell

	state     sessionState
	menu      MenuModel
	setup     BattleSetupModel
	battleLog BattleLogModel
	lobby     OnlineLobbyModel
	game      *GameModel
	online    *OnlineBattleModel

	// pendingGameID carries the menu choice through the setup screen.
	pendingGameID string

	quitting bool
}

// NewSessionModel creates a new session model. The session handle may
// be nil, in which case online play is not offered.
func NewSessionModel(
	store *storage.Store,
	coordinator *multiplayer.Coordinator,
	session *multiplayer.ChannelSession,
	cfg core.RuntimeConfig,
	username string,
	bell *CueBell,
) SessionModel {
	sessionID := multiplayer.SessionID(fmt.Sprintf("%s-%d", username, time.Now().UnixNano()))
	if session != nil {
		sessionID = session.ID()
	}

	return SessionModel{
		store:       store,
		coordinator: coordinator,
		session:     session,
		config:      cfg,
		username:    username,
		sessionID:   sessionID,
		bell:        bell,
		menu:        NewMenuModel(store, cfg),
	}
}

// Init opens on the menu.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to whichever screen is active.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Resizes matter to every screen, not just the active one
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case sessionStateSetup:
		return m.updateSetup(msg)
	case sessionStateLog:
		return m.updateLog(msg)
	case sessionStateLobby:
		return m.updateLobby(msg)
	case sessionStateBattle:
		return m.updateBattle(msg)
	case sessionStateOnline:
		return m.updateOnline(msg)
	default:
		return m.updateMenu(msg)
	}
}

// toMenu drops any finished child model and returns to a fresh menu.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.game = nil
	m.online = nil
	m.state = sessionStateMenu
	m.menu = NewMenuModel(m.store, m.config)
	return m, m.menu.Init()
}

// updateMenu drives the menu until the player picks something.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsBattleLog() {
		m.battleLog = NewBattleLogModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.state = sessionStateLog
		return m, m.battleLog.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.pendingGameID = selected.GameID
		m.config = m.menu.Config() // the menu tracked any resizes

		// Online play needs a live coordinator session
		allowOnline := m.coordinator != nil && m.session != nil
		m.setup = NewBattleSetupModel(selected.Title, m.config.ScreenW, m.config.ScreenH, allowOnline)
		m.state = sessionStateSetup
		return m, m.setup.Init()
	}

	return m, cmd
}

// updateSetup handles the opponent selection screen.
func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSetup, cmd := m.setup.Update(msg)
	if setupModel, ok := newSetup.(BattleSetupModel); ok {
		m.setup = setupModel
	}

	if m.setup.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.setup.WantsBack() {
		return m.toMenu()
	}

	sel := m.setup.Selected()
	if sel == nil {
		return m, cmd
	}

	if sel.Mode == multiplayer.MatchModeOnlinePvP {
		m.lobby = NewOnlineLobbyModel(
			m.pendingGameID,
			m.sessionID,
			m.coordinator,
			m.session.Events(),
			m.config.ScreenW,
			m.config.ScreenH,
		)
		m.state = sessionStateLobby
		return m, m.lobby.Init()
	}

	game, err := registry.Create(m.pendingGameID)
	if err != nil {
		// Shouldn't happen since menu only shows registered games
		return m.toMenu()
	}
	if bg, ok := game.(*battle.Game); ok && sel.Skill != "" {
		bg.SetSkillOverride(sel.Skill)
	}

	// Local battles get a match record too; the battle log reads it
	match := multiplayer.NewMatch(
		multiplayer.MatchID(fmt.Sprintf("match-%d", time.Now().UnixNano())),
		sel.Mode,
		m.sessionID,
	)

	gameModel := NewGameModel(game, m.store, m.config, match, m.bell)
	m.game = &gameModel
	m.state = sessionStateBattle
	return m, m.game.Init()
}

// updateLog handles the battle log screen.
func (m SessionModel) updateLog(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLog, cmd := m.battleLog.Update(msg)
	if logModel, ok := newLog.(BattleLogModel); ok {
		m.battleLog = logModel
	}

	if m.battleLog.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.battleLog.IsGoingBack() {
		return m.toMenu()
	}

	return m, cmd
}

// updateLobby handles the online matchmaking screens.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLobby, cmd := m.lobby.Update(msg)
	if lobbyModel, ok := newLobby.(OnlineLobbyModel); ok {
		m.lobby = lobbyModel
	}

	if m.lobby.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.lobby.BackToMenu() {
		return m.toMenu()
	}

	if m.lobby.State() == OnlineStateInMatch {
		online := NewOnlineBattleModel(
			m.pendingGameID,
			m.sessionID,
			m.lobby.MatchID(),
			m.lobby.Side(),
			m.coordinator,
			m.session.Events(),
			m.config,
		)
		m.online = &online
		m.state = sessionStateOnline
		return m, m.online.Init()
	}

	return m, cmd
}

// updateOnline handles an online battle in progress.
func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.online.Update(msg)
	if onlineModel, ok := newModel.(OnlineBattleModel); ok {
		m.online = &onlineModel
	}

	if m.online.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.online.BackToMenu() {
		return m.toMenu()
	}

	return m, cmd
}

// updateBattle handles a local battle in progress.
func (m SessionModel) updateBattle(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.BackToMenu() {
		return m.toMenu()
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View draws the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case sessionStateSetup:
		return m.setup.View()
	case sessionStateLog:
		return m.battleLog.View()
	case sessionStateLobby:
		return m.lobby.View()
	case sessionStateBattle:
		if m.game != nil {
			return m.game.View()
		}
	case sessionStateOnline:
		if m.online != nil {
			return m.online.View()
		}
	}

	return m.menu.View()
}

// GameModel runs one local battle inside an SSH session.
type GameModel struct {
	game        registry.Game
	screen      *core.Screen
	store       *storage.Store
	config      core.RuntimeConfig
	match       multiplayer.MatchHandle
	inputFrame  core.MultiInputFrame
	gameState   core.GameState
	keyMapper   *KeyMapper
	bell        *CueBell
	quitting    bool
	backToMenu  bool
	resultSaved bool
}

// NewGameModel builds the model for one local battle. match gives the
// battle its identity in the log; a nil handle means an untracked game.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, match multiplayer.MatchHandle, bell *CueBell) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		match:      match,
		inputFrame: core.NewMultiInputFrame(),
		keyMapper:  NewKeyMapper(),
		bell:       bell,
	}
}

// Init deals the fleets and schedules the first tick.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update feeds input and ticks to the battle.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.keyMapper.MapMouseToMultiFrame(msg, &m.inputFrame)
		return m, nil
	case tea.WindowSizeMsg:
		// The battle re-centers itself at render time
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works in any phase
	if m.keyMapper.MapKeyToMultiFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// B or Esc leaves for the menu, but only paused or after game over
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// handleTick advances the battle one frame.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	// A rematch reseeds, so the fleets land differently
	p1Input := m.inputFrame.Player1()
	if p1Input.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.resultSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Run the battle with Player1 input; the CPU side acts inside Step
	result := m.game.Step(p1Input)
	m.gameState = result.State
	m.bell.Ring(result.Cues)

	// Save the result once per battle
	if m.gameState.GameOver && !m.resultSaved {
		m.saveResult()
		m.resultSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveResult records a finished battle. Online results are written by
// the coordinator; this path only covers local matches. A game over
// with no winner means placement failed, which is not worth a row.
func (m GameModel) saveResult() {
	if m.store == nil {
		return
	}
	if m.match != nil && m.match.Mode() != multiplayer.MatchModeVsCPU {
		return
	}
	rep, ok := m.game.(battleReport)
	if !ok || rep.Winner() == core.NoPlayer {
		return
	}
	//nolint:errcheck // Best-effort save
	m.store.SaveBattle(m.game.ID(), rep.Winner() == core.Player1, rep.Score1(), rep.ShotsFired(core.Player1))
}

// View draws the battle.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports the player closed the whole session.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports the player left the battle for the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
