package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/registry"
	"github.com/vovakirdan/tui-armada/internal/storage"
)

// TickMsg is sent on every frame of the fixed-rate game loop.
type TickMsg time.Time

// tickCmd schedules the next frame. A tick rate under 1 is treated as 1.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(max(1, tickRate))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// battleReport is implemented by games that can summarize a finished
// battle for the records table.
type battleReport interface {
	Winner() core.PlayerID
	Score1() int
	ShotsFired(p core.PlayerID) int
}

// Model is the Bubble Tea model for running a local battle.
type Model struct {
	game        registry.Game
	screen      *core.Screen
	store       *storage.Store
	config      core.RuntimeConfig
	inputFrame  core.InputFrame
	gameState   core.GameState
	bell        *CueBell
	quitting    bool
	resultSaved bool // Whether the result has been saved for current game over
}

// NewModel wraps a game in the local Bubble Tea model.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Zero seed means deal from the clock
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		bell:       NewCueBell(nil),
	}
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// gameState catches up on the first tick; Init runs on a copy of
	// the model, so anything written here to m itself is lost

	return tickCmd(m.config.TickRate)
}

// Update dispatches input, resize, and tick messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit and screenshot work in any phase
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	switch msg.String() {
	case "w", "up":
		m.inputFrame.Set(core.ActionUp)
	case "s", "down":
		m.inputFrame.Set(core.ActionDown)
	case "a", "left":
		m.inputFrame.Set(core.ActionLeft)
	case "d", "right":
		m.inputFrame.Set(core.ActionRight)
	case " ", "f":
		m.inputFrame.Set(core.ActionFire)
	case "h":
		m.inputFrame.Set(core.ActionShuffle)
	case "enter":
		m.inputFrame.Set(core.ActionConfirm)
	case "p", "esc":
		m.inputFrame.Set(core.ActionPause)
	case "r":
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	}

	return m, nil
}

// handleMouse forwards left-button presses to the game as clicks.
// The game decides which cell, if any, lies under the pointer.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.inputFrame.SetClick(msg.X, msg.Y)
	}
	return m, nil
}

// handleResize processes window resize events. The battle itself is
// untouched; games re-center their boards from the screen buffer.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick runs one simulation step and schedules the next frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// A restart after game over reseeds, so the fleets land differently
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.resultSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.bell.Ring(result.Cues)

	// Save the battle outcome on game over (once)
	if m.gameState.GameOver && !m.resultSaved {
		if rep, ok := m.game.(battleReport); ok && m.store != nil && rep.Winner() != core.NoPlayer {
			//nolint:errcheck // a failed save never stops the battle
			m.store.SaveBattle(m.game.ID(), rep.Winner() == core.Player1,
				rep.Score1(), rep.ShotsFired(core.Player1))
		}
		m.resultSaved = true
	}

	// The frame is consumed; the next one starts empty
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot dumps the board as plain text under
// ~/.armada/screenshots. Never interrupts the battle; failures are
// silently dropped.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".armada", "screenshots")
	//nolint:errcheck
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View draws the game into the screen buffer and styles it for the
// terminal.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run owns the Bubble Tea program for one local battle.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // click-to-fire
	)

	_, err := p.Run()
	return err
}
