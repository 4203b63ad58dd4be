package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/multiplayer"
)

// BattleSetup holds the user's selection from the battle setup screen.
type BattleSetup struct {
	Mode  multiplayer.MatchMode
	Skill string // CPU skill preset, empty for online matches
}

// setupOption is one row of the battle setup screen.
type setupOption struct {
	label string
	setup BattleSetup
}

// BattleSetupModel lets users choose the opponent for a battle: one of
// the CPU skill levels, or another player over the network.
type BattleSetupModel struct {
	title     string
	options   []setupOption
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selection BattleSetup
	choosing  bool
	quitting  bool
	back      bool
}

// NewBattleSetupModel creates a new battle setup model. Online play is
// only offered when the session runs on a server that can pair players.
func NewBattleSetupModel(title string, width, height int, allowOnline bool) BattleSetupModel {
	options := []setupOption{
		{"Vs CPU - Easy", BattleSetup{Mode: multiplayer.MatchModeVsCPU, Skill: "easy"}},
		{"Vs CPU - Normal", BattleSetup{Mode: multiplayer.MatchModeVsCPU, Skill: "normal"}},
		{"Vs CPU - Hard", BattleSetup{Mode: multiplayer.MatchModeVsCPU, Skill: "hard"}},
	}
	if allowOnline {
		options = append(options, setupOption{
			"Online PvP", BattleSetup{Mode: multiplayer.MatchModeOnlinePvP},
		})
	}

	return BattleSetupModel{
		title:     title,
		options:   options,
		cursor:    1, // Normal is the default
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m BattleSetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m BattleSetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m BattleSetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = m.options[m.cursor].setup
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, nil
	}

	return m, nil
}

// View renders the opponent selection.
func (m BattleSetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(strings.ToUpper(m.title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select your opponent:", m.width))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, opt.label), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m BattleSetupModel) Selected() *BattleSetup {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsChoosing returns true if still in selection mode.
func (m BattleSetupModel) IsChoosing() bool {
	return m.choosing
}

// IsQuitting returns true if user wants to quit.
func (m BattleSetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m BattleSetupModel) WantsBack() bool {
	return m.back
}

// RunBattleSetup runs the battle setup screen and returns the selection.
// Returns nil when the user backed out or quit.
func RunBattleSetup(title string, cfg core.RuntimeConfig, allowOnline bool) (*BattleSetup, core.RuntimeConfig, error) {
	model := NewBattleSetupModel(title, cfg.ScreenW, cfg.ScreenH, allowOnline)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(BattleSetupModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
