package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-armada/internal/registry"
	"github.com/vovakirdan/tui-armada/internal/storage"
)

// Battle log layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show board list sidebar
	sidebarWidth       = 22  // Width of board list sidebar
	maxLogEntries      = 100 // Max records to load
)

// onlineBoardID marks the pseudo-board listing online PvP matches.
const onlineBoardID = "online"

// logBoard is one selectable page of the battle log.
type logBoard struct {
	ID    string
	Title string
}

// BattleLogKeyMap defines the key bindings for the battle log.
type BattleLogKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Select    key.Binding
	Back      key.Binding
	Quit      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BattleLogKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.PrevBoard, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k BattleLogKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextBoard, k.PrevBoard},
		{k.Back, k.Quit},
	}
}

// DefaultBattleLogKeyMap returns default key bindings.
func DefaultBattleLogKeyMap() BattleLogKeyMap {
	return BattleLogKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev board"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next board"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev board"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BattleLogModel is the Bubble Tea model for the battle log screen. It
// pages through one board per battle mode plus one for online matches.
type BattleLogModel struct {
	boards      []logBoard
	boardCursor int
	store       *storage.Store
	battles     []storage.BattleRecord
	matches     []storage.OnlineMatchResult
	stats       *storage.BattleStats
	table       table.Model
	help        help.Model
	keys        BattleLogKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show board list sidebar
}

// NewBattleLogModel creates a new battle log model.
func NewBattleLogModel(store *storage.Store, width, height int) BattleLogModel {
	games := registry.List()
	boards := make([]logBoard, 0, len(games)+1)
	for _, g := range games {
		boards = append(boards, logBoard{ID: g.ID, Title: g.Title})
	}
	boards = append(boards, logBoard{ID: onlineBoardID, Title: "Online Matches"})

	keys := DefaultBattleLogKeyMap()
	h := help.New()
	h.ShowAll = false

	m := BattleLogModel{
		boards:      boards,
		boardCursor: 0,
		store:       store,
		keys:        keys,
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	// Initialize table
	m.table = m.createTable()

	// Load records for first board
	if len(m.boards) > 0 {
		m.loadBoard(m.boards[0].ID)
	}

	return m
}

// onlineSelected reports whether the current board is the online one.
func (m *BattleLogModel) onlineSelected() bool {
	return len(m.boards) > 0 && m.boards[m.boardCursor].ID == onlineBoardID
}

// createTable creates a new table with columns for the current board.
func (m *BattleLogModel) createTable() table.Model {
	var columns []table.Column
	if m.onlineSelected() {
		columns = []table.Column{
			{Title: "Result", Width: 10},
			{Title: "Score", Width: 9},
			{Title: "Reason", Width: 22},
			{Title: "Date", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "Result", Width: 9},
			{Title: "Hits", Width: 6},
			{Title: "Shots", Width: 7},
			{Title: "Acc", Width: 6},
			{Title: "Date", Width: 14},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(m.height-9), // Leave room for header, stats, help, margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadBoard loads records for the given board ID.
func (m *BattleLogModel) loadBoard(boardID string) {
	m.battles = nil
	m.matches = nil
	m.stats = nil

	if m.store != nil {
		if boardID == onlineBoardID {
			if matches, err := m.store.RecentOnlineMatches(maxLogEntries); err == nil {
				m.matches = matches
			}
		} else {
			if battles, err := m.store.RecentBattles(boardID, maxLogEntries); err == nil {
				m.battles = battles
			}
			if stats, err := m.store.BattleStats(boardID); err == nil {
				m.stats = stats
			}
		}
	}

	m.table = m.createTable()
	m.updateTableRows()
}

// updateTableRows updates the table with current records.
func (m *BattleLogModel) updateTableRows() {
	var rows []table.Row

	if m.onlineSelected() {
		rows = make([]table.Row, len(m.matches))
		for i, r := range m.matches {
			result := "Draw"
			if r.WinnerSession == r.Player1Session && r.WinnerSession != "" {
				result = "P1 won"
			} else if r.WinnerSession == r.Player2Session && r.WinnerSession != "" {
				result = "P2 won"
			}
			rows[i] = table.Row{
				result,
				fmt.Sprintf("%d : %d", r.Score1, r.Score2),
				r.EndReason,
				r.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	} else {
		rows = make([]table.Row, len(m.battles))
		for i, r := range m.battles {
			result := "Defeat"
			if r.Won {
				result = "Victory"
			}
			acc := "-"
			if r.Shots > 0 {
				acc = fmt.Sprintf("%d%%", r.Hits*100/r.Shots)
			}
			rows[i] = table.Row{
				result,
				fmt.Sprintf("%d", r.Hits),
				fmt.Sprintf("%d", r.Shots),
				acc,
				r.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	}

	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the battle log model.
func (m BattleLogModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the battle log.
func (m BattleLogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextBoard), key.Matches(msg, m.keys.Right):
			if len(m.boards) > 0 {
				m.boardCursor = (m.boardCursor + 1) % len(m.boards)
				m.loadBoard(m.boards[m.boardCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard), key.Matches(msg, m.keys.Left):
			if len(m.boards) > 0 {
				m.boardCursor--
				if m.boardCursor < 0 {
					m.boardCursor = len(m.boards) - 1
				}
				m.loadBoard(m.boards[m.boardCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the battle log.
func (m BattleLogModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "BATTLE LOG"
	if len(m.boards) > 0 {
		title = fmt.Sprintf("BATTLE LOG - %s", m.boards[m.boardCursor].Title)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: board tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Campaign record for the selected mode
	if m.stats != nil && m.stats.Battles > 0 {
		summary := fmt.Sprintf("%d battles | %d won | best accuracy %.0f%% | avg %.1f shots",
			m.stats.Battles, m.stats.Wins, m.stats.BestAccuracy, m.stats.AvgShots)
		b.WriteString("\n")
		b.WriteString(centerText(summary, m.width))
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the battle log with sidebar for board selection.
func (m BattleLogModel) renderWideLayout() string {
	// Sidebar (board list)
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Boards\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, board := range m.boards {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.boardCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := board.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	sidebarRendered := sidebarStyle.Render(sidebar.String())

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableContent := m.renderTableContent()
	tableRendered := tableStyle.Render(tableContent)

	// Join horizontally
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders the battle log with board tabs above the table.
func (m BattleLogModel) renderNarrowLayout() string {
	var b strings.Builder

	// Board tabs (horizontal)
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.boards))
	for i, board := range m.boards {
		shortName := board.Title
		if len(shortName) > 12 {
			shortName = shortName[:11] + "."
		}
		if i == m.boardCursor {
			tabs[i] = activeTabStyle.Render(shortName)
		} else {
			tabs[i] = tabStyle.Render(" " + shortName + " ")
		}
	}

	// Wrap tabs if needed
	tabLine := strings.Join(tabs, " ")
	if len(tabLine) > m.width-4 {
		// Just show current board with arrows
		current := m.boards[m.boardCursor].Title
		tabLine = fmt.Sprintf("< %s >", current)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m BattleLogModel) renderTableContent() string {
	empty := len(m.battles) == 0
	if m.onlineSelected() {
		empty = len(m.matches) == 0
	}

	if empty {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No battles recorded yet.\nFire a few salvos first!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m BattleLogModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m BattleLogModel) IsQuitting() bool {
	return m.quitting
}

// RunBattleLog runs the battle log screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunBattleLog(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewBattleLogModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(BattleLogModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
