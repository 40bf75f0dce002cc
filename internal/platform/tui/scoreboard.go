package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ascii-tilemap/internal/registry"
	"github.com/vovakirdan/ascii-tilemap/internal/storage"
)

const (
	maxScores      = 100
	recentSessions = 20
)

// boardView selects what the scoreboard table lists.
type boardView int

const (
	viewScores boardView = iota
	viewSessions
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Next       key.Binding
	Prev       key.Binding
	ToggleView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.ToggleView, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.ToggleView, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Next:       key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next program")),
		Prev:       key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev program")),
		ToggleView: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scores/sessions")),
		Back:       key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows the stored scores of each program, or its recent
// sessions with how much drawing reached the screen per frame.
type ScoreboardModel struct {
	programs  []registry.GameInfo
	cursor    int
	view      boardView
	store     *storage.Store
	scores    []storage.ScoreEntry
	sessions  []storage.SessionRecord
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		programs: registry.List(),
		store:    store,
		keys:     DefaultScoreboardKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
	m.help.Width = width
	m.reload()
	return m
}

// columns sizes the table for the current view and width.
func (m ScoreboardModel) columns() []table.Column {
	if m.view == viewSessions {
		return []table.Column{
			{Title: "Date", Width: 13},
			{Title: "Backend", Width: 9},
			{Title: "Frames", Width: 8},
			{Title: "Time", Width: 8},
			{Title: "Writes/f", Width: 9},
			{Title: "Uploads/f", Width: 9},
		}
	}
	dateW := min(max(m.width-34, 12), 20)
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 12},
		{Title: "Date", Width: dateW},
	}
}

func (m ScoreboardModel) newTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // title, tabs, summary, help
	)

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

// reload fetches the rows of the selected program and rebuilds the table.
func (m *ScoreboardModel) reload() {
	m.scores, m.sessions = nil, nil
	if m.store != nil && len(m.programs) > 0 {
		id := m.programs[m.cursor].ID
		if scores, err := m.store.TopScores(id, maxScores); err == nil {
			m.scores = scores
		}
		if sessions, err := m.store.RecentSessions(id, recentSessions); err == nil {
			m.sessions = sessions
		}
	}

	m.table = m.newTable()
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

func (m ScoreboardModel) rows() []table.Row {
	if m.view == viewSessions {
		rows := make([]table.Row, len(m.sessions))
		for i, s := range m.sessions {
			rows[i] = table.Row{
				s.CreatedAt.Format("Jan 02 15:04"),
				s.Backend,
				fmt.Sprint(s.Frames),
				s.Duration.Round(time.Second).String(),
				fmt.Sprintf("%.1f", ratio(s.TileWrites, s.Frames)),
				fmt.Sprintf("%.2f", ratio(s.Remeshes, s.Frames)),
			}
		}
		return rows
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprint(s.Score),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

func ratio(n, frames int64) float64 {
	if frames == 0 {
		return 0
	}
	return float64(n) / float64(frames)
}

// summary averages the renderer counters of the loaded sessions.
func (m ScoreboardModel) summary() string {
	if len(m.sessions) == 0 {
		return "No render sessions recorded."
	}
	var frames, writes, remeshes int64
	for _, s := range m.sessions {
		frames += s.Frames
		writes += s.TileWrites
		remeshes += s.Remeshes
	}
	return fmt.Sprintf("%d sessions, %d frames: %.1f tile writes and %.2f chunk uploads per frame",
		len(m.sessions), frames, ratio(writes, frames), ratio(remeshes, frames))
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			if n := len(m.programs); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			if n := len(m.programs); n > 0 {
				m.cursor = (m.cursor + n - 1) % n
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleView):
			m.view = 1 - m.view
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if m.view == viewSessions {
		title = "RENDER SESSIONS"
	}
	if len(m.programs) > 0 {
		title += " - " + m.programs[m.cursor].Title
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(title),
		"",
		m.tabs(),
		"",
		boxStyle.Render(m.tableOrEmpty()),
		dimStyle.Render(m.summary()),
		dimStyle.Render(m.help.View(m.keys)),
	)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
}

// tabs renders the program names, or only the selected one when they do not
// fit on one line.
func (m ScoreboardModel) tabs() string {
	idle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	names := make([]string, len(m.programs))
	for i, p := range m.programs {
		if i == m.cursor {
			names[i] = active.Render(p.Title)
		} else {
			names[i] = idle.Render(p.Title)
		}
	}
	line := strings.Join(names, " ")
	if lipgloss.Width(line) > m.width-4 && len(m.programs) > 0 {
		return fmt.Sprintf("‹ %s ›", m.programs[m.cursor].Title)
	}
	return line
}

func (m ScoreboardModel) tableOrEmpty() string {
	empty := len(m.scores) == 0
	text := "No scores recorded yet.\nPlay a program to set a high score!"
	if m.view == viewSessions {
		empty = len(m.sessions) == 0
		text = "No sessions recorded yet."
	}
	if empty {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render(text)
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
