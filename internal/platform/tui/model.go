package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/platform/session"
	"github.com/vovakirdan/ascii-tilemap/internal/registry"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for running one tilemap program.
// Each tick runs the session loop; View shows the composed screen.
type Model struct {
	session    *session.Session
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given session.
func NewModel(s *session.Session) Model {
	h := help.New()
	h.ShowAll = false

	return Model{
		session:    s,
		keys:       DefaultKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the tick loop. The session already reset the game.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.session.Config().TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		// Back to menu when the game is over or paused
		state := m.session.State()
		if state.GameOver || state.Paused {
			m.backToMenu = true
			return m, tea.Quit
		}
	}

	m.inputFrame.Set(action)
	return m, nil
}

// handleTick runs one simulation tick and one frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	m.session.Tick(context.Background(), m.inputFrame)

	// Clear input for next frame
	m.inputFrame.Clear()

	if m.session.State().Quit {
		m.quitting = true
		return m, tea.Quit
	}

	// Continue ticking
	return m, tickCmd(m.session.Config().TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".ascii", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.session.Game().ID(), timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.session.Screen().String()), 0o600)
}

// View renders the composed screen with the help footer under it.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		RenderScreen(m.session.Screen()),
		helpStyle.Render(m.help.View(m.keys)),
	)
	if m.width == 0 || m.height == 0 {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the terminal until the user quits or goes back, then
// stores the session record. backToMenu reports which of the two happened.
func Run(game registry.Game, cfg core.RuntimeConfig, opts session.Options) (backToMenu bool, err error) {
	if opts.Backend == "" {
		opts.Backend = "tui"
	}
	s, err := session.New(game, cfg, opts)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(
		NewModel(s),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, runErr := p.Run()
	if m, ok := final.(Model); ok {
		backToMenu = m.BackToMenu()
	}
	return backToMenu, errors.Join(runErr, s.Close())
}
