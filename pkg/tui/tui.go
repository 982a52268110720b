// Package tui provides a terminal user interface for snowflake2midi
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/snowflake2midi/pkg/config"
	"github.com/james-see/snowflake2midi/pkg/converter"
	"github.com/james-see/snowflake2midi/pkg/converter/voices"
	"github.com/james-see/snowflake2midi/pkg/fractal"
)

// Ice-inspired color scheme
var (
	iceBlue    = lipgloss.Color("#7FDBFF")
	frostWhite = lipgloss.Color("#F0F8FF")
	silverGray = lipgloss.Color("#C0C0C0")
	deepNavy   = lipgloss.Color("#001F3F")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(iceBlue).
			Background(deepNavy).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(iceBlue).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(frostWhite).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4136")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(iceBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(iceBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StatePathInput
	StateExporting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Format      converter.Format
	All         bool
}

var menuItems = []MenuItem{
	{Title: "Export MIDI", Description: "Render lead and harmony tracks as a .mid file", Format: converter.FormatMIDI},
	{Title: "Export score", Description: "Write the ordered event list as JSON", Format: converter.FormatJSON},
	{Title: "Export curve", Description: "Write the curve points as CSV", Format: converter.FormatCSV},
	{Title: "Export all", Description: "Write MIDI, score and curve into a directory", All: true},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state     State
	menuIndex int
	settings  *config.Settings
	input     textinput.Model
	spinner   spinner.Model
	selected  MenuItem
	written   []string
	points    int
	events    int
	seconds   float64
	err       error
	width     int
	height    int
}

// exportDoneMsg signals export completion
type exportDoneMsg struct {
	written []string
	points  int
	events  int
	seconds float64
	err     error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(iceBlue)

	return Model{
		state:    StateMenu,
		settings: settings,
		input:    ti,
		spinner:  s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The text input needs every message while it has focus.
	if m.state == StatePathInput {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				m.input.Blur()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			case "enter":
				m.state = StateExporting
				m.input.Blur()
				return m, tea.Batch(m.spinner.Tick, m.performExport(strings.TrimSpace(m.input.Value())))
			}
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case exportDoneMsg:
		m.state = StateResult
		m.written = msg.written
		m.points = msg.points
		m.events = msg.events
		m.seconds = msg.seconds
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "left", "h":
		if m.settings.Order > 0 {
			m.settings.Order--
		}
	case "right", "l":
		if m.settings.MaxOrder <= 0 || m.settings.Order < m.settings.MaxOrder {
			m.settings.Order++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.selected = menuItems[m.menuIndex]
		m.state = StatePathInput

		if m.selected.All {
			m.input.SetValue(m.settings.OutputDir)
		} else {
			m.input.SetValue(filepath.Join(m.settings.OutputDir, "snowflake"+m.selected.Format.Extension()))
		}
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.written = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) request() converter.Request {
	return converter.Request{
		Order:           m.settings.Order,
		Scale:           m.settings.Scale,
		DurationSeconds: m.settings.DurationSeconds,
		ClampHarmony:    m.settings.ClampHarmony,
	}
}

func (m Model) performExport(target string) tea.Cmd {
	req := m.request()
	item := m.selected
	settings := *m.settings

	return func() tea.Msg {
		if target == "" {
			return exportDoneMsg{err: fmt.Errorf("no output path given")}
		}

		conv := converter.New(
			voices.New("Lead", settings.LeadProgram, voices.LeadChannel),
			voices.New("Harmony", settings.HarmonyProgram, voices.HarmonyChannel),
		)
		conv.SetTicksPerQuarter(settings.TicksPerQuarter)

		res, err := converter.Build(req)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		done := exportDoneMsg{
			points:  res.Curve.Len(),
			events:  res.Score.Len(),
			seconds: res.Score.LeadSeconds(),
		}

		if item.All {
			paths, err := conv.WriteAll(context.Background(), res, target, "snowflake")
			if err != nil {
				return exportDoneMsg{err: err}
			}
			for _, f := range converter.GetSupportedFormats() {
				done.written = append(done.written, paths[f])
			}
			return done
		}

		if converter.DetectFormat(target) != item.Format {
			target += item.Format.Extension()
		}
		if err := conv.WriteFile(res, target); err != nil {
			return exportDoneMsg{err: err}
		}
		done.written = []string{target}
		return done
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	// Header
	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StatePathInput:
		s.WriteString(m.viewPathInput())
	case StateExporting:
		s.WriteString(m.viewExporting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	// Footer help
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • ←/→: order • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SNOWFLAKE SCORE "))
	s.WriteString("\n")
	s.WriteString(statusStyle.Render(fmt.Sprintf("order %d • %d points • %.1fs • scale %g",
		m.settings.Order, fractal.PointCount(m.settings.Order), m.settings.DurationSeconds, m.settings.Scale)))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(frostWhite).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewPathInput() string {
	var s strings.Builder

	label := "OUTPUT FILE"
	if m.selected.All {
		label = "OUTPUT DIRECTORY"
	}
	s.WriteString(titleStyle.Render(" " + label + " "))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: export • esc: back to menu"))

	return s.String()
}

func (m Model) viewExporting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" EXPORTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s %s...\n", m.spinner.View(), m.selected.Title))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  order %d → %d points", m.settings.Order, fractal.PointCount(m.settings.Order))))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Export failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Export complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Points: %d\n", m.points))
		s.WriteString(fmt.Sprintf("Events: %d\n", m.events))
		s.WriteString(fmt.Sprintf("Lead:   %.2fs at 90 BPM\n", m.seconds))
		for _, path := range m.written {
			s.WriteString(fmt.Sprintf("Output: %s\n", path))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   ___ _ __   _____      _____ _       _        ____  __  __ ___ ____ ___
  / __| '_ \ / _ \ \ /\ / / __| | __ _| | _____|___ \|  \/  |_ _|  _ \_ _|
  \__ \ | | | (_) \ V  V /| _|| |/ _' | |/ / -_) __) | |\/| || || | | | |
  |___/_| |_|\___/ \_/\_/ |_| |_|\__,_|_|\_\___|/ __/|_|  |_|___|____/___|
                                               |_____|
`
	return lipgloss.NewStyle().Foreground(iceBlue).Render(logo)
}

// Run starts the TUI application
func Run(settings *config.Settings) error {
	p := tea.NewProgram(New(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
