package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/go-pipeline-lag/internal/latency"
	"github.com/randomizedcoder/go-pipeline-lag/internal/pairstats"
)

// Model represents the TUI state. The analysis is finished before the TUI
// starts, so the model only navigates static results.
type Model struct {
	logDir string

	pairLabels  []string
	pairResults map[string]pairstats.Result
	stages      []latency.StageSummary

	cursor   int
	width    int
	height   int
	quitting bool
}

// Config holds the results handed to the TUI.
type Config struct {
	LogDir      string
	PairLabels  []string
	PairResults map[string]pairstats.Result
	Stages      []latency.StageSummary
}

// New creates a new TUI model.
func New(cfg Config) Model {
	return Model{
		logDir:      cfg.LogDir,
		pairLabels:  cfg.PairLabels,
		pairResults: cfg.PairResults,
		stages:      cfg.Stages,
		width:       80,
		height:      24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.pairLabels)-1 {
				m.cursor++
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// Selected returns the currently selected pair result, if any.
func (m Model) Selected() (pairstats.Result, bool) {
	if len(m.pairLabels) == 0 || m.cursor >= len(m.pairLabels) {
		return pairstats.Result{}, false
	}
	r, ok := m.pairResults[m.pairLabels[m.cursor]]
	return r, ok
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
